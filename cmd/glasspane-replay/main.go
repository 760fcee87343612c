// Command glasspane-replay runs replay scripts through the terminal emulator
// and records or verifies the resulting frames.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"

	"github.com/glasspane/glasspane/internal/replayfile"
	"github.com/glasspane/glasspane/internal/version"
	"github.com/glasspane/glasspane/internal/vterm"
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: glasspane-replay <command> [flags] <script.yaml>

Commands:
  run      Replay a script and print the resulting frames
  record   Replay a script and write a golden file
  verify   Replay a script and compare it against a golden file

Run 'glasspane-replay <command> -h' for command flags.
`)
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	switch os.Args[1] {
	case "run":
		cmdRun(os.Args[2:])
	case "record":
		cmdRecord(os.Args[2:])
	case "verify":
		cmdVerify(os.Args[2:])
	case "-version", "--version", "version":
		fmt.Println(version.Short())
	default:
		usage()
	}
}

func cmdRun(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	ansi := fs.Bool("ansi", false, "render frames with colors and attributes")
	hash := fs.Bool("hash", false, "print only the frame hash per step")
	all := fs.Bool("all", false, "print every step, not just the final frame")
	watch := fs.Bool("watch", false, "re-run whenever the script file changes")
	fs.Parse(args)

	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "run: expected exactly one script file")
		os.Exit(2)
	}
	path := fs.Arg(0)

	run := func() error {
		script, err := replayfile.LoadScript(path)
		if err != nil {
			return err
		}
		frames, err := script.Run()
		if err != nil {
			return err
		}

		start := len(frames) - 1
		if *all {
			start = 0
		}
		for i := start; i < len(frames); i++ {
			if *all {
				fmt.Printf("--- step %d ---\n", i)
			}
			printFrame(frames[i], *ansi, *hash)
		}
		return nil
	}

	if *watch {
		watchAndRun(path, run)
		return
	}
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printFrame(f vterm.Frame, ansi, hashOnly bool) {
	if hashOnly {
		fmt.Println(f.Hash)
		return
	}
	if ansi {
		for row := 0; row < f.Rows; row++ {
			fmt.Println(vterm.RenderANSIRow(f, row, f.Cols))
		}
	} else {
		fmt.Println(vterm.RenderText(f))
	}
	fmt.Printf("# hash: %s\n", f.Hash)
}

func cmdRecord(args []string) {
	fs := flag.NewFlagSet("record", flag.ExitOnError)
	out := fs.String("out", "", "golden file to write (default: script path + .golden.yaml)")
	fs.Parse(args)

	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "record: expected exactly one script file")
		os.Exit(2)
	}
	path := fs.Arg(0)

	goldenPath := *out
	if goldenPath == "" {
		goldenPath = defaultGoldenPath(path)
	}

	script, err := replayfile.LoadScript(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	frames, err := script.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := replayfile.SaveGolden(goldenPath, replayfile.GoldenFromFrames(script, frames)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("recorded %d steps to %s\n", len(frames), goldenPath)
}

func cmdVerify(args []string) {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	goldenFlag := fs.String("golden", "", "golden file to compare against (default: script path + .golden.yaml)")
	watch := fs.Bool("watch", false, "re-verify whenever the script file changes")
	fs.Parse(args)

	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "verify: expected exactly one script file")
		os.Exit(2)
	}
	path := fs.Arg(0)

	goldenPath := *goldenFlag
	if goldenPath == "" {
		goldenPath = defaultGoldenPath(path)
	}

	verify := func() error {
		script, err := replayfile.LoadScript(path)
		if err != nil {
			return err
		}
		golden, err := replayfile.LoadGolden(goldenPath)
		if err != nil {
			return err
		}
		mismatches, err := replayfile.Verify(script, golden)
		if err != nil {
			return err
		}
		if len(mismatches) == 0 {
			fmt.Printf("ok: %d steps match\n", len(golden.Steps))
			return nil
		}
		for _, m := range mismatches {
			fmt.Printf("step %d: hash %s, want %s\n",
				m.Step, m.Actual.Hash, m.Expected.Hash)
			fmt.Print(unifiedDiff(goldenPath, m.Expected.Text, m.Actual.Text))
		}
		return fmt.Errorf("%d of %d steps diverged", len(mismatches), len(golden.Steps))
	}

	if *watch {
		watchAndRun(path, verify)
		return
	}
	if err := verify(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// unifiedDiff renders a unified diff between the recorded and replayed text.
// Hash-only divergence (identical text, differing styles) gets a note instead.
func unifiedDiff(goldenPath, expected, actual string) string {
	if expected == actual {
		return "  (text identical; styles, cursor, or viewport diverged)\n"
	}
	if !strings.HasSuffix(expected, "\n") {
		expected += "\n"
	}
	if !strings.HasSuffix(actual, "\n") {
		actual += "\n"
	}
	edits := myers.ComputeEdits(span.URIFromPath(goldenPath), expected, actual)
	return fmt.Sprint(gotextdiff.ToUnified("golden", "replay", expected, edits))
}

func defaultGoldenPath(scriptPath string) string {
	ext := filepath.Ext(scriptPath)
	return strings.TrimSuffix(scriptPath, ext) + ".golden.yaml"
}

// watchAndRun runs fn once, then again on every change to path until
// interrupted.
func watchAndRun(path string, fn func() error) {
	report := func() {
		if err := fn(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}
	report()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer watcher.Close()

	// Watch the directory: editors replace files on save, which drops a
	// watch placed on the file itself.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	abs, _ := filepath.Abs(path)
	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			evAbs, _ := filepath.Abs(ev.Name)
			if evAbs != abs {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				fmt.Printf("\n# %s changed\n", path)
				report()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
		}
	}
}
