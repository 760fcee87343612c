// Command glasspane runs a child process on a PTY and mirrors it through the
// terminal emulator, with scrollback paging and frame snapshots.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/jesseduffield/gocui"

	"github.com/glasspane/glasspane/internal/config"
	"github.com/glasspane/glasspane/internal/ptyhost"
	"github.com/glasspane/glasspane/internal/ui"
	"github.com/glasspane/glasspane/internal/version"
	"github.com/glasspane/glasspane/internal/vterm"
)

type viewer struct {
	mu          sync.Mutex
	term        *vterm.VTerm
	host        *ptyhost.Host
	cfg         *config.Config
	helpVisible bool
}

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Short())
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	command := cfg.Shell
	var args []string
	if flag.NArg() > 0 {
		command = flag.Arg(0)
		args = flag.Args()[1:]
	}

	g, err := gocui.NewGui(gocui.NewGuiOpts{
		OutputMode: gocui.OutputTrue,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing GUI: %v\n", err)
		os.Exit(1)
	}
	defer g.Close()

	maxX, maxY := g.Size()

	// Account for the frame and the status bar row
	termWidth := maxX - 2
	termHeight := maxY - 3
	if termWidth < 1 {
		termWidth = 80
	}
	if termHeight < 1 {
		termHeight = 24
	}

	term, err := vterm.New(termWidth, termHeight, vterm.WithScrollback(cfg.Scrollback))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating terminal: %v\n", err)
		os.Exit(1)
	}

	host, err := ptyhost.Start(command, args, termWidth, termHeight)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error starting %s: %v\n", command, err)
		os.Exit(1)
	}
	defer host.Close()

	vw := &viewer{term: term, host: host, cfg: cfg}

	// Feed child output into the emulator
	go func() {
		for chunk := range host.Output() {
			vw.mu.Lock()
			vw.term.Write(chunk)
			vw.mu.Unlock()
			g.Update(func(g *gocui.Gui) error { return nil })
		}
		// Child hung up; leave the loop
		g.Update(func(g *gocui.Gui) error {
			return gocui.ErrQuit
		})
	}()

	g.SetManagerFunc(vw.layout(command))

	if err := vw.setupKeybindings(g); err != nil {
		fmt.Fprintf(os.Stderr, "Error setting up keybindings: %v\n", err)
		os.Exit(1)
	}

	// Handle SIGINT/SIGTERM to ensure clean exit
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		g.Update(func(g *gocui.Gui) error {
			return gocui.ErrQuit
		})
	}()

	if err := g.MainLoop(); err != nil && !errors.Is(err, gocui.ErrQuit) && err.Error() != "quit" {
		fmt.Fprintf(os.Stderr, "Error in main loop: %v\n", err)
		os.Exit(1)
	}
}

func (vw *viewer) layout(title string) func(*gocui.Gui) error {
	firstCall := true
	lastWidth, lastHeight := 0, 0
	return func(g *gocui.Gui) error {
		maxX, maxY := g.Size()
		termWidth := maxX - 2
		termHeight := maxY - 3

		// Handle resize
		if termWidth != lastWidth || termHeight != lastHeight {
			if termWidth > 0 && termHeight > 0 {
				vw.mu.Lock()
				vw.term.Resize(termWidth, termHeight)
				vw.mu.Unlock()
				vw.host.Resize(termWidth, termHeight)
				lastWidth, lastHeight = termWidth, termHeight
			}
		}

		v, err := g.SetView("terminal", 0, 0, maxX-1, maxY-2, 0)
		if err != nil {
			if !errors.Is(err, gocui.ErrUnknownView) && err.Error() != "unknown view" {
				return err
			}
		}

		ui.ConfigureTerminalView(v, title, ui.ColorAttr(vw.cfg.Theme.Colors.FrameActive))
		v.Editor = gocui.EditorFunc(vw.terminalEditor)

		if firstCall {
			if _, err := g.SetCurrentView("terminal"); err != nil {
				return err
			}
			firstCall = false
		}

		vw.mu.Lock()
		frame := vw.term.Snapshot()
		vw.mu.Unlock()

		ui.RenderFrame(v, frame)

		if frame.Cursor.Visible && frame.Viewport.FollowOutput {
			v.SetCursor(frame.Cursor.Col, frame.Cursor.Row)
			g.Cursor = true
		} else {
			g.Cursor = false
		}

		sv, err := g.SetView("status", -1, maxY-2, maxX, maxY, 0)
		if err != nil {
			if !errors.Is(err, gocui.ErrUnknownView) && err.Error() != "unknown view" {
				return err
			}
		}
		ui.ConfigureStatusView(sv,
			ui.ColorAttr(vw.cfg.Theme.Colors.StatusBarBg),
			ui.ColorAttr(vw.cfg.Theme.Colors.StatusBarFg))
		sv.Clear()
		fmt.Fprint(sv, ui.RenderStatusBar(frame, maxX, version.Short()))

		if vw.helpVisible {
			if err := vw.layoutHelp(g, maxX, maxY); err != nil {
				return err
			}
			g.Cursor = false
		}

		return nil
	}
}

const helpViewName = "help"

// layoutHelp draws the help modal centered over the terminal view.
func (vw *viewer) layoutHelp(g *gocui.Gui, maxX, maxY int) error {
	x0, y0, x1, y1 := ui.ModalDimensions(maxX, maxY, 52, 16)

	v, err := g.SetView(helpViewName, x0, y0, x1, y1, 0)
	if err != nil {
		if !errors.Is(err, gocui.ErrUnknownView) && err.Error() != "unknown view" {
			return err
		}
	}

	v.Title = " Help "
	v.Frame = true
	v.Wrap = true
	v.Clear()
	fmt.Fprint(v, ui.HelpText())

	_, err = g.SetCurrentView(helpViewName)
	return err
}

// toggleHelp shows or hides the help modal.
func (vw *viewer) toggleHelp(g *gocui.Gui, v *gocui.View) error {
	vw.helpVisible = !vw.helpVisible
	if !vw.helpVisible {
		g.DeleteView(helpViewName)
		if _, err := g.SetCurrentView("terminal"); err != nil {
			return err
		}
	}
	return nil
}

// bind attaches a handler to a configured key string on the terminal view.
func bind(g *gocui.Gui, keyStr string, handler func(*gocui.Gui, *gocui.View) error) error {
	return bindView(g, "terminal", keyStr, handler)
}

// bindView attaches a handler to a configured key string on a named view.
func bindView(g *gocui.Gui, viewName, keyStr string, handler func(*gocui.Gui, *gocui.View) error) error {
	key, err := config.ParseKey(keyStr)
	if err != nil {
		return err
	}
	if key.IsRune() {
		return g.SetKeybinding(viewName, key.Rune(), key.Mod, handler)
	}
	return g.SetKeybinding(viewName, key.GocuiKey(), key.Mod, handler)
}

func (vw *viewer) setupKeybindings(g *gocui.Gui) error {
	quit := func(g *gocui.Gui, v *gocui.View) error {
		return gocui.ErrQuit
	}
	if err := bind(g, vw.cfg.Keys.Quit, quit); err != nil {
		return err
	}

	if err := bind(g, vw.cfg.Keys.ScrollUp, func(g *gocui.Gui, v *gocui.View) error {
		vw.scroll(-vw.cfg.ScrollStep)
		return nil
	}); err != nil {
		return err
	}
	if err := bind(g, vw.cfg.Keys.ScrollDown, func(g *gocui.Gui, v *gocui.View) error {
		vw.scroll(vw.cfg.ScrollStep)
		return nil
	}); err != nil {
		return err
	}
	if err := bind(g, vw.cfg.Keys.Follow, func(g *gocui.Gui, v *gocui.View) error {
		vw.mu.Lock()
		vw.term.SetFollowOutput(true)
		vw.mu.Unlock()
		return nil
	}); err != nil {
		return err
	}
	if err := bind(g, vw.cfg.Keys.Snapshot, func(g *gocui.Gui, v *gocui.View) error {
		vw.dumpSnapshot()
		return nil
	}); err != nil {
		return err
	}

	// The help key toggles the modal from either view; esc also closes it.
	if err := bind(g, vw.cfg.Keys.Help, vw.toggleHelp); err != nil {
		return err
	}
	if err := bindView(g, helpViewName, vw.cfg.Keys.Help, vw.toggleHelp); err != nil {
		return err
	}
	return bindView(g, helpViewName, "esc", vw.toggleHelp)
}

func (vw *viewer) scroll(delta int) {
	vw.mu.Lock()
	vw.term.ScrollViewport(delta)
	vw.mu.Unlock()
}

// dumpSnapshot writes the current frame's hash and text to the data dir.
func (vw *viewer) dumpSnapshot() {
	vw.mu.Lock()
	frame := vw.term.Snapshot()
	vw.mu.Unlock()

	if err := os.MkdirAll(vw.cfg.SnapshotDir(), 0755); err != nil {
		return
	}
	name := fmt.Sprintf("frame-%d.txt", time.Now().UnixNano())
	body := frame.Hash + "\n" + vterm.RenderText(frame) + "\n"
	os.WriteFile(filepath.Join(vw.cfg.SnapshotDir(), name), []byte(body), 0644)
}

// specialKeySeqs maps gocui keys to the byte sequences sent to the child.
var specialKeySeqs = map[gocui.Key][]byte{
	gocui.KeyEnter:      []byte("\r"),
	gocui.KeyTab:        []byte("\t"),
	gocui.KeyEsc:        []byte("\x1b"),
	gocui.KeyBackspace:  []byte("\x7f"),
	gocui.KeyBackspace2: []byte("\x7f"),
	gocui.KeyDelete:     []byte("\x1b[3~"),
	gocui.KeyArrowUp:    []byte("\x1b[A"),
	gocui.KeyArrowDown:  []byte("\x1b[B"),
	gocui.KeyArrowRight: []byte("\x1b[C"),
	gocui.KeyArrowLeft:  []byte("\x1b[D"),
	gocui.KeyHome:       []byte("\x1b[H"),
	gocui.KeySpace:      []byte(" "),
}

// terminalEditor forwards keyboard input to the child process.
func (vw *viewer) terminalEditor(v *gocui.View, key gocui.Key, ch rune, mod gocui.Modifier) bool {
	if ch != 0 && mod == gocui.ModNone {
		vw.host.Write([]byte(string(ch)))
		return true
	}
	if seq, ok := specialKeySeqs[key]; ok {
		vw.host.Write(seq)
		return true
	}
	// Ctrl combinations map directly onto control bytes
	if key > 0 && key < 0x20 {
		vw.host.Write([]byte{byte(key)})
		return true
	}
	return false
}
