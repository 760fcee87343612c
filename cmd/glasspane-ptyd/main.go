// Command glasspane-ptyd runs a child process on a PTY and bridges it to a
// framed byte protocol on stdin/stdout, for callers that cannot own a PTY
// themselves.
//
// Incoming frames carry input data, resizes, and a close request; every chunk
// of child output leaves as a DATA frame. The process exits with the child's
// exit code, or 128 plus the signal number if the child died on a signal.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"syscall"

	"github.com/glasspane/glasspane/internal/ptyhost"
	"github.com/glasspane/glasspane/internal/version"
)

func main() {
	cols := flag.Int("cols", 80, "initial terminal width")
	rows := flag.Int("rows", 24, "initial terminal height")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Short())
		return
	}

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: glasspane-ptyd [-cols N] [-rows N] command [args...]")
		os.Exit(2)
	}
	if *cols <= 0 || *rows <= 0 {
		fmt.Fprintf(os.Stderr, "invalid terminal size %dx%d\n", *cols, *rows)
		os.Exit(2)
	}

	host, err := ptyhost.Start(flag.Arg(0), flag.Args()[1:], *cols, *rows)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error starting %s: %v\n", flag.Arg(0), err)
		os.Exit(127)
	}

	go decodeInput(host)

	// Forward child output as DATA frames until the child hangs up.
	host.CopyOutput(&dataFrameWriter{out: bufio.NewWriter(os.Stdout)})

	host.Wait()
	code := host.ExitCode()
	host.Close()
	os.Exit(code)
}

// dataFrameWriter wraps each output chunk in a DATA frame and flushes it, so
// the peer sees child output as soon as it arrives.
type dataFrameWriter struct {
	out   *bufio.Writer
	frame []byte
}

func (w *dataFrameWriter) Write(p []byte) (int, error) {
	w.frame = ptyhost.AppendData(w.frame[:0], p)
	if _, err := w.out.Write(w.frame); err != nil {
		return 0, err
	}
	if err := w.out.Flush(); err != nil {
		return 0, err
	}
	return len(p), nil
}

// decodeInput drains stdin frames into the child. A CLOSE frame or stdin EOF
// hangs the child up so it can exit on its own terms.
func decodeInput(host *ptyhost.Host) {
	var dec ptyhost.Decoder
	buf := make([]byte, 32*1024)
	for {
		n, err := os.Stdin.Read(buf)
		if n > 0 {
			msgs, derr := dec.Feed(buf[:n])
			if derr != nil {
				fmt.Fprintf(os.Stderr, "protocol error: %v\n", derr)
				host.Signal(syscall.SIGHUP)
				return
			}
			for _, m := range msgs {
				switch m.Op {
				case ptyhost.OpData:
					host.Write(m.Data)
				case ptyhost.OpResize:
					if rerr := host.Resize(m.Cols, m.Rows); rerr == nil {
						host.Signal(syscall.SIGWINCH)
					}
				case ptyhost.OpClose:
					host.Signal(syscall.SIGHUP)
					return
				}
			}
		}
		if err != nil {
			if err != io.EOF {
				fmt.Fprintf(os.Stderr, "stdin error: %v\n", err)
			}
			host.Signal(syscall.SIGHUP)
			return
		}
	}
}
