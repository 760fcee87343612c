// Package ptyhost runs a child process on a pseudo-terminal and exposes its
// output as a stream of byte chunks suitable for feeding a terminal emulator.
package ptyhost

import (
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"

	"github.com/creack/pty"
	"github.com/go-errors/errors"
)

// Host manages one child process attached to a PTY.
type Host struct {
	cmd      *exec.Cmd
	pty      *os.File
	outputCh chan []byte
	doneCh   chan struct{}
	mu       sync.Mutex
	closed   sync.Once
	waitErr  error
	waitOnce sync.Once
}

// Start launches command under a new PTY of the given size and begins
// streaming its output.
func Start(command string, args []string, cols, rows int) (*Host, error) {
	if command == "" {
		return nil, errors.New("empty command")
	}

	h := &Host{
		cmd:      exec.Command(command, args...),
		outputCh: make(chan []byte, 100),
		doneCh:   make(chan struct{}),
	}

	var err error
	h.pty, err = pty.StartWithSize(h.cmd, &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(cols),
	})
	if err != nil {
		return nil, errors.Errorf("start pty: %w", err)
	}

	go h.readOutput()

	return h, nil
}

// Output returns the channel of output chunks. It is closed when the child's
// side of the PTY closes.
func (h *Host) Output() <-chan []byte {
	return h.outputCh
}

// readOutput copies PTY output onto the channel in fixed-size reads. Each
// chunk is an independent copy; the caller may retain it.
func (h *Host) readOutput() {
	defer close(h.outputCh)

	buf := make([]byte, 32*1024)
	for {
		n, err := h.pty.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			select {
			case h.outputCh <- chunk:
			case <-h.doneCh:
				return
			}
		}
		if err != nil {
			// EIO is the normal Linux signal that the child hung up.
			return
		}
	}
}

// Write sends input bytes to the child, typically keyboard data.
func (h *Host) Write(p []byte) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pty.Write(p)
}

// Resize changes the PTY window size. The kernel delivers SIGWINCH to the
// child's foreground process group.
func (h *Host) Resize(cols, rows int) error {
	if cols <= 0 || rows <= 0 {
		return errors.Errorf("invalid pty size %dx%d", cols, rows)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := pty.Setsize(h.pty, &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(cols),
	}); err != nil {
		return errors.Errorf("resize pty: %w", err)
	}
	return nil
}

// Signal delivers a signal to the child process.
func (h *Host) Signal(sig os.Signal) error {
	if h.cmd.Process == nil {
		return errors.New("process not started")
	}
	return h.cmd.Process.Signal(sig)
}

// Wait blocks until the child exits and returns its exit error, if any.
// Safe to call from multiple goroutines.
func (h *Host) Wait() error {
	h.waitOnce.Do(func() {
		h.waitErr = h.cmd.Wait()
	})
	return h.waitErr
}

// ExitCode reports the child's exit code after Wait has returned: the status
// for a normal exit, 128 plus the signal number for a signal death.
func (h *Host) ExitCode() int {
	state := h.cmd.ProcessState
	if state == nil {
		return -1
	}
	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return 128 + int(ws.Signal())
	}
	return state.ExitCode()
}

// Close tears down the PTY and kills the child if it is still running.
func (h *Host) Close() error {
	h.closed.Do(func() {
		close(h.doneCh)
		if h.pty != nil {
			h.pty.Close()
		}
		if h.cmd.Process != nil {
			h.cmd.Process.Kill()
			h.Wait()
		}
	})
	return nil
}

// CopyOutput drains the output channel into w until the child hangs up.
func (h *Host) CopyOutput(w io.Writer) error {
	for chunk := range h.outputCh {
		if _, err := w.Write(chunk); err != nil {
			return errors.Errorf("copy output: %w", err)
		}
	}
	return nil
}
