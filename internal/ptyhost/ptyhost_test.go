package ptyhost

import (
	"bytes"
	"testing"

	"github.com/go-errors/errors"
)

func TestCopyOutputDrainsChannel(t *testing.T) {
	h := &Host{outputCh: make(chan []byte, 3)}
	h.outputCh <- []byte("abc")
	h.outputCh <- []byte("def")
	close(h.outputCh)

	var buf bytes.Buffer
	if err := h.CopyOutput(&buf); err != nil {
		t.Fatalf("CopyOutput: %v", err)
	}
	if got := buf.String(); got != "abcdef" {
		t.Errorf("CopyOutput wrote %q, want %q", got, "abcdef")
	}
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("sink closed")
}

func TestCopyOutputStopsOnWriteError(t *testing.T) {
	h := &Host{outputCh: make(chan []byte, 1)}
	h.outputCh <- []byte("abc")
	close(h.outputCh)

	if err := h.CopyOutput(failingWriter{}); err == nil {
		t.Error("CopyOutput ignored a write error")
	}
}
