package vterm

import (
	"reflect"
	"testing"
)

func TestDiffFramesEqual(t *testing.T) {
	a := mustNew(t, 10, 3)
	b := mustNew(t, 10, 3)
	a.WriteString("\x1b[31mhello")
	b.WriteString("\x1b[31mhello")

	d := DiffFrames(a.Snapshot(), b.Snapshot())
	if !d.Equal {
		t.Errorf("identical frames differ: %v", d.Reasons)
	}
	if len(d.Reasons) != 0 {
		t.Errorf("equal result carries reasons: %v", d.Reasons)
	}
}

func TestDiffFramesDimensionsOnly(t *testing.T) {
	term := mustNew(t, 10, 3)
	term.WriteString("hi")
	a := term.Snapshot()
	b := a
	b.Cols = 12

	d := DiffFrames(a, b)
	if d.Equal {
		t.Fatal("frames with differing cols reported equal")
	}
	if !reflect.DeepEqual(d.Reasons, []string{"dimensions-mismatch"}) {
		t.Errorf("reasons = %v, want exactly [dimensions-mismatch]", d.Reasons)
	}
}

func TestDiffFramesStyleOnly(t *testing.T) {
	a := mustNew(t, 10, 2)
	b := mustNew(t, 10, 2)
	a.WriteString("x")
	b.WriteString("\x1b[1mx")

	d := DiffFrames(a.Snapshot(), b.Snapshot())
	if d.Equal {
		t.Fatal("bold-only divergence reported equal")
	}
	if !reflect.DeepEqual(d.Reasons, []string{"cell-0-0-mismatch"}) {
		t.Errorf("reasons = %v, want exactly [cell-0-0-mismatch]", d.Reasons)
	}
}

func TestDiffFramesTextSuppressesCellReasons(t *testing.T) {
	a := mustNew(t, 10, 2)
	b := mustNew(t, 10, 2)
	a.WriteString("abc")
	b.WriteString("\x1b[31mxyz")

	d := DiffFrames(a.Snapshot(), b.Snapshot())
	for _, r := range d.Reasons {
		if r == "cell-0-0-mismatch" {
			t.Errorf("cell reason emitted for a row whose text already differs: %v", d.Reasons)
		}
	}
	found := false
	for _, r := range d.Reasons {
		if r == "line-0-text-mismatch" {
			found = true
		}
	}
	if !found {
		t.Errorf("reasons = %v, want line-0-text-mismatch", d.Reasons)
	}
}

func TestDiffFramesCursorAndScreen(t *testing.T) {
	a := mustNew(t, 10, 2)
	b := mustNew(t, 10, 2)
	b.WriteString("\x1b[?25l\x1b[4 q\x1b[2;2H\x1b[?1049h\x1b[2;2H\x1b[?25l\x1b[4 q")

	d := DiffFrames(a.Snapshot(), b.Snapshot())
	wantReasons := map[string]bool{
		"active-screen-mismatch":     false,
		"cursor-position-mismatch":   false,
		"cursor-visibility-mismatch": false,
		"cursor-style-mismatch":      false,
	}
	for _, r := range d.Reasons {
		if _, ok := wantReasons[r]; ok {
			wantReasons[r] = true
		}
	}
	for r, seen := range wantReasons {
		if !seen {
			t.Errorf("missing reason %s in %v", r, d.Reasons)
		}
	}
}

func TestDiffFramesLineCount(t *testing.T) {
	a := mustNew(t, 10, 3)
	b := mustNew(t, 10, 2)

	d := DiffFrames(a.Snapshot(), b.Snapshot())
	found := false
	for _, r := range d.Reasons {
		if r == "line-2-missing" {
			found = true
		}
	}
	if !found {
		t.Errorf("reasons = %v, want line-2-missing", d.Reasons)
	}
}
