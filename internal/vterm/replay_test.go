package vterm

import "testing"

func TestReplayDeterminism(t *testing.T) {
	steps := []ReplayStep{
		{Output: "\x1b[31mhello\r\n"},
		{Output: "世界"},
		{Resize: &ResizeStep{Cols: 20}},
		{Output: "\x1b[1;44m tail"},
	}

	a, err := Replay(steps, 10, 4)
	if err != nil {
		t.Fatalf("Replay failed: %v", err)
	}
	b, err := Replay(steps, 10, 4)
	if err != nil {
		t.Fatalf("Replay failed: %v", err)
	}

	if len(a) != len(steps) {
		t.Fatalf("got %d frames, want one per step (%d)", len(a), len(steps))
	}
	for i := range a {
		if a[i].Hash == "" {
			t.Fatalf("frame %d has no hash", i)
		}
		if a[i].Hash != b[i].Hash {
			t.Errorf("frame %d hash diverged between runs", i)
		}
		if d := DiffFrames(a[i], b[i]); !d.Equal {
			t.Errorf("frame %d differs between runs: %v", i, d.Reasons)
		}
	}
}

func TestReplayResizeSemantics(t *testing.T) {
	frames, err := Replay([]ReplayStep{
		{Output: "abc"},
		{Resize: &ResizeStep{Rows: 6}}, // cols omitted: keep 10
		{Resize: &ResizeStep{}},        // fully empty: no-op
	}, 10, 4)
	if err != nil {
		t.Fatalf("Replay failed: %v", err)
	}

	if frames[1].Cols != 10 || frames[1].Rows != 6 {
		t.Errorf("frame 1 dims = %dx%d, want 10x6", frames[1].Cols, frames[1].Rows)
	}
	if frames[2].Cols != 10 || frames[2].Rows != 6 {
		t.Errorf("frame 2 dims = %dx%d, want unchanged 10x6", frames[2].Cols, frames[2].Rows)
	}
	if frames[1].Lines[0] != "abc" {
		t.Errorf("content lost across replay resize: %q", frames[1].Lines[0])
	}
}

func TestReplayInvalidDims(t *testing.T) {
	if _, err := Replay(nil, 0, 4); err == nil {
		t.Error("Replay with zero cols should fail")
	}
}
