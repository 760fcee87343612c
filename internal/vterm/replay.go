package vterm

// ReplayStep is one step of a deterministic replay: either raw output fed to
// the terminal or a resize. A resize with an omitted dimension keeps the
// prior value for that dimension; a fully empty resize is a no-op.
type ReplayStep struct {
	Output string      `yaml:"output,omitempty"`
	Resize *ResizeStep `yaml:"resize,omitempty"`
}

// ResizeStep carries the new dimensions of a resize step. Zero means "keep
// the current value".
type ResizeStep struct {
	Cols int `yaml:"cols,omitempty"`
	Rows int `yaml:"rows,omitempty"`
}

// Replay constructs a fresh terminal of the given dimensions, applies the
// steps in order, and captures one frame per step. Running the same steps
// twice yields identical frame sequences, including hashes.
func Replay(steps []ReplayStep, cols, rows int) ([]Frame, error) {
	term, err := New(cols, rows)
	if err != nil {
		return nil, err
	}
	frames := make([]Frame, 0, len(steps))
	for _, step := range steps {
		if step.Resize != nil {
			c, r := term.Size()
			if step.Resize.Cols > 0 {
				c = step.Resize.Cols
			}
			if step.Resize.Rows > 0 {
				r = step.Resize.Rows
			}
			term.Resize(c, r)
		}
		if step.Output != "" {
			term.WriteString(step.Output)
		}
		frames = append(frames, term.Snapshot())
	}
	return frames, nil
}
