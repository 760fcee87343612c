package vterm

import "fmt"

// DiffResult reports whether two frames are structurally identical and, if
// not, ordered machine-readable reasons for the divergence.
type DiffResult struct {
	Equal   bool
	Reasons []string
}

// DiffFrames structurally compares two frames: dimensions, active screen,
// cursor, per-line text, and — for lines whose text matches — per-cell style
// and width. Reason codes are stable across versions so conformance tests
// can assert on them.
func DiffFrames(a, b Frame) DiffResult {
	var reasons []string

	if a.Cols != b.Cols || a.Rows != b.Rows {
		reasons = append(reasons, "dimensions-mismatch")
	}
	if a.ActiveScreen != b.ActiveScreen {
		reasons = append(reasons, "active-screen-mismatch")
	}
	if a.Cursor.Row != b.Cursor.Row || a.Cursor.Col != b.Cursor.Col {
		reasons = append(reasons, "cursor-position-mismatch")
	}
	if a.Cursor.Visible != b.Cursor.Visible {
		reasons = append(reasons, "cursor-visibility-mismatch")
	}
	if a.Cursor.Style != b.Cursor.Style {
		reasons = append(reasons, "cursor-style-mismatch")
	}

	n := minInt(len(a.Lines), len(b.Lines))
	for i := n; i < len(a.Lines); i++ {
		reasons = append(reasons, fmt.Sprintf("line-%d-missing", i))
	}
	for i := n; i < len(b.Lines); i++ {
		reasons = append(reasons, fmt.Sprintf("line-%d-missing", i))
	}
	for i := 0; i < n; i++ {
		if a.Lines[i] != b.Lines[i] {
			reasons = append(reasons, fmt.Sprintf("line-%d-text-mismatch", i))
			continue
		}
		reasons = append(reasons, diffCells(a, b, i)...)
	}

	return DiffResult{Equal: len(reasons) == 0, Reasons: reasons}
}

// diffCells compares one row cell-by-cell. Only called when the plain text
// already matches, so any divergence here is style- or width-only.
func diffCells(a, b Frame, row int) []string {
	if row >= len(a.RichLines) || row >= len(b.RichLines) {
		return nil
	}
	ra, rb := a.RichLines[row], b.RichLines[row]
	var reasons []string
	n := minInt(len(ra), len(rb))
	for col := 0; col < n; col++ {
		if ra[col] != rb[col] {
			reasons = append(reasons, fmt.Sprintf("cell-%d-%d-mismatch", row, col))
		}
	}
	for col := n; col < maxInt(len(ra), len(rb)); col++ {
		reasons = append(reasons, fmt.Sprintf("cell-%d-%d-mismatch", row, col))
	}
	return reasons
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
