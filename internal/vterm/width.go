package vterm

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// MeasureDisplayWidth returns the number of terminal columns the text
// occupies: 2 for wide glyphs, 0 for combining marks and control bytes,
// 1 otherwise.
func MeasureDisplayWidth(text string) int {
	w := 0
	for _, r := range text {
		w += runewidth.RuneWidth(r)
	}
	return w
}

// WrapTextForColumns wraps text to the given column width. Embedded newlines
// are hard breaks; wide glyphs never split across lines; combining marks
// stay attached to the line they follow. cols <= 0 yields a single empty
// line.
func WrapTextForColumns(text string, cols int) []string {
	if cols <= 0 {
		return []string{""}
	}
	var out []string
	for _, seg := range strings.Split(text, "\n") {
		out = append(out, wrapSegment(seg, cols)...)
	}
	return out
}

func wrapSegment(seg string, cols int) []string {
	if seg == "" {
		return []string{""}
	}
	var lines []string
	var cur strings.Builder
	width := 0
	for _, r := range seg {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			// Combining marks and controls never trigger a wrap.
			cur.WriteRune(r)
			continue
		}
		if width+rw > cols && width > 0 {
			lines = append(lines, cur.String())
			cur.Reset()
			width = 0
		}
		cur.WriteRune(r)
		width += rw
	}
	lines = append(lines, cur.String())
	return lines
}
