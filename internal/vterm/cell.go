// Package vterm implements a VT100/ANSI terminal emulator that maintains an
// exact, queryable model of what a real terminal screen would show. It is the
// snapshot source for pane rendering and the oracle for conformance tests:
// frames are immutable, hashable, and structurally diffable, and identical
// input histories always reproduce identical frames.
package vterm

// ColorMode distinguishes the three color encodings the emulator tracks.
type ColorMode uint8

const (
	// ColorDefault is the terminal's default foreground or background.
	ColorDefault ColorMode = iota
	// ColorIndexed is a palette color 0-255.
	ColorIndexed
	// ColorRGB is a 24-bit truecolor value.
	ColorRGB
)

// Color is a foreground or background color.
type Color struct {
	Mode    ColorMode
	Index   uint8 // valid when Mode == ColorIndexed
	R, G, B uint8 // valid when Mode == ColorRGB
}

// Indexed returns a palette color.
func Indexed(n uint8) Color {
	return Color{Mode: ColorIndexed, Index: n}
}

// RGB returns a truecolor color.
func RGB(r, g, b uint8) Color {
	return Color{Mode: ColorRGB, R: r, G: g, B: b}
}

// Style is the SGR attribute set carried by every cell.
type Style struct {
	FG        Color
	BG        Color
	Bold      bool
	Dim       bool
	Italic    bool
	Underline bool
	Inverse   bool
}

// IsDefault reports whether the style is the zero (fully reset) style.
func (s Style) IsDefault() bool {
	return s == Style{}
}

// Cell is one screen position. A glyph two columns wide occupies its own cell
// plus a continuation cell immediately to its right; the continuation carries
// no glyph, has zero width, and shares the primary cell's style.
type Cell struct {
	Glyph     string // printable grapheme; "" for blanks and continuations
	Width     int    // display columns: 0 (continuation), 1, or 2
	Continued bool   // true for the second column of a wide glyph
	Style     Style
}

// blankCell is the cell every position starts as and erasure restores.
func blankCell() Cell {
	return Cell{Glyph: " ", Width: 1}
}

// newBlankLine allocates a row of cols blank cells.
func newBlankLine(cols int) []Cell {
	line := make([]Cell, cols)
	for i := range line {
		line[i] = blankCell()
	}
	return line
}

// cloneLine deep-copies a row of cells.
func cloneLine(src []Cell) []Cell {
	dst := make([]Cell, len(src))
	copy(dst, src)
	return dst
}

// lineText renders a row of cells as plain text. Continuation cells contribute
// nothing; trailing blank cells are trimmed so an unused row reads as "".
func lineText(cells []Cell) string {
	end := len(cells)
	for end > 0 {
		c := cells[end-1]
		if c.Continued || c.Glyph == "" || c.Glyph == " " {
			end--
			continue
		}
		break
	}
	var out []byte
	for _, c := range cells[:end] {
		if c.Continued {
			continue
		}
		if c.Glyph == "" {
			out = append(out, ' ')
			continue
		}
		out = append(out, c.Glyph...)
	}
	return string(out)
}
