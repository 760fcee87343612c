package vterm

import (
	"fmt"
	"strings"
)

// RenderText renders a frame as plain text, one line per visible row. The
// output never contains escape bytes.
func RenderText(f Frame) string {
	return strings.Join(f.Lines, "\n")
}

// RenderANSIRow reconstructs one frame row as an ANSI string of widthCols
// columns. Style codes are emitted only where the style changes between
// adjacent cells, continuation cells are skipped, short rows are padded with
// blanks, and the row always ends with a full reset.
func RenderANSIRow(f Frame, rowIndex, widthCols int) string {
	var row []Cell
	if rowIndex >= 0 && rowIndex < len(f.RichLines) {
		row = f.RichLines[rowIndex]
	}

	var sb strings.Builder
	last := Style{}
	cols := 0
	for i := 0; i < len(row) && cols < widthCols; i++ {
		c := row[i]
		if c.Continued {
			continue
		}
		if c.Style != last {
			sb.WriteString("\x1b[0m")
			writeStyle(&sb, c.Style)
			last = c.Style
		}
		if c.Glyph == "" {
			sb.WriteByte(' ')
			cols++
			continue
		}
		if c.Width == 2 && cols+2 > widthCols {
			// A wide glyph straddling the clip edge renders as a blank.
			sb.WriteByte(' ')
			cols++
			continue
		}
		sb.WriteString(c.Glyph)
		if c.Width > 0 {
			cols += c.Width
		} else {
			cols++
		}
	}
	if cols < widthCols {
		if !last.IsDefault() {
			sb.WriteString("\x1b[0m")
		}
		sb.WriteString(strings.Repeat(" ", widthCols-cols))
	}
	sb.WriteString("\x1b[0m")
	return sb.String()
}

// writeStyle emits the SGR codes for a style, assuming a freshly reset pen.
func writeStyle(sb *strings.Builder, s Style) {
	if s.Bold {
		sb.WriteString("\x1b[1m")
	}
	if s.Dim {
		sb.WriteString("\x1b[2m")
	}
	if s.Italic {
		sb.WriteString("\x1b[3m")
	}
	if s.Underline {
		sb.WriteString("\x1b[4m")
	}
	if s.Inverse {
		sb.WriteString("\x1b[7m")
	}
	writeColor(sb, s.FG, false)
	writeColor(sb, s.BG, true)
}

// writeColor emits the SGR code for one color slot.
func writeColor(sb *strings.Builder, c Color, background bool) {
	switch c.Mode {
	case ColorDefault:
		return
	case ColorIndexed:
		n := int(c.Index)
		switch {
		case n < 8 && !background:
			fmt.Fprintf(sb, "\x1b[%dm", 30+n)
		case n < 8:
			fmt.Fprintf(sb, "\x1b[%dm", 40+n)
		case n < 16 && !background:
			fmt.Fprintf(sb, "\x1b[%dm", 90+n-8)
		case n < 16:
			fmt.Fprintf(sb, "\x1b[%dm", 100+n-8)
		case !background:
			fmt.Fprintf(sb, "\x1b[38;5;%dm", n)
		default:
			fmt.Fprintf(sb, "\x1b[48;5;%dm", n)
		}
	case ColorRGB:
		if background {
			fmt.Fprintf(sb, "\x1b[48;2;%d;%d;%dm", c.R, c.G, c.B)
		} else {
			fmt.Fprintf(sb, "\x1b[38;2;%d;%d;%dm", c.R, c.G, c.B)
		}
	}
}
