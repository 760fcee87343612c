// Package ui provides gocui view management and rendering utilities.
package ui

import (
	"fmt"
	"strings"

	"github.com/jesseduffield/gocui"

	"github.com/glasspane/glasspane/internal/vterm"
)

// RenderFrame renders a frame's visible rows to a gocui view as ANSI text.
// Recovers from panics that can occur during resize race conditions.
func RenderFrame(v *gocui.View, f vterm.Frame) {
	defer func() {
		if r := recover(); r != nil {
			// Silently ignore - will redraw on next update
		}
	}()

	var sb strings.Builder
	for row := 0; row < f.Rows; row++ {
		sb.WriteString(vterm.RenderANSIRow(f, row, f.Cols))
		if row < f.Rows-1 {
			sb.WriteByte('\n')
		}
	}
	v.Clear()
	fmt.Fprint(v, sb.String())
}

// ConfigureTerminalView sets up the main terminal view.
func ConfigureTerminalView(v *gocui.View, title string, frameColor gocui.Attribute) {
	v.Title = fmt.Sprintf(" %s ", title)
	v.Frame = true
	v.Wrap = false
	v.Editable = true
	v.FrameColor = frameColor
}

// ConfigureStatusView sets up the status bar view.
func ConfigureStatusView(v *gocui.View, bg, fg gocui.Attribute) {
	v.Frame = false
	v.Wrap = false
	v.BgColor = bg
	v.FgColor = fg
}

// ColorAttr maps a configured color name to a gocui attribute.
func ColorAttr(name string) gocui.Attribute {
	switch strings.ToLower(name) {
	case "black":
		return gocui.ColorBlack
	case "red":
		return gocui.ColorRed
	case "green":
		return gocui.ColorGreen
	case "yellow":
		return gocui.ColorYellow
	case "blue":
		return gocui.ColorBlue
	case "magenta":
		return gocui.ColorMagenta
	case "cyan":
		return gocui.ColorCyan
	case "white":
		return gocui.ColorWhite
	default:
		return gocui.ColorDefault
	}
}

// ModalDimensions calculates centered modal dimensions.
func ModalDimensions(maxX, maxY, width, height int) (x0, y0, x1, y1 int) {
	x0 = (maxX - width) / 2
	y0 = (maxY - height) / 2
	x1 = x0 + width
	y1 = y0 + height
	return
}
