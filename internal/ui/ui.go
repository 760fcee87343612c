// Package ui provides shared UI components for the glasspane viewer.
package ui

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/glasspane/glasspane/internal/vterm"
)

// Truncate shortens a string to fit in the given width.
func Truncate(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= 3 {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width, "...")
}

// PadRight pads a string to the right.
func PadRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return runewidth.Truncate(s, width, "")
	}
	return s + strings.Repeat(" ", width-sw)
}

// PadLeft pads a string to the left.
func PadLeft(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return runewidth.Truncate(s, width, "")
	}
	return strings.Repeat(" ", width-sw) + s
}

// Center centers a string in the given width.
func Center(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return runewidth.Truncate(s, width, "")
	}
	padding := (width - sw) / 2
	return strings.Repeat(" ", padding) + s + strings.Repeat(" ", width-sw-padding)
}

// RenderStatusBar creates the bottom status bar content for a frame.
func RenderStatusBar(f vterm.Frame, width int, version string) string {
	pos := "follow"
	if !f.Viewport.FollowOutput {
		above := f.Viewport.TotalRows - f.Rows - f.Viewport.Top
		pos = fmt.Sprintf("history -%d", above)
	}

	left := fmt.Sprintf("%s │ %dx%d │ %s", f.ActiveScreen, f.Cols, f.Rows, pos)
	if f.Hash != "" {
		left += " │ " + shortHash(f.Hash)
	}
	right := "f1:help pgup/pgdn:scroll end:follow f12:snap ctrl+q:quit " + version

	gap := width - runewidth.StringWidth(left) - runewidth.StringWidth(right)
	if gap < 1 {
		return Truncate(left+" "+right, width)
	}
	return left + strings.Repeat(" ", gap) + right
}

// shortHash trims a frame hash for display.
func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}

// HelpText returns the help screen content.
func HelpText() string {
	return `glasspane - terminal snapshot viewer

Scrolling
  PgUp/PgDn          Scroll the viewport through history
  End                Jump to the bottom and follow output

Snapshots
  F12                Dump the current frame (text + hash) to the data dir

Other
  F1                 Toggle this help (Esc closes it)
  Ctrl+Q             Quit glasspane

All other keys are forwarded to the child process.`
}
