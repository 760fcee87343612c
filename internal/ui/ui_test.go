package ui

import (
	"strings"
	"testing"

	"github.com/glasspane/glasspane/internal/vterm"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		input string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is too long", 10, "this is..."},
		{"ab", 2, "ab"},
		{"abcd", 2, "ab"},
		{"世界世界", 4, "世界"},
	}

	for _, tt := range tests {
		if got := Truncate(tt.input, tt.width); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.width, got, tt.want)
		}
	}
}

func TestPadding(t *testing.T) {
	if got := PadRight("ab", 5); got != "ab   " {
		t.Errorf("PadRight = %q", got)
	}
	if got := PadLeft("ab", 5); got != "   ab" {
		t.Errorf("PadLeft = %q", got)
	}
	if got := Center("ab", 6); got != "  ab  " {
		t.Errorf("Center = %q", got)
	}
	// Wide glyphs count as two columns.
	if got := PadRight("世", 4); got != "世  " {
		t.Errorf("PadRight wide = %q", got)
	}
	// Overflow truncates.
	if got := PadRight("abcdef", 3); got != "abc" {
		t.Errorf("PadRight overflow = %q", got)
	}
}

func TestRenderStatusBar(t *testing.T) {
	term, err := vterm.New(20, 4, vterm.WithScrollback(10))
	if err != nil {
		t.Fatal(err)
	}
	term.WriteString("a\r\nb\r\nc\r\nd\r\ne\r\nf")

	bar := RenderStatusBar(term.Snapshot(), 100, "dev")
	if !strings.Contains(bar, "follow") {
		t.Errorf("following status bar = %q, want 'follow'", bar)
	}
	if !strings.Contains(bar, "20x4") {
		t.Errorf("status bar = %q, want dimensions", bar)
	}
	if !strings.Contains(bar, "dev") {
		t.Errorf("status bar = %q, want version", bar)
	}

	term.ScrollViewport(-2)
	bar = RenderStatusBar(term.Snapshot(), 100, "dev")
	if !strings.Contains(bar, "history -2") {
		t.Errorf("scrolled status bar = %q, want 'history -2'", bar)
	}

	// Narrow widths degrade to a truncated line instead of overflowing.
	narrow := RenderStatusBar(term.Snapshot(), 10, "dev")
	if len(narrow) > 13 { // 10 columns plus possible multibyte ellipsis
		t.Errorf("narrow status bar too long: %q", narrow)
	}
}

func TestHelpText(t *testing.T) {
	help := HelpText()
	for _, want := range []string{"PgUp/PgDn", "End", "F12", "F1", "Ctrl+Q"} {
		if !strings.Contains(help, want) {
			t.Errorf("help text missing %q", want)
		}
	}
}

func TestModalDimensions(t *testing.T) {
	x0, y0, x1, y1 := ModalDimensions(100, 40, 52, 16)
	if x0 != 24 || y0 != 12 {
		t.Errorf("modal origin = (%d,%d), want (24,12)", x0, y0)
	}
	if x1-x0 != 52 || y1-y0 != 16 {
		t.Errorf("modal size = %dx%d, want 52x16", x1-x0, y1-y0)
	}
}
