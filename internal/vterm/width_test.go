package vterm

import (
	"reflect"
	"strings"
	"testing"
)

func TestMeasureDisplayWidth(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"abc", 3},
		{"世界", 4},
		{"a世b", 4},
		{"e\u0301", 1},   // e + combining acute
		{"e\u0301\u0301", 1},
		{"\x00\x1f", 0},
	}

	for _, tt := range tests {
		if got := MeasureDisplayWidth(tt.text); got != tt.want {
			t.Errorf("MeasureDisplayWidth(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

func TestWrapTextForColumns(t *testing.T) {
	tests := []struct {
		name string
		text string
		cols int
		want []string
	}{
		{"empty", "", 5, []string{""}},
		{"fits", "abc", 5, []string{"abc"}},
		{"exact", "abcde", 5, []string{"abcde"}},
		{"wraps", "abcdef", 5, []string{"abcde", "f"}},
		{"newline", "ab\ncd", 5, []string{"ab", "cd"}},
		{"trailing newline", "ab\n", 5, []string{"ab", ""}},
		{"wide never splits", "a世", 2, []string{"a", "世"}},
		{"wide pair", "世界", 2, []string{"世", "界"}},
		{"combining stays", "ae\u0301", 1, []string{"a", "e\u0301"}},
		{"zero cols", "abc", 0, []string{""}},
	}

	for _, tt := range tests {
		got := WrapTextForColumns(tt.text, tt.cols)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%s: WrapTextForColumns(%q, %d) = %q, want %q",
				tt.name, tt.text, tt.cols, got, tt.want)
		}
	}
}

func TestWrapMatchesTerminalWrap(t *testing.T) {
	// The helper's wrap points agree with how the grid itself wraps.
	const text = "hello 世界 done"
	term := mustNew(t, 6, 5)
	term.WriteString(text)
	f := term.Snapshot()

	wrapped := WrapTextForColumns(text, 6)
	for i, line := range wrapped {
		if i >= len(f.Lines) {
			break
		}
		// Grid lines trim trailing blanks; the helper keeps them.
		if f.Lines[i] != strings.TrimRight(line, " ") {
			t.Errorf("line %d: grid %q, helper %q", i, f.Lines[i], line)
		}
	}
}
