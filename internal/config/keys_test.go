package config

import (
	"testing"

	"github.com/jesseduffield/gocui"
)

func TestParseKey(t *testing.T) {
	tests := []struct {
		input    string
		wantRune rune
		wantKey  gocui.Key
		wantErr  bool
	}{
		{"q", 'q', 0, false},
		{"?", '?', 0, false},
		{"enter", 0, gocui.KeyEnter, false},
		{"pgup", 0, gocui.KeyPgup, false},
		{"pageup", 0, gocui.KeyPgup, false},
		{"end", 0, gocui.KeyEnd, false},
		{"f12", 0, gocui.KeyF12, false},
		{"ctrl+q", 0, gocui.KeyCtrlQ, false},
		{"ctrl+c", 0, gocui.KeyCtrlC, false},
		{"CTRL+Q", 0, gocui.KeyCtrlQ, false},
		{"", 0, 0, true},
		{"ctrl+", 0, 0, true},
		{"ctrl+enter", 0, 0, true},
		{"nosuchkey", 0, 0, true},
	}

	for _, tt := range tests {
		key, err := ParseKey(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseKey(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if tt.wantErr {
			continue
		}
		if tt.wantRune != 0 {
			if !key.IsRune() || key.Rune() != tt.wantRune {
				t.Errorf("ParseKey(%q) = %+v, want rune %q", tt.input, key, tt.wantRune)
			}
		} else {
			if key.IsRune() || key.GocuiKey() != tt.wantKey {
				t.Errorf("ParseKey(%q) = %+v, want key %v", tt.input, key, tt.wantKey)
			}
		}
	}
}

func TestValidateKeys(t *testing.T) {
	valid := DefaultKeyBindings()
	if err := ValidateKeys(&valid); err != nil {
		t.Errorf("default bindings should validate: %v", err)
	}

	dup := DefaultKeyBindings()
	dup.ScrollDown = dup.ScrollUp
	if err := ValidateKeys(&dup); err == nil {
		t.Error("duplicate bindings should fail validation")
	}

	bad := DefaultKeyBindings()
	bad.Quit = "not-a-key"
	if err := ValidateKeys(&bad); err == nil {
		t.Error("unparseable binding should fail validation")
	}
}

func TestValidateColor(t *testing.T) {
	for _, c := range []string{"default", "black", "RED", "white"} {
		if !ValidateColor(c) {
			t.Errorf("ValidateColor(%q) = false, want true", c)
		}
	}
	for _, c := range []string{"", "grey", "#ff0000"} {
		if ValidateColor(c) {
			t.Errorf("ValidateColor(%q) = true, want false", c)
		}
	}
}
