package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/jesseduffield/gocui"
)

// Key represents a parsed key binding.
type Key struct {
	Value any // rune for single chars, gocui.Key for special keys
	Mod   gocui.Modifier
}

// ParseKey parses a key string into a gocui-compatible key value.
// Supported formats:
//   - Single character: "q", "?", "/"
//   - Special keys: "enter", "space", "esc", "tab", "pgup", "end", "f12"
//   - Ctrl combinations: "ctrl+c", "ctrl+q"
func ParseKey(s string) (Key, error) {
	if s == "" {
		return Key{}, fmt.Errorf("empty key string")
	}

	trimmed := strings.TrimSpace(s)
	lower := strings.ToLower(trimmed)

	// Check for ctrl combinations
	if char, found := strings.CutPrefix(lower, "ctrl+"); found {
		if len(char) == 1 {
			if ctrlKey, ok := ctrlKeyMap[char]; ok {
				return Key{Value: ctrlKey, Mod: gocui.ModNone}, nil
			}
		}
		return Key{}, fmt.Errorf("invalid ctrl combination: %s", s)
	}

	// Check for special keys (case insensitive)
	if key, ok := specialKeyMap[lower]; ok {
		return Key{Value: key, Mod: gocui.ModNone}, nil
	}

	// Single character (preserve original case)
	if len(trimmed) == 1 {
		return Key{Value: rune(trimmed[0]), Mod: gocui.ModNone}, nil
	}

	return Key{}, fmt.Errorf("unknown key: %s", s)
}

// IsRune returns true if the key is a rune (single character).
func (k Key) IsRune() bool {
	_, ok := k.Value.(rune)
	return ok
}

// Rune returns the key as a rune, or 0 if not a rune.
func (k Key) Rune() rune {
	if r, ok := k.Value.(rune); ok {
		return r
	}
	return 0
}

// GocuiKey returns the key as a gocui.Key, or 0 if not a special key.
func (k Key) GocuiKey() gocui.Key {
	if key, ok := k.Value.(gocui.Key); ok {
		return key
	}
	return 0
}

// ValidateKeys checks for duplicate keybindings and invalid key strings.
func ValidateKeys(keys *KeyBindings) error {
	keyMap := make(map[string][]string)

	v := reflect.ValueOf(keys).Elem()
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldName := t.Field(i).Name

		if field.Kind() != reflect.String {
			continue
		}

		keyStr := field.String()
		if keyStr == "" {
			continue
		}

		if _, err := ParseKey(keyStr); err != nil {
			return fmt.Errorf("invalid key for %s: %w", fieldName, err)
		}

		keyMap[keyStr] = append(keyMap[keyStr], fieldName)
	}

	var duplicates []string
	for key, actions := range keyMap {
		if len(actions) > 1 {
			duplicates = append(duplicates, fmt.Sprintf("key %q is used by: %s", key, strings.Join(actions, ", ")))
		}
	}

	if len(duplicates) > 0 {
		return fmt.Errorf("duplicate keybindings found:\n  %s", strings.Join(duplicates, "\n  "))
	}

	return nil
}

// ValidateColor checks if a color string is valid for gocui.
func ValidateColor(color string) bool {
	validColors := map[string]bool{
		"default": true,
		"black":   true,
		"red":     true,
		"green":   true,
		"yellow":  true,
		"blue":    true,
		"magenta": true,
		"cyan":    true,
		"white":   true,
	}
	return validColors[strings.ToLower(color)]
}

// specialKeyMap maps string names to gocui special keys.
var specialKeyMap = map[string]gocui.Key{
	"enter":     gocui.KeyEnter,
	"space":     gocui.KeySpace,
	"esc":       gocui.KeyEsc,
	"escape":    gocui.KeyEsc,
	"tab":       gocui.KeyTab,
	"backspace": gocui.KeyBackspace2,
	"delete":    gocui.KeyDelete,
	"insert":    gocui.KeyInsert,
	"home":      gocui.KeyHome,
	"end":       gocui.KeyEnd,
	"pgup":      gocui.KeyPgup,
	"pageup":    gocui.KeyPgup,
	"pgdn":      gocui.KeyPgdn,
	"pagedown":  gocui.KeyPgdn,
	"up":        gocui.KeyArrowUp,
	"down":      gocui.KeyArrowDown,
	"left":      gocui.KeyArrowLeft,
	"right":     gocui.KeyArrowRight,
	"f1":        gocui.KeyF1,
	"f2":        gocui.KeyF2,
	"f3":        gocui.KeyF3,
	"f4":        gocui.KeyF4,
	"f5":        gocui.KeyF5,
	"f6":        gocui.KeyF6,
	"f7":        gocui.KeyF7,
	"f8":        gocui.KeyF8,
	"f9":        gocui.KeyF9,
	"f10":       gocui.KeyF10,
	"f11":       gocui.KeyF11,
	"f12":       gocui.KeyF12,
}

// ctrlKeyMap maps single characters to their ctrl+key equivalents.
var ctrlKeyMap = map[string]gocui.Key{
	"a": gocui.KeyCtrlA,
	"b": gocui.KeyCtrlB,
	"c": gocui.KeyCtrlC,
	"d": gocui.KeyCtrlD,
	"e": gocui.KeyCtrlE,
	"f": gocui.KeyCtrlF,
	"g": gocui.KeyCtrlG,
	"h": gocui.KeyCtrlH,
	"i": gocui.KeyCtrlI,
	"j": gocui.KeyCtrlJ,
	"k": gocui.KeyCtrlK,
	"l": gocui.KeyCtrlL,
	"m": gocui.KeyCtrlM,
	"n": gocui.KeyCtrlN,
	"o": gocui.KeyCtrlO,
	"p": gocui.KeyCtrlP,
	"q": gocui.KeyCtrlQ,
	"r": gocui.KeyCtrlR,
	"s": gocui.KeyCtrlS,
	"t": gocui.KeyCtrlT,
	"u": gocui.KeyCtrlU,
	"v": gocui.KeyCtrlV,
	"w": gocui.KeyCtrlW,
	"x": gocui.KeyCtrlX,
	"y": gocui.KeyCtrlY,
	"z": gocui.KeyCtrlZ,
}
