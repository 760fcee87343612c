// Package config handles application configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds application configuration.
type Config struct {
	// DataDir is the directory for persistent data (snapshots, config)
	DataDir string `yaml:"-"`

	// Shell is the command run when none is given on the command line
	Shell string `yaml:"shell"`

	// Scrollback is the number of lines kept above the live grid
	Scrollback int `yaml:"scrollback"`

	// ScrollStep is how many rows a scroll key moves the viewport
	ScrollStep int `yaml:"scroll_step"`

	// Keys contains keybinding configuration
	Keys KeyBindings `yaml:"keys"`

	// Theme contains theme/appearance configuration
	Theme Theme `yaml:"theme"`
}

// KeyBindings holds all configurable keybindings.
type KeyBindings struct {
	Quit       string `yaml:"quit"`
	ScrollUp   string `yaml:"scroll_up"`
	ScrollDown string `yaml:"scroll_down"`
	Follow     string `yaml:"follow"`
	Snapshot   string `yaml:"snapshot"`
	Help       string `yaml:"help"`
}

// Theme holds theme configuration.
type Theme struct {
	Colors ThemeColors `yaml:"colors"`
}

// ThemeColors holds color configuration.
type ThemeColors struct {
	FrameActive string `yaml:"frame_active"`
	StatusBarBg string `yaml:"statusbar_bg"`
	StatusBarFg string `yaml:"statusbar_fg"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		DataDir:    defaultDataDir(),
		Shell:      getDefaultShell(),
		Scrollback: 1000,
		ScrollStep: 5,
		Keys:       DefaultKeyBindings(),
		Theme:      DefaultTheme(),
	}
}

// DefaultKeyBindings returns the default keybindings.
func DefaultKeyBindings() KeyBindings {
	return KeyBindings{
		Quit:       "ctrl+q",
		ScrollUp:   "pgup",
		ScrollDown: "pgdn",
		Follow:     "end",
		Snapshot:   "f12",
		Help:       "f1",
	}
}

// DefaultTheme returns the default theme configuration.
func DefaultTheme() Theme {
	return Theme{
		Colors: ThemeColors{
			FrameActive: "green",
			StatusBarBg: "blue",
			StatusBarFg: "white",
		},
	}
}

// Load loads configuration from the config file, falling back to defaults.
func Load() (*Config, error) {
	cfg := Default()

	configPath := cfg.ConfigFile()
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// Config file doesn't exist, use defaults
			return cfg, nil
		}
		return nil, err
	}

	// Parse YAML into a temporary struct to merge with defaults
	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, err
	}

	// Merge file config with defaults (file values override defaults)
	mergeConfig(cfg, &fileCfg)

	// Validate keybindings
	if err := ValidateKeys(&cfg.Keys); err != nil {
		return nil, err
	}

	// Validate theme colors
	if err := validateTheme(&cfg.Theme); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validateTheme rejects color names the UI cannot map to an attribute.
func validateTheme(theme *Theme) error {
	colors := []struct {
		name  string
		value string
	}{
		{"frame_active", theme.Colors.FrameActive},
		{"statusbar_bg", theme.Colors.StatusBarBg},
		{"statusbar_fg", theme.Colors.StatusBarFg},
	}
	for _, c := range colors {
		if c.value == "" {
			continue
		}
		if !ValidateColor(c.value) {
			return fmt.Errorf("invalid color for %s: %q", c.name, c.value)
		}
	}
	return nil
}

// mergeConfig merges file configuration into the default configuration.
// Only non-zero values from file are applied.
func mergeConfig(dst, src *Config) {
	if src.Shell != "" {
		dst.Shell = src.Shell
	}
	if src.Scrollback != 0 {
		dst.Scrollback = src.Scrollback
	}
	if src.ScrollStep != 0 {
		dst.ScrollStep = src.ScrollStep
	}

	mergeKeyBindings(&dst.Keys, &src.Keys)
	mergeTheme(&dst.Theme, &src.Theme)
}

// mergeKeyBindings merges keybindings from src into dst.
func mergeKeyBindings(dst, src *KeyBindings) {
	if src.Quit != "" {
		dst.Quit = src.Quit
	}
	if src.ScrollUp != "" {
		dst.ScrollUp = src.ScrollUp
	}
	if src.ScrollDown != "" {
		dst.ScrollDown = src.ScrollDown
	}
	if src.Follow != "" {
		dst.Follow = src.Follow
	}
	if src.Snapshot != "" {
		dst.Snapshot = src.Snapshot
	}
	if src.Help != "" {
		dst.Help = src.Help
	}
}

// mergeTheme merges theme configuration from src into dst.
func mergeTheme(dst, src *Theme) {
	if src.Colors.FrameActive != "" {
		dst.Colors.FrameActive = src.Colors.FrameActive
	}
	if src.Colors.StatusBarBg != "" {
		dst.Colors.StatusBarBg = src.Colors.StatusBarBg
	}
	if src.Colors.StatusBarFg != "" {
		dst.Colors.StatusBarFg = src.Colors.StatusBarFg
	}
}

// defaultDataDir returns the default data directory.
func defaultDataDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "glasspane")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".glasspane"
	}
	return filepath.Join(home, ".config", "glasspane")
}

// getDefaultShell returns the user's default shell.
func getDefaultShell() string {
	if shell := os.Getenv("SHELL"); shell != "" {
		return shell
	}
	return "/bin/bash"
}

// ConfigFile returns the path to the config file.
func (c *Config) ConfigFile() string {
	return filepath.Join(c.DataDir, "config.yaml")
}

// SnapshotDir returns the directory snapshot dumps are written to.
func (c *Config) SnapshotDir() string {
	return filepath.Join(c.DataDir, "snapshots")
}

// EnsureDataDir creates the data directory if it doesn't exist.
func (c *Config) EnsureDataDir() error {
	return os.MkdirAll(c.DataDir, 0755)
}
