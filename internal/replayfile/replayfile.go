// Package replayfile reads and writes terminal replay scripts and the golden
// frame records they are verified against.
package replayfile

import (
	"os"

	"github.com/go-errors/errors"
	"gopkg.in/yaml.v3"

	"github.com/glasspane/glasspane/internal/vterm"
)

// Script is a replay scenario: a terminal size and an ordered list of steps.
type Script struct {
	Name  string             `yaml:"name,omitempty"`
	Cols  int                `yaml:"cols"`
	Rows  int                `yaml:"rows"`
	Steps []vterm.ReplayStep `yaml:"steps"`
}

// GoldenStep is the recorded outcome of one replay step.
type GoldenStep struct {
	Hash string `yaml:"hash"`
	Text string `yaml:"text"`
}

// Golden holds the recorded outcome of a full script run.
type Golden struct {
	Cols  int          `yaml:"cols"`
	Rows  int          `yaml:"rows"`
	Steps []GoldenStep `yaml:"steps"`
}

// LoadScript reads and validates a replay script.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("read script: %w", err)
	}

	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, errors.Errorf("parse script %s: %w", path, err)
	}

	if s.Cols <= 0 || s.Rows <= 0 {
		return nil, errors.Errorf("script %s: invalid size %dx%d", path, s.Cols, s.Rows)
	}
	if len(s.Steps) == 0 {
		return nil, errors.Errorf("script %s: no steps", path)
	}
	return &s, nil
}

// SaveScript writes a script to path as YAML.
func SaveScript(path string, s *Script) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return errors.Errorf("marshal script: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Errorf("write script: %w", err)
	}
	return nil
}

// Run replays the script on a fresh terminal and returns one frame per step.
func (s *Script) Run() ([]vterm.Frame, error) {
	frames, err := vterm.Replay(s.Steps, s.Cols, s.Rows)
	if err != nil {
		return nil, errors.Errorf("replay %s: %w", s.Name, err)
	}
	return frames, nil
}

// GoldenFromFrames records the hash and rendered text of each frame.
func GoldenFromFrames(s *Script, frames []vterm.Frame) *Golden {
	g := &Golden{Cols: s.Cols, Rows: s.Rows}
	for _, f := range frames {
		g.Steps = append(g.Steps, GoldenStep{
			Hash: f.Hash,
			Text: vterm.RenderText(f),
		})
	}
	return g
}

// LoadGolden reads a recorded golden file.
func LoadGolden(path string) (*Golden, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("read golden: %w", err)
	}

	var g Golden
	if err := yaml.Unmarshal(data, &g); err != nil {
		return nil, errors.Errorf("parse golden %s: %w", path, err)
	}
	if len(g.Steps) == 0 {
		return nil, errors.Errorf("golden %s: no steps", path)
	}
	return &g, nil
}

// SaveGolden writes a golden record to path as YAML.
func SaveGolden(path string, g *Golden) error {
	data, err := yaml.Marshal(g)
	if err != nil {
		return errors.Errorf("marshal golden: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Errorf("write golden: %w", err)
	}
	return nil
}

// Mismatch describes one step whose replay diverged from the golden record.
type Mismatch struct {
	Step     int
	Expected GoldenStep
	Actual   GoldenStep
}

// Verify replays the script and compares each frame against the golden
// record. A nil slice means the run matched.
func Verify(s *Script, g *Golden) ([]Mismatch, error) {
	if g.Cols != s.Cols || g.Rows != s.Rows {
		return nil, errors.Errorf("golden recorded at %dx%d but script is %dx%d",
			g.Cols, g.Rows, s.Cols, s.Rows)
	}

	frames, err := s.Run()
	if err != nil {
		return nil, err
	}
	if len(frames) != len(g.Steps) {
		return nil, errors.Errorf("golden has %d steps but script produced %d frames",
			len(g.Steps), len(frames))
	}

	var mismatches []Mismatch
	for i, f := range frames {
		actual := GoldenStep{Hash: f.Hash, Text: vterm.RenderText(f)}
		if actual.Hash != g.Steps[i].Hash {
			mismatches = append(mismatches, Mismatch{
				Step:     i,
				Expected: g.Steps[i],
				Actual:   actual,
			})
		}
	}
	return mismatches, nil
}
