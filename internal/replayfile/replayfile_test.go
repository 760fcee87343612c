package replayfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/glasspane/glasspane/internal/vterm"
)

func testScript() *Script {
	return &Script{
		Name: "smoke",
		Cols: 10,
		Rows: 3,
		Steps: []vterm.ReplayStep{
			{Output: "hello\r\n"},
			{Output: "\x1b[31mred"},
		},
	}
}

func TestScriptRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "script.yaml")
	if err := SaveScript(path, testScript()); err != nil {
		t.Fatalf("SaveScript failed: %v", err)
	}

	loaded, err := LoadScript(path)
	if err != nil {
		t.Fatalf("LoadScript failed: %v", err)
	}
	if loaded.Name != "smoke" || loaded.Cols != 10 || loaded.Rows != 3 {
		t.Errorf("loaded header = %+v", loaded)
	}
	if len(loaded.Steps) != 2 || loaded.Steps[1].Output != "\x1b[31mred" {
		t.Errorf("loaded steps = %+v", loaded.Steps)
	}
}

func TestLoadScriptValidation(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		body string
	}{
		{"missing size", "steps:\n  - output: hi\n"},
		{"no steps", "cols: 10\nrows: 3\n"},
		{"bad yaml", "cols: [\n"},
	}
	for _, tt := range tests {
		path := filepath.Join(dir, tt.name+".yaml")
		if err := os.WriteFile(path, []byte(tt.body), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadScript(path); err == nil {
			t.Errorf("%s: LoadScript should fail", tt.name)
		}
	}

	if _, err := LoadScript(filepath.Join(dir, "does-not-exist.yaml")); err == nil {
		t.Error("missing file should fail")
	}
}

func TestVerifyMatches(t *testing.T) {
	s := testScript()
	frames, err := s.Run()
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "golden.yaml")
	if err := SaveGolden(path, GoldenFromFrames(s, frames)); err != nil {
		t.Fatalf("SaveGolden failed: %v", err)
	}
	g, err := LoadGolden(path)
	if err != nil {
		t.Fatalf("LoadGolden failed: %v", err)
	}

	mismatches, err := Verify(s, g)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if len(mismatches) != 0 {
		t.Errorf("unchanged script should verify clean, got %+v", mismatches)
	}
}

func TestVerifyDetectsDivergence(t *testing.T) {
	s := testScript()
	frames, err := s.Run()
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	g := GoldenFromFrames(s, frames)

	s.Steps[1].Output = "\x1b[32mred" // same text, different color

	mismatches, err := Verify(s, g)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if len(mismatches) != 1 || mismatches[0].Step != 1 {
		t.Fatalf("mismatches = %+v, want step 1 only", mismatches)
	}
	if mismatches[0].Expected.Hash == mismatches[0].Actual.Hash {
		t.Error("mismatch reported with equal hashes")
	}
}

func TestVerifySizeGuard(t *testing.T) {
	s := testScript()
	frames, err := s.Run()
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	g := GoldenFromFrames(s, frames)
	g.Cols = 99

	if _, err := Verify(s, g); err == nil {
		t.Error("size mismatch between script and golden should fail")
	}
}
