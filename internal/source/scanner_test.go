package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestScanDir(t *testing.T) {
	dir := t.TempDir()
	mk := func(rel string) {
		t.Helper()
		p := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(`{"budget": 1}`), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	mk("b.json")
	mk("a.yaml")
	mk("notes.txt")
	mk("2025/march.toml")
	mk(".hidden/skip.json")
	mk(".skip.yaml")

	files, err := ScanDir(dir)
	if err != nil {
		t.Fatalf("ScanDir: %v", err)
	}

	want := []string{filepath.Join("2025", "march.toml"), "a.yaml", "b.json"}
	if len(files) != len(want) {
		t.Fatalf("found %d files, want %d: %+v", len(files), len(want), files)
	}
	for i, f := range files {
		if f.Name != want[i] {
			t.Errorf("files[%d].Name = %q, want %q", i, f.Name, want[i])
		}
	}

	counts := CountFormats(files)
	if counts[FormatTOML] != 1 || counts[FormatJSON] != 1 || counts[FormatYAML] != 1 {
		t.Fatalf("CountFormats = %v", counts)
	}
}

func TestScanDir_NotADirectory(t *testing.T) {
	f := filepath.Join(t.TempDir(), "x.json")
	if err := os.WriteFile(f, []byte("{}"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := ScanDir(f); err == nil {
		t.Fatal("expected error for file path")
	}
}
