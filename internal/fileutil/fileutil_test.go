package fileutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestStageCopy(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "lecture.mp4")
	dst := filepath.Join(dir, "staged", "lecture.mp4")

	content := []byte("fake media payload")
	if err := os.WriteFile(src, content, 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		t.Fatal(err)
	}

	if err := StageCopy(src, dst); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(content) {
		t.Fatalf("content mismatch: got %q, want %q", got, content)
	}
}

func TestStageCopy_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	dst := filepath.Join(dir, "dst.bin")
	if err := os.WriteFile(src, []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := StageCopy(src, dst); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") {
			t.Fatalf("temp file left behind: %s", entry.Name())
		}
	}
}

func TestStageCopy_MissingSource(t *testing.T) {
	dir := t.TempDir()
	err := StageCopy(filepath.Join(dir, "nope"), filepath.Join(dir, "dst"))
	if err == nil {
		t.Fatal("expected error for missing source")
	}
	if _, statErr := os.Stat(filepath.Join(dir, "dst")); !os.IsNotExist(statErr) {
		t.Fatal("destination should not exist after failed copy")
	}
}

func TestStageCopy_MissingDestinationDir(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	if err := os.WriteFile(src, []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := StageCopy(src, filepath.Join(dir, "missing", "dst.bin"))
	if err == nil {
		t.Fatal("expected error for missing destination directory")
	}
}
