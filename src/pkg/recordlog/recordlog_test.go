package recordlog

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResetAppendRead(t *testing.T) {
	log := New(filepath.Join(t.TempDir(), "recognized_numbers.txt"))

	if e := log.Append("stale line"); e != nil {
		t.Fatalf("Append returned error: %v", e)
	}
	if e := log.Reset(); e != nil {
		t.Fatalf("Reset returned error: %v", e)
	}
	if e := log.Append("X"); e != nil {
		t.Fatalf("Append returned error: %v", e)
	}

	contents, e := log.Read()
	if e != nil {
		t.Fatalf("Read returned error: %v", e)
	}
	if contents != "X\n" {
		t.Fatalf("contents = %q, want %q", contents, "X\n")
	}
}

func TestAppendCreatesDirectoriesAndKeepsOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "documents", "cameraocrextract", "recognized_numbers.txt")
	log := New(path)

	for _, line := range []string{"first", "second", "third"} {
		if e := log.Append(line); e != nil {
			t.Fatalf("Append(%q) returned error: %v", line, e)
		}
	}

	lines, e := log.Lines()
	if e != nil {
		t.Fatalf("Lines returned error: %v", e)
	}
	if len(lines) != 3 || lines[0] != "first" || lines[2] != "third" {
		t.Fatalf("unexpected lines: %v", lines)
	}
	if log.Path() != path || !log.Exists() {
		t.Fatalf("log should exist at %s", path)
	}
}

func TestReadMissingFile(t *testing.T) {
	log := New(filepath.Join(t.TempDir(), "absent.txt"))
	if log.Exists() {
		t.Fatal("log should not exist")
	}
	if _, e := log.Read(); e == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestResetCreatesEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "log.txt")
	if e := New(path).Reset(); e != nil {
		t.Fatalf("Reset returned error: %v", e)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() != 0 {
		t.Fatalf("size = %d, want 0", info.Size())
	}
}
