package util

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

var (
	jan2020 = time.Date(2020, 1, 1, 12, 0, 0, 0, time.UTC)
	jun2020 = time.Date(2020, 6, 1, 12, 0, 0, 0, time.UTC)
)

// writeFile creates root/rel with content and an mtime in the past, so the
// date label of the file is the UTC day of mtime.
func writeFile(t *testing.T, root, rel, content string, mtime time.Time) string {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatal(err)
	}
	return path
}

func record(t *testing.T, path string) *FileRecord {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	label, err := DateLabel(path)
	if err != nil {
		t.Fatal(err)
	}
	return NewFileRecord(path, info.Size(), label)
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
