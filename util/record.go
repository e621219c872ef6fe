package util

import (
	"path/filepath"
	"sync"
)

// FileRecord is a regular file seen by a scan. Path, Size and Label are fixed
// at construction; the content digest is computed on first use and memoized.
type FileRecord struct {
	Path  string // absolute path
	Size  int64  // size in bytes
	Label string // date label, see DateLabel

	once   sync.Once
	digest string
	err    error
}

// NewFileRecord builds a record from already-known attributes.
func NewFileRecord(path string, size int64, label string) *FileRecord {
	return &FileRecord{Path: path, Size: size, Label: label}
}

// Digest returns the SHA-256 of the file content, hashing it on the first call.
func (f *FileRecord) Digest() (string, error) {
	f.once.Do(func() {
		f.digest, f.err = GetFileHash(f.Path)
	})
	return f.digest, f.err
}

// Base returns the file name without its directory.
func (f *FileRecord) Base() string {
	return filepath.Base(f.Path)
}
