package util

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"os"
)

// HashChunkSize is the size of a single read while digesting a file.
// Peak memory per digest is bounded by this, regardless of file size.
const HashChunkSize = 4096

// GetFileHash hashes a file and returns the SHA-256 digest as a lowercase hex string.
// Any failure to open or read the file is reported as a *ReadError.
func GetFileHash(path string) (hash string, err error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", &ReadError{Path: path, Err: err}
	}
	if info.IsDir() {
		return "", ErrExpectedFile
	}
	file, err := os.Open(path)
	if err != nil {
		return "", &ReadError{Path: path, Err: err}
	}
	defer file.Close()

	hash, err = GetHash(file)
	if err != nil {
		return "", &ReadError{Path: path, Err: err}
	}
	return hash, nil
}

// GetHash calculates the SHA-256 hash of data from an io.Reader,
// reading HashChunkSize bytes at a time.
func GetHash(r io.Reader) (string, error) {
	h := sha256.New()
	buf := make([]byte, HashChunkSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// WriteJSONFile writes any value as JSON to the specified file path.
// It creates the file and encodes the value using the standard JSON encoder.
func WriteJSONFile(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
