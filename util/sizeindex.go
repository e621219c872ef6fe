package util

import (
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
)

// Wildcard as the only extension accepts every file.
const Wildcard = "*"

// DefaultExtensions are the extensions scanned when none are given.
var DefaultExtensions = []string{"jpg", "jpeg", "dng"}

// ScanOptions controls which files BuildSizeIndex admits.
type ScanOptions struct {
	Root       string
	Extensions []string       // normalized by NormalizeExtensions; {"*"} admits everything
	Exclude    *regexp.Regexp // matched against the full path; nil disables
	SkipDirs   []string       // absolute directories pruned from the walk
}

// ScanStats counts what a scan saw.
type ScanStats struct {
	Visited  int   // regular files visited
	Filtered int   // rejected by extension or exclusion
	Empty    int   // zero-byte files dropped
	Included int   // files admitted into the index
	Bytes    int64 // total size of admitted files
}

// SizeIndex buckets files by exact byte size.
// Members of a bucket are sorted by full path.
type SizeIndex struct {
	buckets map[int64][]*FileRecord
}

// Len returns the number of distinct sizes.
func (s SizeIndex) Len() int {
	return len(s.buckets)
}

// Bucket returns the files of exactly the given size.
func (s SizeIndex) Bucket(size int64) []*FileRecord {
	return s.buckets[size]
}

// Sizes returns the bucket sizes in ascending order.
func (s SizeIndex) Sizes() []int64 {
	sizes := make([]int64, 0, len(s.buckets))
	for size := range s.buckets {
		sizes = append(sizes, size)
	}
	slices.Sort(sizes)
	return sizes
}

// FileCount returns the number of files across all buckets.
func (s SizeIndex) FileCount() int {
	var n int
	for _, b := range s.buckets {
		n += len(b)
	}
	return n
}

// CandidateBuckets returns how many buckets hold more than one file and
// therefore need hashing.
func (s SizeIndex) CandidateBuckets() int {
	var n int
	for _, b := range s.buckets {
		if len(b) > 1 {
			n++
		}
	}
	return n
}

// NormalizeExtensions lowercases extensions and gives each a leading dot.
// A list whose first entry is "*" collapses to the wildcard.
func NormalizeExtensions(exts []string) []string {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	if strings.TrimSpace(exts[0]) == Wildcard {
		return []string{Wildcard}
	}
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		if !slices.Contains(out, e) {
			out = append(out, e)
		}
	}
	return out
}

// Admits reports whether a path passes the extension and exclusion filters.
func (o ScanOptions) Admits(path string) bool {
	if o.Exclude != nil && o.Exclude.MatchString(path) {
		return false
	}
	if len(o.Extensions) == 1 && o.Extensions[0] == Wildcard {
		return true
	}
	return slices.Contains(o.Extensions, strings.ToLower(filepath.Ext(path)))
}

// BuildSizeIndex walks opts.Root and buckets every admitted, non-empty
// regular file by its size.
func BuildSizeIndex(opts ScanOptions) (SizeIndex, ScanStats, error) {
	var stats ScanStats
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return SizeIndex{}, stats, err
	}
	if len(opts.Extensions) == 0 {
		opts.Extensions = NormalizeExtensions(nil)
	}
	skip := make([]string, 0, len(opts.SkipDirs))
	for _, d := range opts.SkipDirs {
		if abs, err := filepath.Abs(d); err == nil {
			skip = append(skip, abs)
		}
	}

	idx := SizeIndex{buckets: make(map[int64][]*FileRecord)}
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if path != root && slices.Contains(skip, path) {
				slog.Debug("skipping directory", "path", path)
				return filepath.SkipDir
			}
			return nil
		}
		// symlinks, devices, sockets and pipes
		if !d.Type().IsRegular() {
			return nil
		}
		stats.Visited++

		if !opts.Admits(path) {
			stats.Filtered++
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.Size() == 0 {
			stats.Empty++
			return nil
		}
		label, err := labelFromInfo(path, info)
		if err != nil {
			return err
		}

		idx.buckets[info.Size()] = append(idx.buckets[info.Size()], NewFileRecord(path, info.Size(), label))
		stats.Included++
		stats.Bytes += info.Size()
		return nil
	})
	if err != nil {
		return SizeIndex{}, stats, fmt.Errorf("error walking path %s: %w", root, err)
	}

	// Traversal order is platform dependent; everything downstream relies on this sort.
	for _, bucket := range idx.buckets {
		slices.SortFunc(bucket, func(a, b *FileRecord) int { return strings.Compare(a.Path, b.Path) })
	}
	return idx, stats, nil
}
