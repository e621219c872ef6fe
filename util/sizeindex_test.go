package util

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func paths(records []*FileRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Path
	}
	return out
}

func TestNormalizeExtensions(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{name: "defaults", in: nil, want: []string{".jpg", ".jpeg", ".dng"}},
		{name: "wildcard", in: []string{"*"}, want: []string{"*"}},
		{name: "wildcard first wins", in: []string{"*", "png"}, want: []string{"*"}},
		{name: "dots and case", in: []string{"JPG", ".Png", "", "jpg"}, want: []string{".jpg", ".png"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, NormalizeExtensions(tt.in)); diff != "" {
				t.Errorf("NormalizeExtensions() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestScanOptions_Admits(t *testing.T) {
	opts := ScanOptions{
		Extensions: NormalizeExtensions([]string{"jpg"}),
		Exclude:    regexp.MustCompile(`/thumbs/`),
	}
	tests := []struct {
		path string
		want bool
	}{
		{"/in/a.jpg", true},
		{"/in/A.JPG", true},
		{"/in/a.png", false},
		{"/in/thumbs/a.jpg", false},
		{"/in/thumbsup.jpg", true},
		{"/in/noext", false},
	}
	for _, tt := range tests {
		if got := opts.Admits(tt.path); got != tt.want {
			t.Errorf("Admits(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}

	all := ScanOptions{Extensions: []string{Wildcard}}
	if !all.Admits("/in/noext") {
		t.Error("wildcard should admit files without an extension")
	}
}

func TestBuildSizeIndex(t *testing.T) {
	root := t.TempDir()
	a := writeFile(t, root, "b/a.jpg", "0123456789", jan2020)
	c := writeFile(t, root, "a/c.jpg", "abcdefghij", jan2020)
	d := writeFile(t, root, "d.jpeg", "xyz", jan2020)
	writeFile(t, root, "empty.jpg", "", jan2020)
	writeFile(t, root, "notes.txt", "0123456789", jan2020)
	writeFile(t, root, "skip/me.jpg", "0123456789", jan2020)
	if err := os.Symlink(a, filepath.Join(root, "link.jpg")); err != nil {
		t.Fatal(err)
	}

	idx, stats, err := BuildSizeIndex(ScanOptions{
		Root:       root,
		Extensions: NormalizeExtensions(nil),
		Exclude:    regexp.MustCompile(`/skip/`),
	})
	if err != nil {
		t.Fatalf("BuildSizeIndex() error = %v", err)
	}

	if diff := cmp.Diff([]int64{3, 10}, idx.Sizes()); diff != "" {
		t.Errorf("Sizes() mismatch (-want +got):\n%s", diff)
	}
	// sorted by full path, not traversal order
	if diff := cmp.Diff([]string{c, a}, paths(idx.Bucket(10))); diff != "" {
		t.Errorf("Bucket(10) mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{d}, paths(idx.Bucket(3))); diff != "" {
		t.Errorf("Bucket(3) mismatch (-want +got):\n%s", diff)
	}
	if len(idx.Bucket(0)) != 0 {
		t.Error("zero-byte files must never be indexed")
	}

	want := ScanStats{Visited: 6, Filtered: 2, Empty: 1, Included: 3, Bytes: 23}
	if diff := cmp.Diff(want, stats); diff != "" {
		t.Errorf("ScanStats mismatch (-want +got):\n%s", diff)
	}
	if idx.FileCount() != 3 || idx.CandidateBuckets() != 1 {
		t.Errorf("FileCount() = %d, CandidateBuckets() = %d", idx.FileCount(), idx.CandidateBuckets())
	}
	if got := idx.Bucket(10)[0].Label; got != "2020-01-01" {
		t.Errorf("Label = %q, want 2020-01-01", got)
	}
}

func TestBuildSizeIndex_SkipDirs(t *testing.T) {
	root := t.TempDir()
	keep := writeFile(t, root, "a.jpg", "data", jan2020)
	writeFile(t, root, "sorted/2020-01-01/a.jpg", "data", jan2020)

	idx, _, err := BuildSizeIndex(ScanOptions{
		Root:       root,
		Extensions: []string{Wildcard},
		SkipDirs:   []string{filepath.Join(root, "sorted")},
	})
	if err != nil {
		t.Fatalf("BuildSizeIndex() error = %v", err)
	}
	if diff := cmp.Diff([]string{keep}, paths(idx.Bucket(4))); diff != "" {
		t.Errorf("Bucket(4) mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildSizeIndex_MissingRoot(t *testing.T) {
	_, _, err := BuildSizeIndex(ScanOptions{Root: filepath.Join(t.TempDir(), "nope")})
	if err == nil {
		t.Fatal("BuildSizeIndex() expected error for missing root")
	}
}
