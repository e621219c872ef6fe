package util

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestClassify(t *testing.T) {
	root := t.TempDir()
	x1 := record(t, writeFile(t, root, "x1.jpg", "contentXX", jan2020))
	x2 := record(t, writeFile(t, root, "x2.jpg", "contentXX", jun2020))
	y := record(t, writeFile(t, root, "y.jpg", "contentYY", jan2020))
	x3 := record(t, writeFile(t, root, "x3.jpg", "contentXX", jan2020))

	classes, err := Classify([]*FileRecord{x1, x2, y, x3}, false)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if len(classes) != 2 {
		t.Fatalf("Classify() returned %d classes, want 2", len(classes))
	}

	var dup, single EquivalenceClass
	for _, c := range classes {
		if c.IsDuplicate() {
			dup = c
		} else {
			single = c
		}
	}
	if diff := cmp.Diff([]string{x1.Path, x2.Path, x3.Path}, paths(dup.Members)); diff != "" {
		t.Errorf("duplicate class members mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{y.Path}, paths(single.Members)); diff != "" {
		t.Errorf("single class members mismatch (-want +got):\n%s", diff)
	}
	if dup.Consistent() {
		t.Error("class with labels 2020-01-01 and 2020-06-01 reported consistent")
	}
	if diff := cmp.Diff([]string{"2020-01-01", "2020-06-01", "2020-01-01"}, dup.Labels()); diff != "" {
		t.Errorf("Labels() mismatch (-want +got):\n%s", diff)
	}
	for _, c := range classes {
		for _, m := range c.Members {
			d, _ := m.Digest()
			if d != c.Digest || m.Size != c.Size {
				t.Errorf("member %s does not share the class digest/size", m.Path)
			}
		}
	}
}

func TestClassify_DupesOnly(t *testing.T) {
	root := t.TempDir()
	a := record(t, writeFile(t, root, "a.jpg", "AAAA", jan2020))
	b := record(t, writeFile(t, root, "b.jpg", "AAAA", jan2020))
	c := record(t, writeFile(t, root, "c.jpg", "CCCC", jan2020))

	classes, err := Classify([]*FileRecord{a, b, c}, true)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if len(classes) != 1 || len(classes[0].Members) != 2 {
		t.Fatalf("Classify() = %+v, want one pair", classes)
	}

	lone, err := Classify([]*FileRecord{c}, true)
	if err != nil || len(lone) != 0 {
		t.Errorf("Classify(single, dupesOnly) = %v, %v; want nothing", lone, err)
	}
}

func TestClassify_SingleFileIsNotHashed(t *testing.T) {
	// The file does not exist: hashing it would fail.
	ghost := NewFileRecord(filepath.Join(t.TempDir(), "ghost.jpg"), 42, "2020-01-01")

	classes, err := Classify([]*FileRecord{ghost}, false)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if len(classes) != 1 || classes[0].IsDuplicate() || classes[0].Digest != "" {
		t.Errorf("Classify() = %+v, want one unhashed single class", classes)
	}
}

func TestClassify_VanishedFileIsFatal(t *testing.T) {
	root := t.TempDir()
	a := record(t, writeFile(t, root, "a.jpg", "AAAA", jan2020))
	b := record(t, writeFile(t, root, "b.jpg", "AAAA", jan2020))
	if err := os.Remove(b.Path); err != nil {
		t.Fatal(err)
	}

	_, err := Classify([]*FileRecord{a, b}, false)
	if !errors.Is(err, ErrUnreadable) {
		t.Fatalf("Classify() error = %v, want ErrUnreadable", err)
	}
	var re *ReadError
	if !errors.As(err, &re) || re.Path != b.Path {
		t.Errorf("Classify() error = %v, want *ReadError for %s", err, b.Path)
	}
}

func TestClassifyIndex(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "unique.jpg", string(make([]byte, 500)), jan2020)
	writeFile(t, root, "pair/one.jpg", "two hundred-ish bytes", jan2020)
	writeFile(t, root, "pair/two.jpg", "two hundred-ish bytes", jan2020)
	writeFile(t, root, "other.jpg", "two hundred-ish BYTES", jan2020)

	idx, _, err := BuildSizeIndex(ScanOptions{Root: root, Extensions: []string{Wildcard}})
	if err != nil {
		t.Fatal(err)
	}

	var hashed atomic.Int64
	for _, workers := range []int{1, 4} {
		hashed.Store(0)
		cls, err := ClassifyIndex(context.Background(), idx, ClassifyOptions{
			Workers:  workers,
			OnHashed: func() { hashed.Add(1) },
		})
		if err != nil {
			t.Fatalf("ClassifyIndex() error = %v", err)
		}
		if len(cls.Classes) != 3 || cls.Duplicates() != 1 {
			t.Fatalf("ClassifyIndex() = %d classes, %d duplicates; want 3, 1", len(cls.Classes), cls.Duplicates())
		}
		for i, c := range cls.Classes {
			if c.ID != i+1 {
				t.Errorf("class %d has ID %d", i, c.ID)
			}
		}
		// the 500-byte bucket holds one file and is never hashed
		if hashed.Load() != 3 {
			t.Errorf("OnHashed called %d times, want 3", hashed.Load())
		}
		if cls.Classes[len(cls.Classes)-1].Size != 500 {
			t.Errorf("classes are not ordered by size")
		}
	}

	cls, err := ClassifyIndex(context.Background(), idx, ClassifyOptions{DupesOnly: true})
	if err != nil {
		t.Fatalf("ClassifyIndex() error = %v", err)
	}
	if len(cls.Classes) != 1 || len(cls.Classes[0].Members) != 2 {
		t.Errorf("ClassifyIndex(dupesOnly) = %+v, want only the pair", cls.Classes)
	}
}

func TestClassifyIndex_Cancelled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.jpg", "AAAA", jan2020)
	writeFile(t, root, "b.jpg", "AAAA", jan2020)
	idx, _, err := BuildSizeIndex(ScanOptions{Root: root, Extensions: []string{Wildcard}})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := ClassifyIndex(ctx, idx, ClassifyOptions{}); !errors.Is(err, context.Canceled) {
		t.Errorf("ClassifyIndex() error = %v, want context.Canceled", err)
	}
}
