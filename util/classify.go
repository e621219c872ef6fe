package util

import (
	"context"
	"runtime"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"
)

// EquivalenceClass is a set of files of one size sharing one digest, which
// makes them byte-identical. Members may still carry different date labels.
type EquivalenceClass struct {
	ID      int
	Digest  string // empty for a lone file that never needed hashing
	Size    int64
	Members []*FileRecord
}

// IsDuplicate reports whether the class holds more than one file.
func (c EquivalenceClass) IsDuplicate() bool {
	return len(c.Members) > 1
}

// Labels returns the date label of every member, in member order.
func (c EquivalenceClass) Labels() []string {
	labels := make([]string, len(c.Members))
	for i, m := range c.Members {
		labels[i] = m.Label
	}
	return labels
}

// Consistent reports whether all members share one date label.
func (c EquivalenceClass) Consistent() bool {
	for _, m := range c.Members {
		if m.Label != c.Members[0].Label {
			return false
		}
	}
	return true
}

// Classify partitions one size bucket into equivalence classes by digest.
// A bucket of one file yields a single class without reading the file.
// With dupesOnly, classes of a single member are dropped.
// Classes are ordered by digest; members keep bucket order.
func Classify(bucket []*FileRecord, dupesOnly bool) ([]EquivalenceClass, error) {
	return classify(bucket, dupesOnly, nil)
}

func classify(bucket []*FileRecord, dupesOnly bool, onHashed func()) ([]EquivalenceClass, error) {
	switch len(bucket) {
	case 0:
		return nil, nil
	case 1:
		if dupesOnly {
			return nil, nil
		}
		return []EquivalenceClass{{Size: bucket[0].Size, Members: []*FileRecord{bucket[0]}}}, nil
	}

	byDigest := make(map[string][]*FileRecord)
	for _, f := range bucket {
		digest, err := f.Digest()
		if err != nil {
			return nil, err
		}
		byDigest[digest] = append(byDigest[digest], f)
		if onHashed != nil {
			onHashed()
		}
	}

	classes := make([]EquivalenceClass, 0, len(byDigest))
	for digest, members := range byDigest {
		if dupesOnly && len(members) < 2 {
			continue
		}
		classes = append(classes, EquivalenceClass{Digest: digest, Size: bucket[0].Size, Members: members})
	}
	slices.SortFunc(classes, func(a, b EquivalenceClass) int { return strings.Compare(a.Digest, b.Digest) })
	return classes, nil
}

// ClassifyOptions tunes ClassifyIndex.
type ClassifyOptions struct {
	DupesOnly bool
	Workers   int    // concurrent buckets; <= 0 means runtime.NumCPU()
	OnHashed  func() // called once per digested file; must be safe for concurrent use
}

// Classification is the joined result of classifying a whole index.
type Classification struct {
	Classes []EquivalenceClass // ordered by size, then digest; IDs are 1-based in this order
}

// Duplicates counts classes with more than one member.
func (c Classification) Duplicates() int {
	var n int
	for _, class := range c.Classes {
		if class.IsDuplicate() {
			n++
		}
	}
	return n
}

// ClassifyIndex classifies every bucket of idx. Buckets never share equal
// files, so each is classified independently on a bounded pool; the first
// digest failure cancels the rest and is returned.
func ClassifyIndex(ctx context.Context, idx SizeIndex, opts ClassifyOptions) (Classification, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	sizes := idx.Sizes()
	results := make([][]EquivalenceClass, len(sizes))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, size := range sizes {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			classes, err := classify(idx.Bucket(size), opts.DupesOnly, opts.OnHashed)
			if err != nil {
				return err
			}
			results[i] = classes
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Classification{}, err
	}

	// IDs come from one sequence after the join, so they do not depend on
	// which worker finished first.
	var out Classification
	for _, classes := range results {
		for _, class := range classes {
			class.ID = len(out.Classes) + 1
			out.Classes = append(out.Classes, class)
		}
	}
	return out, nil
}
