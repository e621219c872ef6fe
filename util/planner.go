package util

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// ClonesDir is the directory under the output root that receives duplicates.
const ClonesDir = "clones"

// Role says how a file is routed.
type Role string

const (
	RoleSingle    Role = "single"    // only member of its class
	RoleCanonical Role = "canonical" // kept member of a duplicate class
	RoleClone     Role = "clone"     // any other member of a duplicate class
)

// PlacementDecision is where one file goes.
type PlacementDecision struct {
	Source      *FileRecord
	Destination string
	Role        Role
	ClassID     int
}

// LabeledPath is one member of an inconsistent class.
type LabeledPath struct {
	Path  string `json:"path"`
	Label string `json:"label"`
}

// Inconsistency describes a duplicate class whose members disagree on their
// date label. Such a class is left for manual resolution.
type Inconsistency struct {
	ClassID int           `json:"class_id"`
	Digest  string        `json:"digest"`
	Size    int64         `json:"size"`
	Members []LabeledPath `json:"members"`
}

// PlanOptions configures destination layout.
type PlanOptions struct {
	InputRoot  string
	OutputRoot string
	SortByDate bool // <out>/<label>/<base> instead of <out>/<relative path>
}

// Planner computes placement decisions. It remembers every destination it
// has handed out so two decisions of one run never share a path.
type Planner struct {
	opts    PlanOptions
	claimed map[string]string // destination -> source
}

// NewPlanner returns a planner with absolute roots.
func NewPlanner(opts PlanOptions) (*Planner, error) {
	in, err := filepath.Abs(opts.InputRoot)
	if err != nil {
		return nil, err
	}
	out, err := filepath.Abs(opts.OutputRoot)
	if err != nil {
		return nil, err
	}
	opts.InputRoot, opts.OutputRoot = in, out
	return &Planner{opts: opts, claimed: make(map[string]string)}, nil
}

// Canonical returns the index of the member with the shortest base name.
// The first such member in class order wins ties.
func Canonical(class EquivalenceClass) int {
	best := 0
	for i, m := range class.Members {
		if utf8.RuneCountInString(m.Base()) < utf8.RuneCountInString(class.Members[best].Base()) {
			best = i
		}
	}
	return best
}

// Plan returns the decisions for every member of class. An inconsistent
// duplicate class yields no decisions and a diagnostic instead. A
// destination that already exists fails the whole plan.
func (p *Planner) Plan(class EquivalenceClass) ([]PlacementDecision, *Inconsistency, error) {
	if len(class.Members) == 0 {
		return nil, nil, nil
	}
	if !class.IsDuplicate() {
		dst, err := p.destination(class.Members[0], false)
		if err != nil {
			return nil, nil, err
		}
		d := PlacementDecision{Source: class.Members[0], Destination: dst, Role: RoleSingle, ClassID: class.ID}
		if err := p.claim(d); err != nil {
			return nil, nil, err
		}
		return []PlacementDecision{d}, nil, nil
	}

	if !class.Consistent() {
		inc := &Inconsistency{ClassID: class.ID, Digest: class.Digest, Size: class.Size}
		for _, m := range class.Members {
			inc.Members = append(inc.Members, LabeledPath{Path: m.Path, Label: m.Label})
		}
		return nil, inc, nil
	}

	canonical := Canonical(class)
	decisions := make([]PlacementDecision, 0, len(class.Members))
	for i, m := range class.Members {
		role := RoleClone
		if i == canonical {
			role = RoleCanonical
		}
		dst, err := p.destination(m, role == RoleClone)
		if err != nil {
			return nil, nil, err
		}
		decisions = append(decisions, PlacementDecision{Source: m, Destination: dst, Role: role, ClassID: class.ID})
	}
	// Claim only after every destination is known so a failed plan leaves
	// nothing reserved.
	for i, d := range decisions {
		if err := p.claim(d); err != nil {
			for _, prev := range decisions[:i] {
				delete(p.claimed, prev.Destination)
			}
			return nil, nil, err
		}
	}
	return decisions, nil, nil
}

func (p *Planner) destination(f *FileRecord, clone bool) (string, error) {
	var suffix string
	if p.opts.SortByDate {
		suffix = filepath.Join(f.Label, f.Base())
	} else {
		rel, err := filepath.Rel(p.opts.InputRoot, f.Path)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return "", fmt.Errorf("%w: %s", ErrOutsideRoot, f.Path)
		}
		suffix = rel
	}
	if clone {
		return filepath.Join(p.opts.OutputRoot, ClonesDir, suffix), nil
	}
	return filepath.Join(p.opts.OutputRoot, suffix), nil
}

func (p *Planner) claim(d PlacementDecision) error {
	if _, ok := p.claimed[d.Destination]; ok {
		return &CollisionError{Source: d.Source.Path, Destination: d.Destination}
	}
	if _, err := os.Lstat(d.Destination); err == nil {
		return &CollisionError{Source: d.Source.Path, Destination: d.Destination}
	} else if !os.IsNotExist(err) {
		return err
	}
	p.claimed[d.Destination] = d.Source.Path
	return nil
}
