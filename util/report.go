package util

import (
	"time"

	"github.com/dendrascience/sortdedup/version"
	"github.com/google/uuid"
)

type (
	// RunReport is the machine-readable record of one run.
	RunReport struct {
		ID              string           `json:"id"`
		Version         string           `json:"version"`
		Input           string           `json:"input"`
		Output          string           `json:"output"`
		Mode            Mode             `json:"mode"`
		DupesOnly       bool             `json:"dupes_only"`
		SortByDate      bool             `json:"sort_by_date"`
		StartedAt       time.Time        `json:"started_at"`
		FinishedAt      time.Time        `json:"finished_at"`
		Scan            ScanStats        `json:"scan"`
		Summary         ReportSummary    `json:"summary"`
		Decisions       []DecisionResult `json:"decisions"`
		Inconsistencies []Inconsistency  `json:"inconsistencies"`
		Error           string           `json:"error,omitempty"`
	}
	// ReportSummary holds counters derived from the decisions.
	ReportSummary struct {
		SizeBuckets     int   `json:"size_buckets"`
		Classes         int   `json:"classes"`
		DuplicateGroups int   `json:"duplicate_groups"`
		Singles         int   `json:"singles"`
		Canonicals      int   `json:"canonicals"`
		Clones          int   `json:"clones"`
		Inconsistent    int   `json:"inconsistent"`
		CloneBytes      int64 `json:"clone_bytes"`
	}
	// DecisionResult is a planned placement and whether it was carried out.
	DecisionResult struct {
		ClassID     int    `json:"class_id"`
		Source      string `json:"source"`
		Destination string `json:"destination"`
		Role        Role   `json:"role"`
		Label       string `json:"label"`
		Size        int64  `json:"size"`
		Applied     bool   `json:"applied"`
	}
)

// NewRunReport starts a report for cfg with a fresh run id.
func NewRunReport(cfg Config) RunReport {
	return RunReport{
		ID:         uuid.New().String(),
		Version:    version.GetVersion(),
		Input:      cfg.Input,
		Output:     cfg.Output,
		Mode:       cfg.Mode,
		DupesOnly:  cfg.DupesOnly,
		SortByDate: cfg.SortByDate,
		StartedAt:  time.Now(),
	}
}

// Record appends a decision to the report.
func (r *RunReport) Record(d PlacementDecision, applied bool) {
	r.Decisions = append(r.Decisions, DecisionResult{
		ClassID:     d.ClassID,
		Source:      d.Source.Path,
		Destination: d.Destination,
		Role:        d.Role,
		Label:       d.Source.Label,
		Size:        d.Source.Size,
		Applied:     applied,
	})
}

// Finalize stamps the finish time, normalizes times to UTC and recomputes
// the decision counters. SizeBuckets and Classes are set by the runner.
func (r *RunReport) Finalize() {
	if r.FinishedAt.IsZero() {
		r.FinishedAt = time.Now()
	}
	r.StartedAt = r.StartedAt.UTC()
	r.FinishedAt = r.FinishedAt.UTC()

	s := ReportSummary{
		SizeBuckets:  r.Summary.SizeBuckets,
		Classes:      r.Summary.Classes,
		Inconsistent: len(r.Inconsistencies),
	}
	groups := make(map[int]struct{})
	for _, d := range r.Decisions {
		switch d.Role {
		case RoleSingle:
			s.Singles++
		case RoleCanonical:
			s.Canonicals++
			groups[d.ClassID] = struct{}{}
		case RoleClone:
			s.Clones++
			s.CloneBytes += d.Size
		}
	}
	s.DuplicateGroups = len(groups) + s.Inconsistent
	r.Summary = s
}
