package util

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
	"github.com/taigrr/colorhash"
)

// Config is a validated description of one run.
type Config struct {
	Input      string
	Output     string
	Mode       Mode
	DupesOnly  bool
	SortByDate bool
	Extensions []string
	Exclude    *regexp.Regexp
	Workers    int

	Color    bool      // tint group headers
	Progress io.Writer // hashing progress bar destination; nil disables
}

// ScanOptions returns the scan configuration for cfg. An output root nested
// inside the input root is pruned from the walk.
func (cfg Config) ScanOptions() ScanOptions {
	opts := ScanOptions{
		Root:       cfg.Input,
		Extensions: NormalizeExtensions(cfg.Extensions),
		Exclude:    cfg.Exclude,
	}
	if IsWithin(cfg.Output, cfg.Input) {
		opts.SkipDirs = []string{cfg.Output}
	}
	return opts
}

// Validate checks the roots and the mode, making both roots absolute.
func (cfg *Config) Validate() error {
	if cfg.Mode == "" {
		cfg.Mode = ModeReport
	}
	mode, err := ParseMode(string(cfg.Mode))
	if err != nil {
		return err
	}
	cfg.Mode = mode
	in, err := filepath.Abs(cfg.Input)
	if err != nil {
		return err
	}
	out, err := filepath.Abs(cfg.Output)
	if err != nil {
		return err
	}
	info, err := os.Stat(in)
	if err != nil {
		return fmt.Errorf("input directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotDirectory, in)
	}
	if in == out {
		return fmt.Errorf("%w: %s", ErrSameRoot, in)
	}
	cfg.Input, cfg.Output = in, out
	return nil
}

// IsWithin reports whether path is base or lies below it.
func IsWithin(path, base string) bool {
	path, base = filepath.Clean(path), filepath.Clean(base)
	if path == base {
		return true
	}
	return strings.HasPrefix(path, base+string(filepath.Separator))
}

// Prepare scans and classifies the input of cfg without touching the output.
func Prepare(ctx context.Context, cfg Config) (SizeIndex, ScanStats, Classification, error) {
	idx, stats, err := BuildSizeIndex(cfg.ScanOptions())
	if err != nil {
		return SizeIndex{}, stats, Classification{}, err
	}
	slog.Info("scan complete",
		"files", stats.Included,
		"size_buckets", idx.Len(),
		"filtered", stats.Filtered,
		"empty", stats.Empty,
	)

	opts := ClassifyOptions{DupesOnly: cfg.DupesOnly, Workers: cfg.Workers}
	if cfg.Progress != nil {
		var toHash int
		for _, size := range idx.Sizes() {
			if n := len(idx.Bucket(size)); n > 1 {
				toHash += n
			}
		}
		bar := progressbar.NewOptions(toHash,
			progressbar.OptionSetWriter(cfg.Progress),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(15),
			progressbar.OptionSetDescription("Hashing files..."),
			progressbar.OptionShowElapsedTimeOnFinish(),
		)
		defer bar.Finish()
		opts.OnHashed = func() { bar.Add(1) }
	}

	cls, err := ClassifyIndex(ctx, idx, opts)
	if err != nil {
		return idx, stats, Classification{}, err
	}
	slog.Info("classification complete", "classes", len(cls.Classes), "duplicate_groups", cls.Duplicates())
	return idx, stats, cls, nil
}

// PlanAll scans, classifies and plans cfg without applying anything.
func PlanAll(ctx context.Context, cfg Config) ([]PlacementDecision, []Inconsistency, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	_, _, cls, err := Prepare(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	planner, err := NewPlanner(PlanOptions{InputRoot: cfg.Input, OutputRoot: cfg.Output, SortByDate: cfg.SortByDate})
	if err != nil {
		return nil, nil, err
	}

	var (
		decisions       []PlacementDecision
		inconsistencies []Inconsistency
	)
	for _, class := range cls.Classes {
		d, inc, err := planner.Plan(class)
		if err != nil {
			return nil, nil, err
		}
		if inc != nil {
			inconsistencies = append(inconsistencies, *inc)
		}
		decisions = append(decisions, d...)
	}
	return decisions, inconsistencies, nil
}

// Run scans, classifies, plans and applies cfg, writing progress lines to w.
// It stops at the first fatal error; the report covers everything done up
// to that point.
func Run(ctx context.Context, cfg Config, w io.Writer) (RunReport, error) {
	if err := cfg.Validate(); err != nil {
		return RunReport{}, err
	}
	report := NewRunReport(cfg)

	fail := func(err error) (RunReport, error) {
		report.Error = err.Error()
		report.Finalize()
		return report, err
	}

	if cfg.Mode == ModeReport {
		fmt.Fprintln(w, "Warning! This is a dry run and no real action will be performed!")
	}
	fmt.Fprintf(w, "Input root folder  : %s\n", cfg.Input)
	fmt.Fprintf(w, "Output folder      : %s\n", cfg.Output)
	fmt.Fprintf(w, "Add date stamp     : %v\n", cfg.SortByDate)

	idx, stats, cls, err := Prepare(ctx, cfg)
	report.Scan = stats
	if err != nil {
		return fail(err)
	}
	report.Summary.SizeBuckets = idx.Len()
	report.Summary.Classes = len(cls.Classes)

	planner, err := NewPlanner(PlanOptions{InputRoot: cfg.Input, OutputRoot: cfg.Output, SortByDate: cfg.SortByDate})
	if err != nil {
		return fail(err)
	}

	for _, class := range cls.Classes {
		if err := ctx.Err(); err != nil {
			return fail(err)
		}
		decisions, inc, err := planner.Plan(class)
		if err != nil {
			return fail(err)
		}
		if inc != nil {
			report.Inconsistencies = append(report.Inconsistencies, *inc)
			printInconsistency(w, class, *inc, cfg.Color)
			continue
		}
		if class.IsDuplicate() {
			fmt.Fprintln(w, groupHeader(class, cfg.Color))
		}
		for _, d := range decisions {
			printDecision(w, d)
			if err := Apply(d, cfg.Mode); err != nil {
				report.Record(d, false)
				return fail(err)
			}
			report.Record(d, cfg.Mode != ModeReport)
			slog.Debug("placed", "role", d.Role, "src", d.Source.Path, "dst", d.Destination, "mode", cfg.Mode)
		}
	}

	report.FinishedAt = time.Now()
	report.Finalize()
	PrintSummary(w, report)
	return report, nil
}

func groupHeader(class EquivalenceClass, color bool) string {
	digest := class.Digest
	if len(digest) > 12 {
		digest = digest[:12]
	}
	header := fmt.Sprintf("=== group %d: %d identical files of %s (%s) ===",
		class.ID, len(class.Members), humanize.IBytes(uint64(class.Size)), digest)
	if !color {
		return header
	}
	return tint(class.Digest, header)
}

// tint colours s with one of the 216 colour-cube entries of the ANSI 256
// palette, chosen by key.
func tint(key, s string) string {
	h := colorhash.HashString(key)
	if h < 0 {
		h = -h
	}
	code := 16 + h%216
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", code, s)
}

func printDecision(w io.Writer, d PlacementDecision) {
	if d.Role == RoleSingle {
		fmt.Fprintf(w, "%s => %s\n", d.Source.Path, d.Destination)
		return
	}
	fmt.Fprintf(w, "  [%s] %s => %s\n", d.Role, d.Source.Path, d.Destination)
}

func printInconsistency(w io.Writer, class EquivalenceClass, inc Inconsistency, color bool) {
	header := fmt.Sprintf("=== group %d is not consistent, resolve manually ===", inc.ClassID)
	if color {
		header = tint(class.Digest, header)
	}
	fmt.Fprintln(w, header)
	for _, m := range inc.Members {
		fmt.Fprintf(w, "  %s (%s)\n", m.Path, m.Label)
	}
}

// PrintSummary writes the closing counters of a run.
func PrintSummary(w io.Writer, r RunReport) {
	s := r.Summary
	fmt.Fprintf(w, "\nSummary:\n")
	fmt.Fprintf(w, "  Files scanned:       %d (%s)\n", r.Scan.Included, humanize.IBytes(uint64(r.Scan.Bytes)))
	fmt.Fprintf(w, "  Size buckets:        %d\n", s.SizeBuckets)
	fmt.Fprintf(w, "  Classes:             %d\n", s.Classes)
	fmt.Fprintf(w, "  Duplicate groups:    %d\n", s.DuplicateGroups)
	fmt.Fprintf(w, "  Clones:              %d (%s)\n", s.Clones, humanize.IBytes(uint64(s.CloneBytes)))
	fmt.Fprintf(w, "  Inconsistent groups: %d\n", s.Inconsistent)
}
