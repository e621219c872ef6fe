package cmd

import (
	"fmt"
	"regexp"
	"runtime"
	"strings"

	"github.com/dendrascience/sortdedup/util"
	"github.com/spf13/cobra"
)

// planFlags are the flags shared by every command that builds a plan.
type planFlags struct {
	input      string
	output     string
	sortByDate bool
	extensions []string
	exclude    string
	dupesOnly  bool
	workers    int
}

func (f *planFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.input, "input", "i", "", "Path to the input root folder (required)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Path to the output root folder (required)")
	cmd.Flags().BoolVarP(&f.sortByDate, "date", "d", false, "Group output files in YYYY-MM-DD folders")
	cmd.Flags().StringSliceVarP(&f.extensions, "ext", "e", util.DefaultExtensions,
		fmt.Sprintf("File extensions to include (%q for all)", util.Wildcard))
	cmd.Flags().StringVarP(&f.exclude, "exclude", "x", "", "Regular expression; matching paths are skipped")
	cmd.Flags().BoolVar(&f.dupesOnly, "dupes-only", false, "Only route files that have at least one duplicate")
	cmd.Flags().IntVarP(&f.workers, "workers", "w", runtime.NumCPU(), "Number of size buckets hashed in parallel")

	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("output")
}

func (f *planFlags) config() (util.Config, error) {
	cfg := util.Config{
		Input:      f.input,
		Output:     f.output,
		SortByDate: f.sortByDate,
		Extensions: f.extensions,
		DupesOnly:  f.dupesOnly,
		Workers:    f.workers,
	}
	if strings.TrimSpace(f.exclude) != "" {
		re, err := regexp.Compile(f.exclude)
		if err != nil {
			return cfg, fmt.Errorf("invalid exclude pattern: %w", err)
		}
		cfg.Exclude = re
	}
	return cfg, nil
}
