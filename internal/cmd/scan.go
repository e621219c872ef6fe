package cmd

import (
	"fmt"
	"io"
	"regexp"
	"sort"

	"github.com/dendrascience/sortdedup/util"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// NewScanCmd creates and returns the scan subcommand for the sortdedup CLI.
// It summarizes the size buckets of a directory tree without hashing anything.
func NewScanCmd() *cobra.Command {
	var (
		path       string
		extensions []string
		exclude    string
		top        int
	)

	cmd := &cobra.Command{
		Use:   "scan [PATH]",
		Short: "Summarize the size buckets of a directory tree",
		Long: `Walk a directory tree and group the matching files by size.

Only files sharing a size can be duplicates, so the bucket summary gives a
quick upper bound on how much hashing a sort run will do. The largest
candidate buckets are listed by the bytes they could free.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				path = args[0]
			}
			opts := util.ScanOptions{Root: path, Extensions: util.NormalizeExtensions(extensions)}
			if exclude != "" {
				re, err := regexp.Compile(exclude)
				if err != nil {
					return fmt.Errorf("invalid exclude pattern: %w", err)
				}
				opts.Exclude = re
			}
			idx, stats, err := util.BuildSizeIndex(opts)
			if err != nil {
				return fmt.Errorf("error scanning files: %w", err)
			}
			printScan(cmd.OutOrStdout(), idx, stats, top)
			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "path", "p", "./", "Path to scan")
	cmd.Flags().StringSliceVarP(&extensions, "ext", "e", util.DefaultExtensions,
		fmt.Sprintf("File extensions to include (%q for all)", util.Wildcard))
	cmd.Flags().StringVarP(&exclude, "exclude", "x", "", "Regular expression; matching paths are skipped")
	cmd.Flags().IntVar(&top, "top", 10, "Number of candidate buckets to list")

	return cmd
}

type bucketSummary struct {
	size  int64
	count int
}

// reclaimable is the space held by every file of the bucket but one.
func (b bucketSummary) reclaimable() int64 {
	return b.size * int64(b.count-1)
}

func printScan(w io.Writer, idx util.SizeIndex, stats util.ScanStats, top int) {
	var candidates []bucketSummary
	for _, size := range idx.Sizes() {
		if n := len(idx.Bucket(size)); n > 1 {
			candidates = append(candidates, bucketSummary{size: size, count: n})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].reclaimable() > candidates[j].reclaimable()
	})

	var upperBound int64
	for _, b := range candidates {
		upperBound += b.reclaimable()
	}

	fmt.Fprintf(w, "Files visited:     %d\n", stats.Visited)
	fmt.Fprintf(w, "Files included:    %d (%s)\n", stats.Included, humanize.IBytes(uint64(stats.Bytes)))
	fmt.Fprintf(w, "Filtered out:      %d\n", stats.Filtered)
	fmt.Fprintf(w, "Empty files:       %d\n", stats.Empty)
	fmt.Fprintf(w, "Size buckets:      %d\n", idx.Len())
	fmt.Fprintf(w, "Candidate buckets: %d\n", len(candidates))
	fmt.Fprintf(w, "Reclaimable (max): %s\n", humanize.IBytes(uint64(upperBound)))

	if top <= 0 || len(candidates) == 0 {
		return
	}
	if len(candidates) > top {
		candidates = candidates[:top]
	}
	fmt.Fprintln(w, "\nLargest candidate buckets:")
	for _, b := range candidates {
		fmt.Fprintf(w, "  %10s x %-4d up to %s\n",
			humanize.IBytes(uint64(b.size)), b.count, humanize.IBytes(uint64(b.reclaimable())))
	}
}
