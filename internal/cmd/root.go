package cmd

import (
	"log/slog"
	"os"

	"github.com/dendrascience/sortdedup/version"
	"github.com/spf13/cobra"
)

// NewRootCmd creates and returns the root cobra command for the sortdedup CLI.
// It sets up all subcommands, command groups, and the shared logging flag.
func NewRootCmd() *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "sortdedup",
		Short: "sortdedup - Sort a file tree into a deduplicated, date-stamped layout",
		Long: `sortdedup finds byte-identical files in a directory tree and routes them
into an output tree: one canonical copy per content, every other copy under
clones/, optionally grouped by the date the file was taken.

Use subcommands to perform different operations:
  - sort: Plan and apply the layout (report, copy or move)
  - preview: Mount the planned layout read-only before applying it
  - scan: Summarize the size buckets of a tree
  - validate: Check an output tree against a run report
  - seed: Generate a test tree full of duplicates
  - version: Show build information`,
		Version:       version.GetFullVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
			slog.SetDefault(slog.New(handler))
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	groupUtilities := "utilities"
	groupFilesystem := "filesystem"

	rootCmd.AddGroup(&cobra.Group{
		ID:    groupFilesystem,
		Title: "Filesystem Operations",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    groupUtilities,
		Title: "Utility Commands",
	})

	sortCmd := NewSortCmd()
	previewCmd := NewPreviewCmd()
	scanCmd := NewScanCmd()
	validateCmd := NewValidateCmd()
	seedCmd := NewSeedCmd()
	versionCmd := NewVersionCmd()

	sortCmd.GroupID = groupFilesystem
	previewCmd.GroupID = groupFilesystem
	scanCmd.GroupID = groupUtilities
	validateCmd.GroupID = groupUtilities
	seedCmd.GroupID = groupUtilities
	versionCmd.GroupID = groupUtilities

	rootCmd.AddCommand(sortCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(versionCmd)

	return rootCmd
}
