package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/dendrascience/sortdedup/util"
	"github.com/spf13/cobra"
)

// NewSortCmd creates and returns the sort subcommand for the sortdedup CLI.
// It scans the input tree, deduplicates it and applies the chosen action.
func NewSortCmd() *cobra.Command {
	var (
		flags      planFlags
		action     string
		reportPath string
		progress   bool
		noColor    bool
	)

	cmd := &cobra.Command{
		Use:   "sort",
		Short: "Deduplicate and sort a file tree into an output tree",
		Long: `Scan the input tree, group byte-identical files, and route them into the
output tree.

For each group of identical files the one with the shortest name becomes the
canonical copy and keeps its relative path (or goes into a YYYY-MM-DD folder
with --date). Every other copy goes under clones/. Groups whose copies carry
different dates are reported and left alone.

The default action is report, which prints the plan without touching
anything. Existing files in the output tree are never overwritten.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.config()
			if err != nil {
				return err
			}
			mode, err := util.ParseMode(action)
			if err != nil {
				return err
			}
			cfg.Mode = mode
			cfg.Color = !noColor && os.Getenv("NO_COLOR") == ""
			if progress {
				cfg.Progress = cmd.ErrOrStderr()
			}

			report, runErr := util.Run(cmd.Context(), cfg, cmd.OutOrStdout())
			if reportPath != "" && report.ID != "" {
				if err := util.WriteJSONFile(reportPath, report); err != nil {
					slog.Error("failed to write run report", "path", reportPath, "error", err)
				} else {
					slog.Info("run report written", "path", reportPath, "id", report.ID)
				}
			}
			if runErr != nil {
				return fmt.Errorf("sort failed: %w", runErr)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&action, "action", "a", string(util.ModeReport), "Action to perform: report, copy or move")
	cmd.Flags().StringVar(&reportPath, "report", "", "Write a JSON run report to this file")
	cmd.Flags().BoolVar(&progress, "progress", false, "Show a hashing progress bar on stderr")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable coloured group headers")

	return cmd
}
