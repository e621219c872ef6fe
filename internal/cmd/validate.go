package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dendrascience/sortdedup/util"
	"github.com/spf13/cobra"
)

var errValidationFailed = errors.New("validation failed")

// NewValidateCmd creates and returns the validate subcommand for the sortdedup CLI.
// It checks an output tree against the run report that produced it.
func NewValidateCmd() *cobra.Command {
	var reportPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check an output tree against a run report",
		Long: `Validate the result of a copy or move run using its JSON report.

Every applied destination must exist as a regular file of the recorded size,
and all applied destinations of one group must still hash to the same
digest. Decisions that were only reported are skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := readReport(reportPath)
			if err != nil {
				return err
			}
			return runValidate(cmd.OutOrStdout(), report)
		},
	}

	cmd.Flags().StringVarP(&reportPath, "report", "r", "", "Path to the run report to validate (required)")

	cmd.MarkFlagRequired("report")

	return cmd
}

func readReport(path string) (util.RunReport, error) {
	var report util.RunReport
	f, err := os.Open(path)
	if err != nil {
		return report, err
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(&report); err != nil {
		return report, fmt.Errorf("failed to parse run report %s: %w", path, err)
	}
	return report, nil
}

func runValidate(w io.Writer, report util.RunReport) error {
	fmt.Fprintf(w, "Validating run %s (%s)\n", report.ID, report.Mode)

	var checked int
	var problems []string
	classDigests := make(map[int]string)

	for _, d := range report.Decisions {
		if !d.Applied {
			continue
		}
		checked++
		problems = append(problems, validateDecision(d, classDigests)...)
	}

	for _, p := range problems {
		fmt.Fprintf(w, "  - %s\n", p)
	}
	fmt.Fprintf(w, "\nValidation complete:\n")
	fmt.Fprintf(w, "  Destinations checked: %d\n", checked)
	fmt.Fprintf(w, "  Total errors: %d\n", len(problems))

	if len(problems) > 0 {
		return fmt.Errorf("%w: %d errors", errValidationFailed, len(problems))
	}
	return nil
}

func validateDecision(d util.DecisionResult, classDigests map[int]string) []string {
	info, err := os.Lstat(d.Destination)
	if err != nil {
		return []string{fmt.Sprintf("missing destination %s: %v", d.Destination, err)}
	}
	if !info.Mode().IsRegular() {
		return []string{fmt.Sprintf("destination %s is not a regular file", d.Destination)}
	}
	if info.Size() != d.Size {
		return []string{fmt.Sprintf("size mismatch for %s: expected %d, got %d", d.Destination, d.Size, info.Size())}
	}

	digest, err := util.GetFileHash(d.Destination)
	if err != nil {
		return []string{err.Error()}
	}
	want, seen := classDigests[d.ClassID]
	if !seen {
		classDigests[d.ClassID] = digest
		return nil
	}
	if digest != want {
		return []string{fmt.Sprintf("content of %s differs from the rest of group %d", d.Destination, d.ClassID)}
	}
	return nil
}
