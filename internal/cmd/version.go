package cmd

import (
	"github.com/dendrascience/sortdedup/version"
	"github.com/spf13/cobra"
)

// NewVersionCmd creates and returns the version subcommand for the sortdedup CLI.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version, commit and build date",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			version.PrintVersion(cmd.OutOrStdout())
		},
	}
}
