// Package cmd provides the command-line interface implementation for sortdedup.
//
// This package contains all the subcommand implementations for the sortdedup CLI
// tool. It uses the Cobra library for command structure and Fang for styling.
//
// The package is organized into the following commands:
//   - root: Main command coordinator, logging setup and entry point
//   - sort: Scan, deduplicate and apply the planned layout
//   - preview: Mount the planned layout read-only over FUSE
//   - scan: Size bucket summary of a tree
//   - validate: Output tree checks against a run report
//   - seed: Test tree generation
//
// Each command is implemented as a separate file with its own constructor function
// that returns a *cobra.Command. Commands that build a plan share one set of
// flags, registered by planFlags.
//
// The package leverages the util package for the deduplication engine and the
// preview package for the filesystem implementation.
package cmd
