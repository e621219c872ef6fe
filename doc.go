// Package main provides the sortdedup command-line interface.
//
// sortdedup finds byte-identical files in a directory tree and reorganizes
// them into an output tree. Files are bucketed by size, only buckets with
// more than one member are hashed, and every group of identical files keeps
// one canonical copy while the rest are routed under clones/. Output can be
// grouped by the YYYY-MM-DD date each file was taken.
//
// The main binary supports multiple subcommands:
//   - sort: Report, copy or move the input tree into the planned layout
//   - preview: Mount the planned layout read-only via FUSE
//   - scan: Summarize size buckets of a directory tree
//   - validate: Check an output tree against a run report
//   - seed: Generate a test tree full of duplicates
package main
