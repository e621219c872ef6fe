// Package util provides the grouping and placement engine of sortdedup.
//
// This package contains everything between an input directory tree and the
// filesystem effects of a run: file hashing, date labelling, size bucketing,
// equivalence classification, destination planning and the copy/move
// executor. The cmd and preview packages are thin layers around it.
//
// Key Components:
//
// Scanning:
//   - BuildSizeIndex walks a tree, filters by extension and an exclusion
//     pattern, drops zero-byte files and buckets the rest by exact size
//   - DateLabel derives a YYYY-MM-DD label from the earlier of mtime and ctime
//
// Classification:
//   - SHA-256 digests streamed in HashChunkSize chunks
//   - Classify splits one size bucket by digest; ClassifyIndex runs every
//     bucket on a bounded worker pool and numbers the classes afterwards
//
// Placement:
//   - Planner picks the canonical member (shortest base name) of each
//     duplicate class, routes the rest under clones/, and refuses any
//     destination that already exists
//   - Classes whose members disagree on their date label are reported as an
//     Inconsistency and never placed
//
// Execution:
//   - Apply performs report, copy or move for a decision without ever
//     overwriting a file
//   - Run ties the stages together and returns a RunReport
//
// Fatal conditions (unreadable files, destination collisions) stop a run at
// once; nothing already applied is rolled back.
package util
