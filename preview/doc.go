// Package preview exposes a planned sortdedup layout as a read-only FUSE filesystem.
//
// The tree mirrors the output root a copy or move run would produce: date or
// path-preserving directories for canonical and single files, and the clones/
// subtree for duplicates. Nothing is written anywhere; every file read is
// served from the corresponding source file, so the layout can be browsed
// before committing to it.
//
// The main entry point is NewFS(), whose result can be mounted using the
// bazil.org/fuse library.
package preview
