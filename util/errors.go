package util

import (
	"errors"
	"fmt"
)

// Sentinel errors for package util.
// These errors can be checked with errors.Is() for specific error handling.
var (
	// File and directory errors
	ErrExpectedFile = errors.New("expected file, got directory")
	ErrNotDirectory = errors.New("expected directory but got file")
	ErrUnreadable   = errors.New("file is unreadable")

	// Planning errors
	ErrDestinationCollision = errors.New("destination already exists")
	ErrOutsideRoot          = errors.New("path is outside the input root")

	// Configuration errors
	ErrInvalidMode = errors.New("invalid action mode")
	ErrSameRoot    = errors.New("input and output roots must differ")
)

// ReadError reports a file that could not be read while computing its digest.
// It is fatal for a run: a stale digest would misroute every other member of
// the same equivalence class.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() []error { return []error{ErrUnreadable, e.Err} }

// CollisionError reports a planned destination that is already taken,
// either on disk or by an earlier decision of the same run.
type CollisionError struct {
	Source      string
	Destination string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("cannot place %s: destination %s already exists", e.Source, e.Destination)
}

func (e *CollisionError) Unwrap() error { return ErrDestinationCollision }
