package util

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"
)

// Mode selects what Apply does with a decision.
type Mode string

const (
	ModeReport Mode = "report" // print only
	ModeCopy   Mode = "copy"   // duplicate bytes, keep the source
	ModeMove   Mode = "move"   // relocate, the source is gone afterwards
)

// Modes lists the accepted action modes.
var Modes = []Mode{ModeReport, ModeCopy, ModeMove}

// ParseMode parses an action name. "dry" is accepted as a synonym of report.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "report", "dry", "dry-run":
		return ModeReport, nil
	case "copy":
		return ModeCopy, nil
	case "move":
		return ModeMove, nil
	}
	return "", fmt.Errorf("%w %q (must be one of report, copy, move)", ErrInvalidMode, s)
}

// renameFunc is swapped in tests to simulate EXDEV.
var renameFunc = os.Rename

// Apply performs the filesystem effect of d. It never overwrites an
// existing destination.
func Apply(d PlacementDecision, mode Mode) error {
	switch mode {
	case ModeReport:
		return nil
	case ModeCopy:
		if err := os.MkdirAll(filepath.Dir(d.Destination), 0o755); err != nil {
			return err
		}
		return copyFile(d.Source.Path, d.Destination)
	case ModeMove:
		if err := os.MkdirAll(filepath.Dir(d.Destination), 0o755); err != nil {
			return err
		}
		return moveFile(d.Source.Path, d.Destination)
	}
	return fmt.Errorf("%w %q", ErrInvalidMode, mode)
}

func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return &ReadError{Path: src, Err: err}
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return &ReadError{Path: src, Err: err}
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return &CollisionError{Source: src, Destination: dst}
		}
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(dst)
		}
	}()

	if _, err = io.Copy(out, in); err != nil {
		return fmt.Errorf("copy %s to %s: %w", src, dst, err)
	}
	if err = out.Sync(); err != nil {
		return err
	}
	// Keep the modification time so a later scan of the output derives the same label.
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}

func moveFile(src, dst string) error {
	// rename silently replaces an existing file
	if _, err := os.Lstat(dst); err == nil {
		return &CollisionError{Source: src, Destination: dst}
	} else if !os.IsNotExist(err) {
		return err
	}

	err := renameFunc(src, dst)
	if err == nil {
		return nil
	}
	if !isCrossDevice(err) {
		return err
	}
	if err := copyFile(src, dst); err != nil {
		return err
	}
	return os.Remove(src)
}

func isCrossDevice(err error) bool {
	var le *os.LinkError
	if errors.As(err, &le) {
		err = le.Err
	}
	return errors.Is(err, syscall.EXDEV)
}
