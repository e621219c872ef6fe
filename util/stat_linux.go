//go:build linux

package util

import (
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// changeTime returns the inode status-change time of path.
func changeTime(path string, _ os.FileInfo) (time.Time, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return time.Time{}, &os.PathError{Op: "stat", Path: path, Err: err}
	}
	return time.Unix(st.Ctim.Unix()), nil
}
