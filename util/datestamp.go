package util

import (
	"os"
	"time"
)

// DateLayout is the format of a date label.
const DateLayout = "2006-01-02"

// LabelFromTimes returns the UTC calendar day of the earlier of the two instants.
// Either timestamp alone can be reset by a copy or a restore; the earlier one
// is the best estimate of when the content first existed.
func LabelFromTimes(mtime, ctime time.Time) string {
	t := mtime
	if !ctime.IsZero() && ctime.Before(mtime) {
		t = ctime
	}
	return t.UTC().Format(DateLayout)
}

// DateLabel returns the date label of the file at path.
func DateLabel(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	return labelFromInfo(path, info)
}

func labelFromInfo(path string, info os.FileInfo) (string, error) {
	ctime, err := changeTime(path, info)
	if err != nil {
		return "", err
	}
	return LabelFromTimes(info.ModTime(), ctime), nil
}
