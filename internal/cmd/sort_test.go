package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dendrascience/sortdedup/util"
)

func TestSortCmd_Copy(t *testing.T) {
	in, out := t.TempDir(), filepath.Join(t.TempDir(), "sorted")
	writeFile(t, in, "a.jpg", "same bytes")
	writeFile(t, in, "nested/a_copy.jpg", "same bytes")
	writeFile(t, in, "b.jpg", "different")
	reportPath := filepath.Join(t.TempDir(), "report.json")

	stdout, err := execute(t, "sort", "-i", in, "-o", out, "-a", "copy", "--no-color", "--report", reportPath)
	if err != nil {
		t.Fatalf("sort error = %v\n%s", err, stdout)
	}

	for _, rel := range []string{"a.jpg", "b.jpg", filepath.Join(util.ClonesDir, "nested", "a_copy.jpg")} {
		if _, err := os.Stat(filepath.Join(out, rel)); err != nil {
			t.Errorf("expected %s in output: %v", rel, err)
		}
	}
	if !strings.Contains(stdout, "identical files") {
		t.Errorf("output lacks a group header:\n%s", stdout)
	}
	if strings.Contains(stdout, "\x1b[") {
		t.Errorf("--no-color output contains escape codes:\n%s", stdout)
	}

	report, err := readReport(reportPath)
	if err != nil {
		t.Fatal(err)
	}
	if report.Mode != util.ModeCopy || report.Summary.Clones != 1 || report.Summary.Canonicals != 1 || report.Summary.Singles != 1 {
		t.Errorf("unexpected report summary: mode %s, %+v", report.Mode, report.Summary)
	}
}

func TestSortCmd_ReportLeavesOutputAlone(t *testing.T) {
	in, out := t.TempDir(), filepath.Join(t.TempDir(), "sorted")
	writeFile(t, in, "a.jpg", "same bytes")
	writeFile(t, in, "b.jpg", "same bytes")

	stdout, err := execute(t, "sort", "-i", in, "-o", out)
	if err != nil {
		t.Fatalf("sort error = %v", err)
	}
	if !strings.Contains(stdout, "dry run") {
		t.Errorf("report mode should warn about the dry run:\n%s", stdout)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Errorf("report mode created the output root: %v", err)
	}
}

func TestSortCmd_Errors(t *testing.T) {
	in := t.TempDir()
	writeFile(t, in, "a.jpg", "x")

	tests := []struct {
		name string
		args []string
		want error
	}{
		{name: "invalid action", args: []string{"sort", "-i", in, "-o", t.TempDir(), "-a", "delete"}, want: util.ErrInvalidMode},
		{name: "same root", args: []string{"sort", "-i", in, "-o", in}, want: util.ErrSameRoot},
		{name: "input is a file", args: []string{"sort", "-i", filepath.Join(in, "a.jpg"), "-o", t.TempDir()}, want: util.ErrNotDirectory},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			if !errors.Is(err, tt.want) {
				t.Errorf("sort error = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := execute(t, "sort", "-i", in, "-o", t.TempDir(), "-x", "("); err == nil {
		t.Error("expected an error for an invalid exclude pattern")
	}
}
