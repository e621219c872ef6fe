package version

import (
	"bytes"
	"strings"
	"testing"
)

func TestGetFullVersion(t *testing.T) {
	oldVersion, oldCommit, oldDate := Version, Commit, Date
	t.Cleanup(func() { Version, Commit, Date = oldVersion, oldCommit, oldDate })

	tests := []struct {
		name    string
		version string
		commit  string
		date    string
		want    string
	}{
		{name: "full", version: "v1.2.0", commit: "0123456789abcdef", date: "2024-05-01", want: "v1.2.0 (0123456, built 2024-05-01)"},
		{name: "no date", version: "v1.2.0", commit: "0123456789abcdef", date: "unknown", want: "v1.2.0 (0123456)"},
		{name: "short commit", version: "v1.2.0", commit: "abc", date: "2024-05-01", want: "v1.2.0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Version, Commit, Date = tt.version, tt.commit, tt.date
			if got := GetFullVersion(); got != tt.want {
				t.Errorf("GetFullVersion() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPrintVersion(t *testing.T) {
	oldVersion := Version
	t.Cleanup(func() { Version = oldVersion })
	Version = "v0.9.0"

	var buf bytes.Buffer
	PrintVersion(&buf)
	if !strings.HasPrefix(buf.String(), "sortdedup version v0.9.0") {
		t.Errorf("PrintVersion() = %q", buf.String())
	}
	if GetInfo().Package != Package {
		t.Errorf("GetInfo().Package = %q", GetInfo().Package)
	}
}
