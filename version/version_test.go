package version

import (
	"strings"
	"testing"
)

func saveAndRestore() func() {
	origVersion, origCommit, origBuildTime := Version, GitCommit, BuildTime
	return func() {
		Version = origVersion
		GitCommit = origCommit
		BuildTime = origBuildTime
	}
}

func TestGet_Defaults(t *testing.T) {
	defer saveAndRestore()()
	Version = "dev"
	GitCommit = ""
	BuildTime = ""

	info := Get()
	if info.Version != "dev" {
		t.Errorf("expected version dev, got %q", info.Version)
	}
	if info.BuildDate.IsZero() {
		t.Error("BuildDate should never be zero")
	}
}

func TestGet_LdflagsWin(t *testing.T) {
	defer saveAndRestore()()
	Version = "1.2.0"
	GitCommit = "ab12cd3"
	BuildTime = "2026-01-15T10:00:00Z"

	info := Get()
	if info.Version != "1.2.0" || info.GitCommit != "ab12cd3" {
		t.Errorf("unexpected info: %+v", info)
	}
	if info.BuildDate.Year() != 2026 {
		t.Errorf("expected build date from ldflags, got %v", info.BuildDate)
	}
}

func TestShort(t *testing.T) {
	defer saveAndRestore()()
	Version = "1.2.0"
	GitCommit = "ab12cd3"
	BuildTime = ""

	short := Short()
	if !strings.HasPrefix(short, "1.2.0-ab12cd3") {
		t.Errorf("unexpected short version %q", short)
	}
}
