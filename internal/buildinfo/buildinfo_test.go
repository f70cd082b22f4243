package buildinfo

import (
	"runtime/debug"
	"testing"
)

func stub(t *testing.T, version, commit, date string, settings ...debug.BuildSetting) {
	t.Helper()
	oldV, oldC, oldD, oldR := Version, Commit, Date, readBuildInfo
	t.Cleanup(func() { Version, Commit, Date, readBuildInfo = oldV, oldC, oldD, oldR })
	Version, Commit, Date = version, commit, date
	readBuildInfo = func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{Settings: settings}, true
	}
}

func TestShortPrefersVersion(t *testing.T) {
	stub(t, "v1.2.0", "abc", "unknown")
	if got := Short(); got != "v1.2.0" {
		t.Fatalf("Short() = %q, want v1.2.0", got)
	}
	if got := String(); got != "v1.2.0 (abc)" {
		t.Fatalf("String() = %q", got)
	}
}

func TestShortFallsBackToVCS(t *testing.T) {
	stub(t, "dev", "unknown", "2024-05-01",
		debug.BuildSetting{Key: "vcs.revision", Value: "0123456789abcdef0123"},
		debug.BuildSetting{Key: "vcs.modified", Value: "true"},
	)
	if got := Short(); got != "0123456789ab-dirty" {
		t.Fatalf("Short() = %q", got)
	}
	if got := String(); got != "0123456789ab-dirty built 2024-05-01" {
		t.Fatalf("String() = %q", got)
	}
}

func TestShortDev(t *testing.T) {
	stub(t, "dev", "unknown", "unknown")
	if got := Short(); got != "dev" {
		t.Fatalf("Short() = %q, want dev", got)
	}
}
