// Package buildinfo identifies the running binary in window titles and
// command versions.
package buildinfo

import (
	"runtime/debug"
	"strings"
)

// Set at build time via -ldflags "-X trendscope/internal/buildinfo.Version=...".
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// readBuildInfo is replaced in tests.
var readBuildInfo = debug.ReadBuildInfo

// Short returns a compact build identifier. Without ldflags it falls back
// to the VCS revision the toolchain stamped into the binary.
func Short() string {
	if Version != "" && Version != "dev" {
		return Version
	}
	if c := commit(); c != "" {
		return c
	}
	return "dev"
}

// String is the long form printed by trendsnap --version.
func String() string {
	var b strings.Builder
	b.WriteString(Short())
	if c := commit(); c != "" && c != Short() {
		b.WriteString(" (" + c + ")")
	}
	if Date != "" && Date != "unknown" {
		b.WriteString(" built " + Date)
	}
	return b.String()
}

func commit() string {
	if Commit != "" && Commit != "unknown" {
		return Commit
	}
	bi, ok := readBuildInfo()
	if !ok {
		return ""
	}
	var rev string
	dirty := false
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if len(rev) > 12 {
		rev = rev[:12]
	}
	if rev != "" && dirty {
		rev += "-dirty"
	}
	return rev
}
