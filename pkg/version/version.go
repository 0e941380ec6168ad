// Package version reports build metadata injected via ldflags or read from
// the embedded build info.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

var (
	Version   string // Set via ldflags.
	BuildDate string // Set via ldflags.

	Revision, Modified = readVCS()
	GoVersion          = runtime.Version()
	Platform           = runtime.GOOS + "/" + runtime.GOARCH
)

// GetVersion returns the release version, or the short VCS revision for
// development builds.
func GetVersion() string {
	if Version != "" {
		return Version
	}
	if Modified {
		return Revision + "-dirty"
	}

	return Revision
}

// String returns a one-line description of the build.
func String() string {
	s := fmt.Sprintf("quellcode %s (%s, %s)", GetVersion(), GoVersion, Platform)
	if BuildDate != "" {
		s += " built " + BuildDate
	}

	return s
}

func readVCS() (string, bool) {
	rev := "unknown"

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return rev, false
	}

	modified := false
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
			if len(rev) > 7 {
				rev = rev[:7]
			}
		case "vcs.modified":
			modified = s.Value == "true"
		}
	}

	return rev, modified
}
