// Package buildinfo holds the build identity stamped in at link time and the
// process start time used for uptime reporting.
//
// Release builds set the variables with
//
//	-ldflags "-X github.com/alfredjeanlab/confighelper/internal/buildinfo.Version=v1.2.3 ..."
package buildinfo

import (
	"time"

	"github.com/blang/semver/v4"
)

var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

var startTime = time.Now()

// Info is the build identity reported by GET /api/init.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Get returns the current build identity.
func Get() Info {
	return Info{Version: Version, Commit: Commit, Date: Date}
}

// Uptime returns how long the process has been running.
func Uptime() time.Duration {
	return time.Since(startTime)
}

// Semver parses the version leniently ("v1.2", "1.2.3-rc.1").
// ok is false for development builds and other non-semver strings.
func (i Info) Semver() (v semver.Version, ok bool) {
	v, err := semver.ParseTolerant(i.Version)
	if err != nil {
		return semver.Version{}, false
	}
	return v, true
}

// IsRelease reports whether the version is a semver without a pre-release tag.
func (i Info) IsRelease() bool {
	v, ok := i.Semver()
	return ok && len(v.Pre) == 0
}

// DisplayVersion renders the version for humans: normalised "vX.Y.Z" when it
// parses, the raw string otherwise.
func (i Info) DisplayVersion() string {
	if v, ok := i.Semver(); ok {
		return "v" + v.String()
	}
	return i.Version
}
