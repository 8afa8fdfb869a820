// Package version exposes build information injected with -ldflags.
package version

import (
	"fmt"
	"runtime"
)

// Set at build time:
//
//	-ldflags "-X github.com/reelfeed/reelfeed/pkg/version.version=1.2.0 ..."
//
//nolint:gochecknoglobals // ldflags targets.
var (
	version   = "0.1.0-dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

// GetVersion returns the semantic version without a leading "v".
func GetVersion() string {
	return version
}

// GetGitCommit returns the commit the binary was built from.
func GetGitCommit() string {
	return gitCommit
}

// GetBuildDate returns the build timestamp.
func GetBuildDate() string {
	return buildDate
}

// UserAgent is sent with every request to the review service.
func UserAgent() string {
	return fmt.Sprintf("reelfeed/%s (%s/%s)", version, runtime.GOOS, runtime.GOARCH)
}

// Info is a one-line build summary for --version.
func Info() string {
	return fmt.Sprintf("%s (commit %s, built %s, %s)", version, gitCommit, buildDate, runtime.Version())
}
