// Package version carries the build identity of the engine: a semantic
// version plus the git commit and build date, normally overridden at
// link time with -ldflags "-X ...".
package version

import "fmt"

var (
	// major release version, bump on protocol or format breaking changes
	major = "1"
	minor = "0"
	patch = "0"

	// gitCommit and buildDate are populated via -ldflags at build time.
	gitCommit = "unknown"
	buildDate = "unknown"
)

// Version returns a human readable version string including the commit
// and build date when available, e.g. "1.0.0 (a1b2c3d, 2026-07-31)".
func Version() string {
	return fmt.Sprintf("%s.%s.%s (%s, %s)", major, minor, patch, gitCommit, buildDate)
}

// Short returns just the semantic version without build metadata. The
// UCI "id name" response uses Version, not Short.
func Short() string {
	return fmt.Sprintf("%s.%s.%s", major, minor, patch)
}
