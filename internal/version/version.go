// Package version carries the release identity stamped into the trustd and
// trustctl binaries.
package version

import "strings"

// Version is overridden at build time via
// -ldflags "-X .../internal/version.Version=v1.2.3". Unstamped builds
// report "dev".
var Version = "dev"

// String renders the version for display with a "v" prefix, whether the
// stamp came from a git tag (already prefixed) or a bare number.
func String() string {
	if strings.HasPrefix(Version, "v") {
		return Version
	}
	return "v" + Version
}
