// Package version holds the console and cmsctl build metadata.
package version

import "fmt"

// Set with -ldflags "-X github.com/kailas-cloud/cmsconsole/internal/version.Version=...".
//
//nolint:revive,gochecknoglobals // ldflags targets.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// String formats the build metadata for banners and the version command.
func String() string {
	return fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, Date)
}
