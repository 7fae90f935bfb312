// Package version holds build identifiers set via -ldflags at release time.
package version

// Version defaults to "dev" and Commit to "unknown" for local builds; release tooling
// overrides them with -ldflags "-X ...=...".
var (
	Version = "dev"
	Commit  = "unknown"
)
