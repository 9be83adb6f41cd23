// Package version provides build version information for the application.
// It has no imports so cli, tray and gui can all depend on it.
package version

// Version is the build version string, set by ldflags during build.
// Format: vX.Y.Z or vX.Y.Z-dev for development builds.
var Version = "v0.3.0"

// BuildTime is the build timestamp, set by ldflags during build.
var BuildTime = "unknown"

// String returns the version and build time for display.
func String() string {
	if BuildTime == "unknown" || BuildTime == "" {
		return Version
	}
	return Version + " (built " + BuildTime + ")"
}
