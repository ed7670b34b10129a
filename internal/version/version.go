// Package version exposes build identification, overridable at link time
// with -ldflags "-X .../internal/version.Version=v1.2.3".
package version

// Version is the tool version string.
var Version = "0.3.0"
