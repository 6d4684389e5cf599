package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// These variables are set via ldflags during build
var (
	// Version is the semantic version (e.g., v0.1.0)
	Version = "dev"

	// Commit is the git commit hash
	Commit = "unknown"

	// Date is the build date
	Date = "unknown"
)

// BuildInfo describes the running binary
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// Current returns the build information. A binary installed with `go install`
// has no ldflags, so the module version is used instead.
func Current() BuildInfo {
	info := BuildInfo{
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if info.Version == "dev" {
		if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			info.Version = bi.Main.Version
		}
	}
	return info
}

// Info returns version information as a formatted string
func Info() string {
	info := Current()
	return fmt.Sprintf(
		"jscan %s\nCommit: %s\nBuilt: %s\nGo: %s\nOS/Arch: %s",
		info.Version,
		info.Commit,
		info.Date,
		info.GoVersion,
		info.Platform,
	)
}

// Short returns just the version string
func Short() string {
	return Current().Version
}
