// Package version provides build-time version information for forge.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Build-time variables set via ldflags.
// Example: go build -ldflags="-X github.com/andywolf/forge/internal/version.Version=v1.0.0"
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// readBuildInfo is swapped out in tests.
var readBuildInfo = debug.ReadBuildInfo

// BuildInfo is the structured form printed by `forge version --format`.
type BuildInfo struct {
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit" yaml:"commit"`
	BuildDate string `json:"build_date" yaml:"build_date"`
	GoVersion string `json:"go_version" yaml:"go_version"`
	Platform  string `json:"platform" yaml:"platform"`
}

// Get returns the build information. Binaries installed with `go install`
// carry no ldflags, so their module version and VCS revision are used
// instead.
func Get() BuildInfo {
	info := BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if info.Version != "dev" {
		return info
	}

	bi, ok := readBuildInfo()
	if !ok {
		return info
	}
	if v := bi.Main.Version; v != "" && v != "(devel)" {
		info.Version = v
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "unknown" {
				info.Commit = s.Value
			}
		case "vcs.time":
			if info.BuildDate == "unknown" {
				info.BuildDate = s.Value
			}
		}
	}
	return info
}

// Short returns the version string (e.g., "v1.2.3" or "dev").
func Short() string {
	return Get().Version
}

// ShortCommit returns the first seven characters of the commit.
func (b BuildInfo) ShortCommit() string {
	if len(b.Commit) > 7 {
		return b.Commit[:7]
	}
	return b.Commit
}

// Info returns a single-line version string with commit and build info.
// Format: "forge v1.2.3 (commit: abc1234, built: 2024-01-15T10:30:00Z, go: go1.24.x)"
func Info() string {
	b := Get()
	return fmt.Sprintf("forge %s (commit: %s, built: %s, go: %s)",
		b.Version, b.ShortCommit(), b.BuildDate, b.GoVersion)
}

// Full returns a multi-line verbose version output.
func Full() string {
	b := Get()
	return fmt.Sprintf(`forge %s
  Commit:     %s
  Built:      %s
  Go version: %s
  OS/Arch:    %s`,
		b.Version, b.Commit, b.BuildDate, b.GoVersion, b.Platform)
}
