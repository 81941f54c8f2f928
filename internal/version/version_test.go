package version

import (
	"runtime"
	"runtime/debug"
	"strings"
	"testing"
)

// withBuild sets the ldflags variables and the module build info for one test.
func withBuild(t *testing.T, version, commit string, bi *debug.BuildInfo) {
	t.Helper()
	oldVersion, oldCommit, oldDate, oldRead := Version, Commit, BuildDate, readBuildInfo
	t.Cleanup(func() {
		Version, Commit, BuildDate, readBuildInfo = oldVersion, oldCommit, oldDate, oldRead
	})
	Version, Commit, BuildDate = version, commit, "unknown"
	readBuildInfo = func() (*debug.BuildInfo, bool) { return bi, bi != nil }
}

func TestGet(t *testing.T) {
	moduleBuild := &debug.BuildInfo{
		Main: debug.Module{Version: "v0.4.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef"},
			{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
		},
	}

	tests := []struct {
		name        string
		version     string
		commit      string
		build       *debug.BuildInfo
		wantVersion string
		wantCommit  string
		wantDate    string
	}{
		{
			name:        "ldflags win",
			version:     "v1.2.3",
			commit:      "abc",
			build:       moduleBuild,
			wantVersion: "v1.2.3",
			wantCommit:  "abc",
			wantDate:    "unknown",
		},
		{
			name:        "go install falls back to module info",
			version:     "dev",
			commit:      "unknown",
			build:       moduleBuild,
			wantVersion: "v0.4.0",
			wantCommit:  "0123456789abcdef",
			wantDate:    "2026-01-02T03:04:05Z",
		},
		{
			name:        "devel build stays dev",
			version:     "dev",
			commit:      "unknown",
			build:       &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}},
			wantVersion: "dev",
			wantCommit:  "unknown",
			wantDate:    "unknown",
		},
		{
			name:        "no build info",
			version:     "dev",
			commit:      "unknown",
			wantVersion: "dev",
			wantCommit:  "unknown",
			wantDate:    "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withBuild(t, tt.version, tt.commit, tt.build)

			got := Get()
			if got.Version != tt.wantVersion || got.Commit != tt.wantCommit || got.BuildDate != tt.wantDate {
				t.Errorf("Get() = %+v, want version %q commit %q date %q", got, tt.wantVersion, tt.wantCommit, tt.wantDate)
			}
			if got.Platform != runtime.GOOS+"/"+runtime.GOARCH {
				t.Errorf("Platform = %q", got.Platform)
			}
			if Short() != tt.wantVersion {
				t.Errorf("Short() = %q, want %q", Short(), tt.wantVersion)
			}
		})
	}
}

func TestShortCommit(t *testing.T) {
	tests := []struct {
		commit string
		want   string
	}{
		{"abc123456789abcdef", "abc1234"},
		{"abc", "abc"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := (BuildInfo{Commit: tt.commit}).ShortCommit(); got != tt.want {
			t.Errorf("ShortCommit(%q) = %q, want %q", tt.commit, got, tt.want)
		}
	}
}

func TestInfo(t *testing.T) {
	withBuild(t, "v1.2.3", "abc123456789abcdef", nil)

	got := Info()
	want := "forge v1.2.3 (commit: abc1234, built: unknown, go: " + runtime.Version() + ")"
	if got != want {
		t.Errorf("Info() = %q, want %q", got, want)
	}
}

func TestFull(t *testing.T) {
	withBuild(t, "v1.2.3", "abc123456789abcdef", nil)

	got := Full()
	lines := strings.Split(got, "\n")
	if len(lines) != 5 {
		t.Fatalf("Full() has %d lines, want 5: %q", len(lines), got)
	}
	if lines[0] != "forge v1.2.3" {
		t.Errorf("first line = %q", lines[0])
	}
	for _, want := range []string{"abc123456789abcdef", runtime.GOOS + "/" + runtime.GOARCH, runtime.Version()} {
		if !strings.Contains(got, want) {
			t.Errorf("Full() missing %q in %q", want, got)
		}
	}
}
