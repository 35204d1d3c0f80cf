// Package version reports build information for the trackforge binary and
// parses game versions that key the template catalog.
package version

import (
	"runtime"
	"runtime/debug"
	"time"
)

// Set at build time with -ldflags "-X github.com/conneroisu/trackforge/internal/version.Version=v1.2.3".
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// BuildInfo describes the running binary.
type BuildInfo struct {
	Version      string    `json:"version" yaml:"version"`
	GitCommit    string    `json:"git_commit" yaml:"git_commit"`
	Modified     bool      `json:"modified,omitempty" yaml:"modified,omitempty"`
	BuildTime    time.Time `json:"build_time" yaml:"build_time"`
	GoVersion    string    `json:"go_version" yaml:"go_version"`
	Platform     string    `json:"platform" yaml:"platform"`
	LegacyCutoff string    `json:"legacy_cutoff" yaml:"legacy_cutoff"`
}

// GetBuildInfo merges the -ldflags values with the VCS stamps the Go
// toolchain embeds in the binary. Values set through -ldflags win.
func GetBuildInfo() *BuildInfo {
	info := &BuildInfo{
		Version:      "dev",
		GitCommit:    "unknown",
		GoVersion:    runtime.Version(),
		Platform:     runtime.GOOS + "/" + runtime.GOARCH,
		LegacyCutoff: DefaultLegacyCutoff,
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		applyModule(info, bi)
	}

	if Version != "" && Version != "dev" {
		info.Version = Version
	}
	if GitCommit != "" && GitCommit != "unknown" {
		info.GitCommit = GitCommit
	}
	if t, err := time.Parse(time.RFC3339, BuildTime); err == nil {
		info.BuildTime = t
	}
	return info
}

func applyModule(info *BuildInfo, bi *debug.BuildInfo) {
	if v := bi.Main.Version; v != "" && v != "(devel)" {
		info.Version = v
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			info.GitCommit = s.Value
		case "vcs.time":
			if t, err := time.Parse(time.RFC3339, s.Value); err == nil {
				info.BuildTime = t
			}
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
}

// Short renders the version followed by the abbreviated commit, marked
// dirty when the working tree had local changes.
func (b *BuildInfo) Short() string {
	if b.GitCommit == "unknown" || len(b.GitCommit) < 7 {
		return b.Version
	}
	commit := b.GitCommit[:7]
	if b.Modified {
		commit += "-dirty"
	}
	return b.Version + " (" + commit + ")"
}
