package version

import (
	"fmt"
	"runtime"
)

// Name is the generator identity stamped into every generated file
const Name = "protolua"

// Build information. These variables are set at build time via ldflags.
var (
	// CommitHash is the git commit hash when the binary was built
	CommitHash = "dev"

	// BuildTime is when the binary was built
	BuildTime = "unknown"

	// Version is the semantic version (if tagged)
	Version = "dev"
)

// Info contains version and build information
type Info struct {
	Name       string `json:"name"`
	CommitHash string `json:"commit_hash"`
	BuildTime  string `json:"build_time"`
	Version    string `json:"version"`
	GoVersion  string `json:"go_version"`
	Platform   string `json:"platform"`
}

// Get returns the current version information
func Get() Info {
	return Info{
		Name:       Name,
		CommitHash: CommitHash,
		BuildTime:  BuildTime,
		Version:    Version,
		GoVersion:  runtime.Version(),
		Platform:   fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// String returns a human-readable version string
func (i Info) String() string {
	if i.Version != "dev" {
		return fmt.Sprintf("%s %s (commit %s, built %s)", i.Name, i.Version, i.CommitHash, i.BuildTime)
	}
	return fmt.Sprintf("%s dev (commit %s, built %s)", i.Name, i.CommitHash, i.BuildTime)
}

// Generator returns the identity line used in generated file headers.
// It omits commit and build time so regenerating from the same source is byte-stable.
func (i Info) Generator() string {
	return i.Name + " " + i.Version
}
