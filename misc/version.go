// Package misc keeps build time information.
package misc

import "runtime/debug"

// set by linker: -X domq/misc.version=... -X domq/misc.gitHash=...
var (
	version = "dev"
	gitHash = ""
)

const appName = "domq"

func GetAppName() string {
	return appName
}

func GetVersion() string {
	return version
}

// GetGitHash returns commit hash program was built from, falling back to VCS
// information recorded by go build.
func GetGitHash() string {
	if gitHash != "" {
		return gitHash
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}
	return "unknown"
}

