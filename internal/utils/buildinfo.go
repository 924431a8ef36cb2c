package utils

import (
	"runtime/debug"

	"github.com/temirov/snippets/internal/types"
)

const (
	unknownVersion     = "unknown"
	developmentVersion = "(devel)"
	vcsRevisionKey     = "vcs.revision"
	vcsModifiedKey     = "vcs.modified"
	dirtySuffix        = "-dirty"
)

// Version may be set at link time with -ldflags "-X .../internal/utils.Version=v1.2.3".
var Version = ""

// GetApplicationVersion determines the application version.
// It prefers the link-time version, then the module version and finally the
// VCS revision recorded in the binary's build info.
func GetApplicationVersion() string {
	if Version != "" {
		return Version
	}
	buildInfo, buildInfoAvailable := debug.ReadBuildInfo()
	if !buildInfoAvailable {
		return unknownVersion
	}
	return versionFromBuildInfo(buildInfo)
}

func versionFromBuildInfo(buildInfo *debug.BuildInfo) string {
	if buildInfo.Main.Version != "" && buildInfo.Main.Version != developmentVersion {
		return buildInfo.Main.Version
	}
	revision := ""
	modified := false
	for _, setting := range buildInfo.Settings {
		switch setting.Key {
		case vcsRevisionKey:
			revision = setting.Value
		case vcsModifiedKey:
			modified = setting.Value == "true"
		}
	}
	if revision == "" {
		return unknownVersion
	}
	revision = types.ShortenRevision(revision)
	if modified {
		revision += dirtySuffix
	}
	return revision
}
