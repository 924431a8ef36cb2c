package utils

import (
	"runtime/debug"
	"testing"
)

func TestVersionFromBuildInfo(t *testing.T) {
	testCases := []struct {
		name      string
		buildInfo debug.BuildInfo
		expected  string
	}{
		{
			name:      "module_version",
			buildInfo: debug.BuildInfo{Main: debug.Module{Version: "v1.4.0"}},
			expected:  "v1.4.0",
		},
		{
			name: "vcs_revision",
			buildInfo: debug.BuildInfo{
				Main:     debug.Module{Version: developmentVersion},
				Settings: []debug.BuildSetting{{Key: vcsRevisionKey, Value: "29ec1fedbf307e3b7ca731c4a381535fec899b0b"}},
			},
			expected: "29ec1fe",
		},
		{
			name: "modified_working_tree",
			buildInfo: debug.BuildInfo{
				Main: debug.Module{Version: developmentVersion},
				Settings: []debug.BuildSetting{
					{Key: vcsRevisionKey, Value: "29ec1fedbf307e3b7ca731c4a381535fec899b0b"},
					{Key: vcsModifiedKey, Value: "true"},
				},
			},
			expected: "29ec1fe-dirty",
		},
		{
			name:      "nothing_recorded",
			buildInfo: debug.BuildInfo{Main: debug.Module{Version: developmentVersion}},
			expected:  unknownVersion,
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if version := versionFromBuildInfo(&testCase.buildInfo); version != testCase.expected {
				t.Fatalf("expected %q, got %q", testCase.expected, version)
			}
		})
	}
}

func TestGetApplicationVersionPrefersLinkTimeVersion(t *testing.T) {
	previous := Version
	t.Cleanup(func() { Version = previous })
	Version = "v9.9.9"
	if version := GetApplicationVersion(); version != "v9.9.9" {
		t.Fatalf("expected link-time version, got %q", version)
	}
}
