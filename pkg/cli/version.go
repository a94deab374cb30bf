// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cli

import (
	"runtime/debug"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// buildVersion is injected at build time via -ldflags.
var buildVersion string

// AppVersion returns the application version: App.Version, else the build
// version, else the commit hash. Semantic versions are normalized.
func (a *App) AppVersion() string {
	v := strings.TrimSpace(a.Version)
	if v == "" {
		v = strings.TrimSpace(buildVersion)
	}
	if v == "" {
		return VersionCommit()
	}
	sv, err := semver.NewVersion(v)
	if err != nil {
		return v
	}
	return sv.String()
}

// VersionCommit returns the commit hash of the current build.
func VersionCommit() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	var dirty bool
	var commit string
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			commit = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if commit == "" {
		return "dev"
	}

	if len(commit) >= 9 {
		commit = commit[:9]
	}
	if dirty {
		commit += "+dirty"
	}
	return commit
}
