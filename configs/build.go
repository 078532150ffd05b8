// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"cmp"
	"runtime/debug"
	"strings"
)

// BuildVersion is the latest tagged release.
const BuildVersion string = "v0.3.0"

// shortRevision is the length of the abbreviated VCS hash.
const shortRevision = 8

// buildInfo describes the running binary. It is filled from the build
// settings the Go toolchain stamps into it.
type buildInfo struct {
	GoVersion   string
	VcsRevision string
	VcsTime     string
	VcsModified bool
}

// Revision returns "<commit date>-<short hash>", suffixed with "+dirty" for
// builds from a modified tree, or "unknown" when the binary carries no
// VCS stamp.
func (b *buildInfo) Revision() string {
	if len(b.VcsRevision) < shortRevision {
		return "unknown"
	}

	date, _, _ := strings.Cut(b.VcsTime, "T")

	s := b.VcsRevision[:shortRevision]
	if date != "" {
		s = date + "-" + s
	}

	if b.VcsModified {
		s += "+dirty"
	}

	return s
}

// Version returns the line printed by "l10n version".
func (b *buildInfo) Version() string {
	return BuildVersion + " (" + b.Revision() + ", " + cmp.Or(b.GoVersion, "unknown toolchain") + ")"
}

func (b *buildInfo) load() {
	if info, ok := debug.ReadBuildInfo(); ok {
		b.fromBuildInfo(info)
	}
}

func (b *buildInfo) fromBuildInfo(info *debug.BuildInfo) {
	b.GoVersion = info.GoVersion

	for _, kv := range info.Settings {
		switch kv.Key {
		case "vcs.revision":
			b.VcsRevision = kv.Value
		case "vcs.time":
			b.VcsTime = kv.Value
		case "vcs.modified":
			b.VcsModified = kv.Value == "true"
		}
	}
}
