// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import "time"

const (
	// Default minimum interval between two reloads of the watcher, in milliseconds.
	defaultWatchMinIntervalMs = 500

	// Default number of catalogue files decoded in parallel.
	defaultLoadConcurrency = 4
)

// SetDefaults populates the configuration with default values.
func (cfg *Config) SetDefaults() {
	cfg.Catalog.Dir = ""
	cfg.Catalog.Embedded = true
	cfg.Catalog.SourceLocale = "en"
	cfg.Catalog.ActiveLocale = ""
	cfg.Catalog.AllowDraft = false
	cfg.Catalog.LoadConcurrency = defaultLoadConcurrency

	cfg.Watch.Enabled = false
	cfg.Watch.MinInterval = defaultWatchMinIntervalMs * time.Millisecond

	cfg.Log.Level = "info"
	cfg.Log.Outputs = []string{"/dev/stderr"}
	cfg.Log.Format = "console"

	cfg.Development.InDevelopment = false
	cfg.Development.StrictMissingKeys = false
}
