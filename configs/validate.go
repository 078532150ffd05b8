// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
)

// validation errors.
var (
	errEmptySourceLocale      = errors.New("catalog.sourceLocale cannot be empty")
	errInvalidLocale          = errors.New("invalid locale identifier")
	errCatalogDirNotDirectory = errors.New("catalog.dir is not a directory")
	errNoCatalogSource        = errors.New("no catalogue source: set catalog.dir or enable catalog.embedded")
	errWatchWithoutDir        = errors.New("watch.enabled requires catalog.dir")
	errNegativeWatchInterval  = errors.New("watch.minInterval cannot be negative")
	errInvalidLogLevel        = errors.New("invalid log.logLevel value")
	errInvalidLogFormat       = errors.New("invalid log.logFormat value")
)

var (
	validLogLevels  = []string{"debug", "info", "warn", "error"}
	validLogFormats = []string{"console", "json"}
)

// validateAndSet validates the configuration and normalises some fields.
func (cfg *Config) validateAndSet() error {
	// Check locales
	if cfg.Catalog.SourceLocale == "" {
		return errEmptySourceLocale
	}

	if err := validateLocale("catalog.sourceLocale", cfg.Catalog.SourceLocale); err != nil {
		return err
	}

	if cfg.Catalog.ActiveLocale != "" {
		if err := validateLocale("catalog.activeLocale", cfg.Catalog.ActiveLocale); err != nil {
			return err
		}
	}

	// Check catalogue sources
	if cfg.Catalog.Dir != "" {
		info, err := os.Stat(cfg.Catalog.Dir)
		if err != nil {
			return fmt.Errorf("catalog.dir: %w", err)
		}

		if !info.IsDir() {
			return fmt.Errorf("%w: %s", errCatalogDirNotDirectory, cfg.Catalog.Dir)
		}
	} else if !cfg.Catalog.Embedded {
		return errNoCatalogSource
	}

	if cfg.Catalog.LoadConcurrency < 1 {
		cfg.Catalog.LoadConcurrency = defaultLoadConcurrency
		log.Debug().
			Int("loadConcurrency", cfg.Catalog.LoadConcurrency).
			Msg("Using default load concurrency")
	}

	// Check watcher
	if cfg.Watch.Enabled && cfg.Catalog.Dir == "" {
		return errWatchWithoutDir
	}

	if cfg.Watch.MinInterval < 0 {
		return errNegativeWatchInterval
	}

	// Check logging
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	if !slices.Contains(validLogLevels, cfg.Log.Level) {
		return fmt.Errorf("%w: %q", errInvalidLogLevel, cfg.Log.Level)
	}

	cfg.Log.Format = strings.ToLower(cfg.Log.Format)
	if !slices.Contains(validLogFormats, cfg.Log.Format) {
		return fmt.Errorf("%w: %q", errInvalidLogFormat, cfg.Log.Format)
	}

	return nil
}

// validateLocale accepts both "ja_JP" and "ja-JP" spellings.
func validateLocale(field, id string) error {
	if _, err := language.Parse(strings.ReplaceAll(id, "_", "-")); err != nil {
		return fmt.Errorf("%w for %s: %q: %w", errInvalidLocale, field, id, err)
	}

	return nil
}
