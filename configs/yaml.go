// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"
)

// readYAML overlays the YAML file at path onto cfg. A missing file is not
// an error. Unknown keys are, so a misspelt "catalogue:" section does not
// silently fall back to the defaults.
func (cfg *Config) readYAML(path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path) // #nosec G304 -- Only loading a config file
	if errors.Is(err, fs.ErrNotExist) {
		log.Debug().
			Str("path", path).
			Msg("No YAML configuration file found, using defaults and environment")

		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to read configuration file %s: %w", path, err)
	}

	if err := yaml.UnmarshalWithOptions(data, cfg, yaml.Strict()); err != nil {
		return fmt.Errorf("failed to parse YAML from %s:\n%s", path, yaml.FormatError(err, false, true))
	}

	log.Debug().
		Str("path", path).
		Int("len", len(data)).
		Msg("Loaded YAML configuration")

	return nil
}
