// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"
)

func (cfg *Config) print() {
	log.Debug().
		Str("version", BuildVersion).
		Str("revision", cfg.Build.Revision()).
		Msg("Starting l10n")

	configYAML, err := cfg.YAML()
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal config to YAML for printing")

		return
	}

	log.Debug().
		Str("config", string(configYAML)).
		Msg("Application configuration")
}

// YAML marshals cfg with durations written in their human-readable form.
func (cfg *Config) YAML() ([]byte, error) {
	return yaml.MarshalWithOptions(cfg, GetDurationEncoderOption())
}
