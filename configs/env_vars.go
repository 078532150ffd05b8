// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// readEnv overrides fields of cfg from the environment variables named by
// their env tags. Unset variables leave the current value untouched.
func readEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}

	return nil
}

// useDotEnv loads environment variables from a .env file, checking
// the current working directory, then the directory of the binary.
// Variables that are already set are not overwritten.
//
// This function soft fails if the .env file doesn't exist in either location.
func useDotEnv() error {
	cwd, err := os.Getwd()
	if err != nil {
		log.Warn().
			Err(err).
			Msg("Could not get current working directory")
	} else {
		envPath := filepath.Join(cwd, ".env")
		if err := tryLoadDotEnv(envPath); err == nil {
			return nil
		} else if !os.IsNotExist(err) {
			return err
		}
	}

	// Fallback: Determine directory of the running binary
	dir := "."
	if exe, err := os.Executable(); err == nil {
		dir = filepath.Dir(exe)
	}

	err = tryLoadDotEnv(filepath.Join(dir, ".env"))
	if os.IsNotExist(err) {
		log.Debug().Msg("No .env file found, skipping")

		return nil
	}

	return err
}

// tryLoadDotEnv loads the .env file at envPath. It returns an error
// satisfying os.IsNotExist when the file is absent.
func tryLoadDotEnv(envPath string) error {
	if _, err := os.Stat(envPath); err != nil {
		return err
	}

	if err := godotenv.Load(envPath); err != nil {
		return fmt.Errorf("failed to parse %s: %w", envPath, err)
	}

	log.Debug().
		Str("path", envPath).
		Msg("Loaded configuration from .env file")

	return nil
}
