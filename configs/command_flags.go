// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import "flag"

// RegisterFlags defines the "config" flag on fs and returns a pointer to
// its value. An empty value means the flag was not given.
func RegisterFlags(fs *flag.FlagSet) *string {
	var configFilePath string

	fs.StringVar(&configFilePath, "config", "",
		"Path to a configuration file in YAML format (default "+DefaultConfigFile+").")

	return &configFilePath
}
