// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package audit

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SetDefaultLogger installs a console logger on stderr for the time before
// the configuration is loaded, or for tools that never load it.
func SetDefaultLogger() {
	log.Logger = DefaultLogger(os.Stderr, isatty.IsTerminal(os.Stderr.Fd()))
}

// DefaultLogger returns a timestamped console logger writing to w, tagged
// with sys=l10n. Colour is used only when color is set.
func DefaultLogger(w io.Writer, color bool) zerolog.Logger {
	cw := zerolog.ConsoleWriter{Out: w, NoColor: !color, TimeFormat: time.DateTime}

	return zerolog.New(cw).With().Timestamp().Str("sys", "l10n").Logger()
}
