// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"codeberg.org/imeconf/l10n/catalog"
)

// logMissingOnce logs a missing translation warning once per (locale, key)
// pair when strict mode is enabled.
func (r *Resolver) logMissingOnce(locale string, key catalog.Key) {
	if !r.strict {
		return
	}

	id := locale + "\x00" + key.String()
	if _, loaded := r.missing.LoadOrStore(id, struct{}{}); !loaded {
		r.logger.Warn().
			Str("locale", locale).
			Str("key", key.String()).
			Msg("Missing i18n translation")
	}
}

// logMissingArgs records markers left literal because no argument was given.
func (r *Resolver) logMissingArgs(locale string, key catalog.Key, missing []int) {
	r.logger.Debug().
		Str("locale", locale).
		Str("key", key.String()).
		Ints("markers", missing).
		Msg("Placeholder argument missing")
}
