// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import "context"

type contextKeyType struct{}

var localeKey = contextKeyType{}

// WithLocale stores locale in ctx and returns a derived context that
// carries it. [Resolver.ResolveContext] prefers it over the active locale.
//
// Passing "" clears any existing value. The ctx must not be nil.
func WithLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, localeKey, locale)
}

// LocaleFrom returns the locale stored in ctx by [WithLocale].
// It reports false when ctx is nil or carries no locale.
func LocaleFrom(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}

	locale, _ := ctx.Value(localeKey).(string)

	return locale, locale != ""
}
