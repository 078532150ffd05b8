// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/imeconf/l10n/catalog"
	"codeberg.org/imeconf/l10n/i18n"
)

func fixture(t *testing.T) *i18n.Registry {
	t.Helper()

	return newRegistry(t, map[string]*catalog.Catalog{
		"ja": build("ja",
			msg{ctx: "X", source: "Hello", state: catalog.Finished, forms: []string{"こんにちは"}},
			msg{ctx: "X", source: "Bye", state: catalog.Finished, forms: []string{"さようなら"}},
			msg{ctx: "X", source: "%1 items", state: catalog.Finished, forms: []string{"%1個"}},
			msg{ctx: "X", source: "%1 files", state: catalog.Finished, forms: []string{"%1 個のファイル"}, numerus: true},
			msg{ctx: "X", source: "Open", disambiguation: "menu", state: catalog.Finished, forms: []string{"開く"}},
			msg{ctx: "X", source: "Open", disambiguation: "state", state: catalog.Finished, forms: []string{"オープン"}},
			msg{ctx: "X", source: "Old", state: catalog.Obsolete, forms: []string{"古い"}},
			msg{ctx: "X", source: "Later", state: catalog.Untranslated, forms: []string{""}},
		),
		"ja_JP": build("ja_JP",
			msg{ctx: "X", source: "Hello", state: catalog.Draft, forms: []string{"やあ"}},
			msg{ctx: "X", source: "Bye", state: catalog.Untranslated, forms: []string{""}},
		),
		"de": build("de",
			msg{ctx: "X", source: "%1 files", state: catalog.Finished, forms: []string{"%1 Datei", "%1 Dateien"}, numerus: true},
			msg{ctx: "X", source: "%1 folders", state: catalog.Finished, forms: []string{"%1 Ordner"}, numerus: true},
		),
	})
}

func TestResolveFallback(t *testing.T) {
	t.Parallel()

	reg := fixture(t)
	require.NoError(t, reg.SetActiveLocale("ja_JP"))

	assert.Equal(t, []string{"ja_JP", "ja", "en"}, reg.LocaleChain("ja_JP"))

	r := i18n.NewResolver(reg)

	// ja_JP only has a draft, which is skipped by default.
	assert.Equal(t, "こんにちは", r.Resolve("X", "Hello"))
	// An untranslated entry falls through as well.
	assert.Equal(t, "さようなら", r.Resolve("X", "Bye"))

	drafts := i18n.NewResolver(reg, i18n.AllowDraft())
	assert.Equal(t, "やあ", drafts.Resolve("X", "Hello"))
}

func TestResolveMissingKey(t *testing.T) {
	t.Parallel()

	r := i18n.NewResolver(fixture(t))

	assert.Equal(t, "Hello", r.ResolveLocale("fr", "X", "Hello"))
	assert.Equal(t, "Hello", r.ResolveLocale("ja", "Y", "Hello"), "the context is part of the key")
	assert.Equal(t, "Later", r.ResolveLocale("ja", "X", "Later"))
	assert.Equal(t, "Old", r.ResolveLocale("ja", "X", "Old"), "obsolete entries are never used")

	empty := i18n.NewResolver(i18n.NewRegistry(i18n.WithLogger(zerolog.Nop())))
	assert.Equal(t, "Hello", empty.Resolve("X", "Hello"))
}

func TestResolveSubstitution(t *testing.T) {
	t.Parallel()

	r := i18n.NewResolver(fixture(t))

	assert.Equal(t, "5個", r.ResolveLocale("ja", "X", "%1 items", i18n.Args("5")))
	assert.Equal(t, "%1個", r.ResolveLocale("ja", "X", "%1 items"))
	assert.Equal(t, "3 of %2", r.ResolveLocale("ja", "X", "%1 of %2", i18n.Args("3")))
	// The active locale defaults to en, which has no catalogue.
	assert.Equal(t, "5 items", r.Tr("X", "%1 items", "5"))
}

func TestResolvePlural(t *testing.T) {
	t.Parallel()

	r := i18n.NewResolver(fixture(t))

	assert.Equal(t, "1 Datei", r.ResolveLocale("de", "X", "%1 files", i18n.Count(1), i18n.Args("1")))
	assert.Equal(t, "5 Dateien", r.ResolveLocale("de", "X", "%1 files", i18n.Count(5), i18n.Args("5")))
	assert.Equal(t, "0 Dateien", r.ResolveLocale("de_AT", "X", "%1 files", i18n.Count(0), i18n.Args("0")))

	// Without a count the first form is used.
	assert.Equal(t, "%1 Datei", r.ResolveLocale("de", "X", "%1 files"))

	// Out of range indices clamp to the last form.
	assert.Equal(t, "5 Ordner", r.ResolveLocale("de", "X", "%1 folders", i18n.Count(5), i18n.Args("5")))

	// Japanese has a single form regardless of count.
	assert.Equal(t, "5 個のファイル", r.ResolveLocale("ja", "X", "%1 files", i18n.Count(5), i18n.Args("5")))
}

func TestResolvePluggableRules(t *testing.T) {
	t.Parallel()

	reg := fixture(t)
	require.NoError(t, reg.SetActiveLocale("de"))

	r := i18n.NewResolver(reg, i18n.WithPluralRules(i18n.PluralRules{
		"de": func(int, string) int { return 0 },
	}))

	assert.Equal(t, "5 Datei", r.TrN("X", "%1 files", 5, "5"))
}

func TestResolveDisambiguation(t *testing.T) {
	t.Parallel()

	r := i18n.NewResolver(fixture(t))

	assert.Equal(t, "開く", r.ResolveLocale("ja", "X", "Open", i18n.Disambiguation("menu")))
	assert.Equal(t, "オープン", r.ResolveLocale("ja", "X", "Open", i18n.Disambiguation("state")))
	assert.Equal(t, "Open", r.ResolveLocale("ja", "X", "Open"))
}

func TestResolveContext(t *testing.T) {
	t.Parallel()

	reg := fixture(t)
	r := i18n.NewResolver(reg)

	ctx := i18n.WithLocale(context.Background(), "ja")
	assert.Equal(t, "こんにちは", r.ResolveContext(ctx, "X", "Hello"))
	assert.Equal(t, "Hello", r.ResolveContext(context.Background(), "X", "Hello"))
	assert.Equal(t, "Hello", r.ResolveContext(nil, "X", "Hello")) //nolint:staticcheck // nil is accepted

	cleared := i18n.WithLocale(ctx, "")
	_, ok := i18n.LocaleFrom(cleared)
	assert.False(t, ok)
}

func TestActiveLocaleSwitch(t *testing.T) {
	t.Parallel()

	reg := fixture(t)
	r := i18n.NewResolver(reg)

	before := r.Resolve("X", "Hello")

	require.NoError(t, reg.SetActiveLocale("ja-jp"))
	assert.Equal(t, "ja_JP", reg.ActiveLocale())

	assert.Equal(t, "Hello", before)
	assert.Equal(t, "こんにちは", r.Resolve("X", "Hello"))

	require.ErrorIs(t, reg.SetActiveLocale("not a locale"), i18n.ErrInvalidLocale)
	assert.Equal(t, "ja_JP", reg.ActiveLocale())
}

func TestStrictMissingKeysLogsOnce(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	reg := i18n.NewRegistry(i18n.WithLogger(zerolog.New(&buf)))
	r := i18n.NewResolver(reg, i18n.StrictMissingKeys())

	for range 3 {
		assert.Equal(t, "Hello", r.Resolve("X", "Hello"))
	}

	r.Resolve("X", "Bye")

	assert.Equal(t, 2, strings.Count(buf.String(), "Missing i18n translation"))
}

func TestMissingKeysAreQuietByDefault(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	reg := i18n.NewRegistry(i18n.WithLogger(zerolog.New(&buf).Level(zerolog.InfoLevel)))
	i18n.NewResolver(reg).Resolve("X", "Hello")

	assert.Empty(t, buf.String())
}
