// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/imeconf/l10n/catalog"
)

func finished(ctx, source, text string) catalog.Record {
	return catalog.Record{
		Key:     catalog.Key{Context: ctx, Source: source},
		State:   catalog.Finished,
		Payload: catalog.Escaped{Forms: []string{text}},
	}
}

func TestBuilder(t *testing.T) {
	t.Parallel()

	c := catalog.NewBuilder("ja").
		SetSourceLocale("en").
		Add(finished("A", "one", "一"), 3).
		Add(finished("B", "two", "二"), 7).
		Add(finished("A", "three", "三"), 9).
		Build()

	assert.Equal(t, "ja", c.Locale())
	assert.Equal(t, "en", c.SourceLocale())
	assert.Equal(t, catalog.DefaultVersion, c.Version())
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, []string{"A", "B"}, c.Contexts())

	var sources []string
	for r := range c.All {
		sources = append(sources, r.Key.Source)
	}

	assert.Equal(t, []string{"one", "two", "three"}, sources)

	_, ok := c.Lookup(catalog.Key{Context: "B", Source: "one"})
	assert.False(t, ok, "context is part of the key")
}

func TestRecordsIsACopy(t *testing.T) {
	t.Parallel()

	c := catalog.NewBuilder("ja").Add(finished("A", "one", "一"), 0).Build()

	records := c.Records()
	records[0] = finished("A", "one", "changed")

	r, ok := c.Lookup(catalog.Key{Context: "A", Source: "one"})
	require.True(t, ok)
	assert.Equal(t, "一", r.Text())
}

func TestNilCatalogLookup(t *testing.T) {
	t.Parallel()

	var c *catalog.Catalog

	_, ok := c.Lookup(catalog.Key{Source: "Hello"})
	assert.False(t, ok)
}

func TestRecordForm(t *testing.T) {
	t.Parallel()

	r := catalog.Record{Payload: catalog.Escaped{Forms: []string{"a", "b"}, Plural: true}}

	assert.Equal(t, "a", r.Form(-1))
	assert.Equal(t, "b", r.Form(1))
	assert.Equal(t, "b", r.Form(5))
	assert.Empty(t, catalog.Record{}.Form(0))
	assert.False(t, catalog.Record{}.Numerus())
}

func TestMerge(t *testing.T) {
	t.Parallel()

	first := catalog.NewBuilder("ja").
		SetSourceLocale("en").
		Add(finished("QObject", "Mozc", "Mozc"), 0).
		Add(finished("QObject", "Close", "閉じる"), 0).
		Build()

	second := catalog.NewBuilder("ja").
		Add(finished("QObject", "Close", "終了"), 0).
		Add(finished("DictionaryTool", "Import", "インポート"), 0).
		Warn(catalog.Warning{Kind: catalog.WarnLocaleMismatch, Detail: "carried"}).
		Build()

	c := catalog.Merge("ja", first, nil, second)

	assert.Equal(t, 3, c.Len())
	assert.Equal(t, "en", c.SourceLocale())

	r, ok := c.Lookup(catalog.Key{Context: "QObject", Source: "Close"})
	require.True(t, ok)
	assert.Equal(t, "終了", r.Text())

	warnings := c.Warnings()
	require.Len(t, warnings, 2)
	assert.Equal(t, catalog.WarnLocaleMismatch, warnings[0].Kind)
	assert.Equal(t, catalog.WarnDuplicateKey, warnings[1].Kind)
	assert.Equal(t, catalog.Key{Context: "QObject", Source: "Close"}, warnings[1].Key)
}

func TestKeyString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Hello", catalog.Key{Source: "Hello"}.String())
	assert.Equal(t, "Menu\x04Open", catalog.Key{Context: "Menu", Source: "Open"}.String())
	assert.Contains(t, catalog.Key{Context: "Menu", Source: "Open", Disambiguation: "verb"}.String(), "verb")
}

func TestStateString(t *testing.T) {
	t.Parallel()

	for state, want := range map[catalog.State]string{
		catalog.Untranslated: "untranslated",
		catalog.Draft:        "draft",
		catalog.Finished:     "finished",
		catalog.Obsolete:     "obsolete",
	} {
		assert.Equal(t, want, state.String())
	}
}

func TestWarningString(t *testing.T) {
	t.Parallel()

	w := catalog.Warning{
		Kind:   catalog.WarnDuplicateKey,
		Key:    catalog.Key{Source: "Close"},
		Line:   12,
		Detail: "replaces entry #1",
	}

	assert.Equal(t, `duplicate-key at line 12 "Close": replaces entry #1`, w.String())
}
