// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/imeconf/l10n/catalog"
)

const i18nSrc = `package i18n

type Option func()

type Resolver struct{}

func (r *Resolver) Resolve(contextName, source string, opts ...Option) string { return source }
func (r *Resolver) Tr(contextName, source string, args ...string) string { return source }
func (r *Resolver) TrN(contextName, source string, n int, args ...string) string { return source }
func (r *Resolver) Msg(contextName, source string, opts ...Option) string { return source }

func Disambiguation(s string) Option { return nil }
func Count(n int) Option { return nil }
`

const appSrc = `package app

import l10n "example.com/l10n/i18n"

const dialog = "ConfigDialog"

func labels(r *l10n.Resolver, name string) []string {
	return []string{
		r.Tr(dialog, "Mozc Settings"),
		r.Tr("ConfigDialog", "Mozc"+" Settings"),
		r.Resolve("DictionaryTool", "Close", l10n.Disambiguation("window")),
		r.TrN("DictionaryTool", "%1 entries", 3),
		r.Resolve("DictionaryTool", "%1 words", l10n.Count(2)),
		r.Msg("FindDialog", "Find"),
		r.Tr(dialog, name),
		other("Ignored", "Ignored"),
	}
}

func other(a, b string) string { return a + b }
`

type mapImporter map[string]*types.Package

func (m mapImporter) Import(path string) (*types.Package, error) {
	if p, ok := m[path]; ok {
		return p, nil
	}

	return nil, fmt.Errorf("unknown package %q", path)
}

func check(t *testing.T, fset *token.FileSet, path, filename, src string, imp types.Importer) (*types.Package, *types.Info, *ast.File) {
	t.Helper()

	f, err := parser.ParseFile(fset, filename, src, 0)
	require.NoError(t, err)

	info := &types.Info{
		Types: make(map[ast.Expr]types.TypeAndValue),
		Uses:  make(map[*ast.Ident]types.Object),
		Defs:  make(map[*ast.Ident]types.Object),
	}

	conf := types.Config{Importer: imp}

	pkg, err := conf.Check(path, fset, []*ast.File{f}, info)
	require.NoError(t, err)

	return pkg, info, f
}

func extractApp(t *testing.T) *extractor {
	t.Helper()

	fset := token.NewFileSet()

	i18nPkg, _, _ := check(t, fset, "example.com/l10n/i18n", "/src/i18n/i18n.go", i18nSrc, nil)
	require.True(t, isI18nPackage(i18nPkg))

	appPkg, info, f := check(t, fset, "example.com/app", "/src/app/app.go", appSrc,
		mapImporter{"example.com/l10n/i18n": i18nPkg})
	require.False(t, isI18nPackage(appPkg))

	e := newExtractor("/src", map[string]struct{}{i18nPkg.Path(): {}})
	e.inspect(fset, info, []*ast.File{f})

	return e
}

func TestExtract(t *testing.T) {
	t.Parallel()

	e := extractApp(t)
	require.Len(t, e.msgs, 5)

	settings := e.msgs[catalog.Key{Context: "ConfigDialog", Source: "Mozc Settings"}]
	require.NotNil(t, settings)
	assert.False(t, settings.numerus)
	assert.Equal(t, []catalog.Location{
		{File: "app/app.go", Line: 9},
		{File: "app/app.go", Line: 10},
	}, settings.refs)

	closeMsg := e.msgs[catalog.Key{Context: "DictionaryTool", Source: "Close", Disambiguation: "window"}]
	require.NotNil(t, closeMsg)

	assert.True(t, e.msgs[catalog.Key{Context: "DictionaryTool", Source: "%1 entries"}].numerus)
	assert.True(t, e.msgs[catalog.Key{Context: "DictionaryTool", Source: "%1 words"}].numerus)
	assert.NotNil(t, e.msgs[catalog.Key{Context: "FindDialog", Source: "Find"}])
}

func TestExtractCatalog(t *testing.T) {
	t.Parallel()

	c := extractApp(t).catalog("ja", "en", nil)

	assert.Equal(t, "ja", c.Locale())
	assert.Equal(t, "en", c.SourceLocale())
	assert.Equal(t, []string{"ConfigDialog", "DictionaryTool", "FindDialog"}, c.Contexts())
	assert.Equal(t, 5, c.Stats()[catalog.Untranslated])

	records := c.Records()
	assert.Equal(t, "%1 entries", records[1].Key.Source)
	assert.True(t, records[1].Numerus())
	assert.Equal(t, "Close", records[3].Key.Source)

	var buf bytes.Buffer
	require.NoError(t, catalog.Encode(&buf, c))

	decoded, err := catalog.Decode(&buf, "ja")
	require.NoError(t, err)
	assert.Equal(t, c.Len(), decoded.Len())
	assert.Empty(t, decoded.Warnings())
}

func TestExtractCatalogMergesExisting(t *testing.T) {
	t.Parallel()

	existing := catalog.NewBuilder("ja").
		Add(catalog.Record{
			Key:     catalog.Key{Context: "ConfigDialog", Source: "Mozc Settings"},
			State:   catalog.Finished,
			Payload: catalog.Escaped{Forms: []string{"Mozc プロパティ"}},
		}, 0).
		Add(catalog.Record{
			Key:     catalog.Key{Context: "FindDialog", Source: "Find"},
			State:   catalog.Obsolete,
			Payload: catalog.Escaped{Forms: []string{"検索"}},
		}, 0).
		Add(catalog.Record{
			Key:     catalog.Key{Context: "ConfigDialog", Source: "Apply"},
			State:   catalog.Finished,
			Payload: catalog.Escaped{Forms: []string{"適用"}},
		}, 0).
		Build()

	c := extractApp(t).catalog("ja", "en", existing)
	require.Equal(t, 6, c.Len())

	rec, ok := c.Lookup(catalog.Key{Context: "ConfigDialog", Source: "Mozc Settings"})
	require.True(t, ok)
	assert.Equal(t, catalog.Finished, rec.State)
	assert.Equal(t, "Mozc プロパティ", rec.Text())
	assert.Len(t, rec.Locations, 2)

	rec, ok = c.Lookup(catalog.Key{Context: "FindDialog", Source: "Find"})
	require.True(t, ok)
	assert.Equal(t, catalog.Draft, rec.State)

	records := c.Records()
	last := records[len(records)-1]
	assert.Equal(t, "Apply", last.Key.Source)
	assert.Equal(t, catalog.Obsolete, last.State)
}

func TestSortedLocations(t *testing.T) {
	t.Parallel()

	got := sortedLocations([]catalog.Location{
		{File: "b.go", Line: 3},
		{File: "a.go", Line: 9},
		{File: "b.go", Line: 3},
		{File: "a.go", Line: 2},
	})

	assert.Equal(t, []catalog.Location{
		{File: "a.go", Line: 2},
		{File: "a.go", Line: 9},
		{File: "b.go", Line: 3},
	}, got)
}
