// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"cmp"
	"go/ast"
	"go/constant"
	"go/token"
	"go/types"
	"path/filepath"
	"slices"

	"golang.org/x/tools/go/packages"

	"codeberg.org/imeconf/l10n/catalog"
)

// message is a translatable string found in the Go sources.
// Locations are kept in discovery order and sorted on output.
type message struct {
	key     catalog.Key
	numerus bool
	refs    []catalog.Location
}

// extractor holds the messages found so far and the state of the package
// being inspected.
type extractor struct {
	msgs        map[catalog.Key]*message
	projectRoot string
	i18nPkgs    map[string]struct{}

	fset *token.FileSet
	info *types.Info
}

// call describes where a Resolver method takes its context and source text.
type call struct {
	context, source int
	numerus         bool
}

// resolverMethods lists the [i18n.Resolver] methods whose arguments name a
// message.
var resolverMethods = map[string]call{
	"Resolve":        {context: 0, source: 1},
	"ResolveLocale":  {context: 1, source: 2},
	"ResolveContext": {context: 1, source: 2},
	"Tr":             {context: 0, source: 1},
	"TrN":            {context: 0, source: 1, numerus: true},
	"Msg":            {context: 0, source: 1},
}

func newExtractor(projectRoot string, i18nPkgs map[string]struct{}) *extractor {
	return &extractor{
		msgs:        make(map[catalog.Key]*message),
		projectRoot: projectRoot,
		i18nPkgs:    i18nPkgs,
	}
}

// extractPackages inspects every loaded package that has type information.
func (e *extractor) extractPackages(pkgs []*packages.Package) {
	for _, p := range pkgs {
		if p.TypesInfo == nil {
			continue
		}

		e.inspect(p.Fset, p.TypesInfo, p.Syntax)
	}
}

// inspect records the messages used in files.
func (e *extractor) inspect(fset *token.FileSet, info *types.Info, files []*ast.File) {
	e.fset, e.info = fset, info

	for _, f := range files {
		ast.Inspect(f, func(n ast.Node) bool {
			if x, ok := n.(*ast.CallExpr); ok {
				e.handleCallExpr(x)
			}

			return true
		})
	}
}

// findI18nPkgPaths returns the paths of the loaded packages that define
// the resolver, however they are imported or aliased.
func findI18nPkgPaths(pkgs []*packages.Package) map[string]struct{} {
	out := make(map[string]struct{})

	for _, p := range pkgs {
		if p.Types != nil && isI18nPackage(p.Types) {
			out[p.PkgPath] = struct{}{}
		}
	}

	return out
}

// isI18nPackage reports whether pkg is named i18n and defines a Resolver
// type with a Resolve method.
func isI18nPackage(pkg *types.Package) bool {
	if pkg.Name() != "i18n" {
		return false
	}

	tn, ok := pkg.Scope().Lookup("Resolver").(*types.TypeName)
	if !ok {
		return false
	}

	named, ok := tn.Type().(*types.Named)
	if !ok {
		return false
	}

	for i := range named.NumMethods() {
		if named.Method(i).Name() == "Resolve" {
			return true
		}
	}

	return false
}

// constString evaluates expr to a constant string if possible using types.Info.
// Handles string literals, const identifiers, and constant expressions like "a" + "b".
func constString(info *types.Info, expr ast.Expr) (string, bool) {
	tv, ok := info.Types[expr]
	if !ok || tv.Value == nil || tv.Value.Kind() != constant.String {
		return "", false
	}

	return constant.StringVal(tv.Value), true
}

// i18nFunc returns the i18n function or method called by x.
func (e *extractor) i18nFunc(x *ast.CallExpr) (*types.Func, bool) {
	sel, ok := x.Fun.(*ast.SelectorExpr)
	if !ok {
		return nil, false
	}

	fn, ok := e.info.Uses[sel.Sel].(*types.Func)
	if !ok || fn.Pkg() == nil {
		return nil, false
	}

	_, ok = e.i18nPkgs[fn.Pkg().Path()]

	return fn, ok
}

// handleCallExpr records calls such as r.Tr("ConfigDialog", "Mozc Settings").
// Calls whose context or source is not constant are skipped.
func (e *extractor) handleCallExpr(x *ast.CallExpr) {
	fn, ok := e.i18nFunc(x)
	if !ok {
		return
	}

	sig, ok := fn.Type().(*types.Signature)
	if !ok || sig.Recv() == nil {
		return
	}

	c, ok := resolverMethods[fn.Name()]
	if !ok || len(x.Args) <= c.source {
		return
	}

	ctx, ok1 := constString(e.info, x.Args[c.context])

	source, ok2 := constString(e.info, x.Args[c.source])
	if !ok1 || !ok2 {
		return
	}

	key := catalog.Key{Context: ctx, Source: source}
	numerus := c.numerus

	// Lookup options: i18n.Disambiguation("...") and i18n.Count(n).
	for _, arg := range x.Args[c.source+1:] {
		opt, ok := arg.(*ast.CallExpr)
		if !ok {
			continue
		}

		optFn, ok := e.i18nFunc(opt)
		if !ok {
			continue
		}

		switch optFn.Name() {
		case "Disambiguation":
			if len(opt.Args) == 1 {
				key.Disambiguation, _ = constString(e.info, opt.Args[0])
			}
		case "Count":
			numerus = true
		}
	}

	e.addRef(x.Args[c.source].Pos(), key, numerus)
}

// addRef records a use of key, normalising the file path relative to the
// project root.
func (e *extractor) addRef(pos token.Pos, key catalog.Key, numerus bool) {
	p := e.fset.Position(pos)

	file := p.Filename
	if rel, err := filepath.Rel(e.projectRoot, file); err == nil {
		file = rel
	}

	m, ok := e.msgs[key]
	if !ok {
		m = &message{key: key}
		e.msgs[key] = m
	}

	m.numerus = m.numerus || numerus
	m.refs = append(m.refs, catalog.Location{File: filepath.ToSlash(file), Line: p.Line})
}

// catalog builds the catalogue template for locale. Translations of
// existing that are still in use are kept; the others are marked obsolete
// and moved to the end.
func (e *extractor) catalog(locale, sourceLocale string, existing *catalog.Catalog) *catalog.Catalog {
	keys := make([]catalog.Key, 0, len(e.msgs))
	for k := range e.msgs {
		keys = append(keys, k)
	}

	slices.SortFunc(keys, func(a, b catalog.Key) int {
		return cmp.Or(
			cmp.Compare(a.Context, b.Context),
			cmp.Compare(a.Source, b.Source),
			cmp.Compare(a.Disambiguation, b.Disambiguation),
		)
	})

	b := catalog.NewBuilder(locale).SetSourceLocale(sourceLocale)

	for _, k := range keys {
		m := e.msgs[k]

		rec := catalog.Record{
			Key:       k,
			Locations: sortedLocations(m.refs),
			State:     catalog.Untranslated,
			Payload:   catalog.Escaped{Forms: []string{""}, Plural: m.numerus},
		}

		if old, ok := existing.Lookup(k); ok && old.Numerus() == m.numerus {
			rec.State = old.State
			rec.Payload = old.Payload
			rec.ExtraComment = old.ExtraComment
			rec.TranslatorComment = old.TranslatorComment

			if rec.State == catalog.Obsolete {
				rec.State = catalog.Untranslated
				if old.Text() != "" {
					rec.State = catalog.Draft
				}
			}
		}

		b.Add(rec, 0)
	}

	if existing != nil {
		vanished := make(map[catalog.Key]bool)

		for old := range existing.All {
			if _, ok := e.msgs[old.Key]; ok || vanished[old.Key] {
				continue
			}

			vanished[old.Key] = true
			old.State = catalog.Obsolete
			b.Add(old, 0)
		}
	}

	return b.Build()
}

// sortedLocations sorts refs by file and line and drops duplicates.
func sortedLocations(refs []catalog.Location) []catalog.Location {
	out := slices.Clone(refs)

	slices.SortFunc(out, func(a, b catalog.Location) int {
		return cmp.Or(cmp.Compare(a.File, b.File), cmp.Compare(a.Line, b.Line))
	})

	return slices.Compact(out)
}
