// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog

import (
	"errors"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/leonelquinteros/gotext"
)

// DecodePO imports a GNU gettext .po catalogue from r.
//
// msgctxt becomes the context, msgid the source text and msgstr[n] the
// numerus forms of plural entries. "#:" references become locations.
// gettext has no disambiguation comment, so keys never carry one.
// Entries are ordered by context, then by msgid, so the result does not
// depend on map iteration order.
func DecodePO(r io.Reader, locale string) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &LoadError{Locale: locale, Kind: ErrKindUnreadable, Err: err}
	}

	po := gotext.NewPo()
	po.Parse(data)

	domain := po.GetDomain()
	if domain == nil {
		return nil, &LoadError{Locale: locale, Kind: ErrKindMalformed, Err: errNoPODomain}
	}

	b := NewBuilder(locale)

	add := func(ctx string, tr *gotext.Translation) {
		if tr == nil || tr.ID == "" {
			// The header entry.
			return
		}

		rec := Record{
			Key:       Key{Context: ctx, Source: tr.ID},
			Locations: poLocations(tr.Refs),
			Payload:   Escaped{Forms: poForms(tr), Plural: tr.PluralID != ""},
		}

		rec.State = stateOf("", rec.hasText())

		b.Add(rec, 0)

		for _, w := range checkRecord(rec, 0) {
			b.Warn(w)
		}
	}

	plain := domain.GetTranslations()
	for _, id := range slices.Sorted(maps.Keys(plain)) {
		add("", plain[id])
	}

	withCtx := domain.GetCtxTranslations()
	for _, ctx := range slices.Sorted(maps.Keys(withCtx)) {
		entries := withCtx[ctx]
		for _, id := range slices.Sorted(maps.Keys(entries)) {
			add(ctx, entries[id])
		}
	}

	return b.Build(), nil
}

var errNoPODomain = errors.New("no gettext domain")

// poForms returns the msgstr values of tr in index order. Missing indices
// between defined ones are kept as empty forms.
func poForms(tr *gotext.Translation) []string {
	if len(tr.Trs) == 0 {
		return []string{""}
	}

	last := slices.Max(slices.Collect(maps.Keys(tr.Trs)))
	if last < 0 {
		return []string{""}
	}

	forms := make([]string, last+1)
	for i, s := range tr.Trs {
		if i >= 0 {
			forms[i] = s
		}
	}

	if tr.PluralID == "" {
		return forms[:1]
	}

	return forms
}

// poLocations parses "file:line" references.
func poLocations(refs []string) []Location {
	var out []Location

	for _, ref := range refs {
		for _, f := range strings.Fields(ref) {
			file, line := f, 0

			if i := strings.LastIndexByte(f, ':'); i > 0 {
				if n, err := strconv.Atoi(f[i+1:]); err == nil {
					file, line = f[:i], n
				}
			}

			out = append(out, Location{File: file, Line: line})
		}
	}

	return out
}
