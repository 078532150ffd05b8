// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog

import (
	"fmt"
	"slices"
)

// DefaultVersion is the TS format version written when a catalogue does
// not carry one.
const DefaultVersion = "2.1"

// Catalog is the ordered, immutable collection of records of one locale.
//
// A Catalog is safe for concurrent use. Construct one with a [Builder],
// [Decode], [DecodePO] or [Merge].
type Catalog struct {
	locale       string
	sourceLocale string
	version      string

	records  []Record
	index    map[Key]int
	warnings []Warning
}

// Locale returns the locale identifier of c.
func (c *Catalog) Locale() string { return c.locale }

// SourceLocale returns the language of the source texts, if declared.
func (c *Catalog) SourceLocale() string { return c.sourceLocale }

// Version returns the format version of c.
func (c *Catalog) Version() string { return c.version }

// Len returns the number of distinct keys in c.
func (c *Catalog) Len() int { return len(c.records) }

// Lookup returns the record stored under k.
func (c *Catalog) Lookup(k Key) (Record, bool) {
	if c == nil {
		return Record{}, false
	}

	i, ok := c.index[k]
	if !ok {
		return Record{}, false
	}

	return c.records[i], true
}

// Records returns the records of c in their original order.
// The returned slice is a copy and is safe to retain.
func (c *Catalog) Records() []Record {
	return slices.Clone(c.records)
}

// All iterates over the records of c in their original order.
func (c *Catalog) All(yield func(Record) bool) {
	for _, r := range c.records {
		if !yield(r) {
			return
		}
	}
}

// Warnings returns the non-fatal problems recorded while building c.
func (c *Catalog) Warnings() []Warning {
	return slices.Clone(c.warnings)
}

// Contexts returns the context names of c in order of first appearance.
func (c *Catalog) Contexts() []string {
	var out []string

	seen := make(map[string]struct{})

	for _, r := range c.records {
		if _, ok := seen[r.Key.Context]; ok {
			continue
		}

		seen[r.Key.Context] = struct{}{}
		out = append(out, r.Key.Context)
	}

	return out
}

// Stats counts the records of c per [State].
func (c *Catalog) Stats() map[State]int {
	out := make(map[State]int, 4)
	for _, r := range c.records {
		out[r.State]++
	}

	return out
}

// Builder accumulates records into a [Catalog].
//
// A Builder is not safe for concurrent use.
type Builder struct {
	c *Catalog
}

// NewBuilder returns a Builder for a catalogue of the given locale.
func NewBuilder(locale string) *Builder {
	return &Builder{c: &Catalog{
		locale:  locale,
		version: DefaultVersion,
		index:   make(map[Key]int),
	}}
}

// SetSourceLocale records the language of the source texts.
func (b *Builder) SetSourceLocale(locale string) *Builder {
	b.c.sourceLocale = locale

	return b
}

// SetVersion records the format version.
func (b *Builder) SetVersion(v string) *Builder {
	if v != "" {
		b.c.version = v
	}

	return b
}

// Add appends r. If a record with the same key already exists, r replaces
// it in place and a [WarnDuplicateKey] warning is recorded. line is the
// input position of r, or 0 if unknown.
func (b *Builder) Add(r Record, line int) *Builder {
	if i, ok := b.c.index[r.Key]; ok {
		b.c.records[i] = r
		b.Warn(Warning{
			Kind:   WarnDuplicateKey,
			Key:    r.Key,
			Line:   line,
			Detail: fmt.Sprintf("replaces entry #%d", i+1),
		})

		return b
	}

	b.c.index[r.Key] = len(b.c.records)
	b.c.records = append(b.c.records, r)

	return b
}

// Warn records a non-fatal problem.
func (b *Builder) Warn(w Warning) *Builder {
	b.c.warnings = append(b.c.warnings, w)

	return b
}

// Build returns the catalogue. The Builder must not be used afterwards.
func (b *Builder) Build() *Catalog {
	c := b.c
	b.c = nil

	return c
}

// Merge combines catalogues of the same locale into one, in argument order.
// Records of later catalogues replace records of earlier ones with the same
// key; every replacement is recorded as a [WarnDuplicateKey] warning. The
// warnings of the inputs are carried over.
func Merge(locale string, cats ...*Catalog) *Catalog {
	b := NewBuilder(locale)

	for _, c := range cats {
		if c == nil {
			continue
		}

		if b.c.sourceLocale == "" {
			b.SetSourceLocale(c.sourceLocale)
		}

		b.SetVersion(c.version)

		for _, w := range c.warnings {
			b.Warn(w)
		}

		for _, r := range c.records {
			b.Add(r, 0)
		}
	}

	return b.Build()
}
