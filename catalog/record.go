// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog

import (
	"strconv"

	"github.com/leonelquinteros/gotext"
)

// Key identifies one translatable message within a locale.
type Key struct {
	Context        string
	Source         string
	Disambiguation string
}

// String composes a stable, human readable form of k for logging,
// similar to gettext's "ctx<EOT>msgid".
func (k Key) String() string {
	s := k.Source
	if k.Context != "" {
		s = k.Context + gotext.EotSeparator + s
	}

	if k.Disambiguation != "" {
		s += " (" + k.Disambiguation + ")"
	}

	return s
}

// Location is a source-code hint for translators. It is never consulted
// during lookups.
type Location struct {
	File string
	Line int
}

func (l Location) String() string {
	if l.Line <= 0 {
		return l.File
	}

	return l.File + ":" + strconv.Itoa(l.Line)
}

// State is the translation state of a record.
type State int

const (
	// Untranslated records have no translation text.
	Untranslated State = iota
	// Draft records have text that a translator has not yet approved.
	Draft
	// Finished records are approved translations.
	Finished
	// Obsolete records no longer exist in the source and are kept for reference only.
	Obsolete
)

func (s State) String() string {
	switch s {
	case Untranslated:
		return "untranslated"
	case Draft:
		return "draft"
	case Finished:
		return "finished"
	case Obsolete:
		return "obsolete"
	default:
		return "State(" + strconv.Itoa(int(s)) + ")"
	}
}

// Record is one translatable message.
//
// Records are values; the slices they carry are shared with the catalogue
// they came from and must not be modified.
type Record struct {
	Key       Key
	Locations []Location
	State     State
	Payload   Payload

	// Advisory notes for translators.
	ExtraComment      string
	TranslatorComment string
}

// Numerus reports whether r carries one translation per plural category.
func (r Record) Numerus() bool {
	return r.Payload != nil && r.Payload.Numerus()
}

// Verbatim reports whether r's content must be written back byte for byte.
func (r Record) Verbatim() bool {
	_, ok := r.Payload.(Verbatim)

	return ok
}

// Forms returns the translation texts of r: a single element for plain
// messages, one element per plural category for numerus messages.
func (r Record) Forms() []string {
	if r.Payload == nil {
		return nil
	}

	return r.Payload.Texts()
}

// Form returns the i-th translation text of r, clamping i to the range of
// available forms. It returns "" when r has no forms at all.
func (r Record) Form(i int) string {
	forms := r.Forms()
	if len(forms) == 0 {
		return ""
	}

	if i < 0 {
		i = 0
	}

	if i >= len(forms) {
		i = len(forms) - 1
	}

	return forms[i]
}

// Text returns the first translation form of r.
func (r Record) Text() string {
	return r.Form(0)
}

// hasText reports whether any form of r is non-empty.
func (r Record) hasText() bool {
	for _, f := range r.Forms() {
		if f != "" {
			return true
		}
	}

	return false
}
