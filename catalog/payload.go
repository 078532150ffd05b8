// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog

// Payload is the translation content of a record. It is either [Escaped]
// or [Verbatim]; the variant decides how the content is serialised.
type Payload interface {
	// Texts returns the decoded translation forms.
	Texts() []string
	// Numerus reports whether the forms are plural variants.
	Numerus() bool

	isPayload()
}

// Escaped content is written with full XML escaping, including
// apostrophes and quotes, as Qt's lupdate does.
type Escaped struct {
	Forms  []string
	Plural bool
}

func (p Escaped) Texts() []string { return p.Forms }
func (p Escaped) Numerus() bool   { return p.Plural }
func (Escaped) isPayload()        {}

// Verbatim content must not be re-escaped. When the record was decoded from
// a file, Raw holds the exact bytes of every form and RawSource the exact
// bytes of the source text; the encoder writes them back unchanged.
type Verbatim struct {
	Forms  []string
	Plural bool

	Raw       [][]byte
	RawSource []byte
}

func (p Verbatim) Texts() []string { return p.Forms }
func (p Verbatim) Numerus() bool   { return p.Plural }
func (Verbatim) isPayload()        {}

// rawForm returns the raw bytes of form i if they are available.
func (p Verbatim) rawForm(i int) ([]byte, bool) {
	if len(p.Raw) != len(p.Forms) || p.Raw[i] == nil {
		return nil, false
	}

	return p.Raw[i], true
}
