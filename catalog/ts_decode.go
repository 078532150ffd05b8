// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
)

// Decode reads a Qt Linguist TS catalogue from r.
//
// locale is the identifier of the resulting catalogue. When empty, the
// file's language attribute is used instead. When both are set and name
// different languages, a [WarnLocaleMismatch] warning is recorded.
//
// Decode is pure: the same input always yields the same catalogue.
func Decode(r io.Reader, locale string) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &LoadError{Locale: locale, Kind: ErrKindUnreadable, Err: err}
	}

	c, err := decodeTS(data, locale)
	if err != nil {
		return nil, withSource(err, locale, "")
	}

	return c, nil
}

type tsDecoder struct {
	data []byte
	dec  *xml.Decoder

	// transcoded is set once the input was converted from a legacy charset;
	// offsets then no longer point into data and raw bytes are not kept.
	transcoded bool

	b        *Builder
	lastFile string
	lastLine map[string]int
}

type pendingRecord struct {
	rec  Record
	line int
}

func decodeTS(data []byte, locale string) (*Catalog, error) {
	d := &tsDecoder{
		data:     data,
		dec:      xml.NewDecoder(bytes.NewReader(data)),
		lastLine: make(map[string]int),
	}

	d.dec.CharsetReader = func(label string, input io.Reader) (io.Reader, error) {
		d.transcoded = true

		return charset.NewReaderLabel(label, input)
	}

	root, err := d.root()
	if err != nil {
		return nil, err
	}

	fileLocale := attr(root, "language")
	if locale == "" {
		locale = fileLocale
	}

	d.b = NewBuilder(locale).
		SetVersion(attr(root, "version")).
		SetSourceLocale(attr(root, "sourcelanguage"))

	if fileLocale != "" && !sameLanguage(fileLocale, locale) {
		d.b.Warn(Warning{
			Kind:   WarnLocaleMismatch,
			Detail: "file declares " + strconv.Quote(fileLocale) + ", loaded as " + strconv.Quote(locale),
		})
	}

	if err := d.body(); err != nil {
		return nil, err
	}

	return d.b.Build(), nil
}

// root returns the <TS> start element.
func (d *tsDecoder) root() (xml.StartElement, error) {
	for {
		tok, err := d.dec.Token()
		if errors.Is(err, io.EOF) {
			return xml.StartElement{}, malformed(0, "no <TS> element")
		}

		if err != nil {
			return xml.StartElement{}, d.fail(err)
		}

		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		if se.Name.Local != "TS" {
			return xml.StartElement{}, malformed(d.line(), "root element is <%s>, want <TS>", se.Name.Local)
		}

		return se, nil
	}
}

// body decodes the children of <TS> and checks that nothing but
// whitespace, comments or processing instructions follow it.
func (d *tsDecoder) body() error {
loop:
	for {
		tok, err := d.next()
		if err != nil {
			return err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local != "context" {
				if err := d.skip(); err != nil {
					return err
				}

				continue
			}

			if err := d.context(); err != nil {
				return err
			}
		case xml.EndElement:
			break loop
		}
	}

	for {
		tok, err := d.dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}

		if err != nil {
			return d.fail(err)
		}

		if se, ok := tok.(xml.StartElement); ok {
			return malformed(d.line(), "unexpected <%s> after </TS>", se.Name.Local)
		}
	}
}

func (d *tsDecoder) context() error {
	var (
		name    string
		pending []pendingRecord
	)

	for {
		tok, err := d.next()
		if err != nil {
			return err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "name":
				name, _, err = d.text()
				if err != nil {
					return err
				}
			case "message":
				p, err := d.message(t)
				if err != nil {
					return err
				}

				pending = append(pending, p)
			default:
				if err := d.skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			for _, p := range pending {
				p.rec.Key.Context = name

				d.b.Add(p.rec, p.line)

				for _, w := range checkRecord(p.rec, p.line) {
					d.b.Warn(w)
				}
			}

			return nil
		}
	}
}

func (d *tsDecoder) message(start xml.StartElement) (pendingRecord, error) {
	line := d.line()
	numerus := attr(start, "numerus") == "yes"
	utf8 := attr(start, "utf8")
	verbatim := utf8 == "true" || utf8 == "both"

	var (
		rec        Record
		haveSource bool
		rawSource  []byte
		typ        string
		forms      []string
		raws       [][]byte
	)

	for {
		tok, err := d.next()
		if err != nil {
			return pendingRecord{}, err
		}

		if _, ok := tok.(xml.EndElement); ok {
			break
		}

		t, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		switch t.Name.Local {
		case "location":
			rec.Locations = append(rec.Locations, d.location(t))
			err = d.skip()
		case "source":
			rec.Key.Source, rawSource, err = d.text()
			haveSource = true
		case "comment":
			rec.Key.Disambiguation, _, err = d.text()
		case "extracomment":
			rec.ExtraComment, _, err = d.text()
		case "translatorcomment":
			rec.TranslatorComment, _, err = d.text()
		case "translation":
			typ = attr(t, "type")
			forms, raws, err = d.translation()
		default:
			err = d.skip()
		}

		if err != nil {
			return pendingRecord{}, err
		}
	}

	if !haveSource {
		return pendingRecord{}, malformed(line, "message without <source>")
	}

	if verbatim {
		rec.Payload = Verbatim{Forms: forms, Plural: numerus, Raw: raws, RawSource: rawSource}
	} else {
		rec.Payload = Escaped{Forms: forms, Plural: numerus}
	}

	rec.State = stateOf(typ, rec.hasText())

	return pendingRecord{rec: rec, line: line}, nil
}

func stateOf(typ string, hasText bool) State {
	switch typ {
	case "obsolete", "vanished":
		return Obsolete
	case "unfinished":
		if hasText {
			return Draft
		}

		return Untranslated
	default:
		if hasText {
			return Finished
		}

		return Untranslated
	}
}

// translation decodes the content of <translation>: either plain text,
// a list of <numerusform> elements, or a list of <lengthvariant> elements
// of which the first is kept.
func (d *tsDecoder) translation() ([]string, [][]byte, error) {
	from := d.dec.InputOffset()

	var (
		text       strings.Builder
		forms      []string
		raws       [][]byte
		variant    *string
		variantRaw []byte
	)

	for {
		before := d.dec.InputOffset()

		tok, err := d.next()
		if err != nil {
			return nil, nil, err
		}

		switch t := tok.(type) {
		case xml.CharData:
			text.Write(t)
		case xml.StartElement:
			switch t.Name.Local {
			case "numerusform":
				s, raw, err := d.text()
				if err != nil {
					return nil, nil, err
				}

				forms = append(forms, s)
				raws = append(raws, raw)
			case "lengthvariant":
				s, raw, err := d.text()
				if err != nil {
					return nil, nil, err
				}

				if variant == nil {
					variant, variantRaw = &s, raw
				}
			case "byte":
				r, err := d.byteRune(t)
				if err != nil {
					return nil, nil, err
				}

				text.WriteRune(r)
			default:
				if err := d.skip(); err != nil {
					return nil, nil, err
				}
			}
		case xml.EndElement:
			switch {
			case forms != nil:
				return forms, raws, nil
			case variant != nil:
				return []string{*variant}, [][]byte{variantRaw}, nil
			default:
				return []string{text.String()}, [][]byte{d.raw(from, before)}, nil
			}
		}
	}
}

// text decodes character content up to the end of the current element.
// It returns the decoded text and, unless the input was transcoded, the
// exact bytes between the start and end tags.
func (d *tsDecoder) text() (string, []byte, error) {
	from := d.dec.InputOffset()

	var sb strings.Builder

	for {
		before := d.dec.InputOffset()

		tok, err := d.next()
		if err != nil {
			return "", nil, err
		}

		switch t := tok.(type) {
		case xml.CharData:
			sb.Write(t)
		case xml.StartElement:
			if t.Name.Local == "byte" {
				r, err := d.byteRune(t)
				if err != nil {
					return "", nil, err
				}

				sb.WriteRune(r)

				continue
			}

			if err := d.skip(); err != nil {
				return "", nil, err
			}
		case xml.EndElement:
			return sb.String(), d.raw(from, before), nil
		}
	}
}

// byteRune decodes Qt's <byte value="x1b"/> escape for control characters
// and consumes the element.
func (d *tsDecoder) byteRune(t xml.StartElement) (rune, error) {
	v := attr(t, "value")

	var (
		n   uint64
		err error
	)

	if hex, ok := strings.CutPrefix(v, "x"); ok {
		n, err = strconv.ParseUint(hex, 16, 32)
	} else {
		n, err = strconv.ParseUint(v, 10, 32)
	}

	if err != nil || n > utf8.MaxRune || (n >= 0xD800 && n <= 0xDFFF) {
		return 0, malformed(d.line(), "invalid <byte value=%q>", v)
	}

	return rune(n), d.skip()
}

// location decodes a <location> element. Lines prefixed with "+" or "-"
// are relative to the previous location of the same file, and a missing
// filename repeats the previous one.
func (d *tsDecoder) location(t xml.StartElement) Location {
	file := attr(t, "filename")
	if file == "" {
		file = d.lastFile
	}

	raw := attr(t, "line")

	var line int

	switch {
	case strings.HasPrefix(raw, "+") || strings.HasPrefix(raw, "-"):
		if delta, err := strconv.Atoi(raw); err == nil {
			line = d.lastLine[file] + delta
		}
	default:
		line, _ = strconv.Atoi(raw)
	}

	d.lastFile = file
	d.lastLine[file] = line

	return Location{File: file, Line: line}
}

func (d *tsDecoder) raw(from, to int64) []byte {
	if d.transcoded || from < 0 || to > int64(len(d.data)) || from > to {
		return nil
	}

	return bytes.Clone(d.data[from:to])
}

func (d *tsDecoder) next() (xml.Token, error) {
	tok, err := d.dec.Token()
	if err != nil {
		return nil, d.fail(err)
	}

	return tok, nil
}

func (d *tsDecoder) skip() error {
	if err := d.dec.Skip(); err != nil {
		return d.fail(err)
	}

	return nil
}

func (d *tsDecoder) line() int {
	line, _ := d.dec.InputPos()

	return line
}

func (d *tsDecoder) fail(err error) error {
	var se *xml.SyntaxError
	if errors.As(err, &se) {
		return malformed(se.Line, "%s", se.Msg)
	}

	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return malformed(d.line(), "unexpected end of input")
	}

	return malformed(d.line(), "%w", err)
}

func attr(se xml.StartElement, name string) string {
	for _, a := range se.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}

	return ""
}

// sameLanguage compares the language subtags of two locale identifiers,
// accepting both "ja_JP" and "ja-JP" spellings.
func sameLanguage(a, b string) bool {
	lang := func(s string) string {
		if i := strings.IndexAny(s, "_-"); i >= 0 {
			s = s[:i]
		}

		return strings.ToLower(s)
	}

	return lang(a) == lang(b)
}
