// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	indentMessage = "    "
	indentField   = "        "
	indentForm    = "            "
)

// Encode writes c to w as a Qt Linguist TS file.
//
// Records are grouped by context in order of first appearance. [Verbatim]
// content decoded from a file is written back byte for byte; all other
// content is escaped the way lupdate does.
func Encode(w io.Writer, c *Catalog) error {
	bw := bufio.NewWriter(w)

	bw.WriteString(`<?xml version="1.0" encoding="utf-8"?>` + "\n")
	bw.WriteString("<!DOCTYPE TS>\n")

	fmt.Fprintf(bw, `<TS version="%s"`, escape(c.version, true))

	if c.locale != "" {
		fmt.Fprintf(bw, ` language="%s"`, escape(c.locale, true))
	}

	if c.sourceLocale != "" {
		fmt.Fprintf(bw, ` sourcelanguage="%s"`, escape(c.sourceLocale, true))
	}

	bw.WriteString(">\n")

	groups := make(map[string][]Record)
	for _, r := range c.records {
		groups[r.Key.Context] = append(groups[r.Key.Context], r)
	}

	for _, name := range c.Contexts() {
		bw.WriteString("<context>\n")
		fmt.Fprintf(bw, "%s<name>%s</name>\n", indentMessage, escape(name, true))

		for _, r := range groups[name] {
			encodeMessage(bw, r)
		}

		bw.WriteString("</context>\n")
	}

	bw.WriteString("</TS>\n")

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("catalog: encode %s: %w", c.locale, err)
	}

	return nil
}

func encodeMessage(w *bufio.Writer, r Record) {
	verbatim, isVerbatim := r.Payload.(Verbatim)

	w.WriteString(indentMessage + "<message")

	if r.Numerus() {
		w.WriteString(` numerus="yes"`)
	}

	if isVerbatim {
		w.WriteString(` utf8="true"`)
	}

	w.WriteString(">\n")

	for _, l := range r.Locations {
		fmt.Fprintf(w, `%s<location filename="%s"`, indentField, escape(l.File, true))

		if l.Line > 0 {
			w.WriteString(` line="` + strconv.Itoa(l.Line) + `"`)
		}

		w.WriteString("/>\n")
	}

	source := escape(r.Key.Source, !isVerbatim)
	if isVerbatim && verbatim.RawSource != nil {
		source = string(verbatim.RawSource)
	}

	fmt.Fprintf(w, "%s<source>%s</source>\n", indentField, source)

	writeElement(w, "comment", r.Key.Disambiguation)
	writeElement(w, "extracomment", r.ExtraComment)
	writeElement(w, "translatorcomment", r.TranslatorComment)

	w.WriteString(indentField + "<translation")

	switch r.State {
	case Untranslated, Draft:
		w.WriteString(` type="unfinished"`)
	case Obsolete:
		w.WriteString(` type="obsolete"`)
	case Finished:
	}

	w.WriteString(">")

	forms := r.Forms()
	form := func(i int) string {
		if isVerbatim {
			if raw, ok := verbatim.rawForm(i); ok {
				return string(raw)
			}
		}

		return escape(forms[i], !isVerbatim)
	}

	if r.Numerus() && len(forms) > 0 {
		w.WriteString("\n")

		for i := range forms {
			fmt.Fprintf(w, "%s<numerusform>%s</numerusform>\n", indentForm, form(i))
		}

		w.WriteString(indentField)
	} else if len(forms) > 0 {
		w.WriteString(form(0))
	}

	w.WriteString("</translation>\n")
	w.WriteString(indentMessage + "</message>\n")
}

func writeElement(w *bufio.Writer, name, text string) {
	if text == "" {
		return
	}

	fmt.Fprintf(w, "%s<%s>%s</%s>\n", indentField, name, escape(text, true), name)
}

// escape escapes s for use in XML text or attribute values. With full set,
// apostrophes and quotes are escaped too. Control characters that XML 1.0
// cannot carry, and carriage returns that parsers normalise away, are
// written as Qt <byte> elements.
func escape(s string, full bool) string {
	var b strings.Builder

	b.Grow(len(s))

	for _, r := range s {
		switch r {
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '\'':
			if full {
				b.WriteString("&apos;")
			} else {
				b.WriteRune(r)
			}
		case '"':
			if full {
				b.WriteString("&quot;")
			} else {
				b.WriteRune(r)
			}
		case '\n', '\t':
			b.WriteRune(r)
		default:
			if r < 0x20 {
				fmt.Fprintf(&b, `<byte value="x%x"/>`, r)

				continue
			}

			b.WriteRune(r)
		}
	}

	return b.String()
}
