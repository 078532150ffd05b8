// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Placeholders returns the sorted, distinct indices of the positional
// markers "%1" through "%9" found in s.
func Placeholders(s string) []int {
	var out []int

	for i := 0; i+1 < len(s); i++ {
		if s[i] != '%' {
			continue
		}

		d := s[i+1]
		if d < '1' || d > '9' {
			continue
		}

		n := int(d - '0')
		if !slices.Contains(out, n) {
			out = append(out, n)
		}

		i++
	}

	slices.Sort(out)

	return out
}

// PlaceholderMismatch describes markers that appear on only one side of a
// source/translation pair.
type PlaceholderMismatch struct {
	Missing []int // in the source but not in the translation
	Extra   []int // in the translation but not in the source
}

func (m *PlaceholderMismatch) Error() string {
	var parts []string
	if len(m.Missing) > 0 {
		parts = append(parts, "missing "+markers(m.Missing))
	}

	if len(m.Extra) > 0 {
		parts = append(parts, "unexpected "+markers(m.Extra))
	}

	return "placeholder mismatch: " + strings.Join(parts, ", ")
}

func markers(ns []int) string {
	s := make([]string, len(ns))
	for i, n := range ns {
		s[i] = "%" + strconv.Itoa(n)
	}

	return strings.Join(s, " ")
}

// CheckPlaceholders reports whether translation uses exactly the markers of
// source. It returns nil when the sets are equal.
func CheckPlaceholders(source, translation string) *PlaceholderMismatch {
	want, got := Placeholders(source), Placeholders(translation)
	if slices.Equal(want, got) {
		return nil
	}

	m := &PlaceholderMismatch{}

	for _, n := range want {
		if !slices.Contains(got, n) {
			m.Missing = append(m.Missing, n)
		}
	}

	for _, n := range got {
		if !slices.Contains(want, n) {
			m.Extra = append(m.Extra, n)
		}
	}

	return m
}

// checkRecord returns one warning per translated form of r whose markers
// differ from the source.
func checkRecord(r Record, line int) []Warning {
	if r.State == Untranslated || r.State == Obsolete {
		return nil
	}

	var out []Warning

	forms := r.Forms()
	for i, f := range forms {
		if f == "" {
			continue
		}

		m := CheckPlaceholders(r.Key.Source, f)
		if m == nil {
			continue
		}

		detail := m.Error()
		if len(forms) > 1 {
			detail = fmt.Sprintf("form %d: %s", i, detail)
		}

		out = append(out, Warning{Kind: WarnPlaceholderMismatch, Key: r.Key, Line: line, Detail: detail})
	}

	return out
}
