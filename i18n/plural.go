// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"slices"
	"strings"

	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
)

// PluralRule maps a count to the index of the numerus form to display for
// locale. Indices past the last form are clamped by the caller.
type PluralRule func(count int, locale string) int

// PluralRules maps locale identifiers to their rule. A rule registered for
// a language ("pt") also applies to its regional variants ("pt_BR") unless
// they have their own.
type PluralRules map[string]PluralRule

// TwoFormRule selects form 0 for a count of one and form 1 otherwise.
// It is used for locales without a registered rule.
func TwoFormRule(count int, _ string) int {
	if count == 1 {
		return 0
	}

	return 1
}

// SingleFormRule always selects form 0, for languages that do not inflect
// for number.
func SingleFormRule(int, string) int {
	return 0
}

// CLDRRule returns a rule that selects the position of the count's CLDR
// cardinal category within forms, so that forms lists the categories in
// the order of the catalogue's numerus forms. Counts whose category is not
// listed select the last form.
//
//	ru := i18n.CLDRRule(plural.One, plural.Few, plural.Many)
func CLDRRule(forms ...plural.Form) PluralRule {
	forms = slices.Clone(forms)

	return func(count int, locale string) int {
		if len(forms) == 0 {
			return 0
		}

		tag := language.Make(strings.ReplaceAll(locale, "_", "-"))

		if count < 0 {
			count = -count
		}

		if i := slices.Index(forms, plural.Cardinal.MatchPlural(tag, count, 0, 0, 0, 0)); i >= 0 {
			return i
		}

		return len(forms) - 1
	}
}

// DefaultPluralRules returns the rules used when none are configured:
// single-form rules for languages without grammatical number.
func DefaultPluralRules() PluralRules {
	rules := PluralRules{}

	for _, lang := range []string{"ja", "zh", "ko", "vi", "th", "id", "ms", "lo", "my", "km"} {
		rules[lang] = SingleFormRule
	}

	return rules
}

// rule returns the first rule registered along chain, or [TwoFormRule].
func (rules PluralRules) rule(chain []string) PluralRule {
	for _, id := range chain {
		if r, ok := rules[id]; ok && r != nil {
			return r
		}
	}

	return TwoFormRule
}
