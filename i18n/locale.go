// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/language"

	"codeberg.org/imeconf/l10n/catalog"
)

// BaseLocale is the default locale used when no specific locale is set.
const BaseLocale = "en"

// ErrInvalidLocale is returned for identifiers that are not BCP 47 tags.
var ErrInvalidLocale = errors.New("i18n: invalid locale")

// NormalizeLocale returns the canonical form of a locale identifier, using
// underscores as Qt catalogue names do: "ja-jp" becomes "ja_JP" and
// "zh-hant-tw" becomes "zh_Hant_TW". Variants and extensions are dropped.
func NormalizeLocale(id string) (string, error) {
	tag, err := language.Parse(strings.ReplaceAll(strings.TrimSpace(id), "_", "-"))
	if err != nil {
		return "", fmt.Errorf("%w %q: %w", ErrInvalidLocale, id, err)
	}

	if tag == language.Und {
		return "", fmt.Errorf("%w %q", ErrInvalidLocale, id)
	}

	base, script, region := tag.Raw()

	parts := []string{base.String()}
	if script != (language.Script{}) {
		parts = append(parts, script.String())
	}

	if region != (language.Region{}) {
		parts = append(parts, region.String())
	}

	return strings.Join(parts, "_"), nil
}

// localeChain returns the locales searched for locale, most specific first,
// ending with def: "zh_Hant_TW" yields zh_Hant_TW, zh_Hant, zh, def.
// Both arguments must already be normalised.
func localeChain(locale, def string) []string {
	parts := strings.Split(locale, "_")

	chain := make([]string, 0, len(parts)+1)
	for i := len(parts); i > 0; i-- {
		chain = append(chain, strings.Join(parts[:i], "_"))
	}

	if def != "" && !slices.Contains(chain, def) {
		chain = append(chain, def)
	}

	return chain
}

// LocaleFromFilename derives the locale of a catalogue file from its name,
// following the "<component>_<locale>.ts" convention of Qt projects:
// "config_dialog_ja.ts" is "ja", "about_pt_BR.po.zst" is "pt_BR" and
// "ja_JP.ts" is "ja_JP". It reports false when no locale suffix is found.
func LocaleFromFilename(name string) (string, bool) {
	ext, compressed := catalog.Format(name)
	if ext == "" {
		return "", false
	}

	base := name
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}

	if compressed {
		base = base[:len(base)-len(catalog.ExtZstd)]
	}

	base = strings.ReplaceAll(base[:len(base)-len(ext)], "-", "_")
	parts := strings.Split(base, "_")

	// Try the longest trailing locale first: lang_Script_RR, lang_RR, lang.
	for n := min(3, len(parts)); n > 0; n-- {
		candidate := parts[len(parts)-n:]
		if !isLanguageSubtag(candidate[0]) {
			continue
		}

		if n >= 2 && !isRegionSubtag(candidate[n-1]) {
			continue
		}

		if n == 3 && !isScriptSubtag(candidate[1]) {
			continue
		}

		if id, err := NormalizeLocale(strings.Join(candidate, "_")); err == nil {
			return id, true
		}
	}

	return "", false
}

// isLanguageSubtag accepts two or three ASCII letters, so that component
// names such as "dialog" are not mistaken for a language.
func isLanguageSubtag(s string) bool {
	if len(s) < 2 || len(s) > 3 {
		return false
	}

	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}

	return true
}

// isRegionSubtag accepts the upper case region codes used in file names,
// such as "JP" or "419".
func isRegionSubtag(s string) bool {
	switch len(s) {
	case 2:
		return s[0] >= 'A' && s[0] <= 'Z' && s[1] >= 'A' && s[1] <= 'Z'
	case 3:
		return strings.Trim(s, "0123456789") == ""
	default:
		return false
	}
}

// isScriptSubtag accepts title case script codes such as "Hant".
func isScriptSubtag(s string) bool {
	if len(s) != 4 || s[0] < 'A' || s[0] > 'Z' {
		return false
	}

	return strings.Trim(s[1:], "abcdefghijklmnopqrstuvwxyz") == ""
}

// Match returns the registered locale that best matches the preferred
// identifiers, such as the value of $LANG or an Accept-Language header.
// It returns the default locale when nothing matches.
func (reg *Registry) Match(preferred ...string) string {
	locales := reg.Locales()
	if len(locales) == 0 {
		return reg.defaultLocale
	}

	// The default locale is first to make it the fallback for matching.
	tags := make([]language.Tag, 0, len(locales)+1)
	ids := make([]string, 0, len(locales)+1)

	tags = append(tags, language.Make(strings.ReplaceAll(reg.defaultLocale, "_", "-")))
	ids = append(ids, reg.defaultLocale)

	for _, id := range locales {
		if id == reg.defaultLocale {
			continue
		}

		tags = append(tags, language.Make(strings.ReplaceAll(id, "_", "-")))
		ids = append(ids, id)
	}

	cleaned := make([]string, 0, len(preferred))
	for _, p := range preferred {
		// POSIX locales carry an encoding and modifier: ja_JP.UTF-8@euro.
		if i := strings.IndexAny(p, ".@"); i >= 0 {
			p = p[:i]
		}

		if p != "" && p != "C" && p != "POSIX" {
			cleaned = append(cleaned, strings.ReplaceAll(p, "_", "-"))
		}
	}

	_, index := language.MatchStrings(language.NewMatcher(tags), cleaned...)

	return ids[index]
}
