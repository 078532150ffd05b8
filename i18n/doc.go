// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package i18n resolves UI strings against the catalogues of package catalog.
It keeps one catalogue per locale in a [Registry], walks a fallback chain
from the requested locale down to the source locale, picks plural forms
and substitutes positional arguments.

# Quick start

Use the original English UI text as the source; do not invent keys.

	reg := i18n.NewRegistry(i18n.WithDefaultLocale("en"))
	if _, err := reg.ReloadLocale("ja", f); err != nil {
		// the previous catalogue, if any, stays active
	}

	_ = reg.SetActiveLocale("ja_JP")

	r := i18n.NewResolver(reg)
	r.Resolve("ConfigDialog", "Mozc Settings")
	r.Resolve("ConfigDialog", "Open", i18n.Disambiguation("menu"))
	r.Resolve("mozc::gui::DictionaryTool", "%1 entries are imported to %2.",
		i18n.Args("12", "Default"))
	r.TrN("Dialog", "%1 file(s)", n, strconv.Itoa(n))

Messages can be used directly in templ templates:

	@resolver.Msg("ConfigDialog", "Mozc Settings")

# Fallback

For "ja_JP" the chain is ja_JP, ja, then the default locale. The first
catalogue holding a finished translation of the exact (context, source,
disambiguation) key wins. Draft translations are only accepted with
[AllowDraft]. When nothing matches, the source text is returned.

# Missing translations

By default, missing translations return the source text unchanged. With
[StrictMissingKeys], missing lookups are also logged once per locale+key.

# Formatting

"%1" through "%9" are replaced by the arguments given with [Args] in a
single pass. Markers without an argument are left as they are. Numbers
are not localised; convert them to strings yourself.

# Reloading

[Registry.ReloadLocale], [Registry.ReloadFiles] and [Registry.LoadFS]
install catalogues atomically. [Watcher] does so whenever files in a
directory change.
*/
package i18n
