// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"codeberg.org/imeconf/l10n/catalog"
	"codeberg.org/imeconf/l10n/i18n"
)

type msg struct {
	ctx, source, disambiguation string
	state                       catalog.State
	forms                       []string
	numerus                     bool
}

func build(locale string, msgs ...msg) *catalog.Catalog {
	b := catalog.NewBuilder(locale)

	for _, m := range msgs {
		b.Add(catalog.Record{
			Key:     catalog.Key{Context: m.ctx, Source: m.source, Disambiguation: m.disambiguation},
			State:   m.state,
			Payload: catalog.Escaped{Forms: m.forms, Plural: m.numerus},
		}, 0)
	}

	return b.Build()
}

func newRegistry(t *testing.T, cats map[string]*catalog.Catalog) *i18n.Registry {
	t.Helper()

	reg := i18n.NewRegistry(i18n.WithDefaultLocale("en"), i18n.WithLogger(zerolog.Nop()))
	for locale, c := range cats {
		require.NoError(t, reg.Register(locale, c))
	}

	return reg
}

// tsFile renders a minimal TS catalogue with one context.
func tsFile(language, contextName string, pairs ...string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "<?xml version=\"1.0\" encoding=\"utf-8\"?>\n<TS version=\"2.1\" language=\"%s\">\n<context>\n<name>%s</name>\n", language, contextName)

	for i := 0; i+1 < len(pairs); i += 2 {
		fmt.Fprintf(&b, "<message><source>%s</source><translation>%s</translation></message>\n", pairs[i], pairs[i+1])
	}

	b.WriteString("</context>\n</TS>\n")

	return b.String()
}
