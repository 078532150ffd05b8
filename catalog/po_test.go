// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/imeconf/l10n/catalog"
)

const samplePO = `msgid ""
msgstr ""
"Language: ja\n"
"Content-Type: text/plain; charset=UTF-8\n"
"Plural-Forms: nplurals=1; plural=0;\n"

#: dialog.cc:12
msgid "Hello"
msgstr "こんにちは"

msgctxt "Menu"
msgid "Open"
msgstr "開く"

msgid "%1 file"
msgid_plural "%1 files"
msgstr[0] "%1 個のファイル"

msgid "Later"
msgstr ""

msgid "%1 of %2"
msgstr "%1"
`

func TestDecodePO(t *testing.T) {
	t.Parallel()

	c, err := catalog.DecodePO(strings.NewReader(samplePO), "ja")
	require.NoError(t, err)

	assert.Equal(t, "ja", c.Locale())
	assert.Equal(t, 5, c.Len())

	hello, ok := c.Lookup(catalog.Key{Source: "Hello"})
	require.True(t, ok)
	assert.Equal(t, "こんにちは", hello.Text())
	assert.Equal(t, catalog.Finished, hello.State)
	assert.False(t, hello.Verbatim())

	open, ok := c.Lookup(catalog.Key{Context: "Menu", Source: "Open"})
	require.True(t, ok)
	assert.Equal(t, "開く", open.Text())

	_, ok = c.Lookup(catalog.Key{Source: "Open"})
	assert.False(t, ok)

	plural, ok := c.Lookup(catalog.Key{Source: "%1 file"})
	require.True(t, ok)
	assert.True(t, plural.Numerus())
	assert.Equal(t, []string{"%1 個のファイル"}, plural.Forms())

	later, ok := c.Lookup(catalog.Key{Source: "Later"})
	require.True(t, ok)
	assert.Equal(t, catalog.Untranslated, later.State)

	_, ok = c.Lookup(catalog.Key{Source: ""})
	assert.False(t, ok, "the header entry is not a message")

	warnings := c.Warnings()
	require.Len(t, warnings, 1)
	assert.Equal(t, catalog.WarnPlaceholderMismatch, warnings[0].Kind)
	assert.Equal(t, catalog.Key{Source: "%1 of %2"}, warnings[0].Key)
}

func TestDecodePOIsDeterministic(t *testing.T) {
	t.Parallel()

	a, err := catalog.DecodePO(strings.NewReader(samplePO), "ja")
	require.NoError(t, err)

	b, err := catalog.DecodePO(strings.NewReader(samplePO), "ja")
	require.NoError(t, err)

	assert.Equal(t, a.Records(), b.Records())
}
