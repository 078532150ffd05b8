// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/imeconf/l10n/catalog"
)

func TestPlaceholders(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want []int
	}{
		{in: "no markers", want: nil},
		{in: "%1 of %2", want: []int{1, 2}},
		{in: "%2 then %1 and %2 again", want: []int{1, 2}},
		{in: "100% sure", want: nil},
		{in: "%0 and %n are not markers", want: nil},
		{in: "%%1", want: []int{1}},
		{in: "trailing %", want: nil},
		{in: "%10", want: []int{1}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, catalog.Placeholders(tt.in), tt.in)
	}
}

func TestCheckPlaceholders(t *testing.T) {
	t.Parallel()

	assert.Nil(t, catalog.CheckPlaceholders("%1 of %2", "%2 中 %1"))
	assert.Nil(t, catalog.CheckPlaceholders("Close", "閉じる"))

	m := catalog.CheckPlaceholders("%1 of %2", "%1 と %3")
	require.NotNil(t, m)
	assert.Equal(t, []int{2}, m.Missing)
	assert.Equal(t, []int{3}, m.Extra)
	assert.Equal(t, "placeholder mismatch: missing %2, unexpected %3", m.Error())
}

func TestPlaceholderWarningsSkipUntranslated(t *testing.T) {
	t.Parallel()

	const src = `<TS version="2.1" language="ja">
<context>
    <name>Dialog</name>
    <message>
        <source>%1 items</source>
        <translation type="unfinished"></translation>
    </message>
    <message numerus="yes">
        <source>%n file(s) in %1</source>
        <translation>
            <numerusform>%1 内のファイル</numerusform>
            <numerusform>%1</numerusform>
        </translation>
    </message>
</context>
</TS>`

	c, err := decodeString(src, "ja")
	require.NoError(t, err)

	warnings := c.Warnings()
	assert.Empty(t, warnings)
}
