// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/imeconf/l10n/catalog"
)

func cachedChains(reg *Registry) []string {
	var keys []string

	reg.chains.Range(func(k, _ any) bool {
		keys = append(keys, k.(string))

		return true
	})

	return keys
}

func TestChainCacheBounded(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(WithDefaultLocale("en"), WithLogger(zerolog.Nop()))
	require.NoError(t, reg.Register("ja", catalog.NewBuilder("ja").Build()))

	for i := range 200 {
		assert.Equal(t, []string{"en"}, reg.LocaleChain(fmt.Sprintf("not a locale %d", i)))
	}

	assert.Empty(t, cachedChains(reg))

	for _, raw := range []string{"ja-JP", "ja_jp", "JA-jp", "ja_JP"} {
		assert.Equal(t, []string{"ja_JP", "ja", "en"}, reg.LocaleChain(raw))
	}

	assert.Equal(t, []string{"de_AT", "de", "en"}, reg.LocaleChain("de-AT"))
	assert.Equal(t, []string{"en"}, reg.LocaleChain("en"))

	assert.ElementsMatch(t, []string{"ja_JP", "en"}, cachedChains(reg))
}
