// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package assets holds the catalogues shipped with the binary.
package assets

import "embed"

// CatalogDir is the directory of FS that holds the catalogues.
const CatalogDir = "ts"

// FS holds the embedded catalogues under [CatalogDir].
//
//go:embed ts/*.ts
var FS embed.FS
