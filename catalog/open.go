// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Supported file extensions.
const (
	ExtTS   = ".ts"
	ExtPO   = ".po"
	ExtZstd = ".zst"
)

// Format returns the catalogue extension of name (".ts" or ".po") after
// removing a trailing ".zst", and whether the file is compressed. It
// returns "" for unsupported files.
func Format(name string) (ext string, compressed bool) {
	base := path.Base(strings.ReplaceAll(name, `\`, "/"))

	if trimmed, ok := strings.CutSuffix(base, ExtZstd); ok {
		base, compressed = trimmed, true
	}

	switch ext := strings.ToLower(path.Ext(base)); ext {
	case ExtTS, ExtPO:
		return ext, compressed
	default:
		return "", compressed
	}
}

// Open reads the catalogue file at name from the local file system.
// See [DecodeNamed] for how the format is chosen.
func Open(name, locale string) (*Catalog, error) {
	f, err := os.Open(name) // #nosec G304 -- catalogue paths come from configuration
	if err != nil {
		return nil, &LoadError{Locale: locale, Path: name, Kind: ErrKindUnreadable, Err: err}
	}
	defer f.Close()

	return DecodeNamed(f, name, locale)
}

// OpenFS reads the catalogue file at name from fsys.
// See [DecodeNamed] for how the format is chosen.
func OpenFS(fsys fs.FS, name, locale string) (*Catalog, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, &LoadError{Locale: locale, Path: name, Kind: ErrKindUnreadable, Err: err}
	}
	defer f.Close()

	return DecodeNamed(f, name, locale)
}

// DecodeNamed decodes r using the format implied by name: ".ts" files are
// read with [Decode] and ".po" files with [DecodePO]. A trailing ".zst"
// marks zstd-compressed content.
func DecodeNamed(r io.Reader, name, locale string) (*Catalog, error) {
	ext, compressed := Format(name)
	if ext == "" {
		return nil, &LoadError{
			Locale: locale,
			Path:   name,
			Kind:   ErrKindUnsupported,
			Err:    fmt.Errorf("unknown extension %q", path.Ext(name)),
		}
	}

	if compressed {
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, &LoadError{Locale: locale, Path: name, Kind: ErrKindUnreadable, Err: err}
		}
		defer dec.Close()

		r = dec
	}

	var (
		c   *Catalog
		err error
	)

	switch ext {
	case ExtPO:
		c, err = DecodePO(r, locale)
	default:
		c, err = Decode(r, locale)
	}

	if err != nil {
		return nil, withSource(err, locale, name)
	}

	return c, nil
}
