// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Command i18n_extract scans Go packages for message lookups on
// i18n.Resolver and writes them to a Qt TS catalogue template.
//
// When the output file exists, its translations are kept and messages
// that are no longer used are marked obsolete, as lupdate does.
package main

import (
	"errors"
	"flag"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/tools/go/packages"

	"codeberg.org/imeconf/l10n/catalog"
	"codeberg.org/imeconf/l10n/core/audit"
	"codeberg.org/imeconf/l10n/i18n"
)

func main() {
	audit.SetDefaultLogger()

	outPath := flag.String("o", "assets/ts/template.ts", "output file")
	locale := flag.String("locale", "", "target language written to the catalogue header")
	sourceLocale := flag.String("source-locale", i18n.BaseLocale, "language of the source texts")
	flag.Parse()

	patterns := flag.Args()
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}

	wd, err := os.Getwd()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get working directory")
	}

	pkgs, err := packages.Load(&packages.Config{Mode: packages.LoadAllSyntax, Tests: false}, patterns...)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load packages")
	}

	if packages.PrintErrors(pkgs) > 0 {
		log.Fatal().Msg("Failed to load packages due to errors")
	}

	e := newExtractor(findProjectRoot(wd), findI18nPkgPaths(pkgs))
	e.extractPackages(pkgs)

	existing, err := catalog.Open(*outPath, *locale)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Fatal().Err(err).Str("path", *outPath).Msg("Failed to read existing catalogue")
		}

		existing = nil
	}

	c := e.catalog(*locale, *sourceLocale, existing)

	if err := writeCatalog(*outPath, c); err != nil {
		log.Fatal().Err(err).Str("path", *outPath).Msg("Failed to write catalogue")
	}

	log.Info().
		Str("path", *outPath).
		Int("messages", len(e.msgs)).
		Int("obsolete", c.Stats()[catalog.Obsolete]).
		Msg("Wrote catalogue template")
}

func writeCatalog(path string, c *catalog.Catalog) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path) // #nosec G304 -- path comes from the command line
	if err != nil {
		return err
	}

	if err := catalog.Encode(f, c); err != nil {
		_ = f.Close()

		return err
	}

	return f.Close()
}

// findProjectRoot attempts to find a stable root directory for source references.
// Preference order:
//  1. git toplevel directory
//  2. nearest parent directory that contains go.mod
//  3. the provided working directory
func findProjectRoot(wd string) string {
	if root := gitTopLevel(wd); root != "" {
		return root
	}

	if root := nearestGoModDir(wd); root != "" {
		return root
	}

	return wd
}

func gitTopLevel(wd string) string {
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")

	cmd.Dir = wd

	out, err := cmd.Output()
	if err != nil {
		return ""
	}

	root := strings.TrimSpace(string(out))
	if root == "" {
		return ""
	}

	return filepath.Clean(root)
}

func nearestGoModDir(start string) string {
	dir := filepath.Clean(start)
	for {
		if fileExists(filepath.Join(dir, "go.mod")) {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}

		dir = parent
	}

	return ""
}

func fileExists(path string) bool {
	if fi, err := os.Stat(path); err == nil && !fi.IsDir() {
		return true
	}

	return false
}
