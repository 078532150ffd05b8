// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path"
	"slices"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"codeberg.org/imeconf/l10n/assets"
	"codeberg.org/imeconf/l10n/catalog"
	config "codeberg.org/imeconf/l10n/configs"
)

// LoadResult reports the outcome of loading the catalogue of one locale.
type LoadResult struct {
	Locale  string
	Files   []string
	Catalog *catalog.Catalog // nil when Err is set
	Err     error
}

// LoadResults is the outcome of [Registry.LoadFS], sorted by locale.
type LoadResults []LoadResult

// Err joins the errors of all failed locales, or returns nil.
func (rs LoadResults) Err() error {
	var errs []error

	for _, r := range rs {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}

	return errors.Join(errs...)
}

// CatalogFiles lists the catalogue files directly inside dir of fsys,
// grouped by the locale derived from their names and sorted by name.
// Files without a recognised extension or locale suffix are skipped.
func CatalogFiles(fsys fs.FS, dir string) (map[string][]string, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog directory %s: %w", dir, err)
	}

	files := make(map[string][]string)

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		locale, ok := LocaleFromFilename(entry.Name())
		if !ok {
			continue
		}

		// ReadDir returns entries sorted by name.
		files[locale] = append(files[locale], path.Join(dir, entry.Name()))
	}

	return files, nil
}

// LoadFS loads every catalogue in dir of fsys, one locale at a time in
// parallel, and registers each locale that loads successfully. Files of
// the same locale are merged in name order. A locale that fails to load
// keeps its previous catalogue and does not affect the others; see
// [LoadResults.Err]. The returned error is only set when dir cannot be read.
func (reg *Registry) LoadFS(ctx context.Context, fsys fs.FS, dir string) (LoadResults, error) {
	files, err := CatalogFiles(fsys, dir)
	if err != nil {
		return nil, err
	}

	locales := slices.Sorted(maps.Keys(files))
	results := make(LoadResults, len(locales))

	var g errgroup.Group

	g.SetLimit(reg.loadConcurrency)

	for i, locale := range locales {
		g.Go(func() error {
			results[i] = LoadResult{Locale: locale, Files: files[locale]}

			if err := ctx.Err(); err != nil {
				results[i].Err = err

				return nil
			}

			results[i].Catalog, results[i].Err = reg.ReloadFiles(ctx, fsys, locale, files[locale]...)

			return nil
		})
	}

	_ = g.Wait()

	return results, nil
}

// Setup builds a [Registry] and [Resolver] from cfg. It loads the
// embedded catalogues when enabled, then those in cfg.Catalog.Dir, which
// replace embedded catalogues of the same locale.
//
// Locales that fail to load are logged and skipped. Setup returns an error
// only when a catalogue directory cannot be read or watched, or the active
// locale is invalid.
//
// With cfg.Watch.Enabled, changes to cfg.Catalog.Dir are applied until ctx
// is done.
func Setup(ctx context.Context, cfg *config.Config) (*Registry, *Resolver, error) {
	logger := log.With().Str("sys", "i18n").Logger()

	reg := NewRegistry(
		WithDefaultLocale(cfg.Catalog.SourceLocale),
		WithLogger(logger),
		WithLoadConcurrency(cfg.Catalog.LoadConcurrency),
	)

	type source struct {
		name string
		fsys fs.FS
		dir  string
	}

	var sources []source

	if cfg.Catalog.Embedded {
		sources = append(sources, source{name: "embedded", fsys: assets.FS, dir: assets.CatalogDir})
	}

	if cfg.Catalog.Dir != "" {
		sources = append(sources, source{name: cfg.Catalog.Dir, fsys: os.DirFS(cfg.Catalog.Dir), dir: "."})
	}

	for _, src := range sources {
		results, err := reg.LoadFS(ctx, src.fsys, src.dir)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load catalogues from %s: %w", src.name, err)
		}

		if err := results.Err(); err != nil {
			logger.Error().Err(err).Str("source", src.name).Msg("Some catalogues failed to load")
		}

		logger.Info().
			Str("source", src.name).
			Int("locales", len(results)).
			Msg("Loaded catalogues")
	}

	if cfg.Catalog.ActiveLocale != "" {
		if err := reg.SetActiveLocale(cfg.Catalog.ActiveLocale); err != nil {
			return nil, nil, fmt.Errorf("failed to set active locale: %w", err)
		}
	}

	if cfg.Watch.Enabled && cfg.Catalog.Dir != "" {
		w, err := NewWatcher(reg, cfg.Catalog.Dir, cfg.Watch.MinInterval)
		if err != nil {
			return nil, nil, err
		}

		go func() {
			if err := w.Run(ctx); err != nil {
				logger.Error().Err(err).Str("dir", cfg.Catalog.Dir).Msg("Catalogue watcher stopped")
			}
		}()

		logger.Info().
			Str("dir", cfg.Catalog.Dir).
			Dur("minInterval", cfg.Watch.MinInterval).
			Msg("Watching catalogues")
	}

	var opts []ResolverOption

	if cfg.Catalog.AllowDraft {
		opts = append(opts, AllowDraft())
	}

	if cfg.Development.StrictMissingKeys {
		opts = append(opts, StrictMissingKeys())
	}

	return reg, NewResolver(reg, opts...), nil
}
