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
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"codeberg.org/imeconf/l10n/catalog"
)

// settleDelay gives editors that write a file in several steps time to
// finish before it is read.
const settleDelay = 50 * time.Millisecond

// Watcher reloads the catalogues of a directory into a [Registry] when
// their files change.
//
// Events are collected per locale and applied together, at most once per
// minimum interval. A reload that fails keeps the previous catalogue.
type Watcher struct {
	reg     *Registry
	dir     string
	fsys    fs.FS
	watcher *fsnotify.Watcher
	limiter *rate.Limiter

	// OnReload, if set, is called after every reload attempt from the
	// goroutine running [Watcher.Run]. It must be set before Run.
	OnReload func(locale string, c *catalog.Catalog, err error)
}

// NewWatcher starts watching dir. Changes are only applied while
// [Watcher.Run] is running. minInterval bounds how often reloads happen;
// zero disables the limit.
func NewWatcher(reg *Registry, dir string, minInterval time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	if err := fw.Add(dir); err != nil {
		_ = fw.Close()

		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	limit := rate.Inf
	if minInterval > 0 {
		limit = rate.Every(minInterval)
	}

	return &Watcher{
		reg:     reg,
		dir:     dir,
		fsys:    os.DirFS(dir),
		watcher: fw,
		limiter: rate.NewLimiter(limit, 1),
	}, nil
}

// Run applies changes until ctx is done or the watcher fails, and then
// releases the watcher. It returns nil when ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	var (
		pending = make(map[string]struct{})
		timer   *time.Timer
		fire    <-chan time.Time
	)

	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}

			locale, ok := w.localeOf(event)
			if !ok {
				continue
			}

			pending[locale] = struct{}{}

			if fire == nil {
				delay := max(w.limiter.Reserve().Delay(), settleDelay)
				timer = time.NewTimer(delay)
				fire = timer.C
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}

			if errors.Is(err, fsnotify.ErrEventOverflow) {
				// Events were lost; reload everything.
				for _, locale := range w.reg.Locales() {
					pending[locale] = struct{}{}
				}

				continue
			}

			return fmt.Errorf("file watcher failed: %w", err)

		case <-fire:
			fire = nil

			w.reload(ctx, slices.Sorted(maps.Keys(pending)))
			clear(pending)
		}
	}
}

func (w *Watcher) localeOf(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
		return "", false
	}

	return LocaleFromFilename(filepath.Base(event.Name))
}

func (w *Watcher) reload(ctx context.Context, locales []string) {
	files, err := CatalogFiles(w.fsys, ".")
	if err != nil {
		w.reg.logger.Error().Err(err).Str("dir", w.dir).Msg("Failed to list catalogues")

		return
	}

	for _, locale := range locales {
		names := files[locale]
		if len(names) == 0 {
			// Keep serving the last good catalogue of a removed locale.
			w.reg.logger.Warn().Str("locale", locale).Msg("No catalogue files left, keeping loaded catalogue")

			continue
		}

		c, err := w.reg.ReloadFiles(ctx, w.fsys, locale, names...)
		if w.OnReload != nil {
			w.OnReload(locale, c, err)
		}
	}
}
