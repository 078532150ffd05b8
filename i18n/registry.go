// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"codeberg.org/imeconf/l10n/catalog"
	"codeberg.org/imeconf/l10n/core/audit"
)

const defaultLoadConcurrency = 4

var errNilCatalog = errors.New("i18n: nil catalog")

// Entry is the catalogue registered for one locale.
type Entry struct {
	Locale   string
	Catalog  *catalog.Catalog
	LoadedAt time.Time
}

// snapshot is an immutable view of the registry. Writers replace it as a
// whole; readers never see a partially updated one.
type snapshot struct {
	entries map[string]Entry
	active  string
}

// Registry holds one catalogue per locale, the active locale and the
// default locale that ends every fallback chain.
//
// Reads are lock free. Writes are serialised and publish a new snapshot,
// so a lookup racing with a reload sees either the old or the new
// catalogue, never a mixture.
type Registry struct {
	mu   sync.Mutex
	snap atomic.Pointer[snapshot]

	defaultLocale   string
	loadConcurrency int
	logger          zerolog.Logger
	now             func() time.Time

	// chains caches LocaleChain results per normalised identifier.
	chains sync.Map
}

// RegistryOption configures a [Registry].
type RegistryOption func(*Registry)

// WithDefaultLocale sets the locale that ends every fallback chain,
// normally the language of the source texts. Invalid identifiers are
// ignored and [BaseLocale] is kept.
func WithDefaultLocale(id string) RegistryOption {
	return func(reg *Registry) {
		locale, err := NormalizeLocale(id)
		if err != nil {
			reg.logger.Warn().Err(err).Msg("Ignoring invalid default locale")

			return
		}

		reg.defaultLocale = locale
	}
}

// WithLogger sets the logger used for load reports and warnings.
func WithLogger(logger zerolog.Logger) RegistryOption {
	return func(reg *Registry) {
		reg.logger = logger
	}
}

// WithLoadConcurrency bounds the number of catalogues decoded in parallel
// by [Registry.LoadFS].
func WithLoadConcurrency(n int) RegistryOption {
	return func(reg *Registry) {
		if n > 0 {
			reg.loadConcurrency = n
		}
	}
}

// NewRegistry returns an empty Registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	reg := &Registry{
		defaultLocale:   BaseLocale,
		loadConcurrency: defaultLoadConcurrency,
		logger:          log.With().Str("sys", "i18n").Logger(),
		now:             time.Now,
	}

	for _, opt := range opts {
		opt(reg)
	}

	reg.snap.Store(&snapshot{entries: map[string]Entry{}})

	return reg
}

func (reg *Registry) current() *snapshot {
	return reg.snap.Load()
}

// update publishes the snapshot returned by fn. fn receives the current
// snapshot and must not modify it.
func (reg *Registry) update(fn func(old *snapshot) *snapshot) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	reg.snap.Store(fn(reg.snap.Load()))
}

// Register installs c as the catalogue of locale, replacing any previous
// one. c must be fully built; it is never modified afterwards.
func (reg *Registry) Register(locale string, c *catalog.Catalog) error {
	if c == nil {
		return errNilCatalog
	}

	id, err := NormalizeLocale(locale)
	if err != nil {
		return err
	}

	reg.update(func(old *snapshot) *snapshot {
		entries := maps.Clone(old.entries)
		entries[id] = Entry{Locale: id, Catalog: c, LoadedAt: reg.now()}

		return &snapshot{entries: entries, active: old.active}
	})

	return nil
}

// Unregister removes the catalogue of locale and reports whether one was
// registered.
func (reg *Registry) Unregister(locale string) bool {
	id, err := NormalizeLocale(locale)
	if err != nil {
		return false
	}

	var removed bool

	reg.update(func(old *snapshot) *snapshot {
		if _, removed = old.entries[id]; !removed {
			return old
		}

		entries := maps.Clone(old.entries)
		delete(entries, id)

		return &snapshot{entries: entries, active: old.active}
	})

	return removed
}

// Entry returns the registration of locale.
func (reg *Registry) Entry(locale string) (Entry, bool) {
	id, err := NormalizeLocale(locale)
	if err != nil {
		return Entry{}, false
	}

	e, ok := reg.current().entries[id]

	return e, ok
}

// Catalog returns the catalogue of locale, or nil.
func (reg *Registry) Catalog(locale string) *catalog.Catalog {
	e, _ := reg.Entry(locale)

	return e.Catalog
}

// Locales returns the registered locales in sorted order.
func (reg *Registry) Locales() []string {
	return slices.Sorted(maps.Keys(reg.current().entries))
}

// Lookup returns the record for the key in the catalogue of locale only,
// without walking the fallback chain.
func (reg *Registry) Lookup(locale, contextName, source, disambiguation string) (catalog.Record, bool) {
	return reg.Catalog(locale).Lookup(catalog.Key{
		Context:        contextName,
		Source:         source,
		Disambiguation: disambiguation,
	})
}

// SetActiveLocale selects the locale used by [Resolver.Resolve]. The
// locale does not need a registered catalogue. Strings resolved earlier
// are not affected.
func (reg *Registry) SetActiveLocale(locale string) error {
	id, err := NormalizeLocale(locale)
	if err != nil {
		return err
	}

	reg.update(func(old *snapshot) *snapshot {
		return &snapshot{entries: old.entries, active: id}
	})

	reg.logger.Debug().Str("locale", id).Msg("Active locale changed")

	return nil
}

// ActiveLocale returns the active locale, or the default locale if none
// was set.
func (reg *Registry) ActiveLocale() string {
	return reg.current().activeOr(reg.defaultLocale)
}

func (s *snapshot) activeOr(def string) string {
	if s.active == "" {
		return def
	}

	return s.active
}

// DefaultLocale returns the locale that ends every fallback chain.
func (reg *Registry) DefaultLocale() string {
	return reg.defaultLocale
}

// LocaleChain returns the locales searched when resolving for locale, most
// specific first: "ja_JP" yields ["ja_JP", "ja", "en"] with the default
// locale "en". An invalid identifier yields only the default locale.
//
// The returned slice is a copy and is safe to retain.
func (reg *Registry) LocaleChain(locale string) []string {
	return slices.Clone(reg.chain(locale))
}

func (reg *Registry) chain(locale string) []string {
	if c, ok := reg.chains.Load(locale); ok {
		return c.([]string)
	}

	id, err := NormalizeLocale(locale)
	if err != nil {
		return []string{reg.defaultLocale}
	}

	if c, ok := reg.chains.Load(id); ok {
		return c.([]string)
	}

	chain := localeChain(id, reg.defaultLocale)

	// Only chains reaching a registered catalogue are kept, so the cache
	// stays bounded by the registered locales.
	if reg.reachesCatalog(chain) {
		reg.chains.Store(id, chain)
	}

	return chain
}

func (reg *Registry) reachesCatalog(chain []string) bool {
	if len(chain) == 1 {
		return true
	}

	entries := reg.current().entries

	for _, l := range chain {
		if l == reg.defaultLocale {
			continue
		}

		if _, ok := entries[l]; ok {
			return true
		}
	}

	return false
}

// invalidLocale reports a reload for an identifier that is not a locale.
// The result matches both [ErrInvalidLocale] and [catalog.ErrInvalidLocale].
func invalidLocale(locale string, err error) error {
	return &catalog.LoadError{Locale: locale, Kind: catalog.ErrKindInvalidLocale, Err: err}
}

// ReloadLocale decodes a TS catalogue from r and, on success, installs it
// for locale. On failure the previous catalogue stays active and the
// returned error is a [*catalog.LoadError]. Warnings are logged and
// available from the returned catalogue.
func (reg *Registry) ReloadLocale(locale string, r io.Reader) (*catalog.Catalog, error) {
	id, err := NormalizeLocale(locale)
	if err != nil {
		return nil, invalidLocale(locale, err)
	}

	span := audit.LoadSpan{Locale: id, Files: []string{"<stream>"}}
	span.Begin(context.Background())

	cr := &countingReader{r: r}
	c, err := catalog.Decode(cr, id)

	span.End()
	span.Size = cr.n

	return reg.publish(id, c, err, &span)
}

// ReloadFiles decodes the named catalogue files of fsys, merges them in
// argument order and, on success, installs the result for locale. If any
// file fails the previous catalogue stays active and the returned error is
// a [*catalog.LoadError].
func (reg *Registry) ReloadFiles(ctx context.Context, fsys fs.FS, locale string, names ...string) (*catalog.Catalog, error) {
	id, err := NormalizeLocale(locale)
	if err != nil {
		return nil, invalidLocale(locale, err)
	}

	span := audit.LoadSpan{Locale: id, Files: names}
	span.Begin(ctx)

	cats := make([]*catalog.Catalog, 0, len(names))

	for _, name := range names {
		if info, statErr := fs.Stat(fsys, name); statErr == nil {
			span.Size += info.Size()
		}

		c, err := catalog.OpenFS(fsys, name, id)
		if err != nil {
			span.End()

			return reg.publish(id, nil, err, &span)
		}

		cats = append(cats, c)
	}

	span.End()

	var c *catalog.Catalog

	switch len(cats) {
	case 0:
		return reg.publish(id, nil, fmt.Errorf("i18n: no catalogue files for %s", id), &span)
	case 1:
		c = cats[0]
	default:
		c = catalog.Merge(id, cats...)
	}

	return reg.publish(id, c, nil, &span)
}

func (reg *Registry) publish(id string, c *catalog.Catalog, err error, span *audit.LoadSpan) (*catalog.Catalog, error) {
	if err != nil {
		span.Error = err
		span.Log(&reg.logger)

		return nil, err
	}

	if err := reg.Register(id, c); err != nil {
		return nil, err
	}

	warnings := c.Warnings()

	span.Records = c.Len()
	span.Warnings = len(warnings)
	span.Log(&reg.logger)

	for _, w := range warnings {
		reg.logger.Warn().
			Str("locale", id).
			Stringer("kind", w.Kind).
			Str("warning", w.String()).
			Msg("Catalog warning")
	}

	return c, nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	cr.n += int64(n)

	return n, err
}
