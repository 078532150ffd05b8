// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"context"
	"maps"
	"sync"

	"github.com/rs/zerolog"

	"codeberg.org/imeconf/l10n/catalog"
)

// Resolver turns (context, source) pairs into display strings using the
// catalogues of a [Registry].
//
// Resolving never fails and never blocks: when no acceptable translation
// exists along the fallback chain the source text itself is used.
type Resolver struct {
	reg        *Registry
	allowDraft bool
	strict     bool
	rules      PluralRules
	logger     zerolog.Logger

	// missing deduplicates strict mode logs. The key is locale+"\x00"+key.
	missing sync.Map
}

// ResolverOption configures a [Resolver].
type ResolverOption func(*Resolver)

// AllowDraft makes the resolver accept unfinished translations in
// addition to finished ones.
func AllowDraft() ResolverOption {
	return func(r *Resolver) {
		r.allowDraft = true
	}
}

// StrictMissingKeys logs each missing translation once per locale and key.
func StrictMissingKeys() ResolverOption {
	return func(r *Resolver) {
		r.strict = true
	}
}

// WithPluralRules adds rules on top of [DefaultPluralRules]. A nil rule
// removes the default for its locale.
func WithPluralRules(rules PluralRules) ResolverOption {
	return func(r *Resolver) {
		maps.Copy(r.rules, rules)
	}
}

// NewResolver returns a Resolver reading from reg.
func NewResolver(reg *Registry, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		reg:    reg,
		rules:  DefaultPluralRules(),
		logger: reg.logger,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Registry returns the registry r reads from.
func (r *Resolver) Registry() *Registry {
	return r.reg
}

// Option qualifies a single lookup.
type Option func(*request)

type request struct {
	disambiguation string
	args           []string
	count          int
	hasCount       bool
}

// Disambiguation selects among records that share a context and source
// text, matching the catalogue's <comment>.
func Disambiguation(s string) Option {
	return func(q *request) {
		q.disambiguation = s
	}
}

// Args sets the values substituted for "%1" through "%9".
func Args(args ...string) Option {
	return func(q *request) {
		q.args = args
	}
}

// Count selects the numerus form of plural records. Without it, plural
// records use their first form.
func Count(n int) Option {
	return func(q *request) {
		q.count, q.hasCount = n, true
	}
}

func newRequest(opts []Option) request {
	var q request
	for _, opt := range opts {
		opt(&q)
	}

	return q
}

// Resolve returns the display string for source in contextName under the
// active locale.
func (r *Resolver) Resolve(contextName, source string, opts ...Option) string {
	s := r.reg.current()

	return r.resolve(s, s.activeOr(r.reg.defaultLocale), contextName, source, newRequest(opts))
}

// ResolveLocale is like [Resolver.Resolve] but resolves under locale.
func (r *Resolver) ResolveLocale(locale, contextName, source string, opts ...Option) string {
	return r.resolve(r.reg.current(), locale, contextName, source, newRequest(opts))
}

// ResolveContext is like [Resolver.Resolve] but prefers the locale stored
// in ctx by [WithLocale]. The ctx may be nil.
func (r *Resolver) ResolveContext(ctx context.Context, contextName, source string, opts ...Option) string {
	s := r.reg.current()

	locale, ok := LocaleFrom(ctx)
	if !ok {
		locale = s.activeOr(r.reg.defaultLocale)
	}

	return r.resolve(s, locale, contextName, source, newRequest(opts))
}

// Tr resolves source in contextName under the active locale and
// substitutes args.
func (r *Resolver) Tr(contextName, source string, args ...string) string {
	return r.Resolve(contextName, source, Args(args...))
}

// TrN is like [Resolver.Tr] for plural records, selecting the form for n.
func (r *Resolver) TrN(contextName, source string, n int, args ...string) string {
	return r.Resolve(contextName, source, Count(n), Args(args...))
}

// resolve walks the fallback chain of locale within one snapshot.
func (r *Resolver) resolve(s *snapshot, locale, contextName, source string, q request) string {
	key := catalog.Key{Context: contextName, Source: source, Disambiguation: q.disambiguation}
	text := source
	found := false

	for _, id := range r.reg.chain(locale) {
		e, ok := s.entries[id]
		if !ok {
			continue
		}

		rec, ok := e.Catalog.Lookup(key)
		if !ok || !r.accepts(rec) {
			continue
		}

		if form := r.form(rec, id, q); form != "" {
			text, found = form, true

			break
		}
	}

	if !found {
		r.logMissingOnce(locale, key)
	}

	out, missing := substitute(text, q.args)
	if len(missing) > 0 {
		r.logMissingArgs(locale, key, missing)
	}

	return out
}

func (r *Resolver) accepts(rec catalog.Record) bool {
	switch rec.State {
	case catalog.Finished:
		return true
	case catalog.Draft:
		return r.allowDraft
	default:
		return false
	}
}

// form picks the text of rec for the request. locale is the catalogue the
// record was found in, which decides the plural rule.
func (r *Resolver) form(rec catalog.Record, locale string, q request) string {
	if !rec.Numerus() || !q.hasCount {
		return rec.Text()
	}

	return rec.Form(r.rules.rule(r.reg.chain(locale))(q.count, locale))
}
