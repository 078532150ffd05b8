// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Translatable is a value that can translate itself using a context.
// Types such as [Msg] implement Translatable.
type Translatable interface {
	Tr(ctx context.Context) string
}

// Msg is a deferred lookup: the message is resolved each time it is
// rendered, so it follows locale changes and reloads.
//
// Msg implements [templ.Component], escaping the resolved text:
//
//	@resolver.Msg("ConfigDialog", "Mozc Settings")
type Msg struct {
	resolver    *Resolver
	contextName string
	source      string
	opts        []Option
}

// Msg returns a deferred lookup of source in contextName.
func (r *Resolver) Msg(contextName, source string, opts ...Option) Msg {
	return Msg{resolver: r, contextName: contextName, source: source, opts: opts}
}

// Tr resolves m using the locale in ctx, or the active locale.
// A Msg without a resolver yields its source text.
func (m Msg) Tr(ctx context.Context) string {
	if m.resolver == nil {
		return Substitute(m.source, newRequest(m.opts).args...)
	}

	return m.resolver.ResolveContext(ctx, m.contextName, m.source, m.opts...)
}

// String resolves m under the active locale.
func (m Msg) String() string {
	return m.Tr(context.Background())
}

// Render writes the resolved, HTML-escaped text to w.
func (m Msg) Render(ctx context.Context, w io.Writer) error {
	_, err := io.WriteString(w, templ.EscapeString(m.Tr(ctx)))

	return err
}
