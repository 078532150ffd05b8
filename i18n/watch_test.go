// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/imeconf/l10n/catalog"
	"codeberg.org/imeconf/l10n/i18n"
)

type reloadEvent struct {
	locale string
	err    error
}

// writeAtomic replaces name in dir the way editors and deploy tools do.
func writeAtomic(t *testing.T, dir, name, content string) {
	t.Helper()

	tmp := filepath.Join(dir, name+".tmp")
	require.NoError(t, os.WriteFile(tmp, []byte(content), 0o600))
	require.NoError(t, os.Rename(tmp, filepath.Join(dir, name)))
}

func waitReload(t *testing.T, events <-chan reloadEvent, locale string, wantErr bool) reloadEvent {
	t.Helper()

	timeout := time.After(5 * time.Second)

	for {
		select {
		case ev := <-events:
			if ev.locale == locale && (ev.err != nil) == wantErr {
				return ev
			}
		case <-timeout:
			t.Fatalf("no reload of %s with error=%v", locale, wantErr)
		}
	}
}

func TestWatcher(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeAtomic(t, dir, "app_ja.ts", tsFile("ja", "X", "Hello", "v1"))

	reg := newRegistry(t, nil)

	results, err := reg.LoadFS(context.Background(), os.DirFS(dir), ".")
	require.NoError(t, err)
	require.NoError(t, results.Err())

	r := i18n.NewResolver(reg)
	require.Equal(t, "v1", r.ResolveLocale("ja", "X", "Hello"))

	w, err := i18n.NewWatcher(reg, dir, 0)
	require.NoError(t, err)

	events := make(chan reloadEvent, 16)
	w.OnReload = func(locale string, _ *catalog.Catalog, err error) {
		events <- reloadEvent{locale: locale, err: err}
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() { done <- w.Run(ctx) }()

	writeAtomic(t, dir, "app_ja.ts", tsFile("ja", "X", "Hello", "v2"))

	ev := waitReload(t, events, "ja", false)
	assert.Equal(t, "ja", ev.locale)
	assert.Equal(t, "v2", r.ResolveLocale("ja", "X", "Hello"))

	// A broken file keeps the last good catalogue.
	writeAtomic(t, dir, "app_ja.ts", "<TS><context>")

	ev = waitReload(t, events, "ja", true)
	require.ErrorIs(t, ev.err, catalog.ErrMalformed)
	assert.Equal(t, "v2", r.ResolveLocale("ja", "X", "Hello"))

	// New locales are picked up too.
	writeAtomic(t, dir, "app_de.ts", tsFile("de", "X", "Hello", "Hallo"))

	ev = waitReload(t, events, "de", false)
	assert.Equal(t, "de", ev.locale)
	assert.Equal(t, "Hallo", r.ResolveLocale("de", "X", "Hello"))

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestNewWatcherMissingDir(t *testing.T) {
	t.Parallel()

	_, err := i18n.NewWatcher(newRegistry(t, nil), filepath.Join(t.TempDir(), "missing"), time.Second)
	require.Error(t, err)
}
