// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog/log"

	"codeberg.org/imeconf/l10n/assets"
	"codeberg.org/imeconf/l10n/catalog"
	"codeberg.org/imeconf/l10n/i18n"
)

// autoLocale selects the locale from the environment in resolve.
const autoLocale = "auto"

// envLocales returns the POSIX locale variables in order of precedence.
func envLocales() []string {
	return []string{os.Getenv("LC_ALL"), os.Getenv("LC_MESSAGES"), os.Getenv("LANG")}
}

func cmdResolve(ctx context.Context, a *app, args []string) error {
	flags := subFlags(a, "resolve")
	locale := flags.String("locale", "", `locale to resolve in, or "auto" for $LC_ALL, $LC_MESSAGES and $LANG (default: catalog.activeLocale)`)
	contextName := flags.String("context", "", "context of the message")
	disambiguation := flags.String("disambiguation", "", "disambiguating comment of the message")
	count := flags.Int("n", 0, "count selecting the plural form")

	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), "Usage: l10n resolve [flags] <source> [arguments for %%1..%%9]\n")
		flags.PrintDefaults()
	}

	if err := parseFlags(flags, args); err != nil {
		return err
	}

	if flags.NArg() == 0 {
		flags.Usage()

		return fmt.Errorf("%w: no source text given", errUsage)
	}

	if err := a.setup(ctx); err != nil {
		return err
	}

	opts := []i18n.Option{
		i18n.Disambiguation(*disambiguation),
		i18n.Args(flags.Args()[1:]...),
	}

	flags.Visit(func(f *flag.Flag) {
		if f.Name == "n" {
			opts = append(opts, i18n.Count(*count))
		}
	})

	source := flags.Arg(0)

	var text string

	switch *locale {
	case "":
		text = a.resolver.Resolve(*contextName, source, opts...)
	case autoLocale:
		text = a.resolver.ResolveLocale(a.reg.Match(envLocales()...), *contextName, source, opts...)
	default:
		text = a.resolver.ResolveLocale(*locale, *contextName, source, opts...)
	}

	_, err := fmt.Fprintln(a.out, text)

	return err
}

func cmdLocales(ctx context.Context, a *app, args []string) error {
	if err := parseFlags(subFlags(a, "locales"), args); err != nil {
		return err
	}

	if err := a.setup(ctx); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "LOCALE\tRECORDS\tFINISHED\tDRAFT\tUNTRANSLATED\tOBSOLETE\tWARNINGS")

	active := a.reg.ActiveLocale()

	for _, id := range a.reg.Locales() {
		c := a.reg.Catalog(id)
		stats := c.Stats()

		name := id
		if id == active {
			name += " *"
		}

		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\t%d\n",
			name, c.Len(),
			stats[catalog.Finished], stats[catalog.Draft], stats[catalog.Untranslated], stats[catalog.Obsolete],
			len(c.Warnings()))
	}

	return tw.Flush()
}

// lintTarget is a catalogue file checked by lint.
type lintTarget struct {
	fsys fs.FS
	name string
	// display is the name used in the report.
	display string
}

func cmdLint(_ context.Context, a *app, args []string) error {
	flags := subFlags(a, "lint")
	strict := flags.Bool("strict", false, "fail on warnings as well as errors")

	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), "Usage: l10n lint [flags] [files]\n\nWithout files, the configured catalogues are checked.\n")
		flags.PrintDefaults()
	}

	if err := parseFlags(flags, args); err != nil {
		return err
	}

	targets, err := lintTargets(a, flags.Args())
	if err != nil {
		return err
	}

	var failed, warned int

	for _, t := range targets {
		locale, _ := i18n.LocaleFromFilename(t.name)

		c, err := catalog.OpenFS(t.fsys, t.name, locale)
		if err != nil {
			failed++

			fmt.Fprintf(a.out, "%s: %v\n", t.display, err)

			continue
		}

		for _, w := range c.Warnings() {
			warned++

			fmt.Fprintf(a.out, "%s: %s\n", t.display, w)
		}

		if len(c.Warnings()) == 0 {
			fmt.Fprintf(a.out, "%s: %d records, ok\n", t.display, c.Len())
		}

		log.Debug().
			Str("file", t.display).
			Int("records", c.Len()).
			Int("warnings", len(c.Warnings())).
			Msg("Checked catalogue")
	}

	fmt.Fprintf(a.out, "%d files, %d errors, %d warnings\n", len(targets), failed, warned)

	if failed > 0 || (*strict && warned > 0) {
		return errLintFailed
	}

	return nil
}

func lintTargets(a *app, files []string) ([]lintTarget, error) {
	var targets []lintTarget

	if len(files) > 0 {
		for _, f := range files {
			targets = append(targets, lintTarget{fsys: os.DirFS(filepath.Dir(f)), name: filepath.Base(f), display: f})
		}

		return targets, nil
	}

	type source struct {
		fsys fs.FS
		dir  string
		root string
	}

	var sources []source

	if a.cfg.Catalog.Embedded {
		sources = append(sources, source{fsys: assets.FS, dir: assets.CatalogDir, root: "embedded:"})
	}

	if a.cfg.Catalog.Dir != "" {
		sources = append(sources, source{fsys: os.DirFS(a.cfg.Catalog.Dir), dir: ".", root: a.cfg.Catalog.Dir + "/"})
	}

	for _, src := range sources {
		byLocale, err := i18n.CatalogFiles(src.fsys, src.dir)
		if err != nil {
			return nil, err
		}

		for _, names := range byLocale {
			for _, name := range names {
				targets = append(targets, lintTarget{fsys: src.fsys, name: name, display: src.root + name})
			}
		}
	}

	slices.SortFunc(targets, func(a, b lintTarget) int {
		return strings.Compare(a.display, b.display)
	})

	return targets, nil
}

func cmdDump(ctx context.Context, a *app, args []string) error {
	flags := subFlags(a, "dump")
	locale := flags.String("locale", "", "locale to dump (default: catalog.activeLocale)")

	if err := parseFlags(flags, args); err != nil {
		return err
	}

	if err := a.setup(ctx); err != nil {
		return err
	}

	id := *locale
	if id == "" {
		id = a.reg.ActiveLocale()
	}

	c := a.reg.Catalog(id)
	if c == nil {
		return fmt.Errorf("no catalogue loaded for %q", id)
	}

	return catalog.Encode(a.out, c)
}

func cmdConvert(_ context.Context, a *app, args []string) error {
	flags := subFlags(a, "convert")
	locale := flags.String("locale", "", "locale of the input (default: derived from the file name)")

	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), "Usage: l10n convert [flags] <input> <output>\n\n"+
			"Inputs are .ts or .po files, optionally zstd-compressed (.zst).\n"+
			"The output is written as TS, compressed if it ends in .zst; \"-\" writes to stdout.\n")
		flags.PrintDefaults()
	}

	if err := parseFlags(flags, args); err != nil {
		return err
	}

	if flags.NArg() != 2 {
		flags.Usage()

		return fmt.Errorf("%w: want an input and an output file", errUsage)
	}

	in, out := flags.Arg(0), flags.Arg(1)

	id := *locale
	if id == "" {
		id, _ = i18n.LocaleFromFilename(in)
	}

	c, err := catalog.Open(in, id)
	if err != nil {
		return err
	}

	for _, w := range c.Warnings() {
		log.Warn().Str("file", in).Str("warning", w.String()).Msg("Catalog warning")
	}

	if out == "-" {
		return catalog.Encode(a.out, c)
	}

	return writeCatalog(out, c)
}

// writeCatalog writes c to name as TS, zstd-compressed when name ends in
// ".zst".
func writeCatalog(name string, c *catalog.Catalog) (err error) {
	f, err := os.Create(name) // #nosec G304 -- output path comes from the command line
	if err != nil {
		return err
	}

	defer func() {
		err = errors.Join(err, f.Close())
	}()

	var w io.Writer = f

	if _, compressed := catalog.Format(name); compressed {
		enc, encErr := zstd.NewWriter(f)
		if encErr != nil {
			return encErr
		}

		defer func() {
			err = errors.Join(err, enc.Close())
		}()

		w = enc
	}

	return catalog.Encode(w, c)
}

func cmdWatch(ctx context.Context, a *app, args []string) error {
	if err := parseFlags(subFlags(a, "watch"), args); err != nil {
		return err
	}

	if a.cfg.Catalog.Dir == "" {
		return fmt.Errorf("%w: catalog.dir is not set", errUsage)
	}

	a.cfg.Watch.Enabled = true

	if err := a.setup(ctx); err != nil {
		return err
	}

	<-ctx.Done()

	log.Info().Msg("Stopped watching catalogues")

	return nil
}

func cmdVersion(_ context.Context, a *app, args []string) error {
	if err := parseFlags(subFlags(a, "version"), args); err != nil {
		return err
	}

	_, err := fmt.Fprintf(a.out, "l10n %s\n", a.cfg.Build.Version())

	return err
}
