// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
l10n loads Qt Linguist catalogues and resolves messages from them.

Usage:

	l10n [-config file] <command> [flags] [arguments]

Catalogues come from the embedded assets and from catalog.dir; see
deploy/config.yaml.example for the configuration.
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	config "codeberg.org/imeconf/l10n/configs"
	"codeberg.org/imeconf/l10n/core/audit"
	"codeberg.org/imeconf/l10n/i18n"
)

var (
	errUsage      = errors.New("invalid usage")
	errLintFailed = errors.New("catalogue check failed")
)

// command is a subcommand of the l10n tool.
type command struct {
	name    string
	summary string
	run     func(ctx context.Context, a *app, args []string) error
}

var commands = []command{
	{name: "resolve", summary: "print the display string of a message", run: cmdResolve},
	{name: "locales", summary: "list the loaded locales", run: cmdLocales},
	{name: "lint", summary: "check catalogue files and report warnings", run: cmdLint},
	{name: "dump", summary: "write the catalogue of a locale as a TS file", run: cmdDump},
	{name: "convert", summary: "convert a .ts or .po catalogue to TS", run: cmdConvert},
	{name: "watch", summary: "reload catalogues from catalog.dir until interrupted", run: cmdWatch},
	{name: "version", summary: "print the release and VCS revision", run: cmdVersion},
}

// app is the state shared by the subcommands.
type app struct {
	cfg *config.Config
	out io.Writer

	reg      *i18n.Registry
	resolver *i18n.Resolver
}

// setup loads the configured catalogues.
func (a *app) setup(ctx context.Context) error {
	reg, resolver, err := i18n.Setup(ctx, a.cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize i18n engine: %w", err)
	}

	a.reg, a.resolver = reg, resolver

	return nil
}

// main is the entry point of the application.
func main() {
	audit.SetDefaultLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	err := run(ctx, os.Args[1:], os.Stdout)

	stop()

	switch {
	case err == nil:
	case errors.Is(err, errUsage):
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	default:
		log.Fatal().Err(err).Msg("Command failed")
	}
}

// run parses the global flags, loads the configuration and runs the
// selected command, writing its results to out.
func run(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("l10n", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.Usage = func() { usage(fs) }

	configFilePath := config.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}

		return fmt.Errorf("%w: %w", errUsage, err)
	}

	if fs.NArg() == 0 {
		fs.Usage()

		return fmt.Errorf("%w: no command given", errUsage)
	}

	cmd, ok := lookupCommand(fs.Arg(0))
	if !ok {
		fs.Usage()

		return fmt.Errorf("%w: unknown command %q", errUsage, fs.Arg(0))
	}

	var cfg config.Config
	if err := cfg.LoadConfig(*configFilePath); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	config.Global = cfg

	err := cmd.run(ctx, &app{cfg: &config.Global, out: out}, fs.Args()[1:])
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}

	return err
}

func lookupCommand(name string) (command, bool) {
	for _, cmd := range commands {
		if cmd.name == name {
			return cmd, true
		}
	}

	return command{}, false
}

func usage(fs *flag.FlagSet) {
	w := fs.Output()

	fmt.Fprintf(w, "Usage: l10n [flags] <command> [flags] [arguments]\n\nCommands:\n")

	for _, cmd := range commands {
		fmt.Fprintf(w, "  %-8s  %s\n", cmd.name, cmd.summary)
	}

	fmt.Fprintf(w, "\nFlags:\n")
	fs.PrintDefaults()
}

// subFlags returns a flag set for the named command that reports errors
// through the returned error instead of exiting.
func subFlags(a *app, name string) *flag.FlagSet {
	fs := flag.NewFlagSet("l10n "+name, flag.ContinueOnError)
	fs.SetOutput(a.out)

	return fs
}

// parseFlags parses args into fs, mapping failures to errUsage.
func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}

	return nil
}
