// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package tasks updates gettext catalogs from Haml templates.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"codeberg.org/pixivfe/magictr/i18n"
	"codeberg.org/pixivfe/magictr/xgettext"
)

// Logger is the logger used by package tasks.
var Logger zerolog.Logger = log.With().Str("sys", "tasks").Logger()

// ErrMissingRequiredOption is returned when a required option of a task is
// empty. The task does nothing in that case.
var ErrMissingRequiredOption = errors.New("missing required option")

// DefaultPoRoot is the catalog directory used when PoRoot is empty.
const DefaultPoRoot = "po"

var (
	hamlParser = &xgettext.HamlParser{}
	goParser   = &xgettext.GoParser{}
)

// UpdatePoFiles regenerates <PoRoot>/<TextDomain>.pot from Files and merges
// it into <PoRoot>/<lang>/<TextDomain>.po for every language.
type UpdatePoFiles struct {
	TextDomain string
	Files      []string
	AppVersion string

	// Lang lists the languages to update, separated by commas or spaces.
	// When empty, every language directory under PoRoot holding a catalog
	// for TextDomain is updated.
	Lang string

	PoRoot string

	// Msgmerge holds extra options passed to the merge tool.
	Msgmerge []string

	Verbose bool

	// Runner runs the merge tool. The zero value runs msgmerge from PATH.
	Runner Runner
}

// Result describes what a run changed.
type Result struct {
	Template string
	Entries  int
	Merged   []string
	Created  []string
	Skipped  []string
}

func (t UpdatePoFiles) validate() error {
	switch {
	case t.TextDomain == "":
		return missingOption("text_domain")
	case len(t.Files) == 0:
		return missingOption("files")
	case t.AppVersion == "":
		return missingOption("app_version")
	}

	return nil
}

func missingOption(name string) error {
	return fmt.Errorf("%w: `%s` needs to be set.", ErrMissingRequiredOption, name)
}

func (t UpdatePoFiles) poRoot() string {
	if t.PoRoot == "" {
		return DefaultPoRoot
	}

	return t.PoRoot
}

// Run performs the update. Required options are checked before anything is
// read or written.
func (t UpdatePoFiles) Run(ctx context.Context) (*Result, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}

	AddParser(goParser)
	AddParser(hamlParser)

	res := &Result{Template: filepath.Join(t.poRoot(), t.TextDomain+".pot")}

	session, skipped, err := t.extract(ctx)
	if err != nil {
		return nil, err
	}

	res.Skipped = skipped
	res.Entries = session.Len()

	if err := t.writeTemplate(res.Template, session.Entries()); err != nil {
		return nil, err
	}

	langs, err := t.languages()
	if err != nil {
		return nil, err
	}

	if err := t.merge(ctx, res, langs); err != nil {
		return nil, err
	}

	return res, nil
}

// extract parses every targeted file concurrently and merges the results in
// input order, so the output does not depend on scheduling.
func (t UpdatePoFiles) extract(ctx context.Context) (*i18n.Session, []string, error) {
	results := make([][]i18n.Entry, len(t.Files))

	var skipped []string

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, file := range t.Files {
		p := parserFor(file)
		if p == nil {
			Logger.Warn().Str("file", file).Msg("No parser for file, skipping")

			skipped = append(skipped, file)

			continue
		}

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			entries, err := p.Parse(file)
			if err != nil {
				return fmt.Errorf("failed to extract %s: %w", file, err)
			}

			t.logEvent().Str("file", file).Int("count", len(entries)).Msg("Extracted messages")

			results[i] = entries

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	session := i18n.NewSession()

	for _, entries := range results {
		var s i18n.Session

		for _, e := range entries {
			for _, loc := range e.Locations {
				s.Add(e.Text, loc)
			}
		}

		session.Merge(&s)
	}

	return session, skipped, nil
}

func (t UpdatePoFiles) writeTemplate(path string, entries []i18n.Entry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create catalog directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create template: %w", err)
	}
	defer f.Close()

	if err := xgettext.WritePOT(f, entries, xgettext.Header{Project: t.TextDomain, Version: t.AppVersion}); err != nil {
		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write template: %w", err)
	}

	t.logEvent().Str("file", path).Int("count", len(entries)).Msg("Wrote template")

	return nil
}

// languages returns the languages named by Lang, or the language
// directories under the catalog root holding a catalog for the domain.
func (t UpdatePoFiles) languages() ([]string, error) {
	if t.Lang != "" {
		return strings.FieldsFunc(t.Lang, func(r rune) bool { return r == ',' || r == ' ' }), nil
	}

	dirs, err := os.ReadDir(t.poRoot())
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog directory: %w", err)
	}

	var langs []string

	for _, d := range dirs {
		if !d.IsDir() {
			continue
		}

		if _, err := os.Stat(t.catalogPath(d.Name())); err == nil {
			langs = append(langs, d.Name())
		}
	}

	slices.Sort(langs)

	return langs, nil
}

func (t UpdatePoFiles) catalogPath(lang string) string {
	return filepath.Join(t.poRoot(), lang, t.TextDomain+".po")
}

func (t UpdatePoFiles) merge(ctx context.Context, res *Result, langs []string) error {
	merged := make([]bool, len(langs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, lang := range langs {
		po := t.catalogPath(lang)

		g.Go(func() error {
			_, err := os.Stat(po)

			switch {
			case err == nil:
				if err := t.runMsgmerge(ctx, po, res.Template); err != nil {
					return err
				}

				merged[i] = true
			case errors.Is(err, fs.ErrNotExist):
				if err := seed(po, res.Template); err != nil {
					return err
				}

				t.logEvent().Str("file", po).Msg("Created catalog from template")
			default:
				return fmt.Errorf("failed to stat %s: %w", po, err)
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	for i, lang := range langs {
		if merged[i] {
			res.Merged = append(res.Merged, t.catalogPath(lang))
		} else {
			res.Created = append(res.Created, t.catalogPath(lang))
		}
	}

	return nil
}

func (t UpdatePoFiles) runMsgmerge(ctx context.Context, po, pot string) error {
	args := slices.Clone(t.Msgmerge)
	if t.Verbose {
		args = append(args, "--verbose")
	} else {
		args = append(args, "--quiet")
	}

	args = append(args, "--update", po, pot)

	r := t.Runner
	if r == nil {
		r = ExecRunner{}
	}

	out, err := r.Run(ctx, MsgmergeCommand, args...)
	if err != nil {
		return fmt.Errorf("%s failed for %s: %w: %s", MsgmergeCommand, po, err, strings.TrimSpace(string(out)))
	}

	t.logEvent().Str("file", po).Msg("Merged catalog")

	return nil
}

// seed creates a catalog for a new language from the template.
func seed(po, pot string) error {
	data, err := os.ReadFile(pot)
	if err != nil {
		return fmt.Errorf("failed to read template: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(po), 0o755); err != nil {
		return fmt.Errorf("failed to create catalog directory: %w", err)
	}

	if err := os.WriteFile(po, data, 0o644); err != nil {
		return fmt.Errorf("failed to create catalog: %w", err)
	}

	return nil
}

// logEvent logs progress at info level when Verbose is set, debug otherwise.
func (t UpdatePoFiles) logEvent() *zerolog.Event {
	if t.Verbose {
		return Logger.Info()
	}

	return Logger.Debug()
}
