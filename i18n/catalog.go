// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"slices"
	"strings"

	"github.com/leonelquinteros/gotext"
	"golang.org/x/text/language"
)

// DefaultDomain is the gettext domain loaded when Source.Domain is empty.
const DefaultDomain = "messages"

// ErrNoCatalog is returned when no catalog exists for the requested locale.
var ErrNoCatalog = errors.New("no catalog found")

// Source tells a backend where to find its catalogs.
//
// Gettext catalogs are looked up, in order, as
//
//	<Dir>/<locale>.po
//	<Dir>/<locale>/LC_MESSAGES/<domain>.po
//	<Dir>/<locale>/LC_MESSAGES/<domain>.mo
//	<Dir>/<locale>/<domain>.po
//
// where <locale> is tried as given, then with '-' and '_' swapped, then as
// the bare language.
type Source struct {
	// FS holds the catalogs. When nil, Dir is opened on the OS filesystem.
	FS  fs.FS
	Dir string

	Domain string
	Locale string

	// StrictMissingKeys logs each missing msgid once and wraps it in ⟦⟧.
	StrictMissingKeys bool
}

func (src Source) domain() string {
	if src.Domain == "" {
		return DefaultDomain
	}

	return src.Domain
}

// root returns the filesystem and the directory within it holding catalogs.
func (src Source) root() (fs.FS, string) {
	if src.FS == nil {
		dir := src.Dir
		if dir == "" {
			dir = "."
		}

		return os.DirFS(dir), "."
	}

	if src.Dir == "" {
		return src.FS, "."
	}

	return src.FS, path.Clean(src.Dir)
}

// tag parses Locale, accepting both underscore and hyphen separators.
func (src Source) tag() (language.Tag, error) {
	if src.Locale == "" {
		return language.Und, errors.New("locale is not set")
	}

	t, err := language.Parse(strings.ReplaceAll(src.Locale, "_", "-"))
	if err != nil {
		return language.Und, fmt.Errorf("invalid locale %q: %w", src.Locale, err)
	}

	return t, nil
}

func (src Source) localeNames() []string {
	names := []string{src.Locale}

	alts := []string{
		strings.ReplaceAll(src.Locale, "_", "-"),
		strings.ReplaceAll(src.Locale, "-", "_"),
	}

	if t, err := src.tag(); err == nil {
		base, _ := t.Base()
		alts = append(alts, base.String())
	}

	for _, alt := range alts {
		if !slices.Contains(names, alt) {
			names = append(names, alt)
		}
	}

	return names
}

// gettextCatalog is a loaded gettext catalog and the file it came from.
type gettextCatalog struct {
	tr   gotext.Translator
	file string
}

// loadCatalog finds and parses the gettext catalog for src.
func (src Source) loadCatalog() (*gettextCatalog, error) {
	fsys, dir := src.root()
	domain := src.domain()

	for _, name := range src.localeNames() {
		for _, file := range []string{
			path.Join(dir, name+".po"),
			path.Join(dir, name, "LC_MESSAGES", domain+".po"),
			path.Join(dir, name, "LC_MESSAGES", domain+".mo"),
			path.Join(dir, name, domain+".po"),
		} {
			if _, err := fs.Stat(fsys, file); err != nil {
				continue
			}

			var tr gotext.Translator
			if strings.HasSuffix(file, ".mo") {
				tr = gotext.NewMoFS(fsys)
			} else {
				tr = gotext.NewPoFS(fsys)
			}

			tr.ParseFile(file)

			return &gettextCatalog{tr: tr, file: file}, nil
		}
	}

	return nil, fmt.Errorf("%w for locale %q in %s", ErrNoCatalog, src.Locale, src.Dir)
}

// messages returns every translated singular message of the catalog.
func (c *gettextCatalog) messages() map[string]string {
	out := make(map[string]string)

	for id, t := range c.tr.GetDomain().GetTranslations() {
		if id == "" {
			continue
		}

		if s := t.Trs[0]; s != "" {
			out[id] = s
		}
	}

	return out
}
