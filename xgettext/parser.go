// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package xgettext extracts translatable text from Haml templates for gettext
// catalog tooling.
package xgettext

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"codeberg.org/pixivfe/magictr/i18n"
)

// Extension is the file extension of the templates this package handles.
const Extension = ".haml"

// ReaderLabel names templates read from an io.Reader in locations.
const ReaderLabel = "(haml)"

// HamlParser extracts msgids from Haml templates. Template code is never
// evaluated, so templates may call any function.
type HamlParser struct{}

// Target reports whether file is a Haml template.
func (p HamlParser) Target(file string) bool {
	return filepath.Ext(file) == Extension
}

// Parse extracts the entries of the template file.
func (p HamlParser) Parse(file string) ([]i18n.Entry, error) {
	src, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read template: %w", err)
	}

	return p.parse(file, string(src))
}

// ParseReader extracts the entries of the template read from r. Locations
// are labelled ReaderLabel.
func (p HamlParser) ParseReader(r io.Reader) ([]i18n.Entry, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read template: %w", err)
	}

	return p.parse(ReaderLabel, string(src))
}

func (p HamlParser) parse(label, src string) ([]i18n.Entry, error) {
	var s i18n.Session

	if err := i18n.Extract(label, src, &s); err != nil {
		return nil, err
	}

	return s.Entries(), nil
}

// Target reports whether file is a Haml template.
func Target(file string) bool {
	return HamlParser{}.Target(file)
}

// Parse extracts the entries of the template file.
func Parse(file string) ([]i18n.Entry, error) {
	return HamlParser{}.Parse(file)
}

// ParseReader extracts the entries of the template read from r.
func ParseReader(r io.Reader) ([]i18n.Entry, error) {
	return HamlParser{}.ParseReader(r)
}
