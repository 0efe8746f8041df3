// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"errors"
	"fmt"
	"slices"

	"codeberg.org/pixivfe/magictr/haml"
	"codeberg.org/pixivfe/magictr/i18n"
)

// validation errors.
var (
	errInvalidBackend      = errors.New("invalid Translation.Backend")
	errLocaleRequired      = errors.New("Translation.Locale is required when a backend is set")
	errInvalidFormat       = errors.New("invalid Template.Format")
	errInvalidLogLevel     = errors.New("invalid Log.Level")
	errInvalidLogFormat    = errors.New("invalid Log.Format")
	errEmptyCatalogPoRoot  = errors.New("Catalog.PoRoot cannot be empty")
	errEmptyTextDomainName = errors.New("Catalog.TextDomain cannot be empty")
)

var (
	templateFormats = map[string]haml.Format{
		"html5": haml.FormatHTML5,
		"xhtml": haml.FormatXHTML,
	}
	logFormats = []string{"console", "json"}
)

// validateAndSet validates the configuration and populates derived fields.
func (cfg *Config) validateAndSet() error {
	if b := cfg.Translation.Backend; b != "" {
		if !slices.Contains(i18n.Backends(), b) {
			return fmt.Errorf("%w: %q (expected one of %v)", errInvalidBackend, b, i18n.Backends())
		}

		if cfg.Translation.Locale == "" {
			return errLocaleRequired
		}
	}

	format, ok := templateFormats[cfg.Template.Format]
	if !ok {
		return fmt.Errorf("%w: %q", errInvalidFormat, cfg.Template.Format)
	}

	cfg.Template.format = format

	if _, ok := logLevels[cfg.Log.Level]; !ok {
		return fmt.Errorf("%w: %q", errInvalidLogLevel, cfg.Log.Level)
	}

	if !slices.Contains(logFormats, cfg.Log.Format) {
		return fmt.Errorf("%w: %q", errInvalidLogFormat, cfg.Log.Format)
	}

	if cfg.Catalog.PoRoot == "" {
		return errEmptyCatalogPoRoot
	}

	if cfg.Catalog.TextDomain == "" {
		return errEmptyTextDomainName
	}

	return nil
}
