// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"codeberg.org/pixivfe/magictr/i18n"
	"codeberg.org/pixivfe/magictr/tasks"
)

// SetDefaults populates the configuration with default values.
func (cfg *Config) SetDefaults() {
	cfg.Translation.Backend = ""
	cfg.Translation.Locale = "en"
	cfg.Translation.CatalogDir = "locale"
	cfg.Translation.Domain = i18n.DefaultDomain
	cfg.Translation.StrictMissingKeys = false

	cfg.Template.Format = "html5"
	cfg.Template.EscapeHTML = true

	cfg.Catalog.TextDomain = i18n.DefaultDomain
	cfg.Catalog.AppVersion = ""
	cfg.Catalog.PoRoot = tasks.DefaultPoRoot
	cfg.Catalog.Lang = ""
	cfg.Catalog.Files = nil
	cfg.Catalog.Msgmerge = nil
	cfg.Catalog.Verbose = false

	cfg.Log.Level = "info"
	cfg.Log.Outputs = []string{"/dev/stderr"}
	cfg.Log.Format = "console"
}
