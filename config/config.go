// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package config loads the magictr configuration.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"codeberg.org/pixivfe/magictr/haml"
	"codeberg.org/pixivfe/magictr/i18n"
	"codeberg.org/pixivfe/magictr/tasks"
)

// Global exposes the loaded configuration.
var Global Config

// DefaultConfigFile is read when no path is given and MAGICTR_CONFIGFILE is unset.
const DefaultConfigFile = "./magictr.yaml"

// Config holds the application configuration.
type Config struct {
	Build buildInfo `yaml:"-"`

	Translation struct {
		// Backend is one of i18n.Backends(). Empty leaves translations disabled.
		Backend           string `env:"MAGICTR_BACKEND,overwrite"             yaml:"backend"`
		Locale            string `env:"MAGICTR_LOCALE,overwrite"              yaml:"locale"`
		CatalogDir        string `env:"MAGICTR_CATALOG_DIR,overwrite"         yaml:"catalogDir"`
		Domain            string `env:"MAGICTR_DOMAIN,overwrite"              yaml:"domain"`
		StrictMissingKeys bool   `env:"MAGICTR_STRICT_MISSING_KEYS,overwrite" yaml:"strictMissingKeys"`
	} `yaml:"translation"`

	Template struct {
		Format     string    `env:"MAGICTR_TEMPLATE_FORMAT,overwrite" yaml:"format"`
		EscapeHTML bool      `env:"MAGICTR_ESCAPE_HTML,overwrite"     yaml:"escapeHtml"`
		format     haml.Format
	} `yaml:"template"`

	Catalog struct {
		TextDomain string   `env:"MAGICTR_TEXT_DOMAIN,overwrite" yaml:"textDomain"`
		AppVersion string   `env:"MAGICTR_APP_VERSION,overwrite" yaml:"appVersion"`
		PoRoot     string   `env:"MAGICTR_PO_ROOT,overwrite"     yaml:"poRoot"`
		Lang       string   `env:"MAGICTR_LANG,overwrite"        yaml:"lang"`
		Files      []string `env:"MAGICTR_FILES,overwrite"       yaml:"files"`
		Msgmerge   []string `env:"MAGICTR_MSGMERGE,overwrite"    yaml:"msgmerge"`
		Verbose    bool     `env:"MAGICTR_VERBOSE,overwrite"     yaml:"verbose"`
	} `yaml:"catalog"`

	Development struct {
		InDevelopment bool `env:"MAGICTR_DEV" yaml:"inDevelopment"`
	} `yaml:"development"`

	Log struct {
		Level   string   `env:"MAGICTR_LOG_LEVEL,overwrite"   yaml:"logLevel"`
		Outputs []string `env:"MAGICTR_LOG_OUTPUTS,overwrite" yaml:"logOutputs"`
		Format  string   `env:"MAGICTR_LOG_FORMAT,overwrite"  yaml:"logFormat"`
	} `yaml:"log"`
}

// LoadConfig loads the configuration from defaults, the YAML file at path,
// a .env file and MAGICTR_* environment variables, in that order.
//
// When path is empty, MAGICTR_CONFIGFILE is used, then DefaultConfigFile
// with a fallback to ./magictr.yml.
func (cfg *Config) LoadConfig(path string) error {
	cfg.SetDefaults()

	cfg.Build.load()

	if err := cfg.readYAML(configFilePath(path)); err != nil {
		return fmt.Errorf("error loading YAML config: %w", err)
	}

	if err := useDotEnv(); err != nil {
		return fmt.Errorf("error using .env file: %w", err)
	}

	if err := readEnv(cfg); err != nil {
		return fmt.Errorf("error loading environment variables: %w", err)
	}

	if err := cfg.validateAndSet(); err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}

	cfg.setupAudit()

	cfg.print()

	return nil
}

func configFilePath(path string) string {
	if path != "" {
		return path
	}

	if env := os.Getenv("MAGICTR_CONFIGFILE"); env != "" {
		return env
	}

	if _, err := os.Stat(DefaultConfigFile); os.IsNotExist(err) {
		yml := strings.TrimSuffix(DefaultConfigFile, ".yaml") + ".yml"
		if _, err := os.Stat(yml); err == nil {
			return yml
		}
	}

	return DefaultConfigFile
}

// Source returns the catalog source for the configured backend.
func (cfg *Config) Source() i18n.Source {
	return i18n.Source{
		Dir:               cfg.Translation.CatalogDir,
		Domain:            cfg.Translation.Domain,
		Locale:            cfg.Translation.Locale,
		StrictMissingKeys: cfg.Translation.StrictMissingKeys,
	}
}

// EnableBackend enables the configured backend. It does nothing when no
// backend is configured.
func (cfg *Config) EnableBackend() error {
	if cfg.Translation.Backend == "" {
		log.Debug().Msg("No translation backend configured")

		return nil
	}

	return i18n.Enable(cfg.Translation.Backend, cfg.Source())
}

// HamlOptions returns the template options selected by the configuration.
func (cfg *Config) HamlOptions() haml.Options {
	return haml.Options{
		Format:     cfg.Template.format,
		EscapeHTML: cfg.Template.EscapeHTML,
	}
}

// UpdatePoFiles returns the catalog update task for files. When files is
// empty, the configured file list is used.
func (cfg *Config) UpdatePoFiles(files []string) tasks.UpdatePoFiles {
	if len(files) == 0 {
		files = cfg.Catalog.Files
	}

	return tasks.UpdatePoFiles{
		TextDomain: cfg.Catalog.TextDomain,
		Files:      files,
		AppVersion: cfg.Catalog.AppVersion,
		Lang:       cfg.Catalog.Lang,
		PoRoot:     cfg.Catalog.PoRoot,
		Msgmerge:   cfg.Catalog.Msgmerge,
		Verbose:    cfg.Catalog.Verbose,
	}
}
