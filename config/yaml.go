// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"
)

func (cfg *Config) readYAML(path string) error {
	data, err := os.ReadFile(path) // #nosec G304 -- Only loading a config file
	if os.IsNotExist(err) {
		log.Debug().
			Str("path", path).
			Msg("No YAML configuration file found, skipping")

		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to read configuration file %s: %w", path, err)
	}

	if err := yaml.UnmarshalWithOptions(data, cfg, yaml.Strict()); err != nil {
		return fmt.Errorf("failed to parse YAML from %s: %w", path, err)
	}

	log.Info().
		Str("path", path).
		Msg("Loaded configuration")

	return nil
}

// Marshal returns cfg as YAML.
func (cfg *Config) Marshal() ([]byte, error) {
	return yaml.MarshalWithOptions(cfg, yaml.Indent(2))
}
