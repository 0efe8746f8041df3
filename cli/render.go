// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package cli

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"codeberg.org/pixivfe/magictr/config"
	"codeberg.org/pixivfe/magictr/i18n"
)

func newRenderCommand() *cobra.Command {
	var (
		dataFile string
		backend  string
		locale   string
		strict   bool
	)

	cmd := &cobra.Command{
		Use:   "render [flags] <file.haml>",
		Short: "Render a Haml template with its text translated",
		Long:  "Render compiles a Haml template through the configured translation backend and executes it with the data read from a YAML file.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := &config.Global

			flags := cmd.Flags()
			if flags.Changed("backend") {
				cfg.Translation.Backend = backend
			}

			if flags.Changed("locale") {
				cfg.Translation.Locale = locale
			}

			if flags.Changed("strict") {
				cfg.Translation.StrictMissingKeys = strict
			}

			if err := cfg.EnableBackend(); err != nil {
				return err
			}
			defer i18n.Disable()

			data, err := readData(dataFile)
			if err != nil {
				return err
			}

			src, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read template: %w", err)
			}

			tmpl, err := i18n.Compile(args[0], string(src), cfg.HamlOptions())
			if err != nil {
				return err
			}

			return tmpl.Execute(cmd.OutOrStdout(), data)
		},
	}

	cmd.Flags().StringVarP(&dataFile, "data", "d", "", "YAML file holding the template data")
	cmd.Flags().StringVar(&backend, "backend", "", fmt.Sprintf("translation backend, one of %v", i18n.Backends()))
	cmd.Flags().StringVar(&locale, "locale", "", "locale of the translation catalog")
	cmd.Flags().BoolVar(&strict, "strict", false, "mark and log text missing from the catalog")

	return cmd
}

func readData(path string) (map[string]any, error) {
	if path == "" {
		return nil, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read data: %w", err)
	}

	var data map[string]any
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse data from %s: %w", path, err)
	}

	return data, nil
}
