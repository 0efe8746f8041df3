// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package cli implements the magictr command line.
package cli

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"codeberg.org/pixivfe/magictr/config"
)

var (
	okColor   = color.New(color.FgGreen, color.Bold)
	noteColor = color.New(color.FgYellow)
	pathColor = color.New(color.FgCyan)
)

// NewRootCommand returns the magictr command with its subcommands.
func NewRootCommand() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:           "magictr",
		Short:         "Translate Haml templates without wrapping every string",
		Long:          "magictr compiles Haml templates with their literal text translated through gettext, go-i18n or an x/text catalog, and extracts that text into gettext catalogs.",
		Version:       config.BuildVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return config.Global.LoadConfig(configFile)
		},
	}

	root.PersistentFlags().StringVar(&configFile, "config", "", "path to a magictr configuration file in YAML format")

	root.AddCommand(newExtractCommand(), newUpdatePoCommand(), newRenderCommand())

	return root
}
