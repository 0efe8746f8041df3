// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Command genconfig writes example configuration files for magictr.
package main

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/rs/zerolog/log"

	"codeberg.org/pixivfe/magictr/audit"
	"codeberg.org/pixivfe/magictr/config"
	"codeberg.org/pixivfe/magictr/i18n"
)

const (
	envOutputFile  = "deploy/.env.example"
	yamlOutputFile = "deploy/magictr.yaml.example"
	filePerm       = 0o644

	envFileHeader = `# magictr configuration (via environment variables)
#
# Copy this file to .env and customize the values below.
#
# This file was auto-generated using go run ./cmd/genconfig.

`
	yamlFileHeader = `# magictr configuration (via configuration file)
#
# Copy this file to magictr.yaml and customize the values below.
#
# This file was auto-generated using go run ./cmd/genconfig.
`
)

func main() {
	audit.SetDefaultLogger()

	cfg := &config.Config{}
	cfg.SetDefaults()

	write(envOutputFile, envFile(cfg))

	yamlFile, err := yamlFile(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to marshal config to YAML")
	}

	write(yamlOutputFile, yamlFile)
}

func write(path, content string) {
	if err := os.MkdirAll("deploy", 0o755); err != nil {
		log.Fatal().Err(err).Msg("Failed to create deploy directory")
	}

	if err := os.WriteFile(path, []byte(content), filePerm); err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("Failed to write example file")
	}

	log.Info().Str("path", path).Msg("Generated example file")
}

// envFile lists every env-tagged field, one commented section per top-level
// struct.
func envFile(cfg *config.Config) string {
	var sb strings.Builder

	sb.WriteString(envFileHeader)

	val := reflect.ValueOf(*cfg)
	typ := val.Type()

	for i := range typ.NumField() {
		section, sectionValue := typ.Field(i), val.Field(i)

		if sectionValue.Kind() != reflect.Struct || !section.IsExported() || section.Tag.Get("yaml") == "-" {
			continue
		}

		fmt.Fprintf(&sb, "## %s\n", section.Name)

		for j := range sectionValue.NumField() {
			field := section.Type.Field(j)

			tag, ok := field.Tag.Lookup("env")
			if !ok {
				continue
			}

			name, _, _ := strings.Cut(tag, ",")
			value := sectionValue.Field(j)

			switch {
			case name == "MAGICTR_BACKEND":
				fmt.Fprintf(&sb, "# %s=%s\n", name, strings.Join(i18n.Backends(), "|"))
			case value.Kind() == reflect.Slice:
				items := make([]string, value.Len())
				for k := range items {
					items[k] = value.Index(k).String()
				}

				fmt.Fprintf(&sb, "# %s=%s\n", name, strings.Join(items, ","))
			default:
				fmt.Fprintf(&sb, "# %s=%v\n", name, value.Interface())
			}
		}

		sb.WriteString("\n")
	}

	return sb.String()
}

// yamlFile renders the defaults as YAML with every value commented out.
func yamlFile(cfg *config.Config) (string, error) {
	out, err := cfg.Marshal()
	if err != nil {
		return "", err
	}

	var sb strings.Builder

	sb.WriteString(yamlFileHeader)

	for line := range strings.SplitSeq(string(out), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if !strings.HasPrefix(line, " ") {
			fmt.Fprintf(&sb, "\n%s\n", line)

			continue
		}

		indent := len(line) - len(strings.TrimLeft(line, " "))
		fmt.Fprintf(&sb, "%s# %s\n", strings.Repeat(" ", indent), trimmed)
	}

	return sb.String(), nil
}
