// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"codeberg.org/pixivfe/magictr/config"
	"codeberg.org/pixivfe/magictr/i18n"
	"codeberg.org/pixivfe/magictr/xgettext"
)

func newExtractCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "extract [flags] <file.haml> [file.haml...]",
		Short: "Write the translatable text of Haml templates as a gettext template",
		Long:  "Extract reads Haml templates (or standard input when the only argument is -) and writes every msgid with its locations as a POT file.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := extractFiles(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()

			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", output, err)
				}
				defer f.Close()

				w = f
			}

			cfg := &config.Global

			err = xgettext.WritePOT(w, session.Entries(), xgettext.Header{
				Project: cfg.Catalog.TextDomain,
				Version: cfg.Catalog.AppVersion,
			})
			if err != nil {
				return err
			}

			if output != "" && output != "-" {
				okColor.Fprint(cmd.ErrOrStderr(), "extracted ")
				fmt.Fprintf(cmd.ErrOrStderr(), "%d messages to ", session.Len())
				pathColor.Fprintln(cmd.ErrOrStderr(), output)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the template to this file instead of standard output")

	return cmd
}

func extractFiles(stdin io.Reader, files []string) (*i18n.Session, error) {
	session := i18n.NewSession()

	if len(files) == 1 && files[0] == "-" {
		entries, err := xgettext.ParseReader(stdin)
		if err != nil {
			return nil, err
		}

		addEntries(session, entries)

		return session, nil
	}

	for _, file := range files {
		entries, err := xgettext.Parse(file)
		if err != nil {
			return nil, err
		}

		addEntries(session, entries)
	}

	return session, nil
}

func addEntries(s *i18n.Session, entries []i18n.Entry) {
	for _, e := range entries {
		for _, loc := range e.Locations {
			s.Add(e.Text, loc)
		}
	}
}
