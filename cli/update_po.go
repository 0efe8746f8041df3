// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"codeberg.org/pixivfe/magictr/config"
	"codeberg.org/pixivfe/magictr/tasks"
)

// msgmergeRunner runs msgmerge for update-po. Nil runs it from PATH.
var msgmergeRunner tasks.Runner

func newUpdatePoCommand() *cobra.Command {
	var task tasks.UpdatePoFiles

	cmd := &cobra.Command{
		Use:   "update-po [flags] [file.haml...]",
		Short: "Regenerate the gettext template and merge it into every catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			t := config.Global.UpdatePoFiles(args)

			flags := cmd.Flags()
			if flags.Changed("text-domain") {
				t.TextDomain = task.TextDomain
			}

			if flags.Changed("app-version") {
				t.AppVersion = task.AppVersion
			}

			if flags.Changed("lang") {
				t.Lang = task.Lang
			}

			if flags.Changed("po-root") {
				t.PoRoot = task.PoRoot
			}

			if flags.Changed("msgmerge") {
				t.Msgmerge = task.Msgmerge
			}

			if flags.Changed("verbose") {
				t.Verbose = task.Verbose
			}

			t.Runner = msgmergeRunner

			res, err := t.Run(cmd.Context())
			if err != nil {
				return err
			}

			printUpdateSummary(cmd, res)

			return nil
		},
	}

	cmd.Flags().StringVar(&task.TextDomain, "text-domain", "", "gettext domain of the catalogs")
	cmd.Flags().StringVar(&task.AppVersion, "app-version", "", "version written to the template header")
	cmd.Flags().StringVar(&task.Lang, "lang", "", "languages to update, separated by commas (default: every catalog found)")
	cmd.Flags().StringVar(&task.PoRoot, "po-root", tasks.DefaultPoRoot, "directory holding the template and the catalogs")
	cmd.Flags().StringSliceVar(&task.Msgmerge, "msgmerge", nil, "extra options passed to msgmerge")
	cmd.Flags().BoolVarP(&task.Verbose, "verbose", "v", false, "log every step")

	return cmd
}

func printUpdateSummary(cmd *cobra.Command, res *tasks.Result) {
	w := cmd.OutOrStdout()

	okColor.Fprint(w, "wrote ")
	pathColor.Fprint(w, res.Template)
	fmt.Fprintf(w, " (%d messages)\n", res.Entries)

	for _, po := range res.Merged {
		okColor.Fprint(w, "merged ")
		pathColor.Fprintln(w, po)
	}

	for _, po := range res.Created {
		okColor.Fprint(w, "created ")
		pathColor.Fprintln(w, po)
	}

	for _, file := range res.Skipped {
		noteColor.Fprint(w, "skipped ")
		pathColor.Fprintln(w, file)
	}
}
