// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package xgettext

import (
	"bufio"
	"fmt"
	"io"
	"time"

	"codeberg.org/pixivfe/magictr/i18n"
)

// Header holds the metadata written at the top of a POT file.
type Header struct {
	Project string
	Version string

	// BugsAddress is written as Report-Msgid-Bugs-To when set.
	BugsAddress string

	// Date is the POT-Creation-Date. The zero value means now.
	Date time.Time
}

// WritePOT writes entries as a gettext template. Each entry gets one
// reference line listing its locations in order, with repeated locations
// written once.
func WritePOT(w io.Writer, entries []i18n.Entry, h Header) error {
	b := bufio.NewWriter(w)

	writeHeader(b, h)

	for i, e := range entries {
		fmt.Fprint(b, "#:")

		seen := make(map[string]bool, len(e.Locations))

		for _, loc := range e.Locations {
			if !seen[loc] {
				fmt.Fprintf(b, " %s", loc)

				seen[loc] = true
			}
		}

		fmt.Fprintln(b)
		fmt.Fprintf(b, "msgid %q\n", e.Text)
		fmt.Fprintf(b, "msgstr \"\"\n")

		// Add a separating blank line, but not after the very last entry.
		if i < len(entries)-1 {
			fmt.Fprintln(b)
		}
	}

	if err := b.Flush(); err != nil {
		return fmt.Errorf("failed to write POT: %w", err)
	}

	return nil
}

// writeHeader emits a POT header.
func writeHeader(b io.Writer, h Header) {
	date := h.Date
	if date.IsZero() {
		date = time.Now()
	}

	fmt.Fprintln(b, `msgid ""`)
	fmt.Fprintln(b, `msgstr ""`)
	fmt.Fprintf(b, "\"Project-Id-Version: %s %s\\n\"\n", h.Project, h.Version)

	if h.BugsAddress != "" {
		fmt.Fprintf(b, "\"Report-Msgid-Bugs-To: %s\\n\"\n", h.BugsAddress)
	}

	fmt.Fprintf(b, "\"POT-Creation-Date: %s\\n\"\n", date.UTC().Format("2006-01-02 15:04+0000"))
	fmt.Fprintln(b, `"MIME-Version: 1.0\n"`)
	fmt.Fprintln(b, `"Content-Type: text/plain; charset=UTF-8\n"`)
	fmt.Fprintln(b, `"Content-Transfer-Encoding: 8bit\n"`)
	fmt.Fprintln(b, `"Plural-Forms: nplurals=INTEGER; plural=EXPRESSION;\n"`)
	fmt.Fprintln(b)
}
