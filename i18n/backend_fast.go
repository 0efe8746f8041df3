// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"fmt"
	"strings"

	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// FastGettextBackend translates through a golang.org/x/text message printer
// whose catalog is built once from the gettext catalog.
type FastGettextBackend struct {
	fallback

	printer *message.Printer

	// known holds the msgids present in the catalog. The printer cannot tell
	// a missing key from a message equal to its key.
	known map[string]struct{}
}

func newFastGettextBackend(src Source) (Backend, error) {
	tag, err := src.tag()
	if err != nil {
		return nil, err
	}

	cat, err := src.loadCatalog()
	if err != nil {
		return nil, err
	}

	b := &FastGettextBackend{
		fallback: newFallback(BackendFastGettext, tag, src.StrictMissingKeys),
		known:    make(map[string]struct{}),
	}

	builder := catalog.NewBuilder(catalog.Fallback(tag))

	for id, tr := range cat.messages() {
		// Stored messages are printed without arguments, so any '%' must be
		// literal to survive the printer unchanged.
		if err := builder.SetString(tag, id, strings.ReplaceAll(tr, "%", "%%")); err != nil {
			return nil, fmt.Errorf("failed to add message %q: %w", id, err)
		}

		b.known[id] = struct{}{}
	}

	b.printer = message.NewPrinter(tag, message.Catalog(builder))

	b.logger.Info().Str("file", cat.file).Int("count", len(b.known)).Msg("Loaded catalog")

	return b, nil
}

// Translate implements Backend.
func (b *FastGettextBackend) Translate(msgid string, args ...any) string {
	if _, ok := b.known[msgid]; !ok {
		return format(b.missing(msgid), args)
	}

	return format(b.printer.Sprintf(msgid), args)
}
