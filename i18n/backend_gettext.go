// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"github.com/leonelquinteros/gotext"
)

// GettextBackend translates through the messages of a gotext domain.
type GettextBackend struct {
	fallback

	domain       string
	translations map[string]*gotext.Translation
}

func newGettextBackend(src Source) (Backend, error) {
	tag, err := src.tag()
	if err != nil {
		return nil, err
	}

	cat, err := src.loadCatalog()
	if err != nil {
		return nil, err
	}

	b := &GettextBackend{
		fallback:     newFallback(BackendGettext, tag, src.StrictMissingKeys),
		domain:       src.domain(),
		translations: cat.tr.GetDomain().GetTranslations(),
	}

	b.logger.Info().Str("file", cat.file).Str("domain", b.domain).Msg("Loaded catalog")

	return b, nil
}

// Translate implements Backend.
func (b *GettextBackend) Translate(msgid string, args ...any) string {
	// Singular messages only fill the first form.
	if t, ok := b.translations[msgid]; ok && msgid != "" {
		if s := t.Trs[0]; s != "" {
			return format(s, args)
		}
	}

	return format(b.missing(msgid), args)
}
