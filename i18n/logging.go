// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
)

var (
	// Logger is the logger used by package i18n. Replace it before enabling
	// a backend to change where backends log.
	Logger zerolog.Logger = log.With().Str("sys", "i18n").Logger()

	// missingKeyOnce deduplicates WARN logs for missing msgids in strict mode.
	// The key is backend+"\x00"+locale+"\x00"+msgid.
	missingKeyOnce sync.Map
)

// fallback is embedded by every backend to handle msgids without a
// translation.
type fallback struct {
	backend string
	locale  language.Tag
	strict  bool
	logger  zerolog.Logger
}

func newFallback(backend string, locale language.Tag, strict bool) fallback {
	return fallback{
		backend: backend,
		locale:  locale,
		strict:  strict,
		logger:  Logger.With().Str("backend", backend).Logger(),
	}
}

func (f fallback) Name() string { return f.backend }

func (f fallback) Locale() language.Tag { return f.locale }

// missing returns msgid, or in strict mode logs it once per
// (backend, locale, msgid) and returns it visibly wrapped.
func (f fallback) missing(msgid string) string {
	if !f.strict {
		return msgid
	}

	locale := strippedTagString(f.locale)

	id := f.backend + "\x00" + locale + "\x00" + msgid
	if _, loaded := missingKeyOnce.LoadOrStore(id, struct{}{}); !loaded {
		f.logger.Warn().
			Str("locale", locale).
			Str("key", msgid).
			Msg("Missing i18n translation")
	}

	return "⟦" + msgid + "⟧"
}

// strippedTagString removes variants to form a stable key using base, script and region only.
func strippedTagString(tag language.Tag) string {
	b, s, r := tag.Raw()
	stripped, _ := language.Compose(b, s, r)

	return stripped.String()
}
