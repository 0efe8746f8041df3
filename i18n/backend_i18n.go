// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"errors"
	"fmt"
	"io/fs"
	"path"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
)

// messageFileFormats are the go-i18n message file extensions loaded next to
// the gettext catalogs. JSON is decoded by go-i18n itself.
var messageFileFormats = []string{"toml", "yaml", "json"}

var unmarshalFuncs = map[string]i18n.UnmarshalFunc{
	"toml": toml.Unmarshal,
	"yaml": func(data []byte, v any) error { return yaml.Unmarshal(data, v) },
}

// I18nBackend translates through a go-i18n bundle. The bundle is filled from
// the gettext catalog and from <Dir>/<locale>.toml, .yaml or .json message
// files, which take precedence.
type I18nBackend struct {
	fallback

	localizer *i18n.Localizer
}

func newI18nBackend(src Source) (Backend, error) {
	tag, err := src.tag()
	if err != nil {
		return nil, err
	}

	bundle := i18n.NewBundle(tag)

	b := &I18nBackend{fallback: newFallback(BackendI18n, tag, src.StrictMissingKeys)}

	loaded := 0

	cat, err := src.loadCatalog()

	switch {
	case err == nil:
		msgs := cat.messages()
		for id, other := range msgs {
			if err := bundle.AddMessages(tag, &i18n.Message{ID: id, Other: other}); err != nil {
				return nil, fmt.Errorf("failed to add messages from %s: %w", cat.file, err)
			}
		}

		b.logger.Info().Str("file", cat.file).Int("count", len(msgs)).Msg("Loaded catalog")

		loaded++
	case !errors.Is(err, ErrNoCatalog):
		return nil, err
	}

	fsys, dir := src.root()

	for _, name := range src.localeNames() {
		for _, ext := range messageFileFormats {
			file := path.Join(dir, name+"."+ext)

			data, err := fs.ReadFile(fsys, file)
			if err != nil {
				continue
			}

			// Messages are filed under the requested locale whatever the
			// file is called, so pl.toml serves pl-PL.
			mf, err := i18n.ParseMessageFileBytes(data, file, unmarshalFuncs)
			if err != nil {
				return nil, fmt.Errorf("failed to parse message file %s: %w", file, err)
			}

			if err := bundle.AddMessages(tag, mf.Messages...); err != nil {
				return nil, fmt.Errorf("failed to add messages from %s: %w", file, err)
			}

			b.logger.Info().Str("file", file).Int("count", len(mf.Messages)).Msg("Loaded message file")

			loaded++
		}
	}

	if loaded == 0 {
		return nil, fmt.Errorf("%w for locale %q in %s", ErrNoCatalog, src.Locale, src.Dir)
	}

	b.localizer = i18n.NewLocalizer(bundle, tag.String())

	return b, nil
}

// Translate implements Backend.
func (b *I18nBackend) Translate(msgid string, args ...any) string {
	s, err := b.localizer.Localize(&i18n.LocalizeConfig{MessageID: msgid})
	if err != nil || s == "" {
		return format(b.missing(msgid), args)
	}

	return format(s, args)
}
