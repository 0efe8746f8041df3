// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"golang.org/x/text/language"

	"codeberg.org/pixivfe/magictr/haml"
)

// Backend names accepted by Enable.
const (
	BackendI18n        = "i18n"
	BackendGettext     = "gettext"
	BackendFastGettext = "fast_gettext"
)

// ErrInvalidBackend is returned by Enable for an unknown backend name.
var ErrInvalidBackend = errors.New("invalid translation backend")

// Backend translates normalized msgids. Implementations are
// I18nBackend, GettextBackend and FastGettextBackend.
type Backend interface {
	Name() string
	Locale() language.Tag

	// Translate returns the translation of msgid, or msgid itself when there
	// is none, with args substituted for the placeholders.
	Translate(msgid string, args ...any) string
}

var backends = map[string]func(Source) (Backend, error){
	BackendI18n:        newI18nBackend,
	BackendGettext:     newGettextBackend,
	BackendFastGettext: newFastGettextBackend,
}

// Backends returns the names accepted by Enable, sorted.
func Backends() []string {
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

var (
	stateMu sync.RWMutex
	current Backend
)

// Enable loads the catalogs of src into the backend called name and makes it
// current. On error the previous state is kept.
func Enable(name string, src Source) error {
	newBackend, ok := backends[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidBackend, name)
	}

	b, err := newBackend(src)
	if err != nil {
		return fmt.Errorf("failed to enable %s backend: %w", name, err)
	}

	stateMu.Lock()
	current = b
	stateMu.Unlock()

	Logger.Info().
		Str("backend", name).
		Str("locale", b.Locale().String()).
		Msg("Enabled translations")

	return nil
}

// Disable drops the current backend. Templates compiled afterwards render
// their text untranslated.
func Disable() {
	stateMu.Lock()
	current = nil
	stateMu.Unlock()
}

// IsEnabled reports whether a backend is current.
func IsEnabled() bool {
	return Current() != nil
}

// Current returns the current backend, or nil when translations are disabled.
func Current() Backend {
	stateMu.RLock()
	defer stateMu.RUnlock()

	return current
}

// format substitutes args into a translated message.
func format(msg string, args []any) string {
	return haml.Sprintf(msg, args...)
}
