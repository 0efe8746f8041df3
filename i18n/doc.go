// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package i18n translates Haml templates automatically. The text of a template
is its msgid: there is no need to wrap every sentence in a translation call.

# Translating templates

Enable a backend once, then compile templates through this package:

	err := i18n.Enable(i18n.BackendGettext, i18n.Source{
		FS:     os.DirFS("."),
		Dir:    "locale",
		Domain: "app",
		Locale: "pl",
	})

	tmpl, err := i18n.Compile("index.haml", src, haml.Options{})

Plain text, literal tag content and markdown filters are replaced by a call
of the _ template function bound to the backend. Interpolations are kept: the
msgid of

	%p Hello #{.Name}!

is "Hello %s!" and the evaluated .Name is substituted into the translation.

Text inside code is never translated unless it is marked explicitly:

	%input{value: _('Upload')}
	= printf "%s!" _('Welcome')

In a javascript filter both _('...') and _("...") are recognized and replaced
by a quoted JavaScript string.

When translations are disabled, Compile is exactly [haml.Compile].

# Backends

Three interchangeable backends load the same gettext catalogs:

  - "gettext" uses github.com/leonelquinteros/gotext.
  - "i18n" uses github.com/nicksnyder/go-i18n and also reads go-i18n
    message files (TOML, YAML, JSON) named after the locale.
  - "fast_gettext" uses a golang.org/x/text message catalog.

# Extraction

Extract records every translatable fragment of a template into a [Session]
with its "file:line" location. Session.Entries returns the fragments sorted
by text, ready for a POT file; see package xgettext.

# Missing translations

By default, missing translations return the msgid unchanged. When
Source.StrictMissingKeys is set, missing lookups are logged once per
backend, locale and msgid, and the returned text is visibly wrapped as "⟦...⟧".
*/
package i18n
