// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"context"
	"io"
)

// T translates msgid with the current backend and substitutes args. When
// translations are disabled msgid is only formatted.
func T(msgid string, args ...any) string {
	return translate(msgid, args)
}

func translate(msgid string, args []any) string {
	if b := Current(); b != nil {
		return b.Translate(msgid, args...)
	}

	return format(msgid, args)
}

// MsgKey is a source message id (msgid) string.
//
// MsgKey should be the original English UI text, not an invented key. It
// implements templ.Component, so a MsgKey can be rendered directly in templ
// views next to compiled templates.
type MsgKey string

// Tr translates this msgid with the current backend.
func (s MsgKey) Tr() string {
	return translate(string(s), nil)
}

func (s MsgKey) Render(_ context.Context, w io.Writer) error {
	_, err := io.WriteString(w, s.Tr())

	return err
}
