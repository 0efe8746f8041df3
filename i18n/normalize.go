// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"strings"

	"codeberg.org/pixivfe/magictr/haml"
)

// Placeholder replaces each #{...} expression in a normalized msgid.
const Placeholder = "%s"

// Normalize replaces every #{...} expression in s with Placeholder, left to
// right, and returns the expressions in the same order.
//
// When s contains at least one expression, literal '%' characters are
// doubled so the msgid stays a valid format string. Escaped \#{ sequences
// become literal #{.
func Normalize(s string) (msgid string, args []string) {
	segs := haml.SplitInterpolation(s)

	for _, seg := range segs {
		if seg.IsCode() {
			args = append(args, seg.Code)
		}
	}

	var b strings.Builder

	for _, seg := range segs {
		switch {
		case seg.IsCode():
			b.WriteString(Placeholder)
		case len(args) > 0:
			b.WriteString(strings.ReplaceAll(seg.Text, "%", "%%"))
		default:
			b.WriteString(seg.Text)
		}
	}

	return b.String(), args
}
