// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"regexp"
	"strings"

	"github.com/tidwall/gjson"

	"codeberg.org/pixivfe/magictr/haml"
)

// Candidate is a fragment of a template eligible for translation.
type Candidate struct {
	// Text is the normalized msgid.
	Text string

	// Args are the #{...} expressions replaced by placeholders in Text.
	Args []string

	// Line is the template line the fragment was found on.
	Line int
}

// Classify returns every translation candidate of n: its literal text,
// then explicit _('...') markers in code, then markers in a javascript
// filter body.
func Classify(n *haml.Node) []Candidate {
	var out []Candidate

	if c, ok := Literal(n); ok {
		out = append(out, c)
	}

	out = append(out, Markers(n)...)
	out = append(out, JavaScript(n)...)

	return out
}

// Literal returns the literal text of n when n is a plain text node, a tag
// with a literal value, or a markdown filter.
func Literal(n *haml.Node) (Candidate, bool) {
	var text string

	switch n.Kind {
	case haml.Plain:
		text = n.Text
	case haml.Tag:
		if n.Evaluated || n.Value == "" {
			return Candidate{}, false
		}

		text = n.Value
		if n.Parse {
			text = text[1 : len(text)-1]
		}
	case haml.Filter:
		if !isMarkdown(n.Name) {
			return Candidate{}, false
		}

		text = strings.TrimRight(n.Text, " \t\r\n")
	default:
		return Candidate{}, false
	}

	msgid, args := Normalize(text)
	if strings.TrimSpace(msgid) == "" {
		return Candidate{}, false
	}

	return Candidate{Text: msgid, Args: args, Line: n.Line}, true
}

// Markers returns the explicit _('...') markers found in the code of n: the
// expression of an evaluated tag, attribute hashes, expression attributes,
// script and silent script code, and expressions interpolated into literal
// text. A literal tag value is never scanned.
func Markers(n *haml.Node) []Candidate {
	var code []string

	switch n.Kind {
	case haml.Script, haml.SilentScript:
		code = append(code, n.Text)
	case haml.Tag:
		for _, a := range n.Attrs {
			if a.Expr {
				code = append(code, a.Value)
			} else {
				code = append(code, interpolated(a.Value)...)
			}
		}

		code = append(code, n.AttrHashes...)

		switch {
		case n.Evaluated:
			code = append(code, n.Value)
		case n.Parse:
			code = append(code, interpolated(n.Value)...)
		}
	case haml.Plain:
		code = interpolated(n.Text)
	}

	var out []Candidate

	for _, c := range code {
		for _, text := range haml.MarkerTexts(c) {
			if text != "" {
				out = append(out, Candidate{Text: text, Line: n.Line})
			}
		}
	}

	return out
}

func interpolated(s string) []string {
	var code []string

	for _, seg := range haml.SplitInterpolation(s) {
		if seg.IsCode() {
			code = append(code, seg.Code)
		}
	}

	return code
}

var jsMarker = regexp.MustCompile(`_\((?:'((?:[^'\\]|\\.)*)'|"((?:[^"\\]|\\.)*)")\)`)

// jsMatch is one _('...') or _("...") call in a javascript filter line.
type jsMatch struct {
	start, end int
	text       string
}

// jsMarkers finds the translatable calls on one line of script. Calls whose
// string cannot be decoded are skipped.
func jsMarkers(line string) []jsMatch {
	var out []jsMatch

	for _, m := range jsMarker.FindAllStringSubmatchIndex(line, -1) {
		var (
			text string
			ok   bool
		)

		if m[2] >= 0 {
			text, ok = decodeJSString(line[m[2]:m[3]], '\'')
		} else {
			text, ok = decodeJSString(line[m[4]:m[5]], '"')
		}

		if ok && text != "" {
			out = append(out, jsMatch{start: m[0], end: m[1], text: text})
		}
	}

	return out
}

// decodeJSString decodes the body of a string literal delimited by quote
// using JSON string rules, after resolving an escaped single quote.
func decodeJSString(body string, quote byte) (string, bool) {
	var b strings.Builder

	b.WriteByte('"')

	for i := 0; i < len(body); i++ {
		switch c := body[i]; {
		case c == '\\' && i+1 < len(body) && quote == '\'' && body[i+1] == '\'':
			b.WriteByte('\'')
			i++
		case c == '\\' && i+1 < len(body):
			b.WriteByte(c)
			b.WriteByte(body[i+1])
			i++
		case c == '"' && quote == '\'':
			b.WriteString(`\"`)
		default:
			b.WriteByte(c)
		}
	}

	b.WriteByte('"')

	raw := b.String()
	if !gjson.Valid(raw) {
		return "", false
	}

	return gjson.Parse(raw).String(), true
}

// JavaScript returns the _('...') and _("...") markers in the body of a
// javascript filter. Each marker is reported on the line it appears on.
func JavaScript(n *haml.Node) []Candidate {
	if n.Kind != haml.Filter || n.Name != haml.FilterJavaScript {
		return nil
	}

	var out []Candidate

	for k, line := range haml.FilterLines(n) {
		for _, m := range jsMarkers(line) {
			out = append(out, Candidate{Text: m.text, Line: n.Line + k + 1})
		}
	}

	return out
}

func isMarkdown(name string) bool {
	return name == haml.FilterMarkdown || name == haml.FilterMaruku
}
