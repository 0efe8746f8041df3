// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package haml

import "strings"

// Segment is one piece of interpolated text. Exactly one of Text or Code is set.
type Segment struct {
	Text string
	Code string
}

// IsCode reports whether the segment is an interpolated expression.
func (s Segment) IsCode() bool {
	return s.Code != ""
}

// HasInterpolation reports whether s contains at least one #{...} expression.
func HasInterpolation(s string) bool {
	for _, seg := range SplitInterpolation(s) {
		if seg.IsCode() {
			return true
		}
	}

	return false
}

// SplitInterpolation splits s into literal text and #{...} expressions, in
// order. A backslash before #{ keeps it literal. An unterminated #{ is
// treated as literal text, as are empty #{} expressions.
func SplitInterpolation(s string) []Segment {
	var (
		segs []Segment
		lit  strings.Builder
	)

	flush := func() {
		if lit.Len() > 0 {
			segs = append(segs, Segment{Text: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(s); {
		if s[i] == '\\' && strings.HasPrefix(s[i+1:], "#{") {
			lit.WriteString("#{")

			i += 3

			continue
		}

		if !strings.HasPrefix(s[i:], "#{") {
			lit.WriteByte(s[i])
			i++

			continue
		}

		end := closingBrace(s, i+2)
		if end < 0 {
			lit.WriteString(s[i:])

			break
		}

		code := strings.TrimSpace(s[i+2 : end])
		if code == "" {
			lit.WriteString(s[i : end+1])
		} else {
			flush()

			segs = append(segs, Segment{Code: code})
		}

		i = end + 1
	}

	flush()

	return segs
}

// closingBrace returns the index of the '}' balancing an opening brace just
// before start, skipping quoted strings. It returns -1 if there is none.
func closingBrace(s string, start int) int {
	depth := 1

	for i := start; i < len(s); i++ {
		switch c := s[i]; c {
		case '"', '\'', '`':
			j := skipQuoted(s, i)
			if j < 0 {
				return -1
			}

			i = j
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}

	return -1
}

// skipQuoted returns the index of the quote closing the string that opens at
// s[i], honouring backslash escapes except inside backquotes.
func skipQuoted(s string, i int) int {
	q := s[i]

	for j := i + 1; j < len(s); j++ {
		switch s[j] {
		case '\\':
			if q != '`' {
				j++
			}
		case q:
			return j
		}
	}

	return -1
}
