// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"fmt"
	"slices"
	"strings"

	"codeberg.org/pixivfe/magictr/haml"
)

// Entry is one distinct msgid and every place it was found.
type Entry struct {
	Text      string
	Locations []string
}

// Strings returns the entry as [text, location1, location2, ...].
func (e Entry) Strings() []string {
	return append([]string{e.Text}, e.Locations...)
}

// Session accumulates extracted msgids. The zero value is an empty session
// ready to use. A Session is not safe for concurrent use.
type Session struct {
	index   map[string]int
	entries []Entry
}

// NewSession returns an empty session.
func NewSession() *Session {
	return &Session{}
}

// Add records text found at location. Empty text is ignored; a text seen
// before gains another location instead of a new entry.
func (s *Session) Add(text, location string) {
	if text == "" {
		return
	}

	if s.index == nil {
		s.index = make(map[string]int)
	}

	if i, ok := s.index[text]; ok {
		s.entries[i].Locations = append(s.entries[i].Locations, location)

		return
	}

	s.index[text] = len(s.entries)
	s.entries = append(s.entries, Entry{Text: text, Locations: []string{location}})
}

// Merge adds every location of other to s, preserving the order of both.
func (s *Session) Merge(other *Session) {
	for _, e := range other.entries {
		for _, loc := range e.Locations {
			s.Add(e.Text, loc)
		}
	}
}

// Reset removes all entries.
func (s *Session) Reset() {
	s.index = nil
	s.entries = nil
}

// Len returns the number of distinct msgids.
func (s *Session) Len() int {
	return len(s.entries)
}

// Entries returns a copy of the entries sorted by text. Locations keep the
// order they were found in.
func (s *Session) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	for i, e := range s.entries {
		out[i] = Entry{Text: e.Text, Locations: slices.Clone(e.Locations)}
	}

	slices.SortFunc(out, func(a, b Entry) int { return strings.Compare(a.Text, b.Text) })

	return out
}

// ExtractionCompiler records the translation candidates of every node into
// Session and lets the engine compile the node as usual.
type ExtractionCompiler struct {
	Session *Session

	// File prefixes every recorded location.
	File string
}

// Visit implements haml.Visitor.
func (e *ExtractionCompiler) Visit(_ *haml.Compiler, n *haml.Node) (bool, error) {
	for _, c := range Classify(n) {
		e.Session.Add(c.Text, fmt.Sprintf("%s:%d", e.File, c.Line))
	}

	return false, nil
}

// Extract compiles src, recording its translation candidates into s under
// the name file. Template errors are returned unchanged and leave whatever
// was recorded before the error in s.
func Extract(file, src string, s *Session) error {
	return ExtractWith(file, src, s, haml.Options{})
}

// ExtractWith is Extract with compiler options. opts.Visitor is replaced.
// Calls of template functions are not checked, so templates using
// application functions extract without registering them.
func ExtractWith(file, src string, s *Session, opts haml.Options) error {
	opts.Visitor = &ExtractionCompiler{Session: s, File: file}
	opts.SkipFuncCheck = true

	_, err := haml.Compile(file, src, opts)

	return err
}
