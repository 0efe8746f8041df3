// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/pixivfe/magictr/haml"
)

func extract(t *testing.T, src string) []Entry {
	t.Helper()

	var s Session
	require.NoError(t, Extract("t.haml", src, &s))

	return s.Entries()
}

func TestExtract(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want []Entry
	}{
		{
			name: "plain text",
			src:  "Hello world\n",
			want: []Entry{{Text: "Hello world", Locations: []string{"t.haml:1"}}},
		},
		{
			name: "literal tag behaves like plain text",
			src:  "%p Hello world\n",
			want: []Entry{{Text: "Hello world", Locations: []string{"t.haml:1"}}},
		},
		{
			name: "expression tags are not recorded",
			src:  "%p= .A\n%p!= .A\n%p&= .A\n",
			want: []Entry{},
		},
		{
			name: "interpolation",
			src:  "%p Hello #{.A}! Welcome to #{.B}.\n",
			want: []Entry{{Text: "Hello %s! Welcome to %s.", Locations: []string{"t.haml:1"}}},
		},
		{
			name: "duplicates share one entry",
			src:  "%p Same\n%div\n  %span Same\n",
			want: []Entry{{Text: "Same", Locations: []string{"t.haml:1", "t.haml:3"}}},
		},
		{
			name: "entries are sorted by text",
			src:  "b\na\nc\n",
			want: []Entry{
				{Text: "a", Locations: []string{"t.haml:2"}},
				{Text: "b", Locations: []string{"t.haml:1"}},
				{Text: "c", Locations: []string{"t.haml:3"}},
			},
		},
		{
			name: "explicit marker on an input",
			src:  "%input(type=submit){ value => _('Upload') }\n",
			want: []Entry{{Text: "Upload", Locations: []string{"t.haml:1"}}},
		},
		{
			name: "javascript filter",
			src:  ":javascript\n  _('First line')\n  _('Second line')\n",
			want: []Entry{
				{Text: "First line", Locations: []string{"t.haml:2"}},
				{Text: "Second line", Locations: []string{"t.haml:3"}},
			},
		},
		{
			name: "blocks are walked",
			src:  "- if eq .X _('Yes')\n  %p ok\n- else\n  - range .L\n    %li item\n",
			want: []Entry{
				{Text: "Yes", Locations: []string{"t.haml:1"}},
				{Text: "item", Locations: []string{"t.haml:5"}},
				{Text: "ok", Locations: []string{"t.haml:2"}},
			},
		},
		{
			name: "doctype is ignored",
			src:  "!!!\n%html\n",
			want: []Entry{},
		},
		{
			name: "markdown filter",
			src:  "%article\n  :markdown\n    # Head\n\n    Body\n",
			want: []Entry{{Text: "# Head\n\nBody", Locations: []string{"t.haml:2"}}},
		},
	}

	for _, tt := range tests {
		got := extract(t, tt.src)
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("%s: entries mismatch (-want +got):\n%s", tt.name, diff)
		}
	}
}

func TestExtractIsIdempotentAfterReset(t *testing.T) {
	t.Parallel()

	src := "%p One\n%p Two #{.X}\n%p One\n"

	var s Session
	require.NoError(t, Extract("a.haml", src, &s))

	first := s.Entries()

	s.Reset()
	assert.Equal(t, 0, s.Len())

	require.NoError(t, Extract("a.haml", src, &s))

	if diff := cmp.Diff(first, s.Entries()); diff != "" {
		t.Errorf("second run differs (-first +second):\n%s", diff)
	}
}

func TestSessionAccumulatesAcrossFiles(t *testing.T) {
	t.Parallel()

	s := NewSession()
	require.NoError(t, Extract("a.haml", "%p Shared\n", s))
	require.NoError(t, Extract("b.haml", "%p Only b\n%p Shared\n", s))

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, [][]string{
		{"Only b", "b.haml:1"},
		{"Shared", "a.haml:1", "b.haml:2"},
	}, entryStrings(s.Entries()))
}

func TestSessionMerge(t *testing.T) {
	t.Parallel()

	var a, b Session

	a.Add("x", "a:1")
	b.Add("y", "b:1")
	b.Add("x", "b:2")
	b.Add("", "b:3")

	a.Merge(&b)

	assert.Equal(t, [][]string{
		{"x", "a:1", "b:2"},
		{"y", "b:1"},
	}, entryStrings(a.Entries()))
}

func TestSessionEntriesAreCopies(t *testing.T) {
	t.Parallel()

	var s Session

	s.Add("x", "a:1")

	entries := s.Entries()
	entries[0].Locations[0] = "changed"

	assert.Equal(t, "a:1", s.Entries()[0].Locations[0])
}

func TestExtractSurfacesSyntaxErrors(t *testing.T) {
	t.Parallel()

	var s Session

	err := Extract("bad.haml", "%p Before\n%p\n  =\n", &s)

	var se *haml.SyntaxError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 3, se.Line)
}

func TestExtractAcceptsApplicationFuncs(t *testing.T) {
	t.Parallel()

	var s Session

	src := "%h1 Welcome\n%p= formatDate .Created\n%p= shout _('Loud')\n"
	require.NoError(t, Extract("page.haml", src, &s))

	assert.Equal(t, [][]string{
		{"Loud", "page.haml:3"},
		{"Welcome", "page.haml:1"},
	}, entryStrings(s.Entries()))
}

func TestExtractKeepsPercentEscapes(t *testing.T) {
	t.Parallel()

	var s Session

	require.NoError(t, Extract("p.haml", "%p 100% of #{.Total}\n%p 100% sure\n", &s))

	assert.Equal(t, [][]string{
		{"100% sure", "p.haml:2"},
		{"100%% of %s", "p.haml:1"},
	}, entryStrings(s.Entries()))
}

func entryStrings(entries []Entry) [][]string {
	out := make([][]string, len(entries))
	for i, e := range entries {
		out[i] = e.Strings()
	}

	return out
}
