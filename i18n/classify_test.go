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

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in       string
		wantText string
		wantArgs []string
	}{
		{in: "Hello world", wantText: "Hello world"},
		{in: "Hello #{.Name}!", wantText: "Hello %s!", wantArgs: []string{".Name"}},
		{
			in:       "Hello #{.A}! Welcome to #{.B}.",
			wantText: "Hello %s! Welcome to %s.",
			wantArgs: []string{".A", ".B"},
		},
		{in: "#{.A}#{.B}", wantText: "%s%s", wantArgs: []string{".A", ".B"}},
		{in: "100% sure", wantText: "100% sure"},
		{in: "#{.N} is 100%", wantText: "%s is 100%%", wantArgs: []string{".N"}},
		{in: `keep \#{this}`, wantText: "keep #{this}"},
	}

	for _, tt := range tests {
		text, args := Normalize(tt.in)
		if text != tt.wantText {
			t.Errorf("Normalize(%q): expected text %q, got %q", tt.in, tt.wantText, text)
		}

		assert.Equal(t, tt.wantArgs, args, tt.in)
	}
}

func parseOne(t *testing.T, src string) *haml.Node {
	t.Helper()

	root, err := haml.Parse("t.haml", src)
	require.NoError(t, err)
	require.NotEmpty(t, root.Children)

	return root.Children[0]
}

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want []Candidate
	}{
		{
			name: "plain text",
			src:  "Just text",
			want: []Candidate{{Text: "Just text", Line: 1}},
		},
		{
			name: "literal tag",
			src:  "%p Just text",
			want: []Candidate{{Text: "Just text", Line: 1}},
		},
		{
			name: "quoted literal tag",
			src:  "%p Hi #{.Name}",
			want: []Candidate{{Text: "Hi %s", Args: []string{".Name"}, Line: 1}},
		},
		{name: "evaluated tag", src: "%p= .Name"},
		{name: "unescaped evaluated tag", src: "%p!= .Name"},
		{name: "escaped evaluated tag", src: "%p&= .Name"},
		{name: "empty tag", src: "%p"},
		{name: "doctype", src: "!!! 5"},
		{name: "script", src: "= .Name"},
		{name: "silent script", src: "- if .Name"},
		{
			name: "marker in evaluated tag",
			src:  `%p= printf "%s" _('Marked')`,
			want: []Candidate{{Text: "Marked", Line: 1}},
		},
		{
			name: "marker in attribute hash",
			src:  "%input(type=submit){ value => _('Upload') }",
			want: []Candidate{{Text: "Upload", Line: 1}},
		},
		{
			name: "html attribute expression without marker",
			src:  "%a(title=$t href='/') x",
			want: []Candidate{{Text: "x", Line: 1}},
		},
		{
			name: "literal text before markers",
			src:  "%a{title: _('Tip')} Click #{.X}",
			want: []Candidate{
				{Text: "Click %s", Args: []string{".X"}, Line: 1},
				{Text: "Tip", Line: 1},
			},
		},
		{
			name: "literal value is not scanned for markers",
			src:  "%p _('not code')",
			want: []Candidate{{Text: "_('not code')", Line: 1}},
		},
		{
			name: "marker inside interpolation",
			src:  "Say #{_('Cheese')}",
			want: []Candidate{
				{Text: "Say %s", Args: []string{"_('Cheese')"}, Line: 1},
				{Text: "Cheese", Line: 1},
			},
		},
		{
			name: "marker in silent script",
			src:  "- if eq .X _('It\\'s')",
			want: []Candidate{{Text: "It's", Line: 1}},
		},
		{
			name: "markdown filter",
			src:  ":markdown\n  # Head\n\n  Body\n\n",
			want: []Candidate{{Text: "# Head\n\nBody", Line: 1}},
		},
		{
			name: "maruku filter",
			src:  ":maruku\n  *Body*\n",
			want: []Candidate{{Text: "*Body*", Line: 1}},
		},
		{
			name: "plain filter",
			src:  ":plain\n  not translated\n",
		},
	}

	for _, tt := range tests {
		got := Classify(parseOne(t, tt.src))
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("%s: candidates mismatch (-want +got):\n%s", tt.name, diff)
		}
	}
}

func TestJavaScriptMarkers(t *testing.T) {
	t.Parallel()

	src := ":javascript\n" +
		"  var a = _('First line');\n" +
		"  var b = _(\"Second line\"), c = _('it\\'s');\n" +
		"  var d = _(\"say 'hi'\") + _('say \"hi\"');\n" +
		"  var e = _('bad \\x41 escape');\n" +
		"  var f = x_('prefixed');\n"

	n := parseOne(t, "%div\n"+indent(src))
	require.Len(t, n.Children, 1)

	got := JavaScript(n.Children[0])
	want := []Candidate{
		{Text: "First line", Line: 3},
		{Text: "Second line", Line: 4},
		{Text: "it's", Line: 4},
		{Text: "say 'hi'", Line: 5},
		{Text: `say "hi"`, Line: 5},
		{Text: "prefixed", Line: 7},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("javascript candidates mismatch (-want +got):\n%s", diff)
	}
}

func indent(s string) string {
	var out []byte

	start := true

	for i := 0; i < len(s); i++ {
		if start && s[i] != '\n' {
			out = append(out, ' ', ' ')
		}

		out = append(out, s[i])
		start = s[i] == '\n'
	}

	return string(out)
}
