// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package haml

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKinds(t *testing.T) {
	t.Parallel()

	src := "!!! 5\n%p text\nplain\n= .X\n- if .Y\n  %br\n:markdown\n  body\n"

	root, err := Parse("kinds.haml", src)
	require.NoError(t, err)

	var got []string

	root.Walk(func(n *Node) bool {
		got = append(got, n.Kind.String())

		return true
	})

	want := []string{"root", "doctype", "tag", "plain", "script", "silent_script", "tag", "filter"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("node kinds mismatch (-want +got):\n%s", diff)
	}
}

func TestParseTag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		src  string
		want Node
	}{
		{
			src:  "%p hello",
			want: Node{Kind: Tag, Line: 1, Name: "p", Value: "hello"},
		},
		{
			src:  "%p Hello #{.Name}!",
			want: Node{Kind: Tag, Line: 1, Name: "p", Value: `"Hello #{.Name}!"`, Parse: true},
		},
		{
			src:  "%p= .Name",
			want: Node{Kind: Tag, Line: 1, Name: "p", Value: ".Name", Parse: true, Evaluated: true},
		},
		{
			src:  "%p!= .Name",
			want: Node{Kind: Tag, Line: 1, Name: "p", Value: ".Name", Parse: true, Evaluated: true, Escape: EscapeOff},
		},
		{
			src:  "%p&= .Name",
			want: Node{Kind: Tag, Line: 1, Name: "p", Value: ".Name", Parse: true, Evaluated: true, Escape: EscapeOn},
		},
		{
			src: ".a.b#c",
			want: Node{Kind: Tag, Line: 1, Name: "div", Attrs: []Attr{
				{Name: "id", Value: "c"},
				{Name: "class", Value: "a b"},
			}},
		},
		{
			src: "%input(type=submit){ value => _('Upload') }",
			want: Node{
				Kind: Tag, Line: 1, Name: "input",
				Attrs:      []Attr{{Name: "type", Value: "submit"}},
				AttrHashes: []string{" value => _('Upload') "},
			},
		},
		{
			src:  "%img/",
			want: Node{Kind: Tag, Line: 1, Name: "img", SelfClose: true},
		},
	}

	for _, tt := range tests {
		root, err := Parse("tag.haml", tt.src)
		require.NoError(t, err, tt.src)
		require.Len(t, root.Children, 1)

		if diff := cmp.Diff(&tt.want, root.Children[0], cmp.AllowUnexported(Node{})); diff != "" {
			t.Errorf("%q mismatch (-want +got):\n%s", tt.src, diff)
		}
	}
}

func TestParseFilterBody(t *testing.T) {
	t.Parallel()

	src := "%div\n  :javascript\n    a();\n\n      b();\n  %p after\n"

	root, err := Parse("filter.haml", src)
	require.NoError(t, err)

	div := root.Children[0]
	require.Len(t, div.Children, 2)

	f := div.Children[0]
	assert.Equal(t, Filter, f.Kind)
	assert.Equal(t, "javascript", f.Name)
	assert.Equal(t, 2, f.Line)
	assert.Equal(t, "a();\n\n  b();\n", f.Text)
	assert.Equal(t, []string{"a();", "", "  b();"}, FilterLines(f))

	assert.Equal(t, 6, div.Children[1].Line)
}

func TestParseElseChain(t *testing.T) {
	t.Parallel()

	root, err := Parse("else.haml", "- if .A\n  a\n- else\n  b\n- if .B\n  c\n")
	require.NoError(t, err)
	require.Len(t, root.Children, 3)

	assert.True(t, root.Children[0].chained)
	assert.False(t, root.Children[1].chained)
	assert.False(t, root.Children[2].chained)
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		line int
	}{
		{name: "nested in plain", src: "hello\n  world\n", line: 2},
		{name: "nested with inline content", src: "%p hi\n  %b there\n", line: 2},
		{name: "nested in self-closing", src: "%br/\n  x\n", line: 2},
		{name: "nested in script", src: "= .X\n  y\n", line: 2},
		{name: "empty script", src: "%p\n  =\n", line: 2},
		{name: "empty silent script", src: "-\n", line: 1},
		{name: "missing class name", src: "%p.\n", line: 1},
		{name: "unbalanced attributes", src: "%p(a='b'\n", line: 1},
		{name: "garbage after tag", src: "%p.a$\n", line: 1},
	}

	for _, tt := range tests {
		_, err := Parse("bad.haml", tt.src)

		var se *SyntaxError
		if !assert.ErrorAs(t, err, &se, tt.name) {
			continue
		}

		assert.Equal(t, tt.line, se.Line, tt.name)
		assert.Equal(t, "bad.haml", se.File, tt.name)
	}
}

func TestSilentCommentSwallowsBlock(t *testing.T) {
	t.Parallel()

	root, err := Parse("c.haml", "-# hidden\n  %p nope\n%p yes\n")
	require.NoError(t, err)
	require.Len(t, root.Children, 1)
	assert.Equal(t, "yes", root.Children[0].Value)
	assert.Equal(t, 3, root.Children[0].Line)
}

func TestParseAttrHash(t *testing.T) {
	t.Parallel()

	got, err := ParseAttrHash(`:a => "x", b: 'it\'s', "c" => .C, d: true, e: false, f: nil, g: printf "%d,%d" 1 2`)
	require.NoError(t, err)

	want := []Attr{
		{Name: "a", Value: "x"},
		{Name: "b", Value: "it's"},
		{Name: "c", Value: ".C", Expr: true},
		{Name: "d", Value: "d"},
		{Name: "g", Value: `printf "%d,%d" 1 2`, Expr: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("attributes mismatch (-want +got):\n%s", diff)
	}

	_, err = ParseAttrHash("nonsense")
	assert.Error(t, err)
}

func TestSplitLines(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"a", "b", "c", ""}, SplitLines("a\r\nb\rc\n"))
}
