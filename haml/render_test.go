// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package haml

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"
)

var renderData = map[string]any{
	"document":   map[string]any{"Name": "World"},
	"control":    map[string]any{"Admin": false, "Items": []string{"a", "b"}},
	"attributes": map[string]any{"Title": "A&B"},
}

// TestRenderGolden renders every template in testdata/render.txtar and
// compares the result with the HTML stored next to it.
func TestRenderGolden(t *testing.T) {
	t.Parallel()

	ar, err := txtar.ParseFile("testdata/render.txtar")
	require.NoError(t, err)

	want := map[string]string{}
	for _, f := range ar.Files {
		if name, ok := strings.CutSuffix(f.Name, ".html"); ok {
			want[name] = string(f.Data)
		}
	}

	for _, f := range ar.Files {
		name, ok := strings.CutSuffix(f.Name, ".haml")
		if !ok {
			continue
		}

		t.Run(name, func(t *testing.T) {
			t.Parallel()

			tmpl, err := Compile(f.Name, string(f.Data), Options{})
			require.NoError(t, err)

			got, err := tmpl.Render(renderData[name])
			require.NoError(t, err)
			assert.Equal(t, want[name], got, "generated source:\n%s", tmpl.Source())
		})
	}
}

func TestEscapeHTML(t *testing.T) {
	t.Parallel()

	src := "%p= .X\n%p!= .X\n%p&= .X\n= .X\n%p Hi #{.X}\n"
	data := map[string]string{"X": "<b>"}

	tests := []struct {
		escape bool
		want   string
	}{
		{
			escape: false,
			want:   "<p><b></p>\n<p><b></p>\n<p>&lt;b&gt;</p>\n<b>\n<p>Hi <b></p>\n",
		},
		{
			escape: true,
			want:   "<p>&lt;b&gt;</p>\n<p><b></p>\n<p>&lt;b&gt;</p>\n&lt;b&gt;\n<p>Hi &lt;b&gt;</p>\n",
		},
	}

	for _, tt := range tests {
		tmpl, err := Compile("escape.haml", src, Options{EscapeHTML: tt.escape})
		require.NoError(t, err)

		got, err := tmpl.Render(data)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestLiteralBraces(t *testing.T) {
	t.Parallel()

	tmpl, err := Compile("braces.haml", "%p {{ not an action }} and {\n", Options{})
	require.NoError(t, err)

	got, err := tmpl.Render(nil)
	require.NoError(t, err)
	assert.Equal(t, "<p>{{ not an action }} and {</p>\n", got)
}

func TestXHTMLFormat(t *testing.T) {
	t.Parallel()

	tmpl, err := Compile("x.haml", "!!! Strict\n%br\n%foo/\n", Options{Format: FormatXHTML})
	require.NoError(t, err)

	got, err := tmpl.Render(nil)
	require.NoError(t, err)
	assert.Contains(t, got, "XHTML 1.0 Strict")
	assert.Contains(t, got, "<br />\n<foo />\n")
}

func TestMarkerSugar(t *testing.T) {
	t.Parallel()

	src := `%input{value: _('It\'s here')}` + "\n" + `%p= printf "%s!" _('Hi')` + "\n"

	tmpl, err := Compile("sugar.haml", src, Options{})
	require.NoError(t, err)
	assert.Contains(t, tmpl.Source(), `(_ "It's here")`)

	got, err := tmpl.Render(nil)
	require.NoError(t, err)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(got))
	require.NoError(t, err)
	assert.Equal(t, "It's here", doc.Find("input").AttrOr("value", ""))
	assert.Equal(t, "Hi!", doc.Find("p").Text())
}

func TestFilters(t *testing.T) {
	t.Parallel()

	src := strings.Join([]string{
		"%div",
		"  :markdown",
		"    # Title",
		"",
		"    Some *text* for #{.Name}",
		"  :javascript",
		"    var x = #{.N};",
		"  :plain",
		"    %p not a tag",
		"  :css",
		"    p { color: red; }",
		"",
	}, "\n")

	tmpl, err := Compile("filters.haml", src, Options{})
	require.NoError(t, err)

	got, err := tmpl.Render(map[string]any{"Name": "Ann", "N": 3})
	require.NoError(t, err)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(got))
	require.NoError(t, err)
	assert.Equal(t, "Title", doc.Find("div h1").Text())
	assert.Equal(t, "text", doc.Find("div p em").Text())
	assert.Contains(t, doc.Find("div p").First().Text(), "for Ann")
	assert.Contains(t, doc.Find("script").Text(), "var x = 3;")
	assert.Contains(t, doc.Find("style").Text(), "p { color: red; }")
	assert.Contains(t, got, "%p not a tag")
}

func TestUnknownFilter(t *testing.T) {
	t.Parallel()

	_, err := Compile("f.haml", ":coffee\n  x = 1\n", Options{})

	var se *SyntaxError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 1, se.Line)
}

func TestTemplateParseErrorSurfaces(t *testing.T) {
	t.Parallel()

	_, err := Compile("bad.haml", "%p= nosuchfunc 1\n", Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nosuchfunc")
}

func TestSkipFuncCheck(t *testing.T) {
	t.Parallel()

	tmpl, err := Compile("f.haml", "%p= formatDate .Created\n", Options{SkipFuncCheck: true})
	require.NoError(t, err)
	assert.Contains(t, tmpl.Source(), "formatDate .Created")

	_, err = tmpl.Render(map[string]any{"Created": 1})
	require.Error(t, err)

	_, err = Compile("f.haml", "%p= formatDate (\n", Options{SkipFuncCheck: true})
	require.Error(t, err)
}

type tagCounter struct{ n int }

func (v *tagCounter) Visit(c *Compiler, n *Node) (bool, error) {
	if n.Kind != Tag || n.Name != "secret" {
		return false, nil
	}

	v.n++
	c.WriteLine("<!-- hidden -->")

	return true, nil
}

func TestVisitorOverridesNode(t *testing.T) {
	t.Parallel()

	v := &tagCounter{}

	tmpl, err := Compile("v.haml", "%div\n  %secret x\n  %p y\n", Options{Visitor: v})
	require.NoError(t, err)
	assert.Equal(t, 1, v.n)
	assert.Equal(t, "<div>\n  <!-- hidden -->\n  <p>y</p>\n</div>\n", tmpl.Source())
}

func TestComponent(t *testing.T) {
	t.Parallel()

	tmpl, err := Compile("c.haml", "%b= .\n", Options{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tmpl.Component("ok").Render(context.Background(), &buf))
	assert.Equal(t, "<b>ok</b>\n", buf.String())
}

func TestJSString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `"it's \"q\" \u003c/script\u003e"`, JSString(`it's "q" </script>`))
}
