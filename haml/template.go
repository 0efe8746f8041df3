// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package haml

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/template"
	"text/template/parse"

	"github.com/a-h/templ"
	"github.com/yuin/goldmark"
)

// Format selects the markup flavour of the generated document.
type Format int

const (
	FormatHTML5 Format = iota
	FormatXHTML
)

// Options controls compilation.
type Options struct {
	Format Format

	// EscapeHTML escapes the output of '=' and of #{...} in plain text.
	EscapeHTML bool

	// Visitor, when set, is offered every node before default compilation.
	Visitor Visitor

	// Funcs are added to the template after DefaultFuncs and may override them.
	Funcs template.FuncMap

	// SkipFuncCheck accepts calls of functions missing from Funcs. Such a
	// template still fails when executed, so it is only useful for
	// inspecting the compiled source.
	SkipFuncCheck bool
}

// Template is a compiled template.
type Template struct {
	name   string
	source string
	tmpl   *template.Template
}

// Compile parses and compiles src. Syntax errors are returned as
// *SyntaxError; errors in the generated template source come from
// text/template unchanged.
func Compile(name, src string, opts Options) (*Template, error) {
	root, err := Parse(name, src)
	if err != nil {
		return nil, err
	}

	c := newCompiler(name, opts)
	if err := c.Node(root); err != nil {
		return nil, err
	}

	source := c.buf.String()

	tmpl, err := parseSource(name, source, opts)
	if err != nil {
		return nil, err
	}

	return &Template{name: name, source: source, tmpl: tmpl}, nil
}

func parseSource(name, source string, opts Options) (*template.Template, error) {
	tmpl := template.New(name).Funcs(DefaultFuncs()).Funcs(opts.Funcs)
	if !opts.SkipFuncCheck {
		return tmpl.Parse(source)
	}

	tree := parse.New(name)
	tree.Mode = parse.SkipFuncCheck

	trees := make(map[string]*parse.Tree)
	if _, err := tree.Parse(source, "", "", trees); err != nil {
		return nil, err
	}

	for n, t := range trees {
		if _, err := tmpl.AddParseTree(n, t); err != nil {
			return nil, err
		}
	}

	return tmpl, nil
}

// Name returns the template name given to Compile.
func (t *Template) Name() string { return t.name }

// Source returns the generated text/template source.
func (t *Template) Source() string { return t.source }

// Execute renders the template with data into w.
func (t *Template) Execute(w io.Writer, data any) error {
	if err := t.tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("render %s: %w", t.name, err)
	}

	return nil
}

// Render renders the template with data and returns the output.
func (t *Template) Render(data any) (string, error) {
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		return "", err
	}

	return b.String(), nil
}

// Component adapts the template to a templ component so it can be embedded
// in templ views.
func (t *Template) Component(data any) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return t.Execute(w, data)
	})
}

// DefaultFuncs returns the functions every compiled template can call.
//
//   - _ formats its arguments into the message without translating it.
//   - markdown renders markdown to HTML.
//   - jsstring quotes a string as a JavaScript string literal.
func DefaultFuncs() template.FuncMap {
	return template.FuncMap{
		"_":        Sprintf,
		"markdown": RenderMarkdown,
		"jsstring": JSString,
	}
}

// Sprintf formats msg with args, returning msg unchanged when there are no
// arguments.
func Sprintf(msg string, args ...any) string {
	if len(args) == 0 {
		return msg
	}

	return fmt.Sprintf(msg, args...)
}

// RenderMarkdown converts markdown source to HTML.
func RenderMarkdown(src string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("markdown: %w", err)
	}

	return buf.String(), nil
}

// JSString returns s as a double-quoted JavaScript string literal that is
// safe to place inside a script element.
func JSString(s string) string {
	// json.Marshal escapes <, > and & and never fails for strings.
	b, _ := json.Marshal(s)

	return string(b)
}
