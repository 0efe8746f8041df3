// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"maps"
	"strconv"
	"strings"
	"text/template"

	"codeberg.org/pixivfe/magictr/haml"
)

// TranslateFunc is the template function name translated text is passed to.
const TranslateFunc = "_"

// RuntimeCompiler rewrites translatable text into calls of the _ template
// function. Nodes without literal text are left to the engine; explicit
// _('...') markers in code are turned into the same call by the engine.
type RuntimeCompiler struct {
	// Next, when set, is offered every node the compiler does not rewrite.
	Next haml.Visitor
}

// Visit implements haml.Visitor.
func (r *RuntimeCompiler) Visit(c *haml.Compiler, n *haml.Node) (bool, error) {
	switch n.Kind {
	case haml.Plain:
		if cand, ok := Literal(n); ok {
			c.WriteLine(Call(cand, c.Escapes(haml.EscapeDefault)))

			return true, nil
		}
	case haml.Tag:
		if cand, ok := Literal(n); ok {
			return true, c.Tag(n, Call(cand, c.Escapes(n.Escape)))
		}
	case haml.Filter:
		switch {
		case isMarkdown(n.Name):
			if cand, ok := Literal(n); ok {
				c.Markdown("(" + pipeline(cand, false) + ")")

				return true, nil
			}
		case n.Name == haml.FilterJavaScript:
			c.JavaScript(n, func(line string) string { return javaScriptLine(c, line) })

			return true, nil
		}
	}

	if r.Next != nil {
		return r.Next.Visit(c, n)
	}

	return false, nil
}

// Call returns the template action translating cand and printing the result.
func Call(cand Candidate, escape bool) string {
	return "{{" + pipeline(cand, escape) + "}}"
}

func pipeline(cand Candidate, escape bool) string {
	var b strings.Builder

	b.WriteString(TranslateFunc + " " + strconv.Quote(cand.Text))

	for _, arg := range cand.Args {
		b.WriteString(" (" + haml.Pipeline(arg, escape) + ")")
	}

	return b.String()
}

// javaScriptLine returns the template source of one javascript filter line
// with every marker replaced by the quoted translation.
func javaScriptLine(c *haml.Compiler, line string) string {
	var (
		b    strings.Builder
		last int
	)

	for _, m := range jsMarkers(line) {
		b.WriteString(c.Interpolate(line[last:m.start], false))
		b.WriteString("{{jsstring (" + TranslateFunc + " " + strconv.Quote(m.text) + ")}}")

		last = m.end
	}

	b.WriteString(c.Interpolate(line[last:], false))

	return b.String()
}

// Compile compiles a template with the current backend. When translations
// are disabled it is exactly haml.Compile with opts; otherwise the
// RuntimeCompiler is installed in front of opts.Visitor and _ is bound to
// the backend enabled at the time of the call.
func Compile(name, src string, opts haml.Options) (*haml.Template, error) {
	b := Current()
	if b == nil {
		return haml.Compile(name, src, opts)
	}

	opts.Visitor = &RuntimeCompiler{Next: opts.Visitor}

	funcs := template.FuncMap{}
	maps.Copy(funcs, opts.Funcs)
	funcs[TranslateFunc] = b.Translate
	opts.Funcs = funcs

	return haml.Compile(name, src, opts)
}
