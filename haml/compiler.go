// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package haml

import (
	"html"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// Visitor is the compiler extension point. Visit is called for every node
// before default compilation; returning handled=true means the visitor has
// emitted the node's output itself and the default step is skipped.
type Visitor interface {
	Visit(c *Compiler, n *Node) (handled bool, err error)
}

// Compiler turns a node tree into text/template source.
type Compiler struct {
	file  string
	opts  Options
	buf   strings.Builder
	depth int
}

func newCompiler(file string, opts Options) *Compiler {
	return &Compiler{file: file, opts: opts}
}

// File returns the name of the template being compiled.
func (c *Compiler) File() string { return c.file }

// Options returns the options the compiler was created with.
func (c *Compiler) Options() Options { return c.opts }

// Node compiles n, giving the visitor the first chance to handle it.
func (c *Compiler) Node(n *Node) error {
	if c.opts.Visitor != nil && n.Kind != Root {
		handled, err := c.opts.Visitor.Visit(c, n)
		if err != nil || handled {
			return err
		}
	}

	return c.Default(n)
}

// Children compiles the children of n in order.
func (c *Compiler) Children(n *Node) error {
	for _, child := range n.Children {
		if err := c.Node(child); err != nil {
			return err
		}
	}

	return nil
}

// Default compiles n the way the engine does without any visitor. Children
// are still offered to the visitor.
func (c *Compiler) Default(n *Node) error {
	switch n.Kind {
	case Root:
		return c.Children(n)
	case Plain:
		c.WriteLine(c.Interpolate(n.Text, c.Escapes(EscapeDefault)))
	case Tag:
		return c.Tag(n, c.tagContent(n))
	case Script:
		c.WriteLine(c.Expr(n.Text, c.Escapes(n.Escape)))
	case SilentScript:
		c.Write("{{" + RewriteMarkers(n.Text) + "}}")

		if err := c.Children(n); err != nil {
			return err
		}

		if blockKeywords[firstWord(n.Text)] && !n.chained {
			c.Write("{{end}}")
		}
	case Filter:
		return c.filter(n)
	case Doctype:
		c.WriteLine(c.doctype(n.Text))
	}

	return nil
}

var blockKeywords = map[string]bool{
	"if":     true,
	"else":   true,
	"range":  true,
	"with":   true,
	"block":  true,
	"define": true,
}

// Escapes resolves an escape mode against the compiler options.
func (c *Compiler) Escapes(m EscapeMode) bool {
	switch m {
	case EscapeOn:
		return true
	case EscapeOff:
		return false
	default:
		return c.opts.EscapeHTML
	}
}

// Indent returns the indentation of the current nesting level.
func (c *Compiler) Indent() string {
	return strings.Repeat("  ", c.depth)
}

// Write appends raw template source.
func (c *Compiler) Write(src string) {
	c.buf.WriteString(src)
}

// WriteLine appends src on its own indented line.
func (c *Compiler) WriteLine(src string) {
	c.buf.WriteString(c.Indent())
	c.buf.WriteString(src)
	c.buf.WriteByte('\n')
}

// Expr returns the template action printing the value of code.
func (c *Compiler) Expr(code string, escape bool) string {
	return "{{" + Pipeline(code, escape) + "}}"
}

// Pipeline returns code as a template pipeline, HTML-escaped if requested.
func Pipeline(code string, escape bool) string {
	code = RewriteMarkers(code)
	if escape {
		return "html (" + code + ")"
	}

	return code
}

// Interpolate returns the template source for text with #{...} expressions.
func (c *Compiler) Interpolate(text string, escape bool) string {
	var b strings.Builder

	for _, seg := range SplitInterpolation(text) {
		if seg.IsCode() {
			b.WriteString(c.Expr(seg.Code, escape))
		} else {
			b.WriteString(Literal(seg.Text))
		}
	}

	return b.String()
}

// Literal quotes s so that it is copied verbatim by text/template.
func Literal(s string) string {
	s = strings.ReplaceAll(s, "{{", "{{`{{`}}")
	if strings.HasSuffix(s, "{") {
		s = s[:len(s)-1] + "{{`{`}}"
	}

	return s
}

var markerCall = regexp.MustCompile(`_\('((?:[^'\\]|\\.)*)'\)`)

// RewriteMarkers turns the _('text') call syntax into the template call
// (_ "text").
func RewriteMarkers(code string) string {
	return markerCall.ReplaceAllStringFunc(code, func(m string) string {
		return "(_ " + strconv.Quote(unquote(m[2:len(m)-1])) + ")"
	})
}

// MarkerTexts returns the argument of every _('text') call in code, in
// order, with \' and \\ resolved.
func MarkerTexts(code string) []string {
	var out []string

	for _, m := range markerCall.FindAllStringSubmatch(code, -1) {
		out = append(out, unquote("'"+m[1]+"'"))
	}

	return out
}

func (c *Compiler) tagContent(n *Node) string {
	switch {
	case n.Value == "":
		return ""
	case n.Evaluated:
		return c.Expr(n.Value, c.Escapes(n.Escape))
	case n.Parse:
		return c.Interpolate(n.Value[1:len(n.Value)-1], c.Escapes(n.Escape))
	default:
		return Literal(n.Value)
	}
}

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// Tag compiles the element n. When content is not empty it is placed inline
// as the element body; otherwise the children of n are compiled inside it.
func (c *Compiler) Tag(n *Node, content string) error {
	attrs, err := c.attributes(n)
	if err != nil {
		return err
	}

	open := "<" + n.Name + attrs

	switch {
	case content != "":
		c.WriteLine(open + ">" + content + "</" + n.Name + ">")
	case len(n.Children) > 0:
		c.WriteLine(open + ">")
		c.depth++

		if err := c.Children(n); err != nil {
			return err
		}

		c.depth--
		c.WriteLine("</" + n.Name + ">")
	case n.SelfClose || voidElements[n.Name]:
		if c.opts.Format == FormatXHTML {
			c.WriteLine(open + " />")
		} else {
			c.WriteLine(open + ">")
		}
	default:
		c.WriteLine(open + "></" + n.Name + ">")
	}

	return nil
}

func (c *Compiler) attributes(n *Node) (string, error) {
	all := slices.Clone(n.Attrs)

	for _, h := range n.AttrHashes {
		attrs, err := ParseAttrHash(h)
		if err != nil {
			return "", &SyntaxError{File: c.file, Line: n.Line, Msg: err.Error()}
		}

		all = append(all, attrs...)
	}

	var (
		names  []string
		values = map[string][]string{}
	)

	for _, a := range all {
		src := c.attrValue(a)

		if _, seen := values[a.Name]; !seen {
			names = append(names, a.Name)
		}

		switch a.Name {
		case "class", "id":
			values[a.Name] = append(values[a.Name], src)
		default:
			values[a.Name] = []string{src}
		}
	}

	slices.Sort(names)

	var b strings.Builder

	for _, name := range names {
		sep := " "
		if name == "id" {
			sep = "_"
		}

		b.WriteString(" " + name + "='" + strings.Join(values[name], sep) + "'")
	}

	return b.String(), nil
}

func (c *Compiler) attrValue(a Attr) string {
	if a.Expr {
		return c.Expr(a.Value, true)
	}

	var b strings.Builder

	for _, seg := range SplitInterpolation(a.Value) {
		if seg.IsCode() {
			b.WriteString(c.Expr(seg.Code, true))
		} else {
			b.WriteString(Literal(html.EscapeString(seg.Text)))
		}
	}

	return b.String()
}

func (c *Compiler) doctype(arg string) string {
	switch strings.ToLower(arg) {
	case "xml":
		return "<?xml version='1.0' encoding='utf-8' ?>"
	case "strict":
		return `<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Strict//EN" "http://www.w3.org/TR/xhtml1/DTD/xhtml1-strict.dtd">`
	case "":
		if c.opts.Format == FormatXHTML {
			return `<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Transitional//EN" "http://www.w3.org/TR/xhtml1/DTD/xhtml1-transitional.dtd">`
		}
	}

	return "<!DOCTYPE html>"
}
