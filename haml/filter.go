// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package haml

import (
	"strconv"
	"strings"
)

// Filter names understood by the compiler.
const (
	FilterPlain      = "plain"
	FilterJavaScript = "javascript"
	FilterCSS        = "css"
	FilterMarkdown   = "markdown"
	FilterMaruku     = "maruku"
)

func (c *Compiler) filter(n *Node) error {
	switch n.Name {
	case FilterPlain:
		for _, line := range FilterLines(n) {
			c.WriteLine(c.Interpolate(line, false))
		}
	case FilterJavaScript:
		c.JavaScript(n, func(line string) string { return c.Interpolate(line, false) })
	case FilterCSS:
		c.WriteLine("<style>")
		c.depth++

		for _, line := range FilterLines(n) {
			c.WriteLine(c.Interpolate(line, false))
		}

		c.depth--
		c.WriteLine("</style>")
	case FilterMarkdown, FilterMaruku:
		c.Markdown(MarkdownSource(n))
	default:
		return &SyntaxError{File: c.file, Line: n.Line, Msg: "filter \"" + n.Name + "\" is not defined"}
	}

	return nil
}

// FilterLines returns the body lines of a filter node, without the final
// line terminator.
func FilterLines(n *Node) []string {
	if n.Text == "" {
		return nil
	}

	return strings.Split(strings.TrimSuffix(n.Text, "\n"), "\n")
}

// JavaScript wraps the body of n in a script element, passing every body
// line through line to obtain its template source.
func (c *Compiler) JavaScript(n *Node, line func(string) string) {
	c.WriteLine("<script>")
	c.depth++

	if c.opts.Format == FormatXHTML {
		c.WriteLine("//<![CDATA[")
	}

	for _, l := range FilterLines(n) {
		c.WriteLine(line(l))
	}

	if c.opts.Format == FormatXHTML {
		c.WriteLine("//]]>")
	}

	c.depth--
	c.WriteLine("</script>")
}

// Markdown emits a call rendering the pipeline src as markdown.
func (c *Compiler) Markdown(src string) {
	c.WriteLine("{{markdown " + src + "}}")
}

// MarkdownSource returns the pipeline producing the markdown text of n. The
// body is interpolated with printf when it contains #{...} expressions.
func MarkdownSource(n *Node) string {
	var (
		format strings.Builder
		args   []string
	)

	for _, seg := range SplitInterpolation(strings.TrimRight(n.Text, " \t\r\n")) {
		if seg.IsCode() {
			format.WriteString("%v")

			args = append(args, "("+RewriteMarkers(seg.Code)+")")
		} else {
			format.WriteString(strings.ReplaceAll(seg.Text, "%", "%%"))
		}
	}

	if len(args) == 0 {
		return strconv.Quote(strings.ReplaceAll(format.String(), "%%", "%"))
	}

	return "(printf " + strconv.Quote(format.String()) + " " + strings.Join(args, " ") + ")"
}
