// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package haml

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// SyntaxError reports malformed template source.
type SyntaxError struct {
	File string
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Msg)
}

var lineBreak = regexp.MustCompile(`\r\n|\r|\n`)

// SplitLines splits s on any of the usual line terminators.
func SplitLines(s string) []string {
	return lineBreak.Split(s, -1)
}

type parser struct {
	file  string
	lines []string
}

type frame struct {
	node   *Node
	indent int
}

// Parse parses template source into a tree rooted at a node of kind Root.
// The file name is only used in error messages.
func Parse(file, src string) (*Node, error) {
	p := &parser{file: file, lines: SplitLines(src)}

	return p.parse()
}

func (p *parser) errorf(line int, format string, args ...any) error {
	return &SyntaxError{File: p.file, Line: line, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) parse() (*Node, error) {
	root := &Node{Kind: Root}
	stack := []frame{{node: root, indent: -1}}

	for i := 0; i < len(p.lines); i++ {
		raw := p.lines[i]
		if strings.TrimSpace(raw) == "" {
			continue
		}

		line := i + 1
		indent := indentOf(raw)
		content := strings.TrimSpace(raw)

		for len(stack) > 1 && stack[len(stack)-1].indent >= indent {
			stack = stack[:len(stack)-1]
		}

		parent := stack[len(stack)-1].node

		// Silent comments swallow everything nested below them.
		if strings.HasPrefix(content, "-#") {
			_, i = p.block(i, indent)
			i--

			continue
		}

		if err := p.checkNesting(parent, line); err != nil {
			return nil, err
		}

		n, err := p.parseLine(content, line)
		if err != nil {
			return nil, err
		}

		if n.Kind == Filter {
			var body []string

			body, i = p.block(i, indent)
			i--

			if len(body) > 0 {
				n.Text = strings.Join(body, "\n") + "\n"
			}
		}

		parent.Children = append(parent.Children, n)
		stack = append(stack, frame{node: n, indent: indent})
	}

	markChains(root)

	return root, nil
}

func (p *parser) checkNesting(parent *Node, line int) error {
	switch parent.Kind {
	case Root, SilentScript:
		return nil
	case Tag:
		if parent.Value != "" {
			return p.errorf(line, "illegal nesting: content can't be both given on the same line as %%%s and nested within it", parent.Name)
		}

		if parent.SelfClose {
			return p.errorf(line, "illegal nesting: nesting within a self-closing tag is illegal")
		}

		return nil
	case Plain:
		return p.errorf(line, "illegal nesting: nesting within plain text is illegal")
	case Doctype:
		return p.errorf(line, "illegal nesting: nesting within a header command is illegal")
	default:
		return p.errorf(line, "illegal nesting: nesting within a %s line is illegal", parent.Kind)
	}
}

// block collects the lines nested deeper than indent below line i, with their
// common indentation removed. Trailing blank lines are not part of the block.
// It returns the lines and the index of the first line after the block.
func (p *parser) block(i, indent int) ([]string, int) {
	last := i

	for j := i + 1; j < len(p.lines); j++ {
		if strings.TrimSpace(p.lines[j]) == "" {
			continue
		}

		if indentOf(p.lines[j]) <= indent {
			break
		}

		last = j
	}

	end := last + 1
	raw := p.lines[i+1 : end]

	strip := -1

	for _, l := range raw {
		if strings.TrimSpace(l) == "" {
			continue
		}

		if n := indentOf(l); strip < 0 || n < strip {
			strip = n
		}
	}

	out := make([]string, len(raw))

	for k, l := range raw {
		if strings.TrimSpace(l) == "" {
			continue
		}

		out[k] = strings.TrimRight(l[strip:], " \t")
	}

	return out, end
}

func (p *parser) parseLine(s string, line int) (*Node, error) {
	switch {
	case strings.HasPrefix(s, "!!!"):
		return &Node{Kind: Doctype, Line: line, Text: strings.TrimSpace(s[3:])}, nil
	case s[0] == '%':
		return p.parseTag(s, line)
	case (s[0] == '.' || s[0] == '#') && len(s) > 1 && isNameChar(s[1]):
		return p.parseTag(s, line)
	case s[0] == '\\':
		return &Node{Kind: Plain, Line: line, Text: s[1:]}, nil
	case strings.HasPrefix(s, "!="):
		return p.script(s[2:], EscapeOff, line)
	case strings.HasPrefix(s, "&="):
		return p.script(s[2:], EscapeOn, line)
	case s[0] == '=':
		return p.script(s[1:], EscapeDefault, line)
	case s[0] == '-':
		code := strings.TrimSpace(s[1:])
		if code == "" {
			return nil, p.errorf(line, "there's no code for - to run")
		}

		return &Node{Kind: SilentScript, Line: line, Text: code}, nil
	case s[0] == ':':
		name := strings.TrimSpace(s[1:])
		if name == "" {
			return nil, p.errorf(line, "filter name is missing")
		}

		return &Node{Kind: Filter, Line: line, Name: name}, nil
	default:
		return &Node{Kind: Plain, Line: line, Text: s}, nil
	}
}

func (p *parser) script(code string, esc EscapeMode, line int) (*Node, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, p.errorf(line, "there's no code for = to evaluate")
	}

	return &Node{Kind: Script, Line: line, Text: code, Escape: esc}, nil
}

func (p *parser) parseTag(s string, line int) (*Node, error) {
	n := &Node{Kind: Tag, Line: line, Name: "div"}
	i := 0

	if s[0] == '%' {
		j := scanTagName(s, 1)
		if j == 1 {
			return nil, p.errorf(line, "invalid tag: %q", s)
		}

		n.Name = s[1:j]
		i = j
	}

	var (
		classes []string
		id      string
	)

	for i < len(s) && (s[i] == '.' || s[i] == '#') {
		j := i + 1
		for j < len(s) && isNameChar(s[j]) {
			j++
		}

		if j == i+1 {
			return nil, p.errorf(line, "illegal element: classes and ids must have values")
		}

		if s[i] == '.' {
			classes = append(classes, s[i+1:j])
		} else {
			id = s[i+1 : j]
		}

		i = j
	}

	if id != "" {
		n.Attrs = append(n.Attrs, Attr{Name: "id", Value: id})
	}

	if len(classes) > 0 {
		n.Attrs = append(n.Attrs, Attr{Name: "class", Value: strings.Join(classes, " ")})
	}

	for i < len(s) && (s[i] == '(' || s[i] == '{') {
		end := matchBracket(s, i)
		if end < 0 {
			return nil, p.errorf(line, "unbalanced brackets")
		}

		inner := s[i+1 : end]

		if s[i] == '(' {
			attrs, err := parseHTMLAttrs(inner)
			if err != nil {
				return nil, p.errorf(line, "%v", err)
			}

			n.Attrs = append(n.Attrs, attrs...)
		} else {
			n.AttrHashes = append(n.AttrHashes, inner)
		}

		i = end + 1
	}

	// Whitespace removal markers are accepted and ignored.
	for i < len(s) && (s[i] == '<' || s[i] == '>') {
		i++
	}

	if i < len(s) && s[i] == '/' {
		n.SelfClose = true
		i++
	}

	rest := s[i:]

	switch {
	case strings.HasPrefix(rest, "!="):
		n.Evaluated, n.Escape, rest = true, EscapeOff, rest[2:]
	case strings.HasPrefix(rest, "&="):
		n.Evaluated, n.Escape, rest = true, EscapeOn, rest[2:]
	case strings.HasPrefix(rest, "="):
		n.Evaluated, rest = true, rest[1:]
	case strings.HasPrefix(rest, "!"):
		n.Escape, rest = EscapeOff, rest[1:]
	case strings.HasPrefix(rest, "&"):
		n.Escape, rest = EscapeOn, rest[1:]
	case rest != "" && rest[0] != ' ' && rest[0] != '\t':
		return nil, p.errorf(line, "illegal element: %q", s)
	}

	value := strings.TrimSpace(rest)

	switch {
	case n.Evaluated:
		if value == "" {
			return nil, p.errorf(line, "there's no code for = to evaluate")
		}

		n.Value, n.Parse = value, true
	case HasInterpolation(value):
		n.Value, n.Parse = `"`+value+`"`, true
	default:
		n.Value = value
	}

	if n.SelfClose && n.Value != "" {
		return nil, p.errorf(line, "self-closing tags can't have content")
	}

	return n, nil
}

// markChains flags silent scripts whose block is continued by a following
// "- else" sibling, so that the compiler does not close them.
func markChains(n *Node) {
	for i, c := range n.Children {
		if c.Kind == SilentScript && i+1 < len(n.Children) {
			next := n.Children[i+1]
			c.chained = next.Kind == SilentScript && firstWord(next.Text) == "else"
		}

		markChains(c)
	}
}

func parseHTMLAttrs(s string) ([]Attr, error) {
	var attrs []Attr

	i := 0

	for {
		i = skipSpace(s, i)
		if i >= len(s) {
			return attrs, nil
		}

		j := i
		for j < len(s) && isAttrNameChar(s[j]) {
			j++
		}

		if j == i {
			return nil, fmt.Errorf("invalid attribute list: %q", s)
		}

		name := s[i:j]

		i = skipSpace(s, j)
		if i >= len(s) || s[i] != '=' {
			attrs = append(attrs, Attr{Name: name, Value: name})

			continue
		}

		i = skipSpace(s, i+1)
		if i >= len(s) {
			return nil, fmt.Errorf("invalid attribute list: missing value for %s", name)
		}

		if s[i] == '"' || s[i] == '\'' {
			end := skipQuoted(s, i)
			if end < 0 {
				return nil, fmt.Errorf("invalid attribute list: unterminated string for %s", name)
			}

			attrs = append(attrs, Attr{Name: name, Value: unquote(s[i : end+1])})
			i = end + 1

			continue
		}

		j = i
		for j < len(s) && s[j] != ' ' && s[j] != '\t' {
			j++
		}

		v := s[i:j]
		attrs = append(attrs, Attr{Name: name, Value: v, Expr: v[0] == '.' || v[0] == '$'})
		i = j
	}
}

// ParseAttrHash parses the source of a {...} attribute hash, given without
// braces. Entries are written "key => value" or "key: value". Quoted values
// are literals, true makes a boolean attribute, false and nil drop the
// attribute, anything else is code.
func ParseAttrHash(src string) ([]Attr, error) {
	var attrs []Attr

	for _, entry := range splitTopLevel(src, ',') {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		var key, val string

		if k := indexTopLevel(entry, "=>"); k >= 0 {
			key, val = strings.TrimSpace(entry[:k]), strings.TrimSpace(entry[k+2:])
		} else if k := strings.IndexByte(entry, ':'); k > 0 && isIdent(entry[:k]) {
			key, val = entry[:k], strings.TrimSpace(entry[k+1:])
		} else {
			return nil, fmt.Errorf("invalid attribute hash entry: %q", entry)
		}

		key = strings.TrimPrefix(key, ":")
		if len(key) >= 2 && (key[0] == '"' || key[0] == '\'') {
			key = unquote(key)
		}

		if key == "" || val == "" {
			return nil, fmt.Errorf("invalid attribute hash entry: %q", entry)
		}

		switch {
		case val == "true":
			attrs = append(attrs, Attr{Name: key, Value: key})
		case val == "false" || val == "nil":
		case (val[0] == '"' || val[0] == '\'') && skipQuoted(val, 0) == len(val)-1:
			attrs = append(attrs, Attr{Name: key, Value: unquote(val)})
		default:
			attrs = append(attrs, Attr{Name: key, Value: val, Expr: true})
		}
	}

	return attrs, nil
}

// unquote strips the quotes from a single- or double-quoted literal and
// resolves backslash escapes of the quote character and of backslash.
func unquote(s string) string {
	if s[0] == '"' {
		if v, err := strconv.Unquote(s); err == nil {
			return v
		}
	}

	q := s[0]
	body := s[1 : len(s)-1]

	var b strings.Builder

	for i := 0; i < len(body); i++ {
		if body[i] == '\\' && i+1 < len(body) && (body[i+1] == q || body[i+1] == '\\') {
			i++
		}

		b.WriteByte(body[i])
	}

	return b.String()
}

func matchBracket(s string, i int) int {
	open := s[i]

	closer := byte(')')
	if open == '{' {
		closer = '}'
	}

	depth := 0

	for j := i; j < len(s); j++ {
		switch s[j] {
		case '"', '\'':
			k := skipQuoted(s, j)
			if k < 0 {
				return -1
			}

			j = k
		case open:
			depth++
		case closer:
			depth--
			if depth == 0 {
				return j
			}
		}
	}

	return -1
}

func splitTopLevel(s string, sep byte) []string {
	var (
		parts []string
		depth int
		start int
	)

	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '"' || c == '\'':
			if k := skipQuoted(s, i); k >= 0 {
				i = k
			}
		case c == '(' || c == '[' || c == '{':
			depth++
		case c == ')' || c == ']' || c == '}':
			depth--
		case c == sep && depth == 0:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}

	return append(parts, s[start:])
}

func indexTopLevel(s, sub string) int {
	depth := 0

	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '"' || c == '\'':
			if k := skipQuoted(s, i); k >= 0 {
				i = k
			}
		case c == '(' || c == '[' || c == '{':
			depth++
		case c == ')' || c == ']' || c == '}':
			depth--
		case depth == 0 && strings.HasPrefix(s[i:], sub):
			return i
		}
	}

	return -1
}

func indentOf(s string) int {
	n := 0
	for n < len(s) && (s[n] == ' ' || s[n] == '\t') {
		n++
	}

	return n
}

func skipSpace(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}

	return i
}

func firstWord(s string) string {
	if f := strings.Fields(s); len(f) > 0 {
		return f[0]
	}

	return ""
}

func scanTagName(s string, i int) int {
	for i < len(s) && (isNameChar(s[i]) || s[i] == ':') {
		i++
	}

	return i
}

func isNameChar(c byte) bool {
	return c == '-' || c == '_' || isAlnum(c)
}

func isAttrNameChar(c byte) bool {
	return isNameChar(c) || c == ':' || c == '@'
}

func isAlnum(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}

	for i := 0; i < len(s); i++ {
		if !isNameChar(s[i]) {
			return false
		}
	}

	return true
}
