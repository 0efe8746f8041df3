// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package haml

// Kind identifies the syntactic category of a Node.
type Kind int

// Node kinds produced by the parser. The set is closed.
const (
	Root Kind = iota
	Plain
	Tag
	Script
	SilentScript
	Filter
	Doctype
)

var kindNames = [...]string{
	Root:         "root",
	Plain:        "plain",
	Tag:          "tag",
	Script:       "script",
	SilentScript: "silent_script",
	Filter:       "filter",
	Doctype:      "doctype",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}

	return "unknown"
}

// EscapeMode controls HTML escaping of evaluated output.
type EscapeMode int

const (
	// EscapeDefault follows Options.EscapeHTML.
	EscapeDefault EscapeMode = iota
	// EscapeOn was requested with '&'.
	EscapeOn
	// EscapeOff was requested with '!'.
	EscapeOff
)

// Attr is a single tag attribute.
//
// When Expr is true, Value holds template code evaluated at render time.
type Attr struct {
	Name  string
	Value string
	Expr  bool
}

// Node is one parsed unit of a template.
type Node struct {
	Kind Kind
	Line int

	// Text holds the content of Plain nodes, the code of Script and
	// SilentScript nodes, the body of Filter nodes and the argument of
	// Doctype nodes.
	Text string

	// Name is the tag name for Tag nodes and the filter name for Filter nodes.
	Name string

	// Value is the inline content following a tag.
	Value string

	// Parse reports that Value is a double-quoted literal containing
	// interpolation, or code when Evaluated is set.
	Parse bool

	// Evaluated reports that Value is an output expression ('=', '!=', '&=').
	Evaluated bool

	Escape EscapeMode

	Attrs []Attr

	// AttrHashes holds the raw source of each {...} attribute hash, without
	// the surrounding braces.
	AttrHashes []string

	SelfClose bool

	Children []*Node

	// chained is set on a silent script followed by an "- else" sibling.
	chained bool
}

// Walk calls fn for n and every descendant in document order. Returning
// false from fn skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}

	for _, c := range n.Children {
		c.Walk(fn)
	}
}
