// Copyright 2015 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package xmltree holds the XML document tree that validation runs
// against.  The tree is built once from a document and then annotated in
// place: the validator records each mismatch as a problem string on the
// node where it was observed, and CollectProblems gathers them back in
// document order.
package xmltree

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// A NodeKind is the kind of document node.  Comment and processing
// instruction nodes take part in the tree but count as neither element
// nor text during matching.
type NodeKind int

// Enumeration of the document node kinds.
const (
	BadNode = NodeKind(iota)
	ElementNode
	TextNode
	CommentNode
	ProcInstNode
)

func (k NodeKind) String() string {
	switch k {
	case ElementNode:
		return "element"
	case TextNode:
		return "text"
	case CommentNode:
		return "comment"
	case ProcInstNode:
		return "instruction"
	default:
		return fmt.Sprintf("node-%d", int(k))
	}
}

// A Node is a single node of the document tree.  Elements carry a name,
// an attribute map and ordered children; text, comments and processing
// instructions carry their content in Value.
type Node struct {
	Kind     NodeKind
	Name     string
	Value    string
	Attr     map[string]string
	Children []*Node
	Parent   *Node

	problems []string
}

// A Problem pairs a diagnostic message with the node it was observed on.
type Problem struct {
	Node    *Node
	Message string
}

// Element returns an element node with the given attributes and
// children.  The children's parent links are set.
func Element(name string, attr map[string]string, children ...*Node) *Node {
	if attr == nil {
		attr = map[string]string{}
	}
	n := &Node{Kind: ElementNode, Name: name, Attr: attr, Children: children}
	for _, c := range children {
		c.Parent = n
	}
	return n
}

// Text returns a text node.
func Text(value string) *Node {
	return &Node{Kind: TextNode, Value: value}
}

// AddProblem records a diagnostic on n.
func (n *Node) AddProblem(msg string) {
	n.problems = append(n.problems, msg)
}

// Problems returns the diagnostics recorded on n itself.
func (n *Node) Problems() []string {
	return n.problems
}

// ClearProblems drops all diagnostics on n and, recursively, below it.
func (n *Node) ClearProblems() {
	n.problems = nil
	for _, c := range n.Children {
		c.ClearProblems()
	}
}

// CollectProblems returns the diagnostics on n, and when recursive is
// set those of every node below it, in document order.
func (n *Node) CollectProblems(recursive bool) []Problem {
	var out []Problem
	for _, msg := range n.problems {
		out = append(out, Problem{Node: n, Message: msg})
	}
	if recursive {
		for _, c := range n.Children {
			out = append(out, c.CollectProblems(true)...)
		}
	}
	return out
}

// Path returns a /-separated element path from the document root to n,
// suitable for problem listings.
func (n *Node) Path() string {
	if n == nil {
		return ""
	}
	var parts []string
	for at := n; at != nil; at = at.Parent {
		switch at.Kind {
		case ElementNode:
			parts = append(parts, at.Name)
		case TextNode:
			parts = append(parts, "text()")
		}
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return "/" + strings.Join(parts, "/")
}

// Parse reads an XML document and returns its root element.
// Whitespace-only text is dropped; comments and processing instructions
// are kept as non-element, non-text nodes.  The document must have
// exactly one top level element.
func Parse(data []byte) (*Node, error) {
	d := xml.NewDecoder(bytes.NewReader(data))
	var root *Node
	for {
		tok, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if se, ok := tok.(xml.StartElement); ok {
			if root != nil {
				return nil, fmt.Errorf("multiple top level elements")
			}
			root, err = parseElement(d, se)
			if err != nil {
				return nil, err
			}
		}
	}
	if root == nil {
		return nil, fmt.Errorf("document has no top level element")
	}
	return root, nil
}

func parseElement(d *xml.Decoder, se xml.StartElement) (*Node, error) {
	attr := map[string]string{}
	for _, a := range se.Attr {
		if a.Name.Space == "xmlns" || a.Name.Local == "xmlns" {
			continue
		}
		attr[a.Name.Local] = a.Value
	}
	n := &Node{Kind: ElementNode, Name: se.Name.Local, Attr: attr}
	for {
		tok, err := d.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			c, err := parseElement(d, t)
			if err != nil {
				return nil, err
			}
			c.Parent = n
			n.Children = append(n.Children, c)
		case xml.EndElement:
			return n, nil
		case xml.CharData:
			if len(bytes.TrimSpace(t)) == 0 {
				continue
			}
			c := &Node{Kind: TextNode, Value: string(t), Parent: n}
			n.Children = append(n.Children, c)
		case xml.Comment:
			c := &Node{Kind: CommentNode, Value: string(t), Parent: n}
			n.Children = append(n.Children, c)
		case xml.ProcInst:
			c := &Node{Kind: ProcInstNode, Value: string(t.Inst), Parent: n}
			n.Children = append(n.Children, c)
		}
	}
}
