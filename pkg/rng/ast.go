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

package rng

import "fmt"

// A Kind is the kind of node in a Relax NG syntax tree.  The kinds cover
// three disjoint families: patterns, grammar content (start and define),
// and name classes.  RootKind wraps the single top pattern of a grammar
// file.
type Kind int

// Enumeration of the node kinds.
const (
	BadKind = Kind(iota)
	RootKind

	// Patterns.
	EmptyKind
	TextKind
	ValueKind
	DataKind
	NotAllowedKind
	RefKind
	ParentRefKind
	NamedElementKind
	ElementKind
	NamedAttributeKind
	AttributeKind
	GroupKind
	InterleaveKind
	ChoiceKind
	OptionalKind
	ZeroOrMoreKind
	OneOrMoreKind
	MixedKind
	GrammarKind

	// Grammar content.
	StartKind
	DefineKind

	// Name classes.
	NameKind
	AnyNameKind
	NameChoiceKind
	ExceptNameKind
)

// kindToName maps Kinds to the element names of the RNG wire form.
var kindToName = map[Kind]string{
	BadKind:            "bad",
	RootKind:           "root",
	EmptyKind:          "empty",
	TextKind:           "text",
	ValueKind:          "value",
	DataKind:           "data",
	NotAllowedKind:     "notAllowed",
	RefKind:            "ref",
	ParentRefKind:      "parentRef",
	NamedElementKind:   "element",
	ElementKind:        "element",
	NamedAttributeKind: "attribute",
	AttributeKind:      "attribute",
	GroupKind:          "group",
	InterleaveKind:     "interleave",
	ChoiceKind:         "choice",
	OptionalKind:       "optional",
	ZeroOrMoreKind:     "zeroOrMore",
	OneOrMoreKind:      "oneOrMore",
	MixedKind:          "mixed",
	GrammarKind:        "grammar",
	StartKind:          "start",
	DefineKind:         "define",
	NameKind:           "name",
	AnyNameKind:        "anyName",
	NameChoiceKind:     "nameChoice",
	ExceptNameKind:     "except",
}

func (k Kind) String() string {
	if s := kindToName[k]; s != "" {
		return s
	}
	return fmt.Sprintf("kind-%d", int(k))
}

// IsNameClass reports whether k belongs to the name-class family.
func (k Kind) IsNameClass() bool {
	switch k {
	case NameKind, AnyNameKind, NameChoiceKind, ExceptNameKind:
		return true
	}
	return false
}

// A Combine is the three-state combine attribute carried by start and
// define nodes.  CombineNone means the attribute was absent.
type Combine int

// The possible states of a Combine.
const (
	CombineNone = Combine(iota)
	CombineChoice
	CombineInterleave
)

func (c Combine) String() string {
	switch c {
	case CombineNone:
		return ""
	case CombineChoice:
		return "choice"
	case CombineInterleave:
		return "interleave"
	default:
		return fmt.Sprintf("combine-%d", int(c))
	}
}

// combineByName maps the wire form of the combine attribute to a Combine.
var combineByName = map[string]Combine{
	"choice":     CombineChoice,
	"interleave": CombineInterleave,
}

// A Node is a single node of the Relax NG syntax tree.  A Node is a
// discriminated record: Kind selects the family, Name carries the scalar
// payload where the kind has one (the name of an element, attribute,
// define or ref; the literal of a value; the type of a data), and
// Children holds the ordered child nodes.  Combine is only meaningful on
// start and define nodes.
//
// The tree is a strict hierarchy: every child is owned by exactly one
// parent.  ref and parentRef nodes refer to defines by name, resolved
// through the nearest enclosing grammar.
type Node struct {
	Kind     Kind
	Name     string
	Combine  Combine
	Children []*Node
}

// New returns a node of kind k with the given children.
func New(k Kind, children ...*Node) *Node {
	return &Node{Kind: k, Children: children}
}

// Copy returns a deep structural copy of n.
func (n *Node) Copy() *Node {
	if n == nil {
		return nil
	}
	c := &Node{Kind: n.Kind, Name: n.Name, Combine: n.Combine}
	if n.Children != nil {
		c.Children = make([]*Node, len(n.Children))
		for i, ch := range n.Children {
			c.Children[i] = ch.Copy()
		}
	}
	return c
}

// become replaces n's contents with those of o, splicing o into n's
// position in the tree.  The simplifier passes use it to rewrite a node
// without touching the parent's child slice.
func (n *Node) become(o *Node) {
	n.Kind = o.Kind
	n.Name = o.Name
	n.Combine = o.Combine
	n.Children = o.Children
}

// Walk calls f for n and every node below it, parents before children.
// If f returns false the children of that node are skipped.
func (n *Node) Walk(f func(*Node) bool) {
	if n == nil || !f(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(f)
	}
}

func (n *Node) String() string {
	switch n.Kind {
	case ValueKind, DataKind, RefKind, ParentRefKind, NameKind, DefineKind:
		return fmt.Sprintf("%s(%s)", n.Kind, n.Name)
	case NamedElementKind, NamedAttributeKind:
		return fmt.Sprintf("%s[%s]", n.Kind, n.Name)
	default:
		return n.Kind.String()
	}
}
