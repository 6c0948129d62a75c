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

// This file contains the constructors used to build full-syntax trees
// directly, without going through the XML wire form.  The constructors
// enforce the syntactic defaults of the wire form: an element with no
// content patterns contains empty, an attribute with no content pattern
// contains text.

// Root wraps the single top pattern of a grammar file.
func Root(p *Node) *Node { return New(RootKind, p) }

// Empty returns an empty pattern.
func Empty() *Node { return New(EmptyKind) }

// Text returns a text pattern.
func Text() *Node { return New(TextKind) }

// Value returns a value pattern matching the literal s.
func Value(s string) *Node { return &Node{Kind: ValueKind, Name: s} }

// Data returns a data pattern for the named datatype.
func Data(dataType string) *Node { return &Node{Kind: DataKind, Name: dataType} }

// NotAllowed returns the pattern that matches nothing.
func NotAllowed() *Node { return New(NotAllowedKind) }

// Ref returns a reference to the define called name.
func Ref(name string) *Node { return &Node{Kind: RefKind, Name: name} }

// ParentRef returns a reference resolved in the parent grammar.
func ParentRef(name string) *Node { return &Node{Kind: ParentRefKind, Name: name} }

// NamedElement returns an element pattern carrying its name as a scalar.
// An element with no content patterns contains empty.
func NamedElement(name string, patterns ...*Node) *Node {
	if len(patterns) == 0 {
		patterns = []*Node{Empty()}
	}
	return &Node{Kind: NamedElementKind, Name: name, Children: patterns}
}

// Element returns an element pattern with an explicit name class.
func Element(nc *Node, patterns ...*Node) *Node {
	if len(patterns) == 0 {
		patterns = []*Node{Empty()}
	}
	return New(ElementKind, append([]*Node{nc}, patterns...)...)
}

// NamedAttribute returns an attribute pattern carrying its name as a
// scalar.  An attribute with no content pattern contains text.
func NamedAttribute(name string, patterns ...*Node) *Node {
	if len(patterns) == 0 {
		patterns = []*Node{Text()}
	}
	return &Node{Kind: NamedAttributeKind, Name: name, Children: patterns}
}

// Attribute returns an attribute pattern with an explicit name class.
func Attribute(nc *Node, patterns ...*Node) *Node {
	if len(patterns) == 0 {
		patterns = []*Node{Text()}
	}
	return New(AttributeKind, append([]*Node{nc}, patterns...)...)
}

// Group returns the ordered-sequence pattern.
func Group(patterns ...*Node) *Node { return New(GroupKind, patterns...) }

// Interleave returns the interleaving pattern.
func Interleave(patterns ...*Node) *Node { return New(InterleaveKind, patterns...) }

// Choice returns the alternation pattern.
func Choice(patterns ...*Node) *Node { return New(ChoiceKind, patterns...) }

// Optional matches its content zero or one times.
func Optional(patterns ...*Node) *Node { return New(OptionalKind, patterns...) }

// ZeroOrMore matches its content any number of times.
func ZeroOrMore(patterns ...*Node) *Node { return New(ZeroOrMoreKind, patterns...) }

// OneOrMore matches its content at least once.
func OneOrMore(patterns ...*Node) *Node { return New(OneOrMoreKind, patterns...) }

// Mixed interleaves its content with text.
func Mixed(patterns ...*Node) *Node { return New(MixedKind, patterns...) }

// Grammar returns a grammar node holding start and define content.
func Grammar(content ...*Node) *Node { return New(GrammarKind, content...) }

// Start returns a start node.  Use CombineNone when the combine
// attribute is absent.
func Start(combine Combine, p *Node) *Node {
	return &Node{Kind: StartKind, Combine: combine, Children: []*Node{p}}
}

// Define returns a define node.  Use CombineNone when the combine
// attribute is absent.
func Define(name string, combine Combine, patterns ...*Node) *Node {
	return &Node{Kind: DefineKind, Name: name, Combine: combine, Children: patterns}
}

// Name returns the name class matching exactly name.
func Name(name string) *Node { return &Node{Kind: NameKind, Name: name} }

// AnyName returns the name class matching any name, minus the optional
// except clause.
func AnyName(except ...*Node) *Node { return New(AnyNameKind, except...) }

// NameChoice returns the name class matching either of a and b.
func NameChoice(a, b *Node) *Node { return New(NameChoiceKind, a, b) }

// ExceptName returns an except clause for use inside anyName.
func ExceptName(nc *Node) *Node { return New(ExceptNameKind, nc) }
