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

// IsSimple reports whether the tree under root satisfies every invariant
// of the simple form.  It is a pure predicate: the simplifier asserts it
// on its own output, and consumers may guard with it before validation.
func IsSimple(root *Node) bool {
	if root == nil || root.Kind != RootKind || len(root.Children) != 1 {
		return false
	}
	g := root.Children[0]
	if g.Kind != GrammarKind || len(g.Children) == 0 {
		return false
	}
	if g.Children[0].Kind != StartKind {
		return false
	}
	for _, c := range g.Children[1:] {
		if c.Kind != DefineKind {
			return false
		}
		if len(c.Children) != 1 || c.Children[0].Kind != ElementKind {
			return false
		}
	}
	ok := true
	g.Walk(func(n *Node) bool {
		if n != g && n.Kind == GrammarKind {
			ok = false
			return false
		}
		if !simpleNode(n) {
			ok = false
			return false
		}
		for _, c := range n.Children {
			if c.Kind == NotAllowedKind && n.Kind != StartKind && n.Kind != ElementKind {
				ok = false
				return false
			}
		}
		return true
	})
	return ok
}

// simpleNode checks the arity and child-kind invariants of one node.
func simpleNode(n *Node) bool {
	switch n.Kind {
	case OptionalKind, ZeroOrMoreKind, MixedKind, ParentRefKind,
		NamedElementKind, NamedAttributeKind:
		// None of these survive simplification.
		return false
	case ElementKind:
		return len(n.Children) == 2 && n.Children[0].Kind.IsNameClass()
	case AttributeKind:
		return len(n.Children) == 2 && n.Children[0].Kind.IsNameClass()
	case OneOrMoreKind:
		return len(n.Children) == 1 && n.Children[0].Kind != EmptyKind
	case ChoiceKind:
		return len(n.Children) == 2 && n.Children[1].Kind != EmptyKind
	case GroupKind, InterleaveKind:
		return len(n.Children) == 2 &&
			n.Children[0].Kind != EmptyKind && n.Children[1].Kind != EmptyKind
	case StartKind, DefineKind:
		return len(n.Children) == 1
	default:
		return true
	}
}
