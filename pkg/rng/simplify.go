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

// This file contains the simplifier: the ordered passes that reduce a
// full-syntax tree to the simple form checked by IsSimple.  The pass
// order is load-bearing and is encoded as a fixed sequence, not a
// registry.  Each pass assumes the postconditions of its predecessors
// and mutates the tree in place; the tree has a single owner between
// passes, so no other holder observes the intermediate states.

import (
	"fmt"
	"sort"

	"github.com/emirpasic/gods/sets/linkedhashset"
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/stacks/arraystack"
)

// Simplify reduces the full-syntax tree under root to simple form.  On
// return the root holds a single grammar whose first child is start and
// whose remaining children are defines, each wrapping one element.  The
// tree is verified with IsSimple; a tree that cannot be reduced yields a
// structural error and must be discarded.
func Simplify(root *Node) error {
	if root == nil || root.Kind != RootKind || len(root.Children) != 1 {
		return ErrMultipleTopLevel
	}
	liftNamedNodes(root)
	normalizeArity(root)
	replaceShorthand(root)
	if err := eliminateCombine(root); err != nil {
		return err
	}
	if err := flattenGrammars(root); err != nil {
		return err
	}
	top := root.Children[0]
	if err := canonicalizeDefines(top); err != nil {
		return err
	}
	limitNotAllowed(top)
	if err := reorderReachable(top); err != nil {
		return err
	}
	avoidEmpty(top)
	if !IsSimple(root) {
		return ErrNotSimple
	}
	return nil
}

// Pass 1: lift the scalar name of named elements and attributes into a
// name-class child, so that only the two-child forms remain.
func liftNamedNodes(root *Node) {
	root.Walk(func(n *Node) bool {
		switch n.Kind {
		case NamedElementKind:
			n.Kind = ElementKind
			n.Children = append([]*Node{Name(n.Name)}, n.Children...)
			n.Name = ""
		case NamedAttributeKind:
			n.Kind = AttributeKind
			n.Children = append([]*Node{Name(n.Name)}, n.Children...)
			n.Name = ""
		}
		return true
	})
}

// Pass 2: normalize arities.  Containers with too many children wrap
// them in a group, attributes gain their default text pattern, and
// choice, group and interleave become strictly binary by splicing single
// children and left-folding longer runs.
func normalizeArity(n *Node) {
	switch n.Kind {
	case DefineKind, OneOrMoreKind, ZeroOrMoreKind, OptionalKind, MixedKind:
		if len(n.Children) > 1 {
			n.Children = []*Node{Group(n.Children...)}
		}
	case ElementKind:
		if len(n.Children) > 2 {
			n.Children = []*Node{n.Children[0], Group(n.Children[1:]...)}
		}
	case AttributeKind:
		if len(n.Children) == 1 {
			n.Children = append(n.Children, Text())
		}
	case ChoiceKind, GroupKind, InterleaveKind:
		if len(n.Children) == 1 {
			n.become(n.Children[0])
			normalizeArity(n)
			return
		}
		for len(n.Children) > 2 {
			pair := &Node{Kind: n.Kind, Children: []*Node{n.Children[0], n.Children[1]}}
			n.Children = append([]*Node{pair}, n.Children[2:]...)
		}
	}
	for _, c := range n.Children {
		normalizeArity(c)
	}
}

// Pass 3: rewrite mixed, optional and zeroOrMore in terms of the
// remaining constructors.  Post-arity each has a single child.
func replaceShorthand(n *Node) {
	switch n.Kind {
	case MixedKind, OptionalKind, ZeroOrMoreKind:
		if len(n.Children) == 0 {
			n.Children = []*Node{Empty()}
		}
	}
	switch n.Kind {
	case MixedKind:
		n.become(Interleave(n.Children[0], Text()))
	case OptionalKind:
		n.become(Choice(n.Children[0], Empty()))
	case ZeroOrMoreKind:
		n.become(Choice(OneOrMore(n.Children[0]), Empty()))
	}
	for _, c := range n.Children {
		replaceShorthand(c)
	}
}

// Pass 4: eliminate the combine attribute by folding same-name starts
// and defines into one node each.
func eliminateCombine(root *Node) error {
	var walk func(n *Node) error
	walk = func(n *Node) error {
		for _, c := range n.Children {
			if err := walk(c); err != nil {
				return err
			}
		}
		if n.Kind == GrammarKind {
			return combineGrammar(n)
		}
		return nil
	}
	return walk(root)
}

// combineGrammar rewrites the content of a single grammar to one start
// followed by one define per name, in first-appearance order.
func combineGrammar(g *Node) error {
	var starts []*Node
	var order []string
	defines := map[string][]*Node{}
	for _, c := range g.Children {
		switch c.Kind {
		case StartKind:
			starts = append(starts, c)
		case DefineKind:
			if _, ok := defines[c.Name]; !ok {
				order = append(order, c.Name)
			}
			defines[c.Name] = append(defines[c.Name], c)
		}
	}
	if len(starts) == 0 {
		return ErrNoStart
	}
	start, err := foldCombine(starts, ErrStartsNoCombine, ErrStartsCombine)
	if err != nil {
		return err
	}
	children := []*Node{start}
	for _, name := range order {
		d, err := foldCombine(defines[name], errDefinesNoCombine(name), errDefinesCombine(name))
		if err != nil {
			return err
		}
		children = append(children, d)
	}
	g.Children = children
	return nil
}

// foldCombine merges a group of same-name starts or defines.  All
// members must share one non-absent combine value; at most one member
// may leave it absent and inherit.  The patterns are folded with a left
// reduction, absent-first, preserving input order within equal groups.
func foldCombine(group []*Node, errNone, errConflict error) (*Node, error) {
	if len(group) == 1 {
		return group[0], nil
	}
	combine := CombineNone
	absent := 0
	for _, n := range group {
		if n.Combine == CombineNone {
			absent++
			continue
		}
		if combine == CombineNone {
			combine = n.Combine
		} else if combine != n.Combine {
			return nil, errConflict
		}
	}
	if combine == CombineNone || absent > 1 {
		return nil, errNone
	}
	sorted := append([]*Node{}, group...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Combine == CombineNone && sorted[j].Combine != CombineNone
	})
	kind := ChoiceKind
	if combine == CombineInterleave {
		kind = InterleaveKind
	}
	acc := sorted[0].Children[0]
	for _, n := range sorted[1:] {
		acc = &Node{Kind: kind, Children: []*Node{acc, n.Children[0]}}
	}
	merged := group[0]
	merged.Combine = combine
	merged.Children = []*Node{acc}
	return merged, nil
}

// Pass 5: reduce to a single top-level grammar.  A bare pattern is
// wrapped; nested grammars have their conflicting define names renamed,
// their refs rewritten, and their defines hoisted into the top grammar.
func flattenGrammars(root *Node) error {
	if root.Children[0].Kind != GrammarKind {
		root.Children[0] = Grammar(Start(CombineNone, root.Children[0]))
	}
	top := root.Children[0]

	// Rename nested defines that collide with a name already in use.
	// The substitutions are recorded per owning grammar so that refs can
	// be rewritten through their resolved grammar.
	used := treeset.NewWithStringComparator()
	subs := map[*Node]map[string]string{}
	var rename func(n *Node)
	rename = func(n *Node) {
		if n.Kind == GrammarKind {
			for _, c := range n.Children {
				if c.Kind != DefineKind {
					continue
				}
				if !used.Contains(c.Name) {
					used.Add(c.Name)
					continue
				}
				fresh := freshName(used, c.Name)
				if subs[n] == nil {
					subs[n] = map[string]string{}
				}
				subs[n][c.Name] = fresh
				c.Name = fresh
				used.Add(fresh)
			}
		}
		for _, c := range n.Children {
			rename(c)
		}
	}
	rename(top)

	// Rewrite refs through the nearest enclosing grammar, skipping one
	// grammar level for parentRef.  The ancestor stack is carried by the
	// traversal; there are no parent pointers in the tree.
	stack := arraystack.New()
	if err := rewriteRefs(root, stack, subs); err != nil {
		return err
	}

	// Hoist nested defines into the top grammar and replace each nested
	// grammar by its start payload, deepest first.
	hoistGrammars(top, top)
	return nil
}

// freshName returns base with the least __k suffix not yet in used.
func freshName(used *treeset.Set, base string) string {
	for k := 1; ; k++ {
		name := fmt.Sprintf("%s__%d", base, k)
		if !used.Contains(name) {
			return name
		}
	}
}

func rewriteRefs(n *Node, stack *arraystack.Stack, subs map[*Node]map[string]string) error {
	switch n.Kind {
	case RefKind, ParentRefKind:
		g, err := enclosingGrammar(stack, n.Kind == ParentRefKind)
		if err != nil {
			return err
		}
		if m := subs[g]; m != nil {
			if repl, ok := m[n.Name]; ok {
				n.Name = repl
			}
		}
		n.Kind = RefKind
	}
	stack.Push(n)
	for _, c := range n.Children {
		if err := rewriteRefs(c, stack, subs); err != nil {
			return err
		}
	}
	stack.Pop()
	return nil
}

// enclosingGrammar scans the ancestor stack from the top for the nearest
// grammar, skipping one grammar level when resolving a parentRef.
func enclosingGrammar(stack *arraystack.Stack, skipOne bool) (*Node, error) {
	skipped := false
	it := stack.Iterator()
	for it.Next() {
		a, ok := it.Value().(*Node)
		if !ok || a.Kind != GrammarKind {
			continue
		}
		if skipOne && !skipped {
			skipped = true
			continue
		}
		return a, nil
	}
	if skipped {
		return nil, ErrOrphanParentRef
	}
	return nil, ErrRefOutsideGrammar
}

func hoistGrammars(top, n *Node) {
	for _, c := range n.Children {
		hoistGrammars(top, c)
	}
	if n.Kind != GrammarKind || n == top {
		return
	}
	var payload *Node
	for _, c := range n.Children {
		switch c.Kind {
		case StartKind:
			payload = c.Children[0]
		case DefineKind:
			top.Children = append(top.Children, c)
		}
	}
	n.become(payload)
}

// Pass 6: canonical define/element form.  A single traversal from start
// visits ref targets transitively; every element met along the way is
// lifted into a fresh elem__N define (appended in visit order and
// visited later in the same pass), refs to element defines are renamed
// to the lifted name, and refs to non-element defines are replaced by a
// structural copy of the define's pattern.  Defines never reached are
// dropped.  The non-element substitution assumes acyclicity and performs
// no cycle detection.
func canonicalizeDefines(top *Node) error {
	if len(top.Children) == 0 || top.Children[0].Kind != StartKind {
		return ErrNoStart
	}
	start := top.Children[0]
	old := map[string]*Node{}
	for _, c := range top.Children[1:] {
		if c.Kind == DefineKind {
			old[c.Name] = c
		}
	}

	var out []*Node
	renamed := map[string]string{}
	counter := 0
	lift := func(el *Node) string {
		counter++
		name := fmt.Sprintf("elem__%d", counter)
		out = append(out, Define(name, CombineNone, &Node{Kind: ElementKind, Children: el.Children}))
		return name
	}

	var visit func(n *Node) error
	visit = func(n *Node) error {
		switch n.Kind {
		case ElementKind:
			n.become(Ref(lift(n)))
			return nil
		case RefKind:
			if name, ok := renamed[n.Name]; ok {
				n.Name = name
				return nil
			}
			d, ok := old[n.Name]
			if !ok {
				return errUnknownRef(n.Name)
			}
			body := d.Children[0]
			if body.Kind == ElementKind {
				renamed[n.Name] = lift(body)
				n.Name = renamed[n.Name]
				return nil
			}
			n.become(body.Copy())
			return visit(n)
		}
		for _, c := range n.Children {
			if err := visit(c); err != nil {
				return err
			}
		}
		return nil
	}

	if err := visit(start); err != nil {
		return err
	}
	for i := 0; i < len(out); i++ {
		el := out[i].Children[0]
		for _, c := range el.Children {
			if err := visit(c); err != nil {
				return err
			}
		}
	}
	top.Children = append([]*Node{start}, out...)
	return nil
}

// reorderReachable keeps only the defines reachable from start, in visit
// order.  It runs as part of the notAllowed pass, which can sever refs.
func reorderReachable(top *Node) error {
	start := top.Children[0]
	defines := map[string]*Node{}
	for _, c := range top.Children[1:] {
		if c.Kind == DefineKind {
			defines[c.Name] = c
		}
	}
	order := linkedhashset.New()
	var visit func(n *Node) error
	visit = func(n *Node) error {
		if n.Kind == RefKind {
			d, ok := defines[n.Name]
			if !ok {
				return errUnknownRef(n.Name)
			}
			if order.Contains(n.Name) {
				return nil
			}
			order.Add(n.Name)
			return visit(d)
		}
		for _, c := range n.Children {
			if err := visit(c); err != nil {
				return err
			}
		}
		return nil
	}
	if err := visit(start); err != nil {
		return err
	}
	children := []*Node{start}
	order.Each(func(_ int, name interface{}) {
		children = append(children, defines[name.(string)])
	})
	top.Children = children
	return nil
}

// postFrame is one entry of the explicit work stack driving postorder.
type postFrame struct {
	n        *Node
	expanded bool
}

// postorder visits every node under root, children before parents,
// driven by an explicit work stack rather than the call stack.
func postorder(root *Node, f func(*Node)) {
	stack := arraystack.New()
	stack.Push(&postFrame{n: root})
	for !stack.Empty() {
		v, _ := stack.Peek()
		fr := v.(*postFrame)
		if fr.expanded {
			stack.Pop()
			f(fr.n)
			continue
		}
		fr.expanded = true
		for i := len(fr.n.Children) - 1; i >= 0; i-- {
			stack.Push(&postFrame{n: fr.n.Children[i]})
		}
	}
}

// Pass 7: confine notAllowed to start and element positions.  Children
// are normalized before their parent, so each rule sees fully reduced
// operands.
func limitNotAllowed(top *Node) {
	postorder(top, func(n *Node) {
		switch n.Kind {
		case AttributeKind:
			if len(n.Children) == 2 && n.Children[1].Kind == NotAllowedKind {
				n.become(NotAllowed())
			}
		case GroupKind, InterleaveKind, OneOrMoreKind:
			for _, c := range n.Children {
				if c.Kind == NotAllowedKind {
					n.become(NotAllowed())
					return
				}
			}
		case ChoiceKind:
			if len(n.Children) != 2 {
				return
			}
			if n.Children[0].Kind == NotAllowedKind {
				n.become(n.Children[1])
			} else if n.Children[1].Kind == NotAllowedKind {
				n.become(n.Children[0])
			}
		}
	})
}

// Pass 8: remove empty where the simple form forbids it, and swap it to
// the first position of a choice.
func avoidEmpty(top *Node) {
	postorder(top, func(n *Node) {
		switch n.Kind {
		case GroupKind, InterleaveKind:
			if len(n.Children) != 2 {
				return
			}
			if n.Children[0].Kind == EmptyKind {
				n.become(n.Children[1])
			} else if n.Children[1].Kind == EmptyKind {
				n.become(n.Children[0])
			}
		case ChoiceKind:
			if len(n.Children) != 2 {
				return
			}
			if n.Children[1].Kind == EmptyKind && n.Children[0].Kind != EmptyKind {
				n.Children[0], n.Children[1] = n.Children[1], n.Children[0]
			}
		case OneOrMoreKind:
			if len(n.Children) == 1 && n.Children[0].Kind == EmptyKind {
				n.become(Empty())
			}
		}
	})
}
