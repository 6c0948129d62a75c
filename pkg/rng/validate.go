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

// This file contains the validator: a recursive matcher that walks a
// document tree against a pattern list.  The verdict is "plausible":
// true means the shape could be matched, not that the subtree is free of
// diagnostics.  Mismatches accumulate as problem strings on the document
// nodes; matching keeps going after a mismatch so one run surfaces as
// many distinct problems as possible.

import (
	"errors"
	"fmt"
	"sort"

	"github.com/skiadas/rngast/pkg/xmltree"
)

// errInterleave reports the one matching construct the validator does
// not implement.
var errInterleave = errors.New("interleave matching is not implemented")

// A Validator matches document trees against one grammar.  The define
// table and the start pattern are cached at construction; the grammar is
// read-only during matching.
type Validator struct {
	start   []*Node
	defines map[string][]*Node
}

// NewValidator returns a validator for grammar.  The grammar may be a
// root-wrapped or bare grammar node, or any bare pattern, which then
// serves as its own start with an empty define table.
func NewValidator(grammar *Node) *Validator {
	v := &Validator{defines: map[string][]*Node{}}
	g := grammar
	if g.Kind == RootKind && len(g.Children) == 1 {
		g = g.Children[0]
	}
	if g.Kind != GrammarKind {
		v.start = []*Node{g}
		return v
	}
	for _, c := range g.Children {
		switch c.Kind {
		case StartKind:
			v.start = c.Children
		case DefineKind:
			v.defines[c.Name] = c.Children
		}
	}
	return v
}

// Validate matches the document root against the start pattern,
// annotating problems onto the tree.  The returned verdict is plausible:
// the shape matched, independent of interior diagnostics.
func (v *Validator) Validate(root *xmltree.Node) (bool, error) {
	return v.validateTop(root, v.start)
}

// ValidateNode matches a single target node against a single pattern,
// annotating problems onto the tree.
func (v *Validator) ValidateNode(target *xmltree.Node, pattern *Node) (bool, error) {
	return v.validateTop(target, []*Node{pattern})
}

func (v *Validator) validateTop(target *xmltree.Node, patterns []*Node) (bool, error) {
	ctx := matchContext{children: []*xmltree.Node{target}, attrs: map[string]string{}}
	res, err := v.match(ctx, patterns)
	if err != nil {
		return false, err
	}
	ok, problems := sweepLeftover(res)
	for _, msg := range problems {
		target.AddProblem(msg)
	}
	return ok, nil
}

// A matchContext is what remains to be matched: the children not yet
// consumed and the attributes not yet claimed.
type matchContext struct {
	children []*xmltree.Node
	attrs    map[string]string
}

// advance consumes the head child.
func (c matchContext) advance() matchContext {
	return matchContext{children: c.children[1:], attrs: c.attrs}
}

// withoutAttr removes one attribute.  The map is copied: alternatives
// are tried against the same input context, so no branch may see
// another branch's consumption.
func (c matchContext) withoutAttr(name string) matchContext {
	attrs := make(map[string]string, len(c.attrs))
	for k, val := range c.attrs {
		if k != name {
			attrs[k] = val
		}
	}
	return matchContext{children: c.children, attrs: attrs}
}

// A matchResult is the outcome of matching a pattern list: whether the
// patterns plausibly matched, the diagnostics accumulated on the way,
// and the context the tail sees.
type matchResult struct {
	ok        bool
	problems  []string
	remaining matchContext
}

// match matches the head pattern of pats, then the rest.  A failing head
// reports its problems and continues with the rest on the unchanged
// context, with the overall verdict pinned false; abandoned alternatives
// (choice branches, optional and repetition fallbacks) discard their
// problems instead.
func (v *Validator) match(ctx matchContext, pats []*Node) (matchResult, error) {
	if len(pats) == 0 {
		return matchResult{ok: true, remaining: ctx}, nil
	}
	head, rest := pats[0], pats[1:]

	switch head.Kind {
	case EmptyKind:
		if n := len(ctx.children); n > 0 {
			return v.reportAndContinue(ctx, rest, problemNoChildren(n))
		}
		return v.match(ctx, rest)

	case TextKind, ValueKind, DataKind:
		if len(ctx.children) == 0 {
			return v.reportAndContinue(ctx, rest, problemText("nothing"))
		}
		if hc := ctx.children[0]; hc.Kind != xmltree.TextNode {
			return v.reportAndContinue(ctx, rest, problemText(describe(hc)))
		}
		return v.match(ctx.advance(), rest)

	case NamedElementKind:
		return v.matchElement(ctx, head.Name, head.Children, rest)

	case ElementKind:
		return v.matchElementNC(ctx, head.Children[0], head.Children[1:], rest)

	case NamedAttributeKind:
		return v.matchAttribute(ctx, head.Name, head.Children, rest)

	case AttributeKind:
		nc := head.Children[0]
		if nc.Kind != NameKind {
			// Non-literal attribute name classes are accepted shape-only.
			return v.match(ctx, rest)
		}
		return v.matchAttribute(ctx, nc.Name, head.Children[1:], rest)

	case RefKind:
		pats, ok := v.defines[head.Name]
		if !ok {
			return matchResult{}, errUnknownRef(head.Name)
		}
		return v.match(ctx, chain(pats, rest))

	case ParentRefKind:
		return matchResult{}, ErrRefOutsideGrammar

	case GroupKind:
		return v.match(ctx, chain(head.Children, rest))

	case GrammarKind:
		for _, c := range head.Children {
			if c.Kind == StartKind {
				return v.match(ctx, chain(c.Children, rest))
			}
		}
		return matchResult{}, ErrNoStart

	case OptionalKind:
		attempt, err := v.match(ctx, chain(head.Children, rest))
		if err != nil || attempt.ok {
			return attempt, err
		}
		return v.match(ctx, rest)

	case ChoiceKind:
		for _, alt := range head.Children {
			attempt, err := v.match(ctx, chain([]*Node{alt}, rest))
			if err != nil || attempt.ok {
				return attempt, err
			}
		}
		return matchResult{problems: []string{problemNoMatch()}, remaining: ctx}, nil

	case ZeroOrMoreKind:
		return v.matchZeroOrMore(ctx, head.Children, rest)

	case OneOrMoreKind:
		first, err := v.match(ctx, head.Children)
		if err != nil {
			return first, err
		}
		if !first.ok {
			// The mandatory first iteration failed: keep its report and
			// continue with the tail.
			res, err := v.match(first.remaining, rest)
			if err != nil {
				return res, err
			}
			res.ok = false
			res.problems = prepend(first.problems, res.problems)
			return res, nil
		}
		more, err := v.matchZeroOrMore(first.remaining, head.Children, rest)
		if err != nil {
			return more, err
		}
		more.problems = prepend(first.problems, more.problems)
		return more, nil

	case InterleaveKind:
		return matchResult{}, errInterleave

	case NotAllowedKind:
		res, err := v.match(ctx, rest)
		if err != nil {
			return res, err
		}
		res.ok = false
		return res, nil

	default:
		return matchResult{}, fmt.Errorf("cannot match against %s node", head.Kind)
	}
}

// reportAndContinue records one problem for the failed head pattern and
// keeps matching the rest on the unchanged context.  The verdict stays
// false no matter what the tail does.
func (v *Validator) reportAndContinue(ctx matchContext, rest []*Node, msg string) (matchResult, error) {
	res, err := v.match(ctx, rest)
	if err != nil {
		return res, err
	}
	res.ok = false
	res.problems = prepend([]string{msg}, res.problems)
	return res, nil
}

// matchElement requires the head child to be an element named name.  On
// a name match the element is committed: its contents are validated in a
// fresh context and the diagnostics are written to the element itself,
// whatever the outer outcome.
func (v *Validator) matchElement(ctx matchContext, name string, inner, rest []*Node) (matchResult, error) {
	if len(ctx.children) == 0 {
		return v.reportAndContinue(ctx, rest, problemElem(name, "nothing"))
	}
	hc := ctx.children[0]
	if hc.Kind != xmltree.ElementNode {
		return v.reportAndContinue(ctx, rest, problemElem(name, describe(hc)))
	}
	if hc.Name != name {
		return v.reportAndContinue(ctx, rest, problemElem(name, hc.Name))
	}
	if err := v.validateInto(hc, inner); err != nil {
		return matchResult{}, err
	}
	return v.match(ctx.advance(), rest)
}

// matchElementNC is matchElement for the simplified two-child form, with
// the name given as a name class.
func (v *Validator) matchElementNC(ctx matchContext, nc *Node, inner, rest []*Node) (matchResult, error) {
	if len(ctx.children) == 0 {
		return v.reportAndContinue(ctx, rest, problemElem(nameClassString(nc), "nothing"))
	}
	hc := ctx.children[0]
	if hc.Kind != xmltree.ElementNode {
		return v.reportAndContinue(ctx, rest, problemElem(nameClassString(nc), describe(hc)))
	}
	if !nameClassMatches(nc, hc.Name) {
		return v.reportAndContinue(ctx, rest, problemElem(nameClassString(nc), hc.Name))
	}
	if err := v.validateInto(hc, inner); err != nil {
		return matchResult{}, err
	}
	return v.match(ctx.advance(), rest)
}

// validateInto matches the contents of el against patterns and writes
// every resulting diagnostic onto el.
func (v *Validator) validateInto(el *xmltree.Node, patterns []*Node) error {
	attrs := make(map[string]string, len(el.Attr))
	for k, val := range el.Attr {
		attrs[k] = val
	}
	ctx := matchContext{children: el.Children, attrs: attrs}
	res, err := v.match(ctx, patterns)
	if err != nil {
		return err
	}
	_, problems := sweepLeftover(res)
	for _, msg := range problems {
		el.AddProblem(msg)
	}
	return nil
}

// sweepLeftover reports whatever the match left unconsumed.  Leftover
// elements and text force the verdict false; leftover attributes are
// reported without affecting it.
func sweepLeftover(res matchResult) (bool, []string) {
	ok := res.ok
	problems := res.problems
	for _, c := range res.remaining.children {
		switch c.Kind {
		case xmltree.ElementNode:
			problems = append(problems, problemUnexpectedElem(c.Name))
			ok = false
		case xmltree.TextNode:
			problems = append(problems, problemNoText())
			ok = false
		}
	}
	names := make([]string, 0, len(res.remaining.attrs))
	for name := range res.remaining.attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		problems = append(problems, problemUnexpectedAttr(name))
	}
	return ok, problems
}

// matchAttribute claims the named attribute from the context.  A present
// attribute has its value checked by the attribute sub-matcher; an
// absent one is reported and the match continues without it.
func (v *Validator) matchAttribute(ctx matchContext, name string, inner, rest []*Node) (matchResult, error) {
	val, ok := ctx.attrs[name]
	if !ok {
		return v.reportAndContinue(ctx, rest, problemAttr(name))
	}
	var valueProblems []string
	if len(inner) > 0 {
		var err error
		valueProblems, err = v.matchAttrValue(name, val, inner[0])
		if err != nil {
			return matchResult{}, err
		}
	}
	res, err := v.match(ctx.withoutAttr(name), rest)
	if err != nil {
		return res, err
	}
	res.problems = prepend(valueProblems, res.problems)
	return res, nil
}

// matchAttrValue is the attribute sub-matcher: text accepts any string,
// ref dereferences a single-pattern define, and empty, value, data and
// choice are accepted on shape alone.  Any other pattern kind is reported.
func (v *Validator) matchAttrValue(name, val string, p *Node) ([]string, error) {
	switch p.Kind {
	case TextKind, EmptyKind, ValueKind, DataKind, ChoiceKind:
		return nil, nil
	case RefKind:
		pats, ok := v.defines[p.Name]
		if !ok {
			return nil, errUnknownRef(p.Name)
		}
		return v.matchAttrValue(name, val, pats[0])
	default:
		return []string{problemAttrText(name, p.Kind.String())}, nil
	}
}

// matchZeroOrMore greedily repeats inner, then matches rest.  Iterations
// chain only while inner succeeds and consumes input; a failing or
// non-advancing iteration is abandoned cleanly and the match falls back
// to rest on the context before it.
func (v *Validator) matchZeroOrMore(ctx matchContext, inner, rest []*Node) (matchResult, error) {
	iter, err := v.match(ctx, inner)
	if err != nil {
		return iter, err
	}
	if iter.ok && consumed(ctx, iter.remaining) {
		more, err := v.matchZeroOrMore(iter.remaining, inner, rest)
		if err != nil {
			return more, err
		}
		if more.ok {
			more.problems = prepend(iter.problems, more.problems)
			return more, nil
		}
	}
	return v.match(ctx, rest)
}

// consumed reports whether after took anything from before.
func consumed(before, after matchContext) bool {
	return len(after.children) < len(before.children) ||
		len(after.attrs) < len(before.attrs)
}

// chain returns head followed by rest as a fresh slice.
func chain(head, rest []*Node) []*Node {
	out := make([]*Node, 0, len(head)+len(rest))
	out = append(out, head...)
	return append(out, rest...)
}

// prepend returns a followed by b without sharing either backing array.
func prepend(a, b []string) []string {
	if len(a) == 0 {
		return b
	}
	out := make([]string, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}

// describe names a document node for a diagnostic.
func describe(n *xmltree.Node) string {
	if n.Kind == xmltree.ElementNode {
		return n.Name
	}
	return n.Kind.String()
}

// nameClassMatches reports whether name is matched by the name class nc.
// Matching is literal name equality; anyName admits everything outside
// its except clause.
func nameClassMatches(nc *Node, name string) bool {
	switch nc.Kind {
	case NameKind:
		return nc.Name == name
	case AnyNameKind:
		for _, e := range nc.Children {
			if e.Kind == ExceptNameKind && nameClassMatches(e.Children[0], name) {
				return false
			}
		}
		return true
	case NameChoiceKind:
		return nameClassMatches(nc.Children[0], name) || nameClassMatches(nc.Children[1], name)
	default:
		return false
	}
}

// nameClassString renders a name class for a diagnostic.
func nameClassString(nc *Node) string {
	switch nc.Kind {
	case NameKind:
		return nc.Name
	case AnyNameKind:
		return "*"
	case NameChoiceKind:
		return nameClassString(nc.Children[0]) + "|" + nameClassString(nc.Children[1])
	default:
		return nc.Kind.String()
	}
}

// The diagnostic vocabulary.  The exact strings are part of the
// contract; tests compare them with equality.

func problemText(found string) string {
	return fmt.Sprintf("Expected text but found %s", found)
}

func problemNoText() string {
	return "Unexpected text in element"
}

func problemElem(name, found string) string {
	return fmt.Sprintf("Expected element %s but found %s", name, found)
}

func problemAttr(name string) string {
	return fmt.Sprintf("Expected attribute: %s", name)
}

func problemAttrText(name, found string) string {
	return fmt.Sprintf("Expected attribute value for %s to be text but was %s", name, found)
}

func problemNoChildren(n int) string {
	return fmt.Sprintf("Expected no contents but found %d children", n)
}

func problemUnexpectedElem(name string) string {
	return fmt.Sprintf("Unexpected element: %s", name)
}

func problemUnexpectedAttr(name string) string {
	return fmt.Sprintf("Unexpected attribute: %s", name)
}

func problemNoMatch() string {
	return "Could not find matching choice"
}
