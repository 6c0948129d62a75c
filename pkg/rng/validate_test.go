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

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/openconfig/gnmi/errdiff"

	"github.com/skiadas/rngast/pkg/xmltree"
)

// messages gathers the diagnostics of a tree into a flat string slice.
func messages(n *xmltree.Node) []string {
	var out []string
	for _, p := range n.CollectProblems(true) {
		out = append(out, p.Message)
	}
	return out
}

func TestValidateNode(t *testing.T) {
	for _, tt := range []struct {
		name      string
		pattern   *Node
		doc       *xmltree.Node
		plausible bool
		problems  []string
	}{
		{
			name:      "element name agreement",
			pattern:   NamedElement("p"),
			doc:       xmltree.Element("p", nil),
			plausible: true,
		},
		{
			name:      "element name disagreement",
			pattern:   NamedElement("q"),
			doc:       xmltree.Element("p", nil),
			plausible: false,
			problems: []string{
				"Expected element q but found p",
				"Unexpected element: p",
			},
		},
		{
			name:      "empty default",
			pattern:   NamedElement("e"),
			doc:       xmltree.Element("e", nil, xmltree.Text("stray")),
			plausible: true,
			problems: []string{
				"Expected no contents but found 1 children",
				"Unexpected text in element",
			},
		},
		{
			name: "choice takes the branch that fits",
			pattern: Choice(
				NamedElement("b"),
				NamedElement("p", NamedAttribute("foo")),
			),
			doc:       xmltree.Element("p", nil),
			plausible: true,
			problems:  []string{"Expected attribute: foo"},
		},
		{
			name: "choice with no matching branch",
			pattern: Choice(
				NamedElement("b"),
				NamedElement("q"),
			),
			doc:       xmltree.Element("p", nil),
			plausible: false,
			problems: []string{
				"Could not find matching choice",
				"Unexpected element: p",
			},
		},
		{
			name: "one or more absorbs repeated elements",
			pattern: NamedElement("sec",
				OneOrMore(NamedElement("p")),
				NamedElement("b"),
			),
			doc: xmltree.Element("sec", nil,
				xmltree.Element("p", nil),
				xmltree.Element("p", nil),
				xmltree.Element("b", nil),
			),
			plausible: true,
		},
		{
			name: "one or more reports its missing first element",
			pattern: NamedElement("sec",
				OneOrMore(NamedElement("p")),
				NamedElement("b"),
			),
			doc: xmltree.Element("sec", nil,
				xmltree.Element("b", nil),
			),
			plausible: true,
			problems:  []string{"Expected element p but found b"},
		},
		{
			name: "attribute choice",
			pattern: NamedElement("p", Choice(
				NamedAttribute("foo", Text()),
				NamedAttribute("bar", Text()),
			)),
			doc:       xmltree.Element("p", map[string]string{"bar": "x"}),
			plausible: true,
		},
		{
			name:      "optional absorption leaves no trace",
			pattern:   NamedElement("sec", Optional(NamedElement("p")), NamedElement("b")),
			doc:       xmltree.Element("sec", nil, xmltree.Element("b", nil)),
			plausible: true,
		},
		{
			name:      "optional content taken when present",
			pattern:   NamedElement("sec", Optional(NamedElement("p")), NamedElement("b")),
			doc:       xmltree.Element("sec", nil, xmltree.Element("p", nil), xmltree.Element("b", nil)),
			plausible: true,
		},
		{
			name:      "zero or more absorbs any count",
			pattern:   NamedElement("sec", ZeroOrMore(NamedElement("p"))),
			doc:       xmltree.Element("sec", nil, xmltree.Element("p", nil), xmltree.Element("p", nil)),
			plausible: true,
		},
		{
			name:      "zero or more accepts none",
			pattern:   NamedElement("sec", ZeroOrMore(NamedElement("p"))),
			doc:       xmltree.Element("sec", nil),
			plausible: true,
		},
		{
			name:      "text consumes character data",
			pattern:   NamedElement("p", Text()),
			doc:       xmltree.Element("p", nil, xmltree.Text("hello")),
			plausible: true,
		},
		{
			name:      "text missing",
			pattern:   NamedElement("p", Text()),
			doc:       xmltree.Element("p", nil),
			plausible: true,
			problems:  []string{"Expected text but found nothing"},
		},
		{
			name:      "text found element instead",
			pattern:   NamedElement("p", Text()),
			doc:       xmltree.Element("p", nil, xmltree.Element("b", nil)),
			plausible: true,
			problems: []string{
				"Expected text but found b",
				"Unexpected element: b",
			},
		},
		{
			name:      "unexpected attribute is reported",
			pattern:   NamedElement("p"),
			doc:       xmltree.Element("p", map[string]string{"x": "1", "a": "2"}),
			plausible: true,
			problems: []string{
				"Unexpected attribute: a",
				"Unexpected attribute: x",
			},
		},
		{
			name:      "attribute value must be text shaped",
			pattern:   NamedElement("p", NamedAttribute("foo", NamedElement("x"))),
			doc:       xmltree.Element("p", map[string]string{"foo": "1"}),
			plausible: true,
			problems: []string{
				"Expected attribute value for foo to be text but was element",
			},
		},
		{
			name:      "group splices in place",
			pattern:   NamedElement("sec", Group(NamedElement("p"), NamedElement("b"))),
			doc:       xmltree.Element("sec", nil, xmltree.Element("p", nil), xmltree.Element("b", nil)),
			plausible: true,
		},
		{
			name:      "simplified element form matches through its name class",
			pattern:   Element(Name("p"), Text()),
			doc:       xmltree.Element("p", nil, xmltree.Text("x")),
			plausible: true,
		},
		{
			name:      "name choice admits either name",
			pattern:   Element(NameChoice(Name("a"), Name("b"))),
			doc:       xmltree.Element("b", nil),
			plausible: true,
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			v := NewValidator(tt.pattern)
			got, err := v.ValidateNode(tt.doc, tt.pattern)
			if err != nil {
				t.Fatalf("ValidateNode: %v", err)
			}
			if got != tt.plausible {
				t.Errorf("got plausible %v, want %v", got, tt.plausible)
			}
			if diff := cmp.Diff(tt.problems, messages(tt.doc)); diff != "" {
				t.Errorf("problems differ (-want +got):\n%s", diff)
			}
		})
	}
}

// The wrong-name problem observed inside a committed element belongs to
// that element, not to the child whose name failed to match.
func TestInteriorProblemsAnnotateTheElement(t *testing.T) {
	inner := xmltree.Element("b", nil)
	doc := xmltree.Element("sec", nil, inner)
	pattern := NamedElement("sec", OneOrMore(NamedElement("p")), NamedElement("b"))

	v := NewValidator(pattern)
	if _, err := v.ValidateNode(doc, pattern); err != nil {
		t.Fatal(err)
	}
	want := []string{"Expected element p but found b"}
	if diff := cmp.Diff(want, doc.Problems()); diff != "" {
		t.Errorf("problems on sec differ (-want +got):\n%s", diff)
	}
	if got := inner.Problems(); len(got) != 0 {
		t.Errorf("problems leaked onto b: %v", got)
	}
}

func TestValidateWithGrammar(t *testing.T) {
	grammar := Grammar(
		Start(CombineNone, Ref("doc")),
		Define("doc", CombineNone, NamedElement("doc", Ref("inline"))),
		Define("inline", CombineNone, Optional(NamedElement("em"))),
	)
	v := NewValidator(grammar)

	doc := xmltree.Element("doc", nil, xmltree.Element("em", nil))
	ok, err := v.Validate(doc)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Errorf("got not plausible, want plausible")
	}
	if got := messages(doc); len(got) != 0 {
		t.Errorf("unexpected problems: %v", got)
	}

	// A shape-matching root stays plausible so that the interior
	// diagnostics still reach the user.
	doc = xmltree.Element("doc", nil, xmltree.Element("strong", nil))
	ok, err = v.Validate(doc)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Errorf("got not plausible, want plausible")
	}
	want := []string{"Unexpected element: strong"}
	if diff := cmp.Diff(want, messages(doc)); diff != "" {
		t.Errorf("problems differ (-want +got):\n%s", diff)
	}
}

// Recursive grammars terminate: every cycle passes through an element,
// which consumes one document node.
func TestValidateRecursiveGrammar(t *testing.T) {
	grammar := Grammar(
		Start(CombineNone, Ref("item")),
		Define("item", CombineNone, NamedElement("item", Optional(Ref("item")))),
	)
	doc := xmltree.Element("item", nil,
		xmltree.Element("item", nil,
			xmltree.Element("item", nil)))
	ok, err := NewValidator(grammar).Validate(doc)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Errorf("got not plausible, want plausible")
	}
	if got := messages(doc); len(got) != 0 {
		t.Errorf("unexpected problems: %v", got)
	}
}

func TestValidateAttrValueThroughRef(t *testing.T) {
	grammar := Grammar(
		Start(CombineNone, Ref("doc")),
		Define("doc", CombineNone, NamedElement("doc", NamedAttribute("id", Ref("token")))),
		Define("token", CombineNone, Text()),
	)
	doc := xmltree.Element("doc", map[string]string{"id": "x1"})
	ok, err := NewValidator(grammar).Validate(doc)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Errorf("got not plausible, want plausible")
	}
	if got := messages(doc); len(got) != 0 {
		t.Errorf("unexpected problems: %v", got)
	}
}

func TestValidateErrors(t *testing.T) {
	for _, tt := range []struct {
		name    string
		pattern *Node
		err     string
	}{
		{
			name:    "unknown definition",
			pattern: Ref("ghost"),
			err:     "Referencing unknown definition: ghost",
		},
		{
			name:    "interleave is not implemented",
			pattern: Interleave(Text(), NamedElement("p")),
			err:     "interleave matching is not implemented",
		},
		{
			name:    "parentRef cannot be matched",
			pattern: ParentRef("a"),
			err:     "Each ref or parentRef must be within a grammar",
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			doc := xmltree.Element("p", nil)
			_, err := NewValidator(tt.pattern).ValidateNode(doc, tt.pattern)
			if diff := errdiff.Substring(err, tt.err); diff != "" {
				t.Errorf("%s", diff)
			}
		})
	}
}
