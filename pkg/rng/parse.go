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

// This file contains the XML adapter: it reads the RNG wire form and
// produces the full-syntax tree.  The adapter strips whitespace-only
// text, documentation elements and processing instructions, and rejects
// the wire constructs outside the supported subset.

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// annotationNS is the namespace of documentation elements, which the
// adapter drops.
const annotationNS = "http://relaxng.org/ns/compatibility/annotations/1.0"

// unsupported lists the wire constructs rejected by the adapter.
var unsupported = map[string]bool{
	"list":        true,
	"externalRef": true,
	"include":     true,
	"div":         true,
	"param":       true,
	"nsName":      true,
}

// ParseGrammar reads the RNG XML wire form from data and returns the
// root of the full-syntax tree.  The document must contain exactly one
// top level element.
func ParseGrammar(data []byte) (*Node, error) {
	d := xml.NewDecoder(bytes.NewReader(data))
	var top *Node
	for {
		tok, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if top != nil {
				return nil, ErrMultipleTopLevel
			}
			top, err = parseElement(d, t)
			if err != nil {
				return nil, err
			}
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return nil, fmt.Errorf("unexpected text outside top level element: %q", string(t))
			}
		}
		// Comments and processing instructions are skipped.
	}
	if top == nil {
		return nil, ErrMultipleTopLevel
	}
	return Root(top), nil
}

// parseElement dispatches on the local name of se and builds the
// corresponding node, consuming input up to the matching end element.
func parseElement(d *xml.Decoder, se xml.StartElement) (*Node, error) {
	name := se.Name.Local
	if unsupported[name] {
		return nil, errUnsupported(name)
	}
	children, text, err := parseContent(d, se)
	if err != nil {
		return nil, err
	}

	switch name {
	case "empty":
		return Empty(), nil
	case "text":
		return Text(), nil
	case "notAllowed":
		return NotAllowed(), nil
	case "value":
		return Value(text), nil
	case "data":
		return Data(attr(se, "type")), nil
	case "ref":
		return Ref(attr(se, "name")), nil
	case "parentRef":
		return ParentRef(attr(se, "name")), nil
	case "element":
		if n := attr(se, "name"); n != "" {
			return NamedElement(n, children...), nil
		}
		if len(children) == 0 {
			return nil, fmt.Errorf("element is missing a name class")
		}
		return Element(nameClassOf(children[0]), children[1:]...), nil
	case "attribute":
		if n := attr(se, "name"); n != "" {
			return NamedAttribute(n, children...), nil
		}
		if len(children) == 0 {
			return nil, fmt.Errorf("attribute is missing a name class")
		}
		return Attribute(nameClassOf(children[0]), children[1:]...), nil
	case "group":
		return Group(children...), nil
	case "interleave":
		return Interleave(children...), nil
	case "choice":
		return Choice(children...), nil
	case "optional":
		return Optional(children...), nil
	case "zeroOrMore":
		return ZeroOrMore(children...), nil
	case "oneOrMore":
		return OneOrMore(children...), nil
	case "mixed":
		return Mixed(children...), nil
	case "grammar":
		return Grammar(children...), nil
	case "start":
		c, err := combineAttr(se)
		if err != nil {
			return nil, err
		}
		if len(children) != 1 {
			return nil, fmt.Errorf("start must contain exactly one pattern, has %d", len(children))
		}
		return Start(c, children[0]), nil
	case "define":
		c, err := combineAttr(se)
		if err != nil {
			return nil, err
		}
		return Define(attr(se, "name"), c, children...), nil
	case "name":
		return Name(strings.TrimSpace(text)), nil
	case "anyName":
		return AnyName(children...), nil
	case "except":
		if len(children) != 1 {
			return nil, fmt.Errorf("except must contain exactly one name class, has %d", len(children))
		}
		return ExceptName(children[0]), nil
	default:
		return nil, fmt.Errorf("unknown element: %s", name)
	}
}

// parseContent reads the children of an open element, returning the
// parsed child nodes and the accumulated character data.  Whitespace-only
// text, comments, processing instructions and documentation elements are
// dropped.
func parseContent(d *xml.Decoder, se xml.StartElement) ([]*Node, string, error) {
	var children []*Node
	var text strings.Builder
	for {
		tok, err := d.Token()
		if err != nil {
			return nil, "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Space == annotationNS {
				if err := d.Skip(); err != nil {
					return nil, "", err
				}
				continue
			}
			c, err := parseElement(d, t)
			if err != nil {
				return nil, "", err
			}
			children = append(children, c)
		case xml.EndElement:
			return children, text.String(), nil
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				text.Write(t)
			}
		}
	}
}

// nameClassOf normalizes a parsed name-class position: a pattern choice
// whose children are all name classes is really a name-class choice.
func nameClassOf(n *Node) *Node {
	if n.Kind != ChoiceKind {
		return n
	}
	for _, c := range n.Children {
		if !c.Kind.IsNameClass() {
			return n
		}
	}
	// Left-fold into binary nameChoice nodes.
	nc := n.Children[0]
	for _, c := range n.Children[1:] {
		nc = NameChoice(nc, c)
	}
	return nc
}

// attr returns the value of the named attribute of se, or "".
func attr(se xml.StartElement, name string) string {
	for _, a := range se.Attr {
		if a.Name.Local == name && a.Name.Space == "" {
			return a.Value
		}
	}
	return ""
}

// combineAttr reads the combine attribute of a start or define.
func combineAttr(se xml.StartElement) (Combine, error) {
	s := attr(se, "combine")
	if s == "" {
		return CombineNone, nil
	}
	c, ok := combineByName[s]
	if !ok {
		return CombineNone, fmt.Errorf("invalid combine value: %q", s)
	}
	return c, nil
}
