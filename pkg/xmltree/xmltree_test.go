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

package xmltree

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	root, err := Parse([]byte(`<?xml version="1.0"?>
		<doc id="d1">
			<p>hello</p>
			<!-- note -->
			<p/>
		</doc>`))
	require.NoError(t, err)

	require.Equal(t, ElementNode, root.Kind)
	require.Equal(t, "doc", root.Name)
	require.Equal(t, map[string]string{"id": "d1"}, root.Attr)
	require.Len(t, root.Children, 3)

	p := root.Children[0]
	require.Equal(t, ElementNode, p.Kind)
	require.Equal(t, "p", p.Name)
	require.Same(t, root, p.Parent)
	require.Len(t, p.Children, 1)
	require.Equal(t, TextNode, p.Children[0].Kind)
	require.Equal(t, "hello", p.Children[0].Value)

	require.Equal(t, CommentNode, root.Children[1].Kind)
	require.Equal(t, ElementNode, root.Children[2].Kind)
}

func TestParseStripsWhitespaceText(t *testing.T) {
	root, err := Parse([]byte("<doc>\n  <p/>\n  <p/>\n</doc>"))
	require.NoError(t, err)
	require.Len(t, root.Children, 2)
	for _, c := range root.Children {
		require.Equal(t, ElementNode, c.Kind)
	}
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]byte(`<a/><b/>`))
	require.ErrorContains(t, err, "multiple top level elements")

	_, err = Parse([]byte(`  `))
	require.ErrorContains(t, err, "no top level element")
}

func TestProblems(t *testing.T) {
	inner := Element("p", nil)
	root := Element("doc", nil, inner, Text("x"))

	root.AddProblem("first")
	inner.AddProblem("second")
	root.Children[1].AddProblem("third")

	require.Equal(t, []string{"first"}, root.Problems())

	got := root.CollectProblems(true)
	require.Len(t, got, 3)
	require.Equal(t, "first", got[0].Message)
	require.Same(t, root, got[0].Node)
	require.Equal(t, "second", got[1].Message)
	require.Same(t, inner, got[1].Node)
	require.Equal(t, "third", got[2].Message)

	require.Len(t, root.CollectProblems(false), 1)

	root.ClearProblems()
	require.Empty(t, root.CollectProblems(true))
}

func TestPath(t *testing.T) {
	leaf := Element("em", nil)
	root := Element("doc", nil, Element("p", nil, leaf))
	require.Equal(t, "/doc/p/em", leaf.Path())
	require.Equal(t, "/doc", root.Path())
}
