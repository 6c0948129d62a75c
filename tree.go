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

package main

import (
	"fmt"
	"io"

	"github.com/skiadas/rngast/pkg/indent"
	"github.com/skiadas/rngast/pkg/rng"
	"github.com/skiadas/rngast/pkg/xmltree"
)

func init() {
	register(&formatter{
		name: "tree",
		f:    doTree,
		help: "display the simplified grammar in a tree format",
	})
}

func doTree(w io.Writer, g *rng.Node, _ *xmltree.Node) error {
	Write(w, g.Children[0])
	return nil
}

// Write writes n, formatted, and all of its children, to w.
func Write(w io.Writer, n *rng.Node) {
	switch n.Kind {
	case rng.ValueKind:
		fmt.Fprintf(w, "value %q\n", n.Name)
		return
	case rng.DataKind:
		fmt.Fprintf(w, "data %s\n", n.Name)
		return
	case rng.RefKind:
		fmt.Fprintf(w, "ref %s\n", n.Name)
		return
	case rng.NameKind:
		fmt.Fprintf(w, "name %s\n", n.Name)
		return
	case rng.DefineKind:
		fmt.Fprintf(w, "define %s {\n", n.Name) //}
	case rng.StartKind:
		fmt.Fprintf(w, "start {\n") //}
	default:
		if len(n.Children) == 0 {
			fmt.Fprintf(w, "%s\n", n.Kind)
			return
		}
		fmt.Fprintf(w, "%s {\n", n.Kind) //}
	}
	for _, c := range n.Children {
		Write(indent.NewWriter(w, "  "), c)
	}
	// { to match the brace below to keep brace matching working
	fmt.Fprintln(w, "}")
}
