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

	"github.com/skiadas/rngast/pkg/rng"
	"github.com/skiadas/rngast/pkg/xmltree"
)

func init() {
	register(&formatter{
		name:     "problems",
		f:        doProblems,
		help:     "validate a document and list its problems",
		needsDoc: true,
	})
}

func doProblems(w io.Writer, g *rng.Node, doc *xmltree.Node) error {
	v := rng.NewValidator(g)
	plausible, err := v.Validate(doc)
	if err != nil {
		return err
	}
	problems := doc.CollectProblems(true)
	for _, p := range problems {
		fmt.Fprintf(w, "%s: %s\n", p.Node.Path(), p.Message)
	}
	if !plausible {
		return fmt.Errorf("document does not match the grammar")
	}
	if len(problems) > 0 {
		return fmt.Errorf("found %d problems", len(problems))
	}
	return nil
}
