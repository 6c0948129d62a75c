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

// Package rng processes Relax NG grammars.
//
// A grammar enters the package either through ParseGrammar, which reads
// the XML wire form, or through the constructor functions (Root,
// Grammar, NamedElement, ...), which build the same full-syntax tree
// directly.
//
// Simplify reduces a full-syntax tree to the simple form of the Relax
// NG specification: one grammar, one start, every define wrapping
// exactly one element, and restricted arities.  IsSimple is the
// predicate for that form, asserted by Simplify on its own output:
//
//	g, err := rng.ParseGrammar(data)
//	if err != nil {
//		// the wire form was malformed or out of the supported subset
//	}
//	if err := rng.Simplify(g); err != nil {
//		// the grammar could not be reduced
//	}
//
// A Validator matches a document tree (package xmltree) against a
// grammar.  Its verdict is "plausible": true means the shape matched,
// while the detailed mismatches accumulate as problem strings on the
// document nodes and are gathered with CollectProblems:
//
//	v := rng.NewValidator(g)
//	ok, err := v.Validate(doc)
//	for _, p := range doc.CollectProblems(true) {
//		fmt.Println(p.Node.Path(), p.Message)
//	}
//
// Validation deliberately keeps going after a mismatch so that one run
// surfaces as many distinct problems as possible.
package rng
