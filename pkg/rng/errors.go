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
	"errors"
	"fmt"
)

// Structural errors: the grammar itself is malformed.  They abort the
// operation that found them; document mismatches are never reported this
// way (those accumulate as problems on the document tree instead).
var (
	ErrNoStart           = errors.New("Grammar should begin with start")
	ErrStartsNoCombine   = errors.New("Cannot have multiple starts without specifying combine")
	ErrStartsCombine     = errors.New("Cannot have multiple starts with different combine values")
	ErrRefOutsideGrammar = errors.New("Each ref or parentRef must be within a grammar")
	ErrOrphanParentRef   = errors.New("parentRef has no enclosing parent grammar")
	ErrMultipleTopLevel  = errors.New("Must have exactly one top level element")
	ErrNotSimple         = errors.New("Not valid as simplified RelaxNG")
)

// errUnknownRef reports a ref or parentRef whose name has no define.
func errUnknownRef(name string) error {
	return fmt.Errorf("Referencing unknown definition: %s", name)
}

// errDefinesNoCombine reports multiple same-name defines with no combine.
func errDefinesNoCombine(name string) error {
	return fmt.Errorf("Cannot have multiple defines for %q without specifying combine", name)
}

// errDefinesCombine reports same-name defines with conflicting combines.
func errDefinesCombine(name string) error {
	return fmt.Errorf("Cannot have multiple defines for %q with different combine values", name)
}

// errUnsupported reports a wire construct outside the supported subset.
func errUnsupported(name string) error {
	return fmt.Errorf("unsupported construct: %s", name)
}
