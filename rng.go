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

// Program rngast parses a Relax NG grammar, reduces it to the simple
// form of the Relax NG specification, and either displays the
// simplified grammar or validates an XML document against it.
//
// Usage: rngast [--format FORMAT] GRAMMAR.rng [DOC.xml]
//
// FORMAT, which defaults to "tree", selects the output to produce.  Use
// "rngast --help" for the list of available formats.  Formats that
// validate require DOC.xml.
package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/pborman/getopt"
	"github.com/skiadas/rngast/pkg/rng"
	"github.com/skiadas/rngast/pkg/xmltree"
)

// Each format must register a formatter with register.  The function f
// is called once with the simplified grammar and, when needsDoc is set,
// the parsed document.
type formatter struct {
	name     string
	f        func(io.Writer, *rng.Node, *xmltree.Node) error
	help     string
	needsDoc bool
}

var formatters = map[string]*formatter{}

func register(f *formatter) {
	formatters[f.name] = f
}

var stop = os.Exit

func main() {
	formats := make([]string, 0, len(formatters))
	for k := range formatters {
		formats = append(formats, k)
	}
	sort.Strings(formats)

	var format string
	var help bool
	getopt.StringVarLong(&format, "format", 0, "format to display: "+strings.Join(formats, ", "), "FORMAT")
	getopt.BoolVarLong(&help, "help", '?', "display help")
	getopt.SetParameters("GRAMMAR.rng [DOC.xml]")
	getopt.Parse()

	if help {
		getopt.CommandLine.PrintUsage(os.Stderr)
		fmt.Fprintf(os.Stderr, "\nFormats:\n")
		for _, fn := range formats {
			f := formatters[fn]
			fmt.Fprintf(os.Stderr, "    %s - %s\n", f.name, f.help)
		}
		stop(0)
	}

	if format == "" {
		format = "tree"
	}
	fm, ok := formatters[format]
	if !ok {
		fmt.Fprintf(os.Stderr, "%s: invalid format.  Choices are %s\n", format, strings.Join(formats, ", "))
		stop(1)
	}

	args := getopt.Args()
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "rngast: missing grammar file")
		stop(1)
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop(1)
	}
	grammar, err := rng.ParseGrammar(data)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop(1)
	}
	if err := rng.Simplify(grammar); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop(1)
	}

	var doc *xmltree.Node
	if fm.needsDoc {
		if len(args) < 2 {
			fmt.Fprintf(os.Stderr, "rngast: format %q needs a document file\n", fm.name)
			stop(1)
		}
		docData, err := os.ReadFile(args[1])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			stop(1)
		}
		doc, err = xmltree.Parse(docData)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			stop(1)
		}
	}

	if err := fm.f(os.Stdout, grammar, doc); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop(1)
	}
}
