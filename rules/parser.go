// Copyright 2026 The Quern Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
// https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package rules

import (
	"fmt"
	"strings"

	"github.com/cayleygraph/quad"
	p "github.com/vektah/goparsify"

	_ "github.com/quern/quern/vocab" // register rdf, rdfs, and owl prefixes
)

// Term is one position of a triple pattern: either a variable (Var set) or a
// ground value.
type Term struct {
	Var   string
	Value quad.Value
}

// IsVar reports whether the term is a variable.
func (t Term) IsVar() bool {
	return t.Var != ""
}

// TriplePattern is one subject/predicate/object pattern line.
type TriplePattern struct {
	Subject   Term
	Predicate Term
	Object    Term
}

// Construct is a parsed CONSTRUCT rule.
type Construct struct {
	Name     string
	Template []TriplePattern
	Where    []TriplePattern
}

// parse-time nodes; qnames stay unresolved until the prefix table is known.
type termNode struct {
	variable string
	value    quad.Value
	qname    string
}

type patternNode struct {
	s, p, o termNode
}

type prefixNode struct {
	prefix string
	ns     string
}

var constructRoot p.Parser

// repeatZeroOrMore matches zero or more parsers and returns the values as
// .Child[n]. Exists because the difference between Some & Many is not
// obvious from the name.
func repeatZeroOrMore(parser p.Parserish) p.Parser {
	return p.Some(parser)
}

// ignoreCase matches a keyword without case sensitivity.
func ignoreCase(match string) p.Parser {
	lenMatch := len(match)
	return p.NewParser("i/"+match+"/", func(s *p.State, r *p.Result) {
		s.WS(s)
		in := s.Get()
		if len(in) < lenMatch || !strings.EqualFold(match, in[:lenMatch]) {
			s.ErrorHere(match)
			return
		}
		s.Advance(lenMatch)
		r.Token = in[:lenMatch]
	})
}

func init() {
	// unbroken character sequence used by prefixes and variable names
	id := p.Chars("A-Za-z0-9_", 1)
	// character set permitted inside <...> IRIs
	iriChars := p.Chars("A-Za-z0-9:/#._%?=&+~\\-", 1)
	// character set of a qname's local part
	localChars := p.Chars("A-Za-z0-9_.\\-", 1)

	entity := p.Seq("<", p.Cut(), iriChars, ">").Map(func(n *p.Result) { // <http://example.org/Dog>
		n.Result = termNode{value: quad.IRI(n.Child[2].Token)}
	})
	variable := p.Seq("?", id).Map(func(n *p.Result) { // ?s
		n.Result = termNode{variable: n.Child[1].Token}
	})
	qname := p.Seq(id, ":", localChars).Map(func(n *p.Result) { // rdfs:subClassOf
		n.Result = termNode{qname: n.Child[0].Token + ":" + n.Child[2].Token}
	})
	literalString := p.Seq(p.StringLit(`"`)).Map(func(n *p.Result) { // "label"
		n.Result = termNode{value: quad.String(n.Child[0].Token)}
	})

	term := p.Any(variable, entity, qname, literalString)
	triple := p.Seq(term, term, term, ".").Map(func(n *p.Result) {
		n.Result = patternNode{
			s: n.Child[0].Result.(termNode),
			p: n.Child[1].Result.(termNode),
			o: n.Child[2].Result.(termNode),
		}
	})
	block := p.Seq("{", p.Cut(), repeatZeroOrMore(triple), "}").Map(func(n *p.Result) {
		children := n.Child[2].Child
		patterns := make([]patternNode, len(children))
		for i, c := range children {
			patterns[i] = c.Result.(patternNode)
		}
		n.Result = patterns
	})

	prefixDecl := p.Seq(ignoreCase("PREFIX"), p.Cut(), id, ":", p.Seq("<", iriChars, ">")).
		Map(func(n *p.Result) {
			n.Result = prefixNode{prefix: n.Child[2].Token, ns: n.Child[4].Child[1].Token}
		})

	constructRoot = p.Seq(
		repeatZeroOrMore(prefixDecl),
		ignoreCase("CONSTRUCT"), p.Cut(), block,
		ignoreCase("WHERE"), block,
	).Map(func(n *p.Result) {
		prefixes := make(map[string]string)
		for _, c := range n.Child[0].Child {
			decl := c.Result.(prefixNode)
			prefixes[decl.prefix] = decl.ns
		}
		n.Result = &parsed{
			prefixes: prefixes,
			template: n.Child[3].Result.([]patternNode),
			where:    n.Child[5].Result.([]patternNode),
		}
	})
}

type parsed struct {
	prefixes map[string]string
	template []patternNode
	where    []patternNode
}

// Parse compiles a rule into an executable Construct. It returns an error
// for anything other than a well-formed CONSTRUCT query: SELECT or ASK
// forms, unparsable text, or qnames with no known prefix.
func Parse(r Rule) (*Construct, error) {
	result, err := p.Run(constructRoot, stripComments(r.Content))
	if err != nil {
		return nil, fmt.Errorf("unable to parse rule '%s' (%s): %v", r.Name(), r.Source, err)
	}
	node := result.(*parsed)
	c := &Construct{Name: r.Name()}
	if c.Template, err = resolveAll(node.template, node.prefixes); err != nil {
		return nil, fmt.Errorf("rule '%s' (%s): %v", r.Name(), r.Source, err)
	}
	if c.Where, err = resolveAll(node.where, node.prefixes); err != nil {
		return nil, fmt.Errorf("rule '%s' (%s): %v", r.Name(), r.Source, err)
	}
	if len(c.Template) == 0 {
		return nil, fmt.Errorf("rule '%s' (%s): empty CONSTRUCT template", r.Name(), r.Source)
	}
	return c, nil
}

// ParseAll compiles every rule upfront so malformed rule files fail before
// any reasoning work starts.
func ParseAll(rs []Rule) ([]*Construct, error) {
	out := make([]*Construct, len(rs))
	for i, r := range rs {
		c, err := Parse(r)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

// stripComments removes lines whose first non-blank character is '#'.
func stripComments(in string) string {
	lines := strings.Split(in, "\n")
	out := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

func resolveAll(nodes []patternNode, prefixes map[string]string) ([]TriplePattern, error) {
	out := make([]TriplePattern, len(nodes))
	for i, n := range nodes {
		s, err := resolveTerm(n.s, prefixes)
		if err != nil {
			return nil, err
		}
		pr, err := resolveTerm(n.p, prefixes)
		if err != nil {
			return nil, err
		}
		o, err := resolveTerm(n.o, prefixes)
		if err != nil {
			return nil, err
		}
		out[i] = TriplePattern{Subject: s, Predicate: pr, Object: o}
	}
	return out, nil
}

// resolveTerm expands qnames using the rule's own PREFIX declarations first,
// then the globally registered vocabulary prefixes (rdf, rdfs, owl).
func resolveTerm(n termNode, prefixes map[string]string) (Term, error) {
	switch {
	case n.variable != "":
		return Term{Var: n.variable}, nil
	case n.qname != "":
		colon := strings.Index(n.qname, ":")
		prefix, local := n.qname[:colon], n.qname[colon+1:]
		if ns, ok := prefixes[prefix]; ok {
			return Term{Value: quad.IRI(ns + local)}, nil
		}
		full := quad.IRI(n.qname).Full()
		if string(full) == n.qname {
			return Term{}, fmt.Errorf("unknown prefix %q in %s", prefix, n.qname)
		}
		return Term{Value: full}, nil
	default:
		return Term{Value: n.value}, nil
	}
}
