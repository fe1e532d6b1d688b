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

	"github.com/cayleygraph/quad"

	"github.com/quern/quern/dataset"
)

// Execute evaluates the rule's WHERE patterns against the whole store (all
// graphs, default included) and instantiates the CONSTRUCT template once per
// solution. It returns the constructed triples; it never mutates the store.
//
// A solution that leaves a template variable unbound, or instantiates a
// non-IRI predicate, is a malformed rule and aborts execution with an error.
func (c *Construct) Execute(st *dataset.Store) ([]dataset.Triple, error) {
	binds := make(map[string]quad.Value)
	var out []dataset.Triple

	var solve func(i int) error
	solve = func(i int) error {
		if i == len(c.Where) {
			triples, err := c.instantiate(binds)
			if err != nil {
				return err
			}
			out = append(out, triples...)
			return nil
		}
		pattern := c.Where[i]
		for _, t := range st.AllTriples(boundPattern(pattern, binds)) {
			newly, ok := bindMatch(pattern, t, binds)
			if !ok {
				continue
			}
			err := solve(i + 1)
			for _, v := range newly {
				delete(binds, v)
			}
			if err != nil {
				return err
			}
		}
		return nil
	}
	if err := solve(0); err != nil {
		return nil, err
	}
	return out, nil
}

// boundPattern narrows a triple pattern with the current bindings; variables
// still unbound stay wildcards.
func boundPattern(tp TriplePattern, binds map[string]quad.Value) dataset.Pattern {
	resolve := func(t Term) quad.Value {
		if t.IsVar() {
			return binds[t.Var] // nil when unbound
		}
		return t.Value
	}
	return dataset.Pattern{
		Subject:   resolve(tp.Subject),
		Predicate: resolve(tp.Predicate),
		Object:    resolve(tp.Object),
	}
}

// bindMatch binds the pattern's unbound variables against the triple,
// checking consistency for variables repeated within the pattern. It returns
// the variables newly bound here, and whether the triple matches.
func bindMatch(tp TriplePattern, t dataset.Triple, binds map[string]quad.Value) ([]string, bool) {
	var newly []string
	undo := func() {
		for _, v := range newly {
			delete(binds, v)
		}
	}
	positions := [3]struct {
		term  Term
		value quad.Value
	}{
		{tp.Subject, t.Subject},
		{tp.Predicate, t.Predicate},
		{tp.Object, t.Object},
	}
	for _, pos := range positions {
		if !pos.term.IsVar() {
			if pos.term.Value != pos.value {
				undo()
				return nil, false
			}
			continue
		}
		if bound, ok := binds[pos.term.Var]; ok {
			if bound != pos.value {
				undo()
				return nil, false
			}
			continue
		}
		binds[pos.term.Var] = pos.value
		newly = append(newly, pos.term.Var)
	}
	return newly, true
}

// instantiate fills the CONSTRUCT template from one solution's bindings.
func (c *Construct) instantiate(binds map[string]quad.Value) ([]dataset.Triple, error) {
	out := make([]dataset.Triple, 0, len(c.Template))
	resolve := func(t Term) (quad.Value, error) {
		if !t.IsVar() {
			return t.Value, nil
		}
		v, ok := binds[t.Var]
		if !ok {
			return nil, fmt.Errorf("unbound variable ?%s in CONSTRUCT template of rule '%s'", t.Var, c.Name)
		}
		return v, nil
	}
	for _, tp := range c.Template {
		s, err := resolve(tp.Subject)
		if err != nil {
			return nil, err
		}
		p, err := resolve(tp.Predicate)
		if err != nil {
			return nil, err
		}
		if _, ok := p.(quad.IRI); !ok {
			return nil, fmt.Errorf("rule '%s' constructed a non-IRI predicate %s", c.Name, quad.StringOf(p))
		}
		o, err := resolve(tp.Object)
		if err != nil {
			return nil, err
		}
		out = append(out, dataset.Triple{Subject: s, Predicate: p, Object: o})
	}
	return out, nil
}
