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

package infer

import (
	"fmt"

	"github.com/cayleygraph/quad"
	log "github.com/sirupsen/logrus"

	"github.com/quern/quern/dataset"
	"github.com/quern/quern/vocab"
)

// owlRL forward-chains a practical subset of the OWL 2 RL entailment rules:
// subclass and subproperty transitivity and lifting, domain and range
// typing, inverse, symmetric, and transitive properties, class and property
// equivalence, and sameAs symmetry and transitivity. Schema-validation
// rules (cardinality, disjointness, datatype checks) are out of scope; the
// backend derives triples, it does not detect inconsistencies.
type owlRL struct{}

func (*owlRL) Name() string { return "owlrl" }

// schema is the per-pass index of the store's terminological triples.
type schema struct {
	subClassOf    map[quad.Value][]quad.Value
	subPropertyOf map[quad.Value][]quad.Value
	domain        map[quad.Value][]quad.Value
	rangeOf       map[quad.Value][]quad.Value
	inverseOf     map[quad.Value][]quad.Value
	symmetric     map[quad.Value]bool
	transitive    map[quad.Value]bool
}

// Expand runs the rules to fixpoint. Each pass re-reads the whole store so
// conclusions from earlier passes (and from other graphs, such as the rule
// inference graph) feed later ones.
func (r *owlRL) Expand(st *dataset.Store, dst *dataset.Graph) error {
	if !st.Owns(dst) {
		return fmt.Errorf("reasoner destination graph %s is not owned by the store", quad.StringOf(dst.ID()))
	}
	pass := 0
	for {
		added := r.pass(st, dst)
		pass++
		log.Debugf("owlrl pass %d added %d triples", pass, added)
		if added == 0 {
			return nil
		}
	}
}

// pass runs every rule once over the current store contents. It returns how
// many new triples it added to dst.
func (r *owlRL) pass(st *dataset.Store, dst *dataset.Graph) int {
	sc := indexSchema(st)
	added := 0
	conclude := func(t dataset.Triple) {
		// Literal subjects are not valid RDF; drop such conclusions at the
		// source rather than leaning on the downstream filter.
		if dataset.IsLiteral(t.Subject) {
			return
		}
		if st.HasTriple(t) {
			return
		}
		if dst.Add(t) {
			added++
		}
	}

	all := st.AllTriples(dataset.Pattern{})
	for _, t := range all {
		switch t.Predicate {
		case vocab.SubClassOf:
			// scm-sco: subclass transitivity.
			for _, super := range sc.subClassOf[t.Object] {
				conclude(dataset.Triple{Subject: t.Subject, Predicate: vocab.SubClassOf, Object: super})
			}
		case vocab.SubPropertyOf:
			// scm-spo: subproperty transitivity.
			for _, super := range sc.subPropertyOf[t.Object] {
				conclude(dataset.Triple{Subject: t.Subject, Predicate: vocab.SubPropertyOf, Object: super})
			}
		case vocab.EquivalentClass:
			// scm-eqc2 in both directions.
			conclude(dataset.Triple{Subject: t.Subject, Predicate: vocab.SubClassOf, Object: t.Object})
			conclude(dataset.Triple{Subject: t.Object, Predicate: vocab.SubClassOf, Object: t.Subject})
		case vocab.EquivalentProperty:
			conclude(dataset.Triple{Subject: t.Subject, Predicate: vocab.SubPropertyOf, Object: t.Object})
			conclude(dataset.Triple{Subject: t.Object, Predicate: vocab.SubPropertyOf, Object: t.Subject})
		case vocab.SameAs:
			// eq-sym and eq-trans.
			conclude(dataset.Triple{Subject: t.Object, Predicate: vocab.SameAs, Object: t.Subject})
			for _, further := range st.AllTriples(dataset.Pattern{Subject: t.Object, Predicate: vocab.SameAs}) {
				if further.Object != t.Subject {
					conclude(dataset.Triple{Subject: t.Subject, Predicate: vocab.SameAs, Object: further.Object})
				}
			}
		case vocab.Type:
			// cax-sco: lift instances along the subclass hierarchy.
			for _, super := range sc.subClassOf[t.Object] {
				conclude(dataset.Triple{Subject: t.Subject, Predicate: vocab.Type, Object: super})
			}
		}

		// Assertion rules keyed on the predicate's own declarations.
		for _, super := range sc.subPropertyOf[t.Predicate] {
			// prp-spo1
			conclude(dataset.Triple{Subject: t.Subject, Predicate: super, Object: t.Object})
		}
		for _, class := range sc.domain[t.Predicate] {
			// prp-dom
			conclude(dataset.Triple{Subject: t.Subject, Predicate: vocab.Type, Object: class})
		}
		for _, class := range sc.rangeOf[t.Predicate] {
			// prp-rng; literals cannot carry a type assertion
			if !dataset.IsLiteral(t.Object) {
				conclude(dataset.Triple{Subject: t.Object, Predicate: vocab.Type, Object: class})
			}
		}
		for _, inv := range sc.inverseOf[t.Predicate] {
			// prp-inv1 / prp-inv2
			if !dataset.IsLiteral(t.Object) {
				conclude(dataset.Triple{Subject: t.Object, Predicate: inv, Object: t.Subject})
			}
		}
		if sc.symmetric[t.Predicate] && !dataset.IsLiteral(t.Object) {
			// prp-symp
			conclude(dataset.Triple{Subject: t.Object, Predicate: t.Predicate, Object: t.Subject})
		}
		if sc.transitive[t.Predicate] {
			// prp-trp
			for _, further := range st.AllTriples(dataset.Pattern{Subject: t.Object, Predicate: t.Predicate}) {
				conclude(dataset.Triple{Subject: t.Subject, Predicate: t.Predicate, Object: further.Object})
			}
		}
	}
	return added
}

// indexSchema collects the terminological triples the assertion rules key
// on. Equivalence axioms index as subsumption in both directions so one
// pass per fixpoint round suffices for them.
func indexSchema(st *dataset.Store) *schema {
	sc := &schema{
		subClassOf:    make(map[quad.Value][]quad.Value),
		subPropertyOf: make(map[quad.Value][]quad.Value),
		domain:        make(map[quad.Value][]quad.Value),
		rangeOf:       make(map[quad.Value][]quad.Value),
		inverseOf:     make(map[quad.Value][]quad.Value),
		symmetric:     make(map[quad.Value]bool),
		transitive:    make(map[quad.Value]bool),
	}
	for _, t := range st.AllTriples(dataset.Pattern{}) {
		switch t.Predicate {
		case vocab.SubClassOf:
			sc.subClassOf[t.Subject] = append(sc.subClassOf[t.Subject], t.Object)
		case vocab.SubPropertyOf:
			sc.subPropertyOf[t.Subject] = append(sc.subPropertyOf[t.Subject], t.Object)
		case vocab.EquivalentClass:
			sc.subClassOf[t.Subject] = append(sc.subClassOf[t.Subject], t.Object)
			sc.subClassOf[t.Object] = append(sc.subClassOf[t.Object], t.Subject)
		case vocab.EquivalentProperty:
			sc.subPropertyOf[t.Subject] = append(sc.subPropertyOf[t.Subject], t.Object)
			sc.subPropertyOf[t.Object] = append(sc.subPropertyOf[t.Object], t.Subject)
		case vocab.Domain:
			sc.domain[t.Subject] = append(sc.domain[t.Subject], t.Object)
		case vocab.Range:
			sc.rangeOf[t.Subject] = append(sc.rangeOf[t.Subject], t.Object)
		case vocab.InverseOf:
			sc.inverseOf[t.Subject] = append(sc.inverseOf[t.Subject], t.Object)
			sc.inverseOf[t.Object] = append(sc.inverseOf[t.Object], t.Subject)
		case vocab.Type:
			switch t.Object {
			case vocab.SymmetricProperty:
				sc.symmetric[t.Subject] = true
			case vocab.TransitiveProperty:
				sc.transitive[t.Subject] = true
			}
		}
	}
	return sc
}
