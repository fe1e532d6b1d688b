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

// Package filter classifies and strips triples that are structurally invalid
// or semantically unwanted. The invalid set catches reasoner artifacts that
// violate RDF well-formedness and is applied after every reasoning pass; the
// unwanted set catches valid-but-useless bloat and is applied once as a
// final cleanup, because unwanted triples may still serve as premises for
// further inference rounds.
package filter

import (
	"github.com/cayleygraph/quad"
	log "github.com/sirupsen/logrus"

	"github.com/quern/quern/dataset"
	"github.com/quern/quern/vocab"
)

// Func reports whether a triple should be removed. Some predicates only
// inspect the triple; others need the owning graph (the undeclared-blank-node
// check scans the whole graph for subject usage).
type Func func(t dataset.Triple, g *dataset.Graph) bool

// Named pairs a filter function with a stable name for reporting.
type Named struct {
	Name  string
	Match Func
}

// Set is an ordered collection of named filters.
type Set []Named

// subjectIsLiteral identifies triples whose subject is a literal, which is
// invalid RDF. Known to be produced by buggy OWL-RL implementations.
func subjectIsLiteral(t dataset.Triple, _ *dataset.Graph) bool {
	return dataset.IsLiteral(t.Subject)
}

// objectIsEmptyString identifies literals that would usually be better
// represented as missing values.
func objectIsEmptyString(t dataset.Triple, _ *dataset.Graph) bool {
	s, ok := dataset.LiteralText(t.Object)
	return ok && s == ""
}

// reflexivePredicates are predicates for which s == o carries no information.
var reflexivePredicates = map[quad.Value]bool{
	vocab.SameAs:             true,
	vocab.EquivalentClass:    true,
	vocab.EquivalentProperty: true,
	vocab.SubClassOf:         true,
	vocab.SubPropertyOf:      true,
}

// redundantReflexive identifies reflexive statements such as x sameAs x.
func redundantReflexive(t dataset.Triple, _ *dataset.Graph) bool {
	return t.Subject == t.Object && reflexivePredicates[t.Predicate]
}

// thingPredicates are predicates for which owl:Thing as object is vacuous.
var thingPredicates = map[quad.Value]bool{
	vocab.Type:       true,
	vocab.SubClassOf: true,
	vocab.Domain:     true,
	vocab.Range:      true,
}

// redundantThingDeclaration identifies declarations that something is (or is
// below) owl:Thing, which holds universally.
func redundantThingDeclaration(t dataset.Triple, _ *dataset.Graph) bool {
	return t.Object == vocab.Thing && thingPredicates[t.Predicate]
}

// redundantNothingSubclass identifies owl:Nothing rdfs:subClassOf x, which
// holds for every x.
func redundantNothingSubclass(t dataset.Triple, _ *dataset.Graph) bool {
	return t.Subject == vocab.Nothing && t.Predicate == vocab.SubClassOf
}

// blankDeclPredicates are the predicates checked by undeclaredBlankNode.
var blankDeclPredicates = map[quad.Value]bool{
	vocab.Type:          true,
	vocab.SubClassOf:    true,
	vocab.SubPropertyOf: true,
	vocab.Domain:        true,
	vocab.Range:         true,
}

// undeclaredBlankNode identifies declarations against a blank node that is
// never used as a subject anywhere in the graph: an orphaned, unusable
// inferred node.
func undeclaredBlankNode(t dataset.Triple, g *dataset.Graph) bool {
	if !dataset.IsBlank(t.Object) || !blankDeclPredicates[t.Predicate] {
		return false
	}
	return !g.HasSubject(t.Object)
}

// Invalid strips triples that are not well-formed RDF. Applied immediately
// after every raw reasoner pass.
var Invalid = Set{
	{Name: "subject-is-literal", Match: subjectIsLiteral},
}

// Unwanted strips triples that are valid but bloat the output. Applied once,
// after the inference loop has converged.
var Unwanted = Set{
	{Name: "object-is-empty-string", Match: objectIsEmptyString},
	{Name: "reflexive-redundant", Match: redundantReflexive},
	{Name: "redundant-thing-declaration", Match: redundantThingDeclaration},
	{Name: "redundant-nothing-subclass", Match: redundantNothingSubclass},
	{Name: "undeclared-blank-node", Match: undeclaredBlankNode},
}

// All is Invalid followed by Unwanted.
var All = append(append(Set{}, Invalid...), Unwanted...)

// Apply removes every triple matched by any filter in the set from the
// graph, in place. Matches are collected before removal so the graph is
// never mutated while being iterated.
//
// The per-filter counts may overlap: a triple matched by several filters is
// counted once per filter but removed once, so the sum of counts can exceed
// the number of triples actually removed. That discrepancy is intentional.
func Apply(g *dataset.Graph, set Set) (int, map[string]int) {
	before := g.Len()
	counts := make(map[string]int)
	var toRemove []dataset.Triple
	for _, t := range g.Triples(dataset.Pattern{}) {
		matched := false
		for _, f := range set {
			if f.Match(t, g) {
				counts[f.Name]++
				matched = true
			}
		}
		if matched {
			toRemove = append(toRemove, t)
		}
	}
	for _, t := range toRemove {
		g.Remove(t)
	}
	removed := before - g.Len()
	if removed > 0 {
		log.Debugf("%d triples removed from graph %v by %d filters", removed, g.ID(), len(set))
		for name, count := range counts {
			log.Debugf("  - %d triples identified by %s", count, name)
		}
	}
	return removed, counts
}
