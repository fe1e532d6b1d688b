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

package dataset

import (
	"github.com/cayleygraph/quad"
)

// Store owns a collection of named graphs plus exactly one default graph.
// Graph identifiers keep their creation order so exports and iteration are
// deterministic. Multiple Views may share one Store; they observe each
// other's mutations immediately.
type Store struct {
	named map[quad.Value]*Graph
	order []quad.Value
	def   *Graph
	ns    *Namespaces

	// queryUnion controls whether Triples over the store reads the union of
	// all graphs or only the default graph. External reasoners have been
	// observed flipping the equivalent rdflib flag as a side effect, so the
	// orchestrator always sets it explicitly rather than relying on it.
	queryUnion bool
}

// New creates an empty store.
func New() *Store {
	return &Store{
		named: make(map[quad.Value]*Graph),
		def:   newGraph(nil),
		ns:    NewNamespaces(),
	}
}

// Graph returns the named graph with the given identifier, creating it on
// first reference. A nil identifier returns the default graph.
func (s *Store) Graph(id quad.Value) *Graph {
	if id == nil {
		return s.def
	}
	if g, ok := s.named[id]; ok {
		return g
	}
	g := newGraph(id)
	s.named[id] = g
	s.order = append(s.order, id)
	return g
}

// Named looks up a named graph without creating it.
func (s *Store) Named(id quad.Value) (*Graph, bool) {
	g, ok := s.named[id]
	return g, ok
}

// DefaultGraph returns the default (unnamed) graph.
func (s *Store) DefaultGraph() *Graph {
	return s.def
}

// GraphIDs returns the named graph identifiers in creation order.
func (s *Store) GraphIDs() []quad.Value {
	out := make([]quad.Value, len(s.order))
	copy(out, s.order)
	return out
}

// HasGraph reports whether a named graph with this identifier exists.
func (s *Store) HasGraph(id quad.Value) bool {
	_, ok := s.named[id]
	return ok
}

// RemoveGraph deletes a named graph and all its triples from the store. It
// returns true if the graph existed. Removal is always explicit; graphs are
// never garbage collected.
func (s *Store) RemoveGraph(id quad.Value) bool {
	if _, ok := s.named[id]; !ok {
		return false
	}
	delete(s.named, id)
	for i, gid := range s.order {
		if gid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Owns reports whether g is one of this store's graphs. Reasoner
// destinations must satisfy this.
func (s *Store) Owns(g *Graph) bool {
	if g == s.def {
		return true
	}
	if g == nil || g.id == nil {
		return false
	}
	return s.named[g.id] == g
}

// Len returns the total number of triples across the default graph and all
// named graphs.
func (s *Store) Len() int {
	n := s.def.Len()
	for _, g := range s.named {
		n += g.Len()
	}
	return n
}

// Add inserts a quad; a nil Label addresses the default graph. Returns true
// if the triple was new to its graph.
func (s *Store) Add(q quad.Quad) bool {
	return s.Graph(q.Label).Add(TripleOf(q))
}

// Remove deletes a quad from its graph, returning true if it was present.
func (s *Store) Remove(q quad.Quad) bool {
	if q.Label == nil {
		return s.def.Remove(TripleOf(q))
	}
	g, ok := s.named[q.Label]
	if !ok {
		return false
	}
	return g.Remove(TripleOf(q))
}

// HasTriple reports whether the triple exists in any graph, default
// included.
func (s *Store) HasTriple(t Triple) bool {
	if s.def.Has(t) {
		return true
	}
	for _, g := range s.named {
		if g.Has(t) {
			return true
		}
	}
	return false
}

// AllTriples returns matching triples from the default graph and every named
// graph, regardless of the query-union flag. The reasoner and rule engine
// always read the whole store.
func (s *Store) AllTriples(p Pattern) []Triple {
	out := s.def.Triples(p)
	for _, id := range s.order {
		out = append(out, s.named[id].Triples(p)...)
	}
	return out
}

// Triples returns matching triples honoring the query-union flag: the union
// of all graphs when set, only the default graph otherwise.
func (s *Store) Triples(p Pattern) []Triple {
	if s.queryUnion {
		return s.AllTriples(p)
	}
	return s.def.Triples(p)
}

// Quads returns matching quads from every graph, default graph quads with a
// nil Label.
func (s *Store) Quads(p Pattern) []quad.Quad {
	var out []quad.Quad
	for _, t := range s.def.Triples(p) {
		out = append(out, t.Quad(nil))
	}
	for _, id := range s.order {
		for _, t := range s.named[id].Triples(p) {
			out = append(out, t.Quad(id))
		}
	}
	return out
}

// SetQueryUnion sets the union-query mode. See the field comment.
func (s *Store) SetQueryUnion(on bool) {
	s.queryUnion = on
}

// QueryUnion reports the current union-query mode.
func (s *Store) QueryUnion() bool {
	return s.queryUnion
}

// Namespaces returns the store's prefix bindings.
func (s *Store) Namespaces() *Namespaces {
	return s.ns
}

// Namespaces maps prefixes to namespace IRIs for serialization. Bindings
// keep insertion order.
type Namespaces struct {
	byPrefix map[string]string
	order    []string
}

// NewNamespaces creates an empty binding set.
func NewNamespaces() *Namespaces {
	return &Namespaces{byPrefix: make(map[string]string)}
}

// Bind associates a prefix with a namespace IRI, replacing any previous
// binding for the prefix.
func (n *Namespaces) Bind(prefix, namespace string) {
	if _, ok := n.byPrefix[prefix]; !ok {
		n.order = append(n.order, prefix)
	}
	n.byPrefix[prefix] = namespace
}

// Get returns the namespace bound to prefix.
func (n *Namespaces) Get(prefix string) (string, bool) {
	ns, ok := n.byPrefix[prefix]
	return ns, ok
}

// Prefixes returns the bound prefixes in insertion order.
func (n *Namespaces) Prefixes() []string {
	out := make([]string, len(n.order))
	copy(out, n.order)
	return out
}

// CopyTo replays every binding onto dst. Used when materializing a view so
// serialized output keeps the original store's prefixes.
func (n *Namespaces) CopyTo(dst *Namespaces) {
	for _, p := range n.order {
		dst.Bind(p, n.byPrefix[p])
	}
}
