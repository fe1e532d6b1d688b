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
	"fmt"

	"github.com/cayleygraph/quad"
)

// PermissionError reports a view operation addressed at a graph outside the
// view's include list. An earlier iteration of this design returned an empty
// graph instead; that masked bugs, so the view now always fails loud.
type PermissionError struct {
	Op    string
	Graph quad.Value
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("cannot %s graph %s: not visible in this view", e.Op, quad.StringOf(e.Graph))
}

// View is a restricted projection over a shared Store, exposing only the
// graphs in its include list. It owns no data: mutations through a view are
// visible through every other handle on the same store.
//
// A view never includes the default graph, so bare triples (quads with a nil
// Label) are always rejected.
type View struct {
	store    *Store
	included []quad.Value
	index    map[quad.Value]bool
}

// NewView constructs a view over st exposing exactly the given graph
// identifiers. The identifiers need not exist in the store yet; they may be
// created later through the view.
func NewView(st *Store, included []quad.Value) *View {
	v := &View{
		store:    st,
		included: append([]quad.Value(nil), included...),
		index:    make(map[quad.Value]bool, len(included)),
	}
	for _, id := range v.included {
		if id != nil {
			v.index[id] = true
		}
	}
	return v
}

// Store returns the underlying shared store.
func (v *View) Store() *Store {
	return v.store
}

// Included returns the include list in order.
func (v *View) Included() []quad.Value {
	out := make([]quad.Value, len(v.included))
	copy(out, v.included)
	return out
}

// Includes reports whether the graph identifier is visible in this view.
func (v *View) Includes(id quad.Value) bool {
	return id != nil && v.index[id]
}

// Graph returns a live handle to a named graph in the view, creating it in
// the store on first reference. Identifiers outside the include list fail
// with a *PermissionError.
func (v *View) Graph(id quad.Value) (*Graph, error) {
	if !v.Includes(id) {
		return nil, &PermissionError{Op: "access", Graph: id}
	}
	return v.store.Graph(id), nil
}

// Len returns the sum of triple counts over the included graphs only.
// Included graphs that do not exist yet count zero and are not created.
func (v *View) Len() int {
	n := 0
	for _, id := range v.included {
		if g, ok := v.store.Named(id); ok {
			n += g.Len()
		}
	}
	return n
}

// Triples returns the matching triples from included graphs only. It reads
// each included graph directly and never enumerates the store, so the
// (possibly absent) default graph is never touched.
func (v *View) Triples(p Pattern) []Triple {
	var out []Triple
	for _, id := range v.included {
		if g, ok := v.store.Named(id); ok {
			out = append(out, g.Triples(p)...)
		}
	}
	return out
}

// Quads returns the matching quads from included graphs only.
func (v *View) Quads(p Pattern) []quad.Quad {
	var out []quad.Quad
	for _, id := range v.included {
		if g, ok := v.store.Named(id); ok {
			for _, t := range g.Triples(p) {
				out = append(out, t.Quad(id))
			}
		}
	}
	return out
}

// Add inserts a quad through the view. The quad's graph must be in the
// include list; a nil Label targets the default graph, which is never
// included, so bare-triple adds always fail.
func (v *View) Add(q quad.Quad) error {
	if !v.Includes(q.Label) {
		return &PermissionError{Op: "add to", Graph: q.Label}
	}
	v.store.Graph(q.Label).Add(TripleOf(q))
	return nil
}

// Remove deletes a quad through the view, with the same inclusion check as
// Add.
func (v *View) Remove(q quad.Quad) error {
	if !v.Includes(q.Label) {
		return &PermissionError{Op: "remove from", Graph: q.Label}
	}
	v.store.Remove(q)
	return nil
}

// RemoveGraph removes an included graph from the underlying store entirely.
// The removal is visible to all handles sharing the store.
func (v *View) RemoveGraph(id quad.Value) error {
	if !v.Includes(id) {
		return &PermissionError{Op: "remove", Graph: id}
	}
	v.store.RemoveGraph(id)
	return nil
}

// Invert returns a new view over the same store whose include list is the
// complement: every named graph currently in the store that this view does
// not include. Inverting twice yields the same include set provided the
// store's graph set did not change in between.
func (v *View) Invert() *View {
	var complement []quad.Value
	for _, id := range v.store.GraphIDs() {
		if !v.index[id] {
			complement = append(complement, id)
		}
	}
	return NewView(v.store, complement)
}

// Collapse copies every triple visible through the view into the default
// graph of a brand-new independent store, discarding named-graph structure.
// Reasoners that behave differently over named graphs than over the default
// graph are always fed a collapsed store.
func (v *View) Collapse() *Store {
	out := New()
	def := out.DefaultGraph()
	for _, t := range v.Triples(Pattern{}) {
		def.Add(t)
	}
	v.store.Namespaces().CopyTo(out.Namespaces())
	return out
}

// Materialize copies only the quads visible through the view into a new
// store, preserving named-graph structure and the original store's prefix
// bindings. Serializers read stores directly and would otherwise bypass the
// view's filtering, so exports always materialize first.
func (v *View) Materialize() *Store {
	out := New()
	for _, q := range v.Quads(Pattern{}) {
		out.Add(q)
	}
	v.store.Namespaces().CopyTo(out.Namespaces())
	return out
}
