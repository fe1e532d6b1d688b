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
	"github.com/google/btree"
)

// Graph is a live handle to one named graph (or the default graph) inside a
// Store. Triples are held with set semantics: adding a duplicate is a no-op.
type Graph struct {
	id    quad.Value // nil for the default graph
	items *btree.BTree
}

// tripleItem is an item in the graph's btree, ordered by the triple's
// encoded key.
type tripleItem struct {
	key string
	t   Triple
}

// Less on tripleItem compares the encoded keys lexicographically.
func (i tripleItem) Less(other btree.Item) bool {
	return i.key < other.(tripleItem).key
}

func newGraph(id quad.Value) *Graph {
	return &Graph{id: id, items: btree.New(16)}
}

// ID returns the graph identifier, nil for the default graph.
func (g *Graph) ID() quad.Value {
	return g.id
}

// Len returns the number of triples in the graph.
func (g *Graph) Len() int {
	return g.items.Len()
}

// Add inserts a triple, returning true if it was not already present.
func (g *Graph) Add(t Triple) bool {
	return g.items.ReplaceOrInsert(tripleItem{key: t.key(), t: t}) == nil
}

// Remove deletes a triple, returning true if it was present.
func (g *Graph) Remove(t Triple) bool {
	return g.items.Delete(tripleItem{key: t.key()}) != nil
}

// Has reports whether the triple is in the graph.
func (g *Graph) Has(t Triple) bool {
	return g.items.Has(tripleItem{key: t.key()})
}

// Triples returns the triples matching the pattern, in key order. The result
// is a fresh slice; iterating it never observes later mutations, so callers
// may remove matches while ranging over it.
func (g *Graph) Triples(p Pattern) []Triple {
	var out []Triple
	g.items.Ascend(func(item btree.Item) bool {
		t := item.(tripleItem).t
		if p.Matches(t) {
			out = append(out, t)
		}
		return true
	})
	return out
}

// HasSubject reports whether any triple in the graph has the given subject.
// Used by the undeclared-blank-node filter, which needs a graph-wide scan.
func (g *Graph) HasSubject(s quad.Value) bool {
	found := false
	g.items.Ascend(func(item btree.Item) bool {
		if item.(tripleItem).t.Subject == s {
			found = true
			return false
		}
		return true
	})
	return found
}
