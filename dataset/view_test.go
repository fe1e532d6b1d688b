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
	"testing"

	"github.com/cayleygraph/quad"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var gC = quad.IRI("urn:test:graph:c")

// threeGraphStore builds a store with one triple in each of gA, gB, gC and
// one in the default graph.
func threeGraphStore() *Store {
	st := New()
	st.Add(quad.Quad{Subject: rex, Predicate: kind, Object: dog, Label: gA})
	st.Add(quad.Quad{Subject: fido, Predicate: kind, Object: dog, Label: gB})
	st.Add(quad.Quad{Subject: dog, Predicate: kind, Object: animal, Label: gC})
	st.Add(quad.Quad{Subject: animal, Predicate: kind, Object: animal})
	return st
}

func Test_ViewIsolation(t *testing.T) {
	st := threeGraphStore()
	v := NewView(st, []quad.Value{gA, gB})

	assert.Equal(t, 2, v.Len())
	assert.Len(t, v.Triples(Pattern{}), 2)
	for _, q := range v.Quads(Pattern{}) {
		assert.Contains(t, []quad.Value{gA, gB}, q.Label)
	}
}

func Test_ViewPermissionErrors(t *testing.T) {
	st := threeGraphStore()
	v := NewView(st, []quad.Value{gA})

	_, err := v.Graph(gC)
	require.Error(t, err)
	var perr *PermissionError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "access", perr.Op)
	assert.Contains(t, err.Error(), "not visible in this view")

	err = v.Add(quad.Quad{Subject: rex, Predicate: kind, Object: animal, Label: gC})
	assert.ErrorAs(t, err, &perr)

	err = v.Remove(quad.Quad{Subject: fido, Predicate: kind, Object: dog, Label: gB})
	assert.ErrorAs(t, err, &perr)
	assert.True(t, st.HasTriple(Triple{Subject: fido, Predicate: kind, Object: dog}))

	err = v.RemoveGraph(gB)
	assert.ErrorAs(t, err, &perr)
	assert.True(t, st.HasGraph(gB))
}

func Test_ViewRejectsBareTriples(t *testing.T) {
	st := threeGraphStore()
	v := NewView(st, []quad.Value{gA})

	// a nil label targets the default graph, which no view includes
	err := v.Add(quad.Quad{Subject: rex, Predicate: kind, Object: animal})
	var perr *PermissionError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "add to", perr.Op)
}

func Test_ViewSharesStore(t *testing.T) {
	st := threeGraphStore()
	v1 := NewView(st, []quad.Value{gA})
	v2 := NewView(st, []quad.Value{gA, gB})

	require.NoError(t, v1.Add(quad.Quad{Subject: fido, Predicate: kind, Object: animal, Label: gA}))
	assert.Equal(t, 2, v1.Len())
	assert.Equal(t, 3, v2.Len(), "mutation through one view is visible through the other")
}

func Test_ViewCreatesIncludedGraph(t *testing.T) {
	st := New()
	missing := quad.IRI("urn:test:graph:later")
	v := NewView(st, []quad.Value{missing})

	assert.Equal(t, 0, v.Len())
	assert.False(t, st.HasGraph(missing), "Len must not create the graph")

	g, err := v.Graph(missing)
	require.NoError(t, err)
	g.Add(Triple{Subject: rex, Predicate: kind, Object: dog})
	assert.True(t, st.HasGraph(missing))
	assert.Equal(t, 1, v.Len())
}

func Test_ViewInvert(t *testing.T) {
	st := threeGraphStore()
	v := NewView(st, []quad.Value{gA})

	inv := v.Invert()
	assert.ElementsMatch(t, []quad.Value{gB, gC}, inv.Included())
	assert.Equal(t, 2, inv.Len())

	// double inversion restores the original include set while the store's
	// graph population is unchanged
	back := inv.Invert()
	assert.Equal(t, []quad.Value{gA}, back.Included())
}

func Test_ViewInvertExcludesDefault(t *testing.T) {
	st := threeGraphStore()
	inv := NewView(st, nil).Invert()
	assert.ElementsMatch(t, []quad.Value{gA, gB, gC}, inv.Included())
	// the default graph triple is in no view, inverted or not
	assert.Equal(t, 3, inv.Len())
}

func Test_ViewCollapse(t *testing.T) {
	st := threeGraphStore()
	st.Namespaces().Bind("ex", "http://example.org/")
	v := NewView(st, []quad.Value{gA, gB})

	flat := v.Collapse()
	assert.Equal(t, 2, flat.DefaultGraph().Len())
	assert.Empty(t, flat.GraphIDs())
	ns, ok := flat.Namespaces().Get("ex")
	assert.True(t, ok)
	assert.Equal(t, "http://example.org/", ns)

	// the collapsed store is independent
	flat.DefaultGraph().Add(Triple{Subject: animal, Predicate: kind, Object: dog})
	assert.False(t, st.HasTriple(Triple{Subject: animal, Predicate: kind, Object: dog}))
}

func Test_ViewMaterialize(t *testing.T) {
	st := threeGraphStore()
	st.Namespaces().Bind("ex", "http://example.org/")
	v := NewView(st, []quad.Value{gA})

	mat := v.Materialize()
	assert.Equal(t, []quad.Value{gA}, mat.GraphIDs())
	assert.Equal(t, 1, mat.Len())
	assert.Equal(t, 0, mat.DefaultGraph().Len())
	_, ok := mat.Namespaces().Get("ex")
	assert.True(t, ok)
}
