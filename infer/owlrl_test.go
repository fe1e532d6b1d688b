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
	"testing"

	"github.com/cayleygraph/quad"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quern/quern/dataset"
	"github.com/quern/quern/vocab"
)

var (
	gData  = quad.IRI("urn:test:graph:data")
	gVocab = quad.IRI("urn:test:graph:vocab")
	gDst   = quad.IRI("urn:test:graph:dst")

	rex    = quad.IRI("http://example.org/rex")
	fido   = quad.IRI("http://example.org/fido")
	dog    = quad.IRI("http://example.org/Dog")
	mammal = quad.IRI("http://example.org/Mammal")
	animal = quad.IRI("http://example.org/Animal")

	owns    = quad.IRI("http://example.org/owns")
	ownedBy = quad.IRI("http://example.org/ownedBy")
	partOf  = quad.IRI("http://example.org/partOf")
	nextTo  = quad.IRI("http://example.org/nextTo")
	alice   = quad.IRI("http://example.org/alice")
	bob     = quad.IRI("http://example.org/bob")
	carol   = quad.IRI("http://example.org/carol")
)

// expand builds a store from the triples, runs the owlrl backend into a
// fresh destination graph, and returns (store, destination).
func expand(t *testing.T, triples ...dataset.Triple) (*dataset.Store, *dataset.Graph) {
	t.Helper()
	st := dataset.New()
	g := st.Graph(gData)
	for _, tr := range triples {
		g.Add(tr)
	}
	dst := st.Graph(gDst)
	require.NoError(t, (&owlRL{}).Expand(st, dst))
	return st, dst
}

func Test_OwlRLSubclassTyping(t *testing.T) {
	_, dst := expand(t,
		dataset.Triple{Subject: rex, Predicate: vocab.Type, Object: dog},
		dataset.Triple{Subject: dog, Predicate: vocab.SubClassOf, Object: mammal},
		dataset.Triple{Subject: mammal, Predicate: vocab.SubClassOf, Object: animal},
	)
	// transitive subclass edge plus lifted types across both levels
	assert.True(t, dst.Has(dataset.Triple{Subject: dog, Predicate: vocab.SubClassOf, Object: animal}))
	assert.True(t, dst.Has(dataset.Triple{Subject: rex, Predicate: vocab.Type, Object: mammal}))
	assert.True(t, dst.Has(dataset.Triple{Subject: rex, Predicate: vocab.Type, Object: animal}))
	assert.Equal(t, 3, dst.Len())
}

func Test_OwlRLSubPropertyLifting(t *testing.T) {
	has := quad.IRI("http://example.org/has")
	_, dst := expand(t,
		dataset.Triple{Subject: owns, Predicate: vocab.SubPropertyOf, Object: has},
		dataset.Triple{Subject: alice, Predicate: owns, Object: rex},
	)
	assert.True(t, dst.Has(dataset.Triple{Subject: alice, Predicate: has, Object: rex}))
}

func Test_OwlRLDomainRange(t *testing.T) {
	person := quad.IRI("http://example.org/Person")
	_, dst := expand(t,
		dataset.Triple{Subject: owns, Predicate: vocab.Domain, Object: person},
		dataset.Triple{Subject: owns, Predicate: vocab.Range, Object: animal},
		dataset.Triple{Subject: alice, Predicate: owns, Object: rex},
	)
	assert.True(t, dst.Has(dataset.Triple{Subject: alice, Predicate: vocab.Type, Object: person}))
	assert.True(t, dst.Has(dataset.Triple{Subject: rex, Predicate: vocab.Type, Object: animal}))
}

func Test_OwlRLRangeOverLiteral(t *testing.T) {
	name := quad.IRI("http://example.org/name")
	_, dst := expand(t,
		dataset.Triple{Subject: name, Predicate: vocab.Range, Object: animal},
		dataset.Triple{Subject: rex, Predicate: name, Object: quad.String("Rex")},
	)
	// a literal can never be typed
	assert.Equal(t, 0, dst.Len())
}

func Test_OwlRLInverse(t *testing.T) {
	_, dst := expand(t,
		dataset.Triple{Subject: owns, Predicate: vocab.InverseOf, Object: ownedBy},
		dataset.Triple{Subject: alice, Predicate: owns, Object: rex},
		dataset.Triple{Subject: fido, Predicate: ownedBy, Object: bob},
	)
	// both directions of the declaration apply
	assert.True(t, dst.Has(dataset.Triple{Subject: rex, Predicate: ownedBy, Object: alice}))
	assert.True(t, dst.Has(dataset.Triple{Subject: bob, Predicate: owns, Object: fido}))
}

func Test_OwlRLSymmetric(t *testing.T) {
	_, dst := expand(t,
		dataset.Triple{Subject: nextTo, Predicate: vocab.Type, Object: vocab.SymmetricProperty},
		dataset.Triple{Subject: alice, Predicate: nextTo, Object: bob},
	)
	assert.True(t, dst.Has(dataset.Triple{Subject: bob, Predicate: nextTo, Object: alice}))
}

func Test_OwlRLTransitive(t *testing.T) {
	wheel := quad.IRI("http://example.org/wheel")
	car := quad.IRI("http://example.org/car")
	fleet := quad.IRI("http://example.org/fleet")
	_, dst := expand(t,
		dataset.Triple{Subject: partOf, Predicate: vocab.Type, Object: vocab.TransitiveProperty},
		dataset.Triple{Subject: wheel, Predicate: partOf, Object: car},
		dataset.Triple{Subject: car, Predicate: partOf, Object: fleet},
	)
	assert.True(t, dst.Has(dataset.Triple{Subject: wheel, Predicate: partOf, Object: fleet}))
}

func Test_OwlRLEquivalence(t *testing.T) {
	hound := quad.IRI("http://example.org/Hound")
	_, dst := expand(t,
		dataset.Triple{Subject: dog, Predicate: vocab.EquivalentClass, Object: hound},
		dataset.Triple{Subject: rex, Predicate: vocab.Type, Object: dog},
		dataset.Triple{Subject: fido, Predicate: vocab.Type, Object: hound},
	)
	// equivalence becomes mutual subsumption, so instances flow both ways
	assert.True(t, dst.Has(dataset.Triple{Subject: rex, Predicate: vocab.Type, Object: hound}))
	assert.True(t, dst.Has(dataset.Triple{Subject: fido, Predicate: vocab.Type, Object: dog}))
	assert.True(t, dst.Has(dataset.Triple{Subject: dog, Predicate: vocab.SubClassOf, Object: hound}))
	assert.True(t, dst.Has(dataset.Triple{Subject: hound, Predicate: vocab.SubClassOf, Object: dog}))
}

func Test_OwlRLSameAs(t *testing.T) {
	_, dst := expand(t,
		dataset.Triple{Subject: alice, Predicate: vocab.SameAs, Object: bob},
		dataset.Triple{Subject: bob, Predicate: vocab.SameAs, Object: carol},
	)
	assert.True(t, dst.Has(dataset.Triple{Subject: bob, Predicate: vocab.SameAs, Object: alice}))
	assert.True(t, dst.Has(dataset.Triple{Subject: carol, Predicate: vocab.SameAs, Object: bob}))
	assert.True(t, dst.Has(dataset.Triple{Subject: alice, Predicate: vocab.SameAs, Object: carol}))
	assert.True(t, dst.Has(dataset.Triple{Subject: carol, Predicate: vocab.SameAs, Object: alice}))
}

func Test_OwlRLSkipsExistingTriples(t *testing.T) {
	st := dataset.New()
	st.Graph(gVocab).Add(dataset.Triple{Subject: dog, Predicate: vocab.SubClassOf, Object: animal})
	st.Graph(gData).Add(dataset.Triple{Subject: rex, Predicate: vocab.Type, Object: dog})
	// the conclusion is already asserted somewhere in the store
	st.Graph(gData).Add(dataset.Triple{Subject: rex, Predicate: vocab.Type, Object: animal})

	dst := st.Graph(gDst)
	require.NoError(t, (&owlRL{}).Expand(st, dst))
	assert.Equal(t, 0, dst.Len())
}

func Test_OwlRLReadsAcrossGraphs(t *testing.T) {
	// schema in one graph, instances in another
	st := dataset.New()
	st.Graph(gVocab).Add(dataset.Triple{Subject: dog, Predicate: vocab.SubClassOf, Object: animal})
	st.Graph(gData).Add(dataset.Triple{Subject: rex, Predicate: vocab.Type, Object: dog})

	dst := st.Graph(gDst)
	require.NoError(t, (&owlRL{}).Expand(st, dst))
	assert.True(t, dst.Has(dataset.Triple{Subject: rex, Predicate: vocab.Type, Object: animal}))
}

func Test_OwlRLRejectsForeignDestination(t *testing.T) {
	st := dataset.New()
	other := dataset.New()
	err := (&owlRL{}).Expand(st, other.Graph(gDst))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not owned by the store")
}

func Test_OwlRLFixpoint(t *testing.T) {
	// a chain needing several passes: typing rex at the bottom of a four
	// level hierarchy
	c1 := quad.IRI("http://example.org/C1")
	c2 := quad.IRI("http://example.org/C2")
	c3 := quad.IRI("http://example.org/C3")
	c4 := quad.IRI("http://example.org/C4")
	_, dst := expand(t,
		dataset.Triple{Subject: rex, Predicate: vocab.Type, Object: c1},
		dataset.Triple{Subject: c1, Predicate: vocab.SubClassOf, Object: c2},
		dataset.Triple{Subject: c2, Predicate: vocab.SubClassOf, Object: c3},
		dataset.Triple{Subject: c3, Predicate: vocab.SubClassOf, Object: c4},
	)
	assert.True(t, dst.Has(dataset.Triple{Subject: rex, Predicate: vocab.Type, Object: c4}))
	assert.True(t, dst.Has(dataset.Triple{Subject: c1, Predicate: vocab.SubClassOf, Object: c4}))
}

func Test_NewReasoner(t *testing.T) {
	r, err := NewReasoner("owlrl")
	require.NoError(t, err)
	assert.Equal(t, "owlrl", r.Name())

	_, err = NewReasoner("pellet")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported inference backend "pellet"`)
}
