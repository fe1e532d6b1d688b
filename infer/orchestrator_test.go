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
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/cayleygraph/quad"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quern/quern/config"
	"github.com/quern/quern/dataset"
	"github.com/quern/quern/merge"
	"github.com/quern/quern/rules"
	"github.com/quern/quern/vocab"
)

// neverConverges is a Reasoner that invents a fresh triple on every call,
// so the orchestrator's loop can never reach a fixpoint.
type neverConverges struct {
	calls int
}

func (*neverConverges) Name() string { return "never-converges" }

func (r *neverConverges) Expand(st *dataset.Store, dst *dataset.Graph) error {
	r.calls++
	dst.Add(dataset.Triple{
		Subject:   quad.IRI(fmt.Sprintf("http://example.org/n%d", r.calls)),
		Predicate: vocab.Type,
		Object:    quad.IRI("http://example.org/Invented"),
	})
	return nil
}

func testProject(t *testing.T) *config.Project {
	t.Helper()
	return &config.Project{
		Name:      "zoo",
		Path:      filepath.Join(t.TempDir(), "quern.yaml"),
		Backend:   "owlrl",
		OutputDir: t.TempDir(),
	}
}

// zooStore sets up the Scenario-style fixture: an external vocabulary graph
// and a data graph.
func zooStore() (*dataset.Store, []quad.Value) {
	st := dataset.New()
	st.Graph(gVocab).Add(dataset.Triple{Subject: dog, Predicate: vocab.SubClassOf, Object: animal})
	st.Graph(gData).Add(dataset.Triple{Subject: rex, Predicate: vocab.Type, Object: dog})
	return st, []quad.Value{gVocab}
}

func Test_RunInfersSubclassType(t *testing.T) {
	st, extIDs := zooStore()
	proj := testProject(t)
	cats := map[quad.Value]merge.Category{}

	res, err := Run(context.Background(), st, cats, extIDs, proj, Options{})
	require.NoError(t, err)

	assert.True(t, res.Converged)
	owl, ok := st.Named(GraphOWLInferences)
	require.True(t, ok)
	assert.True(t, owl.Has(dataset.Triple{Subject: rex, Predicate: vocab.Type, Object: animal}))
	assert.Equal(t, res.OWLCount, owl.Len())

	// the schema has no instances of its own, so the noise floor is empty
	ext, ok := st.Named(GraphExternalInferences)
	require.True(t, ok)
	assert.Equal(t, 0, ext.Len())

	assert.Equal(t, []quad.Value{gVocab, GraphExternalInferences}, res.NoiseGraphIDs)
	assert.Equal(t, merge.OWLInferences, cats[GraphOWLInferences])
	assert.Equal(t, merge.RuleInferences, cats[GraphRuleInferences])
	assert.Equal(t, merge.ExternalInferences, cats[GraphExternalInferences])

	// source graphs are untouched
	g, _ := st.Named(gData)
	assert.Equal(t, 1, g.Len())
	g, _ = st.Named(gVocab)
	assert.Equal(t, 1, g.Len())
}

func Test_RunNoiseFloorExcluded(t *testing.T) {
	// the external vocabulary carries its own instance data, so its
	// conclusions form a non-empty noise floor that must not reappear in
	// the owl inference graph
	st := dataset.New()
	ext := st.Graph(gVocab)
	ext.Add(dataset.Triple{Subject: dog, Predicate: vocab.SubClassOf, Object: animal})
	ext.Add(dataset.Triple{Subject: fido, Predicate: vocab.Type, Object: dog})
	st.Graph(gData).Add(dataset.Triple{Subject: rex, Predicate: vocab.Type, Object: dog})

	res, err := Run(context.Background(), st, nil, []quad.Value{gVocab}, testProject(t), Options{})
	require.NoError(t, err)
	require.True(t, res.Converged)

	noise, ok := st.Named(GraphExternalInferences)
	require.True(t, ok)
	assert.True(t, noise.Has(dataset.Triple{Subject: fido, Predicate: vocab.Type, Object: animal}))

	owl, _ := st.Named(GraphOWLInferences)
	assert.True(t, owl.Has(dataset.Triple{Subject: rex, Predicate: vocab.Type, Object: animal}))
	assert.False(t, owl.Has(dataset.Triple{Subject: fido, Predicate: vocab.Type, Object: animal}),
		"externally derivable conclusions stay out of the owl graph")
}

func Test_RunRoundCap(t *testing.T) {
	st, extIDs := zooStore()
	reasoner := &neverConverges{}

	res, err := Run(context.Background(), st, nil, extIDs, testProject(t), Options{
		Reasoner: reasoner,
	})
	require.NoError(t, err)
	assert.False(t, res.Converged)
	assert.Equal(t, MaxReasoningRounds, res.Rounds)
	// one extra call for the external noise floor
	assert.Equal(t, MaxReasoningRounds+1, reasoner.calls)
}

func Test_RunMaxRoundsOverride(t *testing.T) {
	st, extIDs := zooStore()
	res, err := Run(context.Background(), st, nil, extIDs, testProject(t), Options{
		Reasoner:  &neverConverges{},
		MaxRounds: 2,
	})
	require.NoError(t, err)
	assert.False(t, res.Converged)
	assert.Equal(t, 2, res.Rounds)
}

func Test_RunRulesAndReasonerInterplay(t *testing.T) {
	st := dataset.New()
	st.Graph(gVocab).Add(dataset.Triple{Subject: dog, Predicate: vocab.SubClassOf, Object: animal})
	st.Graph(gData).Add(dataset.Triple{Subject: alice, Predicate: owns, Object: rex})

	res, err := Run(context.Background(), st, nil, []quad.Value{gVocab}, testProject(t), Options{
		Rules: []rules.Rule{{Source: "pets.rq", Content: `
			PREFIX ex: <http://example.org/>
			CONSTRUCT { ?pet rdf:type ex:Dog . }
			WHERE { ?owner ex:owns ?pet . }
		`}},
	})
	require.NoError(t, err)
	assert.True(t, res.Converged)
	assert.GreaterOrEqual(t, res.Rounds, 2, "rule output enables a later reasoner round")

	ruleG, _ := st.Named(GraphRuleInferences)
	assert.True(t, ruleG.Has(dataset.Triple{Subject: rex, Predicate: vocab.Type, Object: dog}))
	owl, _ := st.Named(GraphOWLInferences)
	assert.True(t, owl.Has(dataset.Triple{Subject: rex, Predicate: vocab.Type, Object: animal}))
}

func Test_RunMalformedRuleFails(t *testing.T) {
	st, extIDs := zooStore()
	_, err := Run(context.Background(), st, nil, extIDs, testProject(t), Options{
		Rules: []rules.Rule{{Source: "bad.rq", Content: "SELECT ?s WHERE { ?s ?p ?o }"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unable to parse rule 'bad'")
}

func Test_RunUnsupportedBackend(t *testing.T) {
	st, extIDs := zooStore()
	proj := testProject(t)
	proj.Backend = "hermit"
	_, err := Run(context.Background(), st, nil, extIDs, proj, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported inference backend")
}

func Test_RunFiltersUnwanted(t *testing.T) {
	// equivalentClass makes the reasoner derive reflexive subclass edges
	// in some implementations; here we plant unwanted output via a rule
	st, extIDs := zooStore()
	res, err := Run(context.Background(), st, nil, extIDs, testProject(t), Options{
		Rules: []rules.Rule{{Source: "vacuous.rq", Content: `
			CONSTRUCT { ?c rdfs:subClassOf owl:Thing . }
			WHERE { ?x rdf:type ?c . }
		`}},
	})
	require.NoError(t, err)
	ruleG, _ := st.Named(GraphRuleInferences)
	assert.Equal(t, 0, ruleG.Len(), "vacuous owl:Thing declarations are filtered")
	assert.GreaterOrEqual(t, res.Removed["redundant-thing-declaration"], 1)
}

func Test_RunKeepUnwanted(t *testing.T) {
	st, extIDs := zooStore()
	_, err := Run(context.Background(), st, nil, extIDs, testProject(t), Options{
		KeepUnwanted: true,
		Rules: []rules.Rule{{Source: "vacuous.rq", Content: `
			CONSTRUCT { ?c rdfs:subClassOf owl:Thing . }
			WHERE { ?x rdf:type ?c . }
		`}},
	})
	require.NoError(t, err)
	ruleG, _ := st.Named(GraphRuleInferences)
	assert.True(t, ruleG.Has(dataset.Triple{Subject: dog, Predicate: vocab.SubClassOf, Object: vocab.Thing}))
}

func Test_RunExportsArtifacts(t *testing.T) {
	st, extIDs := zooStore()
	proj := testProject(t)
	res, err := Run(context.Background(), st, nil, extIDs, proj, Options{
		ExportFull: true,
	})
	require.NoError(t, err)
	require.Len(t, res.Exported, 2)
	for _, p := range res.Exported {
		info, err := os.Stat(p)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0), "%v should not be empty", p)
	}
	assert.Equal(t, filepath.Join(proj.OutputDir, "combined_full.nq"), res.Exported[0])
	assert.Equal(t, filepath.Join(proj.OutputDir, "inferred_wanted.nq"), res.Exported[1])
}
