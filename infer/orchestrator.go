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
	"path/filepath"

	"github.com/cayleygraph/quad"
	opentracing "github.com/opentracing/opentracing-go"
	log "github.com/sirupsen/logrus"

	"github.com/quern/quern/codec"
	"github.com/quern/quern/config"
	"github.com/quern/quern/dataset"
	"github.com/quern/quern/export"
	"github.com/quern/quern/filter"
	"github.com/quern/quern/merge"
	"github.com/quern/quern/rules"
)

// Destination graphs for derived triples. Inference never writes into a
// source graph.
var (
	// GraphExternalInferences holds the noise floor: conclusions derivable
	// from the external vocabularies alone.
	GraphExternalInferences = quad.IRI("urn:quern:inferences:external")
	// GraphOWLInferences holds the reasoner's conclusions over the full
	// store.
	GraphOWLInferences = quad.IRI("urn:quern:inferences:owl")
	// GraphRuleInferences holds triples constructed by the project's rules.
	GraphRuleInferences = quad.IRI("urn:quern:inferences:rules")
)

// MaxReasoningRounds caps the reason-then-rules loop. Rule output can enable
// further reasoner conclusions and vice versa, so the loop runs until the
// store stops growing; the cap guards against rule sets that never converge.
const MaxReasoningRounds = 5

// Options adjust an inference run. The zero value runs the project's
// configured backend to convergence and exports N-Quads only.
type Options struct {
	// Reasoner overrides the project's configured backend. Mainly for
	// tests.
	Reasoner Reasoner
	// MaxRounds overrides MaxReasoningRounds when positive.
	MaxRounds int
	// KeepUnwanted skips the final unwanted-triple cleanup, keeping the
	// full inference output for debugging.
	KeepUnwanted bool
	// ExportFull additionally exports the combined-full artifact, which
	// doubles as the cache for later runs.
	ExportFull bool
	// IncludeExternalInferences adds the noise floor graph to the final
	// inferred-wanted export.
	IncludeExternalInferences bool
	// Formats are the export serializations; defaults to N-Quads.
	Formats []string
	// Rules overrides the project's rule files. Mainly for tests.
	Rules []rules.Rule
}

// Result reports what an inference run produced.
type Result struct {
	// NoiseGraphIDs identify every graph counted as external noise: the
	// external vocabulary graphs plus the external inference graph.
	NoiseGraphIDs []quad.Value
	// Rounds is the number of reason-then-rules rounds executed.
	Rounds int
	// Converged is false when the round cap stopped a still-growing store.
	Converged bool
	// OWLCount and RuleCount are the surviving triple counts in the two
	// inference graphs after filtering.
	OWLCount  int
	RuleCount int
	// Removed counts triples stripped by the final filters, per filter name.
	Removed map[string]int
	// Exported lists every artifact file written.
	Exported []string
}

// Run executes the inference stage over a merged store: external noise
// floor, bounded reason-then-rules loop, filtering, and export. cats may be
// nil; when present the created inference graphs are tagged in it.
func Run(ctx context.Context, st *dataset.Store, cats map[quad.Value]merge.Category,
	externalIDs []quad.Value, proj *config.Project, opts Options) (*Result, error) {

	span, ctx := opentracing.StartSpanFromContext(ctx, "infer.Run")
	defer span.Finish()

	reasoner := opts.Reasoner
	if reasoner == nil {
		var err error
		if reasoner, err = NewReasoner(proj.Backend); err != nil {
			return nil, err
		}
	}
	span.SetTag("backend", reasoner.Name())

	maxRounds := opts.MaxRounds
	if maxRounds <= 0 {
		maxRounds = MaxReasoningRounds
	}
	formats := opts.Formats
	if len(formats) == 0 {
		formats = []string{codec.DefaultFormat}
	}

	ruleFiles := opts.Rules
	if ruleFiles == nil {
		var err error
		if ruleFiles, err = rules.Load(proj.RulePaths); err != nil {
			return nil, fmt.Errorf("loading rule files: %w", err)
		}
	}
	constructs, err := rules.ParseAll(ruleFiles)
	if err != nil {
		return nil, err
	}

	res := &Result{Removed: make(map[string]int)}

	// Noise floor: what the reasoner concludes from external vocabularies
	// alone. Computed once, before the project's data can contaminate it.
	if err := expandExternal(st, reasoner, externalIDs); err != nil {
		return nil, err
	}
	res.NoiseGraphIDs = append(append([]quad.Value(nil), externalIDs...), GraphExternalInferences)

	owlDst := st.Graph(GraphOWLInferences)
	ruleDst := st.Graph(GraphRuleInferences)
	if cats != nil {
		cats[GraphExternalInferences] = merge.ExternalInferences
		cats[GraphOWLInferences] = merge.OWLInferences
		cats[GraphRuleInferences] = merge.RuleInferences
	}

	for res.Rounds < maxRounds {
		before := st.Len()
		res.Rounds++
		span.LogKV("round", res.Rounds, "store size", before)

		// Reasoners have been observed leaving the union-query flag in an
		// arbitrary state, so set it on both sides of the call.
		st.SetQueryUnion(true)
		if err := reasoner.Expand(st, owlDst); err != nil {
			return nil, fmt.Errorf("reasoner %s round %d: %w", reasoner.Name(), res.Rounds, err)
		}
		st.SetQueryUnion(true)
		filter.Apply(owlDst, filter.Invalid)

		for i, c := range constructs {
			log.Debugf("Executing rule '%s' (%d characters)", c.Name, ruleFiles[i].Len())
			triples, err := c.Execute(st)
			if err != nil {
				return nil, err
			}
			for _, t := range triples {
				if !st.HasTriple(t) {
					ruleDst.Add(t)
				}
			}
		}

		if st.Len() == before {
			res.Converged = true
			break
		}
	}
	if !res.Converged {
		log.Warnf("Inference stopped after %d rounds without converging; output may be incomplete", res.Rounds)
	}

	if log.IsLevelEnabled(log.DebugLevel) {
		checkNoiseOverlap(st, res.NoiseGraphIDs, owlDst, ruleDst)
	}

	if opts.ExportFull {
		full := dataset.NewView(st, st.GraphIDs())
		paths, err := export.Export(full, filepath.Join(proj.OutputDir, export.CombinedFullStem), formats)
		if err != nil {
			return nil, err
		}
		res.Exported = append(res.Exported, paths...)
	}

	if !opts.KeepUnwanted {
		for _, g := range []*dataset.Graph{owlDst, ruleDst} {
			_, counts := filter.Apply(g, filter.All)
			for name, n := range counts {
				res.Removed[name] += n
			}
		}
	}
	res.OWLCount = owlDst.Len()
	res.RuleCount = ruleDst.Len()

	wanted := []quad.Value{GraphOWLInferences, GraphRuleInferences}
	if opts.IncludeExternalInferences {
		wanted = append(wanted, GraphExternalInferences)
	}
	paths, err := export.Export(dataset.NewView(st, wanted),
		filepath.Join(proj.OutputDir, export.InferredWantedStem), formats)
	if err != nil {
		return nil, err
	}
	res.Exported = append(res.Exported, paths...)
	return res, nil
}

// expandExternal computes the noise floor. The external vocabularies are
// collapsed into a scratch store so the reasoner cannot see project data,
// then the scratch conclusions are copied into the main store's external
// inference graph.
func expandExternal(st *dataset.Store, reasoner Reasoner, externalIDs []quad.Value) error {
	scratch := dataset.NewView(st, externalIDs).Collapse()
	scratch.SetQueryUnion(true)
	dst := scratch.Graph(GraphExternalInferences)
	if err := reasoner.Expand(scratch, dst); err != nil {
		return fmt.Errorf("reasoner %s over external vocabularies: %w", reasoner.Name(), err)
	}
	filter.Apply(dst, filter.Invalid)

	main := st.Graph(GraphExternalInferences)
	for _, t := range dst.Triples(dataset.Pattern{}) {
		main.Add(t)
	}
	log.Debugf("External noise floor holds %d triples", main.Len())
	return nil
}

// checkNoiseOverlap verifies that the inference graphs never duplicate a
// triple already present in the noise graphs. Both the reasoner and the
// rule loop skip triples the store already holds, so a violation means one
// of them broke that contract. It is logged as an error but not patched,
// matching the rest of the pipeline's fail-loud stance.
func checkNoiseOverlap(st *dataset.Store, noiseIDs []quad.Value, inferred ...*dataset.Graph) {
	inNoise := func(t dataset.Triple) bool {
		for _, id := range noiseIDs {
			if g, ok := st.Named(id); ok && g.Has(t) {
				return true
			}
		}
		return false
	}
	overlap := 0
	for _, g := range inferred {
		for _, t := range g.Triples(dataset.Pattern{}) {
			if inNoise(t) {
				overlap++
			}
		}
	}
	if overlap > 0 {
		log.Errorf("%d inferred triples duplicate the external noise floor", overlap)
	} else {
		log.Debugf("Inference graphs are disjoint from the external noise floor")
	}
}
