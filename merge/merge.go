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

// Package merge loads a project's source files into one store, each file in
// its own named graph. Graph identity carries provenance: a triple's origin
// is always recoverable from the graph it lives in, which is what lets
// downstream stages separate project data from external vocabulary noise.
package merge

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/voc/rdf"
	"github.com/cayleygraph/quad/voc/rdfs"
	log "github.com/sirupsen/logrus"

	"github.com/quern/quern/codec"
	"github.com/quern/quern/config"
	"github.com/quern/quern/dataset"
	"github.com/quern/quern/util/clocks"
	"github.com/quern/quern/vocab"
)

// Category classifies a graph by the role of the file it was loaded from, or
// by the pipeline stage that produced it.
type Category int

const (
	// Unknown marks graphs the pipeline did not create.
	Unknown Category = iota
	// ExternalVocab graphs come from third-party vocabulary files.
	ExternalVocab
	// InternalVocab graphs come from project-specific vocabulary files.
	InternalVocab
	// Data graphs come from the project's own data files.
	Data
	// ExternalInferences holds conclusions derivable from external
	// vocabularies alone.
	ExternalInferences
	// OWLInferences holds the reasoner's conclusions over the full store.
	OWLInferences
	// RuleInferences holds triples constructed by the project's rules.
	RuleInferences
	// Provenance holds the load metadata graph.
	Provenance
)

func (c Category) String() string {
	switch c {
	case ExternalVocab:
		return "external-vocab"
	case InternalVocab:
		return "internal-vocab"
	case Data:
		return "data"
	case ExternalInferences:
		return "external-inferences"
	case OWLInferences:
		return "owl-inferences"
	case RuleInferences:
		return "rule-inferences"
	case Provenance:
		return "provenance"
	}
	return "unknown"
}

// Source is one input file awaiting merge.
type Source struct {
	Path     string
	Category Category
}

// Sources lists the project's input files in load order: external
// vocabularies first, then internal vocabularies, then data.
func Sources(proj *config.Project) []Source {
	out := make([]Source, 0,
		len(proj.ExternalVocabPaths)+len(proj.InternalVocabPaths)+len(proj.DataPaths))
	for _, p := range proj.ExternalVocabPaths {
		out = append(out, Source{Path: p, Category: ExternalVocab})
	}
	for _, p := range proj.InternalVocabPaths {
		out = append(out, Source{Path: p, Category: InternalVocab})
	}
	for _, p := range proj.DataPaths {
		out = append(out, Source{Path: p, Category: Data})
	}
	return out
}

// GraphID derives the stable graph identifier for a source file: the project
// name plus the file's path relative to the project directory. Absolute
// paths outside the project keep their full (slash-separated) form so the
// identifier stays unique.
func GraphID(proj *config.Project, path string) quad.IRI {
	rel, err := filepath.Rel(filepath.Dir(proj.Path), path)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = path
	}
	return quad.IRI(fmt.Sprintf("urn:quern:%s:%s", proj.Name, filepath.ToSlash(rel)))
}

// ProvenanceGraphID identifies the graph holding load metadata.
func ProvenanceGraphID(proj *config.Project) quad.IRI {
	return quad.IRI(fmt.Sprintf("urn:quern:%s:provenance", proj.Name))
}

// Result is a completed merge.
type Result struct {
	// Store holds one named graph per successfully loaded source file.
	Store *dataset.Store
	// Categories records the role of every graph the merge created.
	Categories map[quad.Value]Category
	// ExternalIDs are the graph identifiers of the external vocabulary
	// files, in load order. Inference uses these to compute the noise floor.
	ExternalIDs []quad.Value
	// Counts maps each loaded file to the number of triples it contributed.
	Counts map[string]int
	// Skipped lists files that failed to parse and were left out.
	Skipped []string
}

// Options adjust a merge. The zero value is usable.
type Options struct {
	// Clock supplies provenance timestamps; defaults to the wall clock.
	Clock clocks.Source
	// Progress, if set, is called after each file with (done, total).
	Progress func(done, total int)
	// Provenance, if set, records per-file load metadata in a dedicated
	// named graph.
	Provenance bool
}

// Merge loads every source file of the project into a fresh store. A file
// that fails to parse is logged and skipped; the merge carries on with the
// remaining files. Merge only fails outright when it cannot produce a
// meaningful store at all, such as when every data file is unreadable.
func Merge(proj *config.Project, opts Options) (*Result, error) {
	if opts.Clock == nil {
		opts.Clock = clocks.Wall
	}
	st := dataset.New()
	bindWellKnown(st.Namespaces())

	res := &Result{
		Store:      st,
		Categories: make(map[quad.Value]Category),
		Counts:     make(map[string]int),
	}
	sources := Sources(proj)
	dataLoaded := 0
	for i, src := range sources {
		if err := loadSource(proj, st, res, src, opts); err != nil {
			log.WithFields(log.Fields{
				"file":  src.Path,
				"error": err,
			}).Warnf("Skipping %v file", src.Category)
			res.Skipped = append(res.Skipped, src.Path)
		} else if src.Category == Data {
			dataLoaded++
		}
		if opts.Progress != nil {
			opts.Progress(i+1, len(sources))
		}
	}
	if len(proj.DataPaths) > 0 && dataLoaded == 0 {
		return nil, fmt.Errorf("no data file of project '%s' could be loaded", proj.Name)
	}
	return res, nil
}

// loadSource parses one input file into its own named graph and records it
// in the result. On any failure the store is left without the file's graph.
func loadSource(proj *config.Project, st *dataset.Store, res *Result, src Source, opts Options) error {
	format, err := codec.DetectFormat(src.Path)
	if err != nil {
		return err
	}
	id := GraphID(proj, src.Path)
	n, err := codec.ParseFileGraph(src.Path, format, st.Graph(id))
	if err != nil {
		st.RemoveGraph(id)
		return err
	}
	res.Categories[id] = src.Category
	res.Counts[src.Path] = n
	if src.Category == ExternalVocab {
		res.ExternalIDs = append(res.ExternalIDs, id)
	}
	if opts.Provenance {
		recordProvenance(proj, st, opts.Clock, id, src.Path)
		res.Categories[ProvenanceGraphID(proj)] = Provenance
	}
	log.Debugf("Merged %v (%d triples) into graph %s", src.Path, n, id)
	return nil
}

// recordProvenance notes where and when a graph was loaded.
func recordProvenance(proj *config.Project, st *dataset.Store, clock clocks.Source, id quad.Value, path string) {
	pg := st.Graph(ProvenanceGraphID(proj))
	pg.Add(dataset.Triple{Subject: id, Predicate: vocab.SourcePath, Object: quad.String(path)})
	pg.Add(dataset.Triple{Subject: id, Predicate: vocab.LoadedAt, Object: quad.Time(clock.Now())})
}

// bindWellKnown registers the standard prefixes on a fresh store so exports
// stay readable.
func bindWellKnown(ns *dataset.Namespaces) {
	ns.Bind(rdf.Prefix[:len(rdf.Prefix)-1], rdf.NS)
	ns.Bind(rdfs.Prefix[:len(rdfs.Prefix)-1], rdfs.NS)
	ns.Bind("owl", vocab.OWLNamespace)
}
