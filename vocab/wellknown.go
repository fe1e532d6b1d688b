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

// Package vocab defines the well known IRIs the pipeline needs to recognize
// when classifying and filtering triples. The rdf and rdfs terms come from
// the quad/voc registry; OWL is defined here in the same style because the
// registry does not ship it.
package vocab

import (
	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/voc"
	"github.com/cayleygraph/quad/voc/rdf"
	"github.com/cayleygraph/quad/voc/rdfs"
)

// OWL namespace, registered so qnames in rule files resolve.
const (
	OWLNamespace = "http://www.w3.org/2002/07/owl#"
	OWLPrefix    = "owl:"
)

func init() {
	voc.RegisterPrefix(OWLPrefix, OWLNamespace)
}

// All terms are exposed fully expanded. Graphs in a store always hold full
// IRIs, so comparisons against these values are plain equality.
var (
	// Type is rdf:type.
	Type = quad.IRI(rdf.Type).Full()

	// SubClassOf is rdfs:subClassOf.
	SubClassOf = quad.IRI(rdfs.SubClassOf).Full()
	// SubPropertyOf is rdfs:subPropertyOf.
	SubPropertyOf = quad.IRI(rdfs.SubPropertyOf).Full()
	// Domain is rdfs:domain.
	Domain = quad.IRI(rdfs.Domain).Full()
	// Range is rdfs:range.
	Range = quad.IRI(rdfs.Range).Full()

	// SameAs declares two individuals identical.
	SameAs = quad.IRI(OWLNamespace + "sameAs")
	// EquivalentClass declares two classes equivalent.
	EquivalentClass = quad.IRI(OWLNamespace + "equivalentClass")
	// EquivalentProperty declares two properties equivalent.
	EquivalentProperty = quad.IRI(OWLNamespace + "equivalentProperty")
	// InverseOf declares one property the inverse of another.
	InverseOf = quad.IRI(OWLNamespace + "inverseOf")
	// SymmetricProperty marks a property as symmetric.
	SymmetricProperty = quad.IRI(OWLNamespace + "SymmetricProperty")
	// TransitiveProperty marks a property as transitive.
	TransitiveProperty = quad.IRI(OWLNamespace + "TransitiveProperty")
	// Thing is the universal class; declarations against it carry no
	// information and are filtered from inference output.
	Thing = quad.IRI(OWLNamespace + "Thing")
	// Nothing is the bottom class.
	Nothing = quad.IRI(OWLNamespace + "Nothing")
)

// Pipeline-internal terms used by the provenance graph.
var (
	// SourcePath relates a named graph to the file it was loaded from.
	SourcePath = quad.IRI("urn:quern:vocab:sourcePath")
	// LoadedAt relates a named graph to the time it was loaded.
	LoadedAt = quad.IRI("urn:quern:vocab:loadedAt")
	// Category relates a named graph to its category tag.
	Category = quad.IRI("urn:quern:vocab:category")
)

// RDFNamespace and RDFSNamespace re-export the registry namespaces for
// callers binding store prefixes.
const (
	RDFNamespace  = rdf.NS
	RDFSNamespace = rdfs.NS
)
