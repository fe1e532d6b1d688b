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

// Triple is a single RDF statement. The package does not prevent storing
// values that are invalid in RDF (such as a literal subject); the filter
// layer detects and strips those, since faulty reasoning can produce them.
type Triple struct {
	Subject   quad.Value
	Predicate quad.Value
	Object    quad.Value
}

// Quad returns the triple placed in the named graph g. A nil g addresses the
// default graph.
func (t Triple) Quad(g quad.Value) quad.Quad {
	return quad.Quad{Subject: t.Subject, Predicate: t.Predicate, Object: t.Object, Label: g}
}

// TripleOf extracts the triple part of a quad.
func TripleOf(q quad.Quad) Triple {
	return Triple{Subject: q.Subject, Predicate: q.Predicate, Object: q.Object}
}

func (t Triple) String() string {
	return fmt.Sprintf("%s %s %s", quad.StringOf(t.Subject), quad.StringOf(t.Predicate), quad.StringOf(t.Object))
}

// key is the btree ordering key for a triple. Values are encoded in their
// N-Quads text form, which is unique per term.
func (t Triple) key() string {
	return quad.StringOf(t.Subject) + "\x00" + quad.StringOf(t.Predicate) + "\x00" + quad.StringOf(t.Object)
}

// Pattern matches triples. A nil field is a wildcard.
type Pattern struct {
	Subject   quad.Value
	Predicate quad.Value
	Object    quad.Value
}

// Matches reports whether t satisfies the pattern.
func (p Pattern) Matches(t Triple) bool {
	if p.Subject != nil && p.Subject != t.Subject {
		return false
	}
	if p.Predicate != nil && p.Predicate != t.Predicate {
		return false
	}
	return p.Object == nil || p.Object == t.Object
}

// IsLiteral reports whether v is an RDF literal (as opposed to an IRI or
// blank node).
func IsLiteral(v quad.Value) bool {
	switch v.(type) {
	case nil, quad.IRI, quad.BNode:
		return false
	default:
		return true
	}
}

// IsBlank reports whether v is a blank node.
func IsBlank(v quad.Value) bool {
	_, ok := v.(quad.BNode)
	return ok
}

// LiteralText returns the lexical form of a literal value, and whether v is
// a literal at all.
func LiteralText(v quad.Value) (string, bool) {
	switch l := v.(type) {
	case quad.String:
		return string(l), true
	case quad.LangString:
		return string(l.Value), true
	case quad.TypedString:
		return string(l.Value), true
	default:
		if IsLiteral(v) {
			return quad.StringOf(v), true
		}
		return "", false
	}
}
