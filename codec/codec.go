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

// Package codec reads and writes RDF files through the quad format registry.
// N-Quads is the pipeline's quad-preserving default; JSON-LD is available as
// a flattened extra. Any other format registered with the quad package can
// be addressed by name.
package codec

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cayleygraph/quad"
	_ "github.com/cayleygraph/quad/jsonld" // register the jsonld format
	_ "github.com/cayleygraph/quad/nquads" // register the nquads format

	"github.com/quern/quern/dataset"
)

// DefaultFormat is the quad-preserving serialization used for pipeline
// artifacts and caches.
const DefaultFormat = "nquads"

// quadAware lists the registered formats that preserve named-graph
// boundaries. Everything else is flattened on export.
var quadAware = map[string]bool{
	"nquads": true,
	"pquads": true,
}

// Lookup resolves a format name against the registry.
func Lookup(name string) (*quad.Format, error) {
	f := quad.FormatByName(name)
	if f == nil {
		return nil, fmt.Errorf("unknown RDF format %q", name)
	}
	return f, nil
}

// Ext returns the preferred file extension (with leading dot) for a format.
func Ext(name string) (string, error) {
	f, err := Lookup(name)
	if err != nil {
		return "", err
	}
	if len(f.Ext) == 0 {
		return "", fmt.Errorf("format %q has no file extension", name)
	}
	return f.Ext[0], nil
}

// QuadAware reports whether the named format preserves named graphs.
func QuadAware(name string) bool {
	return quadAware[name]
}

// extFormats maps file extensions to the registered format names the
// pipeline parses.
var extFormats = map[string]string{
	".nq":     "nquads",
	".nquads": "nquads",
	".nt":     "nquads",
	".jsonld": "jsonld",
	".json":   "jsonld",
}

// DetectFormat resolves a file's format from its extension. Unrecognized
// extensions are an error rather than a guess: feeding, say, a Turtle file
// to the N-Quads parser would silently drop most of its content.
func DetectFormat(path string) (string, error) {
	ext := filepath.Ext(path)
	if name, ok := extFormats[ext]; ok {
		return name, nil
	}
	return "", fmt.Errorf("unsupported RDF file extension %q in %v (supported: .json, .jsonld, .nq, .nquads, .nt)", ext, path)
}

// ParseFileGraph parses the file into the given graph. Any named-graph
// labels present in the input are discarded: per-file provenance is carried
// by the target graph's identity, not by labels inside the file. Returns the
// number of triples added.
func ParseFileGraph(path, format string, g *dataset.Graph) (int, error) {
	added := 0
	err := readFile(path, format, func(q quad.Quad) {
		if g.Add(dataset.TripleOf(q)) {
			added++
		}
	})
	return added, err
}

// ParseFileStore parses the file into the store, preserving named-graph
// labels. Quads without a label land in the default graph. Used when
// reloading a combined-full cache.
func ParseFileStore(path, format string, st *dataset.Store) (int, error) {
	added := 0
	err := readFile(path, format, func(q quad.Quad) {
		if st.Add(q) {
			added++
		}
	})
	return added, err
}

func readFile(path, format string, add func(quad.Quad)) error {
	f, err := Lookup(format)
	if err != nil {
		return err
	}
	if f.Reader == nil {
		return fmt.Errorf("format %q does not support reading", format)
	}
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()
	qr := f.Reader(file)
	defer qr.Close()
	for {
		q, err := qr.ReadQuad()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("parsing %v: %v", path, err)
		}
		add(q)
	}
}

// WriteQuads serializes the quads to path in the named format, creating or
// truncating the file.
func WriteQuads(path, format string, quads []quad.Quad) error {
	f, err := Lookup(format)
	if err != nil {
		return err
	}
	if f.Writer == nil {
		return fmt.Errorf("format %q does not support writing", format)
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	qw := f.Writer(file)
	for _, q := range quads {
		if err := qw.WriteQuad(q); err != nil {
			qw.Close()
			file.Close()
			return fmt.Errorf("writing %v: %v", path, err)
		}
	}
	if err := qw.Close(); err != nil {
		file.Close()
		return fmt.Errorf("writing %v: %v", path, err)
	}
	return file.Close()
}
