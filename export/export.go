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

// Package export writes pipeline artifacts to the project's output
// directory and reloads the combined-full artifact as a cache.
package export

import (
	"os"
	"path/filepath"
	"time"

	"github.com/cayleygraph/quad"
	log "github.com/sirupsen/logrus"

	"github.com/quern/quern/codec"
	"github.com/quern/quern/config"
	"github.com/quern/quern/dataset"
)

// Artifact file stems under the project's output directory.
const (
	// MergedStem names the export of the merged sources before inference.
	MergedStem = "merged"
	// CombinedFullStem names the everything-included artifact. It doubles
	// as the pipeline's cache.
	CombinedFullStem = "combined_full"
	// InferredWantedStem names the filtered project-relevant inferences.
	InferredWantedStem = "inferred_wanted"
)

// Export serializes the view to base (a path without extension) once per
// requested format, using each format's preferred extension. Quad-preserving
// formats receive the view's quads with their graph labels; other formats
// receive the view's contents collapsed to plain triples. Returns the
// written paths.
func Export(v *dataset.View, base string, formats []string) ([]string, error) {
	if err := os.MkdirAll(filepath.Dir(base), 0755); err != nil {
		return nil, err
	}
	var written []string
	for _, format := range formats {
		ext, err := codec.Ext(format)
		if err != nil {
			return nil, err
		}
		path := base + ext
		var quads []quad.Quad
		if codec.QuadAware(format) {
			quads = v.Materialize().Quads(dataset.Pattern{})
		} else {
			flat := v.Collapse()
			for _, t := range flat.DefaultGraph().Triples(dataset.Pattern{}) {
				quads = append(quads, t.Quad(nil))
			}
		}
		if err := codec.WriteQuads(path, format, quads); err != nil {
			return nil, err
		}
		log.Debugf("Exported %d statements to %v", len(quads), path)
		written = append(written, path)
	}
	return written, nil
}

// CachePath returns the location of the project's combined-full cache file.
func CachePath(proj *config.Project) string {
	return filepath.Join(proj.OutputDir, CombinedFullStem+".nq")
}

// LoadCache reloads a previously exported combined-full artifact, provided
// it is newer than the project file and every input file. A missing or
// stale cache returns (nil, nil): the caller recomputes silently. The
// returned store has union querying enabled, matching the store state the
// artifact was exported from.
func LoadCache(proj *config.Project) (*dataset.Store, error) {
	path := CachePath(proj)
	info, err := os.Stat(path)
	if err != nil {
		return nil, nil
	}
	if !newerThanAll(info.ModTime(), append([]string{proj.Path}, proj.AllInputs()...)) {
		log.Debugf("Cache %v is stale, recomputing", path)
		return nil, nil
	}
	st := dataset.New()
	n, err := codec.ParseFileStore(path, codec.DefaultFormat, st)
	if err != nil {
		return nil, err
	}
	st.SetQueryUnion(true)
	log.Debugf("Loaded %d cached statements from %v", n, path)
	return st, nil
}

// newerThanAll reports whether t is strictly newer than the modification
// time of every listed file. An unreadable input counts as newer, which
// forces a recompute and surfaces the real error there.
func newerThanAll(t time.Time, paths []string) bool {
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return false
		}
		if !t.After(info.ModTime()) {
			return false
		}
	}
	return true
}
