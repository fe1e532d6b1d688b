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

// Package config loads and discovers quern project files. A project file
// declares the source files to merge by role, the rule files, the inference
// backend, and the output directory.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ProjectFileName is the file name searched for during discovery.
const ProjectFileName = "quern.yaml"

// maxDiscoveryDepth bounds the upward search for a project file.
const maxDiscoveryDepth = 10

// DefaultBackend is used when the project file does not name one.
const DefaultBackend = "owlrl"

// Project is a loaded project configuration. All paths are absolute,
// resolved against the directory containing the project file.
type Project struct {
	// Name of the project, defaulting to the config file's stem.
	Name string
	// Path of the project file itself.
	Path string
	// DataPaths are the project's own data files. At least one is required.
	DataPaths []string
	// InternalVocabPaths are project-specific vocabulary files.
	InternalVocabPaths []string
	// ExternalVocabPaths are third-party vocabulary files; these and
	// everything inferred purely from them count as noise downstream.
	ExternalVocabPaths []string
	// RulePaths are CONSTRUCT rule files applied during inference.
	RulePaths []string
	// Backend selects the reasoner implementation.
	Backend string
	// OutputDir receives the exported pipeline artifacts.
	OutputDir string
}

// projectYAML is the on-disk schema.
type projectYAML struct {
	Name           string   `yaml:"name"`
	Data           []string `yaml:"data"`
	InternalVocabs []string `yaml:"internal_vocabs"`
	ExternalVocabs []string `yaml:"external_vocabs"`
	Rules          []string `yaml:"rules"`
	Backend        string   `yaml:"backend"`
	Output         string   `yaml:"output"`
}

// Load parses the project file at path. Upon success it returns a non-nil
// project with all paths resolved. Otherwise it returns an error, which
// already includes the filename.
func Load(path string) (*Project, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(abs)
	if err != nil {
		return nil, err
	}
	var cfg projectYAML
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("error decoding YAML value in %v: %v", path, err)
	}
	if len(cfg.Data) == 0 {
		return nil, fmt.Errorf("missing required config field `data` in %v", path)
	}

	dir := filepath.Dir(abs)
	p := &Project{
		Name:               cfg.Name,
		Path:               abs,
		DataPaths:          resolveAll(dir, cfg.Data),
		InternalVocabPaths: resolveAll(dir, cfg.InternalVocabs),
		ExternalVocabPaths: resolveAll(dir, cfg.ExternalVocabs),
		RulePaths:          resolveAll(dir, cfg.Rules),
		Backend:            cfg.Backend,
		OutputDir:          cfg.Output,
	}
	if p.Name == "" {
		p.Name = stem(abs)
	}
	if p.Backend == "" {
		p.Backend = DefaultBackend
	}
	if p.OutputDir == "" {
		p.OutputDir = filepath.Join(dir, "output")
	} else {
		p.OutputDir = resolve(dir, p.OutputDir)
	}
	return p, nil
}

// Discover searches for a project file starting at start and walking up
// parent directories. The search stops unsuccessfully at the filesystem
// root, at $HOME, or after maxDiscoveryDepth levels.
func Discover(start string) (string, error) {
	current, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}
	home, _ := os.UserHomeDir()
	for depth := 0; ; depth++ {
		candidate := filepath.Join(current, ProjectFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		const msg = "search limit hit before finding project config (`" + ProjectFileName + "`)"
		parent := filepath.Dir(current)
		if parent == current {
			return "", fmt.Errorf("%s: reached root directory", msg)
		}
		if depth >= maxDiscoveryDepth {
			return "", fmt.Errorf("%s: reached maximum search depth (%d)", msg, depth)
		}
		if home != "" && current == home {
			return "", fmt.Errorf("%s: reached $HOME directory", msg)
		}
		current = parent
	}
}

// AllInputs returns every input file the pipeline reads, in role order:
// external vocabularies, internal vocabularies, data, then rules. The
// project file itself is not included.
func (p *Project) AllInputs() []string {
	out := make([]string, 0, len(p.ExternalVocabPaths)+len(p.InternalVocabPaths)+len(p.DataPaths)+len(p.RulePaths))
	out = append(out, p.ExternalVocabPaths...)
	out = append(out, p.InternalVocabPaths...)
	out = append(out, p.DataPaths...)
	out = append(out, p.RulePaths...)
	return out
}

func resolveAll(dir string, paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = resolve(dir, p)
	}
	return out
}

func resolve(dir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

func stem(path string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}
