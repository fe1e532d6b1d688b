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

// Package rules loads and executes the custom inference rules that run
// alongside the reasoner. A rule file holds one CONSTRUCT query in a small
// SPARQL subset: optional PREFIX declarations, a CONSTRUCT template block,
// and a WHERE block of triple patterns. A malformed rule file is a
// configuration error and aborts the inference round; it is never silently
// skipped.
package rules

import (
	"os"
	"path/filepath"
)

// Rule is an immutable (source location, text content) pair for one rule
// file.
type Rule struct {
	Source  string
	Content string
}

// Name returns the file stem of the rule's source, used in logs.
func (r Rule) Name() string {
	base := filepath.Base(r.Source)
	return base[:len(base)-len(filepath.Ext(base))]
}

// Len returns the length of the rule text in bytes.
func (r Rule) Len() int {
	return len(r.Content)
}

// Load reads every rule file. A file that cannot be read is a fatal
// configuration error.
func Load(paths []string) ([]Rule, error) {
	rules := make([]Rule, 0, len(paths))
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		rules = append(rules, Rule{Source: path, Content: string(content)})
	}
	return rules, nil
}
