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

/*
Package infer runs the inference stage over a merged store.

The orchestrator first computes a noise floor: everything a reasoner can
conclude from the external vocabularies alone, isolated in their own view.
It then alternates reasoner expansion and rule execution over the full
store until the store stops growing or the round cap is hit. New
conclusions land in dedicated named graphs, never in source graphs, so the
merge's provenance survives inference.

Reasoners are pluggable through the Reasoner interface. The built-in
"owlrl" backend forward-chains a practical subset of the OWL 2 RL rules.
*/
package infer
