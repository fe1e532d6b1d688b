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

// Package dataset implements the quad store the pipeline operates on: a set
// of named graphs plus one default graph, all owned by a single Store, and
// permission-checked Views projecting a subset of the named graphs.
//
// A Store is the single owner of all graph data. A View holds only a store
// reference and a list of included graph identifiers; it never copies data,
// so mutations through one handle are immediately visible through every
// other handle over the same store. Any read or write a View receives for a
// graph outside its include list fails with a *PermissionError rather than
// silently succeeding against an empty graph.
//
// The package is not safe for concurrent mutation. The pipeline is a
// single-threaded batch process and relies on the permission checks, not
// locks, for correctness.
package dataset
