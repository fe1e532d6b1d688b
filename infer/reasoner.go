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
	"fmt"

	"github.com/quern/quern/dataset"
)

// A Reasoner derives new triples from the whole store and writes them to a
// destination graph that the store owns. Implementations must read the
// entire store, all named graphs plus the default graph, and must not
// modify any graph other than dst.
type Reasoner interface {
	// Name identifies the backend in logs and config files.
	Name() string
	// Expand performs one full expansion to fixpoint, adding any triple it
	// concludes that the store does not already hold somewhere to dst.
	Expand(st *dataset.Store, dst *dataset.Graph) error
}

// backends maps config backend names to constructors.
var backends = map[string]func() Reasoner{
	"owlrl": func() Reasoner { return &owlRL{} },
}

// NewReasoner constructs the backend with the given config name. An unknown
// name is a configuration error.
func NewReasoner(name string) (Reasoner, error) {
	ctor, ok := backends[name]
	if !ok {
		return nil, fmt.Errorf("unsupported inference backend %q", name)
	}
	return ctor(), nil
}
