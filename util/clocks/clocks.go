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

// Package clocks provides a mockable way to read the current time, so
// provenance timestamps are deterministic under test.
package clocks

import "time"

// A Source tells the passage of time. This package provides two sources:
// Wall and Mock.
type Source interface {
	// Now returns the current time.
	Now() time.Time
}

// Wall is a Source backed by the real system clock.
var Wall Source = wallClock{}

type wallClock struct{}

func (wallClock) Now() time.Time {
	return time.Now()
}

// Mock is a Source whose time only moves when told to.
type Mock struct {
	current time.Time
}

// NewMock creates a mock clock reading the given time.
func NewMock(at time.Time) *Mock {
	return &Mock{current: at}
}

// Now returns the mock's current time.
func (m *Mock) Now() time.Time {
	return m.current
}

// Advance moves the mock clock forward by d.
func (m *Mock) Advance(d time.Duration) {
	m.current = m.current.Add(d)
}

// Set jumps the mock clock to the given time.
func (m *Mock) Set(at time.Time) {
	m.current = at
}
