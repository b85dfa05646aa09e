// Copyright (C) 2025 Mono Technologies Inc.
//
// This program is free software; you can redistribute it and/or
// modify it under the terms of the GNU General Public License
// as published by the Free Software Foundation; version 2.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.

package mas

import (
	"strings"
	"sync"
)

// MockRunner is a Runner serving canned mas output for tests.
type MockRunner struct {
	mu sync.Mutex

	// Listing is the raw stdout of `mas list`.
	Listing string

	// VersionErr fails the `mas version` probe, simulating a missing
	// mas binary.
	VersionErr error

	// ListErr fails the `mas list` call.
	ListErr error

	// Calls records each invocation as a joined argv line.
	Calls []string
}

// NewMockRunner returns an empty MockRunner.
func NewMockRunner() *MockRunner {
	return &MockRunner{}
}

// Output serves the mas version probe and listing from canned data.
func (r *MockRunner) Output(name string, args ...string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	line := name + " " + strings.Join(args, " ")
	r.Calls = append(r.Calls, line)

	switch line {
	case "mas version":
		return []byte("2.2.0\n"), r.VersionErr
	case "mas list":
		return []byte(r.Listing), r.ListErr
	default:
		return nil, nil
	}
}
