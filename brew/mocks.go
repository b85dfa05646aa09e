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

package brew

import (
	"strings"
	"sync"
)

// MockRunner is a Runner simulating a Homebrew installation for tests.
type MockRunner struct {
	mu sync.Mutex

	// Inventories returned by the list commands.
	Formulae []string
	Casks    []string
	Taps     []string
	Deps     []string

	// Commands records every RunInteractive call as a joined argv line.
	Commands []string

	// FailOn maps an argv substring to the error any matching Output or
	// RunInteractive call returns.
	FailOn map[string]error

	// MissingBins makes LookPath return false for the named binaries.
	MissingBins []string
}

// NewMockRunner returns an empty MockRunner ready for seeding.
func NewMockRunner() *MockRunner {
	return &MockRunner{FailOn: make(map[string]error)}
}

// Output serves the brew listing commands from the seeded inventories.
func (r *MockRunner) Output(name string, args ...string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	line := name + " " + strings.Join(args, " ")
	if err := r.failFor(line); err != nil {
		return nil, err
	}

	var items []string
	switch line {
	case "brew list --formulae":
		items = r.Formulae
	case "brew list --casks":
		items = r.Casks
	case "brew tap":
		items = r.Taps
	case "brew list --installed-as-dependency":
		items = r.Deps
	}
	return []byte(strings.Join(items, "\n") + "\n"), nil
}

// RunInteractive records the call and fails it when FailOn matches.
func (r *MockRunner) RunInteractive(name string, args ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	line := name + " " + strings.Join(args, " ")
	r.Commands = append(r.Commands, line)
	return r.failFor(line)
}

// LookPath reports false only for binaries listed in MissingBins.
func (r *MockRunner) LookPath(bin string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, missing := range r.MissingBins {
		if bin == missing {
			return false
		}
	}
	return true
}

// Ran reports whether any recorded command contains the substring.
func (r *MockRunner) Ran(substr string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, line := range r.Commands {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

// failFor returns the injected error for the first matching substring.
// Callers must hold mu.
func (r *MockRunner) failFor(line string) error {
	for substr, err := range r.FailOn {
		if strings.Contains(line, substr) {
			return err
		}
	}
	return nil
}
