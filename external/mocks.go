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

package external

import (
	"strings"
	"sync"
)

// MockShell is a mock implementation of ShellRunner for testing.
type MockShell struct {
	mu sync.Mutex

	// Commands records each executed command as its joined argv.
	Commands []string

	// FailOn makes execution fail for any command whose text contains
	// the given substring.
	FailOn map[string]error

	// MissingBins lists binaries LookPath should report as absent.
	MissingBins []string

	// LookPathCalls counts $PATH probes.
	LookPathCalls int
}

// NewMockShell creates a MockShell where every binary resolves.
func NewMockShell() *MockShell {
	return &MockShell{FailOn: make(map[string]error)}
}

func (m *MockShell) RunInteractive(name string, args ...string) error {
	line := strings.Join(append([]string{name}, args...), " ")

	m.mu.Lock()
	m.Commands = append(m.Commands, line)
	m.mu.Unlock()

	for substr, err := range m.FailOn {
		if strings.Contains(line, substr) {
			return err
		}
	}
	return nil
}

func (m *MockShell) LookPath(bin string) bool {
	m.mu.Lock()
	m.LookPathCalls++
	m.mu.Unlock()

	for _, missing := range m.MissingBins {
		if bin == missing {
			return false
		}
	}
	return true
}

// Ran reports whether any executed command contains the substring.
func (m *MockShell) Ran(substr string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, line := range m.Commands {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}
