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

package defaults

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// MockRunner is a mock implementation of CommandRunner that simulates
// the defaults tool against an in-memory store.
type MockRunner struct {
	mu sync.Mutex

	// Values holds the simulated store: domain -> key -> value, in the
	// form defaults read would print it.
	Values map[string]map[string]string

	// ListedDomains overrides the output of "defaults domains". When
	// nil, the domains present in Values are listed.
	ListedDomains []string

	// Calls records every invocation's arguments for verification.
	Calls [][]string

	// Error injection per subcommand ("read", "write", "delete",
	// "domains").
	FailOn map[string]error

	// Delay stretches each mutating call, widening the window in which
	// concurrent calls can be observed overlapping.
	Delay time.Duration

	// MaxOverlap records, per domain, the peak number of mutating
	// calls that were in flight at once. With domain locking in place
	// it never exceeds 1.
	MaxOverlap map[string]int

	busy map[string]int
}

// NewMockRunner creates a MockRunner with an empty store.
func NewMockRunner() *MockRunner {
	return &MockRunner{
		Values:     make(map[string]map[string]string),
		FailOn:     make(map[string]error),
		MaxOverlap: make(map[string]int),
		busy:       make(map[string]int),
	}
}

// Seed stores a value, creating the domain as needed.
func (m *MockRunner) Seed(domain, key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Values[domain] == nil {
		m.Values[domain] = make(map[string]string)
	}
	m.Values[domain][key] = value
}

// Value returns a stored value for test assertions.
func (m *MockRunner) Value(domain, key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.Values[domain][key]
	return v, ok
}

// CallCount reports how many recorded calls used the given subcommand.
func (m *MockRunner) CallCount(verb string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, call := range m.Calls {
		if len(call) > 0 && call[0] == verb {
			n++
		}
	}
	return n
}

func (m *MockRunner) Run(name string, args ...string) ([]byte, error) {
	return m.exec(name, args)
}

func (m *MockRunner) Output(name string, args ...string) ([]byte, error) {
	return m.exec(name, args)
}

func (m *MockRunner) exec(name string, args []string) ([]byte, error) {
	if name != "defaults" || len(args) == 0 {
		return nil, fmt.Errorf("mock runner only simulates defaults, got %s %v", name, args)
	}

	verb := args[0]
	var domain string
	if len(args) > 1 {
		domain = args[1]
	}
	mutating := verb == "write" || verb == "delete"

	m.mu.Lock()
	m.Calls = append(m.Calls, args)

	if err := m.FailOn[verb]; err != nil {
		m.mu.Unlock()
		return []byte("simulated " + verb + " failure"), err
	}

	if mutating {
		m.busy[domain]++
		if m.busy[domain] > m.MaxOverlap[domain] {
			m.MaxOverlap[domain] = m.busy[domain]
		}
	}
	m.mu.Unlock()

	// Sleep outside the mock's own lock, otherwise the mock would
	// serialize callers by itself and overlap could never be seen.
	if mutating && m.Delay > 0 {
		time.Sleep(m.Delay)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if mutating {
		m.busy[domain]--
	}

	switch verb {
	case "domains":
		return []byte(strings.Join(m.listedDomainsLocked(), ", ")), nil

	case "read":
		table, ok := m.Values[domain]
		if !ok {
			return nil, fmt.Errorf("domain %s does not exist", domain)
		}
		if len(args) < 3 {
			return []byte(fmt.Sprintf("{ %d keys }", len(table))), nil
		}
		v, ok := table[args[2]]
		if !ok {
			return nil, fmt.Errorf("the pair (%s, %s) does not exist", domain, args[2])
		}
		return []byte(v + "\n"), nil

	case "write":
		if len(args) < 5 {
			return nil, fmt.Errorf("write needs domain, key, flag, value: %v", args)
		}
		if m.Values[domain] == nil {
			m.Values[domain] = make(map[string]string)
		}
		m.Values[domain][args[2]] = storedForm(args[3], args[4])
		return nil, nil

	case "delete":
		table, ok := m.Values[domain]
		if !ok {
			return nil, fmt.Errorf("domain %s does not exist", domain)
		}
		if _, ok := table[args[2]]; !ok {
			return nil, fmt.Errorf("the pair (%s, %s) does not exist", domain, args[2])
		}
		delete(table, args[2])
		return nil, nil

	default:
		return nil, fmt.Errorf("mock runner does not simulate defaults %s", verb)
	}
}

func (m *MockRunner) listedDomainsLocked() []string {
	if m.ListedDomains != nil {
		return m.ListedDomains
	}
	list := make([]string, 0, len(m.Values))
	for d := range m.Values {
		list = append(list, d)
	}
	sort.Strings(list)
	return list
}

// storedForm mirrors how the real store echoes values back: booleans
// written as words read back as digits, everything else verbatim.
func storedForm(flag, value string) string {
	if flag != FlagBool {
		return value
	}
	switch value {
	case "true", "1", "YES":
		return "1"
	default:
		return "0"
	}
}
