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

import "sync"

// LockRegistry hands out one mutex per preference domain. The domain
// files behind defaults(1) are not safe for concurrent writers, so
// jobs against the same domain serialize on its mutex while jobs
// against different domains run in parallel.
//
// The registry belongs to a Preferences instance rather than the
// package, so independent instances (and tests) never share lock
// state. The map is append-only; entries are never removed.
type LockRegistry struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewLockRegistry creates an empty registry.
func NewLockRegistry() *LockRegistry {
	return &LockRegistry{locks: make(map[string]*sync.Mutex)}
}

// Get returns the mutex for a domain, creating it on first use. Every
// caller asking for the same domain gets the same mutex.
func (r *LockRegistry) Get(domain string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.locks[domain]
	if !ok {
		m = &sync.Mutex{}
		r.locks[domain] = m
	}
	return m
}

// Lock acquires the domain's mutex and returns the matching unlock.
func (r *LockRegistry) Lock(domain string) func() {
	m := r.Get(domain)
	m.Lock()
	return m.Unlock
}

// Len reports how many domains have been locked at least once.
func (r *LockRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.locks)
}
