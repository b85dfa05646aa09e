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
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// timeout guards tests that would otherwise hang on a blocked lock.
func timeout(t *testing.T) <-chan time.Time {
	t.Helper()
	return time.After(2 * time.Second)
}

// TestLockRegistrySharedPerDomain verifies that one domain maps to one
// mutex, and different domains to different mutexes.
func TestLockRegistrySharedPerDomain(t *testing.T) {
	r := NewLockRegistry()

	a1 := r.Get("com.apple.dock")
	a2 := r.Get("com.apple.dock")
	b := r.Get("com.apple.finder")

	assert.Same(t, a1, a2)
	assert.NotSame(t, a1, b)
	assert.Equal(t, 2, r.Len())
}

// TestLockRegistryMutualExclusion verifies that the per-domain mutex
// serializes a racy read-modify-write.
func TestLockRegistryMutualExclusion(t *testing.T) {
	r := NewLockRegistry()

	const workers = 64
	counter := 0

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()

			unlock := r.Lock("com.apple.dock")
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, workers, counter)
}

// TestLockRegistryDomainsIndependent verifies that holding one
// domain's lock does not block another domain.
func TestLockRegistryDomainsIndependent(t *testing.T) {
	r := NewLockRegistry()

	unlockA := r.Lock("com.apple.dock")
	defer unlockA()

	acquired := make(chan struct{})
	go func() {
		unlockB := r.Lock("com.apple.finder")
		unlockB()
		close(acquired)
	}()

	select {
	case <-acquired:
	case <-timeout(t):
		t.Fatal("lock on a different domain should not block")
	}
}

// TestLockRegistryInstancesIndependent verifies that two registries
// never share lock state, so parallel engines and tests stay isolated.
func TestLockRegistryInstancesIndependent(t *testing.T) {
	r1 := NewLockRegistry()
	r2 := NewLockRegistry()

	assert.NotSame(t, r1.Get("com.apple.dock"), r2.Get("com.apple.dock"))
}
