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

//go:build integration
// +build integration

package integration

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/we-are-mono/cutler/config"
	"github.com/we-are-mono/cutler/engine"
	"github.com/we-are-mono/cutler/external"
	"github.com/we-are-mono/cutler/snapshot"
)

// TestConfigSaveKeepsSetTree verifies that a programmatic save (as
// done by brew backup and config lock) re-marshals the nested [set]
// tree without losing it.
func TestConfigSaveKeepsSetTree(t *testing.T) {
	h := NewHarness(t)
	cfg := h.WriteConfig(`
[set.dock]
autohide = true

[set.NSGlobalDomain.com.apple.keyboard]
fnState = 1
`)

	cfg.Brew = &config.Brew{Formulae: []string{"ripgrep"}}
	require.NoError(t, cfg.Save())

	reloaded, err := config.Load()
	require.NoError(t, err)

	require.NotNil(t, reloaded.Brew)
	assert.Equal(t, []string{"ripgrep"}, reloaded.Brew.Formulae)
	require.Contains(t, reloaded.Set, "dock")
	assert.Contains(t, reloaded.Set, "NSGlobalDomain")

	// The nested table must still flatten to the same effective
	// setting after the save/load cycle.
	h.Runner.Seed("com.apple.dock", "autohide", "0")
	_, err = h.Engine(false).Apply(reloaded, engine.ApplyOptions{ExecMode: external.ModeRegular})
	require.NoError(t, err)

	value, ok := h.Runner.Value("NSGlobalDomain", "com.apple.keyboard.fnState")
	require.True(t, ok)
	assert.Equal(t, "1", value)
}

// TestLockGatePersists locks the config on disk and verifies every
// mutating operation refuses until it is unlocked again.
func TestLockGatePersists(t *testing.T) {
	h := NewHarness(t)
	cfg := h.WriteConfig(`
[set.dock]
autohide = true
`)
	h.Runner.Seed("com.apple.dock", "autohide", "0")

	cfg.Lock = true
	require.NoError(t, cfg.Save())

	locked, err := config.Load()
	require.NoError(t, err)

	eng := h.Engine(false)
	opts := engine.ApplyOptions{ExecMode: external.ModeRegular}

	_, err = eng.Apply(locked, opts)
	assert.ErrorIs(t, err, config.ErrLocked)
	_, err = eng.Unapply(locked)
	assert.ErrorIs(t, err, config.ErrLocked)
	_, err = eng.Reset(locked)
	assert.ErrorIs(t, err, config.ErrLocked)

	assert.Zero(t, h.Runner.CallCount("write"), "locked config must not reach the system")
	assert.False(t, h.SnapshotOnDisk())

	locked.Lock = false
	require.NoError(t, locked.Save())

	unlocked, err := config.Load()
	require.NoError(t, err)
	_, err = eng.Apply(unlocked, opts)
	require.NoError(t, err)
	assert.True(t, h.SnapshotOnDisk())
}

// TestSnapshotDigestTracksConfig verifies the digest recorded at apply
// time matches the file until the file changes.
func TestSnapshotDigestTracksConfig(t *testing.T) {
	h := NewHarness(t)
	cfg := h.WriteConfig(`
[set.dock]
autohide = true
`)
	h.Runner.Seed("com.apple.dock", "autohide", "0")

	_, err := h.Engine(false).Apply(cfg, engine.ApplyOptions{ExecMode: external.ModeRegular})
	require.NoError(t, err)

	snap, err := snapshot.Load()
	require.NoError(t, err)
	digest, err := config.Digest(cfg.Path())
	require.NoError(t, err)
	assert.Equal(t, digest, snap.Digest)

	require.NoError(t, os.WriteFile(cfg.Path(), []byte("[set.dock]\nautohide = false\n"), 0644))

	changed, err := config.Digest(cfg.Path())
	require.NoError(t, err)
	assert.NotEqual(t, snap.Digest, changed, "editing the config must change its digest")
}
