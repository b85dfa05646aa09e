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

package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/we-are-mono/cutler/config"
)

// TestStatusInSync verifies a matching system reports in sync, with
// matched settings shown in verbose mode.
func TestStatusInSync(t *testing.T) {
	te := newTestEngine(t, false)
	te.runner.Seed("com.apple.dock", "autohide", "1")

	ok := te.engine.Status(parseConfig(t, "[set.dock]\nautohide = true\n"))
	assert.True(t, ok)

	out := te.out.String()
	assert.Contains(t, out, "com.apple.dock:")
	assert.Contains(t, out, "[Matched] autohide: 1")
	assert.Contains(t, out, "System preferences are in sync.")
}

// TestStatusDiverged verifies differing and missing settings are each
// reported with their current state.
func TestStatusDiverged(t *testing.T) {
	te := newTestEngine(t, false)
	te.runner.Seed("com.apple.dock", "tilesize", "36")

	ok := te.engine.Status(parseConfig(t, "[set.dock]\nautohide = true\ntilesize = 50\n"))
	assert.False(t, ok)

	out := te.out.String()
	assert.Contains(t, out, "autohide: should be 1 (now: Not set)")
	assert.Contains(t, out, "tilesize: should be 50 (now: 36)")
	assert.Contains(t, out, "Preferences diverged. Run `cutler apply` to apply the config onto the system.")
}

// TestStatusStaleDigest verifies status warns when the config file
// changed after the last apply.
func TestStatusStaleDigest(t *testing.T) {
	te := newTestEngine(t, false)
	te.runner.Seed("com.apple.dock", "autohide", "0")

	path := filepath.Join(t.TempDir(), "cutler.toml")
	require.NoError(t, os.WriteFile(path, []byte("[set.dock]\nautohide = true\n"), 0644))
	cfg, err := config.LoadFrom(path)
	require.NoError(t, err)

	_, err = te.engine.Apply(cfg, ApplyOptions{})
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("[set.dock]\nautohide = true\ntilesize = 50\n"), 0644))
	cfg, err = config.LoadFrom(path)
	require.NoError(t, err)

	ok := te.engine.Status(cfg)
	assert.False(t, ok)
	assert.Contains(t, te.out.String(), "Config has changed since the last apply; the snapshot may be stale.")
}

// TestStatusFreshDigest verifies no staleness warning appears when
// the config is untouched since the last apply.
func TestStatusFreshDigest(t *testing.T) {
	te := newTestEngine(t, false)
	te.runner.Seed("com.apple.dock", "autohide", "0")

	path := filepath.Join(t.TempDir(), "cutler.toml")
	require.NoError(t, os.WriteFile(path, []byte("[set.dock]\nautohide = true\n"), 0644))
	cfg, err := config.LoadFrom(path)
	require.NoError(t, err)

	_, err = te.engine.Apply(cfg, ApplyOptions{})
	require.NoError(t, err)

	ok := te.engine.Status(cfg)
	assert.True(t, ok)
	assert.NotContains(t, te.out.String(), "Config has changed since the last apply")
}
