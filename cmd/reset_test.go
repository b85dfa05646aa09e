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

package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestExecuteResetDeletesKeys confirms and deletes every configured
// key that is currently set.
func TestExecuteResetDeletesKeys(t *testing.T) {
	h := newHarness(t)
	h.in = "y\n"
	h.writeConfig(t, "[set.dock]\nautohide = true\n")
	h.runner.Seed("com.apple.dock", "autohide", "1")

	err := executeReset(h.toolbox())

	require.NoError(t, err)
	_, ok := h.runner.Value("com.apple.dock", "autohide")
	assert.False(t, ok)
	assert.Contains(t, h.out.String(), "Reset complete. 1 settings deleted.")
}

// TestExecuteResetDeclined aborts without touching the system when the
// prompt is declined.
func TestExecuteResetDeclined(t *testing.T) {
	h := newHarness(t)
	h.writeConfig(t, "[set.dock]\nautohide = true\n")
	h.runner.Seed("com.apple.dock", "autohide", "1")

	err := executeReset(h.toolbox())

	require.NoError(t, err)
	value, ok := h.runner.Value("com.apple.dock", "autohide")
	require.True(t, ok)
	assert.Equal(t, "1", value)
	assert.Contains(t, h.out.String(), "Aborted.")
}
