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
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/we-are-mono/cutler/config"
	"github.com/we-are-mono/cutler/logging"
)

// newTestManager wires a Manager to a MockRunner and captures output.
func newTestManager(t *testing.T, dryRun bool) (*Manager, *MockRunner, *bytes.Buffer) {
	t.Helper()

	runner := NewMockRunner()
	out := &bytes.Buffer{}
	printer := logging.NewPrinter(logging.PrinterOptions{Out: out, Err: out, In: strings.NewReader("")})
	return NewManager(runner, printer, hclog.NewNullLogger(), dryRun), runner, out
}

// TestList verifies the listing argument shapes and output parsing.
func TestList(t *testing.T) {
	m, runner, _ := newTestManager(t, false)
	runner.Formulae = []string{"git", "wget"}
	runner.Casks = []string{"firefox"}
	runner.Taps = []string{"homebrew/cask-fonts"}
	runner.Deps = []string{"openssl"}

	tests := []struct {
		name string
		kind ListKind
		want []string
	}{
		{"formulae", KindFormula, []string{"git", "wget"}},
		{"casks", KindCask, []string{"firefox"}},
		{"taps", KindTap, []string{"homebrew/cask-fonts"}},
		{"dependencies", KindDependency, []string{"openssl"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.List(tt.kind)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestListFailure verifies a failing brew call surfaces as an error.
func TestListFailure(t *testing.T) {
	m, runner, _ := newTestManager(t, false)
	runner.FailOn["list --formulae"] = errors.New("brew broke")

	_, err := m.List(KindFormula)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list formulae")
}

// TestCompare verifies missing/extra computation across all kinds.
func TestCompare(t *testing.T) {
	m, runner, _ := newTestManager(t, false)
	runner.Formulae = []string{"git", "htop"}
	runner.Casks = []string{"firefox", "vlc"}
	runner.Taps = []string{"homebrew/core"}

	diff, err := m.Compare(&config.Brew{
		Formulae: []string{"git", "wget"},
		Casks:    []string{"firefox"},
		Taps:     []string{"homebrew/core", "user/tools"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"wget"}, diff.MissingFormulae)
	assert.Equal(t, []string{"htop"}, diff.ExtraFormulae)
	assert.Empty(t, diff.MissingCasks)
	assert.Equal(t, []string{"vlc"}, diff.ExtraCasks)
	assert.Equal(t, []string{"user/tools"}, diff.MissingTaps)
	assert.Empty(t, diff.ExtraTaps)
	assert.False(t, diff.InSync())
}

// TestCompareNoDeps verifies dependency-only formulae are ignored.
func TestCompareNoDeps(t *testing.T) {
	m, runner, _ := newTestManager(t, false)
	runner.Formulae = []string{"git", "openssl"}
	runner.Deps = []string{"openssl"}

	diff, err := m.Compare(&config.Brew{
		Formulae: []string{"git"},
		NoDeps:   true,
	})
	require.NoError(t, err)

	assert.Empty(t, diff.MissingFormulae)
	assert.Empty(t, diff.ExtraFormulae, "dependencies must not count as extras")
}

// TestCompareInSync verifies a matching state reports in sync.
func TestCompareInSync(t *testing.T) {
	m, runner, _ := newTestManager(t, false)
	runner.Formulae = []string{"git"}

	diff, err := m.Compare(&config.Brew{Formulae: []string{"git"}})
	require.NoError(t, err)
	assert.True(t, diff.InSync())
}

// TestInstall verifies taps, fetches, and installs for missing items.
func TestInstall(t *testing.T) {
	m, runner, _ := newTestManager(t, false)
	runner.Formulae = []string{"git"}

	err := m.Install(&config.Brew{
		Formulae: []string{"git", "wget"},
		Casks:    []string{"firefox"},
		Taps:     []string{"user/tools"},
	})
	require.NoError(t, err)

	assert.True(t, runner.Ran("brew tap user/tools"))
	assert.True(t, runner.Ran("brew fetch wget"))
	assert.True(t, runner.Ran("brew fetch --cask firefox"))
	assert.True(t, runner.Ran("brew install --formula wget"))
	assert.True(t, runner.Ran("brew install --cask firefox"))
	assert.False(t, runner.Ran("install --formula git"), "installed formula must be skipped")
}

// TestInstallSkipsFailedFetch verifies only fetched items install.
func TestInstallSkipsFailedFetch(t *testing.T) {
	m, runner, out := newTestManager(t, false)
	runner.FailOn["fetch wget"] = errors.New("download failed")

	err := m.Install(&config.Brew{Formulae: []string{"git", "wget"}})
	require.NoError(t, err)

	assert.True(t, runner.Ran("brew install --formula git"))
	assert.False(t, runner.Ran("install --formula wget"))
	assert.Contains(t, out.String(), "Failed to fetch formulae: [wget]")
}

// TestInstallWarnsExtras verifies the backup hint for unmanaged items.
func TestInstallWarnsExtras(t *testing.T) {
	m, runner, out := newTestManager(t, false)
	runner.Formulae = []string{"git", "htop"}

	err := m.Install(&config.Brew{Formulae: []string{"git"}})
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Extra installed formulae not in config: [htop]")
	assert.Contains(t, out.String(), "cutler brew backup")
	assert.Empty(t, runner.Commands, "nothing missing, nothing to run")
}

// TestInstallDryRun verifies intent is printed without execution.
func TestInstallDryRun(t *testing.T) {
	m, runner, out := newTestManager(t, true)

	err := m.Install(&config.Brew{
		Formulae: []string{"wget"},
		Taps:     []string{"user/tools"},
	})
	require.NoError(t, err)

	assert.Empty(t, runner.Commands)
	assert.Contains(t, out.String(), "Would tap user/tools")
	assert.Contains(t, out.String(), "Would fetch formula: wget")
}

// TestInstallCompareFailure verifies an unreadable state aborts gently.
func TestInstallCompareFailure(t *testing.T) {
	m, runner, out := newTestManager(t, false)
	runner.FailOn["list --formulae"] = errors.New("brew broke")

	err := m.Install(&config.Brew{Formulae: []string{"wget"}})
	require.NoError(t, err)

	assert.Empty(t, runner.Commands)
	assert.Contains(t, out.String(), "Could not check Homebrew state")
}

// TestBackup verifies installed inventories land in the config.
func TestBackup(t *testing.T) {
	m, runner, _ := newTestManager(t, false)
	runner.Formulae = []string{"git", "wget"}
	runner.Casks = []string{"firefox"}
	runner.Taps = []string{"homebrew/core"}

	cfg := &config.Config{}
	require.NoError(t, m.Backup(cfg, false))

	require.NotNil(t, cfg.Brew)
	assert.Equal(t, []string{"git", "wget"}, cfg.Brew.Formulae)
	assert.Equal(t, []string{"firefox"}, cfg.Brew.Casks)
	assert.Equal(t, []string{"homebrew/core"}, cfg.Brew.Taps)
	assert.False(t, cfg.Brew.NoDeps)
}

// TestBackupNoDeps verifies dependency filtering and the no_deps flag.
func TestBackupNoDeps(t *testing.T) {
	m, runner, _ := newTestManager(t, false)
	runner.Formulae = []string{"git", "openssl"}
	runner.Deps = []string{"openssl"}

	cfg := &config.Config{}
	require.NoError(t, m.Backup(cfg, true))

	require.NotNil(t, cfg.Brew)
	assert.Equal(t, []string{"git"}, cfg.Brew.Formulae)
	assert.True(t, cfg.Brew.NoDeps, "no_deps must be remembered for later runs")
}

// TestBackupDryRun verifies the config is left untouched.
func TestBackupDryRun(t *testing.T) {
	m, runner, out := newTestManager(t, true)
	runner.Formulae = []string{"git"}

	cfg := &config.Config{}
	require.NoError(t, m.Backup(cfg, false))

	assert.Nil(t, cfg.Brew)
	assert.Contains(t, out.String(), "Would record formula: git")
}

// TestBackupListFailure verifies list errors abort the backup.
func TestBackupListFailure(t *testing.T) {
	m, runner, _ := newTestManager(t, false)
	runner.FailOn["list --casks"] = errors.New("brew broke")

	cfg := &config.Config{}
	err := m.Backup(cfg, false)
	require.Error(t, err)
	assert.Nil(t, cfg.Brew, "failed backup must not mutate the config")
}

// TestEnsure verifies presence detection and the declined install.
func TestEnsure(t *testing.T) {
	t.Run("installed", func(t *testing.T) {
		m, _, _ := newTestManager(t, false)
		assert.NoError(t, m.Ensure())
	})

	t.Run("missing dry-run", func(t *testing.T) {
		m, runner, out := newTestManager(t, true)
		runner.MissingBins = []string{"brew"}

		require.NoError(t, m.Ensure())
		assert.Contains(t, out.String(), "Would install Homebrew")
		assert.Empty(t, runner.Commands)
	})

	t.Run("missing declined", func(t *testing.T) {
		m, runner, _ := newTestManager(t, false)
		runner.MissingBins = []string{"brew"}

		err := m.Ensure()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Homebrew is required")
	})
}

// TestSubtract verifies order preservation and set semantics.
func TestSubtract(t *testing.T) {
	assert.Equal(t, []string{"a", "c"}, subtract([]string{"a", "b", "c"}, []string{"b"}))
	assert.Empty(t, subtract([]string{"a"}, []string{"a"}))
	assert.Equal(t, []string{"a"}, subtract([]string{"a"}, nil))
}
