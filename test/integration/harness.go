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

// Package integration exercises the packages wired together the way
// the CLI wires them: a real config file and snapshot file in a temp
// directory, a full engine on top, and only the OS boundary mocked.
package integration

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/require"

	"github.com/we-are-mono/cutler/config"
	"github.com/we-are-mono/cutler/defaults"
	"github.com/we-are-mono/cutler/engine"
	"github.com/we-are-mono/cutler/external"
	"github.com/we-are-mono/cutler/logging"
	"github.com/we-are-mono/cutler/snapshot"
)

// systemRecorder records host commands such as killall instead of
// running them.
type systemRecorder struct {
	mu    sync.Mutex
	Calls []string
}

func (s *systemRecorder) record(name string, args []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, strings.Join(append([]string{name}, args...), " "))
}

func (s *systemRecorder) Run(name string, args ...string) ([]byte, error) {
	s.record(name, args)
	return nil, nil
}

func (s *systemRecorder) Output(name string, args ...string) ([]byte, error) {
	s.record(name, args)
	return nil, nil
}

// Harness provides an isolated environment per test: config and
// snapshot paths redirected into a temp dir, a simulated preference
// store, and a recorded shell. In holds the answers for confirmation
// prompts; set it before building an engine.
type Harness struct {
	t *testing.T

	Dir    string
	In     string
	Runner *defaults.MockRunner
	Shell  *external.MockShell
	System *systemRecorder
	Out    *bytes.Buffer
}

// NewHarness creates the isolated environment and redirects the config
// and snapshot paths for the duration of the test.
func NewHarness(t *testing.T) *Harness {
	t.Helper()

	dir := t.TempDir()
	t.Setenv(config.EnvConfigPath, filepath.Join(dir, "config.toml"))
	t.Setenv(snapshot.EnvSnapshotPath, filepath.Join(dir, "snapshot.json"))

	return &Harness{
		t:      t,
		Dir:    dir,
		Runner: defaults.NewMockRunner(),
		Shell:  external.NewMockShell(),
		System: &systemRecorder{},
		Out:    &bytes.Buffer{},
	}
}

// Engine builds a full engine over the harness mocks. Each call builds
// a fresh printer consuming the current In string.
func (h *Harness) Engine(dryRun bool) *engine.Engine {
	printer := logging.NewPrinter(logging.PrinterOptions{
		Out:     h.Out,
		Err:     h.Out,
		In:      strings.NewReader(h.In),
		Verbose: true,
	})
	logger := hclog.NewNullLogger()

	return engine.New(engine.Options{
		Prefs:    defaults.NewPreferences(h.Runner, printer, logger),
		External: external.NewRunner(h.Shell, printer, logger, dryRun),
		System:   h.System,
		Printer:  printer,
		Logger:   logger,
		Version:  "0.0.0-integration",
		DryRun:   dryRun,
	})
}

// WriteConfig stores TOML at the redirected config path and loads it
// back the way the CLI does.
func (h *Harness) WriteConfig(text string) *config.Config {
	h.t.Helper()

	path, err := config.Path()
	require.NoError(h.t, err)
	require.NoError(h.t, os.WriteFile(path, []byte(text), 0644))

	cfg, err := config.Load()
	require.NoError(h.t, err)
	return cfg
}

// SnapshotPath returns the redirected snapshot location.
func (h *Harness) SnapshotPath() string {
	path, err := snapshot.Path()
	require.NoError(h.t, err)
	return path
}

// SnapshotOnDisk reports whether the snapshot file exists.
func (h *Harness) SnapshotOnDisk() bool {
	_, err := os.Stat(h.SnapshotPath())
	return err == nil
}
