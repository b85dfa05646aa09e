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
	"bytes"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/require"

	"github.com/we-are-mono/cutler/config"
	"github.com/we-are-mono/cutler/defaults"
	"github.com/we-are-mono/cutler/external"
	"github.com/we-are-mono/cutler/logging"
	"github.com/we-are-mono/cutler/snapshot"
)

// systemRecorder captures host commands such as killall without
// executing anything.
type systemRecorder struct {
	mu sync.Mutex

	// Calls records each command as its joined argv.
	Calls []string

	// FailOn makes any command whose text contains the given
	// substring fail.
	FailOn map[string]error
}

func (s *systemRecorder) exec(name string, args []string) ([]byte, error) {
	line := strings.Join(append([]string{name}, args...), " ")

	s.mu.Lock()
	s.Calls = append(s.Calls, line)
	s.mu.Unlock()

	for substr, err := range s.FailOn {
		if strings.Contains(line, substr) {
			return nil, err
		}
	}
	return nil, nil
}

func (s *systemRecorder) Run(name string, args ...string) ([]byte, error) {
	return s.exec(name, args)
}

func (s *systemRecorder) Output(name string, args ...string) ([]byte, error) {
	return s.exec(name, args)
}

// testEngine bundles an Engine with its mocks and captured output.
type testEngine struct {
	engine *Engine
	runner *defaults.MockRunner
	shell  *external.MockShell
	system *systemRecorder
	out    *bytes.Buffer
}

// newTestEngine builds a fully mocked engine whose snapshot lives in a
// per-test temp file.
func newTestEngine(t *testing.T, dryRun bool) *testEngine {
	t.Helper()
	t.Setenv(snapshot.EnvSnapshotPath, filepath.Join(t.TempDir(), "snapshot.json"))

	te := &testEngine{
		runner: defaults.NewMockRunner(),
		shell:  external.NewMockShell(),
		system: &systemRecorder{FailOn: make(map[string]error)},
		out:    &bytes.Buffer{},
	}
	te.engine = te.variant(dryRun, false, "")
	return te
}

// variant builds another engine over the same mocks, output buffer,
// and snapshot path, with different run flags or stdin. Used to
// exercise dry-run or confirmation flows after a real apply.
func (te *testEngine) variant(dryRun, noRestart bool, input string) *Engine {
	printer := logging.NewPrinter(logging.PrinterOptions{
		Out:     te.out,
		Err:     te.out,
		In:      strings.NewReader(input),
		Verbose: true,
	})
	logger := hclog.NewNullLogger()

	return New(Options{
		Prefs:     defaults.NewPreferences(te.runner, printer, logger),
		External:  external.NewRunner(te.shell, printer, logger, dryRun),
		System:    te.system,
		Printer:   printer,
		Logger:    logger,
		Version:   "0.0.0-test",
		DryRun:    dryRun,
		NoRestart: noRestart,
	})
}

// callIndex returns the position of the first recorded defaults call
// matching the given verb, domain, and key, or -1.
func (te *testEngine) callIndex(verb, domain, key string) int {
	for i, call := range te.runner.Calls {
		if len(call) >= 3 && call[0] == verb && call[1] == domain && call[2] == key {
			return i
		}
	}
	return -1
}

// parseConfig builds a config from inline TOML.
func parseConfig(t *testing.T, text string) *config.Config {
	t.Helper()
	cfg, err := config.Parse([]byte(text))
	require.NoError(t, err)
	return cfg
}
