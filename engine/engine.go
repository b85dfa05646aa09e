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

// Package engine reconciles the declarative config with the live
// system: applying setting deltas, inverting them from the snapshot,
// resetting configured keys, and reporting drift.
package engine

import (
	"github.com/hashicorp/go-hclog"

	"github.com/we-are-mono/cutler/defaults"
	"github.com/we-are-mono/cutler/external"
	"github.com/we-are-mono/cutler/logging"
)

// Engine runs the reconciliation operations. Every instance carries
// its own preference manager and lock registry, so engines in tests
// never share state.
type Engine struct {
	prefs   *defaults.Preferences
	ext     *external.Runner
	system  defaults.CommandRunner
	printer *logging.Printer
	logger  hclog.Logger

	version   string
	dryRun    bool
	noRestart bool
}

// Options configures an Engine.
type Options struct {
	// Prefs reads and mutates the preference store.
	Prefs *defaults.Preferences

	// External runs [command.*] entries after settings are applied.
	External *external.Runner

	// System runs host commands such as killall. Defaults to the real
	// command runner.
	System defaults.CommandRunner

	Printer *logging.Printer
	Logger  hclog.Logger

	// Version tags snapshots written by this engine.
	Version string

	DryRun bool

	// NoRestart skips the UI service restarts after mutations.
	NoRestart bool
}

// New creates an Engine.
func New(opts Options) *Engine {
	if opts.System == nil {
		opts.System = defaults.NewOSRunner()
	}
	if opts.External == nil {
		opts.External = external.NewOSRunner(opts.Printer, opts.Logger, opts.DryRun)
	}
	return &Engine{
		prefs:     opts.Prefs,
		ext:       opts.External,
		system:    opts.System,
		printer:   opts.Printer,
		logger:    opts.Logger.Named("engine"),
		version:   opts.Version,
		dryRun:    opts.DryRun,
		noRestart: opts.NoRestart,
	}
}

// Report summarizes one engine run.
type Report struct {
	// Changed counts settings written, restored, or removed.
	Changed int

	// Failed counts individual operations that failed. Failures never
	// abort a batch; they are counted and summarized.
	Failed int

	// Skipped counts settings that already matched.
	Skipped int

	// ExternalRan and ExternalFailed count external command outcomes.
	ExternalRan    int
	ExternalFailed int
}

// address identifies one effective (domain, key) pair.
type address struct {
	domain string
	key    string
}
