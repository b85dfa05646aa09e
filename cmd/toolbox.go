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
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/we-are-mono/cutler/brew"
	"github.com/we-are-mono/cutler/defaults"
	"github.com/we-are-mono/cutler/engine"
	"github.com/we-are-mono/cutler/external"
	"github.com/we-are-mono/cutler/logging"
	"github.com/we-are-mono/cutler/mas"
)

// toolbox bundles the per-invocation dependencies every command
// builds from the global flags: the user-facing printer and the
// structured logger, both attached to the command's streams.
type toolbox struct {
	printer *logging.Printer
	logger  hclog.Logger
}

// newToolbox builds the toolbox for one command invocation.
func newToolbox(cmd *cobra.Command) *toolbox {
	printer := logging.NewPrinter(logging.PrinterOptions{
		Out:       cmd.OutOrStdout(),
		Err:       cmd.ErrOrStderr(),
		In:        cmd.InOrStdin(),
		Verbose:   flagVerbose,
		Quiet:     flagQuiet,
		Color:     logging.TermColor(),
		AcceptAll: flagAcceptAll,
	})

	logger := logging.New(cmd.ErrOrStderr(), flagVerbose, flagQuiet)

	return &toolbox{printer: printer, logger: logger}
}

// The factories below are package variables so tests can swap in
// engines and managers built over mocks.

// newEngine builds the reconciliation engine against the real system.
var newEngine = func(tb *toolbox) *engine.Engine {
	return engine.New(engine.Options{
		Prefs:     defaults.NewOSPreferences(tb.printer, tb.logger),
		Printer:   tb.printer,
		Logger:    tb.logger,
		Version:   Version,
		DryRun:    flagDryRun,
		NoRestart: flagNoRestart,
	})
}

// newExternal builds the external command runner over the system shell.
var newExternal = func(tb *toolbox) *external.Runner {
	return external.NewOSRunner(tb.printer, tb.logger, flagDryRun)
}

// newBrew builds the Homebrew manager against the real brew binary.
var newBrew = func(tb *toolbox) *brew.Manager {
	return brew.NewOSManager(tb.printer, tb.logger, flagDryRun)
}

// newMas builds the Mac App Store manager against the real mas binary.
var newMas = func(tb *toolbox) *mas.Manager {
	return mas.NewOSManager(tb.printer, tb.logger, flagDryRun)
}
