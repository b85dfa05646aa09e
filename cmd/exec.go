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
	"fmt"

	"github.com/spf13/cobra"

	"github.com/we-are-mono/cutler/config"
	"github.com/we-are-mono/cutler/external"
)

var (
	execRegular bool
	execFlagged bool
)

var execCmd = &cobra.Command{
	Use:     "exec [name]",
	Aliases: []string{"x"},
	Short:   "Run one or all external commands",
	Long: `Runs the [command.*] entries from the config. With a name, runs just
that command; without one, runs the whole batch, flagged commands
included.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runExec,
}

func init() {
	rootCmd.AddCommand(execCmd)

	f := execCmd.Flags()
	f.BoolVarP(&execRegular, "regular", "r", false, "Run regular commands only, skipping flagged ones")
	f.BoolVarP(&execFlagged, "flagged", "f", false, "Run flagged commands only")
	execCmd.MarkFlagsMutuallyExclusive("regular", "flagged")
}

func runExec(cmd *cobra.Command, args []string) {
	tb := newToolbox(cmd)
	if err := executeExec(tb, args); err != nil {
		tb.printer.Errorf("%v", err)
		exitWithError()
	}
}

// executeExec runs a single named command, or a batch when no name is
// given. Asking for a command by name is consent enough to run it
// even when it is flagged.
func executeExec(tb *toolbox, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	runner := newExternal(tb)
	if len(args) == 1 {
		job, err := external.Extract(cfg, args[0])
		if err != nil {
			return err
		}
		return runner.RunOne(job)
	}

	mode := external.ModeAll
	switch {
	case execRegular:
		mode = external.ModeRegular
	case execFlagged:
		mode = external.ModeFlagged
	}

	ran, failures := runner.RunAll(external.ExtractAll(cfg), mode)
	if failures > 0 {
		return fmt.Errorf("%d of %d external commands failed", failures, len(ran))
	}
	return nil
}
