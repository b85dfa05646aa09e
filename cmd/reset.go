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
	"github.com/spf13/cobra"

	"github.com/we-are-mono/cutler/config"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Hard-reset all configured preferences",
	Long: `Deletes every preference key named in the config from the system,
returning those settings to their system defaults. Unlike unapply
this ignores the snapshot; use it when the snapshot no longer
matches reality.`,
	Args: cobra.NoArgs,
	Run:  runReset,
}

func init() {
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, args []string) {
	tb := newToolbox(cmd)
	if err := executeReset(tb); err != nil {
		tb.printer.Errorf("%v", err)
		exitWithError()
	}
}

func executeReset(tb *toolbox) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	_, err = newEngine(tb).Reset(cfg)
	return err
}
