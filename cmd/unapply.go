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

var unapplyCmd = &cobra.Command{
	Use:     "unapply",
	Aliases: []string{"undo"},
	Short:   "Revert previously applied modifications",
	Long: `Restores every setting recorded in the snapshot to its value from
before apply, deletes the keys that did not exist back then, and
removes the snapshot.`,
	Args: cobra.NoArgs,
	Run:  runUnapply,
}

func init() {
	rootCmd.AddCommand(unapplyCmd)
}

func runUnapply(cmd *cobra.Command, args []string) {
	tb := newToolbox(cmd)
	if err := executeUnapply(tb); err != nil {
		tb.printer.Errorf("%v", err)
		exitWithError()
	}
}

// executeUnapply loads the config for the lock gate and reverts the
// snapshot.
func executeUnapply(tb *toolbox) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	_, err = newEngine(tb).Unapply(cfg)
	return err
}
