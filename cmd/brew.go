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
)

var brewBackupNoDeps bool

var brewCmd = &cobra.Command{
	Use:   "brew",
	Short: "Keep Homebrew in line with the config",
}

var brewBackupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Record installed taps, formulae, and casks into the config",
	Run:   runBrewBackup,
}

var brewInstallCmd = &cobra.Command{
	Use:     "install",
	Aliases: []string{"apply"},
	Short:   "Install everything the [brew] section lists",
	Run:     runBrewInstall,
}

func init() {
	rootCmd.AddCommand(brewCmd)
	brewCmd.AddCommand(brewBackupCmd)
	brewCmd.AddCommand(brewInstallCmd)

	brewBackupCmd.Flags().BoolVar(&brewBackupNoDeps, "no-deps", false, "Leave out formulae installed only as dependencies")
}

func runBrewBackup(cmd *cobra.Command, args []string) {
	tb := newToolbox(cmd)
	if err := executeBrewBackup(tb); err != nil {
		tb.printer.Errorf("%v", err)
		exitWithError()
	}
}

func executeBrewBackup(tb *toolbox) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	mgr := newBrew(tb)
	if err := mgr.Ensure(); err != nil {
		return err
	}
	if err := mgr.Backup(cfg, brewBackupNoDeps); err != nil {
		return err
	}

	if flagDryRun {
		return nil
	}
	if err := cfg.Save(); err != nil {
		return err
	}
	tb.printer.Donef("Homebrew state saved to %s.", cfg.Path())
	return nil
}

func runBrewInstall(cmd *cobra.Command, args []string) {
	tb := newToolbox(cmd)
	if err := executeBrewInstall(tb); err != nil {
		tb.printer.Errorf("%v", err)
		exitWithError()
	}
}

func executeBrewInstall(tb *toolbox) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.Brew == nil {
		return fmt.Errorf("no [brew] section found in configuration")
	}

	mgr := newBrew(tb)
	if err := mgr.Ensure(); err != nil {
		return err
	}
	return mgr.Install(cfg.Brew)
}
