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

var masCmd = &cobra.Command{
	Use:   "mas",
	Short: "Keep Mac App Store apps in line with the config",
}

var masListCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed App Store apps",
	Run:   runMasList,
}

var masBackupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Record installed App Store apps into the config",
	Run:   runMasBackup,
}

func init() {
	rootCmd.AddCommand(masCmd)
	masCmd.AddCommand(masListCmd)
	masCmd.AddCommand(masBackupCmd)
}

func runMasList(cmd *cobra.Command, args []string) {
	tb := newToolbox(cmd)
	if err := executeMasList(tb); err != nil {
		tb.printer.Errorf("%v", err)
		exitWithError()
	}
}

// executeMasList prints installed apps. Unlike every other command it
// does not need a config; listing is read-only discovery.
func executeMasList(tb *toolbox) error {
	apps, err := newMas(tb).ListApps()
	if err != nil {
		return err
	}
	if len(apps) == 0 {
		tb.printer.Warnf("No App Store apps installed.")
		return nil
	}
	for _, app := range apps {
		tb.printer.Plainf("%s  %s", app.ID, app.Name)
	}
	return nil
}

func runMasBackup(cmd *cobra.Command, args []string) {
	tb := newToolbox(cmd)
	if err := executeMasBackup(tb); err != nil {
		tb.printer.Errorf("%v", err)
		exitWithError()
	}
}

func executeMasBackup(tb *toolbox) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if err := newMas(tb).Backup(cfg); err != nil {
		return err
	}

	if flagDryRun {
		return nil
	}
	if err := cfg.Save(); err != nil {
		return err
	}
	tb.printer.Donef("App Store apps saved to %s.", cfg.Path())
	return nil
}
