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
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"github.com/we-are-mono/cutler/config"
	"github.com/we-are-mono/cutler/snapshot"
)

var configShowEditor bool

var configCmd = &cobra.Command{
	Use:         "config",
	Aliases:     []string{"conf"},
	Short:       "Inspect and manage the configuration file",
	Annotations: skipSync(),
}

var configShowCmd = &cobra.Command{
	Use:         "show",
	Short:       "Print the configuration file",
	Annotations: skipSync(),
	Run:         runConfigShow,
}

var configDeleteCmd = &cobra.Command{
	Use:         "delete",
	Short:       "Delete the configuration file and snapshot",
	Annotations: skipSync(),
	Run:         runConfigDelete,
}

var configLockCmd = &cobra.Command{
	Use:         "lock",
	Short:       "Lock the config against apply, unapply, and reset",
	Annotations: skipSync(),
	Run:         runConfigLock,
}

var configUnlockCmd = &cobra.Command{
	Use:         "unlock",
	Short:       "Unlock a locked config",
	Annotations: skipSync(),
	Run:         runConfigUnlock,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configDeleteCmd)
	configCmd.AddCommand(configLockCmd)
	configCmd.AddCommand(configUnlockCmd)

	configShowCmd.Flags().BoolVarP(&configShowEditor, "editor", "e", false, "Open the config in $EDITOR instead of printing it")
}

func runConfigShow(cmd *cobra.Command, args []string) {
	tb := newToolbox(cmd)
	if err := executeConfigShow(tb); err != nil {
		tb.printer.Errorf("%v", err)
		exitWithError()
	}
}

func executeConfigShow(tb *toolbox) error {
	path, err := config.Path()
	if err != nil {
		return err
	}
	if !config.IsLoadable() {
		return fmt.Errorf("configuration file does not exist at %s", path)
	}

	if flagDryRun {
		tb.printer.Dryf("Would display config at %s", path)
		return nil
	}

	if configShowEditor {
		return openInEditor(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	tb.printer.Plainf("%s", data)
	return nil
}

// openInEditor launches $EDITOR on the config file, inheriting the
// terminal. The variable is split on whitespace so values like
// "code --wait" work.
func openInEditor(path string) error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		return fmt.Errorf("$EDITOR is not set")
	}

	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("editor failed: %w", err)
	}
	return nil
}

func runConfigDelete(cmd *cobra.Command, args []string) {
	tb := newToolbox(cmd)
	if err := executeConfigDelete(tb); err != nil {
		tb.printer.Errorf("%v", err)
		exitWithError()
	}
}

// executeConfigDelete removes the config file and the snapshot. When a
// snapshot with applied settings exists it first offers to unapply, so
// the system is not left stranded with settings nobody can revert.
func executeConfigDelete(tb *toolbox) error {
	path, err := config.Path()
	if err != nil {
		return err
	}
	if !config.IsLoadable() {
		tb.printer.Infof("No config file to delete.")
		return nil
	}

	if snapshot.Exists() {
		snap, err := snapshot.Load()
		if err == nil && len(snap.Settings) > 0 {
			tb.printer.Infof("Found a snapshot at %s with %d settings.", snap.Path(), len(snap.Settings))
			if tb.printer.Confirm("Unapply all previously applied settings first?") {
				if err := executeUnapply(tb); err != nil {
					return err
				}
			}
		}
	}

	if flagDryRun {
		tb.printer.Dryf("Would delete config at %s", path)
		if snapshot.Exists() {
			tb.printer.Dryf("Would delete snapshot file.")
		}
		return nil
	}

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete config: %w", err)
	}
	if snapshot.Exists() {
		if err := snapshot.Remove(); err != nil {
			return err
		}
	}

	tb.printer.Donef("Deleted config at %s.", path)
	return nil
}

func runConfigLock(cmd *cobra.Command, args []string) {
	tb := newToolbox(cmd)
	if err := executeConfigLock(tb); err != nil {
		tb.printer.Errorf("%v", err)
		exitWithError()
	}
}

func executeConfigLock(tb *toolbox) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.Lock {
		return fmt.Errorf("config is already locked")
	}

	if flagDryRun {
		tb.printer.Dryf("Would lock the config at %s", cfg.Path())
		return nil
	}

	cfg.Lock = true
	if err := cfg.Save(); err != nil {
		return err
	}

	tb.printer.Donef("Config locked. Apply, unapply, and reset will refuse to run.")
	return nil
}

func runConfigUnlock(cmd *cobra.Command, args []string) {
	tb := newToolbox(cmd)
	if err := executeConfigUnlock(tb); err != nil {
		tb.printer.Errorf("%v", err)
		exitWithError()
	}
}

func executeConfigUnlock(tb *toolbox) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if !cfg.Lock {
		return fmt.Errorf("config is already unlocked")
	}

	if flagDryRun {
		tb.printer.Dryf("Would unlock the config at %s", cfg.Path())
		return nil
	}

	cfg.Lock = false
	if err := cfg.Save(); err != nil {
		return err
	}

	tb.printer.Donef("Config unlocked.")
	return nil
}
