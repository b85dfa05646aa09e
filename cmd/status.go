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

var statusNoBrew bool

var statusCmd = &cobra.Command{
	Use:     "status",
	Aliases: []string{"s"},
	Short:   "Compare your system against the config",
	Long: `Shows every configured preference next to its current system value,
then checks Homebrew and Mac App Store state when those sections are
configured. Nothing is changed.`,
	Args: cobra.NoArgs,
	Run:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().BoolVar(&statusNoBrew, "no-brew", false, "Skip the Homebrew state check")
}

func runStatus(cmd *cobra.Command, args []string) {
	tb := newToolbox(cmd)
	if err := executeStatus(tb); err != nil {
		tb.printer.Errorf("%v", err)
		exitWithError()
	}
}

// executeStatus reports preference drift, then Homebrew and Mac App
// Store drift for the configured sections.
func executeStatus(tb *toolbox) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	newEngine(tb).Status(cfg)

	if cfg.Brew != nil && !statusNoBrew {
		brewStatus(tb, cfg.Brew)
	}
	if cfg.Mas != nil {
		masStatus(tb, cfg.Mas)
	}
	return nil
}

// brewStatus prints the Homebrew diff in the same shape as the
// preference drift section.
func brewStatus(tb *toolbox, cfg *config.Brew) {
	tb.printer.Plainf("Homebrew:")

	mgr := newBrew(tb)
	if !mgr.Installed() {
		tb.printer.Warnf("Homebrew not available in $PATH, skipping its status check.")
		return
	}

	diff, err := mgr.Compare(cfg)
	if err != nil {
		tb.printer.Warnf("Could not check Homebrew status: %v", err)
		return
	}
	if diff.InSync() {
		tb.printer.Donef("Homebrew state is in sync.")
		return
	}

	sections := []struct {
		label string
		items []string
	}{
		{"Missing formula", diff.MissingFormulae},
		{"Missing cask", diff.MissingCasks},
		{"Missing tap", diff.MissingTaps},
		{"Extra formula", diff.ExtraFormulae},
		{"Extra cask", diff.ExtraCasks},
		{"Extra tap", diff.ExtraTaps},
	}
	for _, s := range sections {
		for _, item := range s.items {
			tb.printer.Warnf("  [%s] %s", s.label, item)
		}
	}
	tb.printer.Warnf("Homebrew diverged. Run the `cutler brew` command group to sync.")
}

// masStatus lists configured App Store apps that are not installed.
func masStatus(tb *toolbox, cfg *config.Mas) {
	tb.printer.Plainf("Mac App Store:")

	mgr := newMas(tb)
	if !mgr.Installed() {
		tb.printer.Warnf("mas not available in $PATH, skipping its status check.")
		return
	}

	missing, err := mgr.Missing(cfg)
	if err != nil {
		tb.printer.Warnf("Could not check Mac App Store status: %v", err)
		return
	}
	if len(missing) == 0 {
		tb.printer.Donef("Mac App Store apps are all installed.")
		return
	}
	for _, id := range missing {
		tb.printer.Warnf("  [Missing app] %s", id)
	}
	tb.printer.Warnf("Install missing apps with `mas install <id>`.")
}
