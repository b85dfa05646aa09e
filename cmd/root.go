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

// Package cmd implements the CLI commands for cutler using cobra.
// It provides the root command structure, the global flags shared by
// every subcommand, and version management.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is the application version string.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// Global flags, registered as persistent flags on the root command.
var (
	flagDryRun    bool
	flagVerbose   bool
	flagQuiet     bool
	flagAcceptAll bool
	flagNoSync    bool
	flagNoRestart bool
)

var rootCmd = &cobra.Command{
	Use:   "cutler",
	Short: "Cutler - Declarative macOS settings",
	Long: `Cutler converges macOS toward a declarative TOML config.

It writes user preferences through defaults(1), keeps Homebrew and
Mac App Store installations in line with the config, runs external
commands, and records a snapshot so every change can be undone.`,
	Version:          Version,
	PersistentPreRun: autosync,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("cutler v%s (built: %s)\n", Version, BuildTime))

	pf := rootCmd.PersistentFlags()
	pf.BoolVar(&flagDryRun, "dry-run", false, "Print what would change without changing anything")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "Increase output verbosity")
	pf.BoolVar(&flagQuiet, "quiet", false, "Suppress all output except errors and warnings")
	pf.BoolVarP(&flagAcceptAll, "accept-all", "y", false, "Accept all interactive prompts")
	pf.BoolVar(&flagNoSync, "no-sync", false, "Do not sync with the remote config first")
	pf.BoolVarP(&flagNoRestart, "no-restart-services", "n", false, "Do not restart system services after execution")
}

// Execute runs the root command and handles any errors.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// SetVersion updates the version and build time for display in help and version output.
func SetVersion(version, buildTime string) {
	Version = version
	BuildTime = buildTime
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(fmt.Sprintf("cutler v%s (built: %s)\n", version, buildTime))
}

// exitWithError is a helper function that exits with code 1.
// It can be overridden in tests to avoid actual exit.
var exitWithError = func() {
	os.Exit(1)
}
