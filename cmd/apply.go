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
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/we-are-mono/cutler/config"
	"github.com/we-are-mono/cutler/engine"
	"github.com/we-are-mono/cutler/external"
)

var (
	applyURL     string
	applyNoExec  bool
	applyAllExec bool
	applyFlagged bool
	applyNoCheck bool
	applyBrew    bool
)

var applyCmd = &cobra.Command{
	Use:     "apply",
	Aliases: []string{"set"},
	Short:   "Apply preferences and more from the config",
	Long: `Reads the config, writes every preference whose current value
differs, records the prior values in the snapshot, restarts the
affected services, and runs the configured external commands.`,
	Args: cobra.NoArgs,
	Run:  runApply,
}

func init() {
	rootCmd.AddCommand(applyCmd)

	f := applyCmd.Flags()
	f.StringVarP(&applyURL, "url", "u", "", "Apply a remote config from a URL (fresh machines only)")
	f.BoolVar(&applyNoExec, "no-exec", false, "Skip external commands")
	f.BoolVarP(&applyAllExec, "all-exec", "a", false, "Run all external commands, including flagged ones")
	f.BoolVarP(&applyFlagged, "flagged", "f", false, "Run flagged external commands only")
	f.BoolVar(&applyNoCheck, "no-check", false, "Risky: skip checking that domains exist before writing")
	f.BoolVarP(&applyBrew, "brew", "b", false, "Run brew install after applying preferences")

	applyCmd.MarkFlagsMutuallyExclusive("no-exec", "all-exec", "flagged")
}

func runApply(cmd *cobra.Command, args []string) {
	tb := newToolbox(cmd)
	if err := executeApply(cmd.Context(), tb); err != nil {
		tb.printer.Errorf("%v", err)
		exitWithError()
	}
}

// executeApply loads the config, reconciles the system, and optionally
// follows up with a Homebrew install.
func executeApply(ctx context.Context, tb *toolbox) error {
	cfg, err := loadApplyConfig(ctx)
	if err != nil {
		return err
	}

	mode := external.ModeRegular
	switch {
	case applyAllExec:
		mode = external.ModeAll
	case applyFlagged:
		mode = external.ModeFlagged
	}

	eng := newEngine(tb)
	if _, err := eng.Apply(cfg, engine.ApplyOptions{
		NoCheck:  applyNoCheck,
		NoExec:   applyNoExec,
		ExecMode: mode,
	}); err != nil {
		return err
	}

	if applyBrew && cfg.Brew != nil {
		mgr := newBrew(tb)
		if err := mgr.Ensure(); err != nil {
			return err
		}
		if err := mgr.Install(cfg.Brew); err != nil {
			return err
		}
	}
	return nil
}

// loadApplyConfig loads the local config, or the remote one when
// --url is given. The URL path exists for machines without a config;
// a local file always wins.
func loadApplyConfig(ctx context.Context) (*config.Config, error) {
	if applyURL == "" {
		return config.Load()
	}
	if config.IsLoadable() {
		return nil, fmt.Errorf("aborted apply: --url passed despite a local config")
	}

	fetcher := config.NewFetcher(applyURL)
	if err := fetcher.Fetch(ctx); err != nil {
		return nil, err
	}
	return fetcher.Parsed()
}
