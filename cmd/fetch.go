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
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/we-are-mono/cutler/config"
)

// skipSyncAnnotation marks commands that must never trigger autosync,
// such as fetch itself and anything that edits the config file.
const skipSyncAnnotation = "cutler_skip_autosync"

// skipSync returns the annotation map for commands exempt from
// autosync.
func skipSync() map[string]string {
	return map[string]string{skipSyncAnnotation: "true"}
}

var fetchForce bool

var fetchCmd = &cobra.Command{
	Use:         "fetch",
	Aliases:     []string{"get"},
	Short:       "Sync the local config from its remote source",
	Long:        "Downloads the config from the [remote] url and overwrites the local file when they differ.",
	Annotations: skipSync(),
	Run:         runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().BoolVarP(&fetchForce, "force", "f", false, "Overwrite the local config without comparing or asking")
}

func runFetch(cmd *cobra.Command, args []string) {
	tb := newToolbox(cmd)
	if err := executeFetch(cmd.Context(), tb); err != nil {
		tb.printer.Errorf("%v", err)
		exitWithError()
	}
}

func executeFetch(ctx context.Context, tb *toolbox) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.Remote == nil || cfg.Remote.URL == "" {
		return fmt.Errorf("no [remote] section found in configuration")
	}

	return syncRemote(ctx, tb, cfg, fetchForce, true)
}

// autosync runs before every command that can observe the config. When
// the config opts in with remote.autosync, the remote copy is fetched
// first so the command acts on the latest config. Failures only warn;
// an unreachable remote must not brick the CLI.
func autosync(cmd *cobra.Command, args []string) {
	if flagNoSync {
		return
	}
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[skipSyncAnnotation] != "" {
			return
		}
	}
	switch cmd.Name() {
	case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
		return
	}

	if !config.IsLoadable() {
		return
	}
	cfg, err := config.Load()
	if err != nil {
		return
	}
	if cfg.Remote == nil || !cfg.Remote.Autosync || cfg.Remote.URL == "" {
		return
	}

	tb := newToolbox(cmd)
	if err := syncRemote(cmd.Context(), tb, cfg, false, false); err != nil {
		tb.printer.Warnf("Autosync failed: %v", err)
	}
}

// syncRemote downloads the remote config and overwrites the local one.
// An identical remote is a no-op unless force is set. With confirm set
// the user is asked before an actual overwrite; autosync passes false
// since the config already opted in.
func syncRemote(ctx context.Context, tb *toolbox, cfg *config.Config, force, confirm bool) error {
	fetcher := config.NewFetcher(cfg.Remote.URL)
	if err := fetcher.Fetch(ctx); err != nil {
		return err
	}
	remote, err := fetcher.Raw()
	if err != nil {
		return err
	}

	local, err := os.ReadFile(cfg.Path())
	if err == nil && bytes.Equal(local, remote) && !force {
		tb.printer.Donef("No changes found, skipping. Use --force to fetch anyway.")
		return nil
	}

	if confirm && !force && !tb.printer.Confirm("The remote config differs from the local one. Overwrite it?") {
		tb.printer.Plainf("Keeping the local config.")
		return nil
	}

	if flagDryRun {
		tb.printer.Dryf("Would overwrite %s with the remote config.", cfg.Path())
		return nil
	}

	if err := fetcher.SaveTo(cfg.Path()); err != nil {
		return err
	}
	tb.printer.Donef("Config synced from %s.", cfg.Remote.URL)
	return nil
}
