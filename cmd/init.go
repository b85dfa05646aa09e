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

// configTemplate is the starter config written by cutler init. Every
// optional section is present but commented out so the file doubles as
// a reference.
const configTemplate = `# Configuration file for cutler.
# Set your macOS preferences below, then run: cutler apply

[set.dock]
autohide = true
tilesize = 46

[set.finder]
ShowPathbar = true

[set.NSGlobalDomain]
InitialKeyRepeat = 15

# Variables usable as $name or ${name} inside command templates.
# [vars]
# hostname = "mono"

# External commands run after every apply. Flagged commands only run
# when asked for explicitly.
# [command.wallpaper]
# run = "osascript -e 'tell application \"Finder\" to set desktop picture to POSIX file \"$HOME/wall.png\"'"
#
# [command.purge]
# run = "sudo purge"
# sudo = true
# flag = true

# Homebrew state managed by the cutler brew command group.
# [brew]
# taps = ["homebrew/cask-fonts"]
# formulae = ["git", "ripgrep"]
# casks = ["font-jetbrains-mono"]

# Mac App Store apps, by numeric id.
# [mas]
# ids = ["1502839586"]

# Remote config to sync from. With autosync enabled, every command
# fetches it first.
# [remote]
# url = "https://example.com/cutler/config.toml"
# autosync = false
`

var initCmd = &cobra.Command{
	Use:         "init",
	Short:       "Create a starter configuration file",
	Long:        "Writes an annotated starter config to the default location, asking before overwriting an existing one.",
	Annotations: skipSync(),
	Run:         runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) {
	tb := newToolbox(cmd)
	if err := executeInit(tb); err != nil {
		tb.printer.Errorf("%v", err)
		exitWithError()
	}
}

func executeInit(tb *toolbox) error {
	path, err := config.Path()
	if err != nil {
		return err
	}

	if config.IsLoadable() {
		tb.printer.Warnf("Configuration file already exists at %s", path)
		if !tb.printer.Confirm("Do you want to overwrite it?") {
			return fmt.Errorf("configuration init aborted")
		}
	}

	if flagDryRun {
		tb.printer.Dryf("Would write starter config to %s", path)
		return nil
	}

	if err := config.WriteFileAtomic(path, []byte(configTemplate), 0644); err != nil {
		return err
	}

	tb.printer.Donef("Config created at %s. Review and customize it before applying.", path)
	return nil
}
