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

package config

import (
	"errors"
	"os"
	"path/filepath"
)

// EnvConfigPath overrides the config location when set. Used by tests
// and by users who keep their config outside the standard locations.
const EnvConfigPath = "CUTLER_CONFIG"

// Path resolves the config file location. Candidates are checked in
// order and the first existing file wins; when none exist the first
// candidate is returned so a fresh config lands in the preferred spot.
//
// Order: $HOME/.config/cutler/config.toml, $HOME/.config/cutler.toml,
// $XDG_CONFIG_HOME/cutler/config.toml, $XDG_CONFIG_HOME/cutler.toml.
func Path() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p, nil
	}

	var candidates []string

	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates,
			filepath.Join(home, ".config", "cutler", "config.toml"),
			filepath.Join(home, ".config", "cutler.toml"),
		)
	}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		candidates = append(candidates,
			filepath.Join(xdg, "cutler", "config.toml"),
			filepath.Join(xdg, "cutler.toml"),
		)
	}

	if len(candidates) == 0 {
		return "", errors.New("cannot resolve config path: HOME and XDG_CONFIG_HOME are unset")
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	return candidates[0], nil
}
