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

// Package config loads, saves, and validates the cutler configuration
// file. The file is TOML: a [set] tree of preference domains, optional
// [command.*] tables for external commands, and optional [brew], [mas],
// and [remote] tables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// ErrLocked is returned when a mutating command runs against a config
// that has lock = true set.
var ErrLocked = errors.New("config is locked; run \"cutler config unlock\" first")

// Config is the parsed configuration file.
type Config struct {
	// Lock refuses apply, unapply, and reset while set.
	Lock bool `toml:"lock,omitempty"`

	// Set holds the preference tree: domain tables with arbitrarily
	// nested sub-tables whose leaves are the values to write.
	Set map[string]map[string]interface{} `toml:"set,omitempty"`

	// Vars are substituted into $VAR references in command text before
	// the environment is consulted.
	Vars map[string]string `toml:"vars,omitempty"`

	// Command holds [command.NAME] tables for external commands.
	Command map[string]Command `toml:"command,omitempty"`

	Brew   *Brew   `toml:"brew,omitempty"`
	Mas    *Mas    `toml:"mas,omitempty"`
	Remote *Remote `toml:"remote,omitempty"`

	// path is where the config was loaded from or will be saved to.
	path string
}

// Command is one external command table.
type Command struct {
	Run         string   `toml:"run"`
	EnsureFirst bool     `toml:"ensure_first,omitempty"`
	Required    []string `toml:"required,omitempty"`
	Flag        bool     `toml:"flag,omitempty"`
	Sudo        bool     `toml:"sudo,omitempty"`
}

// Brew is the [brew] table describing the desired Homebrew state.
type Brew struct {
	Formulae []string `toml:"formulae,omitempty"`
	Casks    []string `toml:"casks,omitempty"`
	Taps     []string `toml:"taps,omitempty"`
	NoDeps   bool     `toml:"no_deps,omitempty"`
}

// Mas is the [mas] table listing Mac App Store app identifiers.
type Mas struct {
	IDs []string `toml:"ids,omitempty"`
}

// Remote is the [remote] table pointing at a remotely hosted config.
type Remote struct {
	URL      string `toml:"url"`
	Autosync bool   `toml:"autosync,omitempty"`
}

// New returns an empty config bound to the resolved config path.
func New() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return &Config{path: path}, nil
}

// IsLoadable reports whether a config file exists at the resolved path.
func IsLoadable() bool {
	path, err := Path()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// Load reads and parses the config file at the resolved path.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads and parses the config file at an explicit path.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config at %s: %w", path, err)
	}

	cfg.path = path
	return cfg, nil
}

// Parse decodes TOML bytes into a Config. Decode errors carry the row
// and column of the offending input.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, fmt.Errorf("line %d, column %d: %w", row, col, err)
		}
		return nil, err
	}
	return &cfg, nil
}

// Path returns the location this config was loaded from, or will be
// saved to.
func (c *Config) Path() string {
	return c.path
}

// SetPath rebinds the config to a different file location.
func (c *Config) SetPath(path string) {
	c.path = path
}

// EnsureUnlocked returns ErrLocked when the config has lock = true.
func (c *Config) EnsureUnlocked() error {
	if c.Lock {
		return ErrLocked
	}
	return nil
}

// Save writes the config back to its path atomically (temp file plus
// rename), creating parent directories as needed.
func (c *Config) Save() error {
	if c.path == "" {
		path, err := Path()
		if err != nil {
			return err
		}
		c.path = path
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return WriteFileAtomic(c.path, data, 0644)
}

// WriteFileAtomic writes data to path via a temp file and rename so a
// crash mid-write never leaves a truncated file behind.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, perm); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}
