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

// Package snapshot persists the record of what cutler changed: every
// preference written and every external command run by the most recent
// apply. The snapshot is the only durable state cutler keeps, and it
// is what makes unapply possible.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// EnvSnapshotPath overrides the snapshot location when set.
const EnvSnapshotPath = "CUTLER_SNAPSHOT_PATH"

// snapshotFileName is the well-known name under the home directory.
const snapshotFileName = ".cutler_snapshot"

var (
	// ErrNoSnapshot is returned when no snapshot file exists.
	ErrNoSnapshot = errors.New("no snapshot found")

	// ErrCorrupt is returned when a snapshot file exists but cannot be
	// parsed.
	ErrCorrupt = errors.New("snapshot is corrupt")
)

// SettingState records one preference change: the effective address,
// the value that was there before cutler (nil when the key did not
// exist), and the canonical form of what cutler wrote.
type SettingState struct {
	Domain        string  `json:"domain"`
	Key           string  `json:"key"`
	OriginalValue *string `json:"original_value"`
	NewValue      string  `json:"new_value"`
}

// ExternalCommand records one external command that apply handed to
// the shell, with enough detail to show the user what ran. External
// commands cannot be reverted automatically.
type ExternalCommand struct {
	Name        string   `json:"name"`
	Run         string   `json:"run"`
	Sudo        bool     `json:"sudo"`
	EnsureFirst bool     `json:"ensure_first"`
	Flag        bool     `json:"flag"`
	Required    []string `json:"required"`
}

// Snapshot is the on-disk record. Settings keep first-applied-first
// order; unapply walks them in reverse so later-dependent settings are
// undone before earlier ones.
type Snapshot struct {
	Settings []SettingState    `json:"settings"`
	External []ExternalCommand `json:"external"`
	Version  string            `json:"version"`
	Digest   string            `json:"digest,omitempty"`

	path string
}

// Path resolves the snapshot location: the env override when set,
// otherwise $HOME/.cutler_snapshot.
func Path() (string, error) {
	if p := os.Getenv(EnvSnapshotPath); p != "" {
		return p, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot resolve snapshot path: %w", err)
	}
	return filepath.Join(home, snapshotFileName), nil
}

// Exists reports whether a snapshot file is present.
func Exists() bool {
	path, err := Path()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// New returns an empty snapshot bound to the resolved path, tagged
// with the given tool version.
func New(version string) (*Snapshot, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return &Snapshot{Version: version, path: path}, nil
}

// Load reads the snapshot from the resolved path. A missing file is
// ErrNoSnapshot; an unparseable file is ErrCorrupt with the position
// of the syntax problem when one is known.
func Load() (*Snapshot, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads a snapshot from an explicit path.
func LoadFrom(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w at %s", ErrNoSnapshot, path)
		}
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			line, col := lineCol(data, syntaxErr.Offset)
			return nil, fmt.Errorf("%w: syntax error at line %d, column %d: %v",
				ErrCorrupt, line, col, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	snap.path = path
	return &snap, nil
}

// lineCol converts a byte offset in JSON data to a line and column.
func lineCol(data []byte, offset int64) (line, col int) {
	line = 1
	col = 1
	for i := int64(0); i < offset && i < int64(len(data)); i++ {
		if data[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return
}

// Path returns where this snapshot was loaded from or will be saved.
func (s *Snapshot) Path() string {
	return s.path
}

// SetPath rebinds the snapshot to a different file location.
func (s *Snapshot) SetPath(path string) {
	s.path = path
}

// Save writes the snapshot atomically (temp file plus rename). The
// file is mode 0600: it describes the user's system state and belongs
// to them alone.
func (s *Snapshot) Save() error {
	if s.path == "" {
		path, err := Path()
		if err != nil {
			return err
		}
		s.path = path
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temp snapshot: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("failed to rename temp snapshot: %w", err)
	}

	return nil
}

// Delete removes the snapshot file.
func (s *Snapshot) Delete() error {
	if err := os.Remove(s.path); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}

// Remove deletes the snapshot file at the resolved path without
// loading it first, so even an unparseable snapshot can be cleared.
func Remove() error {
	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}

// Find returns the recorded entry for an effective address, if any.
func (s *Snapshot) Find(domain, key string) (*SettingState, bool) {
	for i := range s.Settings {
		if s.Settings[i].Domain == domain && s.Settings[i].Key == key {
			return &s.Settings[i], true
		}
	}
	return nil, false
}
