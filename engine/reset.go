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

package engine

import (
	"github.com/we-are-mono/cutler/config"
	"github.com/we-are-mono/cutler/domains"
	"github.com/we-are-mono/cutler/snapshot"
)

// Reset deletes every preference key named in the config from the
// system, regardless of snapshot history, and discards the snapshot.
// It is the escape hatch for when the snapshot no longer reflects
// reality; unlike unapply it restores nothing.
func (e *Engine) Reset(cfg *config.Config) (*Report, error) {
	if err := cfg.EnsureUnlocked(); err != nil {
		return nil, err
	}

	e.printer.Warnf("This will delete all preference keys named in your config from the system.")
	e.printer.Warnf("Settings will return to their system defaults, not their pre-apply values.")
	if !e.printer.Confirm("Are you sure you want to continue?") {
		e.printer.Plainf("Aborted.")
		return &Report{}, nil
	}

	flat := domains.Flatten(cfg.Set)
	report := &Report{}

	for _, d := range domains.SortedDomains(flat) {
		settings := flat[d]
		for _, k := range settings.SortedKeys() {
			effDom, effKey := domains.Effective(d, k)

			if _, ok := e.prefs.ReadValue(effDom, effKey); !ok {
				e.printer.Infof("Skipping %s | %s: not currently set", effDom, effKey)
				report.Skipped++
				continue
			}

			if err := e.prefs.Delete(effDom, effKey, "Resetting", e.dryRun); err != nil {
				e.printer.Errorf("%v", err)
				report.Failed++
				continue
			}
			report.Changed++
		}
	}

	if snapshot.Exists() {
		if e.dryRun {
			e.printer.Dryf("Would delete snapshot file.")
		} else if err := snapshot.Remove(); err != nil {
			return report, err
		}
	}

	if report.Changed > 0 {
		e.RestartServices()
	}

	e.printer.Donef("Reset complete. %d settings deleted.", report.Changed)
	return report, nil
}
