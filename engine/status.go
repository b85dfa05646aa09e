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
	"github.com/we-are-mono/cutler/defaults"
	"github.com/we-are-mono/cutler/domains"
	"github.com/we-are-mono/cutler/snapshot"
)

// statusLine is one configured setting compared against the system.
type statusLine struct {
	key     string
	desired string
	current string
	present bool
}

func (l statusLine) diff() bool {
	return !l.present || l.current != l.desired
}

// Status compares every configured setting against the live system
// and prints the differences grouped by domain. It reports true when
// the system already matches the config. Matched settings only show
// in verbose mode.
func (e *Engine) Status(cfg *config.Config) bool {
	flat := domains.Flatten(cfg.Set)

	var order []string
	grouped := make(map[string][]statusLine)

	for _, d := range domains.SortedDomains(flat) {
		settings := flat[d]
		for _, k := range settings.SortedKeys() {
			value := settings[k]
			effDom, effKey := domains.Effective(d, k)

			current, present := e.prefs.ReadValue(effDom, effKey)
			if _, ok := grouped[effDom]; !ok {
				order = append(order, effDom)
			}
			grouped[effDom] = append(grouped[effDom], statusLine{
				key:     effKey,
				desired: defaults.Normalize(value),
				current: current,
				present: present,
			})
		}
	}

	diverged := 0
	for _, dom := range order {
		e.printer.Plainf("%s:", dom)
		for _, line := range grouped[dom] {
			if !line.diff() {
				e.printer.Infof("  [Matched] %s: %s", line.key, line.current)
				continue
			}
			diverged++
			current := line.current
			if !line.present {
				current = "Not set"
			}
			e.printer.Warnf("  %s: should be %s (now: %s)", line.key, line.desired, current)
		}
	}

	e.checkDigest(cfg)

	if diverged > 0 {
		e.printer.Warnf("Preferences diverged. Run `cutler apply` to apply the config onto the system.")
		return false
	}
	e.printer.Donef("System preferences are in sync.")
	return true
}

// checkDigest warns when the config file changed after the last
// apply, in which case the status comparison reflects the new config
// while the snapshot still records the old one.
func (e *Engine) checkDigest(cfg *config.Config) {
	snap, err := snapshot.Load()
	if err != nil || snap.Digest == "" {
		return
	}
	path := cfg.Path()
	if path == "" {
		return
	}
	digest, err := config.Digest(path)
	if err != nil {
		return
	}
	if digest != snap.Digest {
		e.printer.Warnf("Config has changed since the last apply; the snapshot may be stale.")
	}
}
