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
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/we-are-mono/cutler/config"
	"github.com/we-are-mono/cutler/defaults"
	"github.com/we-are-mono/cutler/snapshot"
)

// revertJob undoes one snapshot entry: restore the recorded original
// value, or delete the key if the original is unknown.
type revertJob struct {
	domain   string
	key      string
	original *string
}

// Unapply walks the snapshot backwards and restores every recorded
// setting to its pre-apply value. Entries without an original value
// are deleted outright. On success the snapshot file is removed, so a
// later apply starts from a clean history.
func (e *Engine) Unapply(cfg *config.Config) (*Report, error) {
	if err := cfg.EnsureUnlocked(); err != nil {
		return nil, err
	}

	snap, err := snapshot.Load()
	if err != nil {
		return nil, fmt.Errorf("%w; run \"cutler apply\" first, or \"cutler reset\" to clear configured settings", err)
	}
	if len(snap.Settings) == 0 && len(snap.External) == 0 {
		e.printer.Donef("Nothing to unapply.")
		return &Report{}, nil
	}

	report := &Report{}

	// Reverting in reverse apply order keeps multi-step histories
	// consistent; grouping per domain preserves that order even with
	// domains reverting concurrently.
	var mu sync.Mutex
	var g errgroup.Group
	for _, group := range invert(snap) {
		g.Go(func() error {
			for _, job := range group {
				if err := e.revert(job); err != nil {
					e.printer.Errorf("%v", err)
					mu.Lock()
					report.Failed++
					mu.Unlock()
					continue
				}
				mu.Lock()
				report.Changed++
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	if len(snap.External) > 0 {
		e.printer.Warnf("External commands were executed by apply; revert them manually if needed.")
	}

	if e.dryRun {
		e.printer.Dryf("Would delete snapshot file.")
	} else {
		if err := snapshot.Remove(); err != nil {
			return report, err
		}
		e.printer.Infof("Deleted snapshot file.")
	}

	if report.Failed > 0 {
		e.printer.Warnf("%d of %d settings failed to revert.", report.Failed, len(snap.Settings))
	}
	e.printer.Donef("Unapply operation complete. %d settings reverted.", report.Changed)
	return report, nil
}

// invert turns the snapshot into per-domain batches of revert jobs,
// each batch in reverse apply order. Batches are keyed in the order
// their domains first appear so the result is deterministic.
func invert(snap *snapshot.Snapshot) [][]revertJob {
	index := make(map[string]int)
	var groups [][]revertJob

	for i := len(snap.Settings) - 1; i >= 0; i-- {
		entry := snap.Settings[i]
		at, ok := index[entry.Domain]
		if !ok {
			at = len(groups)
			index[entry.Domain] = at
			groups = append(groups, nil)
		}

		var original *string
		if entry.OriginalValue != nil {
			v := *entry.OriginalValue
			original = &v
		}
		groups[at] = append(groups[at], revertJob{
			domain:   entry.Domain,
			key:      entry.Key,
			original: original,
		})
	}
	return groups
}

// revert undoes a single setting. The original value's type flag is
// inferred from its textual form, since the snapshot stores values the
// way `defaults read` printed them.
func (e *Engine) revert(job revertJob) error {
	if job.original == nil {
		if err := e.prefs.Delete(job.domain, job.key, "Removing", e.dryRun); err != nil {
			return fmt.Errorf("cannot invert changes: %w", err)
		}
		return nil
	}

	flag, arg := defaults.FromFlag(*job.original)
	if err := e.prefs.Write(job.domain, job.key, flag, arg, "Restoring", e.dryRun); err != nil {
		return fmt.Errorf("cannot invert changes: %w", err)
	}
	return nil
}
