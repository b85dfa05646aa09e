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
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/we-are-mono/cutler/config"
	"github.com/we-are-mono/cutler/defaults"
	"github.com/we-are-mono/cutler/domains"
	"github.com/we-are-mono/cutler/external"
	"github.com/we-are-mono/cutler/snapshot"
)

// ApplyOptions tunes one apply run.
type ApplyOptions struct {
	// NoCheck skips verifying that target domains exist before
	// writing. Writing to a nonexistent domain creates it, which is
	// rarely what a typo deserves.
	NoCheck bool

	// NoExec skips the external commands section entirely.
	NoExec bool

	// ExecMode selects which external commands run.
	ExecMode external.Mode
}

// applyJob is one planned preference change.
type applyJob struct {
	domain   string
	key      string
	flag     string
	value    string
	action   string
	original *string
	newValue string
}

// Apply reconciles the system with the config: plans a job for every
// setting whose current value differs from the desired one, executes
// the jobs concurrently with per-domain serialization, and records the
// outcome in the snapshot. Individual write failures are counted, not
// fatal; partial success is expected against heterogeneous state.
func (e *Engine) Apply(cfg *config.Config, opts ApplyOptions) (*Report, error) {
	if err := cfg.EnsureUnlocked(); err != nil {
		return nil, err
	}

	flat := domains.Flatten(cfg.Set)

	var digest string
	if path := cfg.Path(); path != "" {
		d, err := config.Digest(path)
		if err != nil {
			e.printer.Warnf("Could not hash config file: %v", err)
		} else {
			digest = d
		}
	}

	prev, untrusted := e.previousSnapshot()

	if !opts.NoCheck {
		if err := e.checkDomains(flat); err != nil {
			return nil, err
		}
	}

	jobs, skipped, err := e.planJobs(flat, prev, untrusted)
	if err != nil {
		return nil, err
	}
	report := &Report{Skipped: skipped}

	// Fan the writes out; the per-domain locks inside Write keep
	// same-domain jobs from interleaving.
	var mu sync.Mutex
	var g errgroup.Group
	for _, job := range jobs {
		g.Go(func() error {
			if err := e.prefs.Write(job.domain, job.key, job.flag, job.value, job.action, e.dryRun); err != nil {
				e.printer.Errorf("%v", err)
				mu.Lock()
				report.Failed++
				mu.Unlock()
			}
			return nil
		})
	}
	// Failures land in the report, so Wait never sees an error.
	_ = g.Wait()
	report.Changed = len(jobs) - report.Failed

	next := e.nextSnapshot(prev, jobs)
	next.Digest = digest

	if e.dryRun {
		e.printer.Dryf("Would save snapshot with system preferences.")
	} else {
		if err := next.Save(); err != nil {
			return report, fmt.Errorf("failed to save snapshot: %w", err)
		}
		e.printer.Infof("Logged system preferences change in snapshot.")
	}

	if len(jobs) > 0 {
		e.RestartServices()
	}

	if !opts.NoExec {
		e.runExternals(cfg, opts.ExecMode, next, report)
	}

	if len(jobs) == 0 {
		e.printer.Donef("Nothing to apply. System preferences already match the config.")
		return report, nil
	}
	if report.Failed > 0 {
		e.printer.Warnf("%d of %d settings failed to apply.", report.Failed, len(jobs))
	}
	e.printer.Donef("Apply operation complete. %d settings changed.", report.Changed)
	return report, nil
}

// previousSnapshot loads the last snapshot. A missing file means a
// first run; an unparseable one is warned about and replaced with an
// empty history whose originals cannot be trusted, since the system
// may already hold values a lost apply wrote.
func (e *Engine) previousSnapshot() (*snapshot.Snapshot, bool) {
	prev, err := snapshot.Load()
	if err == nil {
		return prev, false
	}
	if errors.Is(err, snapshot.ErrNoSnapshot) {
		return &snapshot.Snapshot{Version: e.version}, false
	}

	e.printer.Warnf("Bad snapshot: %v; starting fresh. Unapply will now reset settings to system defaults instead of their previous values.", err)
	return &snapshot.Snapshot{Version: e.version}, true
}

// checkDomains verifies that every prefixed target domain exists, once
// per domain. The global domain always exists. A missing domain fails
// the whole run: it indicates a config error, not drift.
func (e *Engine) checkDomains(flat map[string]domains.Settings) error {
	checked := make(map[string]bool)
	for _, d := range domains.SortedDomains(flat) {
		effDom, _ := domains.Effective(d, "")
		if domains.IsGlobal(effDom) || checked[effDom] {
			continue
		}
		checked[effDom] = true

		if !e.prefs.DomainExists(effDom) {
			return fmt.Errorf("domain %q does not exist", effDom)
		}
	}
	return nil
}

// planJobs diffs every flattened setting against the live system.
// Settings already in their desired form are skipped. A changed
// setting carries forward the original value an earlier apply
// recorded, so repeated applies never lose the true pre-cutler value;
// a brand-new setting captures the current system value instead.
func (e *Engine) planJobs(flat map[string]domains.Settings, prev *snapshot.Snapshot, untrusted bool) ([]applyJob, int, error) {
	var jobs []applyJob
	skipped := 0

	for _, d := range domains.SortedDomains(flat) {
		settings := flat[d]
		for _, k := range settings.SortedKeys() {
			value := settings[k]
			effDom, effKey := domains.Effective(d, k)

			desired := defaults.Normalize(value)
			current, _ := e.prefs.ReadValue(effDom, effKey)
			if current == desired {
				e.printer.Infof("Skipping unchanged %s | %s", effDom, effKey)
				skipped++
				continue
			}

			flag, arg, err := defaults.ToFlag(value)
			if err != nil {
				return nil, 0, fmt.Errorf("setting %s | %s: %w", effDom, effKey, err)
			}

			action := "Applying"
			var original *string
			if entry, ok := prev.Find(effDom, effKey); ok {
				action = "Updating"
				if entry.OriginalValue != nil {
					v := *entry.OriginalValue
					original = &v
				}
			} else if current != "" {
				v := current
				original = &v
			}
			if untrusted {
				original = nil
			}

			jobs = append(jobs, applyJob{
				domain:   effDom,
				key:      effKey,
				flag:     flag,
				value:    arg,
				action:   action,
				original: original,
				newValue: desired,
			})
		}
	}
	return jobs, skipped, nil
}

// nextSnapshot carries over entries untouched this run in their
// recorded order and appends the fresh entries after them, preserving
// first-applied-first order across runs.
func (e *Engine) nextSnapshot(prev *snapshot.Snapshot, jobs []applyJob) *snapshot.Snapshot {
	touched := make(map[address]bool, len(jobs))
	for _, job := range jobs {
		touched[address{job.domain, job.key}] = true
	}

	next := &snapshot.Snapshot{Version: e.version}
	for _, entry := range prev.Settings {
		if !touched[address{entry.Domain, entry.Key}] {
			next.Settings = append(next.Settings, entry)
		}
	}
	for _, job := range jobs {
		next.Settings = append(next.Settings, snapshot.SettingState{
			Domain:        job.domain,
			Key:           job.key,
			OriginalValue: job.original,
			NewValue:      job.newValue,
		})
	}
	return next
}

// runExternals hands the [command.*] section to the shell runner and
// records what ran in the snapshot, since commands cannot be reverted
// and unapply should at least warn about them.
func (e *Engine) runExternals(cfg *config.Config, mode external.Mode, snap *snapshot.Snapshot, report *Report) {
	if len(cfg.Command) == 0 {
		return
	}

	ran, failures := e.ext.RunAll(external.ExtractAll(cfg), mode)
	report.ExternalRan = len(ran)
	report.ExternalFailed = failures
	if len(ran) == 0 {
		return
	}

	snap.External = make([]snapshot.ExternalCommand, 0, len(ran))
	for _, job := range ran {
		snap.External = append(snap.External, snapshot.ExternalCommand{
			Name:        job.Name,
			Run:         job.Run,
			Sudo:        job.Sudo,
			EnsureFirst: job.EnsureFirst,
			Flag:        job.Flag,
			Required:    job.Required,
		})
	}

	if e.dryRun {
		e.printer.Dryf("Would save snapshot with external command execution.")
		return
	}
	if err := snap.Save(); err != nil {
		e.printer.Errorf("Failed to record external commands in snapshot: %v", err)
		return
	}
	e.printer.Infof("Logged command execution in snapshot.")
}
