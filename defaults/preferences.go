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

package defaults

import (
	"fmt"
	"strings"
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/we-are-mono/cutler/domains"
	"github.com/we-are-mono/cutler/logging"
)

// Preferences provides read, write, and delete access to the user
// preference store with per-domain write serialization and dependency
// injection for testability.
type Preferences struct {
	runner  CommandRunner
	locks   *LockRegistry
	printer *logging.Printer
	logger  hclog.Logger

	// cacheMu guards the one-time population of domainCache.
	cacheMu     sync.Mutex
	domainCache map[string]struct{}
	cacheReady  bool
}

// NewPreferences creates a Preferences around the given runner.
func NewPreferences(runner CommandRunner, printer *logging.Printer, logger hclog.Logger) *Preferences {
	return &Preferences{
		runner:  runner,
		locks:   NewLockRegistry(),
		printer: printer,
		logger:  logger.Named("defaults"),
	}
}

// NewOSPreferences creates a Preferences backed by the real defaults
// tool.
func NewOSPreferences(printer *logging.Printer, logger hclog.Logger) *Preferences {
	return NewPreferences(NewOSRunner(), printer, logger)
}

// Locks exposes the per-domain lock registry.
func (p *Preferences) Locks() *LockRegistry {
	return p.locks
}

// ReadValue returns the current value of a key the way defaults read
// prints it. Any failure reads as absent, as does empty output: a
// missing key, a missing domain, and an unreadable store all mean the
// same thing to reconciliation.
func (p *Preferences) ReadValue(domain, key string) (string, bool) {
	out, err := p.runner.Output("defaults", "read", domain, key)
	if err != nil {
		return "", false
	}

	val := strings.TrimSpace(string(out))
	if val == "" {
		return "", false
	}
	return val, true
}

// ListDomains returns every domain the preference store reports. The
// defaults tool prints them comma-separated on a single line.
func (p *Preferences) ListDomains() ([]string, error) {
	out, err := p.runner.Output("defaults", "domains")
	if err != nil {
		return nil, fmt.Errorf("failed to list preference domains: %w", err)
	}

	var list []string
	for _, d := range strings.Split(string(out), ",") {
		if d = strings.TrimSpace(d); d != "" {
			list = append(list, d)
		}
	}
	return list, nil
}

// DomainExists reports whether the preference store knows a domain.
// The global domain always exists. The first call populates a cache
// from ListDomains; a domain missing from the cache falls back to a
// direct read, since some domains are readable without being listed.
func (p *Preferences) DomainExists(domain string) bool {
	if domains.IsGlobal(domain) {
		return true
	}

	p.populateCache()

	p.cacheMu.Lock()
	_, ok := p.domainCache[domain]
	p.cacheMu.Unlock()
	if ok {
		return true
	}

	_, err := p.runner.Output("defaults", "read", domain)
	return err == nil
}

// populateCache fills the domain cache exactly once per instance. A
// listing failure leaves the cache empty so every lookup takes the
// direct-read fallback instead.
func (p *Preferences) populateCache() {
	p.cacheMu.Lock()
	defer p.cacheMu.Unlock()

	if p.cacheReady {
		return
	}
	p.cacheReady = true

	list, err := p.runner.Output("defaults", "domains")
	if err != nil {
		p.logger.Warn("could not list preference domains", "error", err)
		return
	}

	p.domainCache = make(map[string]struct{})
	for _, d := range strings.Split(string(list), ",") {
		if d = strings.TrimSpace(d); d != "" {
			p.domainCache[d] = struct{}{}
		}
	}
	p.logger.Debug("domain cache populated", "count", len(p.domainCache))
}

// Write sets a key to a typed value under the domain's lock. In
// dry-run mode the lock is still taken and the intent printed, but the
// call returns before touching the store. A failed write is reported
// through the returned error so the caller can count it; callers are
// expected to keep going.
func (p *Preferences) Write(domain, key, flag, value, label string, dryRun bool) error {
	unlock := p.locks.Lock(domain)
	defer unlock()

	display := fmt.Sprintf("defaults write %s %q %s %q", domain, key, flag, value)
	if dryRun {
		p.printer.Dryf("Would execute: %s", display)
		return nil
	}

	p.printer.Infof("%s: %s", label, display)

	out, err := p.runner.Run("defaults", "write", domain, key, flag, value)
	if err != nil {
		p.logger.Error("write failed",
			"domain", domain, "key", key,
			"output", strings.TrimSpace(string(out)), "error", err)
		return fmt.Errorf("failed to write %q for %s: %w", key, domain, err)
	}

	p.logger.Debug("wrote setting", "domain", domain, "key", key, "flag", flag, "value", value)
	return nil
}

// Delete removes a key under the domain's lock, with the same dry-run
// and error-reporting discipline as Write.
func (p *Preferences) Delete(domain, key, label string, dryRun bool) error {
	unlock := p.locks.Lock(domain)
	defer unlock()

	display := fmt.Sprintf("defaults delete %s %q", domain, key)
	if dryRun {
		p.printer.Dryf("Would execute: %s", display)
		return nil
	}

	p.printer.Infof("%s: %s", label, display)

	out, err := p.runner.Run("defaults", "delete", domain, key)
	if err != nil {
		p.logger.Error("delete failed",
			"domain", domain, "key", key,
			"output", strings.TrimSpace(string(out)), "error", err)
		return fmt.Errorf("failed to delete %q for %s: %w", key, domain, err)
	}

	p.logger.Debug("deleted setting", "domain", domain, "key", key)
	return nil
}
