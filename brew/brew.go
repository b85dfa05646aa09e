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

// Package brew reconciles the [brew] table of the configuration with
// the Homebrew state of the machine: listing installed taps, formulae,
// and casks, diffing them against the config, installing what is
// missing, and backing up what is installed.
package brew

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"

	"github.com/we-are-mono/cutler/config"
	"github.com/we-are-mono/cutler/logging"
)

// installScript is Homebrew's official installer invocation.
const installScript = "curl -fsSL https://raw.githubusercontent.com/Homebrew/install/HEAD/install.sh | /bin/bash"

// fetchPoolSize bounds the number of concurrent brew fetch processes.
const fetchPoolSize = 4

// ListKind selects which inventory a List call returns.
type ListKind int

const (
	// KindFormula lists installed formulae.
	KindFormula ListKind = iota
	// KindCask lists installed casks.
	KindCask
	// KindTap lists active taps.
	KindTap
	// KindDependency lists formulae installed only as dependencies.
	KindDependency
)

// String returns the human name of the list kind.
func (k ListKind) String() string {
	switch k {
	case KindFormula:
		return "formulae"
	case KindCask:
		return "casks"
	case KindTap:
		return "taps"
	case KindDependency:
		return "dependencies"
	default:
		return "unknown"
	}
}

// args returns the brew argument vector that produces the listing.
func (k ListKind) args() []string {
	switch k {
	case KindCask:
		return []string{"list", "--casks"}
	case KindTap:
		return []string{"tap"}
	case KindDependency:
		return []string{"list", "--installed-as-dependency"}
	default:
		return []string{"list", "--formulae"}
	}
}

// Diff is the difference between the configured Homebrew state and the
// installed one. Missing entries are configured but not installed;
// extra entries are installed but not configured.
type Diff struct {
	MissingFormulae []string
	ExtraFormulae   []string
	MissingCasks    []string
	ExtraCasks      []string
	MissingTaps     []string
	ExtraTaps       []string
}

// InSync reports whether nothing is missing and nothing is extra.
func (d *Diff) InSync() bool {
	return len(d.MissingFormulae) == 0 && len(d.ExtraFormulae) == 0 &&
		len(d.MissingCasks) == 0 && len(d.ExtraCasks) == 0 &&
		len(d.MissingTaps) == 0 && len(d.ExtraTaps) == 0
}

// Manager runs Homebrew operations through an injectable runner.
type Manager struct {
	runner  Runner
	printer *logging.Printer
	logger  hclog.Logger
	dryRun  bool
}

// NewManager returns a Manager using the given runner.
func NewManager(runner Runner, printer *logging.Printer, logger hclog.Logger, dryRun bool) *Manager {
	return &Manager{
		runner:  runner,
		printer: printer,
		logger:  logger.Named("brew"),
		dryRun:  dryRun,
	}
}

// NewOSManager returns a Manager that shells out to the real brew.
func NewOSManager(printer *logging.Printer, logger hclog.Logger, dryRun bool) *Manager {
	return NewManager(NewOSRunner(), printer, logger, dryRun)
}

// Installed reports whether the brew binary is on the PATH.
func (m *Manager) Installed() bool {
	return m.runner.LookPath("brew")
}

// Ensure verifies that Homebrew is installed, offering to run the
// official installer when it is not.
func (m *Manager) Ensure() error {
	if m.Installed() {
		return nil
	}

	if m.dryRun {
		m.printer.Dryf("Would install Homebrew (brew not found in $PATH)")
		return nil
	}

	m.printer.Warnf("Homebrew is not installed.")
	if !m.printer.Confirm("Install Homebrew now?") {
		return errors.New("Homebrew is required for brew operations, but was not found")
	}

	m.printer.Infof("Installing Homebrew...")
	if err := m.runner.RunInteractive("/bin/bash", "-c", installScript); err != nil {
		return fmt.Errorf("failed to install Homebrew: %w", err)
	}

	if !m.Installed() {
		return errors.New("Homebrew installed but brew is still not in $PATH; update your PATH and re-run")
	}
	return nil
}

// List returns one of the Homebrew inventories, one item per line of
// brew output, trimmed, empty lines dropped.
func (m *Manager) List(kind ListKind) ([]string, error) {
	args := kind.args()
	m.logger.Debug("listing", "kind", kind.String())

	out, err := m.runner.Output("brew", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", kind, err)
	}

	var items []string
	for _, line := range strings.Split(string(out), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			items = append(items, line)
		}
	}
	return items, nil
}

// Compare diffs the configured Homebrew state against the installed
// one. The three inventories are fetched concurrently. With no_deps
// set, formulae installed only as dependencies are ignored.
func (m *Manager) Compare(cfg *config.Brew) (*Diff, error) {
	var formulae, casks, taps []string

	var g errgroup.Group
	g.Go(func() (err error) { formulae, err = m.List(KindFormula); return err })
	g.Go(func() (err error) { casks, err = m.List(KindCask); return err })
	g.Go(func() (err error) { taps, err = m.List(KindTap); return err })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if cfg.NoDeps {
		deps, err := m.List(KindDependency)
		if err != nil {
			return nil, err
		}
		formulae = subtract(formulae, deps)
	}

	return &Diff{
		MissingFormulae: subtract(cfg.Formulae, formulae),
		ExtraFormulae:   subtract(formulae, cfg.Formulae),
		MissingCasks:    subtract(cfg.Casks, casks),
		ExtraCasks:      subtract(casks, cfg.Casks),
		MissingTaps:     subtract(cfg.Taps, taps),
		ExtraTaps:       subtract(taps, cfg.Taps),
	}, nil
}

// Install brings the machine up to the configured Homebrew state: taps
// missing taps, pre-downloads missing formulae and casks through a
// bounded pool, then installs the successfully fetched ones one at a
// time. Extra installed items only produce warnings.
func (m *Manager) Install(cfg *config.Brew) error {
	diff, err := m.Compare(cfg)
	if err != nil {
		// Reconciliation is best-effort: an unreadable state means
		// nothing to install, not a dead run.
		m.printer.Errorf("Could not check Homebrew state: %v", err)
		return nil
	}

	m.warnExtras(diff)

	for _, tap := range diff.MissingTaps {
		if m.dryRun {
			m.printer.Dryf("Would tap %s", tap)
			continue
		}
		m.printer.Infof("Tapping: %s", tap)
		if err := m.runner.RunInteractive("brew", "tap", tap); err != nil {
			m.printer.Errorf("Failed to tap %s: %v", tap, err)
		}
	}

	if len(diff.MissingFormulae) == 0 && len(diff.MissingCasks) == 0 {
		m.printer.Infof("No formulae or casks to download/install.")
		return nil
	}

	if m.dryRun {
		for _, name := range diff.MissingFormulae {
			m.printer.Dryf("Would fetch formula: %s", name)
		}
		for _, name := range diff.MissingCasks {
			m.printer.Dryf("Would fetch cask: %s", name)
		}
		return nil
	}

	m.printer.Infof("Pre-downloading all formulae and casks...")
	formulae, casks := m.fetchAll(diff.MissingFormulae, diff.MissingCasks)

	m.installAll(formulae, false)
	m.installAll(casks, true)
	return nil
}

// warnExtras reports installed items absent from the config.
func (m *Manager) warnExtras(diff *Diff) {
	if len(diff.ExtraFormulae) > 0 {
		m.printer.Warnf("Extra installed formulae not in config: %v", diff.ExtraFormulae)
	}
	if len(diff.ExtraCasks) > 0 {
		m.printer.Warnf("Extra installed casks not in config: %v", diff.ExtraCasks)
	}
	if len(diff.ExtraTaps) > 0 {
		m.printer.Warnf("Extra taps not in config: %v", diff.ExtraTaps)
	}
	if len(diff.ExtraFormulae) > 0 || len(diff.ExtraCasks) > 0 {
		m.printer.Warnf("Run `cutler brew backup` to synchronize your config with the system.")
	}
}

// fetchAll downloads formulae and casks through a bounded concurrent
// pool and returns the names that fetched successfully, in config
// order. Failures are warned about and excluded from installation.
func (m *Manager) fetchAll(formulae, casks []string) ([]string, []string) {
	var mu sync.Mutex
	var failedFormulae, failedCasks []string

	fetchArgs := func(name string, cask bool) []string {
		args := []string{"fetch"}
		if cask {
			args = append(args, "--cask")
		}
		if m.printer.Quiet() {
			args = append(args, "--quiet")
		}
		return append(args, name)
	}

	var g errgroup.Group
	g.SetLimit(fetchPoolSize)

	for _, name := range formulae {
		g.Go(func() error {
			m.printer.Infof("Fetching formula: %s", name)
			if err := m.runner.RunInteractive("brew", fetchArgs(name, false)...); err != nil {
				mu.Lock()
				failedFormulae = append(failedFormulae, name)
				mu.Unlock()
			}
			return nil
		})
	}
	for _, name := range casks {
		g.Go(func() error {
			m.printer.Infof("Fetching cask: %s", name)
			if err := m.runner.RunInteractive("brew", fetchArgs(name, true)...); err != nil {
				mu.Lock()
				failedCasks = append(failedCasks, name)
				mu.Unlock()
			}
			return nil
		})
	}

	// Failures land in the failed lists, so Wait never sees an error.
	_ = g.Wait()

	if len(failedFormulae) > 0 {
		m.printer.Warnf("Failed to fetch formulae: %v", failedFormulae)
	}
	if len(failedCasks) > 0 {
		m.printer.Warnf("Failed to fetch casks: %v", failedCasks)
	}
	if len(failedFormulae) > 0 || len(failedCasks) > 0 {
		m.printer.Warnf("Some software failed to download and won't be installed.")
	}

	return subtract(formulae, failedFormulae), subtract(casks, failedCasks)
}

// installAll installs the given items sequentially. Installs are
// interactive and noisy, so they never overlap.
func (m *Manager) installAll(names []string, cask bool) {
	kind := "--formula"
	if cask {
		kind = "--cask"
	}
	for _, name := range names {
		m.printer.Infof("Installing: %s", name)
		if err := m.runner.RunInteractive("brew", "install", kind, name); err != nil {
			m.printer.Errorf("Failed to install %s: %v", name, err)
		}
	}
}

// Backup records the installed taps, formulae, and casks into the
// config's [brew] table. With noDeps, formulae and casks installed only
// as dependencies are left out and no_deps is remembered in the config
// for later runs. The caller saves the config.
func (m *Manager) Backup(cfg *config.Config, noDeps bool) error {
	brewCfg := cfg.Brew
	if brewCfg == nil {
		brewCfg = &config.Brew{}
	}

	backupNoDeps := noDeps
	switch {
	case noDeps:
		if !brewCfg.NoDeps {
			m.printer.Infof("Recording no_deps = true in config for later runs.")
			brewCfg.NoDeps = true
		}
	case brewCfg.NoDeps:
		if m.printer.Confirm("The previous backup excluded dependencies. Exclude them again?") {
			backupNoDeps = true
		} else {
			brewCfg.NoDeps = false
		}
	}

	var deps []string
	if backupNoDeps {
		var err error
		if deps, err = m.List(KindDependency); err != nil {
			return err
		}
	}

	formulae, err := m.List(KindFormula)
	if err != nil {
		return err
	}
	casks, err := m.List(KindCask)
	if err != nil {
		return err
	}
	taps, err := m.List(KindTap)
	if err != nil {
		return err
	}

	if backupNoDeps {
		formulae = subtract(formulae, deps)
		casks = subtract(casks, deps)
	}

	for _, name := range formulae {
		m.recordf("formula", name)
	}
	for _, name := range casks {
		m.recordf("cask", name)
	}
	for _, name := range taps {
		m.recordf("tap", name)
	}

	if m.dryRun {
		m.printer.Dryf("Would record %d formulae, %d casks, and %d taps.",
			len(formulae), len(casks), len(taps))
		return nil
	}

	m.printer.Infof("Recorded %d formulae, %d casks, and %d taps.",
		len(formulae), len(casks), len(taps))

	brewCfg.Formulae = formulae
	brewCfg.Casks = casks
	brewCfg.Taps = taps
	cfg.Brew = brewCfg
	return nil
}

// recordf prints one backed-up item with the right mode prefix.
func (m *Manager) recordf(kind, name string) {
	if m.dryRun {
		m.printer.Dryf("Would record %s: %s", kind, name)
		return
	}
	m.printer.Infof("Recording %s: %s", kind, name)
}

// subtract returns the members of a that are not in b, in a's order.
func subtract(a, b []string) []string {
	drop := make(map[string]struct{}, len(b))
	for _, s := range b {
		drop[s] = struct{}{}
	}

	kept := make([]string, 0, len(a))
	for _, s := range a {
		if _, ok := drop[s]; !ok {
			kept = append(kept, s)
		}
	}
	return kept
}
