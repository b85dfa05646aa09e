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

// Package mas tracks Mac App Store applications through the mas CLI:
// listing installed apps, backing their identifiers into the config,
// and reporting configured apps that are not installed.
package mas

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/we-are-mono/cutler/config"
	"github.com/we-are-mono/cutler/logging"
)

// App is one installed Mac App Store application. Name drops the
// trailing version token mas appends to each listing line.
type App struct {
	ID   string
	Name string
}

// Manager runs mas operations through an injectable runner.
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
		logger:  logger.Named("mas"),
		dryRun:  dryRun,
	}
}

// NewOSManager returns a Manager that shells out to the real mas.
func NewOSManager(printer *logging.Printer, logger hclog.Logger, dryRun bool) *Manager {
	return NewManager(NewOSRunner(), printer, logger, dryRun)
}

// Installed probes for a working mas binary.
func (m *Manager) Installed() bool {
	_, err := m.runner.Output("mas", "version")
	return err == nil
}

// ListApps returns the installed Mac App Store applications. Each mas
// list line is "<id> <name words...> (<version>)"; the version token is
// dropped from the name. Unparseable lines are skipped.
func (m *Manager) ListApps() ([]App, error) {
	if !m.Installed() {
		return nil, errors.New("mas was not found in $PATH, so cannot check for installed apps")
	}

	out, err := m.runner.Output("mas", "list")
	if err != nil {
		return nil, fmt.Errorf("failed to list App Store apps: %w", err)
	}

	var apps []App
	for _, line := range strings.Split(string(out), "\n") {
		id, rest, ok := strings.Cut(strings.TrimSpace(line), " ")
		if !ok || id == "" {
			continue
		}

		var name string
		if fields := strings.Fields(rest); len(fields) > 1 {
			name = strings.Join(fields[:len(fields)-1], " ")
		}
		apps = append(apps, App{ID: id, Name: name})
	}

	m.logger.Debug("listed apps", "count", len(apps))
	return apps, nil
}

// Backup records the installed app identifiers into the config's [mas]
// table. The caller saves the config.
func (m *Manager) Backup(cfg *config.Config) error {
	apps, err := m.ListApps()
	if err != nil {
		return err
	}

	ids := make([]string, 0, len(apps))
	for _, app := range apps {
		if m.dryRun {
			m.printer.Dryf("Would record app: %s (%s)", app.ID, app.Name)
		} else {
			m.printer.Infof("Recording app: %s (%s)", app.ID, app.Name)
		}
		ids = append(ids, app.ID)
	}

	if len(ids) == 0 {
		m.printer.Warnf("Nothing to back up!")
	}

	if m.dryRun {
		return nil
	}

	cfg.Mas = &config.Mas{IDs: ids}
	return nil
}

// Missing returns the configured app identifiers that are not
// installed, in config order.
func (m *Manager) Missing(cfg *config.Mas) ([]string, error) {
	apps, err := m.ListApps()
	if err != nil {
		return nil, err
	}

	installed := make(map[string]struct{}, len(apps))
	for _, app := range apps {
		installed[app.ID] = struct{}{}
	}

	var missing []string
	for _, id := range cfg.IDs {
		if _, ok := installed[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}
