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

// uiServices cache preference values and must be restarted before
// applied changes become visible.
var uiServices = []string{"SystemUIServer", "Dock", "Finder"}

// RestartServices restarts the system UI services so preference
// changes take effect without logging out. Failures are tolerated;
// killall exits nonzero when a service simply is not running.
func (e *Engine) RestartServices() {
	if e.noRestart {
		e.printer.Infof("Skipping service restart.")
		return
	}

	failed := 0
	for _, svc := range uiServices {
		if e.dryRun {
			e.printer.Dryf("Would restart %s", svc)
			continue
		}
		if _, err := e.system.Run("killall", svc); err != nil {
			e.logger.Debug("service restart failed", "service", svc, "error", err)
			failed++
			continue
		}
		e.printer.Execf("Restarted %s", svc)
	}
	if failed > 0 {
		e.printer.Warnf("Some services did not restart; changes may show up after you log in again.")
	}
}
