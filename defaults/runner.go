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

// Package defaults talks to the macOS user-preference database through
// the defaults(1) tool: reading current values, writing typed values,
// deleting keys, and serializing concurrent writers per domain.
package defaults

import "os/exec"

// CommandRunner abstracts command execution for testability.
type CommandRunner interface {
	// Run executes a command and returns its combined output.
	Run(name string, args ...string) ([]byte, error)
	// Output executes a command and returns its standard output only.
	Output(name string, args ...string) ([]byte, error)
}

// OSRunner implements CommandRunner using real command execution.
type OSRunner struct{}

// NewOSRunner creates a new OSRunner.
func NewOSRunner() *OSRunner {
	return &OSRunner{}
}

func (r *OSRunner) Run(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).CombinedOutput()
}

func (r *OSRunner) Output(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).Output()
}
