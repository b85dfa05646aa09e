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

package brew

import (
	"os"
	"os/exec"
)

// Runner abstracts the brew subprocess calls so tests can swap in a
// mock. Output captures stdout for listings; RunInteractive inherits
// the standard streams so install progress reaches the user.
type Runner interface {
	Output(name string, args ...string) ([]byte, error)
	RunInteractive(name string, args ...string) error
	LookPath(bin string) bool
}

// OSRunner runs real subprocesses.
type OSRunner struct{}

// NewOSRunner returns a Runner backed by os/exec.
func NewOSRunner() *OSRunner {
	return &OSRunner{}
}

// Output runs the command and returns its stdout.
func (r *OSRunner) Output(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).Output()
}

// RunInteractive runs the command with inherited standard streams.
func (r *OSRunner) RunInteractive(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// LookPath reports whether the binary is on the PATH.
func (r *OSRunner) LookPath(bin string) bool {
	_, err := exec.LookPath(bin)
	return err == nil
}
