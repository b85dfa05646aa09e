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

// Package logging provides the diagnostic logger and the user-facing
// printer for cutler. Diagnostics go through hclog to stderr; user
// output goes through Printer so every command reports in the same
// tagged format and honors --verbose and --quiet consistently.
package logging

import (
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
)

// New returns the structured logger shared by cutler's subsystems.
// Verbose lowers the level to debug, quiet raises it to error. A nil
// writer defaults to stderr so diagnostics never mix with command
// output.
func New(out io.Writer, verbose, quiet bool) hclog.Logger {
	if out == nil {
		out = os.Stderr
	}

	level := hclog.Warn
	if verbose {
		level = hclog.Debug
	}
	if quiet {
		level = hclog.Error
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:   "cutler",
		Output: out,
		Level:  level,
		Color:  hclog.AutoColor,
	})
}
