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

package external

import (
	"fmt"
	"os"
	"os/exec"
	"sync"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"

	"github.com/we-are-mono/cutler/logging"
)

// ShellRunner abstracts shell execution for testability.
type ShellRunner interface {
	// RunInteractive executes a command with the user's standard
	// streams attached, so prompts (sudo, confirmation) reach the
	// terminal.
	RunInteractive(name string, args ...string) error
	// LookPath reports whether a binary resolves in $PATH.
	LookPath(bin string) bool
}

// OSShell implements ShellRunner with real process execution.
type OSShell struct{}

// NewOSShell creates a new OSShell.
func NewOSShell() *OSShell {
	return &OSShell{}
}

func (s *OSShell) RunInteractive(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func (s *OSShell) LookPath(bin string) bool {
	_, err := exec.LookPath(bin)
	return err == nil
}

// Runner executes external command jobs.
type Runner struct {
	shell   ShellRunner
	printer *logging.Printer
	logger  hclog.Logger
	dryRun  bool
}

// NewRunner creates a Runner around the given shell.
func NewRunner(shell ShellRunner, printer *logging.Printer, logger hclog.Logger, dryRun bool) *Runner {
	return &Runner{
		shell:   shell,
		printer: printer,
		logger:  logger.Named("external"),
		dryRun:  dryRun,
	}
}

// NewOSRunner creates a Runner backed by the real shell.
func NewOSRunner(printer *logging.Printer, logger hclog.Logger, dryRun bool) *Runner {
	return NewRunner(NewOSShell(), printer, logger, dryRun)
}

// RunAll executes a batch. Jobs marked ensure_first run sequentially,
// in order, before everything else; the rest run concurrently. A
// failed command is warned about and counted, never fatal to the
// batch. Returns the jobs that were attempted (in dispatch order) and
// the failure count.
func (r *Runner) RunAll(jobs []Job, mode Mode) ([]Job, int) {
	var first, rest []Job
	for _, job := range jobs {
		if !job.Included(mode) {
			continue
		}
		if len(r.missingBins(job)) > 0 {
			continue
		}
		if job.EnsureFirst {
			first = append(first, job)
		} else {
			rest = append(rest, job)
		}
	}

	var (
		mu       sync.Mutex
		failures int
	)
	fail := func(job Job, err error) {
		r.printer.Errorf("%v", err)
		mu.Lock()
		failures++
		mu.Unlock()
	}

	for _, job := range first {
		if err := r.execute(job); err != nil {
			fail(job, err)
		}
	}

	var g errgroup.Group
	for _, job := range rest {
		g.Go(func() error {
			if err := r.execute(job); err != nil {
				fail(job, err)
			}
			return nil
		})
	}
	g.Wait()

	ran := append(first, rest...)

	if failures > 0 {
		r.printer.Warnf("%d external commands failed", failures)
	} else if len(ran) == 0 && mode == ModeRegular {
		r.printer.Warnf("No regular external commands found. Maybe you meant flagged or all?")
	}

	return ran, failures
}

// RunOne executes a single named job. Unlike a batch run, missing
// required binaries are an error here, since the user asked for this
// command specifically.
func (r *Runner) RunOne(job Job) error {
	if missing := r.missingBins(job); len(missing) > 0 {
		return fmt.Errorf("cannot execute %q: missing binaries %v", job.Name, missing)
	}
	return r.execute(job)
}

// execute runs one job through the shell, or prints intent in dry-run.
func (r *Runner) execute(job Job) error {
	bin := "sh"
	args := []string{"-c", job.Run}
	if job.Sudo {
		bin = "sudo"
		args = []string{"sh", "-c", job.Run}
	}

	if r.dryRun {
		r.printer.Dryf("Would execute: %s %s", bin, job.Run)
		return nil
	}

	r.printer.Execf("%s", job.Name)
	r.logger.Debug("running external command", "name", job.Name, "sudo", job.Sudo)

	if err := r.shell.RunInteractive(bin, args...); err != nil {
		return fmt.Errorf("command %q failed: %w", job.Name, err)
	}
	return nil
}

// missingBins warns about and returns any required binaries that do
// not resolve in $PATH.
func (r *Runner) missingBins(job Job) []string {
	var missing []string
	for _, bin := range job.Required {
		if !r.shell.LookPath(bin) {
			r.printer.Warnf("%s not found in $PATH.", bin)
			missing = append(missing, bin)
		}
	}
	return missing
}
