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

package logging

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Printer renders user-facing output as tagged lines. Errors and
// warnings always print and go to Err; informational lines go to Out
// and are gated by the verbose and quiet flags, so piping cutler into
// another tool only captures output that matters.
type Printer struct {
	out       io.Writer
	errOut    io.Writer
	in        *bufio.Reader
	verbose   bool
	quiet     bool
	acceptAll bool

	tagErr    string
	tagWarn   string
	tagInfo   string
	tagExec   string
	tagPrompt string
	tagDry    string
	tagDone   string
}

// PrinterOptions configures a Printer. Nil streams default to the
// process standard streams.
type PrinterOptions struct {
	Out       io.Writer
	Err       io.Writer
	In        io.Reader
	Verbose   bool
	Quiet     bool
	Color     bool
	AcceptAll bool
}

// NewPrinter returns a Printer for the given streams and flags.
func NewPrinter(opts PrinterOptions) *Printer {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}
	if opts.In == nil {
		opts.In = os.Stdin
	}

	tag := func(c *color.Color, label string) string {
		if opts.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c.Sprintf("%-4s", label)
	}

	return &Printer{
		out:    opts.Out,
		errOut: opts.Err,
		// One shared reader: a fresh bufio.Reader per prompt would
		// buffer past the first line and lose the answers to any
		// later prompts in the same invocation.
		in:        bufio.NewReader(opts.In),
		verbose:   opts.Verbose,
		quiet:     opts.Quiet,
		acceptAll: opts.AcceptAll,
		tagErr:    tag(color.New(color.FgRed), "ERR"),
		tagWarn:   tag(color.RGB(255, 135, 0), "WARN"),
		tagInfo:   tag(color.New(color.FgCyan), "INFO"),
		tagExec:   tag(color.New(color.FgRed), "EXEC"),
		tagPrompt: tag(color.New(color.FgMagenta), "PRMT"),
		tagDry:    tag(color.New(color.FgYellow), "DRY"),
		tagDone:   tag(color.New(color.FgGreen), "OK"),
	}
}

// TermColor reports whether stdout is a terminal that should receive
// colored output. NO_COLOR disables color regardless of the terminal.
func TermColor() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Errorf reports a failure. Errors are never suppressed.
func (p *Printer) Errorf(format string, args ...interface{}) {
	fmt.Fprintf(p.errOut, "%s %s\n", p.tagErr, fmt.Sprintf(format, args...))
}

// Warnf reports a recoverable problem. Warnings are never suppressed.
func (p *Printer) Warnf(format string, args ...interface{}) {
	fmt.Fprintf(p.errOut, "%s %s\n", p.tagWarn, fmt.Sprintf(format, args...))
}

// Infof reports progress detail. Shown only in verbose mode.
func (p *Printer) Infof(format string, args ...interface{}) {
	if p.quiet || !p.verbose {
		return
	}
	fmt.Fprintf(p.out, "%s %s\n", p.tagInfo, fmt.Sprintf(format, args...))
}

// Execf announces an external command about to run.
func (p *Printer) Execf(format string, args ...interface{}) {
	if p.quiet {
		return
	}
	fmt.Fprintf(p.out, "%s %s\n", p.tagExec, fmt.Sprintf(format, args...))
}

// Dryf reports an action skipped because dry-run is active.
func (p *Printer) Dryf(format string, args ...interface{}) {
	if p.quiet {
		return
	}
	fmt.Fprintf(p.out, "%s %s\n", p.tagDry, fmt.Sprintf(format, args...))
}

// Donef reports a completed step.
func (p *Printer) Donef(format string, args ...interface{}) {
	if p.quiet {
		return
	}
	fmt.Fprintf(p.out, "%s %s\n", p.tagDone, fmt.Sprintf(format, args...))
}

// Plainf writes an untagged line to the output stream unless quiet.
func (p *Printer) Plainf(format string, args ...interface{}) {
	if p.quiet {
		return
	}
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Quiet reports whether quiet mode is active, for callers that pass
// quiet flags through to subprocesses.
func (p *Printer) Quiet() bool {
	return p.quiet
}

// Confirm asks a yes/no question and returns the answer. The
// --accept-all flag answers every prompt without asking. The prompt is
// printed even in quiet mode, since a hidden prompt would hang waiting
// for input.
func (p *Printer) Confirm(prompt string) bool {
	if p.acceptAll {
		return true
	}

	fmt.Fprintf(p.out, "%s %s [y/N] ", p.tagPrompt, prompt)

	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
