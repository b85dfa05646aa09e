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

// Package external runs the [command.*] entries of a config through
// the shell: variable substitution, required-binary probing, and a
// sequential-then-concurrent execution order that honors ensure_first.
package external

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/we-are-mono/cutler/config"
)

// Job is one external command ready to run, with variables already
// substituted.
type Job struct {
	Name        string
	Run         string
	Sudo        bool
	EnsureFirst bool
	Flag        bool
	Required    []string
}

// Mode selects which commands a batch run includes. Flagged commands
// are the ones marked flag = true in the config; they only run when
// asked for explicitly.
type Mode int

const (
	// ModeRegular runs every command not marked as flagged.
	ModeRegular Mode = iota
	// ModeAll runs everything.
	ModeAll
	// ModeFlagged runs only flagged commands.
	ModeFlagged
)

// varPattern matches $NAME and ${NAME} references.
var varPattern = regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)|\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Substitute resolves variable references in command text. The [vars]
// table wins over the environment; a reference neither can resolve is
// left in place, normalized to ${NAME} form, so the failure is visible
// in the executed command rather than silently dropped.
func Substitute(text string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(text, func(m string) string {
		name := strings.TrimPrefix(m, "$")
		name = strings.TrimPrefix(name, "{")
		name = strings.TrimSuffix(name, "}")

		if v, ok := vars[name]; ok {
			return v
		}
		if v, ok := os.LookupEnv(name); ok {
			return v
		}
		return "${" + name + "}"
	})
}

// Extract builds the Job for one named [command.*] entry.
func Extract(cfg *config.Config, name string) (Job, error) {
	if len(cfg.Command) == 0 {
		return Job{}, fmt.Errorf("no commands defined in config")
	}

	cmd, ok := cfg.Command[name]
	if !ok {
		return Job{}, fmt.Errorf("no such command %q", name)
	}

	return Job{
		Name:        name,
		Run:         Substitute(cmd.Run, cfg.Vars),
		Sudo:        cmd.Sudo,
		EnsureFirst: cmd.EnsureFirst,
		Flag:        cmd.Flag,
		Required:    cmd.Required,
	}, nil
}

// ExtractAll builds Jobs for every [command.*] entry, sorted by name
// so batch runs are deterministic.
func ExtractAll(cfg *config.Config) []Job {
	names := make([]string, 0, len(cfg.Command))
	for name := range cfg.Command {
		names = append(names, name)
	}
	sort.Strings(names)

	jobs := make([]Job, 0, len(names))
	for _, name := range names {
		job, err := Extract(cfg, name)
		if err != nil {
			continue
		}
		jobs = append(jobs, job)
	}
	return jobs
}

// Included reports whether a job participates in a batch of the given
// mode.
func (j Job) Included(mode Mode) bool {
	switch mode {
	case ModeRegular:
		return !j.Flag
	case ModeFlagged:
		return j.Flag
	default:
		return true
	}
}
