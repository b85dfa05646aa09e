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

// Package domains turns the nested [set] tree of a config into the
// flat (domain, key, value) triples that map onto the macOS defaults
// database, and resolves config-level domain names to the real
// preference domains the system knows.
package domains

import "sort"

// Settings is one flattened domain table: preference key to desired
// value.
type Settings map[string]interface{}

// Flatten walks every domain table under [set] and partitions it
// recursively: scalar values stay at their node, keyed by the
// dot-joined path from the domain root; nested tables descend with
// their key appended to the path. A table with no scalars of its own
// emits nothing.
func Flatten(set map[string]map[string]interface{}) map[string]Settings {
	out := make(map[string]Settings)
	for domain, table := range set {
		flattenInto(domain, table, out)
	}
	return out
}

func flattenInto(prefix string, table map[string]interface{}, dest map[string]Settings) {
	var flat Settings

	for k, v := range table {
		if inner, ok := v.(map[string]interface{}); ok {
			next := k
			if prefix != "" {
				next = prefix + "." + k
			}
			flattenInto(next, inner, dest)
			continue
		}
		if flat == nil {
			flat = make(Settings)
		}
		flat[k] = v
	}

	if len(flat) == 0 {
		return
	}

	// Two config spellings can name the same flattened domain; merge
	// instead of replacing so neither table's keys are lost.
	if existing, ok := dest[prefix]; ok {
		for k, v := range flat {
			existing[k] = v
		}
		return
	}
	dest[prefix] = flat
}

// SortedKeys returns the settings keys in lexical order, for stable
// iteration where output ordering matters.
func (s Settings) SortedKeys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SortedDomains returns the flattened domain names in lexical order.
func SortedDomains(flat map[string]Settings) []string {
	domains := make([]string, 0, len(flat))
	for d := range flat {
		domains = append(domains, d)
	}
	sort.Strings(domains)
	return domains
}
