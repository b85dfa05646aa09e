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

package domains

import "strings"

// GlobalDomain is the preference domain shared by every application.
const GlobalDomain = "NSGlobalDomain"

const globalPrefix = GlobalDomain + "."

// Effective resolves a flattened config domain and key to the real
// (domain, key) pair written to the preference database:
//
//	NSGlobalDomain + key     -> NSGlobalDomain, key
//	NSGlobalDomain.rest + key -> NSGlobalDomain, rest.key
//	anything else + key       -> com.apple.<domain>, key
//
// Keys under a dotted NSGlobalDomain path fold the remainder of the
// path into the key itself, since the global domain has no sub-domains.
// A trailing dot with nothing after it resolves like the bare global
// domain, so the key never grows a leading dot.
func Effective(domain, key string) (string, string) {
	if domain == GlobalDomain {
		return GlobalDomain, key
	}
	if rest, ok := strings.CutPrefix(domain, globalPrefix); ok {
		if rest == "" {
			return GlobalDomain, key
		}
		return GlobalDomain, rest + "." + key
	}
	return "com.apple." + domain, key
}

// IsGlobal reports whether the resolved domain is the global one.
// The global domain always exists, so existence checks skip it.
func IsGlobal(domain string) bool {
	return domain == GlobalDomain
}
