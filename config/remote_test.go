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

package config

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFetcherFetch verifies download, validation, caching, and save.
func TestFetcherFetch(t *testing.T) {
	const body = "[set.dock]\ntilesize = 32\n"

	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		assert.Equal(t, "cutler-remote-config", r.Header.Get("User-Agent"))
		w.Write([]byte(body))
	}))
	defer srv.Close()

	f := NewFetcher(srv.URL)
	require.NoError(t, f.Fetch(context.Background()))

	// A second fetch reuses the cached body.
	require.NoError(t, f.Fetch(context.Background()))
	assert.Equal(t, 1, hits)

	cfg, err := f.Parsed()
	require.NoError(t, err)
	assert.Equal(t, int64(32), cfg.Set["dock"]["tilesize"])

	dest := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, f.SaveTo(dest))

	saved, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, body, string(saved))
}

// TestFetcherRejectsBadStatus verifies non-200 responses fail.
func TestFetcherRejectsBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	err := NewFetcher(srv.URL).Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP")
}

// TestFetcherRejectsInvalidTOML verifies the body is validated before
// it can be saved anywhere.
func TestFetcherRejectsInvalidTOML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("this is { not toml"))
	}))
	defer srv.Close()

	f := NewFetcher(srv.URL)
	err := f.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid TOML")

	_, err = f.Raw()
	assert.Error(t, err, "a failed fetch must not cache a body")
}
