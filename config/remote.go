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
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	remoteUserAgent = "cutler-remote-config"
	remoteTimeout   = 30 * time.Second

	// maxRemoteSize caps the remote config body. A config file larger
	// than this is not a config file.
	maxRemoteSize = 1 << 20
)

// Fetcher downloads a remote config and validates it as TOML before it
// ever touches disk. Fetch runs at most once per instance; the body is
// cached for later Parsed and SaveTo calls.
type Fetcher struct {
	url    string
	client *http.Client
	body   []byte
}

// NewFetcher returns a Fetcher for the given URL.
func NewFetcher(url string) *Fetcher {
	return &Fetcher{
		url:    url,
		client: &http.Client{Timeout: remoteTimeout},
	}
}

// Fetch downloads the remote config unless a previous call already
// succeeded. The body is rejected if it does not parse as a config.
func (f *Fetcher) Fetch(ctx context.Context) error {
	if f.body != nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", f.url, err)
	}
	req.Header.Set("User-Agent", remoteUserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch remote config from %s: %w", f.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to fetch remote config from %s: HTTP %s", f.url, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRemoteSize))
	if err != nil {
		return fmt.Errorf("failed to read remote config body: %w", err)
	}

	if _, err := Parse(body); err != nil {
		return fmt.Errorf("invalid TOML config fetched from %s: %w", f.url, err)
	}

	f.body = body
	return nil
}

// Raw returns the fetched config bytes.
func (f *Fetcher) Raw() ([]byte, error) {
	if f.body == nil {
		return nil, errors.New("remote config not fetched yet")
	}
	return f.body, nil
}

// Parsed returns the fetched config decoded into a Config.
func (f *Fetcher) Parsed() (*Config, error) {
	body, err := f.Raw()
	if err != nil {
		return nil, err
	}
	return Parse(body)
}

// SaveTo writes the fetched config verbatim to path, preserving the
// remote file's formatting and comments.
func (f *Fetcher) SaveTo(path string) error {
	body, err := f.Raw()
	if err != nil {
		return err
	}
	return WriteFileAtomic(path, body, 0644)
}
