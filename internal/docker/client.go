// SPDX-FileCopyrightText: 2025 Nexus Quantum
//
// SPDX-License-Identifier: MIT

package docker

import (
	"context"
	"fmt"
	"strings"

	"github.com/nexusquantum/airgap/internal/manifest"
)

// Client drives the docker CLI for the images of one manifest.
type Client struct {
	manifest manifest.Manifest
	runner   runner
}

// New returns a client using the docker binary found in PATH.
func New(m manifest.Manifest) *Client {
	return &Client{
		manifest: m,
		runner:   &execRunner{bin: "docker"},
	}
}

// Available checks that the docker CLI is installed and its daemon
// answers. The two failure modes wrap distinct sentinels so callers
// can tell them apart.
func (c *Client) Available(ctx context.Context) error {
	_, _, err := c.runner.run(ctx, nil, "--version")
	if err != nil {
		return &UnavailableError{
			Err: fmt.Errorf("%w: %v", ErrNotInstalled, err),
		}
	}

	_, stderr, err := c.runner.run(ctx, nil, "info")
	if err != nil {
		return &UnavailableError{
			Err: fmt.Errorf("%w: %s", ErrDaemonNotRunning, diagnostic(stderr, err)),
		}
	}

	return nil
}

// ImageExists queries the local image store for the reference. Pure
// query, no mutation.
func (c *Client) ImageExists(ctx context.Context, reference string) (bool, error) {
	stdout, _, err := c.runner.run(ctx, nil, "images", "-q", reference)
	if err != nil {
		return false, fmt.Errorf("query image %s: %w", reference, err)
	}

	return strings.TrimSpace(stdout) != "", nil
}

// AllPresent reports whether the runtime is usable and every manifest
// image already exists locally. Errors fold into false: an unusable
// runtime means setup work is still required.
func (c *Client) AllPresent(ctx context.Context) bool {
	err := c.Available(ctx)
	if err != nil {
		return false
	}

	for _, entry := range c.manifest.Images {
		exists, err := c.ImageExists(ctx, entry.Reference)
		if err != nil || !exists {
			return false
		}
	}

	return true
}

// VerifyAll re-checks that every manifest image is present. Meant as a
// sanity check after [Client.LoadAll].
func (c *Client) VerifyAll(ctx context.Context) error {
	for _, entry := range c.manifest.Images {
		exists, err := c.ImageExists(ctx, entry.Reference)
		if err != nil {
			return err
		}

		if !exists {
			return &ImageMissingError{Name: entry.Reference, AfterLoad: true}
		}
	}

	return nil
}

// diagnostic prefers captured stderr over the bare exec error.
func diagnostic(stderr string, err error) string {
	stderr = strings.TrimSpace(stderr)
	if stderr != "" {
		return firstLine(stderr)
	}

	return err.Error()
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
