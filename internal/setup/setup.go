// SPDX-FileCopyrightText: 2025 Nexus Quantum
//
// SPDX-License-Identifier: MIT

// Package setup sequences the airgapped bootstrap end to end: locate
// the embedded payload, digest it for diagnostics, extract it to a
// scratch directory, load the images into the container runtime and
// clean up. The sequence is linear with a single early exit: if every
// image is already loaded, the payload is never touched, which makes
// re-running the installer idempotent.
package setup

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/nexusquantum/airgap/internal/docker"
	"github.com/nexusquantum/airgap/internal/payload"
)

// Loader is the container runtime surface the orchestrator needs.
// Implemented by [docker.Client].
type Loader interface {
	Available(ctx context.Context) error
	AllPresent(ctx context.Context) bool
	LoadAll(ctx context.Context, dir string, progress docker.LoadProgress) error
	VerifyAll(ctx context.Context) error
}

// Setup runs the airgapped bootstrap for one executable.
type Setup struct {
	// ExePath is the host executable carrying the payload.
	ExePath string
	// Loader ingests images into the container runtime.
	Loader Loader
	// Out receives human-readable progress text for the surrounding
	// UI. May be nil.
	Out io.Writer
	// Verify re-checks all images after loading.
	Verify bool
	// KeepScratch preserves the scratch directory on success.
	KeepScratch bool
}

// New returns a Setup for the running executable.
func New(loader Loader) (*Setup, error) {
	path, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("resolve executable: %w", err)
	}

	// Optional: fails for some remote filesystems. The unresolved
	// path works there as well.
	resolved, err := filepath.EvalSymlinks(path)
	if err == nil {
		path = resolved
	}

	return &Setup{ExePath: path, Loader: loader}, nil
}

// HasPayload reports whether the executable carries an embedded
// payload.
func (s *Setup) HasPayload() (bool, error) {
	return payload.HasPayload(s.ExePath)
}

// ImagesLoaded reports whether the runtime already holds every
// manifest image.
func (s *Setup) ImagesLoaded(ctx context.Context) bool {
	return s.Loader.AllPresent(ctx)
}

// Run executes the full sequence. Any stage failure aborts the
// sequence, skips cleanup (the scratch directory stays for
// inspection) and is returned to the caller unchanged. On success the
// scratch directory is removed best-effort.
func (s *Setup) Run(ctx context.Context) error {
	if s.Loader.AllPresent(ctx) {
		s.printf("All images already loaded, nothing to do.")
		return nil
	}

	exe, err := os.Open(s.ExePath)
	if err != nil {
		return fmt.Errorf("open executable: %w", err)
	}
	defer exe.Close()

	info, err := exe.Stat()
	if err != nil {
		return fmt.Errorf("stat executable: %w", err)
	}

	s.printf("Locating embedded payload...")

	region, err := payload.Locate(exe, info.Size())
	if err != nil {
		return err
	}

	slog.Debug("Payload located",
		slog.Int64("offset", region.Start),
		slog.Int64("length", region.Length))

	s.printf("Payload size: %s", formatBytes(region.Length))

	// Display-only: no expected value is embedded, so the digest is
	// for comparison against an externally distributed checksum.
	dgst, err := payload.Digest(exe, region)
	if err != nil {
		slog.Warn("Payload digest unavailable", slog.Any("error", err))
	} else {
		s.printf("Payload digest: %s", dgst)
	}

	s.printf("Extracting payload...")

	dir, err := payload.Extract(exe, region, s.extractProgress())
	if err != nil {
		s.keepForInspection(dir)
		return err
	}

	err = s.Loader.Available(ctx)
	if err != nil {
		s.keepForInspection(dir)
		return err
	}

	s.printf("Loading images...")

	err = s.Loader.LoadAll(ctx, dir,
		func(index, total int, reference string) {
			s.printf("[%d/%d] %s", index, total, reference)
		})
	if err != nil {
		s.keepForInspection(dir)
		return err
	}

	if s.Verify {
		err = s.Loader.VerifyAll(ctx)
		if err != nil {
			s.keepForInspection(dir)
			return err
		}
	}

	if s.KeepScratch {
		s.printf("Keeping scratch directory: %s", dir)
	} else {
		err = os.RemoveAll(dir)
		if err != nil {
			// Leftover scratch data is an inconvenience, not a
			// failure.
			slog.Warn("Failed to remove scratch directory",
				slog.String("dir", dir),
				slog.Any("error", err))
		}
	}

	s.printf("Airgapped setup complete.")

	return nil
}

func (s *Setup) keepForInspection(dir string) {
	if dir == "" {
		return
	}

	slog.Warn("Leaving scratch directory for inspection",
		slog.String("dir", dir))
}

// extractProgress returns a sink printing coarse percentage steps. It
// is invoked after every read, so it must stay cheap and quiet.
func (s *Setup) extractProgress() payload.Progress {
	last := int64(-1)

	return func(done, total int64) {
		if total == 0 {
			return
		}

		step := done * 100 / total / 10 * 10
		if step > last {
			last = step
			s.printf("  ... %d%%", step)
		}
	}
}

func (s *Setup) printf(format string, args ...any) {
	if s.Out == nil {
		return
	}

	fmt.Fprintf(s.Out, format+"\n", args...)
}

func formatBytes(n int64) string {
	const (
		kib = 1 << 10
		mib = 1 << 20
		gib = 1 << 30
	)

	switch {
	case n >= gib:
		return fmt.Sprintf("%.2f GiB", float64(n)/gib)
	case n >= mib:
		return fmt.Sprintf("%.2f MiB", float64(n)/mib)
	case n >= kib:
		return fmt.Sprintf("%.2f KiB", float64(n)/kib)
	default:
		return fmt.Sprintf("%d B", n)
	}
}
