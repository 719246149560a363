// SPDX-FileCopyrightText: 2025 Nexus Quantum
//
// SPDX-License-Identifier: MIT

// Package pack produces self-extracting airgapped binaries: it appends
// the marker and the compressed archive of per-image tarballs after a
// payload-free installer executable. It is the producer side of the
// framing that [payload.Locate] consumes, and shares the marker and
// manifest constants with it so the format cannot drift.
package pack

import (
	"archive/tar"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"

	"github.com/nexusquantum/airgap/internal/manifest"
	"github.com/nexusquantum/airgap/internal/payload"
)

// Spec describes one packing run.
type Spec struct {
	// Executable is the payload-free installer binary.
	Executable string
	// ArchiveDir holds the per-image archives named by the manifest.
	ArchiveDir string
	// Output is the path for the combined self-extracting binary.
	Output string
	// Manifest lists the archives to embed, in load order.
	Manifest manifest.Manifest
}

// Write produces Output = executable bytes, marker, gzip(tar of the
// manifest archives).
func Write(spec Spec) error {
	err := spec.Manifest.Validate()
	if err != nil {
		return fmt.Errorf("manifest: %w", err)
	}

	// Fail before writing anything if an archive is missing.
	for _, entry := range spec.Manifest.Images {
		path := filepath.Join(spec.ArchiveDir, entry.Archive)

		_, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("image archive %s: %w", entry.Archive, err)
		}
	}

	out, err := os.OpenFile(
		spec.Output,
		os.O_CREATE|os.O_WRONLY|os.O_TRUNC,
		0o755,
	)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}

	err = writePayload(out, spec)
	if err != nil {
		_ = out.Close()
		_ = os.Remove(spec.Output)

		return err
	}

	err = out.Close()
	if err != nil {
		return fmt.Errorf("close output: %w", err)
	}

	return nil
}

func writePayload(out io.Writer, spec Spec) error {
	exe, err := os.Open(spec.Executable)
	if err != nil {
		return fmt.Errorf("open executable: %w", err)
	}
	defer exe.Close()

	_, err = io.Copy(out, exe)
	if err != nil {
		return fmt.Errorf("copy executable: %w", err)
	}

	_, err = out.Write(payload.Marker)
	if err != nil {
		return fmt.Errorf("write marker: %w", err)
	}

	// The gzip member header starts with the signature bytes the
	// locator expects right behind the marker.
	zip := gzip.NewWriter(out)
	archive := tar.NewWriter(zip)

	for _, entry := range spec.Manifest.Images {
		err := addFile(
			archive,
			filepath.Join(spec.ArchiveDir, entry.Archive),
			entry.Archive,
		)
		if err != nil {
			return err
		}
	}

	err = archive.Close()
	if err != nil {
		return fmt.Errorf("close archive: %w", err)
	}

	err = zip.Close()
	if err != nil {
		return fmt.Errorf("close compressor: %w", err)
	}

	return nil
}

func addFile(archive *tar.Writer, path, name string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", name, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", name, err)
	}

	err = archive.WriteHeader(&tar.Header{
		Name:    name,
		Mode:    0o644,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	})
	if err != nil {
		return fmt.Errorf("write header %s: %w", name, err)
	}

	_, err = io.Copy(archive, file)
	if err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}

	return nil
}
