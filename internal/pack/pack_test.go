// SPDX-FileCopyrightText: 2025 Nexus Quantum
//
// SPDX-License-Identifier: MIT

package pack_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexusquantum/airgap/internal/manifest"
	"github.com/nexusquantum/airgap/internal/pack"
	"github.com/nexusquantum/airgap/internal/payload"
)

func testManifest() manifest.Manifest {
	return manifest.Manifest{
		Images: []manifest.Entry{
			{Reference: "postgres:16-alpine", Archive: "postgres.tar.gz"},
			{Reference: "example.com/app:latest", Archive: "app.tar.gz"},
		},
	}
}

func gzipped(t *testing.T, content []byte) []byte {
	t.Helper()

	var buf bytes.Buffer

	zip := gzip.NewWriter(&buf)
	_, err := zip.Write(content)
	require.NoError(t, err)
	require.NoError(t, zip.Close())

	return buf.Bytes()
}

func TestWriteRoundTrip(t *testing.T) {
	dir := t.TempDir()

	exeBytes := append(
		[]byte("#!ELF stand-in"),
		bytes.Repeat([]byte{0x7f, 0x45, 0x4c, 0x46}, 512)...,
	)

	exePath := filepath.Join(dir, "installer")
	require.NoError(t, os.WriteFile(exePath, exeBytes, 0o755))

	archives := map[string][]byte{
		"postgres.tar.gz": gzipped(t, []byte("postgres image tar")),
		"app.tar.gz":      gzipped(t, bytes.Repeat([]byte("layer "), 4096)),
	}

	archiveDir := filepath.Join(dir, "archives")
	require.NoError(t, os.Mkdir(archiveDir, 0o755))

	for name, content := range archives {
		err := os.WriteFile(filepath.Join(archiveDir, name), content, 0o644)
		require.NoError(t, err)
	}

	outPath := filepath.Join(dir, "installer-airgapped")

	err := pack.Write(pack.Spec{
		Executable: exePath,
		ArchiveDir: archiveDir,
		Output:     outPath,
		Manifest:   testManifest(),
	})
	require.NoError(t, err)

	combined, err := os.ReadFile(outPath)
	require.NoError(t, err)

	// The executable bytes lead, unchanged.
	assert.Equal(t, exeBytes, combined[:len(exeBytes)])

	// The locator finds the payload right behind exe+marker and the
	// extractor restores the archives byte-identically.
	region, err := payload.Locate(
		bytes.NewReader(combined), int64(len(combined)),
	)
	require.NoError(t, err)
	assert.Equal(t,
		int64(len(exeBytes)+len(payload.Marker)), region.Start)

	scratch, err := payload.Extract(
		bytes.NewReader(combined), region, nil,
	)
	require.NoError(t, err)

	t.Cleanup(func() { _ = os.RemoveAll(scratch) })

	for name, content := range archives {
		got, err := os.ReadFile(filepath.Join(scratch, name))
		require.NoError(t, err)
		assert.Equal(t, content, got, name)
	}
}

func TestWriteMissingArchive(t *testing.T) {
	dir := t.TempDir()

	exePath := filepath.Join(dir, "installer")
	require.NoError(t, os.WriteFile(exePath, []byte("exe"), 0o755))

	archiveDir := filepath.Join(dir, "archives")
	require.NoError(t, os.Mkdir(archiveDir, 0o755))

	// Only the first manifest archive exists.
	err := os.WriteFile(
		filepath.Join(archiveDir, "postgres.tar.gz"),
		gzipped(t, []byte("tar")),
		0o644,
	)
	require.NoError(t, err)

	outPath := filepath.Join(dir, "out")

	err = pack.Write(pack.Spec{
		Executable: exePath,
		ArchiveDir: archiveDir,
		Output:     outPath,
		Manifest:   testManifest(),
	})

	require.Error(t, err)
	assert.ErrorContains(t, err, "app.tar.gz")

	// Nothing was written.
	_, statErr := os.Stat(outPath)
	assert.ErrorIs(t, statErr, os.ErrNotExist)
}

func TestWriteRejectsInvalidManifest(t *testing.T) {
	err := pack.Write(pack.Spec{
		Executable: "x",
		ArchiveDir: "y",
		Output:     "z",
		Manifest:   manifest.Manifest{},
	})

	require.Error(t, err)
	assert.ErrorContains(t, err, "no images defined")
}
