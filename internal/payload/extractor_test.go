// SPDX-FileCopyrightText: 2025 Nexus Quantum
//
// SPDX-License-Identifier: MIT

package payload_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexusquantum/airgap/internal/payload"
)

func regionFor(filler int, compressed []byte) payload.Region {
	return payload.Region{
		Start:  int64(filler + len(payload.Marker)),
		Length: int64(len(compressed)),
	}
}

func TestExtract(t *testing.T) {
	files := map[string][]byte{
		"postgres.tar.gz":        []byte("fake postgres image"),
		"nqrust-identity.tar.gz": bytes.Repeat([]byte("layer data "), 1024),
		"nested/notes.txt":       []byte("0123456789"),
	}

	compressed := gzipTar(t, files)
	file := hostFile(1024, compressed)
	region := regionFor(1024, compressed)

	var updates []int64

	dir, err := payload.Extract(
		bytes.NewReader(file),
		region,
		func(done, total int64) {
			assert.Equal(t, region.Length, total)
			updates = append(updates, done)
		},
	)
	require.NoError(t, err)

	t.Cleanup(func() { _ = os.RemoveAll(dir) })

	for name, content := range files {
		got, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(name)))
		require.NoError(t, err)
		assert.Equal(t, content, got, name)
	}

	// Progress is cumulative and never exceeds the region length.
	require.NotEmpty(t, updates)

	last := int64(0)
	for _, done := range updates {
		assert.GreaterOrEqual(t, done, last)
		assert.LessOrEqual(t, done, region.Length)
		last = done
	}

	assert.Positive(t, last)
}

func TestExtractCorruptPayload(t *testing.T) {
	compressed := gzipTar(t, map[string][]byte{
		"postgres.tar.gz": bytes.Repeat([]byte("layer data "), 4096),
	})

	// Corrupt the compressed stream well past the gzip header.
	corrupted := bytes.Clone(compressed)
	for i := len(corrupted) / 2; i < len(corrupted)/2+16; i++ {
		corrupted[i] ^= 0xff
	}

	file := hostFile(1024, corrupted)

	dir, err := payload.Extract(
		bytes.NewReader(file),
		regionFor(1024, corrupted),
		nil,
	)

	assert.ErrorIs(t, err, &payload.ExtractError{})

	// The partially populated scratch directory stays for inspection.
	if dir != "" {
		_, statErr := os.Stat(dir)
		assert.NoError(t, statErr)

		t.Cleanup(func() { _ = os.RemoveAll(dir) })
	}
}

func TestExtractTruncatedPayload(t *testing.T) {
	compressed := gzipTar(t, map[string][]byte{
		"postgres.tar.gz": bytes.Repeat([]byte("layer data "), 4096),
	})

	truncated := compressed[:len(compressed)/2]
	file := hostFile(512, truncated)

	dir, err := payload.Extract(
		bytes.NewReader(file),
		regionFor(512, truncated),
		nil,
	)

	assert.ErrorIs(t, err, &payload.ExtractError{})

	if dir != "" {
		t.Cleanup(func() { _ = os.RemoveAll(dir) })
	}
}

func TestExtractRejectsEscapingEntry(t *testing.T) {
	compressed := gzipTar(t, map[string][]byte{
		"../escape": []byte("outside"),
	})

	file := hostFile(256, compressed)

	dir, err := payload.Extract(
		bytes.NewReader(file),
		regionFor(256, compressed),
		nil,
	)

	assert.ErrorIs(t, err, &payload.ExtractError{})
	assert.ErrorContains(t, err, "escapes scratch directory")

	if dir != "" {
		t.Cleanup(func() { _ = os.RemoveAll(dir) })
	}
}
