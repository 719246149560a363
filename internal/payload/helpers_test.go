// SPDX-FileCopyrightText: 2025 Nexus Quantum
//
// SPDX-License-Identifier: MIT

package payload_test

import (
	"archive/tar"
	"bytes"
	"os"
	"sort"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/require"

	"github.com/nexusquantum/airgap/internal/payload"
)

// gzipTar builds a gzip compressed tar archive with the given files,
// in sorted name order.
func gzipTar(t *testing.T, files map[string][]byte) []byte {
	t.Helper()

	var buf bytes.Buffer

	zip := gzip.NewWriter(&buf)
	archive := tar.NewWriter(zip)

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		content := files[name]

		err := archive.WriteHeader(&tar.Header{
			Name: name,
			Mode: 0o644,
			Size: int64(len(content)),
		})
		require.NoError(t, err)

		_, err = archive.Write(content)
		require.NoError(t, err)
	}

	require.NoError(t, archive.Close())
	require.NoError(t, zip.Close())

	return buf.Bytes()
}

func writeTestFile(t *testing.T, path string, content []byte) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, content, 0o755))
}

// hostFile builds a synthetic airgapped binary: filler bytes standing
// in for compiled code, the marker, then the compressed payload.
func hostFile(filler int, compressed []byte) []byte {
	buf := make([]byte, 0, filler+len(payload.Marker)+len(compressed))

	for i := 0; i < filler; i++ {
		buf = append(buf, byte(i%251))
	}

	buf = append(buf, payload.Marker...)
	buf = append(buf, compressed...)

	return buf
}
