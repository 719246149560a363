// SPDX-FileCopyrightText: 2025 Nexus Quantum
//
// SPDX-License-Identifier: MIT

package payload

import (
	"io"

	"github.com/opencontainers/go-digest"
)

// digestBufSize keeps the verifier's memory footprint fixed regardless
// of payload size.
const digestBufSize = 8 * 1024

// Digest streams the payload region through the canonical digest
// algorithm (sha256) and returns the result.
//
// There is no expected value embedded in the binary, so the digest is
// informational: it lets operators compare against a checksum
// distributed through a separate channel. Read failures wrap in
// [DigestError] and are not fatal to setup.
func Digest(r io.ReaderAt, region Region) (digest.Digest, error) {
	src := io.NewSectionReader(r, region.Start, region.Length)
	digester := digest.Canonical.Digester()

	buf := make([]byte, digestBufSize)

	_, err := io.CopyBuffer(digester.Hash(), src, buf)
	if err != nil {
		return "", &DigestError{Err: err}
	}

	return digester.Digest(), nil
}
