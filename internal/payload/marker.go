// SPDX-FileCopyrightText: 2025 Nexus Quantum
//
// SPDX-License-Identifier: MIT

package payload

// Marker separates the executable's own bytes from the embedded
// payload. The packer writes it immediately before the compressed
// archive. Changing it breaks every already-shipped binary.
var Marker = []byte("__AIRGAP_PAYLOAD__")

// Signature is the gzip member header prefix (magic bytes plus the
// deflate method byte) that must immediately follow the marker.
var Signature = []byte{0x1f, 0x8b, 0x08}
