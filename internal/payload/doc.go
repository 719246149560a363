// SPDX-FileCopyrightText: 2025 Nexus Quantum
//
// SPDX-License-Identifier: MIT

// Package payload locates, verifies and unpacks the compressed image
// archive appended to the installer executable.
//
// The on-disk layout of an airgapped binary is:
//
//	[executable bytes] [Marker] [gzip(tar archive) ... EOF]
//
// There is no index or length prefix. The payload start is discovered
// by scanning for the marker followed by the gzip signature and
// confirming the find by trial-decoding the first archive entry, since
// the marker bytes can also occur incidentally inside the compiled
// code section.
//
// All operations stream with fixed-size buffers. The payload may be
// several gigabytes and is never materialized in memory.
package payload
