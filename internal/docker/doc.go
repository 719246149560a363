// SPDX-FileCopyrightText: 2025 Nexus Quantum
//
// SPDX-License-Identifier: MIT

// Package docker drives the docker CLI to query and load the manifest
// images. All interaction goes through subprocess invocations; there
// is no API client and no client-side locking against concurrent
// daemon mutation.
//
// Loads are strictly sequential in manifest order. The daemon
// serializes image ingestion internally, so parallel loads buy nothing
// and blur error attribution.
package docker
