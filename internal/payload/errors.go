// SPDX-FileCopyrightText: 2025 Nexus Quantum
//
// SPDX-License-Identifier: MIT

package payload

import "errors"

// ErrNoPayload is returned if no semantically valid payload start is
// found behind any marker occurrence before EOF.
var ErrNoPayload = errors.New("no embedded payload found in executable")

// DigestError wraps read failures during payload digest computation.
// The digest is diagnostic only, so callers log this and proceed.
type DigestError struct {
	Err error
}

// Error implements the [error] interface.
func (e *DigestError) Error() string {
	return "digest payload: " + e.Err.Error()
}

// Is implements the [errors.Is] interface.
func (*DigestError) Is(other error) bool {
	_, ok := other.(*DigestError)
	return ok
}

// Unwrap implements the [errors.Unwrap] interface.
func (e *DigestError) Unwrap() error {
	return e.Err
}

// ExtractError wraps any decompression or unpack failure.
type ExtractError struct {
	Err error
}

// Error implements the [error] interface.
func (e *ExtractError) Error() string {
	return "extract payload: " + e.Err.Error()
}

// Is implements the [errors.Is] interface.
func (*ExtractError) Is(other error) bool {
	_, ok := other.(*ExtractError)
	return ok
}

// Unwrap implements the [errors.Unwrap] interface.
func (e *ExtractError) Unwrap() error {
	return e.Err
}

// Remediation returns operator guidance for the failure.
func (e *ExtractError) Remediation() string {
	return `The embedded payload could not be unpacked.
  - The binary may have been corrupted during transfer. Verify its
    checksum against the one distributed alongside it.
  - Check free disk space for the temporary directory: df -h /tmp
  - Re-download or re-transfer the binary, then run setup again.`
}
