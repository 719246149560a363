// SPDX-FileCopyrightText: 2025 Nexus Quantum
//
// SPDX-License-Identifier: MIT

package docker

import (
	"errors"
)

var (
	// ErrNotInstalled is returned if the docker CLI is not present in
	// PATH.
	ErrNotInstalled = errors.New("docker CLI not found")

	// ErrDaemonNotRunning is returned if the CLI is present but the
	// daemon does not answer.
	ErrDaemonNotRunning = errors.New("docker daemon not running")
)

// UnavailableError reports that the container runtime cannot be used.
// It wraps one of the sentinel causes above.
type UnavailableError struct {
	Err error
}

// Error implements the [error] interface.
func (e *UnavailableError) Error() string {
	return "runtime unavailable: " + e.Err.Error()
}

// Is implements the [errors.Is] interface.
func (*UnavailableError) Is(other error) bool {
	_, ok := other.(*UnavailableError)
	return ok
}

// Unwrap implements the [errors.Unwrap] interface.
func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// Remediation returns operator guidance for the failure.
func (e *UnavailableError) Remediation() string {
	if errors.Is(e.Err, ErrDaemonNotRunning) {
		return `The docker daemon is not responding.
  - Start it: sudo systemctl start docker
  - Enable it on boot: sudo systemctl enable docker
  - Check its status: sudo systemctl status docker
  - Ensure your user is in the docker group: sudo usermod -aG docker $USER`
	}

	return `Docker is not installed or not in PATH.
  - Install docker: https://docs.docker.com/get-docker/
  - Ensure the 'docker' command is in your PATH: which docker`
}

// ImageMissingError reports an image that is absent where it is
// expected: its archive file after extraction, or the image itself
// after loading.
type ImageMissingError struct {
	Name      string
	AfterLoad bool
}

// Error implements the [error] interface.
func (e *ImageMissingError) Error() string {
	if e.AfterLoad {
		return "image not present after load: " + e.Name
	}

	return "image archive not found in payload: " + e.Name
}

// Is implements the [errors.Is] interface.
func (*ImageMissingError) Is(other error) bool {
	_, ok := other.(*ImageMissingError)
	return ok
}

// Remediation returns operator guidance for the failure.
func (e *ImageMissingError) Remediation() string {
	if e.AfterLoad {
		return `The image was loaded but does not show up in the local image store.
  - Inspect the local images: docker images
  - Check the daemon logs: sudo journalctl -u docker -n 50`
	}

	return `The extracted payload does not contain the expected archive.
  - The binary and its embedded payload may be from mismatched builds.
  - Re-download or re-transfer the binary, then run setup again.`
}

// LoadError reports a failed "docker load" invocation, including the
// diagnostic output the CLI printed.
type LoadError struct {
	Reference string
	Stderr    string
	Err       error
}

// Error implements the [error] interface.
func (e *LoadError) Error() string {
	msg := "load image " + e.Reference + ": " + e.Err.Error()
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}

	return msg
}

// Is implements the [errors.Is] interface.
func (*LoadError) Is(other error) bool {
	_, ok := other.(*LoadError)
	return ok
}

// Unwrap implements the [errors.Unwrap] interface.
func (e *LoadError) Unwrap() error {
	return e.Err
}

// Remediation returns operator guidance for the failure.
func (e *LoadError) Remediation() string {
	return `Loading the image into docker failed.
  - Check free disk space: df -h /var/lib/docker
  - Check the daemon logs: sudo journalctl -u docker -n 50
  - Verify the archive: gzip -t <archive> inside the scratch directory
  - Try a manual load: gunzip -c <archive> | docker load`
}
