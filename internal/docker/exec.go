// SPDX-FileCopyrightText: 2025 Nexus Quantum
//
// SPDX-License-Identifier: MIT

package docker

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"

	"golang.org/x/sync/errgroup"
)

// runner executes docker CLI invocations. It exists so tests can
// substitute a double for the external binary.
type runner interface {
	// run executes the binary with the given arguments. If stdin is
	// non-nil it is streamed into the process. Captured stdout and
	// stderr are returned even when the invocation fails.
	run(
		ctx context.Context,
		stdin io.Reader,
		args ...string,
	) (stdout, stderr string, err error)
}

// runnerFunc adapts a function to the [runner] interface.
type runnerFunc func(
	ctx context.Context,
	stdin io.Reader,
	args ...string,
) (string, string, error)

func (f runnerFunc) run(
	ctx context.Context,
	stdin io.Reader,
	args ...string,
) (string, string, error) {
	return f(ctx, stdin, args...)
}

// execRunner runs the real binary.
type execRunner struct {
	bin string
}

// run starts the process and pumps all three pipes concurrently. The
// process only consumes stdin while its output pipes are drained, so
// writer and readers must run at the same time or the OS pipe buffer
// fills and deadlocks both sides. All pumps are joined before the exit
// status is inspected.
func (r *execRunner) run(
	ctx context.Context,
	stdin io.Reader,
	args ...string,
) (string, string, error) {
	cmd := exec.CommandContext(ctx, r.bin, args...)

	var stdout, stderr bytes.Buffer

	if stdin == nil {
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr

		err := cmd.Run()

		return stdout.String(), stderr.String(), err
	}

	inPipe, err := cmd.StdinPipe()
	if err != nil {
		return "", "", fmt.Errorf("stdin pipe: %w", err)
	}

	outPipe, err := cmd.StdoutPipe()
	if err != nil {
		return "", "", fmt.Errorf("stdout pipe: %w", err)
	}

	errPipe, err := cmd.StderrPipe()
	if err != nil {
		return "", "", fmt.Errorf("stderr pipe: %w", err)
	}

	err = cmd.Start()
	if err != nil {
		return "", "", fmt.Errorf("start: %w", err)
	}

	var pumps errgroup.Group

	pumps.Go(func() error {
		_, copyErr := io.Copy(inPipe, stdin)

		// Closing stdin signals end of input to the process. Do it
		// even when the copy failed, or the process never terminates.
		closeErr := inPipe.Close()

		if copyErr != nil {
			return fmt.Errorf("stream stdin: %w", copyErr)
		}

		return closeErr
	})

	pumps.Go(func() error {
		_, copyErr := io.Copy(&stdout, outPipe)
		return copyErr
	})

	pumps.Go(func() error {
		_, copyErr := io.Copy(&stderr, errPipe)
		return copyErr
	})

	pumpErr := pumps.Wait()

	err = cmd.Wait()
	if err != nil {
		// The exit status is the authoritative failure. A broken
		// stdin pipe is its usual symptom, not the cause.
		return stdout.String(), stderr.String(), err
	}

	return stdout.String(), stderr.String(), pumpErr
}
