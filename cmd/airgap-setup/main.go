// SPDX-FileCopyrightText: 2025 Nexus Quantum
//
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/nexusquantum/airgap/internal/cmd"
)

func main() {
	ctx, cancel := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGHUP,
	)

	rc := cmd.Run(ctx, os.Args, cmd.IO{
		Out: os.Stdout,
		Err: os.Stderr,
	})

	cancel()
	os.Exit(rc)
}
