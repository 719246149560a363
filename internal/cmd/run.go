// SPDX-FileCopyrightText: 2025 Nexus Quantum
//
// SPDX-License-Identifier: MIT

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/pflag"

	"github.com/nexusquantum/airgap/internal/docker"
	"github.com/nexusquantum/airgap/internal/manifest"
	"github.com/nexusquantum/airgap/internal/setup"
)

// version is set at build time via -ldflags.
var version = "dev"

// IO bundles the streams the command interacts with.
type IO struct {
	Out io.Writer
	Err io.Writer
}

// remediator is implemented by errors that carry operator guidance.
type remediator interface {
	Remediation() string
}

// Run is the entry point for the airgap-setup command. It returns the
// process exit code.
func Run(ctx context.Context, args []string, cfg IO) int {
	flags, err := parseFlags(args[0], args[1:], cfg.Err)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}

		// pflag already printed the error.
		return 2
	}

	setupLogging(cfg.Err, flags.debug)

	if flags.version {
		fmt.Fprintln(cfg.Out, version)
		return 0
	}

	s, err := setup.New(docker.New(manifest.Default()))
	if err != nil {
		slog.Error(err.Error())
		return 1
	}

	s.Out = cfg.Out
	s.Verify = flags.verify
	s.KeepScratch = flags.keepScratch

	if flags.check {
		return runCheck(ctx, s, cfg)
	}

	hasPayload, err := s.HasPayload()
	if err != nil {
		slog.Error(err.Error())
		return 1
	}

	if !hasPayload {
		fmt.Fprintln(cfg.Out,
			"No embedded payload in this executable, nothing to set up.")
		return 0
	}

	err = s.Run(ctx)
	if err != nil {
		slog.Error(err.Error())
		printRemediation(cfg.Err, err)

		return 1
	}

	return 0
}

func runCheck(ctx context.Context, s *setup.Setup, cfg IO) int {
	hasPayload, err := s.HasPayload()
	if err != nil {
		slog.Error(err.Error())
		return 1
	}

	fmt.Fprintf(cfg.Out, "payload embedded: %t\n", hasPayload)
	fmt.Fprintf(cfg.Out, "images loaded:    %t\n", s.ImagesLoaded(ctx))

	return 0
}

func printRemediation(w io.Writer, err error) {
	var r remediator
	if errors.As(err, &r) {
		fmt.Fprintln(w)
		fmt.Fprintln(w, r.Remediation())
	}
}
