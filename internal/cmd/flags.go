// SPDX-FileCopyrightText: 2025 Nexus Quantum
//
// SPDX-License-Identifier: MIT

package cmd

import (
	"io"

	"github.com/spf13/pflag"
)

type flags struct {
	check       bool
	verify      bool
	keepScratch bool
	debug       bool
	version     bool
}

func parseFlags(name string, args []string, output io.Writer) (*flags, error) {
	f := &flags{}

	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(output)

	fs.BoolVar(
		&f.check,
		"check",
		false,
		"report payload and image status without changing anything",
	)

	fs.BoolVar(
		&f.verify,
		"verify",
		false,
		"re-check all images after loading",
	)

	fs.BoolVar(
		&f.keepScratch,
		"keep-scratch",
		false,
		"keep the scratch directory on success",
	)

	fs.BoolVar(
		&f.debug,
		"debug",
		false,
		"enable debug logging",
	)

	fs.BoolVar(
		&f.version,
		"version",
		false,
		"print version and exit",
	)

	err := fs.Parse(args)
	if err != nil {
		return nil, err
	}

	return f, nil
}
