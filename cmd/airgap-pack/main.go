// SPDX-FileCopyrightText: 2025 Nexus Quantum
//
// SPDX-License-Identifier: MIT

// airgap-pack builds a self-extracting airgapped installer: it appends
// the payload marker and the compressed archive of the manifest's
// per-image tarballs to a payload-free installer binary.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/nexusquantum/airgap/internal/manifest"
	"github.com/nexusquantum/airgap/internal/pack"
)

func run() error {
	fs := pflag.NewFlagSet("airgap-pack", pflag.ContinueOnError)

	exe := fs.String("exe", "", "payload-free installer binary")
	dir := fs.String("archives", "", "directory holding the per-image archives")
	out := fs.String("out", "", "output path for the combined binary")

	err := fs.Parse(os.Args[1:])
	if err != nil {
		return err
	}

	if *exe == "" || *dir == "" || *out == "" {
		fs.Usage()
		return errors.New("--exe, --archives and --out are required")
	}

	spec := pack.Spec{
		Executable: *exe,
		ArchiveDir: *dir,
		Output:     *out,
		Manifest:   manifest.Default(),
	}

	err = pack.Write(spec)
	if err != nil {
		return err
	}

	info, err := os.Stat(*out)
	if err != nil {
		return err
	}

	fmt.Printf("wrote %s (%d bytes, %d images)\n",
		*out, info.Size(), len(spec.Manifest.Images))

	return nil
}

func main() {
	err := run()
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}

		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
