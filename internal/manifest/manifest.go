// SPDX-FileCopyrightText: 2025 Nexus Quantum
//
// SPDX-License-Identifier: MIT

// Package manifest defines the build-time list of container images
// shipped inside the airgapped payload. The list is shared between the
// packer (which writes the archives into the payload) and the loader
// (which expects exactly these files after extraction), so the two
// sides cannot drift apart.
package manifest

import (
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed manifest.yaml
var rawManifest []byte

// Entry pairs an image reference with the archive file that carries it
// inside the payload.
type Entry struct {
	Reference string `yaml:"reference"`
	Archive   string `yaml:"archive"`
}

// Manifest is the ordered list of images shipped in the payload.
// Order is load order. Treat values as immutable.
type Manifest struct {
	Images []Entry `yaml:"images"`
}

var defaultManifest Manifest

func init() {
	err := yaml.Unmarshal(rawManifest, &defaultManifest)
	if err != nil {
		panic("manifest: invalid embedded manifest: " + err.Error())
	}

	err = defaultManifest.Validate()
	if err != nil {
		panic("manifest: " + err.Error())
	}
}

// Default returns the manifest compiled into the binary.
func Default() Manifest {
	return defaultManifest
}

// Validate checks structural constraints: at least one image, no empty
// fields, no duplicate archive names.
func (m Manifest) Validate() error {
	if len(m.Images) == 0 {
		return errors.New("no images defined")
	}

	seen := make(map[string]struct{}, len(m.Images))

	for _, entry := range m.Images {
		if entry.Reference == "" || entry.Archive == "" {
			return fmt.Errorf(
				"incomplete entry: reference %q, archive %q",
				entry.Reference, entry.Archive,
			)
		}

		_, duplicate := seen[entry.Archive]
		if duplicate {
			return fmt.Errorf("duplicate archive name: %s", entry.Archive)
		}

		seen[entry.Archive] = struct{}{}
	}

	return nil
}
