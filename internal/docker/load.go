// SPDX-FileCopyrightText: 2025 Nexus Quantum
//
// SPDX-License-Identifier: MIT

package docker

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// LoadProgress is invoked before each image load with the 1-based
// index, the total count and the image reference.
type LoadProgress func(index, total int, reference string)

// LoadAll loads every manifest image from its archive in dir, in
// manifest order. Each archive is decompressed on the fly and streamed
// into "docker load" via stdin; no decompressed copy is staged on
// disk. The first failure aborts the remaining entries.
func (c *Client) LoadAll(ctx context.Context, dir string, progress LoadProgress) error {
	total := len(c.manifest.Images)

	for i, entry := range c.manifest.Images {
		if progress != nil {
			progress(i+1, total, entry.Reference)
		}

		err := c.load(ctx, dir, entry.Reference, entry.Archive)
		if err != nil {
			return err
		}
	}

	return nil
}

func (c *Client) load(ctx context.Context, dir, reference, archive string) error {
	file, err := os.Open(filepath.Join(dir, archive))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &ImageMissingError{Name: archive}
		}

		return fmt.Errorf("open image archive %s: %w", archive, err)
	}
	defer file.Close()

	unzip, err := gzip.NewReader(bufio.NewReader(file))
	if err != nil {
		return &LoadError{
			Reference: reference,
			Err:       fmt.Errorf("decompress %s: %w", archive, err),
		}
	}
	defer unzip.Close()

	_, stderr, err := c.runner.run(ctx, unzip, "load")
	if err != nil {
		return &LoadError{
			Reference: reference,
			Stderr:    strings.TrimSpace(stderr),
			Err:       err,
		}
	}

	return nil
}
