// SPDX-FileCopyrightText: 2025 Nexus Quantum
//
// SPDX-License-Identifier: MIT

package payload

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"golang.org/x/sys/unix"
)

// spaceFactor estimates the scratch space the decompressed payload
// needs relative to its compressed size. Image tarballs of mostly
// pre-compressed layers expand little; uncompressed layers expand a
// lot. Two is a middle ground for the preflight warning.
const spaceFactor = 2

// Extract unpacks the payload region into a newly created scratch
// directory and returns its path.
//
// The bytes stream straight from the executable through the gzip
// decoder into files on disk; peak memory is bounded by the codec's
// internal buffers. The caller owns the directory and removes it when
// done. On failure the partially populated directory is left in place
// for inspection, and its path is still returned.
func Extract(r io.ReaderAt, region Region, progress Progress) (string, error) {
	dir, err := os.MkdirTemp("", "airgap-payload-")
	if err != nil {
		return "", &ExtractError{
			Err: fmt.Errorf("create scratch directory: %w", err),
		}
	}

	checkDiskSpace(dir, region.Length)

	src := &countingReader{
		src:      io.NewSectionReader(r, region.Start, region.Length),
		total:    region.Length,
		progress: progress,
	}

	unzip, err := gzip.NewReader(src)
	if err != nil {
		return dir, &ExtractError{
			Err: fmt.Errorf("decompress payload: %w", err),
		}
	}
	defer unzip.Close()

	err = unpack(tar.NewReader(unzip), dir)
	if err != nil {
		return dir, &ExtractError{Err: err}
	}

	return dir, nil
}

// unpack writes each archive entry to the scratch directory as it is
// read from the stream.
func unpack(archive *tar.Reader, dir string) error {
	for {
		header, err := archive.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}

		if err != nil {
			return fmt.Errorf("read payload archive: %w", err)
		}

		target, err := entryPath(dir, header.Name)
		if err != nil {
			return err
		}

		switch header.Typeflag {
		case tar.TypeDir:
			err := os.MkdirAll(target, 0o755)
			if err != nil {
				return fmt.Errorf("create directory: %w", err)
			}
		case tar.TypeReg:
			err := writeFile(target, archive, header.FileInfo().Mode())
			if err != nil {
				return err
			}
		default:
			slog.Debug("Skipping unsupported archive entry",
				slog.String("name", header.Name),
				slog.Int("type", int(header.Typeflag)))
		}
	}
}

// entryPath resolves an archive entry name below the scratch directory
// and rejects names that escape it.
func entryPath(dir, name string) (string, error) {
	target := filepath.Join(dir, name)
	if target != dir && !strings.HasPrefix(target, dir+string(os.PathSeparator)) {
		return "", fmt.Errorf("archive entry escapes scratch directory: %s", name)
	}

	return target, nil
}

func writeFile(target string, src io.Reader, mode fs.FileMode) error {
	err := os.MkdirAll(filepath.Dir(target), 0o755)
	if err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	file, err := os.OpenFile(
		target,
		os.O_CREATE|os.O_WRONLY|os.O_TRUNC,
		mode.Perm(),
	)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}

	_, err = io.Copy(file, src)
	if err != nil {
		_ = file.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(target), err)
	}

	err = file.Close()
	if err != nil {
		return fmt.Errorf("close %s: %w", filepath.Base(target), err)
	}

	return nil
}

// checkDiskSpace warns if the filesystem holding the scratch directory
// looks too small for the decompressed payload. It never fails: the
// compressed length is only a lower bound and a genuinely full disk
// surfaces as an unpack error anyway.
func checkDiskSpace(dir string, compressed int64) {
	var stat unix.Statfs_t

	err := unix.Statfs(dir, &stat)
	if err != nil {
		return
	}

	free := int64(stat.Bavail) * stat.Bsize
	need := compressed * spaceFactor

	if free < need {
		slog.Warn("Scratch filesystem may be too small for payload",
			slog.String("dir", dir),
			slog.Int64("free_bytes", free),
			slog.Int64("estimated_need_bytes", need))
	}
}
