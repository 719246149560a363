// SPDX-FileCopyrightText: 2025 Nexus Quantum
//
// SPDX-License-Identifier: MIT

package payload

import (
	"archive/tar"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
)

// Region describes where the payload lives inside the host executable.
// It always extends to the end of the file: Start+Length equals the
// file size.
type Region struct {
	Start  int64
	Length int64
}

// scanChunkSize is the read size used for the marker scan.
const scanChunkSize = 64 * 1024

// sizeThreshold is the executable size below which it cannot carry an
// image payload. The bare installer binary is around 10 MB; with
// payload it is multiple gigabytes.
const sizeThreshold = 50 * 1000 * 1000

// HasPayload reports whether the executable at path carries an
// embedded payload. Small files are rejected on size alone; larger
// ones are confirmed by a full marker scan.
func HasPayload(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, fmt.Errorf("stat executable: %w", err)
	}

	if info.Size() < sizeThreshold {
		return false, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("open executable: %w", err)
	}
	defer file.Close()

	_, err = Locate(file, info.Size())
	if errors.Is(err, ErrNoPayload) {
		return false, nil
	}

	if err != nil {
		return false, err
	}

	return true, nil
}

// Locate scans the executable for the payload start offset.
//
// The scan reads fixed-size chunks, carrying the last
// len(marker+signature)-1 bytes over between chunks so a token split
// across a read boundary is still matched. Every byte match is
// confirmed by trial-decoding one archive entry behind it before it is
// accepted; unconfirmed matches are skipped and the scan continues.
// Returns [ErrNoPayload] if the file ends without a confirmed match.
func Locate(r io.ReaderAt, size int64) (Region, error) {
	token := append(append([]byte{}, Marker...), Signature...)
	carry := len(token) - 1

	var (
		window []byte
		base   int64 // file offset of window[0]
	)

	src := io.NewSectionReader(r, 0, size)
	buf := make([]byte, scanChunkSize)

	for {
		n, err := src.Read(buf)
		if n > 0 {
			window = append(window, buf[:n]...)

			searchFrom := 0

			for {
				i := bytes.Index(window[searchFrom:], token)
				if i < 0 {
					break
				}

				pos := searchFrom + i
				start := base + int64(pos) + int64(len(Marker))

				if validPayload(r, start, size) {
					return Region{Start: start, Length: size - start}, nil
				}

				// The marker bytes occur incidentally inside the
				// compiled code section. Keep scanning.
				searchFrom = pos + 1
			}

			if len(window) > carry {
				drop := len(window) - carry
				base += int64(drop)
				window = append(window[:0], window[drop:]...)
			}
		}

		if errors.Is(err, io.EOF) {
			return Region{}, ErrNoPayload
		}

		if err != nil {
			return Region{}, fmt.Errorf("scan executable: %w", err)
		}
	}
}

// validPayload reports whether a gzip compressed tar stream with at
// least one readable entry starts at the given offset.
func validPayload(r io.ReaderAt, start, size int64) bool {
	probe := io.NewSectionReader(r, start, size-start)

	unzip, err := gzip.NewReader(probe)
	if err != nil {
		return false
	}
	defer unzip.Close()

	_, err = tar.NewReader(unzip).Next()

	return err == nil
}
