// SPDX-FileCopyrightText: 2025 Nexus Quantum
//
// SPDX-License-Identifier: MIT

package payload

import "io"

// Progress receives the cumulative number of compressed payload bytes
// consumed and the total region length. It is invoked after every
// read, so implementations must be cheap.
type Progress func(done, total int64)

// countingReader reports cumulative read progress to a sink.
type countingReader struct {
	src      io.Reader
	total    int64
	done     int64
	progress Progress
}

// Read implements the [io.Reader] interface.
func (r *countingReader) Read(p []byte) (int, error) {
	n, err := r.src.Read(p)
	if n > 0 {
		r.done += int64(n)
		if r.progress != nil {
			r.progress(r.done, r.total)
		}
	}

	return n, err
}
