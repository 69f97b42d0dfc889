// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package harness

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/matt-FFFFFF/wtest/internal/project"
)

const (
	compilationErrorsBanner = "====== COMPILATION ERRORS ======"
	runErrorsBanner         = "====== RUN ERRORS ======"
)

// WriteSummary writes the pass count, the errored and failed name buckets,
// and the captured output of everything that went wrong.
func (r *Report) WriteSummary(w io.Writer) error {
	total := r.Total()

	if _, err := fmt.Fprintf(w, "Passed: %d/%d\n", len(r.Passed()), total); err != nil {
		return err
	}

	if errored := r.Errored(); len(errored) > 0 {
		if _, err := fmt.Fprintf(w, "Errored: %d/%d: %v\n", len(errored), total, errored); err != nil {
			return err
		}

		if _, err := fmt.Fprintf(w, "\n%s\n\n", compilationErrorsBanner); err != nil {
			return err
		}

		if _, err := fmt.Fprintln(w, string(r.erroredOutput())); err != nil {
			return err
		}
	}

	if failed := r.Failed(); len(failed) > 0 {
		if _, err := fmt.Fprintf(w, "Failed: %d/%d: %v\n", len(failed), total, failed); err != nil {
			return err
		}

		if _, err := fmt.Fprintf(w, "\n%s\n\n", runErrorsBanner); err != nil {
			return err
		}

		if _, err := fmt.Fprintln(w, string(r.failedOutput())); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintln(w)

	return err
}

// erroredOutput concatenates what went wrong for every errored project: the
// build output when the build failed, or the diagnostic when the executable
// name could not be resolved.
func (r *Report) erroredOutput() []byte {
	var buf bytes.Buffer

	for _, res := range r.Results {
		if res.Outcome != Error {
			continue
		}

		if errors.Is(res.Err, project.ErrNoExecutable) {
			buf.WriteString(res.Err.Error())
			buf.WriteByte('\n')

			continue
		}

		buf.Write(res.BuildOutput)

		if res.Err != nil {
			buf.WriteString(res.Err.Error())
			buf.WriteByte('\n')
		}
	}

	return buf.Bytes()
}

// failedOutput concatenates the run output of every failed project.
func (r *Report) failedOutput() []byte {
	var buf bytes.Buffer

	for _, res := range r.Results {
		if res.Outcome != Fail {
			continue
		}

		buf.Write(res.RunOutput)

		if res.Err != nil {
			buf.WriteString(res.Err.Error())
			buf.WriteByte('\n')
		}
	}

	return buf.Bytes()
}
