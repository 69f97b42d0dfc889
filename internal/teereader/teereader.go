// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package teereader

import (
	"bytes"
	"io"
	"sync"
)

const ellipsis = "..."

// LastLineTeeReader passes reads through while remembering the most recent
// complete line. The data itself is not retained, callers consume it as
// usual and query GetLastLine for display.
type LastLineTeeReader struct {
	r        io.Reader
	mu       sync.RWMutex
	lastLine []byte
	partial  bytes.Buffer
}

// NewLastLineTeeReader wraps r with last line tracking.
func NewLastLineTeeReader(r io.Reader) *LastLineTeeReader {
	return &LastLineTeeReader{r: r}
}

// Read implements io.Reader, observing the data on its way through.
func (lt *LastLineTeeReader) Read(p []byte) (int, error) {
	n, err := lt.r.Read(p)
	if n > 0 {
		lt.observe(p[:n])
	}

	return n, err //nolint:wrapcheck
}

// observe folds a chunk into the line state. Chunks arrive at pipe buffer
// boundaries, not line boundaries, so a trailing partial line is carried
// until its newline shows up.
func (lt *LastLineTeeReader) observe(chunk []byte) {
	lt.mu.Lock()
	defer lt.mu.Unlock()

	lt.partial.Write(chunk)

	buffered := lt.partial.Bytes()

	idx := bytes.LastIndexByte(buffered, '\n')
	if idx < 0 {
		return
	}

	complete := buffered[:idx]
	if j := bytes.LastIndexByte(complete, '\n'); j >= 0 {
		complete = complete[j+1:]
	}

	lt.lastLine = append(lt.lastLine[:0], complete...)

	rest := append([]byte(nil), buffered[idx+1:]...)
	lt.partial.Reset()
	lt.partial.Write(rest)
}

// GetLastLine returns the most recent complete line, truncated to maxWidth
// with a trailing ellipsis when longer. A maxWidth of zero or less disables
// truncation. Safe to call while another goroutine is reading.
func (lt *LastLineTeeReader) GetLastLine(maxWidth int) string {
	lt.mu.RLock()
	defer lt.mu.RUnlock()

	line := string(lt.lastLine)
	if maxWidth <= 0 || len(line) <= maxWidth {
		return line
	}

	if maxWidth <= len(ellipsis) {
		return line[:maxWidth]
	}

	return line[:maxWidth-len(ellipsis)] + ellipsis
}

// GetPartialLine returns any data seen after the last newline.
func (lt *LastLineTeeReader) GetPartialLine() string {
	lt.mu.RLock()
	defer lt.mu.RUnlock()

	return lt.partial.String()
}
