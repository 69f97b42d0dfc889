// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package invoke

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/matt-FFFFFF/wtest/internal/ctxlog"
	"github.com/matt-FFFFFF/wtest/internal/progress"
	"github.com/matt-FFFFFF/wtest/internal/signalbroker"
	"github.com/matt-FFFFFF/wtest/internal/teereader"
)

const (
	maxBufferSize    = 8 * 1024 * 1024        // 8MB
	tickerInterval   = 500 * time.Millisecond // Interval for progress last-line updates
	lastLineMaxWidth = 80                     // Truncation width for progress output lines
)

var (
	// ErrBufferOverflow is returned when the output exceeds the max size.
	ErrBufferOverflow = fmt.Errorf("output exceeds max size of %d bytes", maxBufferSize)
	// ErrCommandNotFound is returned when the command is empty or cannot be found in the system PATH.
	ErrCommandNotFound = errors.New("command not found")
	// ErrCouldNotStartProcess is returned when the process could not be started.
	ErrCouldNotStartProcess = errors.New("could not start process")
	// ErrFailedToReadBuffer is returned when the buffer from the operating system pipe could not be read.
	ErrFailedToReadBuffer = errors.New("failed to read buffer")
	// ErrTimeoutExceeded is returned when the command exceeds its timeout.
	ErrTimeoutExceeded = errors.New("timeout exceeded")
	// ErrAborted is returned when the command is killed due to context cancellation.
	ErrAborted = errors.New("execution aborted")
	// ErrFailedToCreatePipe is returned when the operating system pipe could not be created.
	ErrFailedToCreatePipe = errors.New("failed to create pipe")
	// ErrSignalReceived is returned when an operating system signal is received by the child process.
	ErrSignalReceived = errors.New("signal received")
	// ErrDuplicateSignalReceived is returned when a duplicate signal is received, forcing process termination.
	ErrDuplicateSignalReceived = errors.New("duplicate signal received, process forcefully terminated")
)

// Command represents a single external process invocation.
type Command struct {
	Label    string            // Short human-readable label, defaults to the executable base name
	Path     string            // The command to run, a path or a bare name resolved from PATH
	Args     []string          // Arguments to the command, do not include the executable name itself
	Dir      string            // Working directory for the child process
	Env      map[string]string // Additional environment variables for the child process
	Timeout  time.Duration     // Optional per-invocation timeout, zero waits forever
	Reporter progress.Reporter // Optional progress event sink
	Project  string            // Project name attached to progress events
	Stage    progress.Stage    // Lifecycle stage attached to progress events

	sigCh chan os.Signal // Channel to receive signals, allows mocking in test
}

// GetLabel returns the label of the command.
func (c *Command) GetLabel() string {
	if c.Label != "" {
		return c.Label
	}

	return filepath.Base(c.Path)
}

// Run executes the command and captures its combined output.
// The child process runs in c.Dir; the calling process working directory
// is never modified.
func (c *Command) Run(ctx context.Context) *Result {
	logger := ctxlog.Logger(ctx).
		With("label", c.GetLabel()).
		With("project", c.Project).
		With("stage", c.Stage.String())

	logger.Debug("command info", "path", c.Path, "cwd", c.Dir, "args", c.Args)

	res := &Result{
		Label: c.GetLabel(),
		Cmd:   cmdline(c.Path, c.Args),
	}

	path, err := resolvePath(c.Path)
	if err != nil {
		res.fail(errors.Join(ErrCommandNotFound, err))
		return res
	}

	if c.sigCh == nil {
		c.sigCh = signalbroker.New(ctx)
	}

	if c.Timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	env := os.Environ()

	for k, v := range c.Env {
		logger.Debug("adding environment variable", "key", k, "value", v)
		env = append(env, fmt.Sprintf("%s=%s", k, v))
	}

	// A single pipe is shared by stdout and stderr so the capture preserves
	// the interleaving the child produced.
	rPipe, wPipe, err := os.Pipe()
	if err != nil {
		res.fail(errors.Join(ErrFailedToCreatePipe, err))
		return res
	}

	execName := filepath.Base(path)
	args := slices.Concat([]string{execName}, c.Args)

	logger.Debug("starting process")

	ps, err := os.StartProcess(path, args, &os.ProcAttr{
		Dir:   c.Dir,
		Env:   env,
		Files: []*os.File{os.Stdin, wPipe, wPipe},
	})
	if err != nil {
		_ = wPipe.Close()
		_ = rPipe.Close()
		res.fail(errors.Join(ErrCouldNotStartProcess, err))

		return res
	}

	startTime := time.Now()

	logger.Debug("process started", "pid", ps.Pid)
	c.report(progress.EventStarted, fmt.Sprintf("Starting %s", c.GetLabel()), progress.EventData{})

	// The pipe is drained while the process runs so a child producing more
	// output than the pipe buffer cannot block, and so the last line is
	// available for progress updates.
	tee := teereader.NewLastLineTeeReader(rPipe)
	drained := make(chan drainResult, 1)

	go func() {
		data, err := readAllUpToMax(ctx, tee, maxBufferSize)
		drained <- drainResult{data: data, err: err}
		_ = rPipe.Close()
	}()

	// This is the process watchdog that will kill the process if the context
	// is cancelled, pass on any signals to the process, and emit periodic
	// progress updates.
	done := make(chan struct{})
	// This allows us to track why the process was killed.
	wasKilled := make(chan error)

	go func() {
		signalCount := make(map[os.Signal]struct{})

		ticker := time.NewTicker(tickerInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				c.report(progress.EventProgress,
					fmt.Sprintf("Running %s", c.GetLabel()),
					progress.EventData{
						OutputLine:      tee.GetLastLine(lastLineMaxWidth),
						ProgressMessage: time.Since(startTime).Round(time.Second).String(),
					})

			case s := <-c.sigCh:
				// is this the second signal received of this type?
				if _, ok := signalCount[s]; ok {
					logger.Info("received duplicate signal, killing process", "signal", s.String())
					fmt.Fprintf(wPipe, "received duplicate signal, killing process: %s\n", s.String()) //nolint:errcheck
					killPs(ctx, ps)

					select {
					case wasKilled <- ErrDuplicateSignalReceived:
					case <-done:
						// Channel was closed, process already finished
					}

					return
				}

				signalCount[s] = struct{}{}

				logger.Info("received signal", "signal", s.String())
				fmt.Fprintf(wPipe, "received signal: %s\n", s.String()) //nolint:errcheck

				if err := ps.Signal(s); err != nil {
					logger.Info("failed to send signal", "signal", s.String(), "error", err)
				}

				select {
				case wasKilled <- ErrSignalReceived:
				case <-done:
					// Channel was closed, process already finished
				}

			case <-ctx.Done():
				logger.Info("context done, killing process")
				fmt.Fprintln(wPipe, "context done, killing process") //nolint:errcheck
				killPs(ctx, ps)

				killErr := ErrAborted
				if errors.Is(ctx.Err(), context.DeadlineExceeded) {
					killErr = ErrTimeoutExceeded
				}

				select {
				case wasKilled <- killErr:
				case <-done:
					// Channel was closed, process already finished
				}

				return

			case <-done:
				return
			}
		}
	}()

	logger.Debug("waiting for process to finish")

	state, psErr := ps.Wait()

	// Closing the parent's write end lets the drain goroutine observe EOF
	// once the child's descriptors are gone.
	_ = wPipe.Close()

	res.ExitCode = state.ExitCode()
	res.Err = psErr
	res.Elapsed = time.Since(startTime)

	logger.Debug("process finished", "exitCode", res.ExitCode, "elapsed", res.Elapsed)

	// Check if the process was killed due to timeout or signal
	select {
	case e := <-wasKilled:
		res.Err = errors.Join(res.Err, e)
		res.ExitCode = -1
	default:
		// No error from watchdog, process completed normally
	}

	close(done)

	// Close wasKilled channel after signaling done to prevent race condition
	select {
	case <-wasKilled:
		// Already received an error from watchdog
	default:
		close(wasKilled)
	}

	out := <-drained

	logger.Debug("output length", "bytes", len(out.data), "maxBytes", maxBufferSize)

	res.Output = out.data
	if out.err != nil {
		res.Err = errors.Join(res.Err, out.err)
		res.ExitCode = -1
	}

	if res.Err != nil {
		c.report(progress.EventFailed,
			fmt.Sprintf("%s failed", c.GetLabel()),
			progress.EventData{ExitCode: res.ExitCode, Error: res.Err, OutputLine: firstLine(res.Output)})

		return res
	}

	evType := progress.EventCompleted
	msg := fmt.Sprintf("%s completed", c.GetLabel())

	if res.ExitCode != 0 {
		evType = progress.EventFailed
		msg = fmt.Sprintf("%s exited with code %d", c.GetLabel(), res.ExitCode)
	}

	c.report(evType, msg, progress.EventData{ExitCode: res.ExitCode, OutputLine: firstLine(res.Output)})

	return res
}

// report emits a progress event when a reporter is configured.
func (c *Command) report(t progress.EventType, msg string, data progress.EventData) {
	if c.Reporter == nil {
		return
	}

	c.Reporter.Report(progress.Event{
		Project:   c.Project,
		Stage:     c.Stage,
		Type:      t,
		Message:   msg,
		Timestamp: time.Now(),
		Data:      data,
	})
}

type drainResult struct {
	data []byte
	err  error
}

// resolvePath resolves bare command names against PATH.
// Paths containing a separator are returned as given, so relative
// executables resolve against the child working directory.
func resolvePath(path string) (string, error) {
	if path == "" {
		return "", ErrCommandNotFound
	}

	if strings.ContainsRune(path, os.PathSeparator) {
		return path, nil
	}

	resolved, err := exec.LookPath(path)
	if err != nil {
		return "", err //nolint:wrapcheck
	}

	return resolved, nil
}

func firstLine(b []byte) string {
	line, _, _ := strings.Cut(string(b), "\n")
	return line
}

func readAllUpToMax(ctx context.Context, r io.Reader, maxBufferSize int64) ([]byte, error) {
	var buf bytes.Buffer

	n, err := io.CopyN(&buf, r, maxBufferSize+1)
	if err != nil && err != io.EOF {
		return nil, errors.Join(ErrFailedToReadBuffer, err)
	}

	if n > maxBufferSize {
		ctxlog.Logger(ctx).Debug(
			"buffer overflow in readAllUpToMax",
			"bytesRead", n,
			"maxBytes", maxBufferSize,
		)

		// Keep draining so the writer is not blocked on a full pipe.
		_, _ = io.Copy(io.Discard, r)

		return buf.Bytes()[:maxBufferSize], ErrBufferOverflow
	}

	return buf.Bytes(), nil
}

// killPs kills the process and logs the outcome.
func killPs(ctx context.Context, ps *os.Process) {
	if err := ps.Kill(); err != nil {
		if errors.Is(err, os.ErrProcessDone) {
			ctxlog.Logger(ctx).Debug("process already done", "pid", ps.Pid)
			return
		}

		ctxlog.Logger(ctx).Error("process kill error", "pid", ps.Pid, "error", err)
	}

	ctxlog.Logger(ctx).Info("process killed", "pid", ps.Pid)
}
