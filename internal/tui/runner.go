// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package tui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/matt-FFFFFF/wtest/internal/harness"
	"github.com/matt-FFFFFF/wtest/internal/progress"
	"github.com/matt-FFFFFF/wtest/internal/project"
)

// ExecFunc runs the batch and returns its report. The reporter forwards
// per-project events to the TUI while the batch is in flight.
type ExecFunc func(ctx context.Context, reporter progress.Reporter) (*harness.Report, error)

// Runner manages the TUI application and progress event integration.
type Runner struct {
	model    *Model
	program  *tea.Program
	reporter *Reporter
	mutex    sync.Mutex
}

// Reporter implements progress.Reporter and forwards events to the TUI.
type Reporter struct {
	program *tea.Program
	closed  bool
	mutex   sync.RWMutex
}

// NewReporter creates a progress reporter that feeds the given program.
func NewReporter(program *tea.Program) *Reporter {
	return &Reporter{
		program: program,
	}
}

// Report implements progress.Reporter.Report.
func (tr *Reporter) Report(event progress.Event) {
	tr.mutex.RLock()
	defer tr.mutex.RUnlock()

	if tr.closed || tr.program == nil {
		return
	}

	tr.program.Send(EventMsg{Event: event})
}

// Close implements progress.Reporter.Close.
func (tr *Reporter) Close() {
	tr.mutex.Lock()
	defer tr.mutex.Unlock()
	tr.closed = true
}

// NewRunner creates a new TUI runner for the given projects.
func NewRunner(ctx context.Context, projects []project.Project) *Runner {
	model := NewModel(ctx, projects)
	program := tea.NewProgram(model, tea.WithAltScreen())
	reporter := NewReporter(program)

	return &Runner{
		model:    model,
		program:  program,
		reporter: reporter,
	}
}

// GetReporter returns the progress reporter for this TUI runner.
func (r *Runner) GetReporter() progress.Reporter {
	return r.reporter
}

// batchOutcome carries the batch result across the execution goroutine.
type batchOutcome struct {
	report *harness.Report
	err    error
}

// Run starts the TUI and executes the batch with progress reporting.
// The TUI stays up after the batch completes until the user quits, so
// the final per-project states remain visible.
func (r *Runner) Run(ctx context.Context, exec ExecFunc) (*harness.Report, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	resultChan := make(chan batchOutcome, 1)

	go func() {
		defer close(resultChan)

		report, err := exec(ctx, r.reporter)
		resultChan <- batchOutcome{report: report, err: err}
	}()

	tuiDone := make(chan error, 1)

	go func() {
		_, err := r.program.Run()
		tuiDone <- err
	}()

	select {
	case outcome := <-resultChan:
		// Batch completed, notify the TUI but don't quit yet.
		r.program.Send(BatchCompletedMsg{Report: outcome.report})

		// Wait for the user to exit manually.
		tuiErr := <-tuiDone

		r.reporter.Close()

		if outcome.err != nil {
			return outcome.report, outcome.err
		}

		return outcome.report, tuiErr

	case tuiErr := <-tuiDone:
		// TUI exited first (user pressed 'q' or a terminal error occurred).
		// The batch keeps running; wait for it so the summary is complete.
		r.reporter.Close()

		select {
		case outcome := <-resultChan:
			if outcome.err != nil {
				return outcome.report, outcome.err
			}

			return outcome.report, tuiErr
		case <-ctx.Done():
			return nil, ctx.Err()
		}

	case <-ctx.Done():
		r.reporter.Close()
		r.program.Quit()

		var report *harness.Report

		select {
		case outcome := <-resultChan:
			report = outcome.report
		default:
		}

		<-tuiDone // Wait for TUI cleanup

		return report, ctx.Err()
	}
}
