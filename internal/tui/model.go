// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/matt-FFFFFF/wtest/internal/harness"
	"github.com/matt-FFFFFF/wtest/internal/progress"
	"github.com/matt-FFFFFF/wtest/internal/project"
)

// Status represents the display state of a project in the TUI.
type Status int

const (
	StatusPending Status = iota
	StatusBuilding
	StatusRunning
	StatusCleaning
	StatusPassed
	StatusFailed
	StatusErrored
)

// String returns a string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusBuilding:
		return "building"
	case StatusRunning:
		return "running"
	case StatusCleaning:
		return "cleaning"
	case StatusPassed:
		return "passed"
	case StatusFailed:
		return "failed"
	case StatusErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// active reports whether the status should show the spinner.
func (s Status) active() bool {
	return s == StatusBuilding || s == StatusRunning || s == StatusCleaning
}

// Row is the display state of one project.
type Row struct {
	Name       string
	Status     Status
	LastOutput string
	ErrorMsg   string
	StartTime  *time.Time
	EndTime    *time.Time
}

// setStatus updates the status and the timing bookkeeping.
func (r *Row) setStatus(status Status) {
	r.Status = status
	now := time.Now()

	switch {
	case status.active():
		if r.StartTime == nil {
			r.StartTime = &now
		}
	case status == StatusPassed || status == StatusFailed || status == StatusErrored:
		if r.EndTime == nil {
			r.EndTime = &now
		}
	}
}

// setOutput keeps the last non-empty trimmed line.
func (r *Row) setOutput(output string) {
	output = strings.TrimSpace(output)
	if output == "" {
		return
	}

	if i := strings.LastIndexByte(output, '\n'); i >= 0 {
		output = strings.TrimSpace(output[i+1:])
	}

	r.LastOutput = output
}

// elapsed returns the running or final duration of the row.
func (r *Row) elapsed() time.Duration {
	if r.StartTime == nil {
		return 0
	}

	if r.EndTime != nil {
		return r.EndTime.Sub(*r.StartTime)
	}

	return time.Since(*r.StartTime)
}

// Model represents the TUI application state.
type Model struct {
	ctx       context.Context
	rows      []*Row
	index     map[string]*Row
	viewport  viewport.Model
	spinner   spinner.Model
	width     int
	height    int
	ready     bool
	quitting  bool
	completed bool
	report    *harness.Report
	styles    *Styles
}

// Styles contains all the styling for the TUI.
type Styles struct {
	Title   lipgloss.Style
	Pending lipgloss.Style
	Active  lipgloss.Style
	Passed  lipgloss.Style
	Failed  lipgloss.Style
	Errored lipgloss.Style
	Output  lipgloss.Style
	Help    lipgloss.Style
	Border  lipgloss.Style
}

// NewStyles creates the default styling for the TUI.
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")).
			MarginBottom(1),
		Pending: lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")),
		Active: lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")).
			Bold(true),
		Passed: lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")),
		Failed: lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")),
		Errored: lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true),
		Output: lipgloss.NewStyle().
			Foreground(lipgloss.Color("7")).
			Italic(true),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")).
			MarginTop(1),
		Border: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1),
	}
}

// NewModel creates a TUI model with one row per project, in batch order.
func NewModel(ctx context.Context, projects []project.Project) *Model {
	styles := NewStyles()

	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(styles.Active),
	)

	m := &Model{
		ctx:     ctx,
		index:   make(map[string]*Row, len(projects)),
		spinner: sp,
		styles:  styles,
	}

	for _, p := range projects {
		row := &Row{Name: p.Name}
		m.rows = append(m.rows, row)
		m.index[p.Name] = row
	}

	return m
}

// applyEvent folds a progress event into the affected row.
func (m *Model) applyEvent(event progress.Event) {
	row, ok := m.index[event.Project]
	if !ok {
		return
	}

	switch event.Type {
	case progress.EventStarted:
		switch event.Stage {
		case progress.StageBuild:
			row.setStatus(StatusBuilding)
		case progress.StageRun:
			row.setStatus(StatusRunning)
		case progress.StageClean:
			row.setStatus(StatusCleaning)
		}

	case progress.EventProgress, progress.EventOutput:
		row.setOutput(event.Data.OutputLine)

	case progress.EventCompleted:
		if event.Stage == progress.StageRun {
			row.setStatus(StatusPassed)
		}

	case progress.EventFailed:
		// Clean failures never affect a project's verdict.
		if event.Stage == progress.StageClean {
			return
		}

		if event.Stage == progress.StageBuild {
			row.setStatus(StatusErrored)
		} else {
			row.setStatus(StatusFailed)
		}

		if event.Data.Error != nil {
			row.ErrorMsg = event.Data.Error.Error()
		}
	}
}

// applyReport reconciles every row with the final batch report.
func (m *Model) applyReport(report *harness.Report) {
	if report == nil {
		return
	}

	for _, res := range report.Results {
		row, ok := m.index[res.Project.Name]
		if !ok {
			continue
		}

		switch res.Outcome {
		case harness.Pass:
			row.setStatus(StatusPassed)
		case harness.Fail:
			row.setStatus(StatusFailed)
		case harness.Error:
			row.setStatus(StatusErrored)
		}

		if res.Err != nil {
			row.ErrorMsg = res.Err.Error()
		}
	}
}
