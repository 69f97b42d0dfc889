// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/matt-FFFFFF/wtest/internal/harness"
	"github.com/matt-FFFFFF/wtest/internal/progress"
)

const (
	minViewportWidth  = 20
	ellipsis          = "..."
	durationRounding  = 100 * time.Millisecond // Round displayed durations to 100ms
	reservedLines     = 8                      // Title, border, status bar and help text
	viewportChrome    = 4                      // Border and padding around the viewport
	detailIndent      = "  "
	statusBarDivider  = " · "
	shutdownOnQuitMsg = "Shutting down...\n"
)

// EventMsg wraps a progress event for the tea framework.
type EventMsg struct {
	Event progress.Event
}

// BatchCompletedMsg indicates that the whole batch has finished.
type BatchCompletedMsg struct {
	Report *harness.Report
}

// Init implements bubbletea.Model.Init.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		m.spinner.Tick,
	)
}

// Update implements bubbletea.Model.Update.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	// The viewport handles scrolling keys and mouse wheel events.
	m.viewport, cmd = m.viewport.Update(msg)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeViewport()

		return m, cmd

	case spinner.TickMsg:
		var spinCmd tea.Cmd

		m.spinner, spinCmd = m.spinner.Update(msg)

		return m, tea.Batch(cmd, spinCmd)

	case EventMsg:
		m.applyEvent(msg.Event)
		return m, cmd

	case BatchCompletedMsg:
		m.completed = true
		m.report = msg.Report
		m.applyReport(msg.Report)

		return m, cmd

	case tea.QuitMsg:
		m.quitting = true
		return m, tea.Quit
	}

	return m, cmd
}

// handleKeyPress processes keyboard input.
func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

// resizeViewport fits the viewport to the terminal dimensions.
func (m *Model) resizeViewport() {
	width := m.width - viewportChrome
	if width < minViewportWidth {
		width = minViewportWidth
	}

	height := m.height - reservedLines
	if height < 1 {
		height = 1
	}

	if !m.ready {
		m.viewport = viewport.New(width, height)
		m.ready = true

		return
	}

	m.viewport.Width = width
	m.viewport.Height = height
}

// View implements bubbletea.Model.View.
func (m *Model) View() string {
	if m.quitting {
		return shutdownOnQuitMsg
	}

	var content strings.Builder

	for _, row := range m.rows {
		m.renderRow(&content, row)
	}

	if m.completed {
		content.WriteString("\n")

		if m.report != nil && m.report.Ok() {
			content.WriteString(m.styles.Passed.Render("All tests passed"))
		} else {
			content.WriteString(m.styles.Failed.Render("Some tests did not pass"))
		}

		content.WriteString("\n")
	}

	if !m.ready {
		return content.String()
	}

	m.viewport.SetContent(content.String())

	var view strings.Builder

	view.WriteString(m.styles.Title.Render("OpenFOAM unit tests"))
	view.WriteString("\n")
	view.WriteString(m.styles.Border.Render(m.viewport.View()))
	view.WriteString("\n")
	view.WriteString(m.renderStatusBar())
	view.WriteString("\n")

	helpText := "↑/↓ to scroll, q to quit"
	if m.completed {
		helpText = "q to quit and print the summary"
	}

	view.WriteString(m.styles.Help.Render(helpText))

	return view.String()
}

// renderRow renders one project line with icon, timing and detail column.
func (m *Model) renderRow(b *strings.Builder, row *Row) {
	var icon, name string

	switch {
	case row.Status == StatusPending:
		icon = "⏳"
		name = m.styles.Pending.Render(row.Name)
	case row.Status.active():
		icon = m.spinner.View()
		name = m.styles.Active.Render(row.Name)
	case row.Status == StatusPassed:
		icon = "✅"
		name = m.styles.Passed.Render(row.Name)
	case row.Status == StatusFailed:
		icon = "❌"
		name = m.styles.Failed.Render(row.Name)
	case row.Status == StatusErrored:
		icon = "💥"
		name = m.styles.Errored.Render(row.Name)
	default:
		icon = "❓"
		name = m.styles.Pending.Render(row.Name)
	}

	b.WriteString(icon)
	b.WriteString(" ")
	b.WriteString(name)

	if row.Status.active() {
		b.WriteString(m.styles.Output.Render(" [" + row.Status.String() + "]"))
	}

	if d := row.elapsed(); d > 0 {
		b.WriteString(m.styles.Output.Render(fmt.Sprintf(" (%v)", d.Round(durationRounding))))
	}

	switch {
	case row.ErrorMsg != "" && (row.Status == StatusFailed || row.Status == StatusErrored):
		b.WriteString(m.styles.Failed.Render(detailIndent + truncate(row.ErrorMsg, m.detailWidth())))
	case row.LastOutput != "" && row.Status.active():
		b.WriteString(m.styles.Output.Render(detailIndent + truncate(row.LastOutput, m.detailWidth())))
	}

	b.WriteString("\n")
}

// renderStatusBar summarises the batch as outcome counts.
func (m *Model) renderStatusBar() string {
	var pending, active, passed, failed, errored int

	for _, row := range m.rows {
		switch {
		case row.Status == StatusPending:
			pending++
		case row.Status.active():
			active++
		case row.Status == StatusPassed:
			passed++
		case row.Status == StatusFailed:
			failed++
		case row.Status == StatusErrored:
			errored++
		}
	}

	parts := []string{
		m.styles.Passed.Render(fmt.Sprintf("%d passed", passed)),
		m.styles.Failed.Render(fmt.Sprintf("%d failed", failed)),
		m.styles.Errored.Render(fmt.Sprintf("%d errored", errored)),
	}

	if active > 0 {
		parts = append(parts, m.styles.Active.Render(fmt.Sprintf("%d running", active)))
	}

	if pending > 0 {
		parts = append(parts, m.styles.Pending.Render(fmt.Sprintf("%d pending", pending)))
	}

	return strings.Join(parts, statusBarDivider)
}

// detailWidth returns the column width available for the output detail.
func (m *Model) detailWidth() int {
	w := m.viewport.Width / 2 //nolint:mnd // Half for the name column, half for detail
	if w < minViewportWidth {
		w = minViewportWidth
	}

	return w
}

// truncate shortens s to the given display width with a trailing ellipsis.
func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}

	runes := []rune(s)
	if width <= len(ellipsis) {
		return string(runes[:width])
	}

	return string(runes[:width-len(ellipsis)]) + ellipsis
}
