// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package progress

import (
	"time"
)

// Event represents a real-time update from a project invocation.
// Events are emitted throughout the build and run lifecycle to provide
// real-time feedback for TUI and other monitoring systems.
type Event struct {
	Project   string    // Name of the test project the event belongs to
	Stage     Stage     // Lifecycle stage the event belongs to
	Type      EventType // Event type indicating what happened
	Message   string    // Human-readable status message
	Timestamp time.Time // When the event occurred
	Data      EventData // Type-specific data
}

// Stage identifies the phase of a project invocation.
type Stage int

const (
	// StageBuild covers the build tool invocation.
	StageBuild Stage = iota
	// StageRun covers the test executable invocation.
	StageRun
	// StageClean covers the clean tool invocation.
	StageClean
)

// String implements the Stringer interface for Stage.
func (s Stage) String() string {
	switch s {
	case StageBuild:
		return "build"
	case StageRun:
		return "run"
	case StageClean:
		return "clean"
	default:
		return "unknown"
	}
}

// EventType represents the type of progress event.
type EventType int

const (
	// EventStarted indicates a stage has begun execution.
	EventStarted EventType = iota
	// EventProgress indicates general progress information.
	EventProgress
	// EventOutput indicates new output is available.
	EventOutput
	// EventCompleted indicates successful completion.
	EventCompleted
	// EventFailed indicates the stage failed.
	EventFailed
	// EventSkipped indicates the stage was skipped, e.g. a run after a failed build.
	EventSkipped
)

// String implements the Stringer interface for EventType.
func (et EventType) String() string {
	switch et {
	case EventStarted:
		return "started"
	case EventProgress:
		return "progress"
	case EventOutput:
		return "output"
	case EventCompleted:
		return "completed"
	case EventFailed:
		return "failed"
	case EventSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// EventData contains type-specific information for progress events.
type EventData struct {
	// For EventOutput
	OutputLine string // The actual output line

	// For EventCompleted/EventFailed
	ExitCode int   // Command exit code
	Error    error // Error if the stage failed

	// For EventProgress
	ProgressMessage string // Additional progress information
}

// Reporter is the interface for sending progress events.
// Invocations emit real-time updates during execution through it.
type Reporter interface {
	// Report sends a progress event. Implementations should be non-blocking
	// and handle the case where the receiver might not be listening.
	Report(event Event)
	// Close signals that no more events will be sent and cleans up resources.
	Close()
}

// Listener receives progress events.
// TUI implementations and other monitoring systems implement this interface.
type Listener interface {
	// OnEvent is called when a progress event is received.
	// Implementations should handle events quickly to avoid blocking
	// the reporting goroutine.
	OnEvent(event Event)
}

// NullReporter is a no-op implementation of Reporter.
// Used when progress reporting is not needed.
type NullReporter struct{}

// Report implements Reporter.Report by doing nothing.
func (nr *NullReporter) Report(event Event) {
	// No-op
}

// Close implements Reporter.Close by doing nothing.
func (nr *NullReporter) Close() {
	// No-op
}

// NewNullReporter creates a new NullReporter.
func NewNullReporter() Reporter {
	return &NullReporter{}
}
