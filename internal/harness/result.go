// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package harness

import (
	"time"

	"github.com/matt-FFFFFF/wtest/internal/project"
)

// ProjectResult is the outcome of one project's build-and-run cycle.
type ProjectResult struct {
	// Project identifies the test project.
	Project project.Project
	// Outcome classifies the result.
	Outcome Outcome
	// BuildOutput is the combined output of the build command.
	BuildOutput []byte
	// RunOutput is the combined output of the test executable.
	RunOutput []byte
	// Err carries resolution, start or timeout diagnostics. A plain nonzero
	// exit leaves it nil.
	Err error
	// Elapsed is the total build and run time.
	Elapsed time.Duration
}

// Report aggregates the results of one batch in run order.
type Report struct {
	Results []ProjectResult
}

func (r *Report) add(res ProjectResult) {
	r.Results = append(r.Results, res)
}

// Total returns the number of projects in the batch.
func (r *Report) Total() int {
	return len(r.Results)
}

// Passed returns the names of passed projects in run order.
func (r *Report) Passed() []string {
	return r.names(Pass)
}

// Failed returns the names of failed projects in run order.
func (r *Report) Failed() []string {
	return r.names(Fail)
}

// Errored returns the names of errored projects in run order.
func (r *Report) Errored() []string {
	return r.names(Error)
}

func (r *Report) names(o Outcome) []string {
	var names []string

	for _, res := range r.Results {
		if res.Outcome == o {
			names = append(names, res.Project.Name)
		}
	}

	return names
}

// Ok reports whether no project failed or errored.
func (r *Report) Ok() bool {
	for _, res := range r.Results {
		if res.Outcome != Pass {
			return false
		}
	}

	return true
}

// Result returns the result for the named project.
func (r *Report) Result(name string) (ProjectResult, bool) {
	for _, res := range r.Results {
		if res.Project.Name == name {
			return res, true
		}
	}

	return ProjectResult{}, false
}
