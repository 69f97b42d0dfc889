// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package harness

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/matt-FFFFFF/wtest/internal/project"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *Report {
	return &Report{
		Results: []ProjectResult{
			{
				Project:   project.Project{Name: "alpha"},
				Outcome:   Pass,
				RunOutput: []byte("ok\n"),
			},
			{
				Project:     project.Project{Name: "beta"},
				Outcome:     Error,
				BuildOutput: []byte("nope\n"),
			},
			{
				Project:   project.Project{Name: "gamma"},
				Outcome:   Fail,
				RunOutput: []byte("bad assert\n"),
			},
		},
	}
}

func TestWriteSummary(t *testing.T) {
	out := new(bytes.Buffer)
	require.NoError(t, sampleReport().WriteSummary(out))

	expected := "Passed: 1/3\n" +
		"Errored: 1/3: [beta]\n" +
		"\n====== COMPILATION ERRORS ======\n\n" +
		"nope\n\n" +
		"Failed: 1/3: [gamma]\n" +
		"\n====== RUN ERRORS ======\n\n" +
		"bad assert\n\n" +
		"\n"
	assert.Equal(t, expected, out.String())
}

func TestWriteSummary_AllPassed(t *testing.T) {
	report := &Report{
		Results: []ProjectResult{
			{Project: project.Project{Name: "alpha"}, Outcome: Pass},
			{Project: project.Project{Name: "beta"}, Outcome: Pass},
		},
	}

	out := new(bytes.Buffer)
	require.NoError(t, report.WriteSummary(out))

	assert.Equal(t, "Passed: 2/2\n\n", out.String())
}

func TestWriteSummary_ResolutionDiagnostic(t *testing.T) {
	report := &Report{
		Results: []ProjectResult{
			{
				Project:     project.Project{Name: "alpha"},
				Outcome:     Error,
				BuildOutput: []byte("build went fine\n"),
				Err:         fmt.Errorf("%w: no line begins with \"EXE\"", project.ErrNoExecutable),
			},
		},
	}

	out := new(bytes.Buffer)
	require.NoError(t, report.WriteSummary(out))

	got := out.String()
	assert.Contains(t, got, "no line begins with")
	assert.NotContains(t, got, "build went fine",
		"a successful build's output does not belong in the error blob")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("write failed")
}

func TestWriteSummary_WriteError(t *testing.T) {
	err := sampleReport().WriteSummary(failingWriter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write failed")
}

func TestReport_Accessors(t *testing.T) {
	report := sampleReport()

	assert.Equal(t, 3, report.Total())
	assert.Equal(t, []string{"alpha"}, report.Passed())
	assert.Equal(t, []string{"gamma"}, report.Failed())
	assert.Equal(t, []string{"beta"}, report.Errored())
	assert.False(t, report.Ok())

	res, ok := report.Result("beta")
	require.True(t, ok)
	assert.Equal(t, Error, res.Outcome)

	_, ok = report.Result("delta")
	assert.False(t, ok)
}

func TestReport_OkWhenEmpty(t *testing.T) {
	assert.True(t, (&Report{}).Ok())
}
