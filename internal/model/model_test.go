package model

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestReportCounters(t *testing.T) {
	report := &Report{Target: "acme/widgets"}

	report.Add(CheckResult{CheckID: "repository", Status: StatusSatisfied})
	report.Add(CheckResult{CheckID: "auto-merge", Status: StatusApplied})
	report.Add(CheckResult{CheckID: "branch-protection", Status: StatusFailed, Error: fmt.Errorf("boom")})
	report.Add(CheckResult{CheckID: "workflow", Status: StatusAbsent})

	require.Len(t, report.Results, 4)
	require.Equal(t, 1, report.Satisfied)
	require.Equal(t, 1, report.Applied)
	require.Equal(t, 1, report.Failed)
	require.Equal(t, 1, report.Absent)
	require.True(t, report.HasFailures())
	require.Equal(t, 1, report.ExitCode())
}

func TestReportAllSatisfied(t *testing.T) {
	report := &Report{}
	report.Add(CheckResult{CheckID: "repository", Status: StatusSatisfied})
	report.Add(CheckResult{CheckID: "auto-merge", Status: StatusSatisfied})

	require.True(t, report.AllSatisfied())
	require.False(t, report.HasFailures())
	require.Equal(t, 0, report.ExitCode())
}

func TestReportAdvisoryAbsenceIsNotFailure(t *testing.T) {
	report := &Report{}
	report.Add(CheckResult{CheckID: "bucket", Status: StatusApplied})
	report.Add(CheckResult{CheckID: "dns-alias", Status: StatusAbsent, Guidance: "create an A record manually"})

	require.False(t, report.HasFailures())
	require.Equal(t, 0, report.ExitCode())
}

func TestReportSkippedCountsAsFailure(t *testing.T) {
	report := &Report{}
	report.Add(CheckResult{CheckID: "repository", Status: StatusFailed, Error: fmt.Errorf("not found")})
	report.Add(CheckResult{CheckID: "auto-merge", Status: StatusSkipped})
	report.Add(CheckResult{CheckID: "branch-protection", Status: StatusSkipped})

	require.Equal(t, 2, report.Skipped)
	require.True(t, report.HasFailures())
	require.Equal(t, 1, report.ExitCode())
}

func TestEmptyReportIsNotAllSatisfied(t *testing.T) {
	report := &Report{Duration: time.Second}
	require.False(t, report.AllSatisfied())
}
