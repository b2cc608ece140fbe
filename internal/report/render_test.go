package report

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shipshapehq/shipshape/internal/model"
)

func sampleReport() *model.Report {
	report := &model.Report{Target: "acme/widgets", Duration: 1234 * time.Millisecond}
	report.Add(model.CheckResult{CheckID: "repository", Status: model.StatusSatisfied, Message: "repository acme/widgets exists"})
	report.Add(model.CheckResult{CheckID: "auto-merge", Status: model.StatusApplied, Message: "auto-merge enabled"})
	report.Add(model.CheckResult{
		CheckID:  "workflow",
		Status:   model.StatusAbsent,
		Message:  "no workflow file at .github/workflows/ci.yml",
		Guidance: "add a CI workflow so merges are gated on checks",
	})
	return report
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleReport(), false))

	out := buf.String()
	require.Contains(t, out, "Target: acme/widgets")
	require.Contains(t, out, "CHECK")
	require.Contains(t, out, "repository")
	require.Contains(t, out, "warning")
	require.Contains(t, out, "hint (workflow):")
	require.Contains(t, out, "1 satisfied, 1 applied, 1 warnings in 1.234s")

	// A non-terminal writer must receive no escape sequences.
	require.NotContains(t, out, "\x1b[")
}

func TestRenderJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleReport(), true))

	var payload jsonPayload
	require.NoError(t, json.Unmarshal(buf.Bytes(), &payload))

	require.Equal(t, "acme/widgets", payload.Target)
	require.Equal(t, 0, payload.ExitCode)
	require.Len(t, payload.Results, 3)
	require.Equal(t, "workflow", payload.Results[2].Check)
	require.Equal(t, model.StatusAbsent, payload.Results[2].Status)
	require.NotEmpty(t, payload.Results[2].Guidance)
}

func TestRenderJSONCarriesErrors(t *testing.T) {
	report := &model.Report{Target: "docs.example.net"}
	report.Add(model.CheckResult{CheckID: "bucket", Status: model.StatusFailed, Message: "create failed", Error: errBoom})
	report.Add(model.CheckResult{CheckID: "website", Status: model.StatusSkipped, Message: "skipped: bucket failed"})

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, report, true))

	var payload jsonPayload
	require.NoError(t, json.Unmarshal(buf.Bytes(), &payload))
	require.Equal(t, 1, payload.ExitCode)
	require.Equal(t, "boom", payload.Results[0].Error)
}

var errBoom = &testError{"boom"}

type testError struct{ msg string }

func (e *testError) Error() string { return e.msg }
