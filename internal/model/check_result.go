package model

import (
	"time"
)

const (
	// StatusSatisfied means the property already matched the desired state
	// and zero mutating calls were issued.
	StatusSatisfied = "satisfied"
	// StatusApplied means the property diverged and exactly one corrective
	// write succeeded.
	StatusApplied = "applied"
	// StatusWouldApply indicates dry-run detected divergence without writing.
	StatusWouldApply = "would_apply"
	// StatusFailed marks a failed corrective write or evaluation.
	StatusFailed = "failed"
	// StatusSkipped indicates the check was not attempted because an earlier
	// prerequisite failed.
	StatusSkipped = "skipped"
	// StatusAbsent marks an advisory lookup whose target does not exist;
	// the run continues and the result carries remediation guidance.
	StatusAbsent = "absent"
)

// CheckResult captures the outcome of reconciling a single property.
type CheckResult struct {
	CheckID   string
	Status    string
	Message   string
	Guidance  string
	Error     error
	Duration  time.Duration
	Timestamp time.Time
}

// Report is the ordered record of one reconciliation run. It is built
// incrementally by the runner and immutable once handed to the reporter.
type Report struct {
	Target   string
	Results  []CheckResult
	Duration time.Duration

	Satisfied  int
	Applied    int
	WouldApply int
	Failed     int
	Skipped    int
	Absent     int
}

// Add appends a result and updates the counters.
func (r *Report) Add(res CheckResult) {
	r.Results = append(r.Results, res)

	switch res.Status {
	case StatusSatisfied:
		r.Satisfied++
	case StatusApplied:
		r.Applied++
	case StatusWouldApply:
		r.WouldApply++
	case StatusFailed:
		r.Failed++
	case StatusSkipped:
		r.Skipped++
	case StatusAbsent:
		r.Absent++
	}
}

// HasFailures reports whether any property failed or was skipped behind a
// failed prerequisite.
func (r *Report) HasFailures() bool {
	return r.Failed > 0 || r.Skipped > 0
}

// AllSatisfied reports whether every check found its property already in the
// desired state. A run of an already-configured resource satisfies this.
func (r *Report) AllSatisfied() bool {
	return len(r.Results) > 0 && r.Satisfied+r.Absent == len(r.Results)
}

// ExitCode maps the report to a process exit code. Advisory absences are
// deliberately not failures; see the workflow/DNS policy note in DESIGN.md.
func (r *Report) ExitCode() int {
	if r.HasFailures() {
		return 1
	}
	return 0
}
