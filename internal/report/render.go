package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/shipshapehq/shipshape/internal/model"
)

var (
	headerStyle     = lipgloss.NewStyle().Bold(true)
	satisfiedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	appliedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	wouldApplyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
	failedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	skippedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	absentStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	guidanceStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)
)

// Render writes the run report to w. Terminals get a colored table, plain
// writers get the same table uncolored, and asJSON switches to a stable
// machine-readable payload.
func Render(w io.Writer, report *model.Report, asJSON bool) error {
	if asJSON {
		return renderJSON(w, report)
	}
	return renderTable(w, report)
}

func renderTable(w io.Writer, report *model.Report) error {
	colored := isTerminal(w)

	fmt.Fprintln(w, styled(headerStyle, fmt.Sprintf("Target: %s", report.Target), colored))

	writer := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "CHECK\tSTATUS\tDETAIL")
	for _, res := range report.Results {
		fmt.Fprintf(writer, "%s\t%s\t%s\n",
			res.CheckID,
			styled(statusStyle(res.Status), statusLabel(res.Status), colored),
			res.Message,
		)
	}
	if err := writer.Flush(); err != nil {
		return err
	}

	for _, res := range report.Results {
		if res.Guidance != "" {
			fmt.Fprintln(w, styled(guidanceStyle, fmt.Sprintf("  hint (%s): %s", res.CheckID, res.Guidance), colored))
		}
	}

	fmt.Fprintln(w, summaryLine(report))
	return nil
}

func summaryLine(report *model.Report) string {
	parts := []string{}
	add := func(count int, label string) {
		if count > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", count, label))
		}
	}
	add(report.Satisfied, "satisfied")
	add(report.Applied, "applied")
	add(report.WouldApply, "would apply")
	add(report.Failed, "failed")
	add(report.Skipped, "skipped")
	add(report.Absent, "warnings")

	return fmt.Sprintf("%s in %s", strings.Join(parts, ", "), report.Duration.Round(time.Millisecond))
}

type jsonResult struct {
	Check    string `json:"check"`
	Status   string `json:"status"`
	Message  string `json:"message"`
	Guidance string `json:"guidance,omitempty"`
	Error    string `json:"error,omitempty"`
}

type jsonPayload struct {
	Version    string       `json:"version"`
	Target     string       `json:"target"`
	DurationMS int64        `json:"duration_ms"`
	ExitCode   int          `json:"exit_code"`
	Results    []jsonResult `json:"results"`
}

func renderJSON(w io.Writer, report *model.Report) error {
	payload := jsonPayload{
		Version:    "1.0",
		Target:     report.Target,
		DurationMS: report.Duration.Milliseconds(),
		ExitCode:   report.ExitCode(),
		Results:    make([]jsonResult, len(report.Results)),
	}
	for i, res := range report.Results {
		entry := jsonResult{
			Check:    res.CheckID,
			Status:   res.Status,
			Message:  res.Message,
			Guidance: res.Guidance,
		}
		if res.Error != nil {
			entry.Error = res.Error.Error()
		}
		payload.Results[i] = entry
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}

func isTerminal(w io.Writer) bool {
	if file, ok := w.(*os.File); ok {
		return term.IsTerminal(int(file.Fd()))
	}
	return false
}

func styled(style lipgloss.Style, text string, colored bool) string {
	if !colored {
		return text
	}
	return style.Render(text)
}

func statusStyle(status string) lipgloss.Style {
	switch status {
	case model.StatusSatisfied:
		return satisfiedStyle
	case model.StatusApplied:
		return appliedStyle
	case model.StatusWouldApply:
		return wouldApplyStyle
	case model.StatusFailed:
		return failedStyle
	case model.StatusSkipped:
		return skippedStyle
	case model.StatusAbsent:
		return absentStyle
	}
	return lipgloss.NewStyle()
}

func statusLabel(status string) string {
	switch status {
	case model.StatusWouldApply:
		return "would apply"
	case model.StatusAbsent:
		return "warning"
	}
	return status
}
