package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/codriver-ai/codriver/internal/domain"
)

// ANSI color codes, applied only when writing to a terminal.
const (
	ansiReset  = "\x1b[0m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiRed    = "\x1b[31m"
	ansiBold   = "\x1b[1m"
)

// Renderer prints plans, verdicts and reports in a plain, ASCII-only format.
type Renderer struct {
	out   io.Writer
	color bool
}

// NewRenderer builds a renderer for the writer, enabling color when the
// writer is the process stdout attached to a terminal.
func NewRenderer(out io.Writer) *Renderer {
	color := false
	if f, ok := out.(*os.File); ok {
		color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Renderer{out: out, color: color}
}

func (r *Renderer) paint(code, s string) string {
	if !r.color {
		return s
	}
	return code + s + ansiReset
}

func (r *Renderer) riskLabel(level domain.RiskLevel) string {
	label := strings.ToUpper(string(level))
	switch level {
	case domain.RiskLow:
		return r.paint(ansiGreen, label)
	case domain.RiskMedium:
		return r.paint(ansiYellow, label)
	default:
		return r.paint(ansiRed, label)
	}
}

// RenderVerdict prints a single classification outcome.
func (r *Renderer) RenderVerdict(command string, verdict domain.SafetyVerdict, autoApprove bool) {
	fmt.Fprintf(r.out, "Command: %s\n", command)
	fmt.Fprintf(r.out, "Risk: %s\n", r.riskLabel(verdict.RiskLevel))
	fmt.Fprintf(r.out, "Reason: %s\n", verdict.Reason)
	if autoApprove {
		fmt.Fprintln(r.out, "Auto-approve: yes")
	} else {
		fmt.Fprintln(r.out, "Auto-approve: no (requires confirmation)")
	}
}

// RenderPlan prints the plan header and one line per step.
func (r *Renderer) RenderPlan(plan *domain.ExecutionPlan) {
	fmt.Fprintf(r.out, "Plan %s\n", plan.ID)
	fmt.Fprintf(r.out, "Risk: %s  Estimated: %ds  Steps: %d\n",
		r.riskLabel(plan.RiskLevel), plan.EstimatedSeconds, len(plan.Steps))
	for _, step := range plan.Steps {
		marker := " "
		if step.AutoApproved {
			marker = "*"
		}
		fmt.Fprintf(r.out, "  %s %-8s [%s] %s\n", marker, step.ID, step.Kind, step.Description)
	}
	if len(plan.Steps) > 0 {
		fmt.Fprintln(r.out, "  (* = auto-approved)")
	}
}

// RenderProgress prints one step lifecycle update.
func (r *Renderer) RenderProgress(step domain.ExecutionStep) {
	switch step.Status {
	case domain.StatusRunning:
		fmt.Fprintf(r.out, "%s %s %s\n", r.paint(ansiBold, "->"), step.ID, step.Description)
	case domain.StatusCompleted:
		fmt.Fprintf(r.out, "%s %s\n", r.paint(ansiGreen, "ok"), step.ID)
		if step.Output != "" {
			r.renderIndented(step.Output)
		}
	case domain.StatusFailed:
		fmt.Fprintf(r.out, "%s %s: %s\n", r.paint(ansiRed, "FAIL"), step.ID, step.Error)
		if step.Output != "" {
			r.renderIndented(step.Output)
		}
	case domain.StatusSkipped:
		fmt.Fprintf(r.out, "%s %s\n", r.paint(ansiYellow, "skip"), step.ID)
	}
}

func (r *Renderer) renderIndented(text string) {
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		fmt.Fprintf(r.out, "   | %s\n", line)
	}
}

// RenderRunSummary prints the outcome tally after a run.
func (r *Renderer) RenderRunSummary(executed []*domain.ExecutionStep, total int) {
	completed, failed := 0, 0
	for _, step := range executed {
		switch step.Status {
		case domain.StatusCompleted:
			completed++
		case domain.StatusFailed:
			failed++
		}
	}
	fmt.Fprintf(r.out, "\n%d of %d steps executed: %d completed, %d failed\n",
		len(executed), total, completed, failed)
	if pending := total - len(executed); pending > 0 {
		fmt.Fprintf(r.out, "%d step(s) require confirmation and were not run\n", pending)
	}
}

// RenderHistory prints persisted run records, newest first.
func (r *Renderer) RenderHistory(records []domain.RunRecord) {
	if len(records) == 0 {
		fmt.Fprintln(r.out, "No run history recorded yet.")
		return
	}
	for _, rec := range records {
		status := string(rec.Status)
		if rec.Status == domain.StatusFailed {
			status = r.paint(ansiRed, status)
		}
		fmt.Fprintf(r.out, "%-14s %-9s exit=%-3d %s\n",
			humanize.Time(rec.Timestamp), status, rec.ExitCode, rec.Command)
		if rec.Error != "" {
			fmt.Fprintf(r.out, "   | %s\n", rec.Error)
		}
	}
}

// RenderDoctorReport prints the health check findings.
func (r *Renderer) RenderDoctorReport(report domain.HealthReport) {
	for _, check := range report.Checks {
		label := strings.ToUpper(string(check.Status))
		switch check.Status {
		case domain.CheckOK:
			label = r.paint(ansiGreen, label)
		case domain.CheckWarn:
			label = r.paint(ansiYellow, label)
		case domain.CheckFail:
			label = r.paint(ansiRed, label)
		}
		fmt.Fprintf(r.out, "[%s] %s - %s\n", label, check.Name, check.Detail)
	}
	if report.Healthy() {
		fmt.Fprintln(r.out, "Environment looks good.")
	}
}

// RenderUsage prints the per-command execution tally.
func (r *Renderer) RenderUsage(stats map[string]domain.CommandUsage) {
	if len(stats) == 0 {
		return
	}
	fmt.Fprintln(r.out, "Command usage:")
	for cmd, usage := range stats {
		fmt.Fprintf(r.out, "  %-12s runs=%d failures=%d last=%s\n",
			cmd, usage.Count, usage.Failures,
			humanize.Time(time.Unix(usage.LastUsedAt, 0)))
	}
}
