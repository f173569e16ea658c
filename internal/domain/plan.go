package domain

import "fmt"

// StepKind is the closed set of work units a plan can contain.
type StepKind string

const (
	StepCommand   StepKind = "command"
	StepFileRead  StepKind = "file_read"
	StepFileWrite StepKind = "file_write"
	StepAnalysis  StepKind = "analysis"
	StepTest      StepKind = "test"
)

// StepStatus follows pending -> running -> {completed | failed | skipped}.
// There are no backward transitions.
type StepStatus string

const (
	StatusPending   StepStatus = "pending"
	StatusRunning   StepStatus = "running"
	StatusCompleted StepStatus = "completed"
	StatusFailed    StepStatus = "failed"
	StatusSkipped   StepStatus = "skipped"
)

// Terminal reports whether the status is final.
func (s StepStatus) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusSkipped:
		return true
	default:
		return false
	}
}

// ExecutionStep is one unit of work in a plan. The orchestrator mutates
// Status, Output and Error in place while running; the containing plan is the
// single source of truth during a run.
type ExecutionStep struct {
	ID           string
	Kind         StepKind
	Description  string
	Command      string
	FilePath     string
	AutoApproved bool
	Status       StepStatus
	Output       string
	Error        string
}

// descriptionLimit caps how much of a command the step description echoes.
const descriptionLimit = 50

// DescribeCommand builds the canonical step description for a command.
func DescribeCommand(command string) string {
	if len(command) > descriptionLimit {
		return "Execute: " + command[:descriptionLimit] + "..."
	}
	return "Execute: " + command
}

// ExecutionPlan is an ordered set of steps derived from one AI response.
type ExecutionPlan struct {
	ID               string
	Steps            []*ExecutionStep
	EstimatedSeconds int
	RiskLevel        RiskLevel
}

// secondsPerStep is the fixed per-step time estimate.
const secondsPerStep = 5

// NewPlan assembles a plan from its steps and derives the estimate and the
// aggregate risk level. An empty plan is low risk with zero estimated time.
func NewPlan(id string, steps []*ExecutionStep) *ExecutionPlan {
	plan := &ExecutionPlan{
		ID:               id,
		Steps:            steps,
		EstimatedSeconds: len(steps) * secondsPerStep,
		RiskLevel:        RiskLow,
	}
	nonApproved := 0
	for _, step := range steps {
		if !step.AutoApproved {
			nonApproved++
		}
	}
	switch {
	case nonApproved > len(steps)/2:
		plan.RiskLevel = RiskHigh
	case nonApproved > 0:
		plan.RiskLevel = RiskMedium
	}
	return plan
}

// AutoApproved returns the auto-approved steps in plan order.
func (p *ExecutionPlan) AutoApproved() []*ExecutionStep {
	var out []*ExecutionStep
	for _, step := range p.Steps {
		if step.AutoApproved {
			out = append(out, step)
		}
	}
	return out
}

// StepID formats the sequential identifier for the n-th extracted command.
func StepID(n int) string {
	return fmt.Sprintf("step-%d", n)
}
