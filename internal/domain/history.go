package domain

import "time"

// RunRecord captures one executed step for the persistent run history.
type RunRecord struct {
	Timestamp    time.Time  `json:"timestamp"`
	PlanID       string     `json:"plan_id"`
	StepID       string     `json:"step_id"`
	Kind         StepKind   `json:"kind"`
	Command      string     `json:"command"`
	AutoApproved bool       `json:"auto_approved"`
	Status       StepStatus `json:"status"`
	ExitCode     int        `json:"exit_code"`
	Error        string     `json:"error,omitempty"`
	DurationMS   int64      `json:"duration_ms"`
}
