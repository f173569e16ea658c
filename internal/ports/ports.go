// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// The application core depends on these abstractions; concrete adapters live
// in the infrastructure layer. The terminal backend, project inspection, and
// persistence are deliberately collaborator boundaries: the orchestrator only
// ever sees these interfaces.
package ports

import (
	"context"

	"github.com/codriver-ai/codriver/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.codriver/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// ExecResult is what the terminal backend reports for one command.
type ExecResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Terminal runs one shell command in a working directory. Implementations
// must not return an error for ordinary non-zero exits; errors are reserved
// for genuine transport failures (the orchestrator records those as step
// failures).
type Terminal interface {
	Execute(ctx context.Context, command, workdir string) (ExecResult, error)
}

// SafetyPolicy answers whether commands and file operations may proceed
// without human confirmation.
type SafetyPolicy interface {
	Classify(command string) domain.SafetyVerdict
	ShouldAutoApprove(command string) bool
	ShouldApproveFileOp(op domain.FileOperation, path string) bool
	RecordExecution(command string, succeeded bool)
	ResetExecutionCounter()
	Mode() domain.AutoApprovalMode
	ExportConfig() domain.PolicyConfig
	ImportConfig(patch domain.PolicyPatch)
}

// Planner turns raw AI response text into an execution plan.
type Planner interface {
	CreatePlan(responseText string) *domain.ExecutionPlan
}

// ProgressSink receives immutable step snapshots as the orchestrator moves a
// step through its lifecycle. Calls are synchronous and must not block.
type ProgressSink func(step domain.ExecutionStep)

// ProjectInspector derives toolchain commands from the workspace contents.
type ProjectInspector interface {
	// TestCommand returns the project's test invocation, or ok=false when
	// none can be derived from the manifests present.
	TestCommand(workdir string) (command string, ok bool)
}

// HistoryRepository persists run records across sessions.
type HistoryRepository interface {
	Save(record domain.RunRecord) error
	Records(limit int, search string) ([]domain.RunRecord, error)
	Clear() error
}

// PolicyRulesSource loads the pattern tables for the safety policy.
type PolicyRulesSource interface {
	Load() (domain.PolicyConfig, error)
}

// Logger provides structured logging for the application layer.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
