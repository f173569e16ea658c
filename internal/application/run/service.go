// Package run executes the auto-approved subset of an execution plan.
package run

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/codriver-ai/codriver/internal/domain"
	"github.com/codriver-ai/codriver/internal/ports"
)

// Precondition failure messages surfaced verbatim in step errors.
const (
	errNoWorkspace   = "No workspace set"
	errNoCommand     = "No command specified"
	errNoTestCommand = "no test command could be derived from the project"
)

// Service is the execution orchestrator. It walks a plan's auto-approved
// steps strictly sequentially, records every outcome into the run-scoped
// history, and applies the conservative-mode early-stop rule.
//
// Step objects are mutated in place; progress sinks receive detached
// snapshots so the UI never aliases state the orchestrator is writing to.
type Service struct {
	Policy    ports.SafetyPolicy
	Terminal  ports.Terminal
	Inspector ports.ProjectInspector
	Store     ports.HistoryRepository
	Logger    ports.Logger

	mu        sync.Mutex
	workspace string
	planID    string
	history   []domain.ExecutionStep
}

// NewService wires an orchestrator.
func NewService(policy ports.SafetyPolicy, terminal ports.Terminal, log ports.Logger) *Service {
	return &Service{Policy: policy, Terminal: terminal, Logger: log}
}

// SetWorkspace sets the working directory for subsequent runs.
func (s *Service) SetWorkspace(dir string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workspace = dir
}

// Workspace returns the active working directory, empty when unset.
func (s *Service) Workspace() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.workspace
}

// RunStep executes one step against the terminal collaborator, mutating the
// step in place and returning it. Failures are recorded in the step's own
// state; RunStep itself never returns an error.
func (s *Service) RunStep(ctx context.Context, step *domain.ExecutionStep, onProgress ports.ProgressSink) *domain.ExecutionStep {
	workdir := s.Workspace()
	if workdir == "" {
		step.Status = domain.StatusFailed
		step.Error = errNoWorkspace
		s.appendHistory(step, 0, 0)
		emit(onProgress, step)
		return step
	}

	step.Status = domain.StatusRunning
	emit(onProgress, step)

	start := time.Now()
	exitCode := 0

	switch step.Kind {
	case domain.StepCommand:
		exitCode = s.runCommand(ctx, step, step.Command, workdir)
	case domain.StepFileRead, domain.StepFileWrite, domain.StepAnalysis:
		// Delegated to collaborators outside this core; completed here so
		// plan sequencing proceeds.
		step.Status = domain.StatusCompleted
	case domain.StepTest:
		command := step.Command
		if command == "" && s.Inspector != nil {
			if derived, ok := s.Inspector.TestCommand(workdir); ok {
				command = derived
			}
		}
		if command == "" {
			// A step may never be left running: no derivable test command
			// is a deterministic failure.
			step.Status = domain.StatusFailed
			step.Error = errNoTestCommand
		} else {
			step.Command = command
			exitCode = s.runCommand(ctx, step, command, workdir)
		}
	default:
		step.Status = domain.StatusFailed
		step.Error = fmt.Sprintf("unknown step kind: %s", step.Kind)
	}

	s.appendHistory(step, exitCode, time.Since(start).Milliseconds())
	emit(onProgress, step)
	return step
}

// runCommand dispatches a command step and returns the exit code.
func (s *Service) runCommand(ctx context.Context, step *domain.ExecutionStep, command, workdir string) int {
	if command == "" {
		step.Status = domain.StatusFailed
		step.Error = errNoCommand
		return 0
	}

	result, err := s.Terminal.Execute(ctx, command, workdir)
	if err != nil {
		// Transport failure from the collaborator: recorded, not raised.
		step.Status = domain.StatusFailed
		step.Error = err.Error()
		s.Policy.RecordExecution(command, false)
		return -1
	}

	step.Output = composeOutput(result)
	if result.ExitCode == 0 {
		step.Status = domain.StatusCompleted
	} else {
		step.Status = domain.StatusFailed
		step.Error = fmt.Sprintf("Exit code: %d", result.ExitCode)
	}
	s.Policy.RecordExecution(command, result.ExitCode == 0)
	return result.ExitCode
}

// RunAutoApprovedSteps executes the plan's auto-approved steps strictly
// sequentially, in plan order. Under conservative mode the run stops at the
// first failed step; later steps stay pending for the confirmation path.
// The returned slice holds the steps that were actually attempted.
func (s *Service) RunAutoApprovedSteps(ctx context.Context, plan *domain.ExecutionPlan, onProgress ports.ProgressSink) []*domain.ExecutionStep {
	s.mu.Lock()
	s.planID = plan.ID
	s.mu.Unlock()

	var attempted []*domain.ExecutionStep
	for _, step := range plan.AutoApproved() {
		s.RunStep(ctx, step, onProgress)
		attempted = append(attempted, step)

		if step.Status == domain.StatusFailed && s.Policy.Mode() == domain.ModeConservative {
			if s.Logger != nil {
				s.Logger.Warn("stopping after failed step", map[string]interface{}{
					"step":  step.ID,
					"error": step.Error,
				})
			}
			break
		}
	}
	return attempted
}

// History returns a snapshot of every step run this session, across plans.
func (s *Service) History() []domain.ExecutionStep {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.ExecutionStep(nil), s.history...)
}

// ClearHistory drops the session history and resets the policy's execution
// counter. The two are coupled: a new task boundary resets both reasoning
// and safety bookkeeping together.
func (s *Service) ClearHistory() {
	s.mu.Lock()
	s.history = nil
	s.mu.Unlock()
	s.Policy.ResetExecutionCounter()
}

func (s *Service) appendHistory(step *domain.ExecutionStep, exitCode int, durationMS int64) {
	s.mu.Lock()
	s.history = append(s.history, *step)
	planID := s.planID
	s.mu.Unlock()

	if s.Store == nil {
		return
	}
	record := domain.RunRecord{
		Timestamp:    time.Now(),
		PlanID:       planID,
		StepID:       step.ID,
		Kind:         step.Kind,
		Command:      step.Command,
		AutoApproved: step.AutoApproved,
		Status:       step.Status,
		ExitCode:     exitCode,
		Error:        step.Error,
		DurationMS:   durationMS,
	}
	if err := s.Store.Save(record); err != nil && s.Logger != nil {
		s.Logger.Warn("history save failed", map[string]interface{}{"error": err.Error()})
	}
}

func emit(sink ports.ProgressSink, step *domain.ExecutionStep) {
	if sink != nil {
		sink(*step)
	}
}

func composeOutput(result ports.ExecResult) string {
	out := result.Stdout
	if strings.TrimSpace(result.Stderr) != "" {
		out += "\n[stderr]: " + result.Stderr
	}
	return out
}
