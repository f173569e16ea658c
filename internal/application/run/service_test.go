package run

import (
	"context"
	"errors"
	"testing"

	"github.com/codriver-ai/codriver/internal/domain"
	"github.com/codriver-ai/codriver/internal/infrastructure/policy"
	"github.com/codriver-ai/codriver/internal/ports"
)

// fakeTerminal scripts per-command results and records invocation order.
type fakeTerminal struct {
	results map[string]ports.ExecResult
	errs    map[string]error
	calls   []string
}

func (f *fakeTerminal) Execute(_ context.Context, command, _ string) (ports.ExecResult, error) {
	f.calls = append(f.calls, command)
	if err, ok := f.errs[command]; ok {
		return ports.ExecResult{}, err
	}
	if res, ok := f.results[command]; ok {
		return res, nil
	}
	return ports.ExecResult{Stdout: "ok"}, nil
}

type fakeInspector struct {
	command string
	ok      bool
}

func (f fakeInspector) TestCommand(string) (string, bool) { return f.command, f.ok }

func newOrchestrator(mode domain.AutoApprovalMode, terminal ports.Terminal) *Service {
	cfg := policy.DefaultConfig()
	cfg.Mode = mode
	s := NewService(policy.New(cfg, nil), terminal, nil)
	s.SetWorkspace("/tmp/project")
	return s
}

func commandStep(id, command string) *domain.ExecutionStep {
	return &domain.ExecutionStep{
		ID:           id,
		Kind:         domain.StepCommand,
		Command:      command,
		AutoApproved: true,
		Status:       domain.StatusPending,
	}
}

func TestRunStepSuccess(t *testing.T) {
	term := &fakeTerminal{results: map[string]ports.ExecResult{
		"go build ./...": {Stdout: "built", ExitCode: 0},
	}}
	s := newOrchestrator(domain.ModeBalanced, term)

	step := commandStep("step-1", "go build ./...")
	s.RunStep(context.Background(), step, nil)

	if step.Status != domain.StatusCompleted {
		t.Fatalf("status = %s, want completed (error %q)", step.Status, step.Error)
	}
	if step.Output != "built" {
		t.Errorf("output = %q", step.Output)
	}
}

func TestRunStepStderrComposition(t *testing.T) {
	term := &fakeTerminal{results: map[string]ports.ExecResult{
		"go vet ./...": {Stdout: "checking", Stderr: "warning: shadowed", ExitCode: 0},
	}}
	s := newOrchestrator(domain.ModeBalanced, term)

	step := commandStep("step-1", "go vet ./...")
	s.RunStep(context.Background(), step, nil)

	want := "checking\n[stderr]: warning: shadowed"
	if step.Output != want {
		t.Errorf("output = %q, want %q", step.Output, want)
	}
}

func TestRunStepNonZeroExit(t *testing.T) {
	term := &fakeTerminal{results: map[string]ports.ExecResult{
		"go test ./...": {Stderr: "FAIL", ExitCode: 2},
	}}
	s := newOrchestrator(domain.ModeBalanced, term)

	step := commandStep("step-1", "go test ./...")
	s.RunStep(context.Background(), step, nil)

	if step.Status != domain.StatusFailed {
		t.Fatalf("status = %s, want failed", step.Status)
	}
	if step.Error != "Exit code: 2" {
		t.Errorf("error = %q, want %q", step.Error, "Exit code: 2")
	}
}

func TestRunStepNoWorkspace(t *testing.T) {
	term := &fakeTerminal{}
	s := newOrchestrator(domain.ModeBalanced, term)
	s.SetWorkspace("")

	step := commandStep("step-1", "ls")
	s.RunStep(context.Background(), step, nil)

	if step.Status != domain.StatusFailed || step.Error != "No workspace set" {
		t.Errorf("step = %s/%q", step.Status, step.Error)
	}
	if len(term.calls) != 0 {
		t.Error("terminal was invoked without a workspace")
	}
}

func TestRunStepNoCommand(t *testing.T) {
	term := &fakeTerminal{}
	s := newOrchestrator(domain.ModeBalanced, term)

	step := &domain.ExecutionStep{ID: "step-1", Kind: domain.StepCommand, AutoApproved: true}
	s.RunStep(context.Background(), step, nil)

	if step.Status != domain.StatusFailed || step.Error != "No command specified" {
		t.Errorf("step = %s/%q", step.Status, step.Error)
	}
	if len(term.calls) != 0 {
		t.Error("terminal was invoked for a command-less step")
	}
}

func TestRunStepTerminalTransportFailure(t *testing.T) {
	term := &fakeTerminal{errs: map[string]error{
		"git status": errors.New("terminal session lost"),
	}}
	s := newOrchestrator(domain.ModeBalanced, term)

	step := commandStep("step-1", "git status")
	s.RunStep(context.Background(), step, nil)

	if step.Status != domain.StatusFailed || step.Error != "terminal session lost" {
		t.Errorf("step = %s/%q", step.Status, step.Error)
	}
}

func TestRunStepPlaceholderKinds(t *testing.T) {
	s := newOrchestrator(domain.ModeBalanced, &fakeTerminal{})
	for _, kind := range []domain.StepKind{domain.StepFileRead, domain.StepFileWrite, domain.StepAnalysis} {
		step := &domain.ExecutionStep{ID: "step-1", Kind: kind, AutoApproved: true}
		s.RunStep(context.Background(), step, nil)
		if step.Status != domain.StatusCompleted {
			t.Errorf("kind %s: status = %s, want completed", kind, step.Status)
		}
	}
}

func TestRunStepTestKind(t *testing.T) {
	t.Run("derived command executes", func(t *testing.T) {
		term := &fakeTerminal{results: map[string]ports.ExecResult{
			"go test ./...": {ExitCode: 0},
		}}
		s := newOrchestrator(domain.ModeBalanced, term)
		s.Inspector = fakeInspector{command: "go test ./...", ok: true}

		step := &domain.ExecutionStep{ID: "step-1", Kind: domain.StepTest, AutoApproved: true}
		s.RunStep(context.Background(), step, nil)

		if step.Status != domain.StatusCompleted {
			t.Errorf("status = %s, want completed", step.Status)
		}
		if step.Command != "go test ./..." {
			t.Errorf("command = %q", step.Command)
		}
	})

	t.Run("no derivable command fails deterministically", func(t *testing.T) {
		s := newOrchestrator(domain.ModeBalanced, &fakeTerminal{})
		s.Inspector = fakeInspector{}

		step := &domain.ExecutionStep{ID: "step-1", Kind: domain.StepTest, AutoApproved: true}
		s.RunStep(context.Background(), step, nil)

		if step.Status != domain.StatusFailed || step.Error == "" {
			t.Errorf("step = %s/%q, want failed with descriptive error", step.Status, step.Error)
		}
	})
}

func TestRunStepProgressSnapshots(t *testing.T) {
	term := &fakeTerminal{results: map[string]ports.ExecResult{"ls": {ExitCode: 0}}}
	s := newOrchestrator(domain.ModeBalanced, term)

	var seen []domain.StepStatus
	step := commandStep("step-1", "ls")
	s.RunStep(context.Background(), step, func(snap domain.ExecutionStep) {
		seen = append(seen, snap.Status)
		// Mutating the snapshot must not leak into the live step.
		snap.Status = domain.StatusSkipped
	})

	if len(seen) != 2 || seen[0] != domain.StatusRunning || seen[1] != domain.StatusCompleted {
		t.Errorf("progress statuses = %v", seen)
	}
	if step.Status != domain.StatusCompleted {
		t.Errorf("snapshot mutation leaked: step status = %s", step.Status)
	}
}

func TestRunAutoApprovedStepsEarlyStop(t *testing.T) {
	failing := &fakeTerminal{results: map[string]ports.ExecResult{
		"go build ./...": {ExitCode: 1},
		"go test ./...":  {ExitCode: 0},
	}}

	t.Run("conservative stops after failure", func(t *testing.T) {
		term := &fakeTerminal{results: failing.results}
		s := newOrchestrator(domain.ModeConservative, term)

		x := commandStep("step-1", "go build ./...")
		y := commandStep("step-2", "go test ./...")
		plan := domain.NewPlan("plan-1", []*domain.ExecutionStep{x, y})

		attempted := s.RunAutoApprovedSteps(context.Background(), plan, nil)

		if len(attempted) != 1 || attempted[0] != x {
			t.Fatalf("attempted = %d steps", len(attempted))
		}
		if x.Status != domain.StatusFailed {
			t.Errorf("x status = %s", x.Status)
		}
		if y.Status != domain.StatusPending {
			t.Errorf("y status = %s, want pending", y.Status)
		}
		if len(term.calls) != 1 {
			t.Errorf("terminal calls = %v", term.calls)
		}
	})

	t.Run("aggressive continues past failure", func(t *testing.T) {
		term := &fakeTerminal{results: failing.results}
		s := newOrchestrator(domain.ModeAggressive, term)

		x := commandStep("step-1", "go build ./...")
		y := commandStep("step-2", "go test ./...")
		plan := domain.NewPlan("plan-1", []*domain.ExecutionStep{x, y})

		attempted := s.RunAutoApprovedSteps(context.Background(), plan, nil)

		if len(attempted) != 2 {
			t.Fatalf("attempted = %d steps, want 2", len(attempted))
		}
		if y.Status != domain.StatusCompleted {
			t.Errorf("y status = %s, want completed", y.Status)
		}
	})
}

func TestRunAutoApprovedStepsSkipsUnapproved(t *testing.T) {
	term := &fakeTerminal{}
	s := newOrchestrator(domain.ModeBalanced, term)

	approved := commandStep("step-1", "git status")
	held := commandStep("step-2", "npm install")
	held.AutoApproved = false
	plan := domain.NewPlan("plan-1", []*domain.ExecutionStep{approved, held})

	attempted := s.RunAutoApprovedSteps(context.Background(), plan, nil)

	if len(attempted) != 1 || attempted[0].ID != "step-1" {
		t.Fatalf("attempted = %+v", attempted)
	}
	if held.Status != domain.StatusPending {
		t.Errorf("unapproved step status = %s, want pending", held.Status)
	}
}

func TestHistoryAccumulatesAndClears(t *testing.T) {
	term := &fakeTerminal{}
	s := newOrchestrator(domain.ModeBalanced, term)

	s.RunStep(context.Background(), commandStep("step-1", "git status"), nil)
	s.RunStep(context.Background(), commandStep("step-2", "git diff"), nil)

	history := s.History()
	if len(history) != 2 {
		t.Fatalf("history = %d entries, want 2", len(history))
	}

	// The snapshot is detached from internal state.
	history[0].Status = domain.StatusSkipped
	if s.History()[0].Status == domain.StatusSkipped {
		t.Error("history snapshot aliases internal state")
	}

	if got := s.Policy.(*policy.Policy).ExecutionCount(); got != 2 {
		t.Errorf("execution count = %d, want 2", got)
	}

	s.ClearHistory()
	if len(s.History()) != 0 {
		t.Error("history not cleared")
	}
	if got := s.Policy.(*policy.Policy).ExecutionCount(); got != 0 {
		t.Errorf("execution counter not reset with history, count = %d", got)
	}
}

func TestRunRecordsExecutionRegardlessOfOutcome(t *testing.T) {
	term := &fakeTerminal{results: map[string]ports.ExecResult{
		"go build ./...": {ExitCode: 1},
	}}
	s := newOrchestrator(domain.ModeAggressive, term)

	s.RunStep(context.Background(), commandStep("step-1", "go build ./..."), nil)
	s.RunStep(context.Background(), commandStep("step-2", "git status"), nil)

	stats := s.Policy.(*policy.Policy).UsageStats()
	if stats["go"].Count != 1 || stats["go"].Failures != 1 {
		t.Errorf("go tally = %+v", stats["go"])
	}
	if stats["git"].Count != 1 || stats["git"].Failures != 0 {
		t.Errorf("git tally = %+v", stats["git"])
	}
}
