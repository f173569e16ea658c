// Package plan turns raw AI response text into ordered execution plans.
package plan

import (
	"github.com/google/uuid"

	"github.com/codriver-ai/codriver/internal/domain"
	"github.com/codriver-ai/codriver/internal/infrastructure/parser"
	"github.com/codriver-ai/codriver/internal/ports"
)

// Service builds execution plans. Construction is pure and synchronous:
// malformed input yields an empty or partial plan, never an error.
type Service struct {
	Policy ports.SafetyPolicy
	Logger ports.Logger

	// NewPlanID generates plan identifiers; overridable in tests.
	NewPlanID func() string
}

// NewService wires a planner against a safety policy.
func NewService(policy ports.SafetyPolicy, log ports.Logger) *Service {
	return &Service{
		Policy:    policy,
		Logger:    log,
		NewPlanID: func() string { return "plan-" + uuid.NewString() },
	}
}

// CreatePlan implements ports.Planner.
func (s *Service) CreatePlan(responseText string) *domain.ExecutionPlan {
	commands := parser.CommandsFromResponse(responseText)

	steps := make([]*domain.ExecutionStep, 0, len(commands))
	for i, command := range commands {
		steps = append(steps, &domain.ExecutionStep{
			ID:           domain.StepID(i + 1),
			Kind:         domain.StepCommand,
			Description:  domain.DescribeCommand(command),
			Command:      command,
			AutoApproved: s.Policy.ShouldAutoApprove(command),
			Status:       domain.StatusPending,
		})
	}

	p := domain.NewPlan(s.NewPlanID(), steps)
	if s.Logger != nil {
		s.Logger.Debug("plan created", map[string]interface{}{
			"plan":  p.ID,
			"steps": len(p.Steps),
			"risk":  string(p.RiskLevel),
		})
	}
	return p
}

var _ ports.Planner = (*Service)(nil)
