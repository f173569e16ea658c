package domain_test

import (
	"strings"
	"testing"

	"github.com/codriver-ai/codriver/internal/domain"
)

func TestNewPlanRiskDerivation(t *testing.T) {
	tests := []struct {
		name         string
		approved     []bool
		wantRisk     domain.RiskLevel
		wantEstimate int
	}{
		{
			name:         "empty plan is low risk",
			approved:     nil,
			wantRisk:     domain.RiskLow,
			wantEstimate: 0,
		},
		{
			name:         "all approved is low risk",
			approved:     []bool{true, true, true},
			wantRisk:     domain.RiskLow,
			wantEstimate: 15,
		},
		{
			name:         "minority unapproved is medium risk",
			approved:     []bool{true, true, false},
			wantRisk:     domain.RiskMedium,
			wantEstimate: 15,
		},
		{
			name:         "majority unapproved is high risk",
			approved:     []bool{false, false, true},
			wantRisk:     domain.RiskHigh,
			wantEstimate: 15,
		},
		{
			name:         "single unapproved step is high risk",
			approved:     []bool{false},
			wantRisk:     domain.RiskHigh,
			wantEstimate: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var steps []*domain.ExecutionStep
			for i, ok := range tt.approved {
				steps = append(steps, &domain.ExecutionStep{
					ID:           domain.StepID(i + 1),
					Kind:         domain.StepCommand,
					AutoApproved: ok,
					Status:       domain.StatusPending,
				})
			}
			plan := domain.NewPlan("plan-test", steps)
			if plan.RiskLevel != tt.wantRisk {
				t.Errorf("risk = %s, want %s", plan.RiskLevel, tt.wantRisk)
			}
			if plan.EstimatedSeconds != tt.wantEstimate {
				t.Errorf("estimate = %d, want %d", plan.EstimatedSeconds, tt.wantEstimate)
			}
		})
	}
}

func TestDescribeCommandTruncates(t *testing.T) {
	long := strings.Repeat("a", 80)
	got := domain.DescribeCommand(long)
	want := "Execute: " + strings.Repeat("a", 50) + "..."
	if got != want {
		t.Errorf("DescribeCommand(long) = %q, want %q", got, want)
	}

	if got := domain.DescribeCommand("ls -la"); got != "Execute: ls -la" {
		t.Errorf("DescribeCommand(short) = %q", got)
	}
}

func TestAutoApprovedPreservesOrder(t *testing.T) {
	steps := []*domain.ExecutionStep{
		{ID: "step-1", AutoApproved: true},
		{ID: "step-2", AutoApproved: false},
		{ID: "step-3", AutoApproved: true},
	}
	plan := domain.NewPlan("plan-test", steps)

	got := plan.AutoApproved()
	if len(got) != 2 || got[0].ID != "step-1" || got[1].ID != "step-3" {
		t.Fatalf("AutoApproved() returned wrong steps: %+v", got)
	}
}

func TestStepStatusTerminal(t *testing.T) {
	terminal := []domain.StepStatus{domain.StatusCompleted, domain.StatusFailed, domain.StatusSkipped}
	for _, s := range terminal {
		if !s.Terminal() {
			t.Errorf("%s should be terminal", s)
		}
	}
	for _, s := range []domain.StepStatus{domain.StatusPending, domain.StatusRunning} {
		if s.Terminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}
}

func TestRiskLevelOrdering(t *testing.T) {
	if !domain.RiskCritical.MoreSevere(domain.RiskHigh) {
		t.Error("critical should outrank high")
	}
	if !domain.RiskMedium.AtMost(domain.RiskMedium) {
		t.Error("AtMost should be inclusive")
	}
	if domain.RiskLow.MoreSevere(domain.RiskLow) {
		t.Error("a level does not outrank itself")
	}
}
