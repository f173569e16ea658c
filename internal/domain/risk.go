// Package domain defines the core entities of the codriver execution layer.
//
// The domain layer is independent of infrastructure concerns: it holds the
// risk model, the auto-approval policy configuration, and the execution plan
// types that the planner and orchestrator operate on.
package domain

// RiskLevel classifies how dangerous a command is considered to be.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

var riskOrder = map[RiskLevel]int{
	RiskLow:      0,
	RiskMedium:   1,
	RiskHigh:     2,
	RiskCritical: 3,
}

// AtMost reports whether r is no more severe than limit.
func (r RiskLevel) AtMost(limit RiskLevel) bool {
	return riskOrder[r] <= riskOrder[limit]
}

// MoreSevere reports whether r outranks other.
func (r RiskLevel) MoreSevere(other RiskLevel) bool {
	return riskOrder[r] > riskOrder[other]
}

// AutoApprovalMode governs which risk levels may run without confirmation.
type AutoApprovalMode string

const (
	ModeConservative AutoApprovalMode = "conservative"
	ModeBalanced     AutoApprovalMode = "balanced"
	ModeAggressive   AutoApprovalMode = "aggressive"
)

// IsValid reports whether the mode is one of the supported values.
func (m AutoApprovalMode) IsValid() bool {
	switch m {
	case ModeConservative, ModeBalanced, ModeAggressive:
		return true
	default:
		return false
	}
}

// SafetyVerdict is the outcome of classifying a single command string.
// Verdicts are produced fresh per call and are never mutated afterwards.
type SafetyVerdict struct {
	IsSafe    bool
	Reason    string
	RiskLevel RiskLevel
}

// FileOperation enumerates file actions subject to approval.
type FileOperation string

const (
	FileOpRead   FileOperation = "read"
	FileOpWrite  FileOperation = "write"
	FileOpDelete FileOperation = "delete"
	FileOpCreate FileOperation = "create"
)
