// Package policy implements the safety classifier that decides whether a
// shell command may run without human confirmation.
package policy

import (
	"strings"
	"sync"
	"time"

	"github.com/codriver-ai/codriver/internal/domain"
	"github.com/codriver-ai/codriver/internal/ports"
)

// matchKind records which rule table (if any) a command matched. The
// auto-approval decision needs this distinction: a confirm-pattern match and
// an unknown command both classify as medium risk, but only the latter is
// eligible for balanced-mode auto-approval.
type matchKind int

const (
	matchForbidden matchKind = iota
	matchElevated
	matchPiped
	matchTrusted
	matchConfirm
	matchNone
)

// Policy is the SafetyPolicy adapter. One instance is owned by the app
// container for the process lifetime; the counter and usage tally are guarded
// so concurrent plan runs cannot corrupt them.
type Policy struct {
	log ports.Logger

	mu        sync.Mutex
	cfg       domain.PolicyConfig
	execCount int
	usage     map[string]*domain.CommandUsage
	now       func() time.Time
}

// New builds a Policy from an explicit configuration.
func New(cfg domain.PolicyConfig, log ports.Logger) *Policy {
	if !cfg.Mode.IsValid() {
		cfg.Mode = domain.ModeBalanced
	}
	if cfg.MaxAutoExecutions <= 0 {
		cfg.MaxAutoExecutions = DefaultMaxAutoExecutions
	}
	return &Policy{
		log:   log,
		cfg:   cfg.Clone(),
		usage: make(map[string]*domain.CommandUsage),
		now:   time.Now,
	}
}

// NewFromSource builds a Policy from a rules source, falling back to the
// built-in defaults when the source fails.
func NewFromSource(src ports.PolicyRulesSource, log ports.Logger) *Policy {
	cfg, err := src.Load()
	if err != nil {
		if log != nil {
			log.Warn("policy rules load failed, using defaults", map[string]interface{}{"error": err.Error()})
		}
		cfg = DefaultConfig()
	}
	return New(cfg, log)
}

// Classify scores a command string. Classification is total: any input,
// including empty or non-command text, yields a verdict.
func (p *Policy) Classify(command string) domain.SafetyVerdict {
	p.mu.Lock()
	defer p.mu.Unlock()
	verdict, _ := p.classifyLocked(command)
	return verdict
}

// classifyLocked evaluates the rule tables in strict order; first match wins.
func (p *Policy) classifyLocked(command string) (domain.SafetyVerdict, matchKind) {
	normalized := strings.ToLower(strings.TrimSpace(command))

	for _, pattern := range p.cfg.ForbiddenPatterns {
		if pattern != "" && strings.Contains(normalized, strings.ToLower(pattern)) {
			return domain.SafetyVerdict{
				IsSafe:    false,
				RiskLevel: domain.RiskCritical,
				Reason:    "contains risky pattern: " + pattern,
			}, matchForbidden
		}
	}

	if strings.HasPrefix(normalized, "sudo ") || strings.Contains(normalized, "as administrator") {
		return domain.SafetyVerdict{
			IsSafe:    false,
			RiskLevel: domain.RiskCritical,
			Reason:    "requires elevated privileges",
		}, matchElevated
	}

	if strings.Contains(normalized, "| sh") || strings.Contains(normalized, "| bash") {
		return domain.SafetyVerdict{
			IsSafe:    false,
			RiskLevel: domain.RiskCritical,
			Reason:    "piped shell execution is dangerous",
		}, matchPiped
	}

	for _, pattern := range p.cfg.TrustedPatterns {
		if pattern != "" && strings.HasPrefix(normalized, strings.ToLower(pattern)) {
			return domain.SafetyVerdict{
				IsSafe:    true,
				RiskLevel: domain.RiskLow,
				Reason:    "trusted command pattern",
			}, matchTrusted
		}
	}

	for _, pattern := range p.cfg.ConfirmPatterns {
		if pattern != "" && strings.HasPrefix(normalized, strings.ToLower(pattern)) {
			return domain.SafetyVerdict{
				IsSafe:    true,
				RiskLevel: domain.RiskMedium,
				Reason:    "requires confirmation: " + pattern,
			}, matchConfirm
		}
	}

	return domain.SafetyVerdict{
		IsSafe:    true,
		RiskLevel: domain.RiskMedium,
		Reason:    "unknown command, proceed with caution",
	}, matchNone
}

// ShouldAutoApprove reports whether the command may run without human
// confirmation under the current mode. It never mutates the counter; that
// happens only through RecordExecution.
func (p *Policy) ShouldAutoApprove(command string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.cfg.Enabled {
		return false
	}
	if p.execCount >= p.cfg.MaxAutoExecutions {
		if p.log != nil {
			p.log.Info("auto-execution cap reached", map[string]interface{}{
				"count": p.execCount,
				"max":   p.cfg.MaxAutoExecutions,
			})
		}
		return false
	}

	verdict, kind := p.classifyLocked(command)
	switch p.cfg.Mode {
	case domain.ModeConservative:
		// Only trusted commands: there is no default-fallback path to low
		// risk, so low here always means a trusted-pattern match.
		return kind == matchTrusted && verdict.RiskLevel == domain.RiskLow
	case domain.ModeBalanced:
		// Low or medium, but confirm-pattern matches are deliberately kept
		// on the confirmation path.
		if kind == matchConfirm {
			return false
		}
		return verdict.RiskLevel.AtMost(domain.RiskMedium)
	case domain.ModeAggressive:
		return verdict.RiskLevel != domain.RiskCritical
	default:
		return false
	}
}

// ShouldApproveFileOp reports whether a file operation may proceed without
// confirmation. Reads are always allowed; sensitive paths are never touched
// by any other operation regardless of mode.
func (p *Policy) ShouldApproveFileOp(op domain.FileOperation, path string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.cfg.Enabled {
		return false
	}
	if op == domain.FileOpRead {
		return true
	}

	lowered := strings.ToLower(path)
	for _, marker := range defaultSensitiveMarkers {
		if strings.Contains(lowered, marker) {
			return false
		}
	}

	switch p.cfg.Mode {
	case domain.ModeConservative:
		return false
	case domain.ModeBalanced:
		return op == domain.FileOpWrite
	case domain.ModeAggressive:
		return true
	default:
		return false
	}
}

// RecordExecution increments the auto-execution counter and the per-prefix
// usage tally. The tally is keyed by the command's first token.
func (p *Policy) RecordExecution(command string, succeeded bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.execCount++

	prefix := firstToken(command)
	if prefix == "" {
		return
	}
	entry, ok := p.usage[prefix]
	if !ok {
		entry = &domain.CommandUsage{}
		p.usage[prefix] = entry
	}
	entry.Count++
	if !succeeded {
		entry.Failures++
	}
	entry.LastUsedAt = p.now().Unix()
}

// ResetExecutionCounter zeroes the counter. The usage tally persists; it is
// session-spanning trust-learning input, not safety bookkeeping.
func (p *Policy) ResetExecutionCounter() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.execCount = 0
}

// ExecutionCount returns the number of recorded executions since reset.
func (p *Policy) ExecutionCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.execCount
}

// UsageStats returns a snapshot of the per-prefix tally.
func (p *Policy) UsageStats() map[string]domain.CommandUsage {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(map[string]domain.CommandUsage, len(p.usage))
	for k, v := range p.usage {
		out[k] = *v
	}
	return out
}

// Mode returns the active auto-approval mode.
func (p *Policy) Mode() domain.AutoApprovalMode {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cfg.Mode
}

// SetMode switches the auto-approval mode. Invalid modes are ignored.
func (p *Policy) SetMode(mode domain.AutoApprovalMode) {
	if !mode.IsValid() {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cfg.Mode = mode
}

// Enable turns the policy on.
func (p *Policy) Enable() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cfg.Enabled = true
}

// Disable turns the policy off: nothing is auto-approved while disabled.
func (p *Policy) Disable() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cfg.Enabled = false
}

// ExportConfig returns a snapshot copy of the active configuration.
func (p *Policy) ExportConfig() domain.PolicyConfig {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cfg.Clone()
}

// ImportConfig shallow-merges a partial configuration into the current one.
func (p *Policy) ImportConfig(patch domain.PolicyPatch) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cfg = p.cfg.Merge(patch)
}

func firstToken(command string) string {
	fields := strings.Fields(strings.TrimSpace(command))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

var _ ports.SafetyPolicy = (*Policy)(nil)
