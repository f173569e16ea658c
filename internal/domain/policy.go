package domain

// PolicyConfig holds the auto-approval policy settings. Pattern tables are
// ordered: classification walks them front to back and the first match wins.
type PolicyConfig struct {
	Enabled           bool             `yaml:"enabled"`
	Mode              AutoApprovalMode `yaml:"mode"`
	TrustedPatterns   []string         `yaml:"trusted_patterns"`
	ForbiddenPatterns []string         `yaml:"forbidden_patterns"`
	ConfirmPatterns   []string         `yaml:"confirm_patterns"`
	MaxAutoExecutions int              `yaml:"max_auto_executions"`
}

// Clone returns a deep copy so callers can hold a snapshot without aliasing
// the live pattern slices.
func (c PolicyConfig) Clone() PolicyConfig {
	out := c
	out.TrustedPatterns = append([]string(nil), c.TrustedPatterns...)
	out.ForbiddenPatterns = append([]string(nil), c.ForbiddenPatterns...)
	out.ConfirmPatterns = append([]string(nil), c.ConfirmPatterns...)
	return out
}

// Merge applies the non-zero fields of overlay on top of c and returns the
// result. Boolean and mode fields are always taken from the overlay when the
// overlay carries a valid value; pattern tables replace wholesale when
// non-nil.
func (c PolicyConfig) Merge(overlay PolicyPatch) PolicyConfig {
	out := c.Clone()
	if overlay.Enabled != nil {
		out.Enabled = *overlay.Enabled
	}
	if overlay.Mode != nil && overlay.Mode.IsValid() {
		out.Mode = *overlay.Mode
	}
	if overlay.TrustedPatterns != nil {
		out.TrustedPatterns = append([]string(nil), overlay.TrustedPatterns...)
	}
	if overlay.ForbiddenPatterns != nil {
		out.ForbiddenPatterns = append([]string(nil), overlay.ForbiddenPatterns...)
	}
	if overlay.ConfirmPatterns != nil {
		out.ConfirmPatterns = append([]string(nil), overlay.ConfirmPatterns...)
	}
	if overlay.MaxAutoExecutions != nil && *overlay.MaxAutoExecutions > 0 {
		out.MaxAutoExecutions = *overlay.MaxAutoExecutions
	}
	return out
}

// PolicyPatch is a partial PolicyConfig used for imports; nil fields keep the
// current value.
type PolicyPatch struct {
	Enabled           *bool             `yaml:"enabled,omitempty"`
	Mode              *AutoApprovalMode `yaml:"mode,omitempty"`
	TrustedPatterns   []string          `yaml:"trusted_patterns,omitempty"`
	ForbiddenPatterns []string          `yaml:"forbidden_patterns,omitempty"`
	ConfirmPatterns   []string          `yaml:"confirm_patterns,omitempty"`
	MaxAutoExecutions *int              `yaml:"max_auto_executions,omitempty"`
}

// CommandUsage is the per-prefix execution tally kept by the safety policy.
// It feeds future trust learning and is not consulted by the decision logic.
type CommandUsage struct {
	Count      int
	Failures   int
	LastUsedAt int64 // unix seconds
}
