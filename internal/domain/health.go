package domain

// CheckStatus summarizes one doctor check.
type CheckStatus string

const (
	CheckOK   CheckStatus = "ok"
	CheckWarn CheckStatus = "warn"
	CheckFail CheckStatus = "fail"
)

// HealthCheck is a single doctor finding.
type HealthCheck struct {
	Name    string
	Status  CheckStatus
	Detail  string
	Fixable bool
}

// HealthReport aggregates doctor findings.
type HealthReport struct {
	Checks []HealthCheck
}

// Healthy reports whether no check failed.
func (r HealthReport) Healthy() bool {
	for _, c := range r.Checks {
		if c.Status == CheckFail {
			return false
		}
	}
	return true
}
