// Package doctor runs environment health checks for the CLI.
package doctor

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/codriver-ai/codriver/internal/domain"
	"github.com/codriver-ai/codriver/internal/ports"
)

// Service aggregates health checks over the wired adapters.
type Service struct {
	ConfigProvider ports.ConfigProvider
	RulesSource    ports.PolicyRulesSource
	HistoryStore   interface{ Available() bool }
}

// Run executes all checks and returns the report.
func (s *Service) Run(ctx context.Context) domain.HealthReport {
	var report domain.HealthReport

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		report.Checks = append(report.Checks, domain.HealthCheck{
			Name:   "config",
			Status: domain.CheckFail,
			Detail: err.Error(),
		})
		return report
	}
	report.Checks = append(report.Checks, domain.HealthCheck{
		Name:   "config",
		Status: domain.CheckOK,
		Detail: "configuration loaded",
	})

	report.Checks = append(report.Checks, s.checkRules())
	report.Checks = append(report.Checks, checkShell(cfg.Execution.Shell))
	report.Checks = append(report.Checks, s.checkHistory(cfg))

	return report
}

func (s *Service) checkRules() domain.HealthCheck {
	rules, err := s.RulesSource.Load()
	if err != nil {
		return domain.HealthCheck{
			Name:    "policy rules",
			Status:  domain.CheckFail,
			Detail:  err.Error(),
			Fixable: true,
		}
	}
	if len(rules.ForbiddenPatterns) == 0 {
		return domain.HealthCheck{
			Name:   "policy rules",
			Status: domain.CheckWarn,
			Detail: "forbidden pattern table is empty; every command can reach auto-approval",
		}
	}
	return domain.HealthCheck{
		Name:   "policy rules",
		Status: domain.CheckOK,
		Detail: fmt.Sprintf("%d trusted, %d confirm, %d forbidden patterns", len(rules.TrustedPatterns), len(rules.ConfirmPatterns), len(rules.ForbiddenPatterns)),
	}
}

func checkShell(shell string) domain.HealthCheck {
	if shell == "" || shell == "auto" {
		shell = os.Getenv("SHELL")
	}
	if shell == "" {
		shell = "/bin/sh"
	}
	if _, err := exec.LookPath(shell); err != nil {
		return domain.HealthCheck{
			Name:    "shell",
			Status:  domain.CheckFail,
			Detail:  fmt.Sprintf("%s not found", shell),
			Fixable: true,
		}
	}
	return domain.HealthCheck{
		Name:   "shell",
		Status: domain.CheckOK,
		Detail: shell,
	}
}

func (s *Service) checkHistory(cfg domain.Config) domain.HealthCheck {
	if !cfg.History.Enabled {
		return domain.HealthCheck{
			Name:   "history",
			Status: domain.CheckWarn,
			Detail: "run history disabled",
		}
	}
	if s.HistoryStore == nil || !s.HistoryStore.Available() {
		return domain.HealthCheck{
			Name:    "history",
			Status:  domain.CheckWarn,
			Detail:  "history database unavailable; runs will not be persisted",
			Fixable: true,
		}
	}
	return domain.HealthCheck{
		Name:   "history",
		Status: domain.CheckOK,
		Detail: cfg.History.Path,
	}
}
