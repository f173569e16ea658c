package app

import (
	"context"

	"github.com/codriver-ai/codriver/internal/application/doctor"
	"github.com/codriver-ai/codriver/internal/application/plan"
	"github.com/codriver-ai/codriver/internal/application/run"
	"github.com/codriver-ai/codriver/internal/domain"
	"github.com/codriver-ai/codriver/internal/infrastructure/config"
	"github.com/codriver-ai/codriver/internal/infrastructure/history"
	"github.com/codriver-ai/codriver/internal/infrastructure/policy"
	"github.com/codriver-ai/codriver/internal/infrastructure/project"
	"github.com/codriver-ai/codriver/internal/infrastructure/terminal"
	"github.com/codriver-ai/codriver/internal/pkg/logger"
	"github.com/codriver-ai/codriver/internal/ports"
)

// Container wires up application services with infrastructure adapters.
type Container struct {
	PlanService   *plan.Service
	RunService    *run.Service
	Policy        *policy.Policy
	ConfigLoader  *config.FileLoader
	RulesSource   *policy.FileRules
	DoctorService *doctor.Service
	HistoryStore  *history.SQLiteStore
	Logger        ports.Logger
	Config        domain.Config
}

// BuildContainer constructs the dependency graph.
func BuildContainer(ctx context.Context, verbose bool) (*Container, error) {
	cfgLoader := config.NewFileLoader("")
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, err
	}

	log := logger.NewStd(verbose)
	rules := policy.NewFileRules(cfg.Policy.RulesFile)
	pol := policy.NewFromSource(rules, log)

	// config.yaml overrides the rules file for the operator-facing knobs.
	pol.ImportConfig(domain.PolicyPatch{
		Enabled:           &cfg.Policy.Enabled,
		Mode:              &cfg.Policy.Mode,
		MaxAutoExecutions: &cfg.Policy.MaxAutoExecutions,
	})

	planService := plan.NewService(pol, log)

	runService := run.NewService(pol, terminal.NewLocal(cfg.Execution.Shell), log)
	runService.Inspector = project.NewInspector()
	if cfg.Execution.WorkingDirectory != "" {
		runService.SetWorkspace(cfg.Execution.WorkingDirectory)
	}

	var store *history.SQLiteStore
	if cfg.History.Enabled {
		store = history.NewSQLiteStore(cfg.History.Path)
		runService.Store = store
	}

	doctorService := &doctor.Service{
		ConfigProvider: cfgLoader,
		RulesSource:    rules,
	}
	if store != nil {
		doctorService.HistoryStore = store
	}

	return &Container{
		PlanService:   planService,
		RunService:    runService,
		Policy:        pol,
		ConfigLoader:  cfgLoader,
		RulesSource:   rules,
		DoctorService: doctorService,
		HistoryStore:  store,
		Logger:        log,
		Config:        cfg,
	}, nil
}
