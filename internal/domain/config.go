package domain

// Config mirrors ~/.codriver/config.yaml.
type Config struct {
	ConfigFormatVersion string            `yaml:"config_format_version"`
	Policy              PolicySettings    `yaml:"policy"`
	Execution           ExecutionSettings `yaml:"execution"`
	History             HistorySettings   `yaml:"history"`
}

// PolicySettings selects the auto-approval behavior.
type PolicySettings struct {
	Enabled           bool             `yaml:"enabled"`
	Mode              AutoApprovalMode `yaml:"mode"`
	MaxAutoExecutions int              `yaml:"max_auto_executions"`
	RulesFile         string           `yaml:"rules_file"`
}

// ExecutionSettings controls how extracted commands run.
type ExecutionSettings struct {
	Shell            string `yaml:"shell"`
	WorkingDirectory string `yaml:"working_directory"`
	TimeoutSeconds   int    `yaml:"timeout"`
}

// HistorySettings configures run-history persistence.
type HistorySettings struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}
