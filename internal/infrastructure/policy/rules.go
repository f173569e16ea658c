package policy

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/codriver-ai/codriver/assets"
	"github.com/codriver-ai/codriver/internal/domain"
	"github.com/codriver-ai/codriver/internal/ports"
)

// rulesFile is the YAML schema for ~/.codriver/policy.yaml.
type rulesFile struct {
	Policy struct {
		Enabled           *bool    `yaml:"enabled"`
		Mode              string   `yaml:"mode"`
		MaxAutoExecutions int      `yaml:"max_auto_executions"`
		Trusted           []string `yaml:"trusted_patterns"`
		Forbidden         []string `yaml:"forbidden_patterns"`
		Confirm           []string `yaml:"confirm_patterns"`
	} `yaml:"policy"`
}

// FileRules loads pattern tables from a YAML rules file, falling back to the
// built-in defaults when the file is absent. A present-but-malformed file is
// an error; silently ignoring a user's rules would loosen the policy.
type FileRules struct {
	path string
}

// NewFileRules builds a rules source for the given path. An empty path
// resolves to ~/.codriver/policy.yaml.
func NewFileRules(path string) *FileRules {
	return &FileRules{path: resolveRulesPath(path)}
}

// Load implements ports.PolicyRulesSource.
func (f *FileRules) Load() (domain.PolicyConfig, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			f.writeTemplate()
			return DefaultConfig(), nil
		}
		return domain.PolicyConfig{}, err
	}

	var raw rulesFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return domain.PolicyConfig{}, err
	}

	cfg := DefaultConfig()
	if raw.Policy.Enabled != nil {
		cfg.Enabled = *raw.Policy.Enabled
	}
	if mode := domain.AutoApprovalMode(strings.ToLower(raw.Policy.Mode)); mode.IsValid() {
		cfg.Mode = mode
	}
	if raw.Policy.MaxAutoExecutions > 0 {
		cfg.MaxAutoExecutions = raw.Policy.MaxAutoExecutions
	}
	if raw.Policy.Trusted != nil {
		cfg.TrustedPatterns = raw.Policy.Trusted
	}
	if raw.Policy.Forbidden != nil {
		cfg.ForbiddenPatterns = raw.Policy.Forbidden
	}
	if raw.Policy.Confirm != nil {
		cfg.ConfirmPatterns = raw.Policy.Confirm
	}
	return cfg, nil
}

// Path returns the resolved rules file location.
func (f *FileRules) Path() string {
	return f.path
}

// Save persists the full policy configuration back to the rules file.
func (f *FileRules) Save(cfg domain.PolicyConfig) error {
	var raw rulesFile
	raw.Policy.Enabled = &cfg.Enabled
	raw.Policy.Mode = string(cfg.Mode)
	raw.Policy.MaxAutoExecutions = cfg.MaxAutoExecutions
	raw.Policy.Trusted = cfg.TrustedPatterns
	raw.Policy.Forbidden = cfg.ForbiddenPatterns
	raw.Policy.Confirm = cfg.ConfirmPatterns

	data, err := yaml.Marshal(raw)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(f.path, data, 0o600)
}

// writeTemplate drops the commented starter rules file so the user has
// something to edit. Best effort; the defaults apply either way.
func (f *FileRules) writeTemplate() {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return
	}
	_ = os.WriteFile(f.path, assets.DefaultPolicyYAML, 0o600)
}

func resolveRulesPath(path string) string {
	if path == "" {
		return filepath.Join(userHomeDir(), ".codriver", "policy.yaml")
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(userHomeDir(), path[2:])
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Clean(path)
}

func userHomeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

var _ ports.PolicyRulesSource = (*FileRules)(nil)
