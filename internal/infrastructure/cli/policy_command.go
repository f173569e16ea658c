package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/codriver-ai/codriver/internal/app"
	"github.com/codriver-ai/codriver/internal/domain"
)

// policyDocument is the YAML envelope shared with the rules file on disk.
type policyDocument struct {
	Policy domain.PolicyConfig `yaml:"policy"`
}

type policyPatchDocument struct {
	Policy domain.PolicyPatch `yaml:"policy"`
}

// newPolicyCommand creates the 'policy' command with its subcommands.
func newPolicyCommand(container *app.Container) *cobra.Command {
	policyCmd := &cobra.Command{
		Use:   "policy",
		Short: "Inspect and change the safety policy",
	}

	policyCmd.AddCommand(
		newPolicyShowCommand(container),
		newPolicyEnableCommand(container, true),
		newPolicyEnableCommand(container, false),
		newPolicyModeCommand(container),
		newPolicyExportCommand(container),
		newPolicyImportCommand(container),
	)
	return policyCmd
}

func newPolicyShowCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the active policy configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			cfg := container.Policy.ExportConfig()

			state := "enabled"
			if !cfg.Enabled {
				state = "disabled"
			}
			fmt.Fprintf(out, "Auto-approval: %s\n", state)
			fmt.Fprintf(out, "Mode: %s\n", cfg.Mode)
			fmt.Fprintf(out, "Execution cap: %d per session\n", cfg.MaxAutoExecutions)
			fmt.Fprintf(out, "Patterns: %d trusted, %d confirm, %d forbidden\n",
				len(cfg.TrustedPatterns), len(cfg.ConfirmPatterns), len(cfg.ForbiddenPatterns))
			fmt.Fprintf(out, "Rules file: %s\n", container.RulesSource.Path())
			return nil
		},
	}
}

func newPolicyEnableCommand(container *app.Container, enable bool) *cobra.Command {
	use, short := "enable", "Enable auto-approval"
	if !enable {
		use, short = "disable", "Disable auto-approval (every step requires confirmation)"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			if enable {
				container.Policy.Enable()
			} else {
				container.Policy.Disable()
			}
			if err := persistPolicySettings(cmd, container); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Auto-approval %sd.\n", use)
			return nil
		},
	}
}

func newPolicyModeCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "mode <conservative|balanced|aggressive>",
		Short: "Set the auto-approval mode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := domain.AutoApprovalMode(args[0])
			if !mode.IsValid() {
				return fmt.Errorf("unknown mode %q (expected conservative, balanced or aggressive)", args[0])
			}
			container.Policy.SetMode(mode)
			if err := persistPolicySettings(cmd, container); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Mode set to %s.\n", mode)
			return nil
		},
	}
}

func newPolicyExportCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "export [path]",
		Short: "Export the policy configuration as YAML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc := policyDocument{Policy: container.Policy.ExportConfig()}
			data, err := yaml.Marshal(doc)
			if err != nil {
				return err
			}
			if len(args) == 0 || args[0] == "-" {
				_, err = io.WriteString(cmd.OutOrStdout(), string(data))
				return err
			}
			if err := os.WriteFile(args[0], data, 0o600); err != nil {
				return fmt.Errorf("write policy export: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Policy exported to %s\n", args[0])
			return nil
		},
	}
}

func newPolicyImportCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "import <path>",
		Short: "Import policy settings from a YAML file (partial files merge)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read policy file: %w", err)
			}
			var doc policyPatchDocument
			if err := yaml.Unmarshal(data, &doc); err != nil {
				return fmt.Errorf("parse policy file: %w", err)
			}
			container.Policy.ImportConfig(doc.Policy)
			if err := container.RulesSource.Save(container.Policy.ExportConfig()); err != nil {
				return fmt.Errorf("persist policy rules: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Policy imported from %s\n", args[0])
			return nil
		},
	}
}

// persistPolicySettings writes the operator-facing knobs back to config.yaml
// so the change outlives this process.
func persistPolicySettings(cmd *cobra.Command, container *app.Container) error {
	cfg, err := container.ConfigLoader.Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	exported := container.Policy.ExportConfig()
	cfg.Policy.Enabled = exported.Enabled
	cfg.Policy.Mode = exported.Mode
	cfg.Policy.MaxAutoExecutions = exported.MaxAutoExecutions
	if err := container.ConfigLoader.Save(cfg); err != nil {
		return fmt.Errorf("save configuration: %w", err)
	}
	return nil
}
