// Package cli wires the cobra command tree over the application services.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/codriver-ai/codriver/internal/app"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose bool
}

// NewRootCmd wires the cobra root command.
func NewRootCmd(ctx context.Context, opts Options) (*cobra.Command, error) {
	container, err := app.BuildContainer(ctx, opts.Verbose)
	if err != nil {
		return nil, err
	}

	root := &cobra.Command{
		Use:   "codriver",
		Short: "Codriver - autonomous execution layer for AI coding sessions",
		Long: "Codriver extracts shell commands from AI responses, classifies their\n" +
			"risk, and executes the auto-approved subset under a safety policy.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newRunCommand(container))
	root.AddCommand(newPlanCommand(container))
	root.AddCommand(newCheckCommand(container))
	root.AddCommand(newPolicyCommand(container))
	root.AddCommand(newHistoryCommand(container))
	root.AddCommand(newDoctorCommand(container))
	root.AddCommand(newVersionCommand())
	return root, nil
}
