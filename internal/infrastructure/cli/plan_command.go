package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/codriver-ai/codriver/internal/app"
)

// newPlanCommand creates the 'plan' command: show what a run would do.
func newPlanCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "plan [response-file]",
		Short: "Show the execution plan for AI response text without running it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readResponseText(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			renderer := NewRenderer(cmd.OutOrStdout())
			plan := container.PlanService.CreatePlan(text)
			renderer.RenderPlan(plan)
			if len(plan.Steps) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No executable commands found.")
			}
			return nil
		},
	}
}
