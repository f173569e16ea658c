package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/codriver-ai/codriver/internal/app"
	"github.com/codriver-ai/codriver/internal/domain"
)

// newRunCommand creates the 'run' command: plan and execute in one pass.
func newRunCommand(container *app.Container) *cobra.Command {
	var (
		workdir string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "run [response-file]",
		Short: "Plan an AI response and execute its auto-approved steps",
		Long: "Extracts shell commands from AI response text (a file argument or\n" +
			"stdin), builds an execution plan, and runs the steps the safety\n" +
			"policy auto-approved. Everything else stays pending.",
		Args: cobra.MaximumNArgs(1),
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
				return nil
			}

			ctx := cmd.Context()
			if timeout == 0 && container.Config.Execution.TimeoutSeconds > 0 {
				timeout = time.Duration(container.Config.Execution.TimeoutSeconds) * time.Second
			}
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			if workdir == "" {
				workdir = container.RunService.Workspace()
			}
			if workdir == "" {
				workdir, _ = os.Getwd()
			}
			container.RunService.SetWorkspace(workdir)

			fmt.Fprintln(cmd.OutOrStdout())
			executed := container.RunService.RunAutoApprovedSteps(ctx, plan, renderer.RenderProgress)
			renderer.RenderRunSummary(executed, len(plan.Steps))
			renderer.RenderUsage(container.Policy.UsageStats())

			failed := 0
			for _, step := range executed {
				if step.Status == domain.StatusFailed {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d step(s) failed", failed)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&workdir, "workdir", "w", "", "Working directory for command execution (default: current directory)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Abort the run after this duration (default from config)")
	return cmd
}
