package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/codriver-ai/codriver/internal/app"
)

// newCheckCommand creates the 'check' command: classify one command string.
func newCheckCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "check <command...>",
		Short: "Classify a command without running it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			command := strings.Join(args, " ")
			verdict := container.Policy.Classify(command)
			approve := container.Policy.ShouldAutoApprove(command)

			renderer := NewRenderer(cmd.OutOrStdout())
			renderer.RenderVerdict(command, verdict, approve)
			return nil
		},
	}
}
