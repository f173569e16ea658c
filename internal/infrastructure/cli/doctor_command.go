package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/codriver-ai/codriver/internal/app"
)

// newDoctorCommand creates the 'doctor' command.
func newDoctorCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose environment setup",
		RunE: func(cmd *cobra.Command, args []string) error {
			report := container.DoctorService.Run(cmd.Context())
			NewRenderer(cmd.OutOrStdout()).RenderDoctorReport(report)
			if !report.Healthy() {
				return fmt.Errorf("diagnostics found problems")
			}
			return nil
		},
	}
}
