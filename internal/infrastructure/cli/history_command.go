package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/codriver-ai/codriver/internal/app"
)

const defaultHistoryLimit = 20

// newHistoryCommand creates the 'history' command with its subcommands.
func newHistoryCommand(container *app.Container) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect the persistent run history",
	}

	historyCmd.AddCommand(
		newHistoryListCommand(container),
		newHistoryClearCommand(container),
		newHistoryExportCommand(container),
	)
	return historyCmd
}

func newHistoryListCommand(container *app.Container) *cobra.Command {
	var (
		limit  int
		search string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent run records",
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.HistoryStore == nil {
				return fmt.Errorf("run history is disabled in the configuration")
			}
			records, err := container.HistoryStore.Records(limit, search)
			if err != nil {
				return fmt.Errorf("retrieve run history: %w", err)
			}
			NewRenderer(cmd.OutOrStdout()).RenderHistory(records)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", defaultHistoryLimit, "Max records to show")
	cmd.Flags().StringVar(&search, "search", "", "Only show records whose command contains this text")
	return cmd
}

func newHistoryClearCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all run records and reset the execution counter",
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.HistoryStore != nil {
				if err := container.HistoryStore.Clear(); err != nil {
					return fmt.Errorf("clear run history: %w", err)
				}
			}
			container.RunService.ClearHistory()
			fmt.Fprintln(cmd.OutOrStdout(), "Run history cleared.")
			return nil
		},
	}
}

func newHistoryExportCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "export <path>",
		Short: "Export run history to a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.HistoryStore == nil {
				return fmt.Errorf("run history is disabled in the configuration")
			}
			if err := container.HistoryStore.ExportJSON(args[0]); err != nil {
				return fmt.Errorf("export run history to %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "History exported to %s\n", args[0])
			return nil
		},
	}
}
