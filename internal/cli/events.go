package cli

import (
	"thingsdo-cli/internal/store"

	"github.com/spf13/cobra"
)

func newEventsCmd(app *App) *cobra.Command {
	var (
		limit  int
		entity string
	)

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Inspect the local event log",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List events (newest-first)",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			evs, err := s.ListEvents(cmd.Context(), store.EventFilter{EntityID: entity, Limit: limit})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": evs})
		},
	}
	listCmd.Flags().IntVar(&limit, "limit", 200, "Max events to return (0 = all)")
	listCmd.Flags().StringVar(&entity, "entity", "", "Only events for this item or tag id")

	cmd.AddCommand(listCmd)
	return cmd
}
