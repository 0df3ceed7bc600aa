package cli

import (
	"strings"

	"thingsdo-cli/internal/model"
	"thingsdo-cli/internal/ordering"

	"github.com/spf13/cobra"
)

func newProjectsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Project commands",
	}
	cmd.AddCommand(newProjectsAddCmd(app))
	cmd.AddCommand(newProjectsListCmd(app))
	return cmd
}

func newProjectsAddCmd(app *App) *cobra.Command {
	var f addFlags
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a project",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := openStore(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			fields, err := f.build(ctx, s, strings.Join(args, " "))
			if err != nil {
				return writeErr(cmd, err)
			}
			p, err := ordering.InsertAtEnd(ctx, s, model.KindProject, fields)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": p})
		},
	}
	f.register(cmd, model.KindProject)
	return cmd
}

func newProjectsListCmd(app *App) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects (trashed ones only with --all)",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			rows, err := s.ListAll(cmd.Context(), model.KindProject)
			if err != nil {
				return writeErr(cmd, err)
			}
			out := make([]model.Item, 0, len(rows))
			for _, p := range rows {
				if all || !p.Deleted() {
					out = append(out, p)
				}
			}
			return writeOut(cmd, app, map[string]any{"data": out})
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Include trashed projects")
	return cmd
}
