package cli

import (
	"context"

	"thingsdo-cli/internal/model"
	"thingsdo-cli/internal/store"
	"thingsdo-cli/internal/tags"
	"thingsdo-cli/internal/views"

	"github.com/spf13/cobra"
)

func newItemsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "items",
		Short: "Commands for any item kind",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Show an item with its view and effective tags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()
			return showItem(cmd, app, s, args[0])
		},
	})
	return cmd
}

func showItem(cmd *cobra.Command, app *App, s *store.Store, id string) error {
	ctx := cmd.Context()
	it, err := findItem(ctx, s, id)
	if err != nil {
		return writeErr(cmd, err)
	}
	out, err := describe(ctx, s, it)
	if err != nil {
		return writeErr(cmd, err)
	}
	return writeOut(cmd, app, map[string]any{"data": out})
}

func describe(ctx context.Context, s *store.Store, it model.Item) (itemOut, error) {
	pool, err := s.ListEverything(ctx)
	if err != nil {
		return itemOut{}, err
	}
	all, err := s.ListTags(ctx)
	if err != nil {
		return itemOut{}, err
	}
	idx := views.NewIndex(pool)
	return itemOut{
		Item:           it,
		View:           views.Classify(it, idx),
		EffectiveTags:  tags.NewHierarchy(all).Known(tags.Effective(it, tags.IndexProjects(pool))).Sorted(),
		ActiveBlockers: views.ActiveBlockers(it, idx),
	}, nil
}
