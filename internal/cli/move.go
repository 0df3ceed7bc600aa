package cli

import (
	"errors"

	"thingsdo-cli/internal/model"
	"thingsdo-cli/internal/ordering"
	"thingsdo-cli/internal/views"

	"github.com/spf13/cobra"
)

func newMoveCmd(app *App) *cobra.Command {
	var (
		onto     string
		after    bool
		with     []string
		viewName string
		tagRefs  []string
	)
	cmd := &cobra.Command{
		Use:   "move <id> --onto <target-id> [--after] [--with <id>...]",
		Short: "Reorder an item (or a group moved as one block) within its view",
		Long: `Moves <id> before (or with --after, after) <target-id> in the rendered view
and renumbers the view 1..n. Ids given with --with move together with <id>
as a contiguous block keeping their current relative order.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if onto == "" {
				return writeErr(cmd, errors.New("--onto is required"))
			}
			s, err := openStore(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			source, err := findItem(ctx, s, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			selected, err := resolveTagFilter(ctx, s, tagRefs)
			if err != nil {
				return writeErr(cmd, err)
			}
			snap, err := snapshot(ctx, s, selected)
			if err != nil {
				return writeErr(cmd, err)
			}

			pool, err := s.ListEverything(ctx)
			if err != nil {
				return writeErr(cmd, err)
			}
			v := views.Classify(source, views.NewIndex(pool))
			if viewName != "" {
				if v, err = parseView(viewName); err != nil {
					return writeErr(cmd, err)
				}
			}
			visible := snap.List(v)
			if !contains(visible, onto) {
				return writeErr(cmd, errNotFound(string(v)+" item", onto))
			}

			highlighted := map[string]bool{}
			if len(with) > 0 {
				highlighted[source.ID] = true
				for _, id := range with {
					highlighted[id] = true
				}
			}
			writes := ordering.Reorder(visible, source.ID, onto, after, highlighted)
			res := ordering.Apply(ctx, s, writes)
			if err := writeOut(cmd, app, map[string]any{
				"data": writes,
				"meta": map[string]any{"view": v, "failed": res.FailedIDs()},
			}); err != nil {
				return err
			}
			if err := batchError(res); err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&onto, "onto", "", "Drop target item id")
	cmd.Flags().BoolVar(&after, "after", false, "Drop after the target instead of before")
	cmd.Flags().StringSliceVar(&with, "with", nil, "Other ids moving with <id> (repeatable)")
	cmd.Flags().StringVar(&viewName, "view", "", "View to reorder in (default: the source item's view)")
	cmd.Flags().StringSliceVar(&tagRefs, "tag", nil, "Reorder within the tag-filtered list")
	return cmd
}

func contains(list []model.Item, id string) bool {
	for _, it := range list {
		if it.ID == id {
			return true
		}
	}
	return false
}
