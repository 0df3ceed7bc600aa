package cli

import (
	"fmt"
	"strings"

	"thingsdo-cli/internal/tags"
	"thingsdo-cli/internal/views"

	"github.com/spf13/cobra"
)

func viewNames() string {
	names := make([]string, 0, len(views.All))
	for _, v := range views.All {
		names = append(names, string(v))
	}
	return strings.Join(names, "|")
}

func parseView(s string) (views.View, error) {
	v, ok := views.Parse(s)
	if !ok {
		return "", fmt.Errorf("unknown view %q (want %s)", s, viewNames())
	}
	return v, nil
}

func newViewCmd(app *App) *cobra.Command {
	var (
		tagRefs []string
		noTag   bool
	)
	cmd := &cobra.Command{
		Use:   "view <" + viewNames() + ">",
		Short: "List one derived view, optionally filtered by tags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			v, err := parseView(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			s, err := openStore(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			selected, err := resolveTagFilter(ctx, s, tagRefs)
			if err != nil {
				return writeErr(cmd, err)
			}
			if noTag {
				selected = append(selected, tags.NoTag)
			}
			snap, err := snapshot(ctx, s, selected)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": snap.List(v),
				"meta": map[string]any{
					"view":          v,
					"filter":        selected,
					"availableTags": snap.Available[v],
				},
			})
		},
	}
	cmd.Flags().StringSliceVar(&tagRefs, "tag", nil, "Require tag (id or name; includes descendants; repeatable = AND)")
	cmd.Flags().BoolVar(&noTag, "no-tag", false, "Only items without any effective tag")
	return cmd
}
