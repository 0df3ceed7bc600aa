package cli

import (
	"strings"

	"thingsdo-cli/internal/model"
	"thingsdo-cli/internal/mutate"
	"thingsdo-cli/internal/store"
	"thingsdo-cli/internal/tags"

	"github.com/spf13/cobra"
)

func newTagsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "Hierarchical tag commands",
	}
	cmd.AddCommand(newTagsAddCmd(app))
	cmd.AddCommand(newTagsListCmd(app))
	cmd.AddCommand(newTagsRenameCmd(app))
	cmd.AddCommand(newTagsReparentCmd(app))
	cmd.AddCommand(newTagsDeleteCmd(app))
	cmd.AddCommand(newTagsAvailableCmd(app))
	return cmd
}

type tagOut struct {
	model.Tag
	Path string `json:"path"`
}

func withPaths(all []model.Tag) []tagOut {
	h := tags.NewHierarchy(all)
	out := make([]tagOut, 0, len(all))
	seen := map[string]bool{}
	var walk func(ids []string)
	walk = func(ids []string) {
		for _, id := range ids {
			if seen[id] {
				continue
			}
			seen[id] = true
			t, _ := h.Tag(id)
			out = append(out, tagOut{Tag: t, Path: h.Path(id)})
			walk(h.Children(id))
		}
	}
	walk(h.Roots())
	// Tags caught in a parent cycle have no root; list them last.
	for _, t := range all {
		if !seen[t.ID] {
			walk([]string{t.ID})
		}
	}
	return out
}

func optionalTagParent(cmd *cobra.Command, s *store.Store, ref string) (*string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, nil
	}
	ids, err := resolveTagIDs(cmd.Context(), s, []string{ref})
	if err != nil {
		return nil, err
	}
	return &ids[0], nil
}

func newTagsAddCmd(app *App) *cobra.Command {
	var parent string
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			pid, err := optionalTagParent(cmd, s, parent)
			if err != nil {
				return writeErr(cmd, err)
			}
			t, err := s.CreateTag(cmd.Context(), args[0], pid)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": t})
		},
	}
	cmd.Flags().StringVar(&parent, "parent", "", "Parent tag (id or name)")
	return cmd
}

func newTagsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tags depth-first with their paths",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			all, err := s.ListTags(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": withPaths(all)})
		},
	}
}

func newTagsRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <tag> <new-name>",
		Short: "Rename a tag",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			ids, err := resolveTagIDs(cmd.Context(), s, args[:1])
			if err != nil {
				return writeErr(cmd, err)
			}
			t, err := s.RenameTag(cmd.Context(), ids[0], args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": t})
		},
	}
}

func newTagsReparentCmd(app *App) *cobra.Command {
	var parent string
	var root bool
	cmd := &cobra.Command{
		Use:   "reparent <tag> (--parent <tag> | --root)",
		Short: "Move a tag under another tag (cycles are rejected)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (parent == "") == !root {
				return writeErr(cmd, errNoParent)
			}
			s, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			ids, err := resolveTagIDs(cmd.Context(), s, args[:1])
			if err != nil {
				return writeErr(cmd, err)
			}
			pid, err := optionalTagParent(cmd, s, parent)
			if err != nil {
				return writeErr(cmd, err)
			}
			t, err := s.SetTagParent(cmd.Context(), ids[0], pid)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": t})
		},
	}
	cmd.Flags().StringVar(&parent, "parent", "", "New parent tag (id or name)")
	cmd.Flags().BoolVar(&root, "root", false, "Make it a root tag")
	return cmd
}

func newTagsDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <tag>",
		Short: "Delete a tag and strip it from every item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			ref := strings.TrimSpace(args[0])
			t, ok, err := s.ResolveTag(cmd.Context(), ref)
			if err != nil {
				return writeErr(cmd, err)
			}
			tagID := t.ID
			if !ok {
				// A tag id whose row is already gone still gets the item cleanup.
				if !strings.HasPrefix(ref, "tag-") {
					return writeErr(cmd, errNotFound("tag", ref))
				}
				tagID = ref
			}
			res, err := mutate.DeleteTag(cmd.Context(), s, s, tagID)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := writeOut(cmd, app, batchOut(res)); err != nil {
				return err
			}
			if err := batchError(res); err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	}
}

func newTagsAvailableCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "available <view>",
		Short: "Tags present (own or inherited) among a view's items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := parseView(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			s, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			snap, err := snapshot(cmd.Context(), s, nil)
			if err != nil {
				return writeErr(cmd, err)
			}
			all, err := s.ListTags(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			h := tags.NewHierarchy(all)
			out := make([]tagOut, 0, len(snap.Available[v]))
			for _, id := range snap.Available[v] {
				t, ok := h.Tag(id)
				if !ok {
					// Dangling ids on items are ignored.
					continue
				}
				out = append(out, tagOut{Tag: t, Path: h.Path(id)})
			}
			return writeOut(cmd, app, map[string]any{"data": out, "meta": map[string]any{"view": v}})
		},
	}
}
