package cli

import (
	"context"
	"errors"

	"thingsdo-cli/internal/model"
	"thingsdo-cli/internal/mutate"
	"thingsdo-cli/internal/store"

	"github.com/spf13/cobra"
)

func newTrashCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trash",
		Short: "Soft-delete, restore and purge",
	}
	cmd.AddCommand(newBatchCmd(app, "delete <id>...", "Move items to the trash", func(ctx context.Context, s *store.Store, ref model.Ref) error {
		_, err := mutate.SoftDelete(ctx, s, ref, app.Now())
		return err
	}))
	cmd.AddCommand(newBatchCmd(app, "restore <id>...", "Take items out of the trash", func(ctx context.Context, s *store.Store, ref model.Ref) error {
		_, err := mutate.Restore(ctx, s, ref)
		return err
	}))
	cmd.AddCommand(newTrashPurgeCmd(app))
	cmd.AddCommand(newTrashEmptyCmd(app))
	return cmd
}

var errNeedYes = errors.New("purging is permanent; re-run with --yes to confirm")

func newTrashPurgeCmd(app *App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "purge <id>...",
		Short: "Permanently delete trashed items",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return writeErr(cmd, errNeedYes)
			}
			refs, err := refsOf(args)
			if err != nil {
				return writeErr(cmd, err)
			}
			s, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			res := mutate.PurgeSelected(cmd.Context(), s, refs)
			if err := writeOut(cmd, app, batchOut(res)); err != nil {
				return err
			}
			if err := batchError(res); err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm permanent deletion")
	return cmd
}

func newTrashEmptyCmd(app *App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "empty",
		Short: "Permanently delete everything in the trash",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return writeErr(cmd, errNeedYes)
			}
			s, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			res, err := mutate.PurgeAll(cmd.Context(), s)
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
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm permanent deletion")
	return cmd
}
