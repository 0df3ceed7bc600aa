package cli

import (
	"thingsdo-cli/internal/store"

	"github.com/spf13/cobra"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Global config (~/.thingsdo/config.json)",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the global config and where it lives",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := store.LoadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			path, err := store.ConfigPath()
			if err != nil {
				return writeErr(cmd, err)
			}
			workspaces, err := store.ListWorkspaces()
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": cfg,
				"meta": map[string]any{"path": path, "keys": store.ConfigKeys, "workspaces": workspaces},
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a config key (empty value unsets)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := store.LoadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := cfg.Set(args[0], args[1]); err != nil {
				return writeErr(cmd, err)
			}
			if err := store.SaveConfig(cfg); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": cfg})
		},
	})
	return cmd
}
