package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"thingsdo-cli/internal/format"
	"thingsdo-cli/internal/store"
	"thingsdo-cli/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	Dir        string
	Workspace  string
	Format     string
	PrettyJSON bool

	// now is swapped in tests.
	now func() time.Time
}

func (a *App) Now() time.Time {
	if a.now != nil {
		return a.now()
	}
	return time.Now().UTC()
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "thingsdo",
		Short:        "thingsdo (local-first) task CLI + TUI",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  thingsdo

  # Scriptable commands
  thingsdo tasks add "Write report" --tag work
  thingsdo view focusing --tag work

  # Direct item lookup (shortcut for: thingsdo items show <id>)
  thingsdo task-abcd2345
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if app.Format != "" {
			return nil
		}
		if cfg, err := store.LoadConfig(); err == nil && cfg.Format != "" {
			app.Format = cfg.Format
		}
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("THINGSDO_DIR", ""), "Path to store dir (overrides workspace resolution)")
	cmd.PersistentFlags().StringVar(&app.Workspace, "workspace", envOr("THINGSDO_WORKSPACE", ""), "Workspace name (default: config currentWorkspace, then 'default')")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("THINGSDO_FORMAT", ""), "Output format (json|yaml|table)")

	cmd.AddCommand(newTasksCmd(app))
	cmd.AddCommand(newProjectsCmd(app))
	cmd.AddCommand(newItemsCmd(app))
	cmd.AddCommand(newViewCmd(app))
	cmd.AddCommand(newTagsCmd(app))
	cmd.AddCommand(newMoveCmd(app))
	cmd.AddCommand(newTrashCmd(app))
	cmd.AddCommand(newEventsCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

func runTUI(cmd *cobra.Command, app *App) error {
	s, err := openStore(cmd.Context(), app)
	if err != nil {
		return writeErr(cmd, err)
	}
	defer s.Close()

	theme := ""
	if cfg, err := store.LoadConfig(); err == nil && cfg.TUI != nil {
		theme = cfg.TUI.Theme
	}
	return tui.Run(cmd.Context(), s, tui.Options{Workspace: app.Workspace, Theme: theme})
}

// resolveDir picks the store dir: --dir, then --workspace, then config
// currentWorkspace, then the "default" workspace.
func resolveDir(app *App) (string, error) {
	if dir := strings.TrimSpace(app.Dir); dir != "" {
		return dir, nil
	}
	if app.Workspace != "" {
		return store.WorkspaceDir(app.Workspace)
	}
	cfg, err := store.LoadConfig()
	if err != nil {
		return "", err
	}
	if cfg.CurrentWorkspace != "" {
		app.Workspace = cfg.CurrentWorkspace
	} else {
		app.Workspace = "default"
	}
	return store.WorkspaceDir(app.Workspace)
}

func openStore(ctx context.Context, app *App) (*store.Store, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	dir, err := resolveDir(app)
	if err != nil {
		return nil, err
	}
	s, err := store.Open(ctx, dir)
	if err != nil {
		return nil, err
	}
	if app.now != nil {
		s.SetClock(app.now)
	}
	return s, nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
