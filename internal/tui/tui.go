package tui

import (
	"context"
	"errors"

	"thingsdo-cli/internal/store"
	"thingsdo-cli/internal/views"

	tea "github.com/charmbracelet/bubbletea"
)

type Options struct {
	Workspace string
	// Theme is auto, light or dark.
	Theme string
}

// Run starts the interactive UI over s until the user quits or ctx ends.
func Run(ctx context.Context, s *store.Store, opts Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	applyThemePreference(opts.Theme)
	applyColorProfilePreference()

	live, err := views.NewLive(ctx, s, s)
	if err != nil {
		return err
	}
	defer live.Close()

	m := newAppModel(ctx, s, live, opts.Workspace)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	// Pushes can originate inside Update (our own writes); Send must not
	// block the event loop it is called from.
	stop := live.OnChange(func(views.Snapshot) {
		go p.Send(snapshotMsg{})
	})
	defer stop()

	// Writes from other processes (CLI in another terminal).
	if ticks, err := s.Watch(ctx); err == nil {
		go func() {
			for range ticks {
				s.Refresh(ctx)
			}
		}()
	}

	_, err = p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		// Interrupted from outside, not a failure.
		return nil
	}
	return err
}
