package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"thingsdo-cli/internal/model"
	"thingsdo-cli/internal/mutate"
	"thingsdo-cli/internal/ordering"
	"thingsdo-cli/internal/statusutil"
	"thingsdo-cli/internal/store"

	"github.com/spf13/cobra"
)

func newTasksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Task commands (most also accept project ids)",
	}
	cmd.AddCommand(newTasksAddCmd(app))
	cmd.AddCommand(newTasksUpdateCmd(app))
	cmd.AddCommand(newTasksLogCmd(app))
	cmd.AddCommand(newTasksReopenCmd(app))
	cmd.AddCommand(newTasksLaterCmd(app))
	cmd.AddCommand(newTasksBlockCmd(app))
	cmd.AddCommand(newTasksUnblockCmd(app))
	cmd.AddCommand(newTasksLinkCmd(app))
	cmd.AddCommand(newTasksUnlinkCmd(app))
	cmd.AddCommand(newTasksTagCmd(app))
	cmd.AddCommand(newTasksUntagCmd(app))
	cmd.AddCommand(newTasksDeferCmd(app))
	cmd.AddCommand(newTasksEveningCmd(app))
	cmd.AddCommand(newTasksChecklistCmd(app))
	cmd.AddCommand(newTasksMoveToCmd(app))
	return cmd
}

type addFlags struct {
	notes     string
	project   string
	tags      []string
	blockedBy []string
	later     bool
	evening   bool
	deferTo   string
	start     string
	deadline  string
}

func (f *addFlags) register(cmd *cobra.Command, kind model.Kind) {
	cmd.Flags().StringVar(&f.notes, "notes", "", "Notes (markdown)")
	cmd.Flags().StringSliceVar(&f.tags, "tag", nil, "Tag id or name (repeatable)")
	cmd.Flags().BoolVar(&f.later, "later", false, "Put in the Later queue")
	cmd.Flags().StringVar(&f.deferTo, "defer", "", "Deferral (anytime|someday)")
	cmd.Flags().StringVar(&f.start, "start", "", "Start date (YYYY-MM-DD or RFC3339)")
	cmd.Flags().StringVar(&f.deadline, "deadline", "", "Deadline (YYYY-MM-DD or RFC3339)")
	if kind == model.KindTask {
		cmd.Flags().StringVar(&f.project, "project", "", "Parent project id")
		cmd.Flags().StringSliceVar(&f.blockedBy, "blocked-by", nil, "Blocking item id (repeatable)")
		cmd.Flags().BoolVar(&f.evening, "evening", false, "Flag for this evening")
	}
}

func (f *addFlags) build(ctx context.Context, s *store.Store, title string) (model.Item, error) {
	it := model.Item{
		Title:     strings.TrimSpace(title),
		Notes:     f.notes,
		Later:     f.later,
		Evening:   f.evening,
		BlockedBy: f.blockedBy,
	}
	if strings.TrimSpace(f.project) != "" {
		pid := strings.TrimSpace(f.project)
		it.ParentID = &pid
	}
	d, err := statusutil.ParseDefer(f.deferTo)
	if err != nil {
		return model.Item{}, err
	}
	it.Defer = d
	if f.start != "" {
		ts, err := parseDate(f.start)
		if err != nil {
			return model.Item{}, err
		}
		it.StartDate = &ts
	}
	if f.deadline != "" {
		ts, err := parseDate(f.deadline)
		if err != nil {
			return model.Item{}, err
		}
		it.Deadline = &ts
	}
	tagIDs, err := resolveTagIDs(ctx, s, f.tags)
	if err != nil {
		return model.Item{}, err
	}
	it.TagIDs = tagIDs
	return it, nil
}

func newTasksAddCmd(app *App) *cobra.Command {
	var f addFlags
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a task at the end of its view",
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
			it, err := ordering.InsertAtEnd(ctx, s, model.KindTask, fields)
			if err != nil {
				return writeErr(cmd, err)
			}
			out, err := describe(ctx, s, it)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": out})
		},
	}
	f.register(cmd, model.KindTask)
	return cmd
}

func newTasksUpdateCmd(app *App) *cobra.Command {
	var (
		title, notes, start, deadline string
		clearStart, clearDeadline     bool
	)
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update title, notes or dates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := openStore(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			it, err := findItem(ctx, s, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			var p store.Patch
			if cmd.Flags().Changed("title") {
				if strings.TrimSpace(title) == "" {
					return writeErr(cmd, errors.New("title is empty"))
				}
				p.Title = store.Ptr(strings.TrimSpace(title))
			}
			if cmd.Flags().Changed("notes") {
				p.Notes = store.Ptr(notes)
			}
			if p.StartDate, err = dateField(start, clearStart); err != nil {
				return writeErr(cmd, err)
			}
			if p.Deadline, err = dateField(deadline, clearDeadline); err != nil {
				return writeErr(cmd, err)
			}
			if p.Empty() {
				return writeErr(cmd, errors.New("nothing to update"))
			}
			if err := s.Update(ctx, it.Kind, it.ID, p); err != nil {
				return writeErr(cmd, err)
			}
			return showItem(cmd, app, s, it.ID)
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&notes, "notes", "", "New notes (markdown)")
	cmd.Flags().StringVar(&start, "start", "", "Start date")
	cmd.Flags().StringVar(&deadline, "deadline", "", "Deadline")
	cmd.Flags().BoolVar(&clearStart, "clear-start", false, "Remove the start date")
	cmd.Flags().BoolVar(&clearDeadline, "clear-deadline", false, "Remove the deadline")
	return cmd
}

func dateField(v string, clear bool) (store.Field[time.Time], error) {
	switch {
	case clear && v != "":
		return store.Field[time.Time]{}, errors.New("cannot set and clear a date at once")
	case clear:
		return store.Clear[time.Time](), nil
	case v != "":
		ts, err := parseDate(v)
		if err != nil {
			return store.Field[time.Time]{}, err
		}
		return store.Set(ts), nil
	default:
		return store.Field[time.Time]{}, nil
	}
}

// newBatchCmd builds a command that runs op for every id argument and
// prints a batch result.
func newBatchCmd(app *App, use, short string, op func(ctx context.Context, s *store.Store, ref model.Ref) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			refs, err := refsOf(args)
			if err != nil {
				return writeErr(cmd, err)
			}
			s, err := openStore(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			res := mutate.Each(ctx, refs, func(ctx context.Context, ref model.Ref) error {
				return op(ctx, s, ref)
			})
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

func newTasksLogCmd(app *App) *cobra.Command {
	var status string
	cmd := newBatchCmd(app, "log <id>...", "Mark items completed (or canceled)", func(ctx context.Context, s *store.Store, ref model.Ref) error {
		st, err := statusutil.ParseLogStatus(status)
		if err != nil {
			return err
		}
		_, err = mutate.Log(ctx, s, ref, st, app.Now())
		return err
	})
	cmd.Flags().StringVar(&status, "status", "completed", "Log status (completed|canceled)")
	return cmd
}

func newTasksReopenCmd(app *App) *cobra.Command {
	return newBatchCmd(app, "reopen <id>...", "Clear the logged state", func(ctx context.Context, s *store.Store, ref model.Ref) error {
		_, err := mutate.Reopen(ctx, s, ref)
		return err
	})
}

func newTasksLaterCmd(app *App) *cobra.Command {
	var off bool
	cmd := newBatchCmd(app, "later <id>...", "Move items to the Later queue", func(ctx context.Context, s *store.Store, ref model.Ref) error {
		_, err := mutate.SetLater(ctx, s, ref, !off)
		return err
	})
	cmd.Flags().BoolVar(&off, "off", false, "Take items out of Later")
	return cmd
}

func newTasksBlockCmd(app *App) *cobra.Command {
	var by []string
	cmd := &cobra.Command{
		Use:   "block <id> --by <id>...",
		Short: "Record blocking items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(by) == 0 {
				return writeErr(cmd, errors.New("provide at least one --by id"))
			}
			return runItemOp(cmd, app, args[0], func(ctx context.Context, s *store.Store, ref model.Ref) error {
				_, err := mutate.Block(ctx, s, ref, by...)
				return err
			})
		},
	}
	cmd.Flags().StringSliceVar(&by, "by", nil, "Blocking item id (repeatable)")
	return cmd
}

func newTasksUnblockCmd(app *App) *cobra.Command {
	var by []string
	cmd := &cobra.Command{
		Use:   "unblock <id> [--by <id>...]",
		Short: "Remove blockers (all when --by is omitted)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runItemOp(cmd, app, args[0], func(ctx context.Context, s *store.Store, ref model.Ref) error {
				_, err := mutate.Unblock(ctx, s, ref, by...)
				return err
			})
		},
	}
	cmd.Flags().StringSliceVar(&by, "by", nil, "Blocking item id to remove (repeatable)")
	return cmd
}

func newTasksLinkCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "link <id> <external-id>",
		Short: "Attach an external application's identifier (stored verbatim)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runItemOp(cmd, app, args[0], func(ctx context.Context, s *store.Store, ref model.Ref) error {
				_, err := mutate.LinkExternal(ctx, s, ref, args[1])
				return err
			})
		},
	}
}

func newTasksUnlinkCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "unlink <id>",
		Short: "Remove the external identifier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runItemOp(cmd, app, args[0], func(ctx context.Context, s *store.Store, ref model.Ref) error {
				_, err := mutate.UnlinkExternal(ctx, s, ref)
				return err
			})
		},
	}
}

func newTasksTagCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tag <id> <tag>...",
		Short: "Add tags (ids or names)",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runItemOp(cmd, app, args[0], func(ctx context.Context, s *store.Store, ref model.Ref) error {
				ids, err := resolveTagIDs(ctx, s, args[1:])
				if err != nil {
					return err
				}
				_, err = mutate.AddTags(ctx, s, ref, ids...)
				return err
			})
		},
	}
}

func newTasksUntagCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "untag <id> <tag>...",
		Short: "Remove own tags (inherited project tags are unaffected)",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runItemOp(cmd, app, args[0], func(ctx context.Context, s *store.Store, ref model.Ref) error {
				ids, err := resolveTagIDs(ctx, s, args[1:])
				if err != nil {
					return err
				}
				_, err = mutate.RemoveTags(ctx, s, ref, ids...)
				return err
			})
		},
	}
}

func newTasksDeferCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "defer <id> <anytime|someday|none>",
		Short: "Set the deferral state",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := statusutil.ParseDefer(args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			return runItemOp(cmd, app, args[0], func(ctx context.Context, s *store.Store, ref model.Ref) error {
				_, err := mutate.SetDefer(ctx, s, ref, d)
				return err
			})
		},
	}
}

func newTasksEveningCmd(app *App) *cobra.Command {
	var off bool
	cmd := &cobra.Command{
		Use:   "evening <id>",
		Short: "Flag for this evening",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runItemOp(cmd, app, args[0], func(ctx context.Context, s *store.Store, ref model.Ref) error {
				_, err := mutate.SetEvening(ctx, s, ref, !off)
				return err
			})
		},
	}
	cmd.Flags().BoolVar(&off, "off", false, "Clear the evening flag")
	return cmd
}

func newTasksChecklistCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checklist",
		Short: "Task checklist entries",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "add <task-id> <title>",
		Short: "Append a checklist entry",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runItemOp(cmd, app, args[0], func(ctx context.Context, s *store.Store, ref model.Ref) error {
				_, err := mutate.AddChecklist(ctx, s, ref, strings.Join(args[1:], " "))
				return err
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "toggle <task-id> <index>",
		Short: "Toggle a checklist entry (0-based index)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := strconv.Atoi(args[1])
			if err != nil {
				return writeErr(cmd, fmt.Errorf("invalid index %q", args[1]))
			}
			return runItemOp(cmd, app, args[0], func(ctx context.Context, s *store.Store, ref model.Ref) error {
				_, err := mutate.ToggleChecklist(ctx, s, ref, idx)
				return err
			})
		},
	})
	return cmd
}

func newTasksMoveToCmd(app *App) *cobra.Command {
	var project string
	var none bool
	cmd := &cobra.Command{
		Use:   "move-to <task-id> (--project <id> | --none)",
		Short: "Move a task into a project or out of any project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (project == "") == !none {
				return writeErr(cmd, errors.New("provide exactly one of --project or --none"))
			}
			return runItemOp(cmd, app, args[0], func(ctx context.Context, s *store.Store, ref model.Ref) error {
				var pid *string
				if !none {
					pid = &project
				}
				_, err := mutate.SetParent(ctx, s, ref, pid)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&project, "project", "", "Target project id")
	cmd.Flags().BoolVar(&none, "none", false, "Remove from its project")
	return cmd
}

// runItemOp applies op to one item and prints the item afterwards.
func runItemOp(cmd *cobra.Command, app *App, id string, op func(ctx context.Context, s *store.Store, ref model.Ref) error) error {
	ctx := cmd.Context()
	ref, err := refOf(id)
	if err != nil {
		return writeErr(cmd, err)
	}
	s, err := openStore(ctx, app)
	if err != nil {
		return writeErr(cmd, err)
	}
	defer s.Close()

	if err := op(ctx, s, ref); err != nil {
		return writeErr(cmd, err)
	}
	return showItem(cmd, app, s, ref.ID)
}
