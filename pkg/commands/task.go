package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/kidoers/pkg/apply"
	"tableflip.dev/kidoers/pkg/calendar"
	"tableflip.dev/kidoers/pkg/commands/options"
	"tableflip.dev/kidoers/pkg/family"
	"tableflip.dev/kidoers/pkg/routine"
	"tableflip.dev/kidoers/pkg/weekday"
)

func addTask(topLevel *cobra.Command, env envFunc) {
	cmd := &cobra.Command{
		Use:     "task",
		Aliases: []string{"tasks"},
		Short:   "Add, edit and delete chores on the calendar",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addTaskAdd(cmd, env)
	addTaskEdit(cmd, env)
	addTaskDelete(cmd, env)
	addTaskList(cmd, env)
	addTaskDone(cmd, env)

	topLevel.AddCommand(cmd)
}

// target loads the --select members into the selection and resolves a
// member name given to --apply-to.
func (e *env) target(ctx context.Context, ao *options.ApplyOptions) (string, error) {
	ids := make([]string, 0, len(ao.Select))
	for _, ref := range ao.Select {
		m, err := e.svc.FindMember(ctx, ref)
		if err != nil {
			return "", err
		}
		ids = append(ids, m.ID)
	}
	e.sel.Clear()
	e.sel.Select(ids...)

	t := ao.Target()
	if ao.IsOption() || t == options.SelectionTarget || t == family.ApplyNone {
		return t, nil
	}
	m, err := e.svc.FindMember(ctx, t)
	if err != nil {
		return "", err
	}
	return m.ID, nil
}

func memberCompletion(env envFunc) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		e, err := env(cmd)
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		roster, err := e.svc.Members(context.Background())
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		var out []string
		for _, m := range roster {
			if strings.HasPrefix(strings.ToLower(m.Name), strings.ToLower(toComplete)) {
				out = append(out, m.Name)
			}
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	}
}

func addTaskAdd(topLevel *cobra.Command, env envFunc) {
	to := &options.TaskOptions{}
	mo := &options.MemberOptions{}
	do := &options.DayOptions{}
	ao := &options.ApplyOptions{}
	output := &base.OutputOptions{}
	var name string

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Drop a task on the calendar and apply it",
		Example: `
kidoers task add Make bed --member Ana --days everyday
kidoers task add Dishes --member Ana --day mon --apply-to all-kids
kidoers task add Walk the dog --days sat,sun --select Ana,Ben
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errors.New("requires a task name")
			}
			name = strings.Join(args, " ")
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			e, err := env(cmd)
			if err != nil {
				return output.HandleError(err)
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			task, err := to.Task(name)
			if err != nil {
				return output.HandleError(err)
			}
			days, day, err := do.Selection()
			if err != nil {
				return output.HandleError(err)
			}
			drop, err := e.member(ctx, mo.Member, ao.Target() != family.ApplyNone)
			if err != nil {
				return output.HandleError(err)
			}
			c, err := e.coordinator(ctx)
			if err != nil {
				return output.HandleError(err)
			}
			target, err := e.target(ctx, ao)
			if err != nil {
				return output.HandleError(err)
			}

			c.CloseAll()
			c.Drop(apply.PendingAction{
				Kind:             apply.KindTask,
				Task:             task,
				TargetMemberID:   drop.ID,
				TargetMemberName: drop.Name,
				DaySelection:     days,
				TargetDay:        day,
			})
			c.Open(apply.ModalApplyTo)
			return output.HandleError(c.ApplyToSelection(ctx, target))
		},
	}

	options.AddTaskArgs(cmd, to)
	options.AddMemberArgs(cmd, mo)
	options.AddDaysArgs(cmd, do)
	options.AddApplyArgs(cmd, ao)
	_ = cmd.RegisterFlagCompletionFunc("member", memberCompletion(env))
	base.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}

// editTarget finds id among memberID's calendar tasks. day narrows to one
// occurrence; empty picks the first day it is on.
func editTarget(c *apply.Coordinator, id, memberID string, day weekday.Day) (apply.EditTarget, error) {
	state := c.Calendar().Snapshot()
	t, first, ok := state.FindTask(id, memberID)
	if !ok {
		return apply.EditTarget{}, fmt.Errorf("no task %s for that member", id)
	}
	if day == "" {
		day = first
	}
	return apply.EditTarget{Task: t, Day: day, MemberID: memberID}, nil
}

// shortDays renders days as "Mon, Tue" in planner order.
func shortDays(days []weekday.Day) string {
	sorted := weekday.Sort(weekday.Normalize(days))
	short := make([]string, len(sorted))
	for i, d := range sorted {
		short[i] = d.Short()
	}
	return strings.Join(short, ", ")
}

// holders lists the members with a task generated by templateID.
func holders(state calendar.State, templateID string) []string {
	var ids []string
	seen := map[string]bool{}
	for _, d := range weekday.All {
		for _, t := range state[d].Individual {
			if t.RecurringID == templateID && !seen[t.MemberID] {
				seen[t.MemberID] = true
				ids = append(ids, t.MemberID)
			}
		}
	}
	return ids
}

func addTaskEdit(topLevel *cobra.Command, env envFunc) {
	mo := &options.MemberOptions{}
	do := &options.DayOptions{}
	ao := &options.ApplyOptions{}
	output := &base.OutputOptions{}
	var rename string

	cmd := &cobra.Command{
		Use:   "edit TASK-ID",
		Short: "Rename a task or change who and which days a repeating task covers",
		Example: `
kidoers task edit 4f6c... --member Ana --name "Make the bed"
kidoers task edit 4f6c... --member Ana --days mon,wed,fri --apply-to all-kids
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			e, err := env(cmd)
			if err != nil {
				return output.HandleError(err)
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			m, err := e.member(ctx, mo.Member, false)
			if err != nil {
				return output.HandleError(err)
			}
			days, day, err := do.Parse()
			if err != nil {
				return output.HandleError(err)
			}
			c, err := e.coordinator(ctx)
			if err != nil {
				return output.HandleError(err)
			}
			edit, err := editTarget(c, args[0], m.ID, day)
			if err != nil {
				return output.HandleError(err)
			}
			target, err := e.target(ctx, ao)
			if err != nil {
				return output.HandleError(err)
			}
			if ao.ApplyTo == "" && len(ao.Select) == 0 && edit.Task.IsRecurring() {
				// Keep everyone who shares the repeating task.
				e.sel.Select(holders(c.Calendar().Snapshot(), edit.Task.RecurringID)...)
				target = options.SelectionTarget
			}

			c.Edit(edit)
			c.Open(apply.ModalTaskMini)
			if rename != "" {
				c.SetEditName(rename)
			}
			if len(days) == 0 {
				days = edit.Task.DaysOfWeek
			}
			c.Drop(apply.PendingAction{
				Kind:             apply.KindTask,
				Task:             edit.Task,
				TargetMemberID:   m.ID,
				TargetMemberName: m.Name,
				DaySelection:     days,
				TargetDay:        edit.Day,
			})
			return output.HandleError(c.ApplyToSelection(ctx, target))
		},
	}

	cmd.Flags().StringVar(&rename, "name", "", "New name for the task.")
	options.AddMemberArgs(cmd, mo)
	options.AddDaysArgs(cmd, do)
	options.AddApplyArgs(cmd, ao)
	_ = cmd.RegisterFlagCompletionFunc("member", memberCompletion(env))
	base.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}

func addTaskDelete(topLevel *cobra.Command, env envFunc) {
	mo := &options.MemberOptions{}
	do := &options.DayOptions{}
	so := &options.ScopeOptions{}
	output := &base.OutputOptions{}

	cmd := &cobra.Command{
		Use:     "delete TASK-ID",
		Aliases: []string{"rm"},
		Short:   "Delete a task, or one day of a repeating task",
		Example: `
kidoers task delete 4f6c... --member Ana
kidoers task delete 4f6c... --member Ana --day wed --scope instance
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			e, err := env(cmd)
			if err != nil {
				return output.HandleError(err)
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			scope, err := so.Get()
			if err != nil {
				return output.HandleError(err)
			}
			m, err := e.member(ctx, mo.Member, false)
			if err != nil {
				return output.HandleError(err)
			}
			_, day, err := do.Parse()
			if err != nil {
				return output.HandleError(err)
			}
			c, err := e.coordinator(ctx)
			if err != nil {
				return output.HandleError(err)
			}
			edit, err := editTarget(c, args[0], m.ID, day)
			if err != nil {
				return output.HandleError(err)
			}
			c.Edit(edit)
			c.Open(apply.ModalTaskMini)
			err = c.Delete(ctx, scope)
			if errors.Is(err, apply.ErrScopeRequired) {
				c.CloseAll()
				_, scopes := apply.DeleteModel(routine.Draft, edit.Task.DaysOfWeek)
				names := make([]string, len(scopes))
				for i, s := range scopes {
					names[i] = string(s)
				}
				err = fmt.Errorf("%s repeats on %s; pass --scope %s", edit.Task.Name,
					shortDays(edit.Task.DaysOfWeek), strings.Join(names, " or --scope "))
			}
			return output.HandleError(err)
		},
	}

	options.AddMemberArgs(cmd, mo)
	options.AddDayArg(cmd, do)
	options.AddScopeArgs(cmd, so)
	_ = cmd.RegisterFlagCompletionFunc("member", memberCompletion(env))
	base.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}

func addTaskList(topLevel *cobra.Command, env envFunc) {
	io := &options.IDOptions{}
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the repeating tasks of the current routine",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			e, err := env(cmd)
			if err != nil {
				return oo.HandleError(err)
			}
			ctx := context.Background()
			r, err := e.svc.EnsureRoutine(ctx)
			if err != nil {
				return oo.HandleError(err)
			}
			tpls, err := e.svc.Templates(ctx, r.ID)
			if err != nil {
				return oo.HandleError(err)
			}
			tasks, err := e.svc.Tasks(ctx, r.ID)
			if err != nil {
				return oo.HandleError(err)
			}
			roster, err := e.svc.Members(ctx)
			if err != nil {
				return oo.HandleError(err)
			}
			listing := struct {
				Templates []routine.RecurringTemplate `json:"templates" yaml:"templates"`
				Tasks     []routine.Task              `json:"tasks" yaml:"tasks"`
			}{tpls, tasks}
			return encodeOr(cmd, oo, listing, func() {
				e.pretty(cmd, io).Templates(tpls, tasks, roster)
			})
		},
	}

	options.AddShowIDArgs(cmd, io)
	options.AddOutputArgs(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addTaskDone(topLevel *cobra.Command, env envFunc) {
	oo := &options.OutputOptions{}
	var not bool

	cmd := &cobra.Command{
		Use:   "done TASK-ID",
		Short: "Mark a task as completed",
		Example: `
kidoers task done 4f6c...
kidoers task done 4f6c... --not
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			e, err := env(cmd)
			if err != nil {
				return oo.HandleError(err)
			}
			ctx := context.Background()
			r, err := e.svc.EnsureRoutine(ctx)
			if err != nil {
				return oo.HandleError(err)
			}
			t, err := e.svc.SetCompleted(ctx, r.ID, args[0], !not)
			if err != nil {
				return oo.HandleError(err)
			}
			if err := e.refresh(ctx); err != nil {
				return oo.HandleError(err)
			}
			return encodeOr(cmd, oo, t, func() {
				state := "done"
				if not {
					state = "not done"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Marked %s %s\n", t.Name, state)
			})
		},
	}

	cmd.Flags().BoolVar(&not, "not", false, "Mark the task as not done.")
	options.AddOutputArgs(cmd, oo)
	topLevel.AddCommand(cmd)
}
