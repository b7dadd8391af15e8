package commands

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/kidoers/pkg/apply"
	"tableflip.dev/kidoers/pkg/commands/options"
	"tableflip.dev/kidoers/pkg/family"
	"tableflip.dev/kidoers/pkg/routine"
)

func addGroup(topLevel *cobra.Command, env envFunc) {
	cmd := &cobra.Command{
		Use:     "group",
		Aliases: []string{"groups"},
		Short:   "Apply bundles of tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addGroupAdd(cmd, env)

	topLevel.AddCommand(cmd)
}

func splitNames(raw string) []string {
	var out []string
	for _, n := range strings.Split(raw, ",") {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}

func addGroupAdd(topLevel *cobra.Command, env envFunc) {
	to := &options.TaskOptions{}
	mo := &options.MemberOptions{}
	do := &options.DayOptions{}
	ao := &options.ApplyOptions{}
	output := &base.OutputOptions{}
	var (
		name   string
		tasks  string
		only   string
		colour string
	)

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Drop a group of tasks on the calendar and apply it",
		Example: `
kidoers group add Bedtime --tasks "Brush teeth,Pajamas,Story" --days everyday --apply-to all-kids
kidoers group add Bedtime --tasks "Brush teeth,Pajamas,Story" --only "Brush teeth" --member Ben --day fri
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errors.New("requires a group name")
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
			names := splitNames(tasks)
			if len(names) == 0 {
				return output.HandleError(errors.New("--tasks needs at least one task"))
			}
			g := routine.Group{ID: uuid.NewString(), Name: name, Color: colour}
			for _, n := range names {
				t, err := to.Task(n)
				if err != nil {
					return output.HandleError(err)
				}
				g.TimeOfDay = t.TimeOfDay
				g.Tasks = append(g.Tasks, t)
			}
			var selected []routine.Task
			for _, n := range splitNames(only) {
				for _, t := range g.Tasks {
					if strings.EqualFold(t.Name, n) {
						selected = append(selected, t)
					}
				}
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
				Kind:             apply.KindGroup,
				Group:            g,
				SelectedTasks:    selected,
				TargetMemberID:   drop.ID,
				TargetMemberName: drop.Name,
				DaySelection:     days,
				TargetDay:        day,
			})
			c.Open(apply.ModalApplyTo)
			return output.HandleError(c.ApplyToSelection(ctx, target))
		},
	}

	cmd.Flags().StringVar(&tasks, "tasks", "", "Comma separated task names in the group.")
	cmd.Flags().StringVar(&only, "only", "", "Apply just these tasks of the group.")
	cmd.Flags().StringVar(&colour, "color", "", "Color tag of the group.")
	options.AddTaskArgs(cmd, to)
	options.AddMemberArgs(cmd, mo)
	options.AddDaysArgs(cmd, do)
	options.AddApplyArgs(cmd, ao)
	_ = cmd.RegisterFlagCompletionFunc("member", memberCompletion(env))
	base.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}
