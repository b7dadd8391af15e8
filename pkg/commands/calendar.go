package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/kidoers/pkg/app"
	"tableflip.dev/kidoers/pkg/calendar"
	"tableflip.dev/kidoers/pkg/commands/options"
	"tableflip.dev/kidoers/pkg/family"
)

// snapshot is the roster and calendar the printing commands show. Inside a
// session it is the live calendar.
func (e *env) snapshot(ctx context.Context) (family.Roster, calendar.State, string, error) {
	c, err := e.coordinator(ctx)
	if err != nil {
		return nil, nil, "", err
	}
	r, err := e.svc.EnsureRoutine(ctx)
	if err != nil {
		return nil, nil, "", err
	}
	return e.sel.Roster(), c.Calendar().Snapshot(), r.ID, nil
}

func addCalendar(topLevel *cobra.Command, env envFunc) {
	mo := &options.MemberOptions{}
	io := &options.IDOptions{}
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:     "calendar",
		Aliases: []string{"cal", "week"},
		Short:   "Show the week of the current routine",
		Example: `
kidoers calendar
kidoers calendar --member Ana --show-id
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			e, err := env(cmd)
			if err != nil {
				return oo.HandleError(err)
			}
			ctx := context.Background()
			m, err := e.member(ctx, mo.Member, true)
			if err != nil {
				return oo.HandleError(err)
			}
			roster, state, _, err := e.snapshot(ctx)
			if err != nil {
				return oo.HandleError(err)
			}
			return encodeOr(cmd, oo, state, func() {
				e.pretty(cmd, io).Calendar(roster, state, m.ID)
			})
		},
	}

	options.AddMemberArgs(cmd, mo)
	_ = cmd.RegisterFlagCompletionFunc("member", memberCompletion(env))
	options.AddShowIDArgs(cmd, io)
	options.AddOutputArgs(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addSchedule(topLevel *cobra.Command, env envFunc) {
	mo := &options.MemberOptions{}
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Show the schedule each member's week adds up to",
		Example: `
kidoers schedule
kidoers schedule --member Ben --yaml
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			e, err := env(cmd)
			if err != nil {
				return oo.HandleError(err)
			}
			ctx := context.Background()
			roster, state, _, err := e.snapshot(ctx)
			if err != nil {
				return oo.HandleError(err)
			}
			if mo.Member != "" {
				m, err := e.member(ctx, mo.Member, false)
				if err != nil {
					return oo.HandleError(err)
				}
				roster = roster.Filter([]string{m.ID})
			}
			schedules := make(map[string]calendar.Schedule, len(roster))
			for _, m := range roster {
				schedules[m.Name] = state.DeriveSchedule(m.ID)
			}
			return encodeOr(cmd, oo, schedules, func() {
				pp := e.pretty(cmd, nil)
				for _, m := range roster {
					pp.Schedule(m, schedules[m.Name])
				}
			})
		},
	}

	options.AddMemberArgs(cmd, mo)
	_ = cmd.RegisterFlagCompletionFunc("member", memberCompletion(env))
	options.AddOutputArgs(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addReport(topLevel *cobra.Command, env envFunc) {
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Sum tasks, points and minutes per member and day",
		Example: `
kidoers report
kidoers report --json
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			e, err := env(cmd)
			if err != nil {
				return oo.HandleError(err)
			}
			roster, state, routineID, err := e.snapshot(context.Background())
			if err != nil {
				return oo.HandleError(err)
			}
			result := app.Summarize(roster, state, routineID)
			return encodeOr(cmd, oo, result, func() {
				e.pretty(cmd, nil).Report(result)
			})
		},
	}

	options.AddOutputArgs(cmd, oo)
	topLevel.AddCommand(cmd)
}
