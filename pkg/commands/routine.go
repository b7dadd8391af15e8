package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/kidoers/pkg/commands/options"
	"tableflip.dev/kidoers/pkg/routine"
)

func addRoutine(topLevel *cobra.Command, env envFunc) {
	cmd := &cobra.Command{
		Use:     "routine",
		Aliases: []string{"routines"},
		Short:   "Manage routines",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addRoutineCreate(cmd, env)
	addRoutineList(cmd, env)
	addRoutineUse(cmd, env)
	addRoutineStatus(cmd, env, "activate", routine.Active, "Mark a routine active")
	addRoutineStatus(cmd, env, "archive", routine.Archived, "Archive a routine")

	topLevel.AddCommand(cmd)
}

func addRoutineCreate(topLevel *cobra.Command, env envFunc) {
	oo := &options.OutputOptions{}
	var name string

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a draft routine",
		Example: `
kidoers routine create School week
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errors.New("requires a name")
			}
			name = strings.Join(args, " ")
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			e, err := env(cmd)
			if err != nil {
				return oo.HandleError(err)
			}
			r, err := e.svc.CreateRoutine(context.Background(), name)
			if err != nil {
				return oo.HandleError(err)
			}
			return encodeOr(cmd, oo, r, func() {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created %s (%s)\n", r.Name, r.Status)
			})
		},
	}

	options.AddOutputArgs(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addRoutineList(topLevel *cobra.Command, env envFunc) {
	io := &options.IDOptions{}
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List routines; the current one is starred",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			e, err := env(cmd)
			if err != nil {
				return oo.HandleError(err)
			}
			ctx := context.Background()
			all, err := e.svc.Routines(ctx)
			if err != nil {
				return oo.HandleError(err)
			}
			current := ""
			if len(all) > 0 {
				r, err := e.svc.EnsureRoutine(ctx)
				if err != nil {
					return oo.HandleError(err)
				}
				current = r.ID
			}
			return encodeOr(cmd, oo, all, func() {
				e.pretty(cmd, io).Routines(all, current)
			})
		},
	}

	options.AddShowIDArgs(cmd, io)
	options.AddOutputArgs(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addRoutineUse(topLevel *cobra.Command, env envFunc) {
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "use NAME|ID",
		Short: "Work on this routine from now on",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			e, err := env(cmd)
			if err != nil {
				return oo.HandleError(err)
			}
			ctx := context.Background()
			r, err := e.svc.UseRoutine(ctx, strings.Join(args, " "))
			if err != nil {
				return oo.HandleError(err)
			}
			if err := e.refresh(ctx); err != nil {
				return oo.HandleError(err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Using %s\n", r.Name)
			return nil
		},
	}

	options.AddOutputArgs(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addRoutineStatus(topLevel *cobra.Command, env envFunc, use string, status routine.Status, short string) {
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   use + " NAME|ID",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			e, err := env(cmd)
			if err != nil {
				return oo.HandleError(err)
			}
			r, err := e.svc.SetStatus(context.Background(), strings.Join(args, " "), status)
			if err != nil {
				return oo.HandleError(err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s is %s\n", r.Name, r.Status)
			return nil
		},
	}

	options.AddOutputArgs(cmd, oo)
	topLevel.AddCommand(cmd)
}
