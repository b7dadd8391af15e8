package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/kidoers/pkg/commands/options"
)

func addMember(topLevel *cobra.Command, env envFunc) {
	cmd := &cobra.Command{
		Use:     "member",
		Aliases: []string{"members"},
		Short:   "Manage family members",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addMemberAdd(cmd, env)
	addMemberList(cmd, env)
	addMemberRemove(cmd, env)

	topLevel.AddCommand(cmd)
}

func addMemberAdd(topLevel *cobra.Command, env envFunc) {
	md := &options.MemberDetails{}
	oo := &options.OutputOptions{}
	var name string

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a member to the family",
		Example: `
kidoers member add Ana --age 9 --color orange
kidoers member add Mom --role parent
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
			m, err := md.Member(name)
			if err != nil {
				return oo.HandleError(err)
			}
			ctx := context.Background()
			m, err = e.svc.AddMember(ctx, m)
			if err != nil {
				return oo.HandleError(err)
			}
			if err := e.refresh(ctx); err != nil {
				return oo.HandleError(err)
			}
			return encodeOr(cmd, oo, m, func() {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s)\n", m.Name, m.Role)
			})
		},
	}

	options.AddMemberDetailArgs(cmd, md)
	options.AddOutputArgs(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addMemberList(topLevel *cobra.Command, env envFunc) {
	io := &options.IDOptions{}
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the family in display order",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			e, err := env(cmd)
			if err != nil {
				return oo.HandleError(err)
			}
			roster, err := e.svc.Members(context.Background())
			if err != nil {
				return oo.HandleError(err)
			}
			return encodeOr(cmd, oo, roster, func() {
				e.pretty(cmd, io).Roster(roster)
			})
		},
	}

	options.AddShowIDArgs(cmd, io)
	options.AddOutputArgs(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addMemberRemove(topLevel *cobra.Command, env envFunc) {
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:     "remove NAME|ID",
		Aliases: []string{"rm"},
		Short:   "Remove a member and every task assigned to them",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			e, err := env(cmd)
			if err != nil {
				return oo.HandleError(err)
			}
			ctx := context.Background()
			if err := e.svc.RemoveMember(ctx, args[0]); err != nil {
				return oo.HandleError(err)
			}
			if err := e.refresh(ctx); err != nil {
				return oo.HandleError(err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
			return nil
		},
	}

	options.AddOutputArgs(cmd, oo)
	topLevel.AddCommand(cmd)
}
