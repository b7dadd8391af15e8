package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/kidoers/pkg/commands/options"
)

func addReward(topLevel *cobra.Command, env envFunc) {
	cmd := &cobra.Command{
		Use:     "reward",
		Aliases: []string{"rewards"},
		Short:   "Set rewards the family earns by completing chores",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addRewardAdd(cmd, env)
	addRewardList(cmd, env)
	addRewardRemove(cmd, env)

	topLevel.AddCommand(cmd)
}

func addRewardAdd(topLevel *cobra.Command, env envFunc) {
	oo := &options.OutputOptions{}
	var (
		title       string
		description string
		threshold   int
	)

	cmd := &cobra.Command{
		Use:   "add TITLE",
		Short: "Add a reward earned after a number of completed tasks",
		Example: `
kidoers reward add Movie night --threshold 20 --description "Kids pick the film"
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errors.New("requires a title")
			}
			title = strings.Join(args, " ")
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			e, err := env(cmd)
			if err != nil {
				return oo.HandleError(err)
			}
			r, err := e.svc.AddReward(context.Background(), title, description, threshold)
			if err != nil {
				return oo.HandleError(err)
			}
			return encodeOr(cmd, oo, r, func() {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%d tasks)\n", r.Title, r.Threshold)
			})
		},
	}

	cmd.Flags().IntVar(&threshold, "threshold", 10, "Completed tasks needed to earn the reward.")
	cmd.Flags().StringVar(&description, "description", "", "What the reward is.")
	options.AddOutputArgs(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addRewardList(topLevel *cobra.Command, env envFunc) {
	io := &options.IDOptions{}
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show each reward and how close the family is to it",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			e, err := env(cmd)
			if err != nil {
				return oo.HandleError(err)
			}
			progress, done, err := e.svc.Rewards(context.Background())
			if err != nil {
				return oo.HandleError(err)
			}
			return encodeOr(cmd, oo, progress, func() {
				e.pretty(cmd, io).Rewards(progress, done)
			})
		},
	}

	options.AddShowIDArgs(cmd, io)
	options.AddOutputArgs(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addRewardRemove(topLevel *cobra.Command, env envFunc) {
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:     "remove REWARD-ID",
		Aliases: []string{"rm"},
		Short:   "Remove a reward",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			e, err := env(cmd)
			if err != nil {
				return oo.HandleError(err)
			}
			if err := e.svc.RemoveReward(context.Background(), args[0]); err != nil {
				return oo.HandleError(err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
			return nil
		},
	}

	options.AddOutputArgs(cmd, oo)
	topLevel.AddCommand(cmd)
}
