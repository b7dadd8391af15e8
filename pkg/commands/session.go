package commands

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"tableflip.dev/kidoers/pkg/runner/session"
)

func addSession(topLevel *cobra.Command, getEnv envFunc) {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Work on the calendar interactively, with undo",
		Long: `Session keeps the calendar and the undo window alive between commands.
Type the same commands as on the command line without the leading kidoers,
plus "undo [ID]" and "pending". "quit" or ctrl-d ends the session.`,
		Example: `
kidoers session
kidoers> task delete 4f6c... --member Ana
kidoers> undo
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			e, err := getEnv(cmd)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()
			if _, err := e.coordinator(ctx); err != nil {
				return err
			}
			shared := func(*cobra.Command) (*env, error) { return e, nil }

			s := session.Session{
				In:     cmd.InOrStdin(),
				Out:    cmd.OutOrStdout(),
				Prompt: "kidoers> ",
				Log:    e.log.Named("session"),
				Exec: func(ctx context.Context, args []string) error {
					root := sessionRoot(shared)
					root.SetArgs(args)
					root.SetIn(cmd.InOrStdin())
					root.SetOut(cmd.OutOrStdout())
					root.SetErr(cmd.ErrOrStderr())
					return root.ExecuteContext(ctx)
				},
			}
			return s.Do(ctx)
		},
	}

	topLevel.AddCommand(cmd)
}

// sessionRoot is rebuilt for every line so flag values never leak from one
// line into the next.
func sessionRoot(env envFunc) *cobra.Command {
	root := &cobra.Command{
		Use:           "kidoers",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	addMember(root, env)
	addRoutine(root, env)
	addTask(root, env)
	addGroup(root, env)
	addCalendar(root, env)
	addSchedule(root, env)
	addReport(root, env)
	addReward(root, env)
	addUndo(root, env)
	addPending(root, env)
	return root
}

func addUndo(topLevel *cobra.Command, env envFunc) {
	cmd := &cobra.Command{
		Use:   "undo [ID]",
		Short: "Undo the latest, or the given, pending operation",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := env(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			c, err := e.coordinator(ctx)
			if err != nil {
				return err
			}
			id := ""
			if len(args) == 1 {
				id = args[0]
			} else {
				pending := c.Undo().Pending()
				if len(pending) == 0 {
					return errors.New("nothing to undo")
				}
				id = pending[len(pending)-1].ID
			}
			return c.Undo().Undo(ctx, id)
		},
	}

	topLevel.AddCommand(cmd)
}

func addPending(topLevel *cobra.Command, env envFunc) {
	cmd := &cobra.Command{
		Use:   "pending",
		Short: "List operations that can still be undone",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := env(cmd)
			if err != nil {
				return err
			}
			c, err := e.coordinator(context.Background())
			if err != nil {
				return err
			}
			e.pretty(cmd, nil).Pending(c.Undo())
			return nil
		},
	}

	topLevel.AddCommand(cmd)
}
