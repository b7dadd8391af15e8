package commands

import (
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/kidoers/pkg/commands/options"
)

func New() *cobra.Command {
	lo := &options.LogOptions{}

	cmd := &cobra.Command{
		Use:   "kidoers",
		Short: base.Wrap80("Plan your family's chores and routines on the command line."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	options.AddLogArgs(cmd, lo)

	AddCommands(cmd, loadEnv(lo))
	return cmd
}

func AddCommands(topLevel *cobra.Command, env envFunc) {
	addMember(topLevel, env)
	addRoutine(topLevel, env)
	addTask(topLevel, env)
	addGroup(topLevel, env)
	addCalendar(topLevel, env)
	addSchedule(topLevel, env)
	addReport(topLevel, env)
	addReward(topLevel, env)
	addSession(topLevel, env)
	addDemo(topLevel, env)
	addWatch(topLevel, env)
	addInfo(topLevel, env)
	addVersion(topLevel)
	addCompletions(topLevel)
}
