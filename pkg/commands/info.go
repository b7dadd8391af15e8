package commands

import (
	"context"

	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/kidoers/pkg/runner/info"
)

func addInfo(topLevel *cobra.Command, env envFunc) {
	output := &base.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Details about the configuration and where records are stored.",
		Example: `
kidoers info
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			e, err := env(cmd)
			if err != nil {
				return output.HandleError(err)
			}
			s := info.Info{
				Config:      e.cfg,
				Persistence: e.p,
				Out:         cmd.OutOrStdout(),
			}
			err = s.Do(context.Background())
			return output.HandleError(err)
		},
	}

	base.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}
