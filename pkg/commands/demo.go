package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"tableflip.dev/kidoers/pkg/commands/options"
)

func addDemo(topLevel *cobra.Command, env envFunc) {
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Fill an empty family with a sample roster and routine",
		Example: `
KIDOERS_PATH=/tmp/kidoers-demo kidoers demo
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			e, err := env(cmd)
			if err != nil {
				return oo.HandleError(err)
			}
			ctx := context.Background()
			r, err := e.svc.SeedDemo(ctx)
			if err != nil {
				return oo.HandleError(err)
			}
			roster, state, _, err := e.snapshot(ctx)
			if err != nil {
				return oo.HandleError(err)
			}
			return encodeOr(cmd, oo, r, func() {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Seeded %s for %d members\n\n", r.Name, len(roster))
				e.pretty(cmd, nil).Week(roster, state)
			})
		},
	}

	options.AddOutputArgs(cmd, oo)
	topLevel.AddCommand(cmd)
}
