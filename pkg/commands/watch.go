package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tableflip.dev/kidoers/pkg/commands/options"
	"tableflip.dev/kidoers/pkg/printers"
	"tableflip.dev/kidoers/pkg/store"
)

type watchEvent struct {
	At    time.Time  `json:"at" yaml:"at"`
	Type  string     `json:"type" yaml:"type"`
	Kind  store.Kind `json:"kind,omitempty" yaml:"kind,omitempty"`
	Scope string     `json:"scope,omitempty" yaml:"scope,omitempty"`
}

func addWatch(topLevel *cobra.Command, env envFunc) {
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print a line whenever the stored family or routines change",
		Example: `
kidoers watch
kidoers watch --json
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			e, err := env(cmd)
			if err != nil {
				return oo.HandleError(err)
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()
			events, err := e.svc.Watch(ctx)
			if err != nil {
				return oo.HandleError(err)
			}
			e.log.Info("watching", zap.String("path", e.cfg.BasePath()))

			faint := color.New(color.Faint)
			kind := color.New(color.FgCyan)
			for ev := range events {
				we := watchEvent{At: time.Now(), Type: ev.Type.String(), Kind: ev.Kind, Scope: ev.Scope}
				if f := oo.Format(); f != printers.Text {
					if err := printers.Encode(cmd.OutOrStdout(), f, we); err != nil {
						return err
					}
					continue
				}
				_, _ = faint.Fprint(cmd.OutOrStdout(), we.At.Format("15:04:05 "))
				if ev.Type == store.EventInvalidated {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "store changed, reload everything")
					continue
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s in %s\n", we.Type, kind.Sprint(ev.Kind), ev.Scope)
			}
			return nil
		},
	}

	options.AddOutputArgs(cmd, oo)
	topLevel.AddCommand(cmd)
}
