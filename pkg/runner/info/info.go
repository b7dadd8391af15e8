// Package info prints where kidoers keeps its data and what is in it.
package info

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"tableflip.dev/kidoers/pkg/store"
	"tableflip.dev/kidoers/pkg/timeutil"
)

type Info struct {
	Config      store.Config
	Persistence store.Persistence
	Out         io.Writer
}

func (n *Info) Do(ctx context.Context) error {
	out := n.Out
	if out == nil {
		out = color.Output
	}

	if override := os.Getenv("KIDOERS_CONFIG_PATH"); override != "" {
		_, _ = fmt.Fprintln(out, "KIDOERS_CONFIG_PATH found on env, using", override)
	} else {
		_, _ = fmt.Fprintln(out, "KIDOERS_CONFIG_PATH env var not set")
	}

	if n.Config == nil {
		var err error
		n.Config, err = store.LoadConfig()
		if err != nil {
			return err
		}
	}

	_, _ = fmt.Fprintln(out, "Config.path:       ", n.Config.BasePath())
	_, _ = fmt.Fprintln(out, "Config.family:     ", n.Config.Family())
	_, _ = fmt.Fprintln(out, "Config.routine:    ", n.Config.Routine())
	_, _ = fmt.Fprintln(out, "Config.undo-window:", timeutil.FormatWindow(n.Config.UndoWindow()))

	if n.Persistence == nil {
		return fmt.Errorf("failed to create persistence object")
	}

	members := n.Persistence.Members(ctx, n.Config.Family())
	_, _ = fmt.Fprintf(out, "Members: %d\n", len(members))

	_, _ = fmt.Fprintf(out, "Routines:\n")
	found := 0
	for _, r := range n.Persistence.Routines(ctx, n.Config.Family()) {
		tasks := n.Persistence.Tasks(ctx, r.ID)
		tpls := n.Persistence.Templates(ctx, r.ID)
		_, _ = fmt.Fprintf(out, "  %s (%s): %d tasks, %d recurring\n", r.Name, r.Status, len(tasks), len(tpls))
		found++
	}
	if found == 0 {
		_, _ = fmt.Fprintf(out, "  %s\n", "no routines")
	}
	return nil
}
