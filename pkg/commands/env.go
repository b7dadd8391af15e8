package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tableflip.dev/kidoers/pkg/app"
	"tableflip.dev/kidoers/pkg/apply"
	"tableflip.dev/kidoers/pkg/calendar"
	"tableflip.dev/kidoers/pkg/commands/options"
	"tableflip.dev/kidoers/pkg/family"
	"tableflip.dev/kidoers/pkg/notify"
	"tableflip.dev/kidoers/pkg/printers"
	"tableflip.dev/kidoers/pkg/store"
	"tableflip.dev/kidoers/pkg/undo"
)

// env is what a command runs against. One-shot commands get a fresh env;
// a session shares one so the calendar and pending undo operations survive
// between lines.
type env struct {
	cfg   store.Config
	p     store.Persistence
	log   *zap.Logger
	svc   *app.Service
	notes *notify.Printer

	sel   *family.Selection
	coord *apply.Coordinator
}

type envFunc func(cmd *cobra.Command) (*env, error)

func loadEnv(lo *options.LogOptions) envFunc {
	return func(cmd *cobra.Command) (*env, error) {
		log, err := lo.Logger()
		if err != nil {
			return nil, fmt.Errorf("logger: %w", err)
		}
		cfg, err := store.LoadConfig()
		if err != nil {
			return nil, err
		}
		p, err := store.Load(cfg)
		if err != nil {
			return nil, err
		}
		return newEnv(cfg, p, log, cmd.OutOrStdout()), nil
	}
}

func newEnv(cfg store.Config, p store.Persistence, log *zap.Logger, out io.Writer) *env {
	log.Debug("store loaded", zap.String("path", cfg.BasePath()), zap.String("family", cfg.Family()))
	return &env{
		cfg: cfg,
		p:   p,
		log: log,
		svc: &app.Service{
			Persistence: p,
			FamilyID:    cfg.Family(),
			RoutineID:   cfg.Routine(),
			Log:         log.Named("app"),
		},
		notes: notify.NewPrinter(out),
	}
}

// coordinator loads the roster and the calendar of the current routine the
// first time it is asked for.
func (e *env) coordinator(ctx context.Context) (*apply.Coordinator, error) {
	if e.coord != nil {
		return e.coord, nil
	}
	roster, err := e.svc.Members(ctx)
	if err != nil {
		return nil, err
	}
	r, err := e.svc.EnsureRoutine(ctx)
	if err != nil {
		return nil, err
	}
	state, err := e.svc.LoadCalendar(ctx, r.ID)
	if err != nil {
		return nil, err
	}
	e.sel = family.NewSelection(roster)
	reg := undo.New(e.notes,
		undo.WithWindow(e.cfg.UndoWindow()),
		undo.WithLogger(e.log.Named("undo")),
	)
	e.coord = apply.New(e.svc, e.sel, calendar.NewContainer(state),
		apply.WithNotifier(e.notes),
		apply.WithUndo(reg),
		apply.WithLogger(e.log.Named("apply")),
	)
	return e.coord, nil
}

// refresh drops the loaded coordinator after a change it did not make, so
// the next call sees storage again. Pending undo operations are kept.
func (e *env) refresh(ctx context.Context) error {
	if e.coord == nil {
		return nil
	}
	roster, err := e.svc.Members(ctx)
	if err != nil {
		return err
	}
	r, err := e.svc.EnsureRoutine(ctx)
	if err != nil {
		return err
	}
	state, err := e.svc.LoadCalendar(ctx, r.ID)
	if err != nil {
		return err
	}
	e.sel.SetRoster(roster)
	e.coord.Calendar().Commit(state)
	return nil
}

func (e *env) pretty(cmd *cobra.Command, ids *options.IDOptions) *printers.PrettyPrint {
	pp := &printers.PrettyPrint{Out: cmd.OutOrStdout()}
	if ids != nil {
		pp.ShowID = ids.ShowID
	}
	return pp
}

// member resolves ref, which may be empty when optional is set.
func (e *env) member(ctx context.Context, ref string, optional bool) (family.Member, error) {
	if ref == "" {
		if optional {
			return family.Member{}, nil
		}
		return family.Member{}, fmt.Errorf("--member is required")
	}
	return e.svc.FindMember(ctx, ref)
}

func encodeOr(cmd *cobra.Command, oo *options.OutputOptions, v interface{}, text func()) error {
	if f := oo.Format(); f != printers.Text {
		return printers.Encode(cmd.OutOrStdout(), f, v)
	}
	text()
	return nil
}
