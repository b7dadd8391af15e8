// Package undo keeps a short-lived registry of reversible operations and
// offers each one to the user through a notification with an Undo action.
package undo

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"tableflip.dev/kidoers/pkg/calendar"
	"tableflip.dev/kidoers/pkg/clock"
	"tableflip.dev/kidoers/pkg/notify"
)

// DefaultWindow is how long an operation stays registered after its
// notification is shown.
const DefaultWindow = 5 * time.Second

var (
	ErrDuplicateOperation = errors.New("undo: operation already pending")
	ErrNotFound           = errors.New("undo: no such operation")
)

// Kind of change an operation reverses.
type Kind string

const (
	Delete Kind = "delete"
	Update Kind = "update"
)

// State is where an operation is in its lifecycle.
type State string

const (
	Created  State = "created"
	Notified State = "notified"
	Undone   State = "undone"
	Expired  State = "expired"
)

// Operation is a reversible change.
type Operation struct {
	ID       string
	Kind     Kind
	Affected any
	Prior    calendar.State
	Reverse  func(ctx context.Context) error
}

type entry struct {
	op    *Operation
	state State
	timer clock.Timer
}

// Registry tracks pending operations. It is safe for concurrent use.
type Registry struct {
	notifier notify.Notifier
	sched    clock.Scheduler
	window   time.Duration
	log      *zap.Logger

	mu      sync.Mutex
	order   []string
	pending map[string]*entry
	// last known state of operations no longer pending
	settled map[string]State
}

// Option configures a Registry.
type Option func(*Registry)

// WithWindow sets the eviction window.
func WithWindow(d time.Duration) Option {
	return func(r *Registry) {
		if d > 0 {
			r.window = d
		}
	}
}

// WithScheduler replaces the real timers.
func WithScheduler(s clock.Scheduler) Option {
	return func(r *Registry) { r.sched = s }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Registry) { r.log = l }
}

// New builds a Registry that announces operations through n.
func New(n notify.Notifier, opts ...Option) *Registry {
	if n == nil {
		n = notify.Discard
	}
	r := &Registry{
		notifier: n,
		sched:    clock.Real{},
		window:   DefaultWindow,
		log:      zap.NewNop(),
		pending:  map[string]*entry{},
		settled:  map[string]State{},
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Window is the configured eviction window.
func (r *Registry) Window() time.Duration { return r.window }

// Add registers op. Registering an id that is still pending fails.
func (r *Registry) Add(op *Operation) error {
	if op == nil || op.ID == "" {
		return fmt.Errorf("undo: operation needs an id")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.addLocked(op)
}

func (r *Registry) addLocked(op *Operation) error {
	if _, ok := r.pending[op.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateOperation, op.ID)
	}
	r.pending[op.ID] = &entry{op: op, state: Created}
	r.order = append(r.order, op.ID)
	delete(r.settled, op.ID)
	return nil
}

// Remove drops id from the registry. Removing an unknown id is a no-op.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removeLocked(id, "")
}

func (r *Registry) removeLocked(id string, final State) {
	e, ok := r.pending[id]
	if !ok {
		return
	}
	if e.timer != nil {
		e.timer.Stop()
	}
	delete(r.pending, id)
	for i, o := range r.order {
		if o == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	if final != "" {
		r.settled[id] = final
	}
}

// Pending returns the registered operations in insertion order.
func (r *Registry) Pending() []*Operation {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Operation, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.pending[id].op)
	}
	return out
}

// Get returns the pending operation id.
func (r *Registry) Get(id string) (*Operation, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.pending[id]
	if !ok {
		return nil, false
	}
	return e.op, true
}

// State reports where id is in its lifecycle. Unknown ids report "".
func (r *Registry) State(id string) State {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.pending[id]; ok {
		return e.state
	}
	return r.settled[id]
}

// ShowUndoToast registers op when it is not already pending, shows a
// notification offering to undo it, and schedules its eviction after the
// window.
func (r *Registry) ShowUndoToast(ctx context.Context, op *Operation, message string) error {
	if op == nil || op.ID == "" {
		return fmt.Errorf("undo: operation needs an id")
	}
	r.mu.Lock()
	e, ok := r.pending[op.ID]
	if ok && e.op != op {
		r.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrDuplicateOperation, op.ID)
	}
	if !ok {
		if err := r.addLocked(op); err != nil {
			r.mu.Unlock()
			return err
		}
		e = r.pending[op.ID]
	}
	e.state = Notified
	if e.timer != nil {
		e.timer.Stop()
	}
	e.timer = r.sched.AfterFunc(r.window, func() { r.expire(op) })
	r.mu.Unlock()

	r.log.Debug("undo offered", zap.String("op", op.ID), zap.String("kind", string(op.Kind)))
	r.notifier.Notify(ctx, notify.Notification{
		Title:       message,
		Description: "This action can be undone.",
		Variant:     notify.Default,
		Action: &notify.Action{
			Label: "Undo",
			Do:    func(ctx context.Context) { _ = r.run(ctx, op) },
		},
	})
	return nil
}

// expire removes op only if it is still the registration the timer was
// scheduled for.
func (r *Registry) expire(op *Operation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.pending[op.ID]
	if !ok || e.op != op {
		return
	}
	e.timer = nil
	r.removeLocked(op.ID, Expired)
	r.log.Debug("undo window closed", zap.String("op", op.ID))
}

// Undo runs the reverse of the pending operation id.
func (r *Registry) Undo(ctx context.Context, id string) error {
	op, ok := r.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return r.run(ctx, op)
}

// run invokes op.Reverse and reports the outcome. It works after eviction
// too; nothing is retried.
func (r *Registry) run(ctx context.Context, op *Operation) error {
	var err error
	if op.Reverse == nil {
		err = errors.New("undo: operation has no reverse")
	} else {
		err = op.Reverse(ctx)
	}
	if err != nil {
		r.log.Warn("undo failed", zap.String("op", op.ID), zap.Error(err))
		r.notifier.Notify(ctx, notify.Notification{
			Title:       "Unable to undo",
			Description: "There was an error restoring the task.",
			Variant:     notify.Destructive,
		})
		return fmt.Errorf("undo %s: %w", op.ID, err)
	}

	r.mu.Lock()
	if e, ok := r.pending[op.ID]; ok && e.op == op {
		r.removeLocked(op.ID, Undone)
	} else {
		r.settled[op.ID] = Undone
	}
	r.mu.Unlock()

	r.log.Info("undone", zap.String("op", op.ID))
	r.notifier.Notify(ctx, notify.Notification{
		Title:       "Action undone",
		Description: "The task has been restored.",
		Variant:     notify.Default,
	})
	return nil
}
