// Package apply turns a dropped or edited task or group into backend
// mutations for the selected members and days, then reconciles the shared
// calendar state.
package apply

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tableflip.dev/kidoers/pkg/calendar"
	"tableflip.dev/kidoers/pkg/family"
	"tableflip.dev/kidoers/pkg/notify"
	"tableflip.dev/kidoers/pkg/routine"
	"tableflip.dev/kidoers/pkg/undo"
	"tableflip.dev/kidoers/pkg/weekday"
)

var (
	ErrNoTargets    = errors.New("apply: no target members")
	ErrNoDays       = errors.New("apply: no target days")
	ErrNoEditTarget = errors.New("apply: no task selected for edit")
)

// Kind of thing being applied.
type Kind string

const (
	KindTask  Kind = "task"
	KindGroup Kind = "group"
)

// PendingAction is what a drop or edit gesture left behind, waiting for the
// user to pick who it applies to.
type PendingAction struct {
	Kind             Kind
	Task             routine.Task
	Group            routine.Group
	SelectedTasks    []routine.Task
	TargetMemberID   string
	TargetMemberName string
	DaySelection     []weekday.Day
	TargetDay        weekday.Day
}

// Days resolves the target days: the explicit selection when there is one,
// otherwise the single day the item was dropped on.
func (p PendingAction) Days() []weekday.Day {
	if len(p.DaySelection) > 0 {
		return append([]weekday.Day(nil), p.DaySelection...)
	}
	if p.TargetDay == "" {
		return nil
	}
	return []weekday.Day{p.TargetDay}
}

// EditTarget is the calendar task opened for editing.
type EditTarget struct {
	Task     routine.Task
	Day      weekday.Day
	MemberID string
}

// Modal identifies a dialog the host may show.
type Modal string

const (
	ModalApplyTo        Modal = "apply-to"
	ModalTaskMini       Modal = "task-mini"
	ModalDeleteConfirm  Modal = "delete-confirm"
	ModalRoutineDetails Modal = "routine-details"
	ModalCreateGroup    Modal = "create-group"
)

// Backend is the persistence capability the coordinator mutates.
type Backend interface {
	EnsureRoutine(ctx context.Context) (routine.Routine, error)
	CreateTasks(ctx context.Context, routineID string, req routine.BulkCreate) ([]routine.Task, error)
	UpdateRecurring(ctx context.Context, routineID string, req routine.RecurringUpdate) (routine.RecurringResult, error)
	RenameTask(ctx context.Context, routineID, taskID, name string) (routine.Task, error)
	ApplyGroup(ctx context.Context, routineID string, req routine.GroupApplication) ([]routine.Group, error)

	DeleteTask(ctx context.Context, routineID, taskID string) (routine.Restore, error)
	RemoveTemplateDay(ctx context.Context, routineID, templateID string, day weekday.Day) (routine.Restore, error)
	DeleteTemplate(ctx context.Context, routineID, templateID string) (routine.Restore, error)
	Restore(ctx context.Context, routineID string, r routine.Restore) error
}

// Members supplies the roster and the current selection.
type Members interface {
	Roster() family.Roster
	SelectedIDs() []string
}

// Coordinator owns the transient apply state. Calls are expected one at a
// time; hosts should check Applying before triggering another.
type Coordinator struct {
	backend  Backend
	members  Members
	cal      *calendar.Container
	notifier notify.Notifier
	undo     *undo.Registry
	log      *zap.Logger
	newID    func() string

	mu       sync.Mutex
	pending  *PendingAction
	edit     *EditTarget
	editName string
	modals   map[Modal]bool
	applying bool
	err      error
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithNotifier sets where notifications go.
func WithNotifier(n notify.Notifier) Option {
	return func(c *Coordinator) { c.notifier = n }
}

// WithUndo sets the registry deletes are offered through.
func WithUndo(r *undo.Registry) Option {
	return func(c *Coordinator) { c.undo = r }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Coordinator) { c.log = l }
}

// WithIDs replaces the generator used for undo operation ids.
func WithIDs(f func() string) Option {
	return func(c *Coordinator) { c.newID = f }
}

// New returns a Coordinator writing to cal.
func New(backend Backend, members Members, cal *calendar.Container, opts ...Option) *Coordinator {
	c := &Coordinator{
		backend:  backend,
		members:  members,
		cal:      cal,
		notifier: notify.Discard,
		log:      zap.NewNop(),
		newID:    uuid.NewString,
		modals:   map[Modal]bool{},
	}
	for _, o := range opts {
		o(c)
	}
	if c.undo == nil {
		c.undo = undo.New(c.notifier, undo.WithLogger(c.log))
	}
	return c
}

// Calendar is the container the coordinator commits to.
func (c *Coordinator) Calendar() *calendar.Container { return c.cal }

// Undo is the registry delete operations are offered through.
func (c *Coordinator) Undo() *undo.Registry { return c.undo }

// Drop records a pending action and opens the apply-to dialog.
func (c *Coordinator) Drop(p PendingAction) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = &p
	c.modals[ModalApplyTo] = true
}

// Pending returns the pending action, if any.
func (c *Coordinator) Pending() (PendingAction, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending == nil {
		return PendingAction{}, false
	}
	return *c.pending, true
}

// Edit opens t for editing.
func (c *Coordinator) Edit(t EditTarget) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.edit = &t
	c.editName = ""
	c.modals[ModalTaskMini] = true
}

// EditTarget returns the task being edited, if any.
func (c *Coordinator) EditTarget() (EditTarget, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.edit == nil {
		return EditTarget{}, false
	}
	return *c.edit, true
}

// SetEditName sets the name the edited task will be saved with.
func (c *Coordinator) SetEditName(name string) {
	c.mu.Lock()
	c.editName = name
	c.mu.Unlock()
}

// EditName is the pending edited name.
func (c *Coordinator) EditName() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.editName
}

// Open marks m as shown.
func (c *Coordinator) Open(m Modal) {
	c.mu.Lock()
	c.modals[m] = true
	c.mu.Unlock()
}

// Close hides m. Closing the task dialog also drops the task being edited.
func (c *Coordinator) Close(m Modal) {
	c.mu.Lock()
	delete(c.modals, m)
	if m == ModalTaskMini {
		c.edit = nil
		c.editName = ""
	}
	c.mu.Unlock()
}

// IsOpen reports whether m is shown.
func (c *Coordinator) IsOpen(m Modal) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.modals[m]
}

// OpenModals is the number of modals shown.
func (c *Coordinator) OpenModals() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.modals)
}

// CloseAll hides every modal and drops the task being edited.
func (c *Coordinator) CloseAll() {
	c.mu.Lock()
	c.modals = map[Modal]bool{}
	c.edit = nil
	c.editName = ""
	c.mu.Unlock()
}

// Applying reports whether an apply is in flight.
func (c *Coordinator) Applying() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.applying
}

// Err is the error of the last apply or delete, nil after a success.
func (c *Coordinator) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// ApplyToSelection applies the pending action to the members chosen by
// targetID: one of the family.Apply* options or a member id. Without a
// pending action or a target it does nothing.
//
// The calendar is only committed when every backend call succeeded; on
// failure it stays at the state it had when the call started.
func (c *Coordinator) ApplyToSelection(ctx context.Context, targetID string) error {
	c.mu.Lock()
	if c.pending == nil || targetID == "" {
		c.mu.Unlock()
		return nil
	}
	pending := *c.pending
	var edit *EditTarget
	if c.edit != nil {
		e := *c.edit
		edit = &e
	}
	name := c.editName
	c.applying = true
	c.err = nil
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.applying = false
		c.mu.Unlock()
	}()

	next, err := c.apply(ctx, pending, edit, name, targetID)
	if err != nil {
		c.log.Error("apply failed", zap.String("target", targetID), zap.String("kind", string(pending.Kind)), zap.Error(err))
		c.mu.Lock()
		c.err = err
		c.mu.Unlock()
		c.notifier.Notify(ctx, notify.Notification{
			Title:       "Error",
			Description: "Failed to apply tasks",
			Variant:     notify.Destructive,
		})
		return err
	}

	c.cal.Commit(next)
	c.mu.Lock()
	c.pending = nil
	c.edit = nil
	c.editName = ""
	c.modals = map[Modal]bool{}
	c.mu.Unlock()

	c.log.Info("applied", zap.String("target", targetID), zap.String("kind", string(pending.Kind)))
	c.notifier.Notify(ctx, notify.Notification{
		Title:       "Success",
		Description: "Tasks applied successfully",
		Variant:     notify.Default,
	})
	return nil
}

func (c *Coordinator) apply(ctx context.Context, p PendingAction, edit *EditTarget, name, targetID string) (calendar.State, error) {
	working := c.cal.Snapshot()

	days := weekday.Normalize(p.Days())
	if len(days) == 0 {
		return nil, ErrNoDays
	}
	targets := family.ResolveTargets(c.members.Roster(), targetID, p.TargetMemberID, c.members.SelectedIDs())
	if len(targets) == 0 {
		return nil, fmt.Errorf("%w for %q", ErrNoTargets, targetID)
	}

	r, err := c.backend.EnsureRoutine(ctx)
	if err != nil {
		return nil, fmt.Errorf("ensure routine: %w", err)
	}

	switch {
	case edit != nil && edit.Task.RecurringID != "":
		return c.applyRecurringEdit(ctx, r.ID, working, p, *edit, name, targets, days)
	case p.Kind == KindGroup:
		return c.applyGroup(ctx, r.ID, working, p, targets, days)
	default:
		return c.applyTask(ctx, r.ID, working, p, edit, name, targets, days)
	}
}

func (c *Coordinator) applyRecurringEdit(ctx context.Context, routineID string, working calendar.State, p PendingAction, edit EditTarget, name string, targets []string, days []weekday.Day) (calendar.State, error) {
	src := edit.Task
	if p.Kind == KindTask && p.Task.ID != "" {
		src = p.Task
	}
	req := routine.RecurringUpdate{
		TemplateID:  edit.Task.RecurringID,
		Template:    routine.TemplateFrom(src, name),
		Assignments: routine.AssignmentsFor(targets, days),
		NewDays:     days,
	}
	res, err := c.backend.UpdateRecurring(ctx, routineID, req)
	if err != nil {
		return nil, fmt.Errorf("update recurring %s: %w", req.TemplateID, err)
	}
	c.log.Debug("recurring updated", zap.String("template", req.TemplateID), zap.Int("tasks", len(res.Tasks)))

	next := working.WithoutTemplate(edit.Task.RecurringID)
	for _, t := range res.Tasks {
		t.Saved = true
		t.FromGroup = nil
		taskDays := t.DaysOfWeek
		if len(taskDays) == 0 {
			taskDays = res.DaysAssigned
		}
		for _, d := range taskDays {
			next = next.WithTask(d, t)
		}
	}
	return next, nil
}

func (c *Coordinator) applyGroup(ctx context.Context, routineID string, working calendar.State, p PendingAction, targets []string, days []weekday.Day) (calendar.State, error) {
	tasks := p.SelectedTasks
	if len(tasks) == 0 {
		tasks = p.Group.Tasks
	}
	req := routine.GroupApplication{
		Group:     p.Group.Clone(),
		Tasks:     tasks,
		MemberIDs: targets,
		Days:      days,
	}
	instances, err := c.backend.ApplyGroup(ctx, routineID, req)
	if err != nil {
		return nil, fmt.Errorf("apply group %s: %w", p.Group.ID, err)
	}
	next := working
	for _, d := range days {
		for _, g := range instances {
			next = next.WithGroup(d, g)
		}
	}
	return next, nil
}

func (c *Coordinator) applyTask(ctx context.Context, routineID string, working calendar.State, p PendingAction, edit *EditTarget, name string, targets []string, days []weekday.Day) (calendar.State, error) {
	if edit != nil && edit.Task.ID == p.Task.ID {
		if name == "" {
			name = edit.Task.Name
		}
		if _, err := c.backend.RenameTask(ctx, routineID, edit.Task.ID, name); err != nil {
			return nil, fmt.Errorf("rename task %s: %w", edit.Task.ID, err)
		}
		return working.RenameTask(edit.Task.ID, name), nil
	}

	req := routine.BulkCreate{
		Template:        routine.TemplateFrom(p.Task, name),
		Assignments:     routine.AssignmentsFor(targets, days),
		CreateRecurring: true,
	}
	created, err := c.backend.CreateTasks(ctx, routineID, req)
	if err != nil {
		return nil, fmt.Errorf("create tasks %q: %w", req.Template.Name, err)
	}
	next := working
	for _, t := range created {
		t.Saved = true
		for _, d := range days {
			next = next.UpsertTask(d, t)
		}
	}
	return next, nil
}
