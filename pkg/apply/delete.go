package apply

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"tableflip.dev/kidoers/pkg/calendar"
	"tableflip.dev/kidoers/pkg/notify"
	"tableflip.dev/kidoers/pkg/routine"
	"tableflip.dev/kidoers/pkg/undo"
	"tableflip.dev/kidoers/pkg/weekday"
)

// ErrScopeRequired is returned when a recurring task spans several days and
// no delete scope was chosen.
var ErrScopeRequired = errors.New("apply: delete scope required")

// Scope of a recurring delete.
type Scope string

const (
	// ScopeInstance removes only the edited weekday from the template.
	ScopeInstance Scope = "instance"
	// ScopeSeries removes the template and every task it generated.
	ScopeSeries Scope = "series"
)

// ParseScope accepts "" for no choice.
func ParseScope(raw string) (Scope, error) {
	switch Scope(raw) {
	case "", ScopeInstance, ScopeSeries:
		return Scope(raw), nil
	}
	return "", fmt.Errorf("apply: unknown delete scope %q", raw)
}

// DeleteModel reports whether deleting a task spread over days needs the
// user to pick a scope, and which scopes to offer. Only draft routines ask.
func DeleteModel(status routine.Status, days []weekday.Day) (bool, []Scope) {
	if status != routine.Draft || len(weekday.Normalize(days)) < 2 {
		return false, nil
	}
	return true, []Scope{ScopeInstance, ScopeSeries}
}

// Delete removes the task being edited. Recurring tasks follow scope; a
// task on a single day deletes its whole series. The delete is offered for
// undo, which restores the backend records and the calendar as it was.
func (c *Coordinator) Delete(ctx context.Context, scope Scope) error {
	edit, ok := c.EditTarget()
	if !ok {
		return ErrNoEditTarget
	}
	err := c.delete(ctx, edit, scope)
	c.mu.Lock()
	c.err = err
	c.mu.Unlock()
	if errors.Is(err, ErrScopeRequired) {
		c.Open(ModalDeleteConfirm)
		return err
	}
	if err != nil {
		c.log.Error("delete failed", zap.String("task", edit.Task.ID), zap.Error(err))
		c.notifier.Notify(ctx, notify.Notification{
			Title:       "Error",
			Description: "Failed to delete task. Please try again.",
			Variant:     notify.Destructive,
		})
		return err
	}

	c.mu.Lock()
	c.edit = nil
	c.editName = ""
	delete(c.modals, ModalTaskMini)
	delete(c.modals, ModalDeleteConfirm)
	c.mu.Unlock()
	return nil
}

func (c *Coordinator) delete(ctx context.Context, edit EditTarget, scope Scope) error {
	r, err := c.backend.EnsureRoutine(ctx)
	if err != nil {
		return fmt.Errorf("ensure routine: %w", err)
	}
	prior := c.cal.Snapshot()
	t := edit.Task

	var (
		restore routine.Restore
		next    calendar.State
	)
	if !t.IsRecurring() {
		restore, err = c.backend.DeleteTask(ctx, r.ID, t.ID)
		if err != nil {
			return fmt.Errorf("delete task %s: %w", t.ID, err)
		}
		next = prior.WithoutTask(t.ID, edit.MemberID)
	} else {
		days := weekday.Normalize(t.DaysOfWeek)
		if len(days) == 0 && edit.Day != "" {
			days = []weekday.Day{edit.Day}
		}
		if scope == "" {
			if ask, _ := DeleteModel(r.Status, days); ask {
				return ErrScopeRequired
			}
			scope = ScopeSeries
		}
		restore, next, err = c.deleteRecurring(ctx, r.ID, prior, t.RecurringID, edit.Day, days, scope)
		if err != nil {
			return err
		}
	}
	c.cal.Commit(next)
	c.log.Info("task deleted", zap.String("task", t.ID), zap.String("scope", string(scope)))

	affected := func(x routine.Task) bool {
		return x.ID == t.ID && (edit.MemberID == "" || x.MemberID == edit.MemberID)
	}
	if t.IsRecurring() {
		affected = func(x routine.Task) bool { return x.RecurringID == t.RecurringID }
	}

	op := &undo.Operation{
		ID:       "delete-" + t.ID + "-" + c.newID(),
		Kind:     undo.Delete,
		Affected: t.Clone(),
		Prior:    prior,
		Reverse: func(ctx context.Context) error {
			if err := c.backend.Restore(ctx, r.ID, restore); err != nil {
				return err
			}
			c.cal.Commit(c.cal.Snapshot().Reinstate(prior, affected))
			return nil
		},
	}
	if err := c.undo.ShowUndoToast(ctx, op, "Task deleted"); err != nil {
		c.log.Warn("undo not offered", zap.String("op", op.ID), zap.Error(err))
	}
	return nil
}

func (c *Coordinator) deleteRecurring(ctx context.Context, routineID string, prior calendar.State, templateID string, day weekday.Day, days []weekday.Day, scope Scope) (routine.Restore, calendar.State, error) {
	if scope == ScopeInstance && len(days) > 1 {
		restore, err := c.backend.RemoveTemplateDay(ctx, routineID, templateID, day)
		if err != nil {
			return routine.Restore{}, nil, fmt.Errorf("remove %s from %s: %w", day, templateID, err)
		}
		next := prior.WithoutTemplateOn(day, templateID).
			WithTemplateDays(templateID, weekday.Without(days, day))
		return restore, next, nil
	}
	restore, err := c.backend.DeleteTemplate(ctx, routineID, templateID)
	if err != nil {
		return routine.Restore{}, nil, fmt.Errorf("delete template %s: %w", templateID, err)
	}
	return restore, prior.WithoutTemplate(templateID), nil
}
