package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"tableflip.dev/kidoers/pkg/routine"
	"tableflip.dev/kidoers/pkg/store"
	"tableflip.dev/kidoers/pkg/weekday"
)

func notFound(err error, what, id string) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%w: %s %s", ErrNotFound, what, id)
	}
	return err
}

func validTemplate(tpl routine.TaskTemplate, assignments []routine.Assignment) error {
	if strings.TrimSpace(tpl.Name) == "" {
		return fmt.Errorf("%w: task name required", ErrInvalid)
	}
	if len(assignments) == 0 {
		return fmt.Errorf("%w: at least one assignment required", ErrInvalid)
	}
	for _, a := range assignments {
		if a.MemberID == "" {
			return fmt.Errorf("%w: assignment without member", ErrInvalid)
		}
		if len(weekday.Normalize(a.DaysOfWeek)) == 0 {
			return fmt.Errorf("%w: %v", ErrInvalid, weekday.ErrNoDays)
		}
	}
	return nil
}

func assignedDays(assignments []routine.Assignment) []weekday.Day {
	var all []weekday.Day
	for _, a := range assignments {
		all = append(all, a.DaysOfWeek...)
	}
	return weekday.Sort(weekday.Normalize(all))
}

func (s *Service) newTasks(routineID, recurringID string, tpl routine.TaskTemplate, assignments []routine.Assignment) ([]routine.Task, error) {
	out := make([]routine.Task, 0, len(assignments))
	for _, a := range assignments {
		t := routine.Task{
			ID:               s.id(),
			RoutineID:        routineID,
			Name:             strings.TrimSpace(tpl.Name),
			Description:      tpl.Description,
			Points:           tpl.Points,
			EstimatedMinutes: tpl.DurationMins,
			TimeOfDay:        tpl.TimeOfDay,
			TemplateID:       tpl.FromTemplate,
			RecurringID:      recurringID,
			MemberID:         a.MemberID,
			DaysOfWeek:       weekday.Sort(weekday.Normalize(a.DaysOfWeek)),
			OrderIndex:       a.OrderIndex,
			Saved:            true,
		}
		if err := s.Persistence.StoreTask(t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// CreateTasks stores one task per assignment. With CreateRecurring the
// tasks share a new recurring template covering every assigned day.
func (s *Service) CreateTasks(ctx context.Context, routineID string, req routine.BulkCreate) ([]routine.Task, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if err := validTemplate(req.Template, req.Assignments); err != nil {
		return nil, err
	}
	var recurringID string
	if req.CreateRecurring {
		days := assignedDays(req.Assignments)
		now := s.now()
		tpl := routine.RecurringTemplate{
			ID:           s.id(),
			RoutineID:    routineID,
			Name:         strings.TrimSpace(req.Template.Name),
			Description:  req.Template.Description,
			Points:       req.Template.Points,
			DurationMins: req.Template.DurationMins,
			TimeOfDay:    req.Template.TimeOfDay,
			Frequency:    routine.FrequencyFor(days),
			DaysOfWeek:   days,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := s.Persistence.StoreTemplate(tpl); err != nil {
			return nil, err
		}
		recurringID = tpl.ID
	}
	tasks, err := s.newTasks(routineID, recurringID, req.Template, req.Assignments)
	if err != nil {
		return nil, err
	}
	s.logger().Info("tasks created", zap.String("routine", routineID), zap.String("template", recurringID), zap.Int("count", len(tasks)))
	return tasks, nil
}

// UpdateRecurring rewrites a template and replaces every task it generated
// with one task per assignment.
func (s *Service) UpdateRecurring(ctx context.Context, routineID string, req routine.RecurringUpdate) (routine.RecurringResult, error) {
	if err := s.ready(); err != nil {
		return routine.RecurringResult{}, err
	}
	if err := validTemplate(req.Template, req.Assignments); err != nil {
		return routine.RecurringResult{}, err
	}
	tpl, err := s.Persistence.Template(routineID, req.TemplateID)
	if err != nil {
		return routine.RecurringResult{}, notFound(err, "template", req.TemplateID)
	}
	days := weekday.Sort(weekday.Normalize(req.NewDays))
	if len(days) == 0 {
		days = assignedDays(req.Assignments)
	}
	tpl.Name = strings.TrimSpace(req.Template.Name)
	tpl.Description = req.Template.Description
	tpl.Points = req.Template.Points
	tpl.DurationMins = req.Template.DurationMins
	tpl.TimeOfDay = req.Template.TimeOfDay
	tpl.DaysOfWeek = days
	tpl.Frequency = routine.FrequencyFor(days)
	tpl.UpdatedAt = s.now()
	if err := s.Persistence.StoreTemplate(tpl); err != nil {
		return routine.RecurringResult{}, err
	}

	for _, t := range s.Persistence.Tasks(ctx, routineID) {
		if t.RecurringID != tpl.ID {
			continue
		}
		if err := s.Persistence.DeleteTask(routineID, t.ID); err != nil {
			return routine.RecurringResult{}, err
		}
	}
	tasks, err := s.newTasks(routineID, tpl.ID, req.Template, req.Assignments)
	if err != nil {
		return routine.RecurringResult{}, err
	}
	s.logger().Info("recurring updated", zap.String("template", tpl.ID), zap.Int("count", len(tasks)))
	return routine.RecurringResult{TemplateID: tpl.ID, Tasks: tasks, DaysAssigned: days}, nil
}

// RenameTask patches the name of one task.
func (s *Service) RenameTask(ctx context.Context, routineID, taskID, name string) (routine.Task, error) {
	if err := s.ready(); err != nil {
		return routine.Task{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return routine.Task{}, fmt.Errorf("%w: task name required", ErrInvalid)
	}
	t, err := s.Persistence.Task(routineID, taskID)
	if err != nil {
		return routine.Task{}, notFound(err, "task", taskID)
	}
	t.Name = name
	if err := s.Persistence.StoreTask(t); err != nil {
		return routine.Task{}, err
	}
	return t, nil
}

// ApplyGroup stores one group instance per member, each carrying its own
// copy of the tasks.
func (s *Service) ApplyGroup(ctx context.Context, routineID string, req routine.GroupApplication) ([]routine.Group, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Group.Name) == "" {
		return nil, fmt.Errorf("%w: group name required", ErrInvalid)
	}
	if len(req.MemberIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one member required", ErrInvalid)
	}
	days := weekday.Sort(weekday.Normalize(req.Days))
	if len(days) == 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, weekday.ErrNoDays)
	}

	// ids are drawn up front so NewID is never called concurrently.
	type plan struct {
		groupID string
		taskIDs []string
	}
	plans := make([]plan, len(req.MemberIDs))
	for i := range plans {
		plans[i].groupID = s.id()
		for range req.Tasks {
			plans[i].taskIDs = append(plans[i].taskIDs, s.id())
		}
	}

	out := make([]routine.Group, len(req.MemberIDs))
	g, _ := errgroup.WithContext(ctx)
	for i, memberID := range req.MemberIDs {
		i, memberID := i, memberID
		g.Go(func() error {
			inst := req.Group.Clone()
			inst.ID = plans[i].groupID
			inst.RoutineID = routineID
			inst.TemplateID = req.Group.ID
			inst.MemberID = memberID
			inst.DaysOfWeek = days
			inst.Saved = true
			inst.Tasks = make([]routine.Task, len(req.Tasks))
			ref := routine.GroupRef{ID: inst.ID, Name: inst.Name, TemplateID: req.Group.ID}
			for j, t := range req.Tasks {
				t = t.Clone()
				t.ID = plans[i].taskIDs[j]
				t.RoutineID = routineID
				t.MemberID = memberID
				t.DaysOfWeek = days
				t.OrderIndex = j
				t.Saved = true
				r := ref
				t.FromGroup = &r
				inst.Tasks[j] = t
			}
			if err := s.Persistence.StoreGroup(inst); err != nil {
				return fmt.Errorf("store group for %s: %w", memberID, err)
			}
			out[i] = inst
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	s.logger().Info("group applied", zap.String("group", req.Group.Name), zap.Int("members", len(out)))
	return out, nil
}

// DeleteTask removes one task and returns what is needed to restore it.
func (s *Service) DeleteTask(ctx context.Context, routineID, taskID string) (routine.Restore, error) {
	if err := s.ready(); err != nil {
		return routine.Restore{}, err
	}
	t, err := s.Persistence.Task(routineID, taskID)
	if err != nil {
		return routine.Restore{}, notFound(err, "task", taskID)
	}
	if err := s.Persistence.DeleteTask(routineID, taskID); err != nil {
		return routine.Restore{}, err
	}
	return routine.Restore{Tasks: []routine.Task{t}}, nil
}

func (s *Service) templateTasks(ctx context.Context, routineID, templateID string) []routine.Task {
	var out []routine.Task
	for _, t := range s.Persistence.Tasks(ctx, routineID) {
		if t.RecurringID == templateID {
			out = append(out, t)
		}
	}
	return out
}

// RemoveTemplateDay drops day from a template and from its tasks. Removing
// the last day deletes the template.
func (s *Service) RemoveTemplateDay(ctx context.Context, routineID, templateID string, day weekday.Day) (routine.Restore, error) {
	if err := s.ready(); err != nil {
		return routine.Restore{}, err
	}
	tpl, err := s.Persistence.Template(routineID, templateID)
	if err != nil {
		return routine.Restore{}, notFound(err, "template", templateID)
	}
	remaining := weekday.Without(tpl.DaysOfWeek, day)
	if len(remaining) == 0 {
		return s.DeleteTemplate(ctx, routineID, templateID)
	}

	prior := tpl.Clone()
	tasks := s.templateTasks(ctx, routineID, templateID)
	restore := routine.Restore{Template: &prior}
	for _, t := range tasks {
		restore.Tasks = append(restore.Tasks, t.Clone())
	}

	tpl.DaysOfWeek = remaining
	tpl.Frequency = routine.FrequencyFor(remaining)
	tpl.UpdatedAt = s.now()
	if err := s.Persistence.StoreTemplate(tpl); err != nil {
		return routine.Restore{}, err
	}
	for _, t := range tasks {
		t.DaysOfWeek = weekday.Without(t.DaysOfWeek, day)
		if len(t.DaysOfWeek) == 0 {
			if err := s.Persistence.DeleteTask(routineID, t.ID); err != nil {
				return routine.Restore{}, err
			}
			continue
		}
		if err := s.Persistence.StoreTask(t); err != nil {
			return routine.Restore{}, err
		}
	}
	s.logger().Info("template day removed", zap.String("template", templateID), zap.String("day", string(day)))
	return restore, nil
}

// DeleteTemplate removes a template and every task it generated.
func (s *Service) DeleteTemplate(ctx context.Context, routineID, templateID string) (routine.Restore, error) {
	if err := s.ready(); err != nil {
		return routine.Restore{}, err
	}
	tpl, err := s.Persistence.Template(routineID, templateID)
	if err != nil {
		return routine.Restore{}, notFound(err, "template", templateID)
	}
	restore := routine.Restore{Template: &tpl}
	for _, t := range s.templateTasks(ctx, routineID, templateID) {
		if err := s.Persistence.DeleteTask(routineID, t.ID); err != nil {
			return routine.Restore{}, err
		}
		restore.Tasks = append(restore.Tasks, t)
	}
	if err := s.Persistence.DeleteTemplate(routineID, templateID); err != nil {
		return routine.Restore{}, err
	}
	s.logger().Info("template deleted", zap.String("template", templateID), zap.Int("tasks", len(restore.Tasks)))
	return restore, nil
}

// Restore writes back records returned by a delete.
func (s *Service) Restore(ctx context.Context, routineID string, r routine.Restore) error {
	if err := s.ready(); err != nil {
		return err
	}
	if r.Template != nil {
		tpl := r.Template.Clone()
		tpl.RoutineID = routineID
		if err := s.Persistence.StoreTemplate(tpl); err != nil {
			return err
		}
	}
	for _, t := range r.Tasks {
		t.RoutineID = routineID
		if err := s.Persistence.StoreTask(t); err != nil {
			return err
		}
	}
	s.logger().Info("restored", zap.String("routine", routineID), zap.Int("tasks", len(r.Tasks)))
	return nil
}
