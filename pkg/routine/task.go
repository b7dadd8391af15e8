package routine

import (
	"fmt"

	"tableflip.dev/kidoers/pkg/weekday"
)

// GroupRef records which group a task came from.
type GroupRef struct {
	ID         string `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	TemplateID string `json:"template_id,omitempty" yaml:"template_id,omitempty"`
}

// Task is one chore. A task placed on the calendar carries the member it is
// assigned to; library tasks leave MemberID empty.
type Task struct {
	ID               string        `json:"id" yaml:"id"`
	RoutineID        string        `json:"routine_id,omitempty" yaml:"routine_id,omitempty"`
	Name             string        `json:"name" yaml:"name"`
	Description      string        `json:"description,omitempty" yaml:"description,omitempty"`
	Points           int           `json:"points" yaml:"points"`
	EstimatedMinutes int           `json:"estimated_minutes,omitempty" yaml:"estimated_minutes,omitempty"`
	TimeOfDay        TimeOfDay     `json:"time_of_day,omitempty" yaml:"time_of_day,omitempty"`
	IsSystem         bool          `json:"is_system,omitempty" yaml:"is_system,omitempty"`
	TemplateID       string        `json:"template_id,omitempty" yaml:"template_id,omitempty"`
	RecurringID      string        `json:"recurring_template_id,omitempty" yaml:"recurring_template_id,omitempty"`
	MemberID         string        `json:"member_id,omitempty" yaml:"member_id,omitempty"`
	DaysOfWeek       []weekday.Day `json:"days_of_week,omitempty" yaml:"days_of_week,omitempty"`
	FromGroup        *GroupRef     `json:"from_group,omitempty" yaml:"from_group,omitempty"`
	OrderIndex       int           `json:"order_index" yaml:"order_index"`
	Saved            bool          `json:"is_saved,omitempty" yaml:"is_saved,omitempty"`
	Completed        bool          `json:"completed,omitempty" yaml:"completed,omitempty"`
}

// IsRecurring reports whether the task was generated by a recurring template.
func (t Task) IsRecurring() bool {
	return t.RecurringID != ""
}

// Clone returns a deep copy.
func (t Task) Clone() Task {
	t.DaysOfWeek = append([]weekday.Day(nil), t.DaysOfWeek...)
	if t.FromGroup != nil {
		ref := *t.FromGroup
		t.FromGroup = &ref
	}
	return t
}

func (t Task) String() string {
	return fmt.Sprintf("%s (%d pts)", t.Name, t.Points)
}

// Group is a named bundle of tasks, optionally color tagged. A group placed
// on the calendar is an instance carrying MemberID.
type Group struct {
	ID          string        `json:"id" yaml:"id"`
	RoutineID   string        `json:"routine_id,omitempty" yaml:"routine_id,omitempty"`
	Name        string        `json:"name" yaml:"name"`
	Description string        `json:"description,omitempty" yaml:"description,omitempty"`
	Color       string        `json:"color,omitempty" yaml:"color,omitempty"`
	TimeOfDay   TimeOfDay     `json:"time_of_day,omitempty" yaml:"time_of_day,omitempty"`
	IsSystem    bool          `json:"is_system,omitempty" yaml:"is_system,omitempty"`
	TemplateID  string        `json:"template_id,omitempty" yaml:"template_id,omitempty"`
	MemberID    string        `json:"member_id,omitempty" yaml:"member_id,omitempty"`
	DaysOfWeek  []weekday.Day `json:"days_of_week,omitempty" yaml:"days_of_week,omitempty"`
	Tasks       []Task        `json:"tasks" yaml:"tasks"`
	Saved       bool          `json:"is_saved,omitempty" yaml:"is_saved,omitempty"`
}

// Clone returns a deep copy including the tasks.
func (g Group) Clone() Group {
	g.DaysOfWeek = append([]weekday.Day(nil), g.DaysOfWeek...)
	tasks := make([]Task, len(g.Tasks))
	for i, t := range g.Tasks {
		tasks[i] = t.Clone()
	}
	g.Tasks = tasks
	return g
}

// Ref returns the reference stored on tasks that came from g.
func (g Group) Ref() *GroupRef {
	return &GroupRef{ID: g.ID, Name: g.Name, TemplateID: g.TemplateID}
}
