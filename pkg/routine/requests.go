package routine

import "tableflip.dev/kidoers/pkg/weekday"

// TaskTemplate is the shared description used when creating or updating
// tasks in bulk.
type TaskTemplate struct {
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Points       int       `json:"points"`
	DurationMins int       `json:"duration_mins,omitempty"`
	TimeOfDay    TimeOfDay `json:"time_of_day,omitempty"`
	FromTemplate string    `json:"from_task_template_id,omitempty"`
}

// TemplateFrom builds a TaskTemplate from t, overriding the name when set.
func TemplateFrom(t Task, name string) TaskTemplate {
	if name == "" {
		name = t.Name
	}
	tpl := TaskTemplate{
		Name:         name,
		Description:  t.Description,
		Points:       t.Points,
		DurationMins: t.EstimatedMinutes,
		TimeOfDay:    t.TimeOfDay,
	}
	if t.IsSystem {
		tpl.FromTemplate = t.ID
	}
	return tpl
}

// Assignment places a task on a member for some days.
type Assignment struct {
	MemberID   string        `json:"member_id"`
	DaysOfWeek []weekday.Day `json:"days_of_week"`
	OrderIndex int           `json:"order_index"`
}

// AssignmentsFor builds one assignment per member with the same days.
func AssignmentsFor(memberIDs []string, days []weekday.Day) []Assignment {
	out := make([]Assignment, len(memberIDs))
	for i, id := range memberIDs {
		out[i] = Assignment{MemberID: id, DaysOfWeek: append([]weekday.Day(nil), days...)}
	}
	return out
}

// BulkCreate asks the backend for one task per assignment. When
// CreateRecurring is set the tasks share a new recurring template.
type BulkCreate struct {
	Template        TaskTemplate `json:"task_template"`
	Assignments     []Assignment `json:"assignments"`
	CreateRecurring bool         `json:"create_recurring_template"`
}

// RecurringUpdate rewrites a recurring template and every task it generated.
type RecurringUpdate struct {
	TemplateID  string        `json:"recurring_template_id"`
	Template    TaskTemplate  `json:"task_template"`
	Assignments []Assignment  `json:"assignments"`
	NewDays     []weekday.Day `json:"new_days_of_week"`
}

// RecurringResult is the backend answer to a RecurringUpdate.
type RecurringResult struct {
	TemplateID   string        `json:"recurring_template_id"`
	Tasks        []Task        `json:"updated_tasks"`
	DaysAssigned []weekday.Day `json:"days_assigned"`
}

// GroupApplication applies a group (or a subset of its tasks) to members.
type GroupApplication struct {
	Group     Group         `json:"group"`
	Tasks     []Task        `json:"tasks"`
	MemberIDs []string      `json:"member_ids"`
	Days      []weekday.Day `json:"days"`
}

// Restore recreates records removed by a delete.
type Restore struct {
	Template *RecurringTemplate `json:"template,omitempty"`
	Tasks    []Task             `json:"tasks"`
}
