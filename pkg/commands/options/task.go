package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/kidoers/pkg/apply"
	"tableflip.dev/kidoers/pkg/routine"
)

// TaskOptions are the details of a task template.
type TaskOptions struct {
	Description string
	Points      int
	Minutes     int
	TimeOfDay   string
}

func AddTaskArgs(cmd *cobra.Command, o *TaskOptions) {
	cmd.Flags().StringVar(&o.Description, "description", "",
		"Longer description of the task.")
	cmd.Flags().IntVar(&o.Points, "points", 1,
		"Points earned for the task.")
	cmd.Flags().IntVar(&o.Minutes, "minutes", 0,
		"Estimated minutes.")
	cmd.Flags().StringVar(&o.TimeOfDay, "time", "",
		"One of morning, afternoon, evening, night or any.")
}

// Task builds a library task named name.
func (o *TaskOptions) Task(name string) (routine.Task, error) {
	t := routine.Task{Name: name, Description: o.Description, Points: o.Points, EstimatedMinutes: o.Minutes}
	if o.TimeOfDay != "" {
		tod, err := routine.ParseTimeOfDay(o.TimeOfDay)
		if err != nil {
			return routine.Task{}, err
		}
		t.TimeOfDay = tod
	}
	return t, nil
}

// ScopeOptions pick how much of a recurring task a delete removes.
type ScopeOptions struct {
	Scope string
}

func AddScopeArgs(cmd *cobra.Command, o *ScopeOptions) {
	cmd.Flags().StringVar(&o.Scope, "scope", "",
		"For repeating tasks: instance (this day only) or series (every day).")
}

func (o *ScopeOptions) Get() (apply.Scope, error) {
	if o.Scope == "" {
		return "", nil
	}
	return apply.ParseScope(o.Scope)
}
