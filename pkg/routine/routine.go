// Package routine defines routines, the chores placed on them and the
// recurring templates that generate those chores.
package routine

import (
	"fmt"
	"strings"
	"time"

	"tableflip.dev/kidoers/pkg/weekday"
)

// Status is a routine's lifecycle state.
type Status string

const (
	Draft    Status = "draft"
	Active   Status = "active"
	Archived Status = "archived"
)

// ParseStatus converts a string to a Status.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	switch s {
	case Draft, Active, Archived:
		return s, nil
	}
	return "", fmt.Errorf("routine: unknown status %q", raw)
}

// TimeOfDay buckets a chore into a part of the day.
type TimeOfDay string

const (
	AnyTime   TimeOfDay = ""
	Morning   TimeOfDay = "morning"
	Afternoon TimeOfDay = "afternoon"
	Evening   TimeOfDay = "evening"
	Night     TimeOfDay = "night"
)

// ParseTimeOfDay converts a string to a TimeOfDay; empty means any time.
func ParseTimeOfDay(raw string) (TimeOfDay, error) {
	t := TimeOfDay(strings.ToLower(strings.TrimSpace(raw)))
	switch t {
	case AnyTime, Morning, Afternoon, Evening, Night:
		return t, nil
	case "any":
		return AnyTime, nil
	}
	return "", fmt.Errorf("routine: unknown time of day %q", raw)
}

// Frequency describes how a recurring template repeats.
type Frequency string

const (
	JustThisDay  Frequency = "just_this_day"
	EveryDay     Frequency = "every_day"
	SpecificDays Frequency = "specific_days"
)

// FrequencyFor derives the template frequency from its days.
func FrequencyFor(days []weekday.Day) Frequency {
	switch n := len(weekday.Normalize(days)); {
	case n == len(weekday.All):
		return EveryDay
	case n == 1:
		return JustThisDay
	default:
		return SpecificDays
	}
}

// Routine is a named collection of recurring chores for a family.
type Routine struct {
	ID        string    `json:"id" yaml:"id"`
	FamilyID  string    `json:"family_id" yaml:"family_id"`
	Name      string    `json:"name" yaml:"name"`
	Status    Status    `json:"status" yaml:"status"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// RecurringTemplate is the recurrence definition that generates tasks.
type RecurringTemplate struct {
	ID           string        `json:"id" yaml:"id"`
	RoutineID    string        `json:"routine_id" yaml:"routine_id"`
	Name         string        `json:"name" yaml:"name"`
	Description  string        `json:"description,omitempty" yaml:"description,omitempty"`
	Points       int           `json:"points" yaml:"points"`
	DurationMins int           `json:"duration_mins,omitempty" yaml:"duration_mins,omitempty"`
	TimeOfDay    TimeOfDay     `json:"time_of_day,omitempty" yaml:"time_of_day,omitempty"`
	Frequency    Frequency     `json:"frequency_type" yaml:"frequency_type"`
	DaysOfWeek   []weekday.Day `json:"days_of_week" yaml:"days_of_week"`
	CreatedAt    time.Time     `json:"created_at" yaml:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at" yaml:"updated_at"`
}

// Clone returns a deep copy.
func (t RecurringTemplate) Clone() RecurringTemplate {
	t.DaysOfWeek = append([]weekday.Day(nil), t.DaysOfWeek...)
	return t
}

// Label summarizes the template's recurrence.
func (t RecurringTemplate) Label() string {
	return weekday.Label(t.DaysOfWeek, false)
}
