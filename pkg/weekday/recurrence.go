package weekday

import (
	"errors"
	"strings"
)

// Option is the recurrence choice offered when editing a task.
type Option string

const (
	EveryDay     Option = "EVERY_DAY"
	SpecificDays Option = "SPECIFIC_DAYS"
)

// ErrNoDays is returned when a specific-days recurrence has no day selected.
var ErrNoDays = errors.New("weekday: select at least one day")

// OptionFor derives the recurrence option from a template's days. Exceptions
// on a single occurrence never change the option.
func OptionFor(days []Day, _ bool) Option {
	if len(Normalize(days)) == len(All) {
		return EveryDay
	}
	return SpecificDays
}

// ToDays expands an option into concrete days.
func ToDays(option Option, selected []Day) []Day {
	switch option {
	case EveryDay:
		return append([]Day(nil), All...)
	default:
		return append([]Day(nil), selected...)
	}
}

// Validate rejects a specific-days option without days.
func Validate(option Option, selected []Day) error {
	if option == SpecificDays && len(selected) == 0 {
		return ErrNoDays
	}
	return nil
}

// Label summarizes a recurrence for display.
func Label(days []Day, hasException bool) string {
	set := Normalize(days)
	switch {
	case len(set) == len(All):
		if hasException {
			return "Every day (with exceptions)"
		}
		return "Every day"
	case len(set) == 1:
		return "Every " + set[0].Title()
	case IsWeekdays(set):
		return "Weekdays"
	case IsWeekend(set):
		return "Weekends"
	case len(set) == 0:
		return "No days"
	}
	sorted := Sort(set)
	short := make([]string, len(sorted))
	for i, d := range sorted {
		short[i] = d.Short()
	}
	return "Repeats: " + strings.Join(short, ", ")
}
