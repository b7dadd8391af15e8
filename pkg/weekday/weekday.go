// Package weekday defines the day identifiers used by the weekly planner and
// the recurrence helpers built on them.
package weekday

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Day is a lower-case weekday name, e.g. "monday".
type Day string

const (
	Monday    Day = "monday"
	Tuesday   Day = "tuesday"
	Wednesday Day = "wednesday"
	Thursday  Day = "thursday"
	Friday    Day = "friday"
	Saturday  Day = "saturday"
	Sunday    Day = "sunday"
)

// All lists the days in planner order. Sunday is last.
var All = []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// Short returns the three letter form, e.g. "Mon".
func (d Day) Short() string {
	s := string(d)
	if len(s) < 3 {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:3]
}

// Title returns the capitalized full name, e.g. "Monday".
func (d Day) Title() string {
	s := string(d)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Index is the position of d in All, or -1.
func (d Day) Index() int {
	for i, candidate := range All {
		if candidate == d {
			return i
		}
	}
	return -1
}

// Valid reports whether d is one of the seven days.
func (d Day) Valid() bool {
	return d.Index() >= 0
}

// Parse accepts full or three letter names in any case.
func Parse(raw string) (Day, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return "", errors.New("weekday: empty day")
	}
	for _, d := range All {
		if s == string(d) || (len(s) == 3 && strings.HasPrefix(string(d), s)) {
			return d, nil
		}
	}
	return "", fmt.Errorf("weekday: unknown day %q", raw)
}

// ParseList splits a comma separated list and parses every element.
func ParseList(raw string) ([]Day, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var out []Day
	for _, part := range strings.Split(raw, ",") {
		d, err := Parse(part)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return Normalize(out), nil
}

// Normalize lower-cases, drops unknown names and removes duplicates while
// keeping the first occurrence order.
func Normalize[S ~string](days []S) []Day {
	out := make([]Day, 0, len(days))
	seen := make(map[Day]bool, len(days))
	for _, raw := range days {
		d, err := Parse(string(raw))
		if err != nil || seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	return out
}

// Sort returns a copy of days in planner order.
func Sort(days []Day) []Day {
	out := append([]Day(nil), days...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Index() < out[j].Index()
	})
	return out
}

// Contains reports whether d is in days.
func Contains(days []Day, d Day) bool {
	for _, candidate := range days {
		if candidate == d {
			return true
		}
	}
	return false
}

// Without returns days minus d, preserving order.
func Without(days []Day, d Day) []Day {
	out := make([]Day, 0, len(days))
	for _, candidate := range days {
		if candidate != d {
			out = append(out, candidate)
		}
	}
	return out
}

// IsWeekdays reports whether days is exactly Monday..Friday.
func IsWeekdays(days []Day) bool {
	set := Normalize(days)
	if len(set) != 5 {
		return false
	}
	return !Contains(set, Saturday) && !Contains(set, Sunday)
}

// IsWeekend reports whether days is exactly Saturday and Sunday.
func IsWeekend(days []Day) bool {
	set := Normalize(days)
	return len(set) == 2 && Contains(set, Saturday) && Contains(set, Sunday)
}

// Strings converts days to plain strings.
func Strings(days []Day) []string {
	out := make([]string, len(days))
	for i, d := range days {
		out[i] = string(d)
	}
	return out
}
