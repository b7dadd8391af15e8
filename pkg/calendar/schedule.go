package calendar

import "tableflip.dev/kidoers/pkg/weekday"

// Scope names the shape of a member's week.
type Scope string

const (
	ScopeEveryday Scope = "everyday"
	ScopeWeekdays Scope = "weekdays"
	ScopeWeekends Scope = "weekends"
	ScopeCustom   Scope = "custom"
)

// Schedule is the routine schedule derived from where tasks sit. Days is only
// set for ScopeCustom.
type Schedule struct {
	Scope Scope         `json:"scope" yaml:"scope"`
	Days  []weekday.Day `json:"days_of_week" yaml:"days_of_week"`
}

// DeriveSchedule inspects which days hold tasks for memberID. An empty week
// derives to everyday.
func (s State) DeriveSchedule(memberID string) Schedule {
	var busy []weekday.Day
	for _, d := range weekday.All {
		if s.Count(d, memberID) > 0 {
			busy = append(busy, d)
		}
	}
	switch {
	case len(busy) == 0, len(busy) == len(weekday.All):
		return Schedule{Scope: ScopeEveryday}
	case weekday.IsWeekdays(busy):
		return Schedule{Scope: ScopeWeekdays}
	case weekday.IsWeekend(busy):
		return Schedule{Scope: ScopeWeekends}
	}
	return Schedule{Scope: ScopeCustom, Days: busy}
}
