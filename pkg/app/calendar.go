package app

import (
	"context"

	"tableflip.dev/kidoers/pkg/calendar"
	"tableflip.dev/kidoers/pkg/weekday"
)

// LoadCalendar rebuilds the weekly calendar of routineID from storage. Tasks
// without recorded days fall back to their template's days.
func (s *Service) LoadCalendar(ctx context.Context, routineID string) (calendar.State, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	templateDays := map[string][]weekday.Day{}
	for _, tpl := range s.Persistence.Templates(ctx, routineID) {
		templateDays[tpl.ID] = tpl.DaysOfWeek
	}

	state := calendar.Empty()
	for _, t := range s.Persistence.Tasks(ctx, routineID) {
		if t.MemberID == "" {
			continue
		}
		days := t.DaysOfWeek
		if len(days) == 0 {
			days = templateDays[t.RecurringID]
		}
		t.Saved = true
		for _, d := range weekday.Sort(weekday.Normalize(days)) {
			state = state.WithTask(d, t)
		}
	}
	for _, g := range s.Persistence.Groups(ctx, routineID) {
		if g.MemberID == "" {
			continue
		}
		for _, d := range weekday.Sort(weekday.Normalize(g.DaysOfWeek)) {
			state = state.WithGroup(d, g)
		}
	}
	return state, nil
}
