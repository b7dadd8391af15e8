package app

import (
	"context"

	"tableflip.dev/kidoers/pkg/calendar"
	"tableflip.dev/kidoers/pkg/family"
	"tableflip.dev/kidoers/pkg/weekday"
)

// DayLoad totals one member's chores on one day.
type DayLoad struct {
	Tasks   int `json:"tasks" yaml:"tasks"`
	Points  int `json:"points" yaml:"points"`
	Minutes int `json:"minutes" yaml:"minutes"`
}

func (d *DayLoad) add(o DayLoad) {
	d.Tasks += o.Tasks
	d.Points += o.Points
	d.Minutes += o.Minutes
}

// ReportRow is one member's week.
type ReportRow struct {
	Member   family.Member           `json:"member" yaml:"member"`
	Days     map[weekday.Day]DayLoad `json:"days" yaml:"days"`
	Week     DayLoad                 `json:"week" yaml:"week"`
	Schedule calendar.Schedule       `json:"schedule" yaml:"schedule"`
}

// ReportResult is the weekly load of every member, in roster order.
type ReportResult struct {
	RoutineID string      `json:"routine_id" yaml:"routine_id"`
	Rows      []ReportRow `json:"rows" yaml:"rows"`
	Total     DayLoad     `json:"total" yaml:"total"`
}

// Report sums tasks, points and minutes per member and day for routineID.
func (s *Service) Report(ctx context.Context, routineID string) (ReportResult, error) {
	roster, err := s.Members(ctx)
	if err != nil {
		return ReportResult{}, err
	}
	state, err := s.LoadCalendar(ctx, routineID)
	if err != nil {
		return ReportResult{}, err
	}
	return Summarize(roster, state, routineID), nil
}

// Summarize computes a report from an in-memory calendar.
func Summarize(roster family.Roster, state calendar.State, routineID string) ReportResult {
	res := ReportResult{RoutineID: routineID, Rows: make([]ReportRow, 0, len(roster))}
	for _, m := range roster {
		row := ReportRow{Member: m, Days: map[weekday.Day]DayLoad{}, Schedule: state.DeriveSchedule(m.ID)}
		for _, d := range weekday.All {
			load := dayLoad(state.ForMember(d, m.ID))
			row.Days[d] = load
			row.Week.add(load)
		}
		res.Total.add(row.Week)
		res.Rows = append(res.Rows, row)
	}
	return res
}

func dayLoad(day calendar.DayTasks) DayLoad {
	var out DayLoad
	for _, t := range day.Individual {
		out.add(DayLoad{Tasks: 1, Points: t.Points, Minutes: t.EstimatedMinutes})
	}
	for _, g := range day.Groups {
		for _, t := range g.Tasks {
			out.add(DayLoad{Tasks: 1, Points: t.Points, Minutes: t.EstimatedMinutes})
		}
	}
	return out
}
