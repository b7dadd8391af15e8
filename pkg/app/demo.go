package app

import (
	"context"
	"fmt"

	"tableflip.dev/kidoers/pkg/family"
	"tableflip.dev/kidoers/pkg/routine"
	"tableflip.dev/kidoers/pkg/weekday"
)

func age(n int) *int { return &n }

// SeedDemo fills an empty family with a sample roster and routine.
func (s *Service) SeedDemo(ctx context.Context) (routine.Routine, error) {
	roster, err := s.Members(ctx)
	if err != nil {
		return routine.Routine{}, err
	}
	if len(roster) > 0 {
		return routine.Routine{}, fmt.Errorf("%w: family %q already has members", ErrInvalid, s.family())
	}

	members := []family.Member{
		{Name: "Mom", Role: family.Parent, Color: "purple"},
		{Name: "Dad", Role: family.Parent, Color: "blue"},
		{Name: "Ana", Role: family.Child, Color: "orange", Age: age(9)},
		{Name: "Ben", Role: family.Child, Color: "green", Age: age(6), CalmMode: true},
	}
	ids := map[string]string{}
	for _, m := range members {
		added, err := s.AddMember(ctx, m)
		if err != nil {
			return routine.Routine{}, err
		}
		ids[m.Name] = added.ID
	}

	r, err := s.CreateRoutine(ctx, "Family Routine")
	if err != nil {
		return routine.Routine{}, err
	}
	s.RoutineID = r.ID

	weekdays := []weekday.Day{weekday.Monday, weekday.Tuesday, weekday.Wednesday, weekday.Thursday, weekday.Friday}
	weekend := []weekday.Day{weekday.Saturday, weekday.Sunday}
	kids := []string{ids["Ana"], ids["Ben"]}
	chores := []struct {
		tpl     routine.TaskTemplate
		members []string
		days    []weekday.Day
	}{
		{routine.TaskTemplate{Name: "Make bed", Points: 2, DurationMins: 5, TimeOfDay: routine.Morning}, kids, weekday.All},
		{routine.TaskTemplate{Name: "Pack school bag", Points: 3, DurationMins: 10, TimeOfDay: routine.Evening}, kids, weekdays},
		{routine.TaskTemplate{Name: "Feed the cat", Points: 2, DurationMins: 5, TimeOfDay: routine.Morning}, []string{ids["Ana"]}, []weekday.Day{weekday.Monday, weekday.Wednesday, weekday.Friday}},
		{routine.TaskTemplate{Name: "Water plants", Points: 3, DurationMins: 10}, []string{ids["Ben"]}, weekend},
		{routine.TaskTemplate{Name: "Plan meals", Points: 5, DurationMins: 30}, []string{ids["Mom"], ids["Dad"]}, []weekday.Day{weekday.Sunday}},
	}
	for _, c := range chores {
		if _, err := s.CreateTasks(ctx, r.ID, routine.BulkCreate{
			Template:        c.tpl,
			Assignments:     routine.AssignmentsFor(c.members, c.days),
			CreateRecurring: true,
		}); err != nil {
			return routine.Routine{}, err
		}
	}

	bedtime := routine.Group{ID: s.id(), Name: "Bedtime", Color: "indigo", TimeOfDay: routine.Night}
	if _, err := s.ApplyGroup(ctx, r.ID, routine.GroupApplication{
		Group: bedtime,
		Tasks: []routine.Task{
			{Name: "Brush teeth", Points: 1, EstimatedMinutes: 3},
			{Name: "Pajamas on", Points: 1, EstimatedMinutes: 3},
			{Name: "Read a story", Points: 2, EstimatedMinutes: 15},
		},
		MemberIDs: kids,
		Days:      weekday.All,
	}); err != nil {
		return routine.Routine{}, err
	}
	return r, nil
}
