// Package calendar holds the weekly placement of tasks and groups.
//
// State is a value: every mutation returns a fresh deep copy and never
// touches the receiver, so any earlier State can serve as an undo snapshot.
package calendar

import (
	"tableflip.dev/kidoers/pkg/routine"
	"tableflip.dev/kidoers/pkg/weekday"
)

// DayTasks is what is scheduled on one day.
type DayTasks struct {
	Individual []routine.Task  `json:"individual_tasks" yaml:"individual_tasks"`
	Groups     []routine.Group `json:"groups" yaml:"groups"`
}

func (d DayTasks) clone() DayTasks {
	out := DayTasks{
		Individual: make([]routine.Task, len(d.Individual)),
		Groups:     make([]routine.Group, len(d.Groups)),
	}
	for i, t := range d.Individual {
		out.Individual[i] = t.Clone()
	}
	for i, g := range d.Groups {
		out.Groups[i] = g.Clone()
	}
	return out
}

// State maps each day to its tasks.
type State map[weekday.Day]DayTasks

// Empty returns a state with all seven days present.
func Empty() State {
	s := make(State, len(weekday.All))
	for _, d := range weekday.All {
		s[d] = DayTasks{Individual: []routine.Task{}, Groups: []routine.Group{}}
	}
	return s
}

// Clone returns a deep copy. A nil state clones to Empty.
func (s State) Clone() State {
	out := Empty()
	for d, tasks := range s {
		out[d] = tasks.clone()
	}
	return out
}

// Day returns a copy of the tasks on d.
func (s State) Day(d weekday.Day) DayTasks {
	return s[d].clone()
}

// WithTask appends t on day d.
func (s State) WithTask(d weekday.Day, t routine.Task) State {
	out := s.Clone()
	day := out[d]
	day.Individual = append(day.Individual, t.Clone())
	out[d] = day
	return out
}

// UpsertTask replaces the task on d with the same id and member, or appends
// t when there is none.
func (s State) UpsertTask(d weekday.Day, t routine.Task) State {
	out := s.Clone()
	day := out[d]
	for i, existing := range day.Individual {
		if existing.ID == t.ID && existing.MemberID == t.MemberID {
			day.Individual[i] = t.Clone()
			out[d] = day
			return out
		}
	}
	day.Individual = append(day.Individual, t.Clone())
	out[d] = day
	return out
}

// WithGroup appends the group instance g on day d.
func (s State) WithGroup(d weekday.Day, g routine.Group) State {
	out := s.Clone()
	day := out[d]
	day.Groups = append(day.Groups, g.Clone())
	out[d] = day
	return out
}

// WithoutGroup removes the group instance with id from day d.
func (s State) WithoutGroup(d weekday.Day, id string) State {
	out := s.Clone()
	day := out[d]
	kept := day.Groups[:0]
	for _, g := range day.Groups {
		if g.ID != id {
			kept = append(kept, g)
		}
	}
	day.Groups = kept
	out[d] = day
	return out
}

// WithoutTemplate removes every task generated by the recurring template id
// from every day.
func (s State) WithoutTemplate(templateID string) State {
	return s.filterTasks(func(t routine.Task) bool {
		return t.RecurringID != templateID
	})
}

// WithoutTemplateOn removes the tasks generated by templateID from day d
// only.
func (s State) WithoutTemplateOn(d weekday.Day, templateID string) State {
	out := s.Clone()
	day := out[d]
	kept := day.Individual[:0]
	for _, t := range day.Individual {
		if t.RecurringID != templateID {
			kept = append(kept, t)
		}
	}
	day.Individual = kept
	out[d] = day
	return out
}

// WithTemplateDays rewrites the recorded days of every task generated by
// templateID.
func (s State) WithTemplateDays(templateID string, days []weekday.Day) State {
	out := s.Clone()
	for d, day := range out {
		for i := range day.Individual {
			if day.Individual[i].RecurringID == templateID {
				day.Individual[i].DaysOfWeek = append([]weekday.Day(nil), days...)
			}
		}
		out[d] = day
	}
	return out
}

// WithoutTask removes the task with id assigned to memberID from every day.
// An empty memberID removes the task for everyone.
func (s State) WithoutTask(id, memberID string) State {
	return s.filterTasks(func(t routine.Task) bool {
		return !(t.ID == id && (memberID == "" || t.MemberID == memberID))
	})
}

// WithoutTaskOn removes the task with id assigned to memberID from day d only.
func (s State) WithoutTaskOn(d weekday.Day, id, memberID string) State {
	out := s.Clone()
	day := out[d]
	kept := day.Individual[:0]
	for _, t := range day.Individual {
		if t.ID == id && (memberID == "" || t.MemberID == memberID) {
			continue
		}
		kept = append(kept, t)
	}
	day.Individual = kept
	out[d] = day
	return out
}

// RenameTask renames the task with id on every day.
func (s State) RenameTask(id, name string) State {
	out := s.Clone()
	for d, day := range out {
		for i := range day.Individual {
			if day.Individual[i].ID == id {
				day.Individual[i].Name = name
			}
		}
		out[d] = day
	}
	return out
}

// Reinstate puts back the tasks of from that match, at the position they
// had there, after dropping whatever s holds that matches. Everything else
// in s is kept.
func (s State) Reinstate(from State, match func(routine.Task) bool) State {
	out := s.filterTasks(func(t routine.Task) bool { return !match(t) })
	for d, day := range from {
		cur := out[d]
		for i, t := range day.Individual {
			if !match(t) {
				continue
			}
			at := i
			if at > len(cur.Individual) {
				at = len(cur.Individual)
			}
			cur.Individual = append(cur.Individual, routine.Task{})
			copy(cur.Individual[at+1:], cur.Individual[at:])
			cur.Individual[at] = t.Clone()
		}
		out[d] = cur
	}
	return out
}

func (s State) filterTasks(keep func(routine.Task) bool) State {
	out := s.Clone()
	for d, day := range out {
		kept := day.Individual[:0]
		for _, t := range day.Individual {
			if keep(t) {
				kept = append(kept, t)
			}
		}
		day.Individual = kept
		out[d] = day
	}
	return out
}

// ForMember returns the tasks and group instances on d that belong to
// memberID.
func (s State) ForMember(d weekday.Day, memberID string) DayTasks {
	day := s[d]
	out := DayTasks{Individual: []routine.Task{}, Groups: []routine.Group{}}
	for _, t := range day.Individual {
		if t.MemberID == memberID {
			out.Individual = append(out.Individual, t.Clone())
		}
	}
	for _, g := range day.Groups {
		if g.MemberID == memberID {
			out.Groups = append(out.Groups, g.Clone())
		}
	}
	return out
}

// Count is the number of tasks for memberID on d, counting every task inside
// group instances.
func (s State) Count(d weekday.Day, memberID string) int {
	day := s.ForMember(d, memberID)
	n := len(day.Individual)
	for _, g := range day.Groups {
		n += len(g.Tasks)
	}
	return n
}

// Total is Count summed over the week.
func (s State) Total(memberID string) int {
	n := 0
	for _, d := range weekday.All {
		n += s.Count(d, memberID)
	}
	return n
}

// FindTask returns the first task with id for memberID, searching days in
// planner order.
func (s State) FindTask(id, memberID string) (routine.Task, weekday.Day, bool) {
	for _, d := range weekday.All {
		for _, t := range s[d].Individual {
			if t.ID == id && (memberID == "" || t.MemberID == memberID) {
				return t.Clone(), d, true
			}
		}
	}
	return routine.Task{}, "", false
}
