package printers

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"tableflip.dev/kidoers/pkg/app"
	"tableflip.dev/kidoers/pkg/calendar"
	"tableflip.dev/kidoers/pkg/family"
	"tableflip.dev/kidoers/pkg/routine"
	"tableflip.dev/kidoers/pkg/weekday"
)

const cell = len("Mon ")

// Week prints a one line count grid per member, days across.
func (pp *PrettyPrint) Week(roster family.Roster, state calendar.State) {
	name := nameWidth(roster)
	tf := color.New(color.FgWhite, color.Italic)
	_, _ = tf.Fprint(pp.w(), strings.Repeat(" ", name))
	for _, d := range weekday.All {
		_, _ = tf.Fprintf(pp.w(), "%-*s", cell, d.Short())
	}
	pp.NewLine()

	l1 := color.New(color.Faint, color.FgWhite)
	l2 := color.New(color.Bold, color.FgHiWhite)
	for _, m := range roster {
		_, _ = fmt.Fprintf(pp.w(), "%-*s", name, m.Name)
		for _, d := range weekday.All {
			n := state.Count(d, m.ID)
			if n == 0 {
				_, _ = l1.Fprintf(pp.w(), "%-*s", cell, " .")
			} else {
				_, _ = l2.Fprintf(pp.w(), "%-*s", cell, fmt.Sprintf("%2d", n))
			}
		}
		pp.NewLine()
	}
	pp.NewLine()
}

func nameWidth(roster family.Roster) int {
	w := len("Member")
	for _, m := range roster {
		if len(m.Name) > w {
			w = len(m.Name)
		}
	}
	return w + 2
}

// Calendar prints each day's tasks per member. An empty only filter shows
// everyone.
func (pp *PrettyPrint) Calendar(roster family.Roster, state calendar.State, only string) {
	pp.Week(roster, state)

	members := roster
	if only != "" {
		members = roster.Filter([]string{only})
	}
	day := color.New(color.Bold, color.Underline)
	who := color.New(color.FgCyan)
	grp := color.New(color.FgMagenta)
	for _, d := range weekday.All {
		_, _ = day.Fprintln(pp.w(), d.Title())
		empty := true
		for _, m := range members {
			tasks := state.ForMember(d, m.ID)
			if len(tasks.Individual) == 0 && len(tasks.Groups) == 0 {
				continue
			}
			empty = false
			_, _ = who.Fprintf(pp.w(), "  %s\n", m.Name)
			for _, t := range tasks.Individual {
				pp.task("    ", t)
			}
			for _, g := range tasks.Groups {
				_, _ = grp.Fprintf(pp.w(), "    [%s]\n", g.Name)
				for _, t := range g.Tasks {
					pp.task("      ", t)
				}
			}
		}
		if empty {
			pp.none()
			continue
		}
		pp.NewLine()
	}
}

func (pp *PrettyPrint) task(indent string, t routine.Task) {
	bullet := "•"
	switch {
	case t.Completed:
		bullet = color.New(color.FgGreen).Sprint("✓")
	case t.IsRecurring():
		bullet = "↻"
	}
	line := fmt.Sprintf("%s%s %s", indent, bullet, t.String())
	if pp.ShowID {
		line += "  " + pp.id(t.ID)
	}
	_, _ = fmt.Fprintln(pp.w(), line)
}

// Schedule prints the schedule derived for one member.
func (pp *PrettyPrint) Schedule(m family.Member, s calendar.Schedule) {
	pp.Title(m.Name)
	label := string(s.Scope)
	if s.Scope == calendar.ScopeCustom {
		label = weekday.Label(s.Days, false)
	}
	_, _ = fmt.Fprintf(pp.w(), "  %s\n", label)
	pp.NewLine()
}

// Report prints the weekly load of each member.
func (pp *PrettyPrint) Report(res app.ReportResult) {
	pp.Title("Weekly load")
	bold := color.New(color.Bold)
	tbl := pp.table()
	header := []interface{}{bold.Sprint("Member")}
	for _, d := range weekday.All {
		header = append(header, bold.Sprint(d.Short()))
	}
	header = append(header, bold.Sprint("Tasks"), bold.Sprint("Points"), bold.Sprint("Minutes"))
	tbl.AddRow(header...)
	for _, row := range res.Rows {
		cells := []interface{}{row.Member.Name}
		for _, d := range weekday.All {
			cells = append(cells, row.Days[d].Tasks)
		}
		cells = append(cells, row.Week.Tasks, row.Week.Points, row.Week.Minutes)
		tbl.AddRow(cells...)
	}
	tbl.RightAlign(len(weekday.All) + 1)
	tbl.RightAlign(len(weekday.All) + 2)
	tbl.RightAlign(len(weekday.All) + 3)
	pp.flush(tbl)
}
