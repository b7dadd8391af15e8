package printers

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/kidoers/pkg/family"
	"tableflip.dev/kidoers/pkg/routine"
	"tableflip.dev/kidoers/pkg/undo"
	"tableflip.dev/kidoers/pkg/weekday"
)

type PrettyPrint struct {
	Out    io.Writer
	ShowID bool
}

var (
	spacing = strings.Repeat(" ", len("2c9e0b4d-1b8f-4a8e-9d6a-4f1f  "))
)

func (pp *PrettyPrint) w() io.Writer {
	if pp.Out == nil {
		return color.Output
	}
	return pp.Out
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.w(), "")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Fprintln(pp.w(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int, noun string) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	_, _ = t.Fprint(pp.w(), title)
	_, _ = c.Fprintf(pp.w(), " - %d %s", count, noun)
	if count != 1 {
		_, _ = c.Fprint(pp.w(), "s")
	}
	_, _ = fmt.Fprintln(pp.w(), "")
}

func (pp *PrettyPrint) none() {
	f := color.New(color.Faint, color.Italic)
	_, _ = f.Fprint(pp.w(), " none\n\n")
}

func (pp *PrettyPrint) table() *uitable.Table {
	tbl := uitable.New()
	tbl.Separator = "  "
	return tbl
}

func (pp *PrettyPrint) flush(tbl *uitable.Table) {
	_, _ = fmt.Fprintln(pp.w(), tbl)
	pp.NewLine()
}

func (pp *PrettyPrint) id(id string) string {
	y := color.New(color.FgHiYellow, color.Italic, color.Faint)
	return y.Sprint(id)
}

// Roster lists members in display order.
func (pp *PrettyPrint) Roster(roster family.Roster) {
	pp.TitleWithCount("Family", len(roster), "member")
	if len(roster) == 0 {
		pp.none()
		return
	}
	bold := color.New(color.Bold)
	tbl := pp.table()
	header := []interface{}{bold.Sprint("Name"), bold.Sprint("Role"), bold.Sprint("Age"), bold.Sprint("Color")}
	if pp.ShowID {
		header = append([]interface{}{bold.Sprint("ID")}, header...)
	}
	tbl.AddRow(header...)
	for _, m := range roster {
		age := "-"
		if m.Age != nil {
			age = fmt.Sprint(*m.Age)
		}
		row := []interface{}{m.Name, string(m.Role), age, m.Color}
		if pp.ShowID {
			row = append([]interface{}{pp.id(m.ID)}, row...)
		}
		tbl.AddRow(row...)
	}
	pp.flush(tbl)
}

// Routines lists routines, marking current.
func (pp *PrettyPrint) Routines(all []routine.Routine, current string) {
	pp.TitleWithCount("Routines", len(all), "routine")
	if len(all) == 0 {
		pp.none()
		return
	}
	mark := color.New(color.FgGreen, color.Bold)
	tbl := pp.table()
	for _, r := range all {
		cur := " "
		if r.ID == current {
			cur = mark.Sprint("*")
		}
		row := []interface{}{cur, r.Name, statusColor(r.Status).Sprint(r.Status), r.UpdatedAt.Local().Format("2006-01-02 15:04")}
		if pp.ShowID {
			row = append(row, pp.id(r.ID))
		}
		tbl.AddRow(row...)
	}
	pp.flush(tbl)
}

func statusColor(s routine.Status) *color.Color {
	switch s {
	case routine.Active:
		return color.New(color.FgGreen)
	case routine.Archived:
		return color.New(color.Faint)
	default:
		return color.New(color.FgYellow)
	}
}

// Templates lists recurring templates with the members their tasks belong
// to.
func (pp *PrettyPrint) Templates(tpls []routine.RecurringTemplate, tasks []routine.Task, roster family.Roster) {
	pp.TitleWithCount("Recurring", len(tpls), "template")
	if len(tpls) == 0 {
		pp.none()
		return
	}
	who := map[string][]string{}
	for _, t := range tasks {
		if t.RecurringID == "" {
			continue
		}
		who[t.RecurringID] = append(who[t.RecurringID], roster.Name(t.MemberID))
	}
	tbl := pp.table()
	tbl.Wrap = true
	tbl.MaxColWidth = 40
	for _, tpl := range tpls {
		row := []interface{}{tpl.Name, weekday.Label(tpl.DaysOfWeek, false), fmt.Sprintf("%d pts", tpl.Points), strings.Join(who[tpl.ID], ", ")}
		if pp.ShowID {
			row = append([]interface{}{pp.id(tpl.ID)}, row...)
		}
		tbl.AddRow(row...)
	}
	pp.flush(tbl)
}

// Pending lists undo operations still inside their window.
func (pp *PrettyPrint) Pending(reg *undo.Registry) {
	ops := reg.Pending()
	pp.TitleWithCount("Undo", len(ops), "operation")
	if len(ops) == 0 {
		pp.none()
		return
	}
	tbl := pp.table()
	for _, op := range ops {
		what := ""
		if t, ok := op.Affected.(routine.Task); ok {
			what = t.Name
		}
		tbl.AddRow(pp.id(op.ID), string(op.Kind), what, string(reg.State(op.ID)))
	}
	pp.flush(tbl)
}
