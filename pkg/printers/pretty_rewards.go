package printers

import (
	"fmt"

	"github.com/fatih/color"

	"tableflip.dev/kidoers/pkg/reward"
)

// Rewards lists each reward with how far the family is toward it.
func (pp *PrettyPrint) Rewards(progress []reward.Progress, completed int) {
	pp.TitleWithCount("Rewards", len(progress), "reward")
	if len(progress) == 0 {
		pp.none()
		return
	}
	earned := color.New(color.FgGreen, color.Bold)
	faint := color.New(color.Faint)
	tbl := pp.table()
	tbl.Wrap = true
	tbl.MaxColWidth = 40
	for _, p := range progress {
		status := fmt.Sprintf("%d%%", p.Percent)
		left := faint.Sprintf("%d more %s to go", p.Remaining, plural(p.Remaining, "task"))
		if p.Earned {
			status = earned.Sprint("Reward earned")
			left = ""
		}
		row := []interface{}{p.Reward.Title, fmt.Sprintf("%d / %d tasks", min(completed, p.Reward.Threshold), p.Reward.Threshold), status, left}
		if pp.ShowID {
			row = append([]interface{}{pp.id(p.Reward.ID)}, row...)
		}
		tbl.AddRow(row...)
		if p.Reward.Description != "" {
			tbl.AddRow(descRow(pp.ShowID, faint.Sprint(p.Reward.Description))...)
		}
	}
	pp.flush(tbl)
}

func descRow(withID bool, desc string) []interface{} {
	if withID {
		return []interface{}{"", desc, "", "", ""}
	}
	return []interface{}{desc, "", "", ""}
}

func plural(n int, noun string) string {
	if n == 1 {
		return noun
	}
	return noun + "s"
}
