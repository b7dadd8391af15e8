package options

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/kidoers/pkg/weekday"
)

// DayOptions pick the days a task lands on.
type DayOptions struct {
	Days string
	Day  string
}

func AddDaysArgs(cmd *cobra.Command, o *DayOptions) {
	cmd.Flags().StringVar(&o.Days, "days", "",
		`Days to repeat on, example: --days="mon,wed,fri", "weekdays", "weekends" or "everyday".`)
	AddDayArg(cmd, o)
}

func AddDayArg(cmd *cobra.Command, o *DayOptions) {
	cmd.Flags().StringVar(&o.Day, "day", "",
		`The day the task was dropped on, example: --day=mon.`)
}

// Selection returns the explicit day list and the single target day. At
// least one of them is required.
func (o *DayOptions) Selection() ([]weekday.Day, weekday.Day, error) {
	days, day, err := o.Parse()
	if err != nil {
		return nil, "", err
	}
	if len(days) == 0 && day == "" {
		return nil, "", fmt.Errorf("%w: use --days or --day", weekday.ErrNoDays)
	}
	return days, day, nil
}

// Parse returns whatever days were given.
func (o *DayOptions) Parse() ([]weekday.Day, weekday.Day, error) {
	var (
		days []weekday.Day
		day  weekday.Day
		err  error
	)
	switch strings.ToLower(strings.TrimSpace(o.Days)) {
	case "":
	case "everyday", "every-day", "daily":
		days = weekday.ToDays(weekday.EveryDay, nil)
	case "weekdays":
		days = []weekday.Day{weekday.Monday, weekday.Tuesday, weekday.Wednesday, weekday.Thursday, weekday.Friday}
	case "weekends":
		days = []weekday.Day{weekday.Saturday, weekday.Sunday}
	default:
		if days, err = weekday.ParseList(o.Days); err != nil {
			return nil, "", err
		}
	}
	if o.Day != "" {
		if day, err = weekday.Parse(o.Day); err != nil {
			return nil, "", err
		}
	}
	return days, day, nil
}
