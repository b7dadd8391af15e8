package printers

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/fatih/color"

	"tableflip.dev/kidoers/pkg/app"
	"tableflip.dev/kidoers/pkg/calendar"
	"tableflip.dev/kidoers/pkg/family"
	"tableflip.dev/kidoers/pkg/notify"
	"tableflip.dev/kidoers/pkg/reward"
	"tableflip.dev/kidoers/pkg/routine"
	"tableflip.dev/kidoers/pkg/undo"
	"tableflip.dev/kidoers/pkg/weekday"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

var roster = family.Roster{
	{ID: "m1", Name: "Mom", Role: family.Parent},
	{ID: "k1", Name: "Ana", Role: family.Child, Color: "orange"},
}

func sample() calendar.State {
	s := calendar.Empty()
	t := routine.Task{ID: "t1", Name: "Make bed", Points: 2, MemberID: "k1", RecurringID: "tpl"}
	s = s.WithTask(weekday.Monday, t).WithTask(weekday.Tuesday, t)
	s = s.WithGroup(weekday.Monday, routine.Group{ID: "g1", Name: "Bedtime", MemberID: "k1", Tasks: []routine.Task{{ID: "t2", Name: "Brush teeth", Points: 1}}})
	return s
}

func TestRoster(t *testing.T) {
	var out bytes.Buffer
	pp := &PrettyPrint{Out: &out, ShowID: true}
	pp.Roster(roster)
	got := out.String()
	for _, want := range []string{"Family - 2 members", "Mom", "parent", "orange", "k1"} {
		if !strings.Contains(got, want) {
			t.Errorf("roster output missing %q:\n%s", want, got)
		}
	}
}

func TestRosterEmpty(t *testing.T) {
	var out bytes.Buffer
	(&PrettyPrint{Out: &out}).Roster(nil)
	if !strings.Contains(out.String(), "none") {
		t.Fatalf("expected none, got %q", out.String())
	}
}

func TestCalendar(t *testing.T) {
	var out bytes.Buffer
	pp := &PrettyPrint{Out: &out}
	pp.Calendar(roster, sample(), "")
	got := out.String()
	for _, want := range []string{"Monday", "Ana", "↻ Make bed (2 pts)", "[Bedtime]", "• Brush teeth (1 pts)"} {
		if !strings.Contains(got, want) {
			t.Errorf("calendar output missing %q:\n%s", want, got)
		}
	}
	if strings.Count(got, "Make bed") != 2 {
		t.Errorf("expected Make bed on two days:\n%s", got)
	}
}

func TestCalendarOnlyMember(t *testing.T) {
	var out bytes.Buffer
	pp := &PrettyPrint{Out: &out}
	pp.Calendar(roster, sample(), "m1")
	if strings.Contains(out.String(), "Make bed") {
		t.Fatalf("expected only Mom's tasks:\n%s", out.String())
	}
}

func TestReport(t *testing.T) {
	var out bytes.Buffer
	(&PrettyPrint{Out: &out}).Report(app.Summarize(roster, sample(), "r1"))
	got := out.String()
	if !strings.Contains(got, "Weekly load") || !strings.Contains(got, "Ana") {
		t.Fatalf("unexpected report:\n%s", got)
	}
}

func TestSchedule(t *testing.T) {
	var out bytes.Buffer
	(&PrettyPrint{Out: &out}).Schedule(roster[1], sample().DeriveSchedule("k1"))
	if !strings.Contains(out.String(), "Repeats: Mon, Tue") {
		t.Fatalf("unexpected schedule:\n%s", out.String())
	}
}

func TestPending(t *testing.T) {
	reg := undo.New(notify.Discard)
	defer func() {
		for _, op := range reg.Pending() {
			reg.Remove(op.ID)
		}
	}()
	if err := reg.Add(&undo.Operation{ID: "delete-t1-1", Kind: undo.Delete, Affected: routine.Task{Name: "Make bed"}}); err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	(&PrettyPrint{Out: &out}).Pending(reg)
	got := out.String()
	for _, want := range []string{"delete-t1-1", "delete", "Make bed", "created"} {
		if !strings.Contains(got, want) {
			t.Errorf("pending output missing %q:\n%s", want, got)
		}
	}
}

func TestEncode(t *testing.T) {
	var out bytes.Buffer
	if err := Encode(&out, YAML, roster[0]); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "name: Mom") {
		t.Fatalf("unexpected yaml:\n%s", out.String())
	}
	out.Reset()
	if err := Encode(&out, JSON, roster[0]); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), `"role": "parent"`) {
		t.Fatalf("unexpected json:\n%s", out.String())
	}
	if err := Encode(&out, Text, roster[0]); err == nil {
		t.Fatal("expected error for text")
	}
}

func TestRewards(t *testing.T) {
	var out bytes.Buffer
	rewards := []reward.Reward{
		{ID: "r1", Title: "Movie night", Description: "popcorn included", Threshold: 3},
		{ID: "r2", Title: "Zoo trip", Threshold: 10},
	}
	(&PrettyPrint{Out: &out}).Rewards(reward.MeasureAll(rewards, 4), 4)
	got := out.String()
	for _, want := range []string{"Rewards - 2 rewards", "Movie night", "3 / 3 tasks", "Reward earned", "popcorn included", "4 / 10 tasks", "40%", "6 more tasks to go"} {
		if !strings.Contains(got, want) {
			t.Errorf("rewards output missing %q:\n%s", want, got)
		}
	}
}

func TestCalendarMarksCompleted(t *testing.T) {
	var out bytes.Buffer
	s := calendar.Empty().WithTask(weekday.Friday, routine.Task{ID: "t9", Name: "Walk dog", Points: 1, MemberID: "k1", Completed: true})
	(&PrettyPrint{Out: &out}).Calendar(roster, s, "")
	if !strings.Contains(out.String(), "✓ Walk dog (1 pts)") {
		t.Fatalf("expected completed marker:\n%s", out.String())
	}
}
