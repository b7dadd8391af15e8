package apply

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"tableflip.dev/kidoers/pkg/calendar"
	"tableflip.dev/kidoers/pkg/clock"
	"tableflip.dev/kidoers/pkg/family"
	"tableflip.dev/kidoers/pkg/notify"
	"tableflip.dev/kidoers/pkg/routine"
	"tableflip.dev/kidoers/pkg/undo"
	"tableflip.dev/kidoers/pkg/weekday"
)

var roster = family.Roster{
	{ID: "mom", Name: "Mom", Role: family.Parent},
	{ID: "ana", Name: "Ana", Role: family.Child},
	{ID: "dad", Name: "Dad", Role: family.Parent},
	{ID: "ben", Name: "Ben", Role: family.Child},
}

type fakeBackend struct {
	status routine.Status
	err    error
	calls  []string
	coord  *Coordinator

	sawApplying bool
	lastCreate  routine.BulkCreate
	lastUpdate  routine.RecurringUpdate
	lastGroup   routine.GroupApplication
	restored    []routine.Restore
}

func (f *fakeBackend) record(call string) error {
	f.calls = append(f.calls, call)
	if f.coord != nil && f.coord.Applying() {
		f.sawApplying = true
	}
	return f.err
}

func (f *fakeBackend) EnsureRoutine(context.Context) (routine.Routine, error) {
	status := f.status
	if status == "" {
		status = routine.Draft
	}
	return routine.Routine{ID: "r1", Name: "My Routine", Status: status}, nil
}

func (f *fakeBackend) CreateTasks(_ context.Context, _ string, req routine.BulkCreate) ([]routine.Task, error) {
	f.lastCreate = req
	if err := f.record("create"); err != nil {
		return nil, err
	}
	var out []routine.Task
	for _, a := range req.Assignments {
		out = append(out, routine.Task{
			ID:          "rt-" + a.MemberID,
			Name:        req.Template.Name,
			MemberID:    a.MemberID,
			RecurringID: "tpl-new",
			DaysOfWeek:  a.DaysOfWeek,
		})
	}
	return out, nil
}

func (f *fakeBackend) UpdateRecurring(_ context.Context, _ string, req routine.RecurringUpdate) (routine.RecurringResult, error) {
	f.lastUpdate = req
	if err := f.record("update-recurring"); err != nil {
		return routine.RecurringResult{}, err
	}
	res := routine.RecurringResult{TemplateID: req.TemplateID, DaysAssigned: req.NewDays}
	for _, a := range req.Assignments {
		res.Tasks = append(res.Tasks, routine.Task{
			ID:          "u-" + a.MemberID,
			Name:        req.Template.Name,
			MemberID:    a.MemberID,
			RecurringID: req.TemplateID,
			DaysOfWeek:  req.NewDays,
		})
	}
	return res, nil
}

func (f *fakeBackend) RenameTask(_ context.Context, _ string, taskID, name string) (routine.Task, error) {
	if err := f.record("rename"); err != nil {
		return routine.Task{}, err
	}
	return routine.Task{ID: taskID, Name: name}, nil
}

func (f *fakeBackend) ApplyGroup(_ context.Context, _ string, req routine.GroupApplication) ([]routine.Group, error) {
	f.lastGroup = req
	if err := f.record("group"); err != nil {
		return nil, err
	}
	var out []routine.Group
	for _, m := range req.MemberIDs {
		g := req.Group.Clone()
		g.ID = "gi-" + m
		g.MemberID = m
		g.Tasks = req.Tasks
		out = append(out, g)
	}
	return out, nil
}

func (f *fakeBackend) DeleteTask(_ context.Context, _ string, taskID string) (routine.Restore, error) {
	if err := f.record("delete-task"); err != nil {
		return routine.Restore{}, err
	}
	return routine.Restore{Tasks: []routine.Task{{ID: taskID}}}, nil
}

func (f *fakeBackend) RemoveTemplateDay(_ context.Context, _ string, templateID string, day weekday.Day) (routine.Restore, error) {
	if err := f.record("remove-day:" + string(day)); err != nil {
		return routine.Restore{}, err
	}
	return routine.Restore{Template: &routine.RecurringTemplate{ID: templateID}}, nil
}

func (f *fakeBackend) DeleteTemplate(_ context.Context, _ string, templateID string) (routine.Restore, error) {
	if err := f.record("delete-template"); err != nil {
		return routine.Restore{}, err
	}
	return routine.Restore{Template: &routine.RecurringTemplate{ID: templateID}}, nil
}

func (f *fakeBackend) Restore(_ context.Context, _ string, r routine.Restore) error {
	if err := f.record("restore"); err != nil {
		return err
	}
	f.restored = append(f.restored, r)
	return nil
}

type fixture struct {
	backend *fakeBackend
	rec     *notify.Recorder
	sel     *family.Selection
	cal     *calendar.Container
	sched   *clock.Fake
	c       *Coordinator
}

func newFixture(initial calendar.State) *fixture {
	f := &fixture{
		backend: &fakeBackend{},
		rec:     &notify.Recorder{},
		sel:     family.NewSelection(roster),
		cal:     calendar.NewContainer(initial),
		sched:   clock.NewFake(time.Unix(0, 0)),
	}
	reg := undo.New(f.rec, undo.WithScheduler(f.sched))
	n := 0
	f.c = New(f.backend, f.sel, f.cal,
		WithNotifier(f.rec),
		WithUndo(reg),
		WithIDs(func() string { n++; return fmt.Sprint(n) }),
	)
	f.backend.coord = f.c
	return f
}

func dropTask(days ...weekday.Day) PendingAction {
	return PendingAction{
		Kind:           KindTask,
		Task:           routine.Task{ID: "lib-dishes", Name: "Dishes", Points: 3},
		TargetMemberID: "ana",
		DaySelection:   days,
		TargetDay:      weekday.Friday,
	}
}

func daysWith(s calendar.State, taskID string) []weekday.Day {
	var out []weekday.Day
	for _, d := range weekday.All {
		for _, t := range s[d].Individual {
			if t.ID == taskID {
				out = append(out, d)
				break
			}
		}
	}
	return out
}

func TestNoPendingIsNoOp(t *testing.T) {
	f := newFixture(nil)
	if err := f.c.ApplyToSelection(context.Background(), family.ApplyAllKids); err != nil {
		t.Fatal(err)
	}
	if f.rec.Len() != 0 || f.cal.Version() != 0 || len(f.backend.calls) != 0 {
		t.Fatalf("expected no-op, got %d notifications, version %d, calls %v", f.rec.Len(), f.cal.Version(), f.backend.calls)
	}
}

func TestEmptyTargetIsNoOp(t *testing.T) {
	f := newFixture(nil)
	f.c.Drop(dropTask())
	if err := f.c.ApplyToSelection(context.Background(), ""); err != nil {
		t.Fatal(err)
	}
	if f.rec.Len() != 0 || f.cal.Version() != 0 {
		t.Fatalf("expected no-op")
	}
	if _, ok := f.c.Pending(); !ok {
		t.Fatalf("pending action should be kept")
	}
}

func TestPendingActionDays(t *testing.T) {
	tests := []struct {
		name string
		p    PendingAction
		want []weekday.Day
	}{
		{name: "fallback day", p: PendingAction{TargetDay: weekday.Monday}, want: []weekday.Day{weekday.Monday}},
		{name: "explicit selection wins", p: PendingAction{TargetDay: weekday.Friday, DaySelection: []weekday.Day{weekday.Monday, weekday.Wednesday}}, want: []weekday.Day{weekday.Monday, weekday.Wednesday}},
		{name: "nothing", p: PendingAction{}, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, tt.p.Days()); diff != "" {
				t.Fatalf("days mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestApplyTaskOnResolvedDays(t *testing.T) {
	tests := []struct {
		name string
		sel  []weekday.Day
		want []weekday.Day
	}{
		{name: "target day only", want: []weekday.Day{weekday.Friday}},
		{name: "selection", sel: []weekday.Day{weekday.Monday, weekday.Wednesday}, want: []weekday.Day{weekday.Monday, weekday.Wednesday}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(nil)
			f.c.Drop(dropTask(tt.sel...))
			if err := f.c.ApplyToSelection(context.Background(), family.ApplyNone); err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, daysWith(f.cal.Snapshot(), "rt-ana")); diff != "" {
				t.Fatalf("days mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.want, f.backend.lastCreate.Assignments[0].DaysOfWeek); diff != "" {
				t.Fatalf("request days mismatch (-want +got):\n%s", diff)
			}
			if !f.backend.lastCreate.CreateRecurring {
				t.Fatalf("expected a recurring template to be requested")
			}
		})
	}
}

func TestApplyTaskTargetsInRosterOrder(t *testing.T) {
	f := newFixture(nil)
	f.c.Drop(dropTask(weekday.Monday))
	if err := f.c.ApplyToSelection(context.Background(), family.ApplyAllKids); err != nil {
		t.Fatal(err)
	}
	var members []string
	for _, a := range f.backend.lastCreate.Assignments {
		members = append(members, a.MemberID)
	}
	if diff := cmp.Diff([]string{"ana", "ben"}, members); diff != "" {
		t.Fatalf("targets mismatch (-want +got):\n%s", diff)
	}
	if got := f.cal.Snapshot().Count(weekday.Monday, "ben"); got != 1 {
		t.Fatalf("expected ben to get the task, got %d", got)
	}
}

func TestApplyTaskUsesExplicitSelection(t *testing.T) {
	f := newFixture(nil)
	f.sel.Select("ben", "mom")
	f.c.Drop(dropTask(weekday.Monday))
	if err := f.c.ApplyToSelection(context.Background(), "custom"); err != nil {
		t.Fatal(err)
	}
	var members []string
	for _, a := range f.backend.lastCreate.Assignments {
		members = append(members, a.MemberID)
	}
	if diff := cmp.Diff([]string{"mom", "ben"}, members); diff != "" {
		t.Fatalf("targets mismatch (-want +got):\n%s", diff)
	}
}

func TestSuccessClearsStateAndNotifiesOnce(t *testing.T) {
	f := newFixture(nil)
	f.c.Drop(dropTask(weekday.Monday))
	f.c.Open(ModalRoutineDetails)
	if err := f.c.ApplyToSelection(context.Background(), family.ApplyNone); err != nil {
		t.Fatal(err)
	}
	if _, ok := f.c.Pending(); ok {
		t.Fatalf("pending action should be cleared")
	}
	if n := f.c.OpenModals(); n != 0 {
		t.Fatalf("expected all modals closed, %d open", n)
	}
	if f.rec.Len() != 1 {
		t.Fatalf("expected exactly one notification, got %d", f.rec.Len())
	}
	n, _ := f.rec.Last()
	if n.Title != "Success" || n.Description != "Tasks applied successfully" || n.Variant != notify.Default {
		t.Fatalf("unexpected notification %+v", n)
	}
	if f.c.Err() != nil || f.c.Applying() {
		t.Fatalf("expected clean state, err=%v applying=%v", f.c.Err(), f.c.Applying())
	}
	if !f.backend.sawApplying {
		t.Fatalf("expected Applying to be set while the backend runs")
	}
}

func TestFailureNotifiesOnceAndKeepsCalendar(t *testing.T) {
	initial := calendar.Empty().WithTask(weekday.Monday, routine.Task{ID: "keep", MemberID: "ana"})
	f := newFixture(initial)
	f.backend.err = errors.New("backend down")
	f.c.Drop(dropTask(weekday.Monday))

	err := f.c.ApplyToSelection(context.Background(), family.ApplyNone)
	if !errors.Is(err, f.backend.err) {
		t.Fatalf("expected backend error, got %v", err)
	}
	if f.rec.Len() != 1 {
		t.Fatalf("expected exactly one notification, got %d", f.rec.Len())
	}
	n, _ := f.rec.Last()
	if n.Title != "Error" || n.Description != "Failed to apply tasks" || n.Variant != notify.Destructive {
		t.Fatalf("unexpected notification %+v", n)
	}
	if f.c.Err() == nil {
		t.Fatalf("expected error recorded")
	}
	if f.c.Applying() {
		t.Fatalf("applying should be cleared")
	}
	if f.cal.Version() != 0 {
		t.Fatalf("calendar should not be committed on failure")
	}
	if diff := cmp.Diff(initial, f.cal.Snapshot()); diff != "" {
		t.Fatalf("calendar changed (-want +got):\n%s", diff)
	}
	if _, ok := f.c.Pending(); !ok {
		t.Fatalf("pending action should survive a failure")
	}
}

func TestNoTargetsFails(t *testing.T) {
	f := newFixture(nil)
	f.sel.SetRoster(nil)
	f.c.Drop(dropTask(weekday.Monday))
	err := f.c.ApplyToSelection(context.Background(), family.ApplyAllKids)
	if !errors.Is(err, ErrNoTargets) {
		t.Fatalf("expected ErrNoTargets, got %v", err)
	}
	if f.rec.Len() != 1 {
		t.Fatalf("expected one failure notification")
	}
}

func TestRecurringEditRoutingIgnoresKind(t *testing.T) {
	for _, kind := range []Kind{KindTask, KindGroup} {
		t.Run(string(kind), func(t *testing.T) {
			existing := routine.Task{ID: "rt-1", Name: "Dishes", MemberID: "ana", RecurringID: "tpl-1", DaysOfWeek: []weekday.Day{weekday.Monday, weekday.Tuesday}}
			initial := calendar.Empty().
				WithTask(weekday.Monday, existing).
				WithTask(weekday.Tuesday, existing)
			f := newFixture(initial)
			f.c.Edit(EditTarget{Task: existing, Day: weekday.Monday, MemberID: "ana"})
			f.c.SetEditName("Wash dishes")
			p := PendingAction{Kind: kind, Task: existing, Group: routine.Group{ID: "g"}, TargetMemberID: "ana", DaySelection: []weekday.Day{weekday.Wednesday, weekday.Friday}}
			f.c.Drop(p)

			if err := f.c.ApplyToSelection(context.Background(), family.ApplyNone); err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff([]string{"update-recurring"}, f.backend.calls); diff != "" {
				t.Fatalf("calls mismatch (-want +got):\n%s", diff)
			}
			if f.backend.lastUpdate.TemplateID != "tpl-1" || f.backend.lastUpdate.Template.Name != "Wash dishes" {
				t.Fatalf("unexpected update %+v", f.backend.lastUpdate)
			}
			s := f.cal.Snapshot()
			if len(daysWith(s, "rt-1")) != 0 {
				t.Fatalf("old occurrences should be gone")
			}
			if diff := cmp.Diff([]weekday.Day{weekday.Wednesday, weekday.Friday}, daysWith(s, "u-ana")); diff != "" {
				t.Fatalf("updated days mismatch (-want +got):\n%s", diff)
			}
			if _, ok := f.c.EditTarget(); ok {
				t.Fatalf("edit target should be cleared")
			}
			if f.c.EditName() != "" {
				t.Fatalf("edit name should be cleared")
			}
		})
	}
}

func TestApplyGroup(t *testing.T) {
	f := newFixture(nil)
	group := routine.Group{ID: "g1", Name: "Bedtime", Tasks: []routine.Task{{ID: "a"}, {ID: "b"}, {ID: "c"}}}
	f.c.Drop(PendingAction{
		Kind:           KindGroup,
		Group:          group,
		SelectedTasks:  []routine.Task{{ID: "a"}, {ID: "c"}},
		TargetMemberID: "ana",
		DaySelection:   []weekday.Day{weekday.Saturday, weekday.Sunday},
	})
	if err := f.c.ApplyToSelection(context.Background(), family.ApplyAllKids); err != nil {
		t.Fatal(err)
	}
	if len(f.backend.lastGroup.Tasks) != 2 {
		t.Fatalf("expected selected subset, got %d tasks", len(f.backend.lastGroup.Tasks))
	}
	s := f.cal.Snapshot()
	for _, d := range []weekday.Day{weekday.Saturday, weekday.Sunday} {
		if got := len(s[d].Groups); got != 2 {
			t.Fatalf("%s: expected 2 group instances, got %d", d, got)
		}
		if got := s.Count(d, "ben"); got != 2 {
			t.Fatalf("%s: expected 2 tasks for ben, got %d", d, got)
		}
	}
}

func TestRenameNonRecurringEdit(t *testing.T) {
	existing := routine.Task{ID: "rt-9", Name: "Feed cat", MemberID: "ben"}
	f := newFixture(calendar.Empty().WithTask(weekday.Thursday, existing))
	f.c.Edit(EditTarget{Task: existing, Day: weekday.Thursday, MemberID: "ben"})
	f.c.SetEditName("Feed the cat")
	f.c.Drop(PendingAction{Kind: KindTask, Task: existing, TargetMemberID: "ben", TargetDay: weekday.Thursday})

	if err := f.c.ApplyToSelection(context.Background(), family.ApplyNone); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"rename"}, f.backend.calls); diff != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", diff)
	}
	got, _, _ := f.cal.Snapshot().FindTask("rt-9", "ben")
	if got.Name != "Feed the cat" {
		t.Fatalf("expected rename, got %q", got.Name)
	}
}

func TestRenameFailureDoesNotCreate(t *testing.T) {
	existing := routine.Task{ID: "rt-9", Name: "Feed cat", MemberID: "ben"}
	f := newFixture(nil)
	f.backend.err = errors.New("nope")
	f.c.Edit(EditTarget{Task: existing, Day: weekday.Thursday, MemberID: "ben"})
	f.c.Drop(PendingAction{Kind: KindTask, Task: existing, TargetMemberID: "ben", TargetDay: weekday.Thursday})
	_ = f.c.ApplyToSelection(context.Background(), family.ApplyNone)
	if diff := cmp.Diff([]string{"rename"}, f.backend.calls); diff != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestClosingDropsTheEditTarget(t *testing.T) {
	existing := routine.Task{ID: "rt-1", Name: "Brush teeth", MemberID: "ana", RecurringID: "tpl-1", DaysOfWeek: []weekday.Day{weekday.Monday, weekday.Tuesday}}
	tests := []struct {
		name  string
		close func(c *Coordinator)
	}{
		{name: "close all", close: func(c *Coordinator) { c.CloseAll() }},
		{name: "close task dialog", close: func(c *Coordinator) { c.Close(ModalTaskMini) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(calendar.Empty().WithTask(weekday.Monday, existing).WithTask(weekday.Tuesday, existing))
			f.c.Edit(EditTarget{Task: existing, Day: weekday.Monday, MemberID: "ana"})
			f.c.SetEditName("Floss")
			tt.close(f.c)

			if _, ok := f.c.EditTarget(); ok {
				t.Fatalf("edit target should be cleared")
			}
			if f.c.EditName() != "" {
				t.Fatalf("edit name should be cleared")
			}

			f.c.Drop(dropTask(weekday.Friday))
			if err := f.c.ApplyToSelection(context.Background(), "ben"); err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff([]string{"create"}, f.backend.calls); diff != "" {
				t.Fatalf("calls mismatch (-want +got):\n%s", diff)
			}
			s := f.cal.Snapshot()
			if diff := cmp.Diff([]weekday.Day{weekday.Monday, weekday.Tuesday}, daysWith(s, "rt-1")); diff != "" {
				t.Fatalf("existing series changed (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff([]weekday.Day{weekday.Friday}, daysWith(s, "rt-ben")); diff != "" {
				t.Fatalf("new task days mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestClosingOtherDialogsKeepsTheEditTarget(t *testing.T) {
	f := newFixture(nil)
	f.c.Edit(EditTarget{Task: routine.Task{ID: "rt-1"}, Day: weekday.Monday, MemberID: "ana"})
	f.c.Close(ModalApplyTo)
	if _, ok := f.c.EditTarget(); !ok {
		t.Fatalf("edit target should survive closing the apply-to dialog")
	}
}
