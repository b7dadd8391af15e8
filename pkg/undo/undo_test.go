package undo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"

	"tableflip.dev/kidoers/pkg/clock"
	"tableflip.dev/kidoers/pkg/notify"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func setup() (*Registry, *clock.Fake, *notify.Recorder) {
	fake := clock.NewFake(time.Unix(0, 0))
	rec := &notify.Recorder{}
	return New(rec, WithScheduler(fake)), fake, rec
}

func op(id string, reverse func(context.Context) error) *Operation {
	return &Operation{ID: id, Kind: Delete, Reverse: reverse}
}

func ids(ops []*Operation) []string {
	out := make([]string, len(ops))
	for i, o := range ops {
		out[i] = o.ID
	}
	return out
}

func TestShowUndoToastRegistersAndNotifies(t *testing.T) {
	r, _, rec := setup()
	o := op("op-1", func(context.Context) error { return nil })
	if err := r.ShowUndoToast(context.Background(), o, "Task deleted"); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"op-1"}, ids(r.Pending())); diff != "" {
		t.Fatalf("pending mismatch (-want +got):\n%s", diff)
	}
	if r.State("op-1") != Notified {
		t.Fatalf("expected notified, got %q", r.State("op-1"))
	}
	n, _ := rec.Last()
	if n.Title != "Task deleted" || n.Description != "This action can be undone." || n.Variant != notify.Default {
		t.Fatalf("unexpected notification %+v", n)
	}
	if n.Action == nil || n.Action.Label != "Undo" {
		t.Fatalf("expected an Undo action, got %+v", n.Action)
	}
}

func TestUndoActionRunsReverseOnce(t *testing.T) {
	r, _, rec := setup()
	calls := 0
	o := op("op-1", func(context.Context) error { calls++; return nil })
	_ = r.ShowUndoToast(context.Background(), o, "Task deleted")
	n, _ := rec.Last()
	n.Action.Do(context.Background())

	if calls != 1 {
		t.Fatalf("expected reverse once, got %d", calls)
	}
	if len(r.Pending()) != 0 {
		t.Fatalf("undone op should not be pending")
	}
	if r.State("op-1") != Undone {
		t.Fatalf("expected undone, got %q", r.State("op-1"))
	}
	last, _ := rec.Last()
	if last.Title != "Action undone" || last.Description != "The task has been restored." {
		t.Fatalf("unexpected notification %+v", last)
	}
}

func TestUndoFailureNotifiesDestructive(t *testing.T) {
	r, _, rec := setup()
	boom := errors.New("boom")
	o := op("op-1", func(context.Context) error { return boom })
	_ = r.ShowUndoToast(context.Background(), o, "Task deleted")

	err := r.Undo(context.Background(), "op-1")
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	last, _ := rec.Last()
	if last.Title != "Unable to undo" || last.Variant != notify.Destructive {
		t.Fatalf("unexpected notification %+v", last)
	}
	if rec.Len() != 2 {
		t.Fatalf("expected 2 notifications, got %d", rec.Len())
	}
}

func TestEvictionAfterWindow(t *testing.T) {
	r, fake, _ := setup()
	_ = r.ShowUndoToast(context.Background(), op("op-1", func(context.Context) error { return nil }), "x")

	fake.Advance(DefaultWindow - time.Millisecond)
	if len(r.Pending()) != 1 {
		t.Fatalf("evicted too early")
	}
	fake.Advance(time.Millisecond)
	if len(r.Pending()) != 0 {
		t.Fatalf("expected eviction after window")
	}
	if r.State("op-1") != Expired {
		t.Fatalf("expected expired, got %q", r.State("op-1"))
	}
}

func TestActionStillWorksAfterEviction(t *testing.T) {
	r, fake, rec := setup()
	calls := 0
	_ = r.ShowUndoToast(context.Background(), op("op-1", func(context.Context) error { calls++; return nil }), "x")
	n, _ := rec.Last()
	fake.Advance(DefaultWindow)
	n.Action.Do(context.Background())
	if calls != 1 {
		t.Fatalf("expected reverse to run after eviction")
	}
	if err := r.Undo(context.Background(), "op-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found by id after eviction, got %v", err)
	}
}

func TestReusedIDNotEvictedByOldTimer(t *testing.T) {
	r, fake, _ := setup()
	first := op("op-1", func(context.Context) error { return nil })
	_ = r.ShowUndoToast(context.Background(), first, "x")

	fake.Advance(3 * time.Second)
	r.Remove("op-1")
	second := op("op-1", func(context.Context) error { return nil })
	if err := r.ShowUndoToast(context.Background(), second, "y"); err != nil {
		t.Fatal(err)
	}

	fake.Advance(3 * time.Second)
	got, ok := r.Get("op-1")
	if !ok || got != second {
		t.Fatalf("second registration evicted by first timer")
	}
	fake.Advance(2 * time.Second)
	if _, ok := r.Get("op-1"); ok {
		t.Fatalf("second registration should expire on its own window")
	}
}

func TestDuplicatePendingRejected(t *testing.T) {
	r, _, rec := setup()
	_ = r.ShowUndoToast(context.Background(), op("op-1", nil), "x")
	err := r.ShowUndoToast(context.Background(), op("op-1", nil), "y")
	if !errors.Is(err, ErrDuplicateOperation) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
	if err := r.Add(op("op-1", nil)); !errors.Is(err, ErrDuplicateOperation) {
		t.Fatalf("expected duplicate error from Add, got %v", err)
	}
	if rec.Len() != 1 {
		t.Fatalf("rejected registration must not notify")
	}
}

func TestPendingInsertionOrder(t *testing.T) {
	r, _, _ := setup()
	for _, id := range []string{"c", "a", "b"} {
		if err := r.Add(op(id, nil)); err != nil {
			t.Fatal(err)
		}
	}
	if r.State("a") != Created {
		t.Fatalf("expected created, got %q", r.State("a"))
	}
	r.Remove("a")
	r.Remove("missing")
	if diff := cmp.Diff([]string{"c", "b"}, ids(r.Pending())); diff != "" {
		t.Fatalf("pending mismatch (-want +got):\n%s", diff)
	}
}

func TestShowUndoToastForAddedOperation(t *testing.T) {
	r, fake, rec := setup()
	o := op("op-1", nil)
	_ = r.Add(o)
	if err := r.ShowUndoToast(context.Background(), o, "x"); err != nil {
		t.Fatalf("already-added op should be shown, got %v", err)
	}
	if rec.Len() != 1 || len(r.Pending()) != 1 {
		t.Fatalf("expected a single registration and notification")
	}
	fake.Advance(DefaultWindow)
	if len(r.Pending()) != 0 {
		t.Fatalf("expected eviction")
	}
}

func TestUndoneThenExpiryIsHarmless(t *testing.T) {
	r, fake, _ := setup()
	_ = r.ShowUndoToast(context.Background(), op("op-1", func(context.Context) error { return nil }), "x")
	if err := r.Undo(context.Background(), "op-1"); err != nil {
		t.Fatal(err)
	}
	fake.Advance(DefaultWindow)
	if r.State("op-1") != Undone {
		t.Fatalf("expiry must not overwrite undone, got %q", r.State("op-1"))
	}
}

func TestWithWindow(t *testing.T) {
	fake := clock.NewFake(time.Unix(0, 0))
	r := New(nil, WithScheduler(fake), WithWindow(time.Second))
	_ = r.ShowUndoToast(context.Background(), op("op-1", nil), "x")
	fake.Advance(time.Second)
	if len(r.Pending()) != 0 {
		t.Fatalf("expected eviction after custom window")
	}
}
