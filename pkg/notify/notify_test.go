package notify

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	if _, ok := r.Last(); ok {
		t.Fatalf("empty recorder should have no last")
	}
	r.Notify(context.Background(), Notification{Title: "a"})
	r.Notify(context.Background(), Notification{Title: "b", Variant: Destructive})
	if r.Len() != 2 {
		t.Fatalf("expected 2, got %d", r.Len())
	}
	last, _ := r.Last()
	if last.Title != "b" || last.Variant != Destructive {
		t.Fatalf("unexpected last %+v", last)
	}
	r.Reset()
	if r.Len() != 0 {
		t.Fatalf("reset did not clear")
	}
}

func TestPrinterPlain(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	p := NewPrinter(&buf)
	undo := &Action{Label: "Undo", Do: func(context.Context) {}}
	p.Notify(context.Background(), Notification{
		Title:       "Task deleted",
		Description: "This action can be undone.",
		Action:      undo,
	})
	got := buf.String()
	if !strings.Contains(got, "Task deleted: This action can be undone. [undo]") {
		t.Fatalf("unexpected output %q", got)
	}
	if p.LastAction() != undo {
		t.Fatalf("expected last action to be kept")
	}
}

func TestNotifierFunc(t *testing.T) {
	var got string
	var n Notifier = NotifierFunc(func(_ context.Context, n Notification) { got = n.Title })
	n.Notify(context.Background(), Notification{Title: "hi"})
	if got != "hi" {
		t.Fatalf("expected hi, got %q", got)
	}
	Discard.Notify(context.Background(), Notification{})
}
