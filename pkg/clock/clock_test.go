package clock

import (
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestFakeRunsDueCallbacksInOrder(t *testing.T) {
	f := NewFake(time.Unix(0, 0))
	var got []string
	f.AfterFunc(3*time.Second, func() { got = append(got, "c") })
	f.AfterFunc(1*time.Second, func() { got = append(got, "a") })
	f.AfterFunc(1*time.Second, func() { got = append(got, "b") })

	f.Advance(500 * time.Millisecond)
	if len(got) != 0 {
		t.Fatalf("nothing should fire yet, got %v", got)
	}
	f.Advance(time.Second)
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("expected [a b], got %v", got)
	}
	if f.Pending() != 1 {
		t.Fatalf("expected 1 pending, got %d", f.Pending())
	}
	f.Advance(2 * time.Second)
	if len(got) != 3 || got[2] != "c" {
		t.Fatalf("expected c last, got %v", got)
	}
}

func TestFakeStop(t *testing.T) {
	f := NewFake(time.Unix(0, 0))
	fired := false
	tm := f.AfterFunc(time.Second, func() { fired = true })
	if !tm.Stop() {
		t.Fatalf("first Stop should report true")
	}
	if tm.Stop() {
		t.Fatalf("second Stop should report false")
	}
	f.Advance(time.Minute)
	if fired {
		t.Fatalf("stopped timer fired")
	}
}

func TestFakeCallbackMayScheduleAgain(t *testing.T) {
	f := NewFake(time.Unix(0, 0))
	count := 0
	f.AfterFunc(time.Second, func() {
		count++
		f.AfterFunc(time.Second, func() { count++ })
	})
	f.Advance(time.Second)
	f.Advance(time.Second)
	if count != 2 {
		t.Fatalf("expected 2, got %d", count)
	}
}

func TestRealAfterFunc(t *testing.T) {
	done := make(chan struct{})
	Real{}.AfterFunc(time.Millisecond, func() { close(done) })
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for real timer")
	}
	stopped := Real{}.AfterFunc(time.Hour, func() {})
	if !stopped.Stop() {
		t.Fatalf("expected Stop to cancel pending timer")
	}
}
