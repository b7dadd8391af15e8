// Package notify is the user notification capability used by the planner.
package notify

import (
	"context"
	"sync"
)

// Variant styles a notification.
type Variant string

const (
	Default     Variant = "default"
	Destructive Variant = "destructive"
)

// Action is an optional button carried by a notification.
type Action struct {
	Label string
	Do    func(ctx context.Context)
}

// Notification is a short message shown to the user.
type Notification struct {
	Title       string
	Description string
	Variant     Variant
	Action      *Action
}

// Notifier shows notifications.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// NotifierFunc adapts a function to a Notifier.
type NotifierFunc func(ctx context.Context, n Notification)

// Notify implements Notifier.
func (f NotifierFunc) Notify(ctx context.Context, n Notification) {
	f(ctx, n)
}

// Discard drops every notification.
var Discard Notifier = NotifierFunc(func(context.Context, Notification) {})

// Recorder keeps every notification it receives.
type Recorder struct {
	mu   sync.Mutex
	seen []Notification
}

// Notify implements Notifier.
func (r *Recorder) Notify(_ context.Context, n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, n)
}

// All returns what has been recorded so far.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.seen...)
}

// Len is the number of notifications recorded.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.seen)
}

// Last returns the most recent notification.
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.seen) == 0 {
		return Notification{}, false
	}
	return r.seen[len(r.seen)-1], true
}

// Reset forgets everything recorded.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.seen = nil
	r.mu.Unlock()
}
