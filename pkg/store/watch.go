package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// EventType describes the nature of a persistence change notification.
type EventType int

const (
	// EventChanged indicates records of one kind in one scope were added,
	// edited or removed.
	EventChanged EventType = iota

	// EventInvalidated signals a change that could not be pinned to a
	// bucket; callers should reload everything.
	EventInvalidated
)

func (t EventType) String() string {
	switch t {
	case EventChanged:
		return "changed"
	case EventInvalidated:
		return "invalidated"
	}
	return fmt.Sprintf("EventType(%d)", int(t))
}

// Event is emitted by Persistence.Watch when underlying storage changes.
type Event struct {
	Type  EventType
	Kind  Kind
	Scope string
}

type diskWatcher struct {
	basePath string
}

// Watch streams change events until ctx is cancelled. Callers should drain the
// returned channel. The channel is closed once ctx is done or the watcher
// fails.
func (w *diskWatcher) Watch(ctx context.Context) (<-chan Event, error) {
	if err := os.MkdirAll(w.basePath, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure base path: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("store: create watcher: %w", err)
	}
	var closeOnce sync.Once
	closeWatcher := func() {
		closeOnce.Do(func() {
			if err := fw.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "store: watcher close: %v\n", err)
			}
		})
	}

	dirs, err := collectDirs(w.basePath)
	if err != nil {
		closeWatcher()
		return nil, fmt.Errorf("store: enumerate directories: %w", err)
	}
	for _, dir := range dirs {
		if err := fw.Add(dir); err != nil {
			closeWatcher()
			return nil, fmt.Errorf("store: watch %s: %w", dir, err)
		}
	}

	events := make(chan Event, 64)

	go func() {
		defer close(events)
		defer closeWatcher()

		watched := make(map[string]struct{}, len(dirs))
		for _, dir := range dirs {
			watched[dir] = struct{}{}
		}

		// Drop events the consumer is not ready for; the next one triggers a
		// reload anyway.
		send := func(ev Event) {
			select {
			case events <- ev:
			default:
			}
		}

		throttle := newEventThrottle(100 * time.Millisecond)
		defer throttle.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-fw.Errors:
				if !ok {
					return
				}
				throttle.Enqueue(Event{Type: EventInvalidated}, send)
			case evt, ok := <-fw.Events:
				if !ok {
					return
				}

				if evt.Op&fsnotify.Create == fsnotify.Create {
					if info, err := os.Stat(evt.Name); err == nil && info.IsDir() {
						dir := filepath.Clean(evt.Name)
						if _, found := watched[dir]; !found {
							if err := fw.Add(dir); err != nil {
								fmt.Fprintf(os.Stderr, "store: watch %s: %v\n", dir, err)
							} else {
								watched[dir] = struct{}{}
							}
						}
						// New bucket directories show up before the first
						// write lands in them.
						if kind, scope, ok := w.bucketForPath(filepath.Join(dir, "x")); ok {
							throttle.Enqueue(Event{Type: EventChanged, Kind: kind, Scope: scope}, send)
						} else {
							throttle.Enqueue(Event{Type: EventInvalidated}, send)
						}
						continue
					}
				}

				kind, scope, ok := w.bucketForPath(evt.Name)
				if !ok {
					throttle.Enqueue(Event{Type: EventInvalidated}, send)
					continue
				}
				throttle.Enqueue(Event{Type: EventChanged, Kind: kind, Scope: scope}, send)
			}
		}
	}()

	return events, nil
}

// collectDirs walks base and returns all directories that should be watched.
func collectDirs(base string) ([]string, error) {
	dirs := []string{base}
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() && path != base {
			dirs = append(dirs, path)
		}
		return nil
	})
	return dirs, err
}

// bucketForPath maps base/kind/scope/id back to its bucket.
func (w *diskWatcher) bucketForPath(path string) (Kind, string, bool) {
	rel, err := filepath.Rel(w.basePath, path)
	if err != nil || rel == "." {
		return "", "", false
	}
	parts := strings.Split(rel, string(os.PathSeparator))
	if len(parts) < 3 || parts[0] == "" {
		return "", "", false
	}
	switch kind := Kind(parts[0]); kind {
	case KindMember, KindRoutine, KindTask, KindTemplate, KindGroup, KindReward:
		return kind, fromScope(parts[1]), true
	}
	return "", "", false
}

type bucket struct {
	kind  Kind
	scope string
}

// eventThrottle coalesces bursts of filesystem activity into one event per
// bucket.
type eventThrottle struct {
	mu      sync.Mutex
	timer   *time.Timer
	pending map[EventType]map[bucket]struct{}
	delay   time.Duration
	stopped bool
}

func newEventThrottle(delay time.Duration) *eventThrottle {
	return &eventThrottle{
		delay:   delay,
		pending: make(map[EventType]map[bucket]struct{}),
	}
}

func (t *eventThrottle) Enqueue(ev Event, send func(Event)) {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	if t.pending[ev.Type] == nil {
		t.pending[ev.Type] = make(map[bucket]struct{})
	}
	t.pending[ev.Type][bucket{kind: ev.Kind, scope: ev.Scope}] = struct{}{}

	if t.timer == nil {
		t.timer = time.AfterFunc(t.delay, func() {
			t.flush(send)
		})
	}
	t.mu.Unlock()
}

// flush sends under the lock so Stop never returns while a send is in
// flight.
func (t *eventThrottle) flush(send func(Event)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	pending := t.pending
	t.pending = make(map[EventType]map[bucket]struct{})
	t.timer = nil

	for eventType, buckets := range pending {
		for b := range buckets {
			send(Event{Type: eventType, Kind: b.kind, Scope: b.scope})
		}
	}
}

func (t *eventThrottle) Stop() {
	t.mu.Lock()
	t.stopped = true
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.mu.Unlock()
}
