package store

import (
	"context"
	"os"
	"sort"
	"strings"
	"sync"
)

// NewMemory returns a Persistence that keeps everything in process. Watch
// reports each write as it happens.
func NewMemory() Persistence {
	m := &memKV{data: map[string][]byte{}}
	return &records{kv: m, w: m}
}

type memKV struct {
	mu   sync.Mutex
	data map[string][]byte
	subs []chan Event
}

func (m *memKV) Read(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.data[key]
	if !ok {
		return nil, &os.PathError{Op: "read", Path: key, Err: os.ErrNotExist}
	}
	return append([]byte(nil), val...), nil
}

func (m *memKV) Write(key string, val []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), val...)
	m.publishLocked(key)
	return nil
}

func (m *memKV) Erase(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[key]; !ok {
		return &os.PathError{Op: "remove", Path: key, Err: os.ErrNotExist}
	}
	delete(m.data, key)
	m.publishLocked(key)
	return nil
}

// Keys snapshots the key set, so callers may Read while draining.
func (m *memKV) Keys(cancel <-chan struct{}) <-chan string {
	m.mu.Lock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	m.mu.Unlock()
	sort.Strings(keys)

	out := make(chan string)
	go func() {
		defer close(out)
		for _, k := range keys {
			select {
			case out <- k:
			case <-cancel:
				return
			}
		}
	}()
	return out
}

func (m *memKV) Watch(ctx context.Context) (<-chan Event, error) {
	ch := make(chan Event, 64)
	m.mu.Lock()
	m.subs = append(m.subs, ch)
	m.mu.Unlock()

	go func() {
		<-ctx.Done()
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, sub := range m.subs {
			if sub == ch {
				m.subs = append(m.subs[:i], m.subs[i+1:]...)
				break
			}
		}
		close(ch)
	}()
	return ch, nil
}

func (m *memKV) publishLocked(key string) {
	if len(m.subs) == 0 {
		return
	}
	ev := Event{Type: EventInvalidated}
	if parts := strings.Split(key, ":"); len(parts) == 3 {
		ev = Event{Type: EventChanged, Kind: Kind(parts[0]), Scope: fromScope(parts[1])}
	}
	for _, sub := range m.subs {
		select {
		case sub <- ev:
		default:
		}
	}
}
