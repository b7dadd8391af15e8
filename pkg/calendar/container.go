package calendar

import "sync"

// Container is the single shared reference to the current calendar. Readers
// take snapshots; writers replace the whole state with Commit.
type Container struct {
	mu      sync.RWMutex
	state   State
	version uint64
}

// NewContainer starts a container at initial (Empty when nil).
func NewContainer(initial State) *Container {
	return &Container{state: initial.Clone()}
}

// Snapshot returns a copy of the current state.
func (c *Container) Snapshot() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.Clone()
}

// Commit replaces the current state with next.
func (c *Container) Commit(next State) {
	cp := next.Clone()
	c.mu.Lock()
	c.state = cp
	c.version++
	c.mu.Unlock()
}

// Version increases by one on every Commit.
func (c *Container) Version() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}
