// Package clock provides the time sources shared by the scheduler, the
// animation controller and snapshot expiry.
package clock

import (
	"sync"
	"time"
)

// Clock is the time source consumed by every time-driven component
type Clock interface {
	Now() time.Time
}

// Real reads the system clock with its monotonic component
type Real struct{}

// NewReal creates a system clock
func NewReal() *Real {
	return &Real{}
}

// Now returns time.Now()
func (Real) Now() time.Time {
	return time.Now()
}

// Mock is a manually driven clock for tests and replays
type Mock struct {
	mu  sync.RWMutex
	now time.Time
}

// NewMock creates a mock clock frozen at start
func NewMock(start time.Time) *Mock {
	return &Mock{now: start}
}

// Now returns the mocked time
func (m *Mock) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.now
}

// Set jumps the clock to t, backwards jumps included
func (m *Mock) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = t
}

// Advance moves the clock forward by d and returns the new time
func (m *Mock) Advance(d time.Duration) time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
	return m.now
}
