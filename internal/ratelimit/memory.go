package ratelimit

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	count       int
	windowStart time.Time
	expiresAt   time.Time
}

// Memory is the single-process Limiter.  Counters live in a mutex-guarded
// map; a background sweeper evicts expired windows so the map cannot grow
// without bound.  It does not survive restarts and does not coordinate
// across instances; deployments running more than one server must use the
// Redis limiter instead.
type Memory struct {
	mu      sync.Mutex
	entries map[string]*entry
	done    chan struct{}
	closed  sync.Once

	// now is indirected for tests.
	now func() time.Time
}

// NewMemory creates an in-process limiter and starts its sweeper.  The
// sweeper wakes every sweepInterval and drops expired windows.  Call Close
// when the limiter is no longer needed.
func NewMemory(sweepInterval time.Duration) *Memory {
	m := &Memory{
		entries: make(map[string]*entry),
		done:    make(chan struct{}),
		now:     time.Now,
	}
	go m.sweep(sweepInterval)
	return m
}

// Check implements Limiter with an atomic check-and-increment under the
// map lock.
func (m *Memory) Check(_ context.Context, identifier string, max int, window time.Duration) (Result, error) {
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[identifier]
	if !ok || now.After(e.expiresAt) {
		// Fresh or expired window: this attempt opens it.
		m.entries[identifier] = &entry{count: 1, windowStart: now, expiresAt: now.Add(window)}
		return Result{Allowed: true, Remaining: max - 1, ResetAt: now.Add(window)}, nil
	}
	if e.count >= max {
		return Result{Allowed: false, Remaining: 0, ResetAt: e.expiresAt}, nil
	}
	e.count++
	return Result{Allowed: true, Remaining: max - e.count, ResetAt: e.expiresAt}, nil
}

// Reset clears the record for an identifier.
func (m *Memory) Reset(_ context.Context, identifier string) error {
	m.mu.Lock()
	delete(m.entries, identifier)
	m.mu.Unlock()
	return nil
}

// Close stops the sweeper goroutine.  Safe to call more than once.
func (m *Memory) Close() {
	m.closed.Do(func() { close(m.done) })
}

func (m *Memory) sweep(interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-m.done:
			return
		case <-t.C:
			now := m.now()
			m.mu.Lock()
			for id, e := range m.entries {
				if now.After(e.expiresAt) {
					delete(m.entries, id)
				}
			}
			m.mu.Unlock()
		}
	}
}

// size reports the number of live entries; used by the sweeper test.
func (m *Memory) size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
