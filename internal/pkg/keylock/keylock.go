// Package keylock provides mutual exclusion scoped to a string key.
package keylock

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

type entry struct {
	sem  *semaphore.Weighted
	refs int
}

// Map hands out one exclusive token per key. Different keys never block each other.
// Entries are dropped once no caller holds or waits on them.
type Map struct {
	mu      sync.Mutex
	entries map[string]*entry
}

func New() *Map {
	return &Map{entries: make(map[string]*entry)}
}

// Lock blocks until the token for key is acquired or ctx is done.
// On success the returned func must be called exactly once to release the token.
func (m *Map) Lock(ctx context.Context, key string) (func(), error) {
	e := m.acquireEntry(key)

	if err := e.sem.Acquire(ctx, 1); err != nil {
		m.releaseEntry(key, e)
		return nil, err
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			e.sem.Release(1)
			m.releaseEntry(key, e)
		})
	}, nil
}

func (m *Map) acquireEntry(key string) *entry {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		e = &entry{sem: semaphore.NewWeighted(1)}
		m.entries[key] = e
	}
	e.refs++
	return e
}

func (m *Map) releaseEntry(key string, e *entry) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e.refs--
	if e.refs == 0 {
		delete(m.entries, key)
	}
}

// Len returns the number of keys currently held or waited on.
func (m *Map) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
