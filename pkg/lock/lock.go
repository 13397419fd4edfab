package lock

import (
	"sort"
	"sync"
)

// Mutex keyed mutex, entries are dropped once nobody holds or waits for them
type Mutex struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	mu  sync.Mutex
	ref int
}

// New new keyed mutex
func New() *Mutex {
	return &Mutex{locks: map[string]*entry{}}
}

// Lock lock key
func (m *Mutex) Lock(key string) {
	m.mu.Lock()
	e, ok := m.locks[key]
	if !ok {
		e = &entry{}
		m.locks[key] = e
	}
	e.ref++
	m.mu.Unlock()

	e.mu.Lock()
}

// Unlock unlock key, panics if key is not locked
func (m *Mutex) Unlock(key string) {
	m.mu.Lock()
	e, ok := m.locks[key]
	if !ok {
		m.mu.Unlock()
		panic("lock: unlock of unlocked key " + key)
	}

	e.ref--
	if e.ref == 0 {
		delete(m.locks, key)
	}
	m.mu.Unlock()

	e.mu.Unlock()
}

// LockAll locks every key in sorted order and returns the release func.
// Duplicated keys are locked once.
func (m *Mutex) LockAll(keys ...string) func() {
	uniq := make([]string, 0, len(keys))
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		if !seen[k] {
			seen[k] = true
			uniq = append(uniq, k)
		}
	}
	sort.Strings(uniq)

	for _, k := range uniq {
		m.Lock(k)
	}

	return func() {
		for i := len(uniq) - 1; i >= 0; i-- {
			m.Unlock(uniq[i])
		}
	}
}

func (m *Mutex) size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.locks)
}
