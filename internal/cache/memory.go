package cache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

// Memory is an in-process cache with FIFO eviction once MaxEntries is reached.
type Memory struct {
	mu         sync.Mutex
	items      map[string]entry
	order      []string
	maxEntries int
	now        func() time.Time
}

// NewMemory returns a Memory cache; maxEntries <= 0 means unbounded.
func NewMemory(maxEntries int) *Memory {
	return &Memory{
		items:      make(map[string]entry),
		order:      make([]string, 0, 128),
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.items[key]
	if !ok {
		return nil, false, nil
	}
	if !e.expiresAt.IsZero() && !m.now().Before(e.expiresAt) {
		delete(m.items, key)
		m.removeFromOrder(key)
		return nil, false, nil
	}
	return e.value, true, nil
}

// Set stores val; ttl <= 0 keeps it until evicted.
func (m *Memory) Set(_ context.Context, key string, val []byte, ttl time.Duration) error {
	e := entry{value: append([]byte(nil), val...)}
	if ttl > 0 {
		e.expiresAt = m.now().Add(ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.items[key]; !exists {
		m.order = append(m.order, key)
	}
	m.items[key] = e
	m.evictIfNeeded()
	return nil
}

// Len reports the number of stored entries, expired ones included.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

func (m *Memory) removeFromOrder(key string) {
	for i, k := range m.order {
		if k == key {
			m.order = append(m.order[:i], m.order[i+1:]...)
			return
		}
	}
}

func (m *Memory) evictIfNeeded() {
	if m.maxEntries <= 0 {
		return
	}
	for len(m.items) > m.maxEntries && len(m.order) > 0 {
		victim := m.order[0]
		m.order = m.order[1:]
		delete(m.items, victim)
	}
}
