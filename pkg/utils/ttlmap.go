package utils

import (
	"sync"
	"time"
)

type ttlEntry[V any] struct {
	value    V
	deadline time.Time
}

// TTLMap is a concurrency-safe map whose entries expire after a fixed TTL.
// Expired entries are invisible to Get immediately and reclaimed by a
// background sweep once per TTL period.
type TTLMap[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]ttlEntry[V]
	ttl     time.Duration
}

// NewTTLMap creates a TTLMap and starts its background sweep.
func NewTTLMap[K comparable, V any](ttl time.Duration) *TTLMap[K, V] {
	m := &TTLMap[K, V]{
		entries: make(map[K]ttlEntry[V]),
		ttl:     ttl,
	}

	go m.sweep()

	return m
}

// Get returns the value for key if it exists and has not expired.
func (m *TTLMap[K, V]) Get(key K) (V, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.entries[key]
	if !ok || time.Now().After(entry.deadline) {
		var zero V
		return zero, false
	}

	return entry.value, true
}

// Set stores value under key and resets its expiry to now plus the TTL.
func (m *TTLMap[K, V]) Set(key K, value V) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = ttlEntry[V]{value: value, deadline: time.Now().Add(m.ttl)}
}

// Delete removes key from the map.
func (m *TTLMap[K, V]) Delete(key K) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, key)
}

func (m *TTLMap[K, V]) sweep() {
	ticker := time.NewTicker(m.ttl)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()

		m.mu.Lock()
		for key, entry := range m.entries {
			if now.After(entry.deadline) {
				delete(m.entries, key)
			}
		}
		m.mu.Unlock()
	}
}
