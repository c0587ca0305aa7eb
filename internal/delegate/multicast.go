// Package delegate provides a multi-subscriber broadcast used to republish
// session results to any number of listeners.
package delegate

import "sync"

// Subscription identifies one registered callback. The zero value is never
// issued.
type Subscription uint64

type entry[T any] struct {
	id Subscription
	fn func(T)
}

// Multicast is an ordered list of callbacks that all receive each broadcast
// value. The zero value is ready to use.
type Multicast[T any] struct {
	mu      sync.RWMutex
	entries []entry[T]
	nextID  Subscription
}

// Add registers fn and returns the subscription needed to remove it.
func (m *Multicast[T]) Add(fn func(T)) Subscription {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.entries = append(m.entries, entry[T]{id: m.nextID, fn: fn})
	return m.nextID
}

// Remove unregisters a subscription. It reports whether it was registered.
func (m *Multicast[T]) Remove(sub Subscription) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, e := range m.entries {
		if e.id == sub {
			m.entries = append(m.entries[:i:i], m.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Broadcast invokes every subscriber in registration order. The subscriber
// list is snapshotted first, so callbacks may add or remove subscriptions
// (including their own) without affecting the current dispatch.
func (m *Multicast[T]) Broadcast(v T) {
	m.mu.RLock()
	snapshot := make([]func(T), len(m.entries))
	for i, e := range m.entries {
		snapshot[i] = e.fn
	}
	m.mu.RUnlock()

	for _, fn := range snapshot {
		fn(v)
	}
}

// Len returns the number of registered subscribers.
func (m *Multicast[T]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Clear removes every subscriber.
func (m *Multicast[T]) Clear() {
	m.mu.Lock()
	m.entries = nil
	m.mu.Unlock()
}
