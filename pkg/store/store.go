package store

import "sync"

// Store is a single-writer observable value cell.
//
// Unlike a deduplicating signal, a Store notifies on every Set/Update,
// even when the new value compares equal to the old one. The form engine
// relies on this: shadow trees (touched, errors) are frequently rewritten
// with structurally equal values and subscribers must still observe the
// write to re-run reflection logic.
type Store[T any] struct {
	value T

	// mu protects value and subs.
	mu sync.RWMutex

	subs   []*subscriber[T]
	nextID uint64
}

type subscriber[T any] struct {
	id uint64
	fn func(T)
}

// New creates a store holding the given initial value.
func New[T any](initial T) *Store[T] {
	return &Store[T]{value: initial}
}

// Get returns the current value.
func (s *Store[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Set replaces the value and notifies all subscribers.
func (s *Store[T]) Set(value T) {
	s.mu.Lock()
	s.value = value
	subs := s.copySubs()
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(value)
	}
}

// Update atomically transforms the value and notifies all subscribers.
// The transform runs under the store's lock; it must not call back into
// the store. Notification happens after the lock is released, so
// subscribers may re-enter Set/Update safely.
func (s *Store[T]) Update(fn func(T) T) {
	s.mu.Lock()
	s.value = fn(s.value)
	value := s.value
	subs := s.copySubs()
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(value)
	}
}

// Subscribe registers fn and invokes it immediately with the current
// value. The returned function removes the subscription; calling it more
// than once is a no-op.
func (s *Store[T]) Subscribe(fn func(T)) func() {
	s.mu.Lock()
	s.nextID++
	sub := &subscriber[T]{id: s.nextID, fn: fn}
	s.subs = append(s.subs, sub)
	value := s.value
	s.mu.Unlock()

	fn(value)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.unsubscribe(sub.id)
		})
	}
}

func (s *Store[T]) unsubscribe(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sub := range s.subs {
		if sub.id == id {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return
		}
	}
}

// copySubs returns a snapshot of the subscriber list.
// Copy-before-notify keeps the lock out of subscriber callbacks.
func (s *Store[T]) copySubs() []*subscriber[T] {
	subs := make([]*subscriber[T], len(s.subs))
	copy(subs, s.subs)
	return subs
}
