// Package store provides a generic, thread-safe, in-memory record store with
// insertion-ordered listing, cursor pagination and sequential IDs. The memory
// mail transport keeps its outbox here.
package store

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Store holds records of type T keyed by ID.
type Store[T any] struct {
	mu      sync.RWMutex
	items   map[string]T
	order   []string
	prefix  string
	limit   int
	counter atomic.Uint64
}

// New creates a Store whose IDs look like "{prefix}_000001". A positive limit
// caps the number of records; the oldest are evicted first.
func New[T any](prefix string, limit int) *Store[T] {
	return &Store[T]{
		items:  make(map[string]T),
		order:  make([]string, 0),
		prefix: prefix,
		limit:  limit,
	}
}

// NextID returns the next sequential ID.
func (s *Store[T]) NextID() string {
	n := s.counter.Add(1)
	return fmt.Sprintf("%s_%06d", s.prefix, n)
}

// Set stores item under id. Overwriting keeps the original position.
func (s *Store[T]) Set(id string, item T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[id]; !exists {
		s.order = append(s.order, id)
	}
	s.items[id] = item
	for s.limit > 0 && len(s.order) > s.limit {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.items, oldest)
	}
}

// Get retrieves an item by ID.
func (s *Store[T]) Get(id string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[id]
	return item, ok
}

// List returns all items in insertion order.
func (s *Store[T]) List() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]T, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, s.items[id])
	}
	return result
}

// Page is one slice of a paginated listing.
type Page[T any] struct {
	Data    []T    `json:"data"`
	HasMore bool   `json:"has_more"`
	Cursor  string `json:"cursor,omitempty"`
	Total   int    `json:"total"`
}

// Paginate returns up to limit items after cursor (the last ID seen).
// An empty cursor starts from the beginning; limit <= 0 returns everything.
func (s *Store[T]) Paginate(cursor string, limit int) Page[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start := 0
	if cursor != "" {
		for i, id := range s.order {
			if id == cursor {
				start = i + 1
				break
			}
		}
	}

	if limit <= 0 {
		limit = len(s.order)
	}
	end := start + limit
	hasMore := end < len(s.order)
	if end > len(s.order) {
		end = len(s.order)
	}

	data := make([]T, 0, end-start)
	var last string
	for i := start; i < end; i++ {
		data = append(data, s.items[s.order[i]])
		last = s.order[i]
	}

	return Page[T]{
		Data:    data,
		HasMore: hasMore,
		Cursor:  last,
		Total:   len(s.order),
	}
}

// Count returns the number of stored items.
func (s *Store[T]) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Filter returns the items matching predicate, in insertion order.
func (s *Store[T]) Filter(predicate func(id string, item T) bool) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []T
	for _, id := range s.order {
		if predicate(id, s.items[id]) {
			result = append(result, s.items[id])
		}
	}
	return result
}

// Reset clears all items and restarts the ID sequence.
func (s *Store[T]) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[string]T)
	s.order = make([]string, 0)
	s.counter.Store(0)
}
