// Package registry stores entities keyed by identifier while keeping
// registration order, which drives the benchmark iteration order.
package registry

import (
	"errors"
	"fmt"
	"sync"

	"github.com/kilianp07/fcbench/core/identity"
)

// ErrDuplicateID is returned when an id is registered twice.
var ErrDuplicateID = errors.New("duplicate id")

// Registry is an insertion ordered id -> entity map.
type Registry[T any] struct {
	mu    sync.RWMutex
	order []string
	items map[string]T
}

// New returns an empty registry.
func New[T any]() *Registry[T] {
	return &Registry[T]{items: make(map[string]T)}
}

// Add registers v under id. Existing ids are never overwritten.
func (r *Registry[T]) Add(id string, v T) error {
	if id == "" {
		return fmt.Errorf("empty id")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateID, id)
	}
	r.items[id] = v
	r.order = append(r.order, id)
	return nil
}

// AddAll registers every entry or none of them.
func (r *Registry[T]) AddAll(entries []identity.Entry[T]) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if e.ID == "" {
			return fmt.Errorf("empty id")
		}
		if _, ok := r.items[e.ID]; ok || seen[e.ID] {
			return fmt.Errorf("%w: %s", ErrDuplicateID, e.ID)
		}
		seen[e.ID] = true
	}
	for _, e := range entries {
		r.items[e.ID] = e.Value
		r.order = append(r.order, e.ID)
	}
	return nil
}

// Get returns the entity registered under id.
func (r *Registry[T]) Get(id string) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.items[id]
	return v, ok
}

// Has reports whether id is registered.
func (r *Registry[T]) Has(id string) bool {
	_, ok := r.Get(id)
	return ok
}

// Len returns the number of registered entities.
func (r *Registry[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// IDs returns the identifiers in registration order.
func (r *Registry[T]) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Entries returns id/entity pairs in registration order.
func (r *Registry[T]) Entries() []identity.Entry[T] {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]identity.Entry[T], len(r.order))
	for i, id := range r.order {
		out[i] = identity.Entry[T]{ID: id, Value: r.items[id]}
	}
	return out
}
