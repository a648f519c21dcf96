// Package cart holds the live working set of line items a visitor is
// assembling. A Store has a single writer at a time; readers always get a
// value snapshot and subscribers are notified with derived state after each
// mutation.
package cart

import (
	"sync"

	"resorthub/internal/models"

	"github.com/google/uuid"
)

// Listener receives the derived cart state after every mutation.
type Listener func(models.CartState)

// Store is one session's mutable cart. All operations are synchronous and
// total; none of them can fail.
type Store struct {
	mu        sync.Mutex
	items     []models.LineItem
	listeners map[int]Listener
	nextID    int
}

func NewStore() *Store {
	return &Store{listeners: make(map[int]Listener)}
}

// AddItem appends the item under a freshly generated id and returns the stored
// copy. There is no deduplication: adding the same room twice creates two
// distinct entries.
func (s *Store) AddItem(item models.LineItem) models.LineItem {
	stored := item.Clone()
	stored.ID = uuid.NewString()
	if stored.Quantity < 1 {
		stored.Quantity = 1
	}

	s.mu.Lock()
	s.items = append(s.items, stored)
	state, listeners := s.snapshotLocked()
	s.mu.Unlock()

	notify(listeners, state)
	return stored.Clone()
}

// RemoveItem deletes the entry with the given id; absent ids are a no-op.
func (s *Store) RemoveItem(id string) {
	s.mu.Lock()
	for i, item := range s.items {
		if item.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
	state, listeners := s.snapshotLocked()
	s.mu.Unlock()

	notify(listeners, state)
}

// UpdateQuantity sets the quantity of the matching entry. A quantity of zero
// or less removes the entry, matching the storefront's minus button reaching
// zero. Absent ids are a no-op.
func (s *Store) UpdateQuantity(id string, quantity int) {
	s.mu.Lock()
	for i, item := range s.items {
		if item.ID != id {
			continue
		}
		if quantity <= 0 {
			s.items = append(s.items[:i], s.items[i+1:]...)
		} else {
			s.items[i].Quantity = quantity
		}
		break
	}
	state, listeners := s.snapshotLocked()
	s.mu.Unlock()

	notify(listeners, state)
}

// Clear empties the cart.
func (s *Store) Clear() {
	s.mu.Lock()
	s.items = nil
	state, listeners := s.snapshotLocked()
	s.mu.Unlock()

	notify(listeners, state)
}

// Seed replaces the cart contents with a deep copy of the given items,
// keeping their existing ids. Used when a modification session borrows a
// booking's snapshot.
func (s *Store) Seed(items []models.LineItem) {
	s.mu.Lock()
	s.items = models.CloneItems(items)
	state, listeners := s.snapshotLocked()
	s.mu.Unlock()

	notify(listeners, state)
}

// Snapshot returns the current state with derived aggregates. The returned
// items are deep copies; mutating them never reaches the store.
func (s *Store) Snapshot() models.CartState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.DeriveCartState(models.CloneItems(s.items))
}

// Subscribe registers a listener and returns its unsubscribe function.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Store) snapshotLocked() (models.CartState, []Listener) {
	state := models.DeriveCartState(models.CloneItems(s.items))
	listeners := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	return state, listeners
}

// Listeners run outside the lock so they may read the store again.
func notify(listeners []Listener, state models.CartState) {
	for _, fn := range listeners {
		fn(state)
	}
}
