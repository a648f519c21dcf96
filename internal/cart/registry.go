package cart

import "sync"

// Registry hands out one Store per browser session, creating on demand.
type Registry struct {
	mu     sync.RWMutex
	stores map[string]*Store
}

func NewRegistry() *Registry {
	return &Registry{stores: make(map[string]*Store)}
}

// Get returns the session's store, creating an empty one on first use.
func (r *Registry) Get(sessionID string) *Store {
	r.mu.RLock()
	store, ok := r.stores[sessionID]
	r.mu.RUnlock()
	if ok {
		return store
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if store, ok := r.stores[sessionID]; ok {
		return store
	}
	store = NewStore()
	r.stores[sessionID] = store
	return store
}

// Remove drops the session's store.
func (r *Registry) Remove(sessionID string) {
	r.mu.Lock()
	delete(r.stores, sessionID)
	r.mu.Unlock()
}
