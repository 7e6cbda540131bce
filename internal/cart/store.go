package cart

import (
	"context"
	"sync"
)

// Store persists one cart per session key. Reloading a session must
// reproduce identical lines and therefore identical totals.
type Store interface {
	Get(ctx context.Context, sessionID string) (*Cart, error)
	Save(ctx context.Context, sessionID string, c *Cart) error
	Clear(ctx context.Context, sessionID string) error
}

// MemoryStore keeps carts in process memory. Used in tests and as a
// fallback when no Redis address is configured.
type MemoryStore struct {
	mu    sync.RWMutex
	carts map[string]*Cart
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[string]*Cart)}
}

// Get returns the stored cart for sessionID, or a fresh empty cart if
// the session has none yet.
func (s *MemoryStore) Get(ctx context.Context, sessionID string) (*Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored, ok := s.carts[sessionID]
	if !ok {
		return New(), nil
	}
	// Copy so callers never mutate the stored cart without Save.
	c := &Cart{Lines: make([]Line, len(stored.Lines))}
	copy(c.Lines, stored.Lines)
	return c, nil
}

// Save stores a copy of c under sessionID.
func (s *MemoryStore) Save(ctx context.Context, sessionID string, c *Cart) error {
	stored := &Cart{Lines: make([]Line, len(c.Lines))}
	copy(stored.Lines, c.Lines)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[sessionID] = stored
	return nil
}

// Clear removes the cart for sessionID. Clearing an absent session is a
// no-op.
func (s *MemoryStore) Clear(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
	return nil
}
