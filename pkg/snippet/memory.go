package snippet

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store, used for tests and for running
// the playground without persistence.
type MemoryStore struct {
	mu       sync.RWMutex
	snippets map[string]*Snippet
	now      func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		snippets: make(map[string]*Snippet),
		now:      time.Now,
	}
}

// Create stores a snippet and returns it with ID and CreatedAt set.
func (m *MemoryStore) Create(ctx context.Context, s *Snippet) (*Snippet, error) {
	stored := *s
	stored.ID = uuid.NewString()
	stored.CreatedAt = m.now().UTC()
	stored.TokenBlocks = append([]string(nil), s.TokenBlocks...)

	m.mu.Lock()
	m.snippets[stored.ID] = &stored
	m.mu.Unlock()

	out := stored
	return &out, nil
}

// Get retrieves a snippet by ID.
func (m *MemoryStore) Get(ctx context.Context, id string) (*Snippet, error) {
	m.mu.RLock()
	s, ok := m.snippets[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	out := *s
	out.TokenBlocks = append([]string(nil), s.TokenBlocks...)
	return &out, nil
}

// Prune deletes snippets created before the cutoff.
func (m *MemoryStore) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var deleted int64
	for id, s := range m.snippets {
		if s.CreatedAt.Before(cutoff) {
			delete(m.snippets, id)
			deleted++
		}
	}
	return deleted, nil
}

// Close releases store resources.
func (m *MemoryStore) Close() error { return nil }
