// Package contacts stores contact form submissions received by the API.
package contacts

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Contact is one stored submission. Data is the form payload as received.
type Contact struct {
	ID         string         `json:"id" bson:"_id"`
	ReceivedAt time.Time      `json:"received_at" bson:"received_at"`
	Data       map[string]any `json:"data" bson:"data"`
}

// New creates a contact with a fresh id.
func New(data map[string]any, now time.Time) Contact {
	return Contact{
		ID:         uuid.NewString(),
		ReceivedAt: now.UTC(),
		Data:       data,
	}
}

// Store persists contacts.
type Store interface {
	Save(ctx context.Context, c Contact) error
	// List returns up to limit contacts, newest first. limit <= 0 means all.
	List(ctx context.Context, limit int) ([]Contact, error)
	Close(ctx context.Context) error
}

// MemoryStore keeps contacts in process memory.
type MemoryStore struct {
	mu       sync.RWMutex
	contacts []Contact
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Save appends c.
func (s *MemoryStore) Save(ctx context.Context, c Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contacts = append(s.contacts, c)
	return nil
}

// List returns stored contacts newest first.
func (s *MemoryStore) List(ctx context.Context, limit int) ([]Contact, error) {
	s.mu.RLock()
	out := slices.Clone(s.contacts)
	s.mu.RUnlock()

	slices.Reverse(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Close does nothing.
func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}

var _ Store = (*MemoryStore)(nil)
