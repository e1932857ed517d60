package session

import (
	"context"
	"sync"
	"time"

	"github.com/Veraticus/penny-for-your-thoughts/internal/common"
	"github.com/Veraticus/penny-for-your-thoughts/internal/model"
)

// memoryEntry pairs a stored session with its expiry. A zero expiry means
// the entry never expires.
type memoryEntry struct {
	expiry  time.Time
	session model.ChatSession
}

// MemoryStore keeps sessions in a process-local map. Entries are lost on
// restart, which is an accepted degradation: the user simply restarts the
// dialogue. With a zero TTL entries live for the lifetime of the process.
type MemoryStore struct {
	now     func() time.Time
	entries map[string]memoryEntry
	ttl     time.Duration
	mu      sync.RWMutex
}

// NewMemoryStore creates an in-memory store. A ttl of zero disables expiry.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Load retrieves the session for userID, treating expired entries as absent.
func (s *MemoryStore) Load(_ context.Context, userID string) (*model.ChatSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[userID]
	if !ok {
		return nil, common.ErrNotFound
	}
	if !entry.expiry.IsZero() && s.now().After(entry.expiry) {
		return nil, common.ErrNotFound
	}

	// Return a copy to avoid external modifications.
	sessionCopy := entry.session
	return &sessionCopy, nil
}

// Save stores the session, resetting its expiry.
func (s *MemoryStore) Save(_ context.Context, userID string, sess *model.ChatSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := memoryEntry{session: *sess}
	if s.ttl > 0 {
		entry.expiry = s.now().Add(s.ttl)
	}
	s.entries[userID] = entry
	return nil
}

// Delete removes the session for userID. Deleting an absent session is not
// an error.
func (s *MemoryStore) Delete(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, userID)
	return nil
}
