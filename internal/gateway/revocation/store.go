// Package revocation keeps the deny-list of access tokens that were logged out
// before their natural expiry.
package revocation

import (
	"sync"
	"time"

	"github.com/aussiebroadwan/credgate/pkg/cryptox"
)

// entry is stored per revoked token. expiresAt is zero when the token's own
// expiry was not known at record time.
type entry struct {
	revokedAt time.Time
	expiresAt time.Time
}

// MemoryStore is a process-local, concurrency-safe deny-list. Tokens are
// indexed by their SHA-256 fingerprint so raw bearer tokens are never held.
// Nothing survives a restart.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]entry

	// Now is the clock used to stamp revokedAt.
	Now func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]entry),
		Now:     time.Now,
	}
}

// Record marks token as revoked. Recording the same token again is a no-op.
func (s *MemoryStore) Record(token string) {
	s.RecordUntil(token, time.Time{})
}

// RecordUntil marks token as revoked and remembers when the token would have
// expired anyway, which lets Sweep forget it later. A zero expiresAt means
// unknown. Re-recording keeps the first revocation time but learns an expiry
// it did not have before.
func (s *MemoryStore) RecordUntil(token string, expiresAt time.Time) {
	key := cryptox.FingerprintToken(token)

	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[key]; ok {
		if e.expiresAt.IsZero() && !expiresAt.IsZero() {
			e.expiresAt = expiresAt
			s.entries[key] = e
		}
		return
	}
	s.entries[key] = entry{revokedAt: s.Now(), expiresAt: expiresAt}
}

// IsRevoked reports whether token was recorded.
func (s *MemoryStore) IsRevoked(token string) bool {
	key := cryptox.FingerprintToken(token)

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.entries[key]
	return ok
}

// Clear drops every entry and returns how many were removed.
func (s *MemoryStore) Clear() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.entries)
	s.entries = make(map[string]entry)
	return n
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Sweep removes entries whose known expiry is at or before now. Such tokens
// would be rejected as expired by the codec anyway. Entries without a known
// expiry are kept.
func (s *MemoryStore) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, e := range s.entries {
		if e.expiresAt.IsZero() || e.expiresAt.After(now) {
			continue
		}
		delete(s.entries, key)
		removed++
	}
	return removed
}
