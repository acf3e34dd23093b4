package handoff

import (
	"sync"

	"github.com/sellbridge-labs/sellbridge-cli/internal/core/domain"
	"github.com/sellbridge-labs/sellbridge-cli/internal/core/ports/driven"
	"github.com/sellbridge-labs/sellbridge-cli/internal/logger"
)

// Ensure MemoryStore implements the interface.
var _ driven.HandoffStore = (*MemoryStore)(nil)

// MemoryStore is a thread-safe, in-memory handoff store. One writer (the
// callback endpoint) puts a record; one reader (the broker session) takes
// it. TakeIfPresent removes the record atomically so a record can resolve
// at most one session.
type MemoryStore struct {
	mu      sync.Mutex
	records map[domain.CorrelationToken]domain.HandoffRecord
}

// NewMemoryStore creates an empty handoff store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[domain.CorrelationToken]domain.HandoffRecord)}
}

// Put stores a record under its correlation token, replacing any record
// already present for that token.
func (s *MemoryStore) Put(record domain.HandoffRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.Token] = record
	logger.Debug("handoff: stored record for %s", record.Token)
}

// TakeIfPresent atomically removes and returns the record for a token.
// The second return is false when no record exists, which is the normal
// case for most poll ticks.
func (s *MemoryStore) TakeIfPresent(token domain.CorrelationToken) (*domain.HandoffRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[token]
	if !ok {
		return nil, false
	}
	delete(s.records, token)
	return &record, true
}

// Delete removes any record for a token. A no-op when none exists.
func (s *MemoryStore) Delete(token domain.CorrelationToken) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, token)
}
