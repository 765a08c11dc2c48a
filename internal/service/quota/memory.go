package quota

import (
	"context"
	"sync"

	"github.com/octobees/contact-resolver/internal/entity"
)

// MemoryStore keeps counters in memory. It backs tests and single-process
// runs that do not need counters to survive a restart.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]entity.QuotaRecord
}

// NewMemoryStore builds an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]entity.QuotaRecord)}
}

// Get returns the stored counter for the service, if any.
func (s *MemoryStore) Get(_ context.Context, service string) (entity.QuotaRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[service]
	return record, ok, nil
}

// Put stores the counter, replacing any previous record for the service.
func (s *MemoryStore) Put(_ context.Context, record entity.QuotaRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.Service] = record
	return nil
}

var _ Store = (*MemoryStore)(nil)
