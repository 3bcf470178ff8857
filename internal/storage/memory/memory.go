// Package memory is the in-process catalog store, used in tests and for dry
// runs of the ingestor.
package memory

import (
	"context"
	"sync"

	"bitbucket.org/olympichub/supplier-hub/internal/schema"
)

type Store struct {
	mu      sync.RWMutex
	records map[string]schema.HotelRecord
}

func New() *Store {
	return &Store{
		records: map[string]schema.HotelRecord{},
	}
}

func (s *Store) UpsertHotels(_ context.Context, records []schema.HotelRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, record := range records {
		s.records[record.ID] = record
	}

	return nil
}

func (s *Store) Hotel(_ context.Context, id string) (schema.HotelRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[id]
	return record, ok, nil
}

// Len reports the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.records)
}

// IDs returns the stored record ids in no particular order.
func (s *Store) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}

	return ids
}
