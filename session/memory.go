package session

import (
	"encoding/json"
	"fmt"
	"sync"
)

// MemoryStore keeps the slot in process memory. It serializes on Save and
// deserializes on Load like the durable stores do, so a record that would not
// survive persistence behaves identically here.
type MemoryStore struct {
	mu   sync.RWMutex
	data []byte
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty in-memory slot.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load() *Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return decodeRecord(s.data)
}

func (s *MemoryStore) Save(r *Record) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("serializing session record: %w", err)
	}
	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	s.data = nil
	s.mu.Unlock()
	return nil
}
