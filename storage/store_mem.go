package storage

import (
	"sort"
	"sync"
)

// MemStore is an in-memory store, mainly for testing purposes.
type MemStore struct {
	mu      sync.Mutex
	entries map[string]string
}

func NewMemStore() *MemStore {
	return &MemStore{entries: make(map[string]string)}
}

func (s *MemStore) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.entries[key]
	return v, ok, nil
}

func (s *MemStore) Keys() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.entries))
	for key := range s.entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *MemStore) IsEmpty() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries) == 0, nil
}

func (s *MemStore) Edit() *Editor {
	return newEditor(s)
}

func (s *MemStore) apply(puts map[string]string, removes []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, value := range puts {
		s.entries[key] = value
	}
	for _, key := range removes {
		delete(s.entries, key)
	}
	return nil
}
