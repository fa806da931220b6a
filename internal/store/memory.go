package store

import (
	"context"
	"sync"
)

// MemoryStore keeps properties in process memory
type MemoryStore struct {
	values sync.Map
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := s.values.Load(key)
	if !ok {
		return "", false, nil
	}
	return v.(string), true, nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.values.Store(key, value)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.values.Delete(key)
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
