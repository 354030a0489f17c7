package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// ErrNotFound is returned by Storage.Get when no record exists under the key.
// Malformed stored records are discarded and reported the same way, so
// corrupt state never reaches the questionnaire model.
var ErrNotFound = errors.New("storage: record not found")

// Storage is a JSON key-value record store. The draft store uses two
// instances: a durable one for the draft and recency cache and a volatile
// one for seed parameters.
type Storage interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
}

// MemoryStorage is an in-process Storage. It backs the volatile seed
// parameter record in production and doubles as the durable store when no
// Redis is configured (single-process mode) and in tests.
type MemoryStorage struct {
	mu      sync.RWMutex
	records map[string][]byte
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{records: make(map[string][]byte)}
}

func (s *MemoryStorage) Get(_ context.Context, key string, dest any) error {
	s.mu.RLock()
	raw, ok := s.records[key]
	s.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		s.mu.Lock()
		delete(s.records, key)
		s.mu.Unlock()
		return ErrNotFound
	}
	return nil
}

func (s *MemoryStorage) Set(_ context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal record %q: %w", key, err)
	}
	s.mu.Lock()
	s.records[key] = raw
	s.mu.Unlock()
	return nil
}

func (s *MemoryStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.records, key)
	s.mu.Unlock()
	return nil
}

// SetRaw stores bytes without marshalling. Test hook for exercising the
// malformed-record policy.
func (s *MemoryStorage) SetRaw(key string, raw []byte) {
	s.mu.Lock()
	s.records[key] = append([]byte(nil), raw...)
	s.mu.Unlock()
}
