package store

import (
	"context"
	"sync"
)

// Memory keeps snapshots in process memory. Used by tests and by
// `sitterbot server --memory` for running without Postgres; nothing
// survives a restart.
type Memory struct {
	mu          sync.Mutex
	collections map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{collections: make(map[string][]byte)}
}

func (s *Memory) Load(_ context.Context, collection string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.collections[collection]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (s *Memory) Save(_ context.Context, collection string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	s.collections[collection] = cp
	return nil
}
