package out

import (
	"context"
	"sync"

	profileout "prapp/internal/modules/profile/port/out"
)

type MemoryLocalStorage struct {
	mu    sync.Mutex
	items map[string][]byte
}

func NewMemoryLocalStorage() *MemoryLocalStorage {
	return &MemoryLocalStorage{items: map[string][]byte{}}
}

var _ profileout.LocalStorage = (*MemoryLocalStorage)(nil)

func (s *MemoryLocalStorage) GetItem(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.items[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (s *MemoryLocalStorage) SetItem(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = append([]byte(nil), value...)
	return nil
}
