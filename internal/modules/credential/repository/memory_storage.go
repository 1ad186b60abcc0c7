package repository

import (
	"context"
	"sync"

	"github.com/reshetovitsme/contentguard/internal/modules/credential/domain"
)

// MemoryStorage keeps credentials in process memory
type MemoryStorage struct {
	mu    sync.RWMutex
	creds domain.Credentials
	saves int
}

// NewMemoryStorage creates an in-memory repository seeded with initial
func NewMemoryStorage(initial domain.Credentials) *MemoryStorage {
	return &MemoryStorage{creds: initial}
}

func (s *MemoryStorage) Load(ctx context.Context) (*domain.Credentials, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c := s.creds
	return &c, nil
}

func (s *MemoryStorage) Save(ctx context.Context, creds *domain.Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = *creds
	s.saves++
	return nil
}

// Saves reports how many times Save was called
func (s *MemoryStorage) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}
