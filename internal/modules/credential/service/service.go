package service

import (
	"context"
	"sync"

	"github.com/reshetovitsme/contentguard/internal/modules/credential/domain"
	"github.com/reshetovitsme/contentguard/internal/modules/credential/repository"
	platform "github.com/reshetovitsme/contentguard/internal/modules/platform/domain"
	"github.com/samber/oops"
)

// Service owns the credentials currently in effect
type Service struct {
	repo    repository.Repository
	mu      sync.RWMutex
	current domain.Credentials
}

// New creates a new credential service
func New(repo repository.Repository) *Service {
	return &Service{repo: repo}
}

// Start loads the persisted credentials once
func (s *Service) Start(ctx context.Context) error {
	creds, err := s.repo.Load(ctx)
	if err != nil {
		return oops.With("context", "failed to load credentials").Wrap(err)
	}

	s.mu.Lock()
	s.current = *creds
	s.mu.Unlock()
	return nil
}

// Current returns a copy of the credentials in effect
func (s *Service) Current() domain.Credentials {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// HasFor reports whether the current credentials allow publishing to p
func (s *Service) HasFor(p platform.Platform) bool {
	creds := s.Current()
	return creds.HasFor(p)
}

// Save persists creds and makes them current. On a failed write the previous set stays in effect.
func (s *Service) Save(ctx context.Context, creds domain.Credentials) error {
	if err := s.repo.Save(ctx, &creds); err != nil {
		return oops.With("context", "failed to save credentials").Wrap(err)
	}

	s.mu.Lock()
	s.current = creds
	s.mu.Unlock()
	return nil
}
