package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/reshetovitsme/contentguard/internal/modules/publication/domain"
	"github.com/reshetovitsme/contentguard/internal/modules/publication/repository"
	"github.com/samber/oops"
)

// Service handles the publication journal
type Service struct {
	repo repository.Repository
	now  func() time.Time
}

// New creates a new publication service
func New(repo repository.Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// Record journals a publish attempt, filling its id and timestamp
func (s *Service) Record(publication *domain.Publication) error {
	if publication.ID == "" {
		publication.ID = uuid.NewString()
	}
	if publication.CreatedAt.IsZero() {
		publication.CreatedAt = s.now().UTC()
	}

	if err := s.repo.SavePublication(publication); err != nil {
		return oops.With("publication_id", publication.ID, "context", "failed to record publication").Wrap(err)
	}
	return nil
}

// Recent returns up to limit publications, newest first
func (s *Service) Recent(limit int) ([]*domain.Publication, error) {
	return s.repo.GetPublications(limit)
}
