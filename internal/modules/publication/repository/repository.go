package repository

import (
	"github.com/reshetovitsme/contentguard/internal/modules/publication/domain"
)

// Repository defines the interface for the publication journal
type Repository interface {
	SavePublication(publication *domain.Publication) error
	GetPublications(limit int) ([]*domain.Publication, error)
}
