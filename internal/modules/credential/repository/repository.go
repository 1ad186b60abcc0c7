package repository

import (
	"context"

	"github.com/reshetovitsme/contentguard/internal/modules/credential/domain"
)

// Repository is the read/write port for persisted platform credentials.
// The whole set is stored as one blob and overwritten on every save.
type Repository interface {
	// Load returns the stored credentials, or empty credentials when nothing was saved yet.
	Load(ctx context.Context) (*domain.Credentials, error)

	// Save replaces the stored credentials.
	Save(ctx context.Context, creds *domain.Credentials) error
}
