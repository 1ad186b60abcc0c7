package service

import (
	"github.com/reshetovitsme/contentguard/internal/modules/platform/domain"
	"github.com/reshetovitsme/contentguard/internal/shared/errors"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// Service exposes the fixed set of platform descriptors
type Service struct {
	descriptors []domain.Descriptor
}

// New creates a platform service over the built-in descriptors
func New() *Service {
	return &Service{descriptors: domain.Descriptors()}
}

// All returns every supported platform in display order
func (s *Service) All() []domain.Descriptor {
	return append([]domain.Descriptor(nil), s.descriptors...)
}

// Default is the platform selected for a fresh session
func (s *Service) Default() domain.Descriptor {
	return s.descriptors[0]
}

// Lookup finds the descriptor for id
func (s *Service) Lookup(id domain.Platform) (domain.Descriptor, error) {
	d, ok := lo.Find(s.descriptors, func(d domain.Descriptor) bool {
		return d.ID == id
	})
	if !ok {
		return domain.Descriptor{}, oops.With("platform", string(id)).Wrap(errors.ErrUnknownPlatform)
	}
	return d, nil
}

// Parse resolves a user-supplied platform name
func (s *Service) Parse(name string) (domain.Descriptor, error) {
	id, err := domain.ParsePlatform(name)
	if err != nil {
		return domain.Descriptor{}, oops.With("platform", name).Wrap(errors.ErrUnknownPlatform)
	}
	return s.Lookup(id)
}
