package district

import (
	"context"

	"sklad/internal/core/apperror"
	"sklad/internal/core/id"
	"sklad/pkg/logger"
)

// Service provides business logic for the District catalog.
type Service struct {
	repo Repository
}

// NewService creates a new District service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create adds a new district with a unique, trimmed name.
func (s *Service) Create(ctx context.Context, name string) (*District, error) {
	d := NewDistrict(name)
	if err := d.Validate(ctx); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByName(ctx, d.Name)
	if err != nil && !apperror.IsNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewDuplicate("district", "name", d.Name)
	}

	if err := s.repo.Create(ctx, d); err != nil {
		return nil, err
	}

	logger.Info(ctx, "district created", "id", d.ID, "name", d.Name)
	return d, nil
}

// GetByID retrieves a district.
func (s *Service) GetByID(ctx context.Context, districtID id.ID) (*District, error) {
	return s.repo.GetByID(ctx, districtID)
}

// List returns all districts ordered by name.
func (s *Service) List(ctx context.Context) ([]*District, error) {
	return s.repo.List(ctx)
}

// Delete removes a district together with its shops.
func (s *Service) Delete(ctx context.Context, districtID id.ID) error {
	if _, err := s.repo.GetByID(ctx, districtID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, districtID); err != nil {
		return err
	}

	logger.Info(ctx, "district deleted", "id", districtID)
	return nil
}
