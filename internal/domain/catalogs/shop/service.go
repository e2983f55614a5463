package shop

import (
	"context"

	"sklad/internal/core/id"
	"sklad/internal/domain/catalogs/district"
	"sklad/pkg/logger"
)

// Page size bounds for shop listings.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Service provides business logic for the Shop catalog.
type Service struct {
	repo      Repository
	districts district.Repository
}

// NewService creates a new Shop service.
func NewService(repo Repository, districts district.Repository) *Service {
	return &Service{repo: repo, districts: districts}
}

// Create adds a new shop to an existing district.
func (s *Service) Create(ctx context.Context, name string, districtID id.ID) (*Shop, error) {
	sh := NewShop(name, districtID)
	if err := sh.Validate(ctx); err != nil {
		return nil, err
	}

	if _, err := s.districts.GetByID(ctx, districtID); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, sh); err != nil {
		return nil, err
	}

	logger.Info(ctx, "shop created", "id", sh.ID, "name", sh.Name, "district_id", districtID)
	return sh, nil
}

// GetByID retrieves a shop.
func (s *Service) GetByID(ctx context.Context, shopID id.ID) (*Shop, error) {
	return s.repo.GetByID(ctx, shopID)
}

// ListByDistrict returns shops of a district ordered by name.
func (s *Service) ListByDistrict(ctx context.Context, districtID id.ID) ([]*Shop, error) {
	if _, err := s.districts.GetByID(ctx, districtID); err != nil {
		return nil, err
	}
	return s.repo.ListByDistrict(ctx, districtID)
}

// ListPage returns a paginated shop listing. Page and size are 1-based
// user input and get clamped to safe bounds.
func (s *Service) ListPage(ctx context.Context, page, size int, districtID *id.ID, search string) (ListResult, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}

	return s.repo.List(ctx, ListFilter{
		DistrictID: districtID,
		Search:     search,
		Limit:      size,
		Offset:     (page - 1) * size,
	})
}

// Delete removes a shop. Fails with ENTITY_IN_USE when deliveries or
// ledger rows reference it.
func (s *Service) Delete(ctx context.Context, shopID id.ID) error {
	if _, err := s.repo.GetByID(ctx, shopID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, shopID); err != nil {
		return err
	}

	logger.Info(ctx, "shop deleted", "id", shopID)
	return nil
}
