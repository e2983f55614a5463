package product

import (
	"context"
	"strings"

	"sklad/internal/core/apperror"
	"sklad/internal/core/id"
	"sklad/internal/core/types"
	"sklad/pkg/logger"
)

// CreateInput carries raw product fields. Prices arrive as strings so
// comma decimal separators survive until parsing.
type CreateInput struct {
	Name            string
	Kind            string
	Brand           string
	PricePerKg      string
	InPricePerPack  string
	OutPricePerPack string
}

// Service provides business logic for the Product catalog.
type Service struct {
	repo Repository
}

// NewService creates a new Product service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create adds a new product.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Product, error) {
	p := NewProduct(in.Name)

	if kind := strings.TrimSpace(in.Kind); kind != "" {
		p.Kind = &kind
	}
	if brand := strings.TrimSpace(in.Brand); brand != "" {
		p.Brand = &brand
	}

	var err error
	if p.PricePerKg, err = parseOptionalPrice(in.PricePerKg, "pricePerKg"); err != nil {
		return nil, err
	}
	if p.InPricePerPack, err = parseOptionalPrice(in.InPricePerPack, "inPricePerPack"); err != nil {
		return nil, err
	}
	if p.OutPricePerPack, err = parseOptionalPrice(in.OutPricePerPack, "outPricePerPack"); err != nil {
		return nil, err
	}

	if err := p.Validate(ctx); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	logger.Info(ctx, "product created", "id", p.ID, "name", p.Name)
	return p, nil
}

// GetByID retrieves a product.
func (s *Service) GetByID(ctx context.Context, productID id.ID) (*Product, error) {
	return s.repo.GetByID(ctx, productID)
}

// List returns products ordered by name.
func (s *Service) List(ctx context.Context, onlyActive bool) ([]*Product, error) {
	return s.repo.List(ctx, onlyActive)
}

// UpdatePrice sets or clears the per-kg price. An empty string clears it.
func (s *Service) UpdatePrice(ctx context.Context, productID id.ID, raw string) (*Product, error) {
	if _, err := s.repo.GetByID(ctx, productID); err != nil {
		return nil, err
	}

	price, err := parseOptionalPrice(raw, "pricePerKg")
	if err != nil {
		return nil, err
	}
	if price != nil && price.IsNegative() {
		return nil, apperror.NewValidation("price must not be negative").
			WithDetail("field", "pricePerKg")
	}

	if err := s.repo.UpdatePrice(ctx, productID, price); err != nil {
		return nil, err
	}

	logger.Info(ctx, "product price updated", "id", productID)
	return s.repo.GetByID(ctx, productID)
}

// SetActive toggles product visibility for dealers.
func (s *Service) SetActive(ctx context.Context, productID id.ID, active bool) (*Product, error) {
	if _, err := s.repo.GetByID(ctx, productID); err != nil {
		return nil, err
	}

	if err := s.repo.SetActive(ctx, productID, active); err != nil {
		return nil, err
	}

	logger.Info(ctx, "product active flag updated", "id", productID, "active", active)
	return s.repo.GetByID(ctx, productID)
}

// Delete removes a product permanently. Products referenced by stock
// movements or deliveries are protected and return ENTITY_IN_USE.
func (s *Service) Delete(ctx context.Context, productID id.ID) error {
	if _, err := s.repo.GetByID(ctx, productID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, productID); err != nil {
		return err
	}

	logger.Info(ctx, "product deleted", "id", productID)
	return nil
}

func parseOptionalPrice(raw, field string) (*types.Money, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	m, err := types.ParseMoney(raw)
	if err != nil {
		return nil, apperror.NewValidation("invalid price").
			WithDetail("field", field).
			WithDetail("value", raw)
	}
	return &m, nil
}
