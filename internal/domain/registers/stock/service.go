package stock

import (
	"context"
	"strings"
	"time"

	"sklad/internal/core/apperror"
	"sklad/internal/core/id"
	"sklad/internal/core/types"
	"sklad/internal/domain/catalogs/product"
	"sklad/internal/domain/catalogs/shop"
	"sklad/pkg/logger"
)

// Service provides business operations for the stock ledger.
// Transactions are managed by the caller; every method is safe to run
// both inside and outside one.
type Service struct {
	repo     Repository
	products product.Repository
	shops    shop.Repository
}

// NewService creates a new stock ledger service.
func NewService(repo Repository, products product.Repository, shops shop.Repository) *Service {
	return &Service{
		repo:     repo,
		products: products,
		shops:    shops,
	}
}

// RecordInbound appends a kirim entry for a product.
func (s *Service) RecordInbound(ctx context.Context, productID id.ID, qty types.Quantity, note string) (*Movement, error) {
	if !qty.IsPositive() {
		return nil, apperror.NewValidation("quantity must be positive").
			WithDetail("qtyKg", qty.String())
	}

	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, err
	}

	m := &Movement{
		ID:        id.New(),
		ProductID: productID,
		Kind:      KindKirim,
		QtyKg:     qty,
		Note:      optionalNote(note),
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Insert(ctx, m); err != nil {
		return nil, err
	}

	logger.Info(ctx, "stock inbound recorded",
		"movement_id", m.ID,
		"product_id", productID,
		"qty_kg", qty.String(),
	)
	return m, nil
}

// RecordOutbound appends a chiqim entry tagged with the destination shop.
// The stock balance is NOT checked here; delivery posting performs the
// check under a product row lock before calling this.
func (s *Service) RecordOutbound(ctx context.Context, productID, shopID id.ID, qty types.Quantity, note string) (*Movement, error) {
	if !qty.IsPositive() {
		return nil, apperror.NewValidation("quantity must be positive").
			WithDetail("qtyKg", qty.String())
	}
	if id.IsNil(shopID) {
		return nil, apperror.NewValidation("destination shop is required").
			WithDetail("field", "shopId")
	}

	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, err
	}
	if _, err := s.shops.GetByID(ctx, shopID); err != nil {
		return nil, err
	}

	m := &Movement{
		ID:        id.New(),
		ProductID: productID,
		Kind:      KindChiqim,
		QtyKg:     qty,
		ShopID:    &shopID,
		Note:      optionalNote(note),
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Insert(ctx, m); err != nil {
		return nil, err
	}

	logger.Info(ctx, "stock outbound recorded",
		"movement_id", m.ID,
		"product_id", productID,
		"shop_id", shopID,
		"qty_kg", qty.String(),
	)
	return m, nil
}

// BalanceOf returns the derived balance for a product.
func (s *Service) BalanceOf(ctx context.Context, productID id.ID) (types.Quantity, error) {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return 0, err
	}
	return s.repo.Balance(ctx, productID)
}

// Balances returns every active product with its derived balance.
func (s *Service) Balances(ctx context.Context) ([]ProductBalance, error) {
	return s.repo.Balances(ctx)
}

// History returns movements for a product, newest first.
func (s *Service) History(ctx context.Context, productID id.ID, filter MovementFilter) ([]Movement, error) {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, err
	}
	return s.repo.History(ctx, productID, filter)
}

func optionalNote(note string) *string {
	note = strings.TrimSpace(note)
	if note == "" {
		return nil
	}
	return &note
}
