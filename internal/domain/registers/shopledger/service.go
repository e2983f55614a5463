package shopledger

import (
	"context"
	"strings"
	"time"

	"sklad/internal/core/apperror"
	"sklad/internal/core/id"
	"sklad/internal/core/types"
	"sklad/internal/domain/catalogs/shop"
	"sklad/pkg/logger"
)

// DefaultHistoryLimit bounds per-shop transaction listings.
const DefaultHistoryLimit = 200

// MaxHistoryLimit is the hard cap for history queries.
const MaxHistoryLimit = 500

// Service provides business operations for the shop ledger.
type Service struct {
	repo  Repository
	shops shop.Repository
}

// NewService creates a new shop ledger service.
func NewService(repo Repository, shops shop.Repository) *Service {
	return &Service{repo: repo, shops: shops}
}

// RecordSale appends a sale entry (shop debt grows).
func (s *Service) RecordSale(ctx context.Context, shopID id.ID, amount types.Money, note string) (*Transaction, error) {
	return s.record(ctx, shopID, KindSale, amount, note)
}

// RecordPayment appends a payment entry (shop debt shrinks).
func (s *Service) RecordPayment(ctx context.Context, shopID id.ID, amount types.Money, note string) (*Transaction, error) {
	return s.record(ctx, shopID, KindPayment, amount, note)
}

func (s *Service) record(ctx context.Context, shopID id.ID, kind Kind, amount types.Money, note string) (*Transaction, error) {
	if !amount.IsPositive() {
		return nil, apperror.NewValidation("amount must be positive").
			WithDetail("amount", amount.String())
	}

	if _, err := s.shops.GetByID(ctx, shopID); err != nil {
		return nil, err
	}

	t := &Transaction{
		ID:        id.New(),
		ShopID:    shopID,
		Kind:      kind,
		Amount:    amount,
		Note:      optionalNote(note),
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Insert(ctx, t); err != nil {
		return nil, err
	}

	logger.Info(ctx, "shop transaction recorded",
		"transaction_id", t.ID,
		"shop_id", shopID,
		"kind", kind,
		"amount", amount.String(),
	)
	return t, nil
}

// BalanceOf returns payments minus sales for a shop.
func (s *Service) BalanceOf(ctx context.Context, shopID id.ID) (types.Money, error) {
	if _, err := s.shops.GetByID(ctx, shopID); err != nil {
		return types.Zero(), err
	}
	return s.repo.Balance(ctx, shopID)
}

// Balances returns per-shop balances, optionally for one district.
func (s *Service) Balances(ctx context.Context, districtID *id.ID) ([]ShopBalance, error) {
	return s.repo.Balances(ctx, districtID)
}

// History returns the latest transactions for a shop.
func (s *Service) History(ctx context.Context, shopID id.ID, limit int) ([]Transaction, error) {
	if _, err := s.shops.GetByID(ctx, shopID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}
	return s.repo.History(ctx, shopID, limit)
}

func optionalNote(note string) *string {
	note = strings.TrimSpace(note)
	if note == "" {
		return nil
	}
	return &note
}
