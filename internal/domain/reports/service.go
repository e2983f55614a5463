package reports

import (
	"context"
	"time"

	"sklad/internal/core/apperror"
	"sklad/internal/core/id"
)

// Report window bounds (days back from now).
const (
	DefaultWindowDays = 7
	MaxWindowDays     = 90
)

// DefaultDetailLimit bounds flat delivery listings.
const DefaultDetailLimit = 200

// Service provides delivery reporting.
type Service struct {
	repo Repository
}

// NewService creates a new report service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// WindowFromDays builds a [now-days, now) filter window.
// Days are clamped to [1, MaxWindowDays]; zero means the default.
func WindowFromDays(days int, now time.Time) (from, to time.Time) {
	if days <= 0 {
		days = DefaultWindowDays
	}
	if days > MaxWindowDays {
		days = MaxWindowDays
	}
	return now.AddDate(0, 0, -days), now
}

// Summary returns overall totals for the window.
func (s *Service) Summary(ctx context.Context, filter Filter) (Summary, error) {
	if err := validateWindow(filter); err != nil {
		return Summary{}, err
	}
	return s.repo.Summary(ctx, filter)
}

// DeliveriesByShop aggregates per shop, largest turnover first.
func (s *Service) DeliveriesByShop(ctx context.Context, filter Filter) ([]ShopGroupRow, error) {
	if err := validateWindow(filter); err != nil {
		return nil, err
	}
	return s.repo.DeliveriesByShop(ctx, filter)
}

// DeliveriesByPayKind aggregates per payment kind, largest turnover first.
func (s *Service) DeliveriesByPayKind(ctx context.Context, filter Filter) ([]PayKindRow, error) {
	if err := validateWindow(filter); err != nil {
		return nil, err
	}
	return s.repo.DeliveriesByPayKind(ctx, filter)
}

// DeliveryDetail returns flat delivery rows, newest first.
func (s *Service) DeliveryDetail(ctx context.Context, filter Filter, limit int) ([]DetailRow, error) {
	if err := validateWindow(filter); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultDetailLimit
	}
	return s.repo.DeliveryDetail(ctx, filter, limit)
}

// ProductBreakdownForShop aggregates one shop's deliveries per product.
// An unknown shop yields an empty result, not an error.
func (s *Service) ProductBreakdownForShop(ctx context.Context, shopID id.ID, filter Filter) ([]ProductRow, error) {
	if err := validateWindow(filter); err != nil {
		return nil, err
	}
	return s.repo.ProductBreakdownForShop(ctx, shopID, filter)
}

func validateWindow(filter Filter) error {
	if filter.FromDate != nil && filter.ToDate != nil && !filter.FromDate.Before(*filter.ToDate) {
		return apperror.NewValidation("from must be before to").
			WithDetail("from", filter.FromDate).
			WithDetail("to", filter.ToDate)
	}
	return nil
}
