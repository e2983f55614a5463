package delivery

import (
	"context"
	"fmt"
	"time"

	"sklad/internal/core/apperror"
	appctx "sklad/internal/core/context"
	"sklad/internal/core/id"
	"sklad/internal/core/tx"
	"sklad/internal/core/types"
	"sklad/internal/domain/catalogs/district"
	"sklad/internal/domain/catalogs/product"
	"sklad/internal/domain/catalogs/shop"
	"sklad/internal/domain/registers/shopledger"
	"sklad/internal/domain/registers/stock"
	"sklad/pkg/logger"
)

// CreateInput carries a parsed delivery request.
type CreateInput struct {
	DistrictID id.ID
	ShopID     id.ID
	ProductID  id.ID
	QtyKg      types.Quantity

	// UnitPrice overrides the catalog price only when the product has
	// no positive price_per_kg of its own.
	UnitPrice *types.Money

	PayKind PayKind
}

// StockRecorder appends issue entries to the stock ledger.
type StockRecorder interface {
	RecordOutbound(ctx context.Context, productID, shopID id.ID, qty types.Quantity, note string) (*stock.Movement, error)
}

// LedgerRecorder appends entries to the shop money ledger.
type LedgerRecorder interface {
	RecordSale(ctx context.Context, shopID id.ID, amount types.Money, note string) (*shopledger.Transaction, error)
	RecordPayment(ctx context.Context, shopID id.ID, amount types.Money, note string) (*shopledger.Transaction, error)
}

// BalanceReader derives the current stock balance of a product.
type BalanceReader interface {
	Balance(ctx context.Context, productID id.ID) (types.Quantity, error)
}

// Service posts delivery documents. Each posting runs in one database
// transaction holding a row lock on the product, so two concurrent
// deliveries of the same product cannot jointly overdraw the stock.
type Service struct {
	repo      Repository
	products  product.Repository
	shops     shop.Repository
	districts district.Repository
	balances  BalanceReader
	stock     StockRecorder
	ledger    LedgerRecorder
	txManager tx.Manager
}

// NewService creates a new delivery service.
func NewService(
	repo Repository,
	products product.Repository,
	shops shop.Repository,
	districts district.Repository,
	balances BalanceReader,
	stockRec StockRecorder,
	ledger LedgerRecorder,
	txManager tx.Manager,
) *Service {
	return &Service{
		repo:      repo,
		products:  products,
		shops:     shops,
		districts: districts,
		balances:  balances,
		stock:     stockRec,
		ledger:    ledger,
		txManager: txManager,
	}
}

// Create validates and posts a delivery atomically:
// the delivery row, a chiqim stock movement and one shop ledger entry
// are written together or not at all.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Delivery, error) {
	if !in.QtyKg.IsPositive() {
		return nil, apperror.NewValidation("quantity must be positive").
			WithDetail("qtyKg", in.QtyKg.String())
	}
	if !ValidPayKind(in.PayKind) {
		return nil, apperror.NewValidation("invalid payment kind").
			WithDetail("payKind", string(in.PayKind))
	}

	var result *Delivery

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.districts.GetByID(ctx, in.DistrictID); err != nil {
			return err
		}

		sh, err := s.shops.GetByID(ctx, in.ShopID)
		if err != nil {
			return err
		}
		if sh.DistrictID != in.DistrictID {
			return apperror.NewValidation("shop does not belong to the district").
				WithDetail("shopId", in.ShopID.String()).
				WithDetail("districtId", in.DistrictID.String())
		}

		// Row lock: serializes concurrent deliveries of this product.
		prod, err := s.products.GetForUpdate(ctx, in.ProductID)
		if err != nil {
			return err
		}

		available, err := s.balances.Balance(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if in.QtyKg > available {
			return apperror.NewInsufficientStock(
				in.ProductID.String(),
				in.QtyKg.String(),
				available.String(),
			)
		}

		unitPrice, err := resolveUnitPrice(prod, in.UnitPrice)
		if err != nil {
			return err
		}

		d := &Delivery{
			ID:         id.New(),
			DistrictID: in.DistrictID,
			ShopID:     in.ShopID,
			ProductID:  in.ProductID,
			QtyKg:      in.QtyKg,
			UnitPrice:  unitPrice,
			Total:      in.QtyKg.Decimal().Mul(unitPrice),
			PayKind:    in.PayKind,
			CreatedAt:  time.Now().UTC(),
		}
		if uid := appctx.GetUserID(ctx); uid != "" {
			if parsed, err := id.Parse(uid); err == nil {
				d.CreatedBy = &parsed
			}
		}
		if err := d.Validate(ctx); err != nil {
			return err
		}

		if err := s.repo.Insert(ctx, d); err != nil {
			return fmt.Errorf("insert delivery: %w", err)
		}

		note := fmt.Sprintf("delivery #%s (%s)", d.ID, d.PayKind)
		if _, err := s.stock.RecordOutbound(ctx, d.ProductID, d.ShopID, d.QtyKg, note); err != nil {
			return fmt.Errorf("record stock issue: %w", err)
		}

		// Cash and terminal settle immediately: money received.
		// Credit accrues debt on the shop ledger instead.
		if d.PayKind.IsImmediate() {
			if _, err := s.ledger.RecordPayment(ctx, d.ShopID, d.Total, note); err != nil {
				return fmt.Errorf("record payment: %w", err)
			}
		} else {
			if _, err := s.ledger.RecordSale(ctx, d.ShopID, d.Total, note); err != nil {
				return fmt.Errorf("record sale: %w", err)
			}
		}

		result = d
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "delivery posted",
		"delivery_id", result.ID,
		"shop_id", result.ShopID,
		"product_id", result.ProductID,
		"qty_kg", result.QtyKg.String(),
		"total", result.Total.String(),
		"pay_kind", result.PayKind,
	)
	return result, nil
}

// GetByID retrieves a delivery.
func (s *Service) GetByID(ctx context.Context, deliveryID id.ID) (*Delivery, error) {
	return s.repo.GetByID(ctx, deliveryID)
}

// List returns deliveries newest-first.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Delivery, error) {
	if filter.Limit <= 0 {
		filter.Limit = 200
	}
	return s.repo.List(ctx, filter)
}

// resolveUnitPrice picks the catalog price when it is set and positive,
// otherwise falls back to the per-delivery override.
func resolveUnitPrice(p *product.Product, override *types.Money) (types.Money, error) {
	if price, ok := p.EffectivePricePerKg(); ok {
		return price, nil
	}
	if override != nil && override.IsPositive() {
		return *override, nil
	}
	return types.Zero(), apperror.NewValidation("unit price must be positive").
		WithDetail("productId", p.ID.String()).
		WithDetail("hint", "product has no catalog price; pass unitPrice")
}
