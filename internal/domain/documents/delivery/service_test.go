package delivery

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sklad/internal/core/apperror"
	appctx "sklad/internal/core/context"
	"sklad/internal/core/id"
	"sklad/internal/core/types"
	"sklad/internal/domain/catalogs/district"
	"sklad/internal/domain/catalogs/product"
	"sklad/internal/domain/catalogs/shop"
	"sklad/internal/domain/registers/shopledger"
	"sklad/internal/domain/registers/stock"
)

type memRepo struct {
	deliveries []*Delivery
	lastFilter ListFilter
}

func (r *memRepo) Insert(ctx context.Context, d *Delivery) error {
	r.deliveries = append(r.deliveries, d)
	return nil
}

func (r *memRepo) GetByID(ctx context.Context, deliveryID id.ID) (*Delivery, error) {
	for _, d := range r.deliveries {
		if d.ID == deliveryID {
			return d, nil
		}
	}
	return nil, apperror.NewNotFound("delivery", deliveryID)
}

func (r *memRepo) List(ctx context.Context, filter ListFilter) ([]*Delivery, error) {
	r.lastFilter = filter
	return r.deliveries, nil
}

type stubProducts struct {
	known map[id.ID]*product.Product
}

func (s *stubProducts) GetByID(ctx context.Context, productID id.ID) (*product.Product, error) {
	if p, ok := s.known[productID]; ok {
		return p, nil
	}
	return nil, apperror.NewNotFound("product", productID)
}

func (s *stubProducts) GetForUpdate(ctx context.Context, productID id.ID) (*product.Product, error) {
	return s.GetByID(ctx, productID)
}

func (s *stubProducts) Create(ctx context.Context, p *product.Product) error { return nil }
func (s *stubProducts) List(ctx context.Context, onlyActive bool) ([]*product.Product, error) {
	return nil, nil
}
func (s *stubProducts) UpdatePrice(ctx context.Context, productID id.ID, price *types.Money) error {
	return nil
}
func (s *stubProducts) SetActive(ctx context.Context, productID id.ID, active bool) error {
	return nil
}
func (s *stubProducts) Delete(ctx context.Context, productID id.ID) error { return nil }

type stubShops struct {
	known map[id.ID]*shop.Shop
}

func (s *stubShops) GetByID(ctx context.Context, shopID id.ID) (*shop.Shop, error) {
	if sh, ok := s.known[shopID]; ok {
		return sh, nil
	}
	return nil, apperror.NewNotFound("shop", shopID)
}

func (s *stubShops) Create(ctx context.Context, sh *shop.Shop) error { return nil }
func (s *stubShops) ListByDistrict(ctx context.Context, districtID id.ID) ([]*shop.Shop, error) {
	return nil, nil
}
func (s *stubShops) List(ctx context.Context, filter shop.ListFilter) (shop.ListResult, error) {
	return shop.ListResult{}, nil
}
func (s *stubShops) Delete(ctx context.Context, shopID id.ID) error { return nil }

type stubDistricts struct {
	known map[id.ID]*district.District
}

func (s *stubDistricts) GetByID(ctx context.Context, districtID id.ID) (*district.District, error) {
	if d, ok := s.known[districtID]; ok {
		return d, nil
	}
	return nil, apperror.NewNotFound("district", districtID)
}

func (s *stubDistricts) Create(ctx context.Context, d *district.District) error { return nil }
func (s *stubDistricts) GetByName(ctx context.Context, name string) (*district.District, error) {
	return nil, apperror.NewNotFound("district", name)
}
func (s *stubDistricts) List(ctx context.Context) ([]*district.District, error) { return nil, nil }
func (s *stubDistricts) Delete(ctx context.Context, districtID id.ID) error     { return nil }

// stockSpy records issue calls and reports a fixed available balance.
type stockSpy struct {
	available types.Quantity
	issued    []types.Quantity
	fail      error
}

func (s *stockSpy) Balance(ctx context.Context, productID id.ID) (types.Quantity, error) {
	return s.available, nil
}

func (s *stockSpy) RecordOutbound(ctx context.Context, productID, shopID id.ID, qty types.Quantity, note string) (*stock.Movement, error) {
	if s.fail != nil {
		return nil, s.fail
	}
	s.issued = append(s.issued, qty)
	return &stock.Movement{ID: id.New(), ProductID: productID, Kind: stock.KindChiqim, QtyKg: qty, ShopID: &shopID}, nil
}

// ledgerSpy records sale and payment calls.
type ledgerSpy struct {
	sales    []types.Money
	payments []types.Money
	fail     error
}

func (s *ledgerSpy) RecordSale(ctx context.Context, shopID id.ID, amount types.Money, note string) (*shopledger.Transaction, error) {
	if s.fail != nil {
		return nil, s.fail
	}
	s.sales = append(s.sales, amount)
	return &shopledger.Transaction{ID: id.New(), ShopID: shopID, Kind: shopledger.KindSale, Amount: amount}, nil
}

func (s *ledgerSpy) RecordPayment(ctx context.Context, shopID id.ID, amount types.Money, note string) (*shopledger.Transaction, error) {
	if s.fail != nil {
		return nil, s.fail
	}
	s.payments = append(s.payments, amount)
	return &shopledger.Transaction{ID: id.New(), ShopID: shopID, Kind: shopledger.KindPayment, Amount: amount}, nil
}

// txSpy emulates transactional semantics: when fn fails, everything the
// spies collected inside the transaction is discarded.
type txSpy struct {
	repo       *memRepo
	stock      *stockSpy
	ledger     *ledgerSpy
	rolledBack bool
}

func (m *txSpy) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	deliveries := len(m.repo.deliveries)
	issued := len(m.stock.issued)
	sales := len(m.ledger.sales)
	payments := len(m.ledger.payments)

	if err := fn(ctx); err != nil {
		m.repo.deliveries = m.repo.deliveries[:deliveries]
		m.stock.issued = m.stock.issued[:issued]
		m.ledger.sales = m.ledger.sales[:sales]
		m.ledger.payments = m.ledger.payments[:payments]
		m.rolledBack = true
		return err
	}
	return nil
}

type fixture struct {
	svc      *Service
	repo     *memRepo
	stock    *stockSpy
	ledger   *ledgerSpy
	tx       *txSpy
	district *district.District
	shop     *shop.Shop
	product  *product.Product
}

func newFixture(t *testing.T, available string) *fixture {
	t.Helper()

	d := district.NewDistrict("Chilonzor")
	sh := shop.NewShop("Do'kon 1", d.ID)
	p := product.NewProduct("Un oliy")
	price := types.MustMoney("15000")
	p.PricePerKg = &price

	repo := &memRepo{}
	stockSpy := &stockSpy{available: mustQty(t, available)}
	ledgerSpy := &ledgerSpy{}
	tx := &txSpy{repo: repo, stock: stockSpy, ledger: ledgerSpy}

	svc := NewService(
		repo,
		&stubProducts{known: map[id.ID]*product.Product{p.ID: p}},
		&stubShops{known: map[id.ID]*shop.Shop{sh.ID: sh}},
		&stubDistricts{known: map[id.ID]*district.District{d.ID: d}},
		stockSpy,
		stockSpy,
		ledgerSpy,
		tx,
	)

	return &fixture{svc: svc, repo: repo, stock: stockSpy, ledger: ledgerSpy, tx: tx, district: d, shop: sh, product: p}
}

func (f *fixture) input(t *testing.T, qty string, kind PayKind) CreateInput {
	t.Helper()
	return CreateInput{
		DistrictID: f.district.ID,
		ShopID:     f.shop.ID,
		ProductID:  f.product.ID,
		QtyKg:      mustQty(t, qty),
		PayKind:    kind,
	}
}

func mustQty(t *testing.T, s string) types.Quantity {
	t.Helper()
	q, err := types.ParseQuantity(s)
	require.NoError(t, err)
	return q
}

func TestCreate_CreditDelivery(t *testing.T) {
	f := newFixture(t, "200")
	ctx := context.Background()

	d, err := f.svc.Create(ctx, f.input(t, "12.5", PayQarz))
	require.NoError(t, err)

	// 12.5 kg at 15000 per kg.
	assert.True(t, d.Total.Equal(types.MustMoney("187500")), "got %s", d.Total)
	assert.True(t, d.UnitPrice.Equal(types.MustMoney("15000")))

	// Credit accrues debt: one sale, no payment.
	require.Len(t, f.ledger.sales, 1)
	assert.True(t, f.ledger.sales[0].Equal(types.MustMoney("187500")))
	assert.Empty(t, f.ledger.payments)

	require.Len(t, f.stock.issued, 1)
	assert.Equal(t, mustQty(t, "12.5"), f.stock.issued[0])
	assert.Len(t, f.repo.deliveries, 1)
}

func TestCreate_ImmediatePaymentKinds(t *testing.T) {
	for _, kind := range []PayKind{PayNaqd, PayTerminal} {
		t.Run(string(kind), func(t *testing.T) {
			f := newFixture(t, "200")

			d, err := f.svc.Create(context.Background(), f.input(t, "10", kind))
			require.NoError(t, err)

			// Money received on the spot: one payment, no sale.
			require.Len(t, f.ledger.payments, 1)
			assert.True(t, f.ledger.payments[0].Equal(d.Total))
			assert.Empty(t, f.ledger.sales)
		})
	}
}

func TestCreate_InsufficientStock(t *testing.T) {
	f := newFixture(t, "100")
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.input(t, "100.1", PayQarz))
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	appErr, _ := apperror.AsAppError(err)
	assert.Equal(t, "100.1000", appErr.Details["requested"])
	assert.Equal(t, "100.0000", appErr.Details["available"])

	// Nothing was written.
	assert.Empty(t, f.repo.deliveries)
	assert.Empty(t, f.stock.issued)
	assert.True(t, f.tx.rolledBack)
}

func TestCreate_ExactBalanceIsDeliverable(t *testing.T) {
	f := newFixture(t, "100")

	// Sub-grid noise in the request collapses onto the 1e-4 grid, so
	// this equals the available balance exactly.
	_, err := f.svc.Create(context.Background(), f.input(t, "100.00000000005", PayNaqd))
	require.NoError(t, err)
	assert.Len(t, f.repo.deliveries, 1)
}

func TestCreate_AtomicRollbackOnLedgerFailure(t *testing.T) {
	f := newFixture(t, "200")
	f.ledger.fail = errors.New("ledger down")

	_, err := f.svc.Create(context.Background(), f.input(t, "10", PayQarz))
	require.Error(t, err)

	// The delivery row and the stock issue die with the transaction.
	assert.True(t, f.tx.rolledBack)
	assert.Empty(t, f.repo.deliveries)
	assert.Empty(t, f.stock.issued)
	assert.Empty(t, f.ledger.sales)
}

func TestCreate_AtomicRollbackOnStockFailure(t *testing.T) {
	f := newFixture(t, "200")
	f.stock.fail = errors.New("stock down")

	_, err := f.svc.Create(context.Background(), f.input(t, "10", PayNaqd))
	require.Error(t, err)

	assert.True(t, f.tx.rolledBack)
	assert.Empty(t, f.repo.deliveries)
	assert.Empty(t, f.ledger.payments)
}

func TestCreate_PriceResolution(t *testing.T) {
	t.Run("catalog price wins over override", func(t *testing.T) {
		f := newFixture(t, "200")
		override := types.MustMoney("99999")

		in := f.input(t, "10", PayNaqd)
		in.UnitPrice = &override

		d, err := f.svc.Create(context.Background(), in)
		require.NoError(t, err)
		assert.True(t, d.UnitPrice.Equal(types.MustMoney("15000")))
	})

	t.Run("override fills missing catalog price", func(t *testing.T) {
		f := newFixture(t, "200")
		f.product.PricePerKg = nil
		override := types.MustMoney("16000")

		in := f.input(t, "10", PayNaqd)
		in.UnitPrice = &override

		d, err := f.svc.Create(context.Background(), in)
		require.NoError(t, err)
		assert.True(t, d.UnitPrice.Equal(override))
		assert.True(t, d.Total.Equal(types.MustMoney("160000")))
	})

	t.Run("no price anywhere fails validation", func(t *testing.T) {
		f := newFixture(t, "200")
		f.product.PricePerKg = nil

		_, err := f.svc.Create(context.Background(), f.input(t, "10", PayNaqd))
		require.Error(t, err)
		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeValidation, appErr.Code)
		assert.Empty(t, f.repo.deliveries)
	})

	t.Run("zero catalog price treated as unset", func(t *testing.T) {
		f := newFixture(t, "200")
		zero := types.Zero()
		f.product.PricePerKg = &zero

		_, err := f.svc.Create(context.Background(), f.input(t, "10", PayNaqd))
		require.Error(t, err)
		assert.Equal(t, apperror.CodeValidation, mustAppError(t, err).Code)
	})
}

func TestCreate_InputValidation(t *testing.T) {
	f := newFixture(t, "200")
	ctx := context.Background()

	t.Run("non-positive quantity", func(t *testing.T) {
		_, err := f.svc.Create(ctx, f.input(t, "0", PayNaqd))
		require.Error(t, err)
		assert.Equal(t, apperror.CodeValidation, mustAppError(t, err).Code)
	})

	t.Run("unknown payment kind", func(t *testing.T) {
		_, err := f.svc.Create(ctx, f.input(t, "10", PayKind("bitcoin")))
		require.Error(t, err)
		assert.Equal(t, apperror.CodeValidation, mustAppError(t, err).Code)
	})

	t.Run("unknown district", func(t *testing.T) {
		in := f.input(t, "10", PayNaqd)
		in.DistrictID = id.New()
		_, err := f.svc.Create(ctx, in)
		assert.True(t, apperror.IsNotFound(err))
	})

	t.Run("shop outside district", func(t *testing.T) {
		other := district.NewDistrict("Yunusobod")
		f2 := newFixture(t, "200")
		f2.svc.districts.(*stubDistricts).known[other.ID] = other

		in := f2.input(t, "10", PayNaqd)
		in.DistrictID = other.ID

		_, err := f2.svc.Create(ctx, in)
		require.Error(t, err)
		assert.Equal(t, apperror.CodeValidation, mustAppError(t, err).Code)
	})
}

func TestCreate_StampsCreatedBy(t *testing.T) {
	f := newFixture(t, "200")
	userID := id.New()
	ctx := appctx.WithUser(context.Background(), &appctx.UserContext{
		UserID: userID.String(),
		Role:   appctx.RoleDealer,
	})

	d, err := f.svc.Create(ctx, f.input(t, "10", PayQarz))
	require.NoError(t, err)
	require.NotNil(t, d.CreatedBy)
	assert.Equal(t, userID, *d.CreatedBy)
}

func TestList_DefaultLimit(t *testing.T) {
	f := newFixture(t, "200")

	_, err := f.svc.List(context.Background(), ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, 200, f.repo.lastFilter.Limit)

	_, err = f.svc.List(context.Background(), ListFilter{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 10, f.repo.lastFilter.Limit)
}

func mustAppError(t *testing.T, err error) *apperror.AppError {
	t.Helper()
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	return appErr
}
