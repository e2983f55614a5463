package stock

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sklad/internal/core/apperror"
	"sklad/internal/core/id"
	"sklad/internal/core/types"
	"sklad/internal/domain/catalogs/product"
	"sklad/internal/domain/catalogs/shop"
)

// memRepo is an in-memory stock ledger. Balance is derived from the
// movement log exactly like the SQL implementation does.
type memRepo struct {
	movements []Movement
}

func (r *memRepo) Insert(ctx context.Context, m *Movement) error {
	r.movements = append(r.movements, *m)
	return nil
}

func (r *memRepo) Balance(ctx context.Context, productID id.ID) (types.Quantity, error) {
	var sum types.Quantity
	for _, m := range r.movements {
		if m.ProductID == productID {
			sum += m.SignedQty()
		}
	}
	return sum, nil
}

func (r *memRepo) Balances(ctx context.Context) ([]ProductBalance, error) {
	return nil, nil
}

func (r *memRepo) History(ctx context.Context, productID id.ID, filter MovementFilter) ([]Movement, error) {
	var out []Movement
	for i := len(r.movements) - 1; i >= 0; i-- {
		if r.movements[i].ProductID == productID {
			out = append(out, r.movements[i])
		}
	}
	return out, nil
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

func newTestService() (*Service, *memRepo, *product.Product, *shop.Shop) {
	repo := &memRepo{}
	p := product.NewProduct("Un oliy")
	sh := shop.NewShop("Do'kon 1", id.New())
	svc := NewService(repo,
		&stubProducts{known: map[id.ID]*product.Product{p.ID: p}},
		&stubShops{known: map[id.ID]*shop.Shop{sh.ID: sh}},
	)
	return svc, repo, p, sh
}

func mustQty(t *testing.T, s string) types.Quantity {
	t.Helper()
	q, err := types.ParseQuantity(s)
	require.NoError(t, err)
	return q
}

func TestBalance_ConservedAcrossMovements(t *testing.T) {
	svc, _, p, sh := newTestService()
	ctx := context.Background()

	// Empty ledger derives to zero, not an error.
	balance, err := svc.BalanceOf(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, balance.IsZero())

	_, err = svc.RecordInbound(ctx, p.ID, mustQty(t, "100"), "opening")
	require.NoError(t, err)
	_, err = svc.RecordInbound(ctx, p.ID, mustQty(t, "50.5"), "")
	require.NoError(t, err)
	_, err = svc.RecordOutbound(ctx, p.ID, sh.ID, mustQty(t, "30.25"), "")
	require.NoError(t, err)

	balance, err = svc.BalanceOf(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "120.2500", balance.String())
}

func TestRecordInbound_RejectsNonPositiveQty(t *testing.T) {
	svc, repo, p, _ := newTestService()
	ctx := context.Background()

	for _, qty := range []string{"0", "-5"} {
		_, err := svc.RecordInbound(ctx, p.ID, mustQty(t, qty), "")
		require.Error(t, err)
		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeValidation, appErr.Code)
	}
	assert.Empty(t, repo.movements)
}

func TestRecordInbound_UnknownProduct(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.RecordInbound(context.Background(), id.New(), mustQty(t, "10"), "")
	assert.True(t, apperror.IsNotFound(err))
}

func TestRecordOutbound_RequiresShop(t *testing.T) {
	svc, _, p, _ := newTestService()
	ctx := context.Background()

	_, err := svc.RecordOutbound(ctx, p.ID, id.Nil(), mustQty(t, "10"), "")
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)

	_, err = svc.RecordOutbound(ctx, p.ID, id.New(), mustQty(t, "10"), "")
	assert.True(t, apperror.IsNotFound(err))
}

func TestRecordOutbound_TagsShopAndKind(t *testing.T) {
	svc, repo, p, sh := newTestService()

	m, err := svc.RecordOutbound(context.Background(), p.ID, sh.ID, mustQty(t, "7.5"), "delivery #1")
	require.NoError(t, err)

	assert.Equal(t, KindChiqim, m.Kind)
	require.NotNil(t, m.ShopID)
	assert.Equal(t, sh.ID, *m.ShopID)
	require.NotNil(t, m.Note)
	assert.Equal(t, "delivery #1", *m.Note)
	assert.Len(t, repo.movements, 1)
}

func TestMovement_SignedQty(t *testing.T) {
	in := Movement{Kind: KindKirim, QtyKg: mustQty(t, "10")}
	out := Movement{Kind: KindChiqim, QtyKg: mustQty(t, "10")}

	assert.Equal(t, mustQty(t, "10"), in.SignedQty())
	assert.Equal(t, mustQty(t, "-10"), out.SignedQty())
}

func TestRecordInbound_BlankNoteStoredAsNil(t *testing.T) {
	svc, _, p, _ := newTestService()

	m, err := svc.RecordInbound(context.Background(), p.ID, mustQty(t, "1"), "   ")
	require.NoError(t, err)
	assert.Nil(t, m.Note)
	assert.Equal(t, KindKirim, m.Kind)
}
