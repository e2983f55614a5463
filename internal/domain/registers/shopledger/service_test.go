package shopledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sklad/internal/core/apperror"
	"sklad/internal/core/id"
	"sklad/internal/core/types"
	"sklad/internal/domain/catalogs/shop"
)

// memRepo derives balances from the transaction log the same way the
// SQL implementation does: payments minus sales.
type memRepo struct {
	transactions []Transaction
	lastLimit    int
}

func (r *memRepo) Insert(ctx context.Context, t *Transaction) error {
	r.transactions = append(r.transactions, *t)
	return nil
}

func (r *memRepo) Balance(ctx context.Context, shopID id.ID) (types.Money, error) {
	sum := types.Zero()
	for _, t := range r.transactions {
		if t.ShopID == shopID {
			sum = sum.Add(t.SignedAmount())
		}
	}
	return sum, nil
}

func (r *memRepo) Balances(ctx context.Context, districtID *id.ID) ([]ShopBalance, error) {
	return nil, nil
}

func (r *memRepo) History(ctx context.Context, shopID id.ID, limit int) ([]Transaction, error) {
	r.lastLimit = limit
	return nil, nil
}

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

func newTestService() (*Service, *memRepo, *shop.Shop) {
	repo := &memRepo{}
	sh := shop.NewShop("Do'kon 1", id.New())
	svc := NewService(repo, &stubShops{known: map[id.ID]*shop.Shop{sh.ID: sh}})
	return svc, repo, sh
}

func TestBalance_PaymentPositiveConvention(t *testing.T) {
	svc, _, sh := newTestService()
	ctx := context.Background()

	// A shop that bought for 500 and paid 200 owes 300.
	_, err := svc.RecordSale(ctx, sh.ID, types.MustMoney("500"), "delivery")
	require.NoError(t, err)
	_, err = svc.RecordPayment(ctx, sh.ID, types.MustMoney("200"), "cash")
	require.NoError(t, err)

	balance, err := svc.BalanceOf(ctx, sh.ID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(types.MustMoney("-300")), "got %s", balance)
}

func TestBalance_EmptyLedgerIsZero(t *testing.T) {
	svc, _, sh := newTestService()

	balance, err := svc.BalanceOf(context.Background(), sh.ID)
	require.NoError(t, err)
	assert.True(t, balance.IsZero())
}

func TestRecord_RejectsNonPositiveAmount(t *testing.T) {
	svc, repo, sh := newTestService()
	ctx := context.Background()

	for _, amount := range []string{"0", "-100"} {
		_, err := svc.RecordSale(ctx, sh.ID, types.MustMoney(amount), "")
		require.Error(t, err)
		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeValidation, appErr.Code)

		_, err = svc.RecordPayment(ctx, sh.ID, types.MustMoney(amount), "")
		require.Error(t, err)
	}
	assert.Empty(t, repo.transactions)
}

func TestRecord_UnknownShop(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.RecordSale(context.Background(), id.New(), types.MustMoney("100"), "")
	assert.True(t, apperror.IsNotFound(err))
}

func TestRecord_KindsAndNotes(t *testing.T) {
	svc, _, sh := newTestService()
	ctx := context.Background()

	sale, err := svc.RecordSale(ctx, sh.ID, types.MustMoney("100"), "note")
	require.NoError(t, err)
	assert.Equal(t, KindSale, sale.Kind)
	require.NotNil(t, sale.Note)
	assert.Equal(t, "note", *sale.Note)

	payment, err := svc.RecordPayment(ctx, sh.ID, types.MustMoney("50"), "  ")
	require.NoError(t, err)
	assert.Equal(t, KindPayment, payment.Kind)
	assert.Nil(t, payment.Note)
}

func TestTransaction_SignedAmount(t *testing.T) {
	sale := Transaction{Kind: KindSale, Amount: types.MustMoney("100")}
	payment := Transaction{Kind: KindPayment, Amount: types.MustMoney("100")}

	assert.True(t, sale.SignedAmount().Equal(types.MustMoney("-100")))
	assert.True(t, payment.SignedAmount().Equal(types.MustMoney("100")))
}

func TestHistory_LimitClamping(t *testing.T) {
	svc, repo, sh := newTestService()
	ctx := context.Background()

	tests := []struct {
		limit int
		want  int
	}{
		{0, DefaultHistoryLimit},
		{-5, DefaultHistoryLimit},
		{50, 50},
		{9999, MaxHistoryLimit},
	}

	for _, tt := range tests {
		_, err := svc.History(ctx, sh.ID, tt.limit)
		require.NoError(t, err)
		assert.Equal(t, tt.want, repo.lastLimit)
	}
}
