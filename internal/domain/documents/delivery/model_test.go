package delivery

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"sklad/internal/core/apperror"
	"sklad/internal/core/id"
	"sklad/internal/core/types"
)

func TestValidPayKind(t *testing.T) {
	assert.True(t, ValidPayKind(PayNaqd))
	assert.True(t, ValidPayKind(PayTerminal))
	assert.True(t, ValidPayKind(PayQarz))
	assert.False(t, ValidPayKind(PayKind("")))
	assert.False(t, ValidPayKind(PayKind("cash")))
	assert.False(t, ValidPayKind(PayKind("NAQD")))
}

func TestPayKind_IsImmediate(t *testing.T) {
	assert.True(t, PayNaqd.IsImmediate())
	assert.True(t, PayTerminal.IsImmediate())
	assert.False(t, PayQarz.IsImmediate())
}

func TestDelivery_Validate(t *testing.T) {
	valid := func() *Delivery {
		return &Delivery{
			ID:         id.New(),
			DistrictID: id.New(),
			ShopID:     id.New(),
			ProductID:  id.New(),
			QtyKg:      types.NewQuantityFromInt64Scaled(125_000),
			UnitPrice:  types.MustMoney("15000"),
			Total:      types.MustMoney("187500"),
			PayKind:    PayNaqd,
		}
	}

	tests := []struct {
		name    string
		mutate  func(d *Delivery)
		wantErr bool
	}{
		{name: "valid", mutate: func(d *Delivery) {}},
		{name: "zero quantity", mutate: func(d *Delivery) { d.QtyKg = 0 }, wantErr: true},
		{name: "negative quantity", mutate: func(d *Delivery) { d.QtyKg = -1 }, wantErr: true},
		{name: "zero price", mutate: func(d *Delivery) { d.UnitPrice = types.Zero() }, wantErr: true},
		{name: "bad pay kind", mutate: func(d *Delivery) { d.PayKind = "check" }, wantErr: true},
		{name: "nil district", mutate: func(d *Delivery) { d.DistrictID = id.Nil() }, wantErr: true},
		{name: "nil shop", mutate: func(d *Delivery) { d.ShopID = id.Nil() }, wantErr: true},
		{name: "nil product", mutate: func(d *Delivery) { d.ProductID = id.Nil() }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := valid()
			tt.mutate(d)
			err := d.Validate(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
				appErr, ok := apperror.AsAppError(err)
				assert.True(t, ok)
				assert.Equal(t, apperror.CodeValidation, appErr.Code)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
