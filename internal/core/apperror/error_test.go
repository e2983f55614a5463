package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFactoryStatusCodes(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		wantCode   string
		wantStatus int
	}{
		{"validation", NewValidation("bad input"), CodeValidation, http.StatusBadRequest},
		{"not found", NewNotFound("product", "x"), CodeNotFound, http.StatusNotFound},
		{"insufficient stock", NewInsufficientStock("p1", "100.1000", "100.0000"), CodeInsufficientStock, http.StatusUnprocessableEntity},
		{"unauthorized", NewUnauthorized("no token"), CodeUnauthorized, http.StatusUnauthorized},
		{"forbidden", NewForbidden("admins only"), CodeForbidden, http.StatusForbidden},
		{"duplicate", NewDuplicate("district", "name", "Chilonzor"), CodeDuplicate, http.StatusConflict},
		{"entity in use", NewEntityInUse("shop", "x"), CodeEntityInUse, http.StatusConflict},
		{"internal", NewInternal(errors.New("boom")), CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCode, tt.err.Code)
			assert.Equal(t, tt.wantStatus, tt.err.HTTPStatus)
			assert.Equal(t, tt.wantStatus, GetHTTPStatus(tt.err))
		})
	}
}

func TestGetHTTPStatus_WrappedAndUnknown(t *testing.T) {
	wrapped := fmt.Errorf("insert delivery: %w", NewNotFound("shop", "x"))
	assert.Equal(t, http.StatusNotFound, GetHTTPStatus(wrapped))

	assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus(errors.New("plain")))
}

func TestAsAppError(t *testing.T) {
	base := NewValidation("bad")
	wrapped := fmt.Errorf("outer: %w", base)

	got, ok := AsAppError(wrapped)
	assert.True(t, ok)
	assert.Same(t, base, got)

	_, ok = AsAppError(errors.New("plain"))
	assert.False(t, ok)
}

func TestWithDetailAndCause(t *testing.T) {
	cause := errors.New("pg down")
	err := NewValidation("bad").
		WithDetail("field", "qtyKg").
		WithCause(cause)

	assert.Equal(t, "qtyKg", err.Details["field"])
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "caused by")
}

func TestPredicates(t *testing.T) {
	assert.True(t, IsNotFound(NewNotFound("shop", "x")))
	assert.False(t, IsNotFound(NewValidation("bad")))

	assert.True(t, IsInsufficientStock(NewInsufficientStock("p", "2", "1")))
	assert.False(t, IsInsufficientStock(errors.New("plain")))

	assert.True(t, IsAppError(NewConflict("busy")))
	assert.False(t, IsAppError(errors.New("plain")))
}

func TestInsufficientStockDetails(t *testing.T) {
	err := NewInsufficientStock("p1", "100.1000", "100.0000")
	assert.Equal(t, "100.1000", err.Details["requested"])
	assert.Equal(t, "100.0000", err.Details["available"])
	assert.Equal(t, "p1", err.Details["product_id"])
}
