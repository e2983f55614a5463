package v1

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	appctx "sklad/internal/core/context"
	"sklad/pkg/logger"
)

type stubValidator struct {
	role string
}

func (v *stubValidator) ValidateToken(tokenString string) (*appctx.UserContext, error) {
	return &appctx.UserContext{UserID: "u1", Role: v.role}, nil
}

func serve(role, method, path, body string) *httptest.ResponseRecorder {
	router := NewRouter(RouterConfig{
		Logger:       logger.Default(),
		JWTValidator: &stubValidator{role: role},
	})

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer token")
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRouter_DeliveryPostIsDealerOnly(t *testing.T) {
	// An admin is rejected before the handler runs.
	w := serve(appctx.RoleAdmin, http.MethodPost, "/api/v1/deliveries", "{}")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "FORBIDDEN")

	// A dealer passes the gate; the empty payload then fails binding,
	// which proves the request reached the handler.
	w = serve(appctx.RoleDealer, http.MethodPost, "/api/v1/deliveries", "{}")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_AdminGateStillBlocksDealers(t *testing.T) {
	w := serve(appctx.RoleDealer, http.MethodPost, "/api/v1/catalog/districts", `{"name":"Chilonzor"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
