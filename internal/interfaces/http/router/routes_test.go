package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	auditapp "github.com/storefront/backend/internal/application/audit"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	settingsapp "github.com/storefront/backend/internal/application/settings"
	"github.com/storefront/backend/internal/domain/settings"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type tokenValidator struct {
	jwt *auth.JWTService
}

func (v tokenValidator) ValidateAccessToken(_ context.Context, token string) (*auth.Claims, error) {
	return v.jwt.ValidateAccessToken(token)
}

type emptySettings struct{}

func (emptySettings) FindByVendor(context.Context, uuid.UUID) (*settings.PaymentSettings, error) {
	return nil, shared.ErrNotFound
}

func (emptySettings) Save(context.Context, *settings.PaymentSettings) error { return nil }

// setupAPI mounts the real route table. Only the settings handler is backed
// by a service; the tests never reach the others.
func setupAPI(t *testing.T) (*gin.Engine, *auth.JWTService) {
	t.Helper()
	jwt := auth.NewJWTService(config.JWTConfig{
		Secret:                 "routes-test-secret",
		AccessTokenExpiration:  time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "storefront-test",
	})

	h := Handlers{
		Color:    handler.NewTaxonomyHandler[catalogapp.ColorRequest, catalogapp.ColorResponse](nil),
		Material: handler.NewTaxonomyHandler[catalogapp.MaterialRequest, catalogapp.MaterialResponse](nil),
		Discount: handler.NewTaxonomyHandler[catalogapp.DiscountRequest, catalogapp.DiscountResponse](nil),
		Settings: handler.NewSettingsHandler(settingsapp.NewService(emptySettings{}, auditapp.NopRecorder{}, zap.NewNop())),
	}
	g := Guards{Auth: middleware.JWTAuth(tokenValidator{jwt: jwt}, zap.NewNop())}

	engine := gin.New()
	r := NewRouter(engine)
	for _, group := range APIGroups(h, g) {
		r.Register(group)
	}
	r.Setup()
	return engine, jwt
}

func bearer(t *testing.T, jwt *auth.JWTService, role string, vendorID *uuid.UUID) string {
	t.Helper()
	pair, err := jwt.GenerateTokenPair(auth.GenerateTokenInput{
		UserID:   uuid.New(),
		Email:    role + "@example.com",
		Role:     role,
		VendorID: vendorID,
	})
	require.NoError(t, err)
	return "Bearer " + pair.AccessToken
}

func get(engine *gin.Engine, path, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestAPIGroups_RouteTable(t *testing.T) {
	engine, _ := setupAPI(t)

	registered := make(map[string]bool)
	for _, route := range engine.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	for _, want := range []string{
		"POST /api/v1/auth/login",
		"GET /api/v1/auth/me",
		"GET /api/v1/store/homepage",
		"POST /api/v1/store/checkout",
		"POST /api/v1/geo/reverse",
		"GET /api/v1/admin/users",
		"POST /api/v1/admin/colors/:id/toggle-active",
		"POST /api/v1/admin/homepage/:key/reset",
		"GET /api/v1/admin/orders/:id/invoice",
		"POST /api/v1/seller/products/import",
		"DELETE /api/v1/seller/products/:id/images/:image_id",
		"PUT /api/v1/seller/settings/payment",
	} {
		assert.True(t, registered[want], "missing route %s", want)
	}

	for _, adminOnly := range []string{
		"GET /api/v1/seller/users",
		"GET /api/v1/seller/vendors",
		"GET /api/v1/seller/admin-logs",
		"PUT /api/v1/seller/homepage/:key",
	} {
		assert.False(t, registered[adminOnly], "seller must not expose %s", adminOnly)
	}
}

func TestAPIGroups_Access(t *testing.T) {
	engine, jwt := setupAPI(t)
	vendorID := uuid.New()
	seller := bearer(t, jwt, "seller", &vendorID)
	admin := bearer(t, jwt, "admin", nil)
	customer := bearer(t, jwt, "customer", nil)

	tests := []struct {
		name       string
		path       string
		auth       string
		wantStatus int
	}{
		{"anonymous back-office", "/api/v1/admin/users", "", http.StatusUnauthorized},
		{"garbage token", "/api/v1/admin/users", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"seller on admin surface", "/api/v1/admin/users", seller, http.StatusForbidden},
		{"customer on seller surface", "/api/v1/seller/settings/payment", customer, http.StatusForbidden},
		{"admin on seller surface", "/api/v1/seller/settings/payment", admin, http.StatusForbidden},
		{"seller settings", "/api/v1/seller/settings/payment", seller, http.StatusOK},
		{"anonymous session", "/api/v1/auth/me", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(engine, tt.path, tt.auth)
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
		})
	}
}

func TestAPIGroups_SellerSettingsUseTokenVendor(t *testing.T) {
	engine, jwt := setupAPI(t)
	vendorID := uuid.New()

	w := get(engine, "/api/v1/seller/settings/payment", bearer(t, jwt, "seller", &vendorID))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), vendorID.String())
}

func TestAPIGroups_OnlyBulkRoutesAreLongRunning(t *testing.T) {
	r := NewRouter(gin.New(), WithRequestTimeout(time.Second))
	h := Handlers{
		Color:    handler.NewTaxonomyHandler[catalogapp.ColorRequest, catalogapp.ColorResponse](nil),
		Material: handler.NewTaxonomyHandler[catalogapp.MaterialRequest, catalogapp.MaterialResponse](nil),
		Discount: handler.NewTaxonomyHandler[catalogapp.DiscountRequest, catalogapp.DiscountResponse](nil),
	}
	for _, group := range APIGroups(h, Guards{}) {
		r.Register(group)
	}

	var longRunning []string
	for _, route := range r.Routes() {
		if route.LongRunning {
			longRunning = append(longRunning, route.Method+" "+route.Path)
		}
	}
	assert.ElementsMatch(t, []string{
		"POST /api/v1/admin/products/import",
		"POST /api/v1/admin/products/bulk-update",
		"POST /api/v1/seller/products/import",
		"POST /api/v1/seller/products/bulk-update",
	}, longRunning)
}
