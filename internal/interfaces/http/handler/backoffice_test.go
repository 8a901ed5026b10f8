package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	auditapp "github.com/storefront/backend/internal/application/audit"
	contentapp "github.com/storefront/backend/internal/application/content"
	geoapp "github.com/storefront/backend/internal/application/geo"
	settingsapp "github.com/storefront/backend/internal/application/settings"
	"github.com/storefront/backend/internal/domain/content"
	"github.com/storefront/backend/internal/domain/settings"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memSettings struct {
	rows map[uuid.UUID]settings.PaymentSettings
}

func (m *memSettings) FindByVendor(_ context.Context, vendorID uuid.UUID) (*settings.PaymentSettings, error) {
	ps, ok := m.rows[vendorID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &ps, nil
}

func (m *memSettings) Save(_ context.Context, ps *settings.PaymentSettings) error {
	m.rows[ps.VendorID] = *ps
	return nil
}

func TestSettingsHandler(t *testing.T) {
	vendorID := uuid.New()
	repo := &memSettings{rows: make(map[uuid.UUID]settings.PaymentSettings)}
	h := NewSettingsHandler(settingsapp.NewService(repo, auditapp.NopRecorder{}, zap.NewNop()))

	seller := gin.New()
	seller.Use(withScope(shared.VendorScope(vendorID)))
	seller.GET("/settings/payment", h.GetPayment)
	seller.PUT("/settings/payment", h.UpdatePayment)

	t.Run("defaults before first save", func(t *testing.T) {
		w := doRequest(t, seller, http.MethodGet, "/settings/payment", nil)
		require.Equal(t, http.StatusOK, w.Code)
		resp := decode[settingsapp.PaymentSettingsResponse](t, w)
		assert.Equal(t, vendorID, resp.Data.VendorID)
		assert.Nil(t, resp.Data.UpdatedAt)
	})

	t.Run("update is scoped to the seller's vendor", func(t *testing.T) {
		w := doRequest(t, seller, http.MethodPut, "/settings/payment", settingsapp.UpdatePaymentSettingsRequest{
			BankName:       "Nordbank",
			AccountHolder:  "Nordic Home",
			IBAN:           "DE89370400440532013000",
			PayoutSchedule: "monthly",
			CardPayments:   true,
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		resp := decode[settingsapp.PaymentSettingsResponse](t, w)
		assert.True(t, resp.Data.HasIBAN)
		assert.NotEqual(t, "DE89370400440532013000", resp.Data.IBAN)
		assert.Contains(t, repo.rows, vendorID)
	})

	t.Run("invalid schedule", func(t *testing.T) {
		w := doRequest(t, seller, http.MethodPut, "/settings/payment", map[string]any{"payout_schedule": "daily"})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("admin scope has no vendor", func(t *testing.T) {
		admin := gin.New()
		admin.Use(withScope(shared.AdminScope()))
		admin.GET("/settings/payment", h.GetPayment)

		w := doRequest(t, admin, http.MethodGet, "/settings/payment", nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

type stubGeocoder struct {
	addr *valueobject.Address
	err  error
}

func (s stubGeocoder) Reverse(context.Context, float64, float64) (*valueobject.Address, error) {
	return s.addr, s.err
}

func TestGeoHandler_Reverse(t *testing.T) {
	position := map[string]any{"lat": 38.7223, "lon": -9.1393}

	newEngine := func(g geoapp.Geocoder) *gin.Engine {
		h := NewGeoHandler(geoapp.NewService(g, zap.NewNop()))
		engine := gin.New()
		engine.POST("/geo/reverse", h.Reverse)
		return engine
	}

	t.Run("resolves address", func(t *testing.T) {
		engine := newEngine(stubGeocoder{addr: &valueobject.Address{
			Line1: " Rua Augusta 10 ", City: "Lisboa", PostalCode: "1100-053", Country: "PT",
		}})
		w := doRequest(t, engine, http.MethodPost, "/geo/reverse", position)
		require.Equal(t, http.StatusOK, w.Code)

		resp := decode[geoapp.ReverseResponse](t, w)
		assert.Equal(t, "Rua Augusta 10", resp.Data.Address.Line1)
		assert.True(t, resp.Data.Complete)
		require.NotNil(t, resp.Data.Address.Latitude)
		assert.InDelta(t, 38.7223, *resp.Data.Address.Latitude, 1e-9)
	})

	t.Run("missing coordinates", func(t *testing.T) {
		engine := newEngine(stubGeocoder{})
		w := doRequest(t, engine, http.MethodPost, "/geo/reverse", map[string]any{"lat": 10})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("upstream failure", func(t *testing.T) {
		engine := newEngine(stubGeocoder{err: errors.New("503 from nominatim")})
		w := doRequest(t, engine, http.MethodPost, "/geo/reverse", position)
		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Equal(t, "UPSTREAM_UNAVAILABLE", decode[any](t, w).Error.Code)
	})

	t.Run("disabled", func(t *testing.T) {
		engine := newEngine(nil)
		w := doRequest(t, engine, http.MethodPost, "/geo/reverse", position)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

type memHomePage struct {
	rows map[content.SectionKey]content.HomePageContent
}

func (m *memHomePage) FindAll(context.Context) ([]content.HomePageContent, error) {
	out := make([]content.HomePageContent, 0, len(m.rows))
	for _, row := range m.rows {
		out = append(out, row)
	}
	return out, nil
}

func (m *memHomePage) FindByKey(_ context.Context, key content.SectionKey) (*content.HomePageContent, error) {
	row, ok := m.rows[key]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &row, nil
}

func (m *memHomePage) Upsert(_ context.Context, row *content.HomePageContent) error {
	m.rows[row.SectionKey] = *row
	return nil
}

func (m *memHomePage) DeleteByKey(_ context.Context, key content.SectionKey) error {
	delete(m.rows, key)
	return nil
}

func TestContentHandler(t *testing.T) {
	repo := &memHomePage{rows: make(map[content.SectionKey]content.HomePageContent)}
	svc := contentapp.NewService(repo, cache.NewInMemoryCache(0), 0, auditapp.NopRecorder{}, zap.NewNop())
	h := NewContentHandler(svc)

	engine := gin.New()
	engine.GET("/homepage", h.Page)
	engine.PUT("/homepage", h.BulkSave)
	engine.GET("/homepage/:key", h.Get)
	engine.PUT("/homepage/:key", h.Save)
	engine.POST("/homepage/:key/items", h.ItemOp)

	t.Run("page lists every section", func(t *testing.T) {
		w := doRequest(t, engine, http.MethodGet, "/homepage", nil)
		require.Equal(t, http.StatusOK, w.Code)
		resp := decode[[]map[string]any](t, w)
		assert.Len(t, resp.Data, len(content.AllSectionKeys))
	})

	t.Run("fixed size section after load", func(t *testing.T) {
		w := doRequest(t, engine, http.MethodGet, "/homepage/category_items", nil)
		require.Equal(t, http.StatusOK, w.Code)
		resp := decode[struct {
			Lists map[string]int `json:"lists"`
		}](t, w)
		assert.Equal(t, content.CategoryItemCount, resp.Data.Lists["items"])
	})

	t.Run("unknown section", func(t *testing.T) {
		w := doRequest(t, engine, http.MethodPut, "/homepage/sidebar", map[string]any{"content": map[string]any{}})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "UNKNOWN_SECTION", decode[any](t, w).Error.Code)
	})

	t.Run("content is required", func(t *testing.T) {
		w := doRequest(t, engine, http.MethodPut, "/homepage/info_text", map[string]any{})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("bulk entry without content is rejected", func(t *testing.T) {
		w := doRequest(t, engine, http.MethodPut, "/homepage/info_text", map[string]any{
			"content": map[string]any{"title": "Custom About Us", "paragraphs": []string{"mine"}},
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = doRequest(t, engine, http.MethodPut, "/homepage", map[string]any{
			"sections": map[string]any{"info_text": map[string]any{"order": 2}},
		})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

		w = doRequest(t, engine, http.MethodGet, "/homepage/info_text", nil)
		require.Equal(t, http.StatusOK, w.Code)
		resp := decode[struct {
			Content map[string]any `json:"content"`
		}](t, w)
		assert.Equal(t, "Custom About Us", resp.Data.Content["title"])
	})

	t.Run("fixed size list refuses add", func(t *testing.T) {
		w := doRequest(t, engine, http.MethodPost, "/homepage/banner_cards/items", contentapp.ItemOpRequest{
			Field: "cards", Op: contentapp.ItemOpAdd, Index: 0,
		})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "FIXED_SIZE", decode[any](t, w).Error.Code)
	})
}

type pingFunc func() error

func (f pingFunc) Ping() error { return f() }

func TestSystemHandler_Health(t *testing.T) {
	tests := []struct {
		name       string
		ping       error
		wantStatus int
		wantState  string
	}{
		{"database up", nil, http.StatusOK, "healthy"},
		{"database down", errors.New("dial tcp: connection refused"), http.StatusServiceUnavailable, "unhealthy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewSystemHandler(pingFunc(func() error { return tt.ping }), "1.4.0")
			engine := gin.New()
			engine.GET("/health", h.Health)

			w := doRequest(t, engine, http.MethodGet, "/health", nil)
			assert.Equal(t, tt.wantStatus, w.Code)

			var body HealthResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantState, body.Status)
			assert.Equal(t, "1.4.0", body.Version)
		})
	}
}
