package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/storefront/backend/pkg/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Callers outside the module only see package client, so every value the
// API returns has to be nameable from here.
func TestWireTypesAreNameableFromOutside(t *testing.T) {
	id := uuid.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": map[string]any{
				"id":     id,
				"name":   "Oak chair",
				"sku":    "OAK-1",
				"price":  "120.00",
				"images": []map[string]any{{"id": uuid.New(), "url": "https://cdn.test/oak.jpg", "is_primary": true}},
			},
		})
	}))
	t.Cleanup(srv.Close)

	c, err := client.New(srv.URL)
	require.NoError(t, err)

	var product *client.ProductResponse
	product, err = c.Admin().GetProduct(context.Background(), id)
	require.NoError(t, err)

	primary := func(img client.ProductImageResponse) bool { return img.IsPrimary }
	require.Len(t, product.Images, 1)
	assert.True(t, primary(product.Images[0]))
	assert.Equal(t, "OAK-1", product.SKU)
	assert.Equal(t, "120.00", product.Price.StringFixed(2))
}
