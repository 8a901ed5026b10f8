package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnvelope(w http.ResponseWriter, status int, body map[string]any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL, opts...)
	require.NoError(t, err)
	return c
}

func TestNew_RejectsBadBaseURL(t *testing.T) {
	_, err := New("")
	assert.Error(t, err)

	_, err = New("shop.example.com")
	assert.Error(t, err)
}

func TestForPath(t *testing.T) {
	c, err := New("http://localhost:8080")
	require.NoError(t, err)

	tests := []struct {
		path string
		want string
	}{
		{"/seller/products", SellerPrefix},
		{"/seller", SellerPrefix},
		{"/api/v1/seller/orders/42", SellerPrefix},
		{"/admin/products", AdminPrefix},
		{"/sellers", AdminPrefix},
		{"/", AdminPrefix},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, ForPath(c, tt.path).Prefix())
		})
	}
}

func TestResourceAPI_ListProducts(t *testing.T) {
	var gotPath, gotAuth string
	var gotPage, gotSize, gotCategory string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotPage = r.URL.Query().Get("page")
		gotSize = r.URL.Query().Get("page_size")
		gotCategory = r.URL.Query().Get("category_id")
		writeEnvelope(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    []map[string]any{{"id": uuid.NewString(), "name": "Oak chair", "sku": "OAK-1"}},
			"meta":    map[string]any{"total": 11, "page": 2, "page_size": 5, "total_pages": 3},
		})
	}, WithToken("token-123"))

	categoryID := uuid.NewString()
	page, err := c.Seller().ListProducts(context.Background(), ListParams{
		Page: 2, PageSize: 5, Filters: map[string]string{"category_id": categoryID},
	})
	require.NoError(t, err)

	assert.Equal(t, "/api/v1/seller/products", gotPath)
	assert.Equal(t, "Bearer token-123", gotAuth)
	assert.Equal(t, "2", gotPage)
	assert.Equal(t, "5", gotSize)
	assert.Equal(t, categoryID, gotCategory)

	require.Len(t, page.Items, 1)
	assert.Equal(t, "Oak chair", page.Items[0].Name)
	assert.Equal(t, int64(11), page.Meta.Total)
	assert.Equal(t, 3, page.Meta.TotalPages)
}

func TestResourceAPI_ErrorEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusNotFound, map[string]any{
			"success": false,
			"error": map[string]any{
				"code":       "NOT_FOUND",
				"message":    "Product not found",
				"request_id": "req-1",
			},
		})
	})

	_, err := c.Admin().GetProduct(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, IsCode(err, "NOT_FOUND"))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "req-1", apiErr.RequestID)
}

func TestResourceAPI_ValidationDetails(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusUnprocessableEntity, map[string]any{
			"success": false,
			"error": map[string]any{
				"code":    "VALIDATION_ERROR",
				"message": "Request validation failed",
				"details": []map[string]any{{"field": "sku", "message": "This field is required", "tag": "required"}},
			},
		})
	})

	_, err := c.Admin().CreateProduct(context.Background(), CreateProductRequest{Name: "Oak chair"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Len(t, apiErr.Details, 1)
	assert.Equal(t, "sku", apiErr.Details[0].Field)
}

func TestResourceAPI_ImportHonoursRequestTimeout(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	start := time.Now()
	_, err := c.Admin().ImportProducts(context.Background(),
		ImportProductsRequest{Items: []CreateProductRequest{{Name: "Stool", SKU: "ST-1"}}},
		WithRequestTimeout(50*time.Millisecond))

	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded), err.Error())
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestResourceAPI_InvoiceReturnsPDF(t *testing.T) {
	pdf := []byte("%PDF-1.7 invoice")
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write(pdf)
	})

	got, err := c.Admin().Invoice(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, pdf, got)
}

func TestResourceAPI_DeleteNoContent(t *testing.T) {
	var method string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.Seller().DeleteProduct(context.Background(), uuid.New()))
	assert.Equal(t, http.MethodDelete, method)
}

func TestStoreAPI_LoginKeepsToken(t *testing.T) {
	var meAuth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/auth/login":
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body["password"] != "s3cret-pass" {
				writeEnvelope(w, http.StatusUnauthorized, map[string]any{
					"success": false,
					"error":   map[string]any{"code": "INVALID_CREDENTIALS", "message": "Invalid email or password"},
				})
				return
			}
			writeEnvelope(w, http.StatusOK, map[string]any{
				"success": true,
				"data":    map[string]any{"access_token": "access-1", "refresh_token": "refresh-1", "token_type": "Bearer"},
			})
		case "/api/v1/auth/me":
			meAuth = r.Header.Get("Authorization")
			writeEnvelope(w, http.StatusOK, map[string]any{
				"success": true,
				"data":    map[string]any{"id": uuid.NewString(), "email": "ana@example.com", "role": "seller"},
			})
		default:
			http.NotFound(w, r)
		}
	})

	_, err := c.Store().Login(context.Background(), "ana@example.com", "wrong")
	assert.True(t, IsCode(err, "INVALID_CREDENTIALS"))
	assert.Empty(t, c.Token())

	_, err = c.Store().Login(context.Background(), "ana@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, "access-1", c.Token())

	me, err := c.Store().Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", me.Email)
	assert.Equal(t, "Bearer access-1", meAuth)
}
