package handler

import (
	"context"
	"net/http"
	"sort"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memColors is an in-memory color service
type memColors struct {
	items map[uuid.UUID]*catalogapp.ColorResponse
}

func newMemColors(names ...string) *memColors {
	m := &memColors{items: make(map[uuid.UUID]*catalogapp.ColorResponse)}
	for _, n := range names {
		_, _ = m.Create(context.Background(), catalogapp.ColorRequest{Name: n, HexCode: "#000000"})
	}
	return m
}

func (m *memColors) List(_ context.Context, filter catalogapp.TaxonomyListFilter) ([]catalogapp.ColorResponse, int64, error) {
	all := make([]catalogapp.ColorResponse, 0, len(m.items))
	for _, c := range m.items {
		if filter.IsActive != nil && c.IsActive != *filter.IsActive {
			continue
		}
		all = append(all, *c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })

	f := filter.PageQuery.Filter("name", "asc")
	start := min(f.Offset(), len(all))
	end := min(start+f.PageSize, len(all))
	return all[start:end], int64(len(all)), nil
}

func (m *memColors) GetByID(_ context.Context, id uuid.UUID) (*catalogapp.ColorResponse, error) {
	c, ok := m.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	out := *c
	return &out, nil
}

func (m *memColors) Create(_ context.Context, req catalogapp.ColorRequest) (*catalogapp.ColorResponse, error) {
	c := &catalogapp.ColorResponse{ID: uuid.New(), Name: req.Name, HexCode: req.HexCode, IsActive: true}
	m.items[c.ID] = c
	out := *c
	return &out, nil
}

func (m *memColors) Update(ctx context.Context, id uuid.UUID, req catalogapp.ColorRequest) (*catalogapp.ColorResponse, error) {
	c, ok := m.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	c.Name, c.HexCode = req.Name, req.HexCode
	return m.GetByID(ctx, id)
}

func (m *memColors) ToggleActive(_ context.Context, id uuid.UUID) (*catalogapp.ToggleResponse, error) {
	c, ok := m.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	c.IsActive = !c.IsActive
	return &catalogapp.ToggleResponse{ID: id, Field: "is_active", Value: c.IsActive}, nil
}

func (m *memColors) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.items[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func setupColorRoutes(svc *memColors) *gin.Engine {
	h := NewTaxonomyHandler[catalogapp.ColorRequest, catalogapp.ColorResponse](svc)
	engine := gin.New()
	g := engine.Group("/colors")
	g.GET("", h.List)
	g.GET("/:id", h.GetByID)
	g.POST("", h.Create)
	g.PUT("/:id", h.Update)
	g.POST("/:id/toggle-active", h.ToggleActive)
	g.DELETE("/:id", h.Delete)
	return engine
}

func TestTaxonomyHandler_ListPagination(t *testing.T) {
	engine := setupColorRoutes(newMemColors("amber", "black", "coral", "denim", "ecru"))

	w := doRequest(t, engine, http.MethodGet, "/colors?page=2&page_size=2", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[[]catalogapp.ColorResponse](t, w)
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "coral", resp.Data[0].Name)
	assert.Equal(t, "denim", resp.Data[1].Name)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(5), resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.Page)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}

func TestTaxonomyHandler_ListRejectsBadPageSize(t *testing.T) {
	engine := setupColorRoutes(newMemColors())

	w := doRequest(t, engine, http.MethodGet, "/colors?page_size=1000", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestTaxonomyHandler_ToggleRoundTrip(t *testing.T) {
	svc := newMemColors("amber")
	engine := setupColorRoutes(svc)
	var id uuid.UUID
	for k := range svc.items {
		id = k
	}

	w := doRequest(t, engine, http.MethodPost, "/colors/"+id.String()+"/toggle-active", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[catalogapp.ToggleResponse](t, w).Data.Value)

	w = doRequest(t, engine, http.MethodGet, "/colors/"+id.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[catalogapp.ColorResponse](t, w).Data.IsActive)
}

func TestTaxonomyHandler_DeleteRemovesFromList(t *testing.T) {
	svc := newMemColors("amber", "black")
	engine := setupColorRoutes(svc)
	var id uuid.UUID
	for k, v := range svc.items {
		if v.Name == "amber" {
			id = k
		}
	}

	w := doRequest(t, engine, http.MethodDelete, "/colors/"+id.String(), nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(t, engine, http.MethodGet, "/colors", nil)
	resp := decode[[]catalogapp.ColorResponse](t, w)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "black", resp.Data[0].Name)

	w = doRequest(t, engine, http.MethodDelete, "/colors/"+id.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTaxonomyHandler_CreateValidatesHexCode(t *testing.T) {
	engine := setupColorRoutes(newMemColors())

	w := doRequest(t, engine, http.MethodPost, "/colors", catalogapp.ColorRequest{Name: "Ink", HexCode: "blue"})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	resp := decode[any](t, w)
	require.Len(t, resp.Error.Details, 1)
	assert.Equal(t, "hex_code", resp.Error.Details[0].Field)
	assert.Equal(t, "hexcolor", resp.Error.Details[0].Tag)

	w = doRequest(t, engine, http.MethodPost, "/colors", catalogapp.ColorRequest{Name: "Ink", HexCode: "#1b2a4e"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "#1b2a4e", decode[catalogapp.ColorResponse](t, w).Data.HexCode)
}
