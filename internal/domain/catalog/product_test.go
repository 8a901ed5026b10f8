package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProduct(t *testing.T) *Product {
	t.Helper()
	p, err := NewProduct(uuid.New(), "Linen Shirt", "ls-001", decimal.RequireFromString("49.90"))
	require.NoError(t, err)
	return p
}

func TestNewProduct(t *testing.T) {
	t.Run("creates active product", func(t *testing.T) {
		p := newTestProduct(t)
		assert.Equal(t, "LS-001", p.SKU)
		assert.Equal(t, "linen-shirt", p.Slug)
		assert.True(t, p.IsActive)
		assert.False(t, p.IsFeatured)
		assert.Empty(t, p.Images)
	})

	t.Run("requires vendor", func(t *testing.T) {
		_, err := NewProduct(uuid.Nil, "x", "y", decimal.Zero)
		require.Error(t, err)
	})

	t.Run("rejects negative price", func(t *testing.T) {
		_, err := NewProduct(uuid.New(), "x", "y", decimal.NewFromInt(-1))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "negative")
	})
}

func TestProduct_Toggles(t *testing.T) {
	p := newTestProduct(t)

	assert.False(t, p.ToggleActive())
	assert.True(t, p.ToggleActive())
	assert.True(t, p.ToggleFeatured())
	assert.False(t, p.ToggleFeatured())
}

func TestProduct_IsLowStock(t *testing.T) {
	p := newTestProduct(t)
	require.NoError(t, p.SetStock(DefaultLowStockThreshold + 1))
	assert.False(t, p.IsLowStock(DefaultLowStockThreshold))

	require.NoError(t, p.SetStock(1))
	assert.True(t, p.IsLowStock(DefaultLowStockThreshold))

	err := p.SetStock(-1)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STOCK", domainErr.Code)
}

func TestProduct_FinalPrice(t *testing.T) {
	p := newTestProduct(t)
	d, err := NewDiscount(10, "")
	require.NoError(t, err)

	assert.True(t, p.Price.Equal(p.FinalPrice(d)), "discount not attached")

	p.SetDiscount(&d.ID)
	assert.Equal(t, "44.91", p.FinalPrice(d).StringFixed(2))
}

func TestProduct_Gallery(t *testing.T) {
	p := newTestProduct(t)

	a, err := p.AddImage("https://cdn/a.jpg", "a")
	require.NoError(t, err)
	aID := a.ID
	b, err := p.AddImage("https://cdn/b.jpg", "b")
	require.NoError(t, err)
	bID := b.ID
	c, err := p.AddImage("https://cdn/c.jpg", "c")
	require.NoError(t, err)
	cID := c.ID

	require.NotNil(t, p.PrimaryImage())
	assert.Equal(t, aID, p.PrimaryImage().ID)

	t.Run("reorder sets sort order and primary", func(t *testing.T) {
		require.NoError(t, p.ReorderImages([]uuid.UUID{cID, aID, bID}))
		sorted := p.SortedImages()
		assert.Equal(t, []uuid.UUID{cID, aID, bID}, []uuid.UUID{sorted[0].ID, sorted[1].ID, sorted[2].ID})
		assert.Equal(t, cID, p.PrimaryImage().ID)
	})

	t.Run("reorder rejects incomplete list", func(t *testing.T) {
		assert.Error(t, p.ReorderImages([]uuid.UUID{cID, aID}))
		assert.Error(t, p.ReorderImages([]uuid.UUID{cID, cID, aID}))
	})

	t.Run("remove renumbers", func(t *testing.T) {
		require.NoError(t, p.RemoveImage(cID))
		sorted := p.SortedImages()
		require.Len(t, sorted, 2)
		assert.Equal(t, aID, sorted[0].ID)
		assert.Equal(t, 0, sorted[0].SortOrder)
		assert.True(t, sorted[0].IsPrimary)
		assert.Error(t, p.RemoveImage(uuid.New()))
	})
}

func TestProduct_SetAttributesDedupes(t *testing.T) {
	p := newTestProduct(t)
	red := uuid.New()
	p.SetAttributes([]uuid.UUID{red, red, uuid.Nil}, nil)
	assert.Equal(t, []uuid.UUID{red}, []uuid.UUID(p.ColorIDs))
	assert.Empty(t, p.MaterialIDs)
}

func TestNewReview(t *testing.T) {
	r, err := NewReview(uuid.New(), uuid.New(), "Ada", 5, "Great", "Fits well")
	require.NoError(t, err)
	assert.False(t, r.IsApproved)
	assert.True(t, r.ToggleApproved())

	_, err = NewReview(uuid.New(), uuid.New(), "Ada", 6, "", "")
	assert.Error(t, err)
}
