package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestDomainError_IsMatchesByCode(t *testing.T) {
	wrapped := fmt.Errorf("load product: %w", NewDomainError("NOT_FOUND", "Product not found"))

	assert.True(t, errors.Is(wrapped, ErrNotFound))
	assert.False(t, errors.Is(wrapped, ErrForbidden))

	var de *DomainError
	assert.True(t, errors.As(wrapped, &de))
	assert.Equal(t, "Product not found", de.Error())
}

func TestNewPaginated(t *testing.T) {
	tests := []struct {
		name     string
		total    int64
		pageSize int
		want     int
	}{
		{"exact multiple", 40, 20, 2},
		{"remainder adds a page", 41, 20, 3},
		{"empty", 0, 20, 0},
		{"zero page size", 10, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPaginated([]int{}, tt.total, 1, tt.pageSize)
			assert.Equal(t, tt.want, p.TotalPages)
		})
	}
}

func TestFilter_OffsetIsNthSlice(t *testing.T) {
	f := DefaultFilter()
	f.PageSize = 10

	f.Page = 1
	assert.Equal(t, 0, f.Offset())
	f.Page = 3
	assert.Equal(t, 20, f.Offset())
	f.Page = 0
	assert.Equal(t, 0, f.Offset())
}

func TestFilter_WithDoesNotMutateOriginal(t *testing.T) {
	f := DefaultFilter()
	g := f.With("is_active", true)

	assert.NotContains(t, f.Filters, "is_active")
	assert.Equal(t, true, g.Filters["is_active"])
}

func TestScope(t *testing.T) {
	vendor := uuid.New()
	other := uuid.New()

	admin := AdminScope()
	assert.False(t, admin.IsVendor())
	assert.True(t, admin.Allows(other))
	assert.NotContains(t, admin.Apply(DefaultFilter()).Filters, "vendor_id")

	seller := VendorScope(vendor)
	assert.True(t, seller.IsVendor())
	assert.True(t, seller.Allows(vendor))
	assert.False(t, seller.Allows(other))
	assert.Equal(t, vendor, seller.Apply(DefaultFilter()).Filters["vendor_id"])
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Summer Dresses":      "summer-dresses",
		"  Crème Brûlée  ":    "creme-brulee",
		"Shoes & Bags / 2025": "shoes-bags-2025",
		"---":                 "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slugify(in), in)
	}
}
