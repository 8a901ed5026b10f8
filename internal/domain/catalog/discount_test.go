package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDiscount(t *testing.T) {
	t.Run("fills empty label from percentage", func(t *testing.T) {
		d, err := NewDiscount(25, "")
		require.NoError(t, err)
		assert.Equal(t, 25, d.Percentage)
		assert.Equal(t, "25%", d.Label)
		assert.True(t, d.IsActive)
	})

	t.Run("whitespace label counts as empty", func(t *testing.T) {
		d, err := NewDiscount(10, "   ")
		require.NoError(t, err)
		assert.Equal(t, "10%", d.Label)
	})

	t.Run("keeps explicit label", func(t *testing.T) {
		d, err := NewDiscount(50, "Half price")
		require.NoError(t, err)
		assert.Equal(t, "Half price", d.Label)
	})

	t.Run("rejects out of range percentage", func(t *testing.T) {
		for _, p := range []int{0, -5, 101} {
			_, err := NewDiscount(p, "")
			require.Error(t, err)
			assert.Contains(t, err.Error(), "between 1 and 100")
		}
	})
}

func TestDiscount_Update(t *testing.T) {
	d, err := NewDiscount(25, "")
	require.NoError(t, err)

	require.NoError(t, d.Update(30, ""))
	assert.Equal(t, "30%", d.Label)
}

func TestDiscount_Apply(t *testing.T) {
	d, err := NewDiscount(25, "")
	require.NoError(t, err)

	assert.True(t, decimal.RequireFromString("74.99").Equal(d.Apply(decimal.RequireFromString("99.99"))))

	d.ToggleActive()
	assert.True(t, decimal.RequireFromString("99.99").Equal(d.Apply(decimal.RequireFromString("99.99"))))

	var none *Discount
	assert.True(t, decimal.NewFromInt(10).Equal(none.Apply(decimal.NewFromInt(10))))
}
