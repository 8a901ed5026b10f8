package geo

import (
	"context"
	"errors"
	"testing"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockGeocoder struct {
	mock.Mock
}

func (m *MockGeocoder) Reverse(ctx context.Context, lat, lon float64) (*valueobject.Address, error) {
	args := m.Called(ctx, lat, lon)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*valueobject.Address), args.Error(1)
}

func ptr(v float64) *float64 { return &v }

func domainCode(t *testing.T, err error) string {
	t.Helper()
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	return domainErr.Code
}

func TestService_Reverse(t *testing.T) {
	ctx := context.Background()

	t.Run("fills the address and keeps the position", func(t *testing.T) {
		g := new(MockGeocoder)
		g.On("Reverse", ctx, 38.7223, -9.1393).Return(&valueobject.Address{
			Line1: " Rua Augusta 10 ", City: "Lisboa", PostalCode: "1100-053", Country: "PT",
		}, nil)

		resp, err := NewService(g, zap.NewNop()).Reverse(ctx, ReverseRequest{Lat: ptr(38.7223), Lon: ptr(-9.1393)})
		require.NoError(t, err)
		assert.True(t, resp.Complete)
		assert.Equal(t, "Rua Augusta 10", resp.Address.Line1)
		require.NotNil(t, resp.Address.Latitude)
		assert.Equal(t, 38.7223, *resp.Address.Latitude)
	})

	t.Run("partial result is not complete", func(t *testing.T) {
		g := new(MockGeocoder)
		g.On("Reverse", ctx, 0.0, 0.0).Return(&valueobject.Address{Country: "XX"}, nil)

		resp, err := NewService(g, zap.NewNop()).Reverse(ctx, ReverseRequest{Lat: ptr(0), Lon: ptr(0)})
		require.NoError(t, err)
		assert.False(t, resp.Complete)
	})

	t.Run("disabled", func(t *testing.T) {
		_, err := NewService(nil, zap.NewNop()).Reverse(ctx, ReverseRequest{Lat: ptr(1), Lon: ptr(1)})
		assert.ErrorIs(t, err, shared.ErrNotConfigured)
	})

	t.Run("out of range", func(t *testing.T) {
		_, err := NewService(new(MockGeocoder), zap.NewNop()).Reverse(ctx, ReverseRequest{Lat: ptr(91), Lon: ptr(1)})
		assert.Equal(t, "INVALID_POSITION", domainCode(t, err))
	})

	t.Run("nothing there", func(t *testing.T) {
		g := new(MockGeocoder)
		g.On("Reverse", ctx, 10.0, 10.0).Return(nil, ErrNoResult)
		_, err := NewService(g, zap.NewNop()).Reverse(ctx, ReverseRequest{Lat: ptr(10), Lon: ptr(10)})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("upstream failure", func(t *testing.T) {
		g := new(MockGeocoder)
		g.On("Reverse", ctx, 10.0, 10.0).Return(nil, errors.New("502 bad gateway"))
		_, err := NewService(g, zap.NewNop()).Reverse(ctx, ReverseRequest{Lat: ptr(10), Lon: ptr(10)})
		assert.ErrorIs(t, err, shared.ErrUpstream)
	})
}
