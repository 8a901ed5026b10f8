package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStubImageStorage(t *testing.T) {
	s := NewStubImageStorage()
	require.NotNil(t, s)
	assert.Equal(t, "https://storage.example.com", s.BaseURL)
}

func TestStubImageStorage_Lifecycle(t *testing.T) {
	s := NewStubImageStorage()
	ctx := context.Background()
	key := "products/abc/1.jpg"

	exists, err := s.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)

	target, err := s.PresignUpload(ctx, key, "image/jpeg")
	require.NoError(t, err)
	assert.Contains(t, target.URL, "https://storage.example.com/upload/products/abc/1.jpg")
	assert.Equal(t, "PUT", target.Method)
	assert.Equal(t, "image/jpeg", target.Headers["Content-Type"])
	assert.True(t, target.ExpiresAt.After(time.Now()))

	exists, err = s.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, "https://storage.example.com/products/abc/1.jpg", s.PublicURL(key))

	require.NoError(t, s.Delete(ctx, key))
	exists, err = s.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestStubImageStorage_EmptyKey(t *testing.T) {
	s := NewStubImageStorage()
	ctx := context.Background()

	_, err := s.PresignUpload(ctx, "", "image/png")
	assert.ErrorContains(t, err, "storage key is required")
	_, err = s.Exists(ctx, "")
	assert.Error(t, err)
	assert.Error(t, s.Delete(ctx, ""))
}
