package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func baseConfig(endpoint string) *config.StorageConfig {
	return &config.StorageConfig{
		Bucket:          "product-images",
		AccessKeyID:     "test-key",
		SecretAccessKey: "test-secret",
		Region:          "us-east-1",
		Endpoint:        endpoint,
		UsePathStyle:    true,
	}
}

func TestNewS3ImageStorage_Validation(t *testing.T) {
	t.Run("nil config returns error", func(t *testing.T) {
		_, err := NewS3ImageStorage(nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration is required")
	})

	t.Run("missing bucket returns error", func(t *testing.T) {
		cfg := baseConfig("http://localhost:9000")
		cfg.Bucket = ""
		_, err := NewS3ImageStorage(cfg)
		assert.ErrorContains(t, err, "bucket is required")
	})

	t.Run("missing access key returns error", func(t *testing.T) {
		cfg := baseConfig("http://localhost:9000")
		cfg.AccessKeyID = ""
		_, err := NewS3ImageStorage(cfg)
		assert.ErrorContains(t, err, "access key is required")
	})

	t.Run("missing secret key returns error", func(t *testing.T) {
		cfg := baseConfig("http://localhost:9000")
		cfg.SecretAccessKey = ""
		_, err := NewS3ImageStorage(cfg)
		assert.ErrorContains(t, err, "secret key is required")
	})

	t.Run("defaults", func(t *testing.T) {
		s, err := NewS3ImageStorage(baseConfig("localhost:9000"))
		require.NoError(t, err)
		assert.Equal(t, "product-images", s.Bucket())
		assert.Equal(t, 15*time.Minute, s.presignExpiry)
		assert.Equal(t, "https://localhost:9000", s.endpoint)
	})

	t.Run("options", func(t *testing.T) {
		s, err := NewS3ImageStorage(baseConfig("http://localhost:9000"),
			WithLogger(zaptest.NewLogger(t)), WithPresignExpiry(time.Hour))
		require.NoError(t, err)
		assert.Equal(t, time.Hour, s.presignExpiry)
	})
}

func TestS3ImageStorage_PublicURL(t *testing.T) {
	t.Run("path style endpoint", func(t *testing.T) {
		s, err := NewS3ImageStorage(baseConfig("http://localhost:9000"))
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:9000/product-images/products/a/1.jpg", s.PublicURL("products/a/1.jpg"))
	})

	t.Run("virtual host endpoint", func(t *testing.T) {
		cfg := baseConfig("https://s3.example.net")
		cfg.UsePathStyle = false
		s, err := NewS3ImageStorage(cfg)
		require.NoError(t, err)
		assert.Equal(t, "https://product-images.s3.example.net/k.png", s.PublicURL("k.png"))
	})

	t.Run("aws", func(t *testing.T) {
		cfg := baseConfig("")
		cfg.Region = "eu-west-1"
		s, err := NewS3ImageStorage(cfg)
		require.NoError(t, err)
		assert.Equal(t, "https://product-images.s3.eu-west-1.amazonaws.com/k.png", s.PublicURL("k.png"))
	})

	t.Run("cdn base wins", func(t *testing.T) {
		cfg := baseConfig("http://localhost:9000")
		cfg.PublicBaseURL = "https://cdn.shop.test/"
		s, err := NewS3ImageStorage(cfg)
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.shop.test/k.png", s.PublicURL("/k.png"))
	})
}

func TestS3ImageStorage_PresignUpload(t *testing.T) {
	s, err := NewS3ImageStorage(baseConfig("http://localhost:9000"))
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("empty key", func(t *testing.T) {
		_, err := s.PresignUpload(ctx, "", "image/jpeg")
		assert.ErrorContains(t, err, "storage key is required")
	})

	t.Run("signed put url", func(t *testing.T) {
		target, err := s.PresignUpload(ctx, "products/a/1.jpg", "image/jpeg")
		require.NoError(t, err)
		assert.Equal(t, "PUT", target.Method)
		assert.Equal(t, "products/a/1.jpg", target.Key)
		assert.Equal(t, "image/jpeg", target.Headers["Content-Type"])
		assert.True(t, strings.HasPrefix(target.URL, "http://localhost:9000/product-images/products/a/1.jpg?"))
		assert.Contains(t, target.URL, "X-Amz-Signature=")
		assert.True(t, target.ExpiresAt.Before(time.Now().Add(16*time.Minute)))
	})
}

// fakeS3 answers HEAD and DELETE for a set of keys the way MinIO does
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string]bool
	deleted []string
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := strings.TrimPrefix(r.URL.Path, "/product-images/")
	switch r.Method {
	case http.MethodHead:
		if key == "broken.jpg" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		if !f.objects[key] {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Length", "3")
		w.WriteHeader(http.StatusOK)
	case http.MethodDelete:
		delete(f.objects, key)
		f.deleted = append(f.deleted, key)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func TestS3ImageStorage_ExistsAndDelete(t *testing.T) {
	fake := &fakeS3{objects: map[string]bool{"products/a/1.jpg": true}}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	s, err := NewS3ImageStorage(baseConfig(srv.URL))
	require.NoError(t, err)
	ctx := context.Background()

	exists, err := s.Exists(ctx, "products/a/1.jpg")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = s.Exists(ctx, "products/a/2.jpg")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = s.Exists(ctx, "broken.jpg")
	assert.Error(t, err)

	require.NoError(t, s.Delete(ctx, "products/a/1.jpg"))
	assert.Equal(t, []string{"products/a/1.jpg"}, fake.deleted)

	exists, err = s.Exists(ctx, "products/a/1.jpg")
	require.NoError(t, err)
	assert.False(t, exists)
}
