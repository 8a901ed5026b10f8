package catalog

import (
	"context"
	"time"
)

// ImageStorage is the object store product images are uploaded to
type ImageStorage interface {
	// PresignUpload returns a URL the browser can PUT the file to
	PresignUpload(ctx context.Context, key, contentType string) (*UploadTarget, error)
	// Exists reports whether an object was uploaded under key
	Exists(ctx context.Context, key string) (bool, error)
	// Delete removes the object under key
	Delete(ctx context.Context, key string) error
	// PublicURL returns the URL the storefront serves the object from
	PublicURL(key string) string
}

// UploadTarget describes a presigned upload
type UploadTarget struct {
	URL       string            `json:"url"`
	Method    string            `json:"method"`
	Key       string            `json:"storage_key"`
	Headers   map[string]string `json:"headers,omitempty"`
	ExpiresAt time.Time         `json:"expires_at"`
}

// ImportConfig bounds the bulk product operations
type ImportConfig struct {
	MaxItems      int
	ImportTimeout time.Duration
	UpdateTimeout time.Duration
}

// DefaultImportConfig returns the limits used when none are configured
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		MaxItems:      500,
		ImportTimeout: 60 * time.Second,
		UpdateTimeout: 30 * time.Second,
	}
}
