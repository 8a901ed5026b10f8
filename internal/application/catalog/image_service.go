package catalog

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	appaudit "github.com/storefront/backend/internal/application/audit"
	"github.com/storefront/backend/internal/domain/audit"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const resourceProductImage = "product_image"

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// ImageService manages product galleries in object storage
type ImageService struct {
	repo     catalog.ProductRepository
	storage  ImageStorage
	recorder appaudit.Recorder
	logger   *zap.Logger
}

// NewImageService creates a new ImageService. storage may be nil when uploads are not configured.
func NewImageService(repo catalog.ProductRepository, storage ImageStorage, recorder appaudit.Recorder, logger *zap.Logger) *ImageService {
	return &ImageService{repo: repo, storage: storage, recorder: recorder, logger: logger}
}

// PresignUpload returns an upload URL for a new image of a product
func (s *ImageService) PresignUpload(ctx context.Context, scope shared.Scope, productID uuid.UUID, req PresignImageRequest) (*UploadTarget, error) {
	if s.storage == nil {
		return nil, shared.NewDomainError(shared.ErrNotConfigured.Code, "Image uploads are not configured")
	}
	ext, ok := allowedImageTypes[strings.ToLower(req.ContentType)]
	if !ok {
		return nil, shared.NewDomainError("INVALID_CONTENT_TYPE", "Only JPEG, PNG, WebP and GIF images are accepted")
	}
	if _, err := s.find(ctx, scope, productID); err != nil {
		return nil, err
	}

	key := imageKey(productID, ext)
	target, err := s.storage.PresignUpload(ctx, key, req.ContentType)
	if err != nil {
		s.logger.Error("Failed to presign image upload", zap.String("product_id", productID.String()), zap.Error(err))
		return nil, shared.ErrUpstream
	}
	return target, nil
}

// Confirm attaches an uploaded object to the gallery
func (s *ImageService) Confirm(ctx context.Context, scope shared.Scope, productID uuid.UUID, req ConfirmImageRequest) (*ProductImageResponse, error) {
	if s.storage == nil {
		return nil, shared.NewDomainError(shared.ErrNotConfigured.Code, "Image uploads are not configured")
	}
	if !strings.HasPrefix(req.StorageKey, imagePrefix(productID)) {
		return nil, shared.NewDomainError("INVALID_STORAGE_KEY", "Storage key does not belong to this product")
	}
	product, err := s.find(ctx, scope, productID)
	if err != nil {
		return nil, err
	}

	exists, err := s.storage.Exists(ctx, req.StorageKey)
	if err != nil {
		s.logger.Error("Failed to check uploaded image", zap.String("key", req.StorageKey), zap.Error(err))
		return nil, shared.ErrUpstream
	}
	if !exists {
		return nil, shared.NewDomainError("UPLOAD_NOT_FOUND", "The image has not been uploaded yet")
	}

	img, err := product.AddImage(s.storage.PublicURL(req.StorageKey), req.StorageKey)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, product); err != nil {
		return nil, err
	}
	s.recorder.Record(ctx, audit.ActionCreate, resourceProductImage, img.ID.String(), map[string]any{"product_id": productID})
	return &ProductImageResponse{ID: img.ID, URL: img.URL, SortOrder: img.SortOrder, IsPrimary: img.IsPrimary}, nil
}

// Reorder sets the gallery order; the first image becomes primary
func (s *ImageService) Reorder(ctx context.Context, scope shared.Scope, productID uuid.UUID, req ReorderImagesRequest) ([]ProductImageResponse, error) {
	product, err := s.find(ctx, scope, productID)
	if err != nil {
		return nil, err
	}
	if err := product.ReorderImages(req.ImageIDs); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, product); err != nil {
		return nil, err
	}
	s.recorder.Record(ctx, audit.ActionUpdate, resourceProductImage, productID.String(), map[string]any{"order": req.ImageIDs})
	return toImageResponses(product), nil
}

// Delete removes an image from the gallery and from storage. A storage
// failure is logged and does not restore the gallery row.
func (s *ImageService) Delete(ctx context.Context, scope shared.Scope, productID, imageID uuid.UUID) error {
	product, err := s.find(ctx, scope, productID)
	if err != nil {
		return err
	}

	var storageKey string
	for _, img := range product.Images {
		if img.ID == imageID {
			storageKey = img.StorageKey
		}
	}
	if err := product.RemoveImage(imageID); err != nil {
		return err
	}
	if err := s.repo.DeleteImage(ctx, productID, imageID); err != nil {
		return err
	}
	if err := s.repo.Save(ctx, product); err != nil {
		return err
	}

	if storageKey != "" && s.storage != nil {
		if err := s.storage.Delete(ctx, storageKey); err != nil {
			s.logger.Warn("Failed to delete image object", zap.String("key", storageKey), zap.Error(err))
		}
	}
	s.recorder.Record(ctx, audit.ActionDelete, resourceProductImage, imageID.String(), map[string]any{"product_id": productID})
	return nil
}

func (s *ImageService) find(ctx context.Context, scope shared.Scope, id uuid.UUID) (*catalog.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !scope.Allows(product.VendorID) {
		return nil, shared.ErrNotFound
	}
	return product, nil
}

func toImageResponses(p *catalog.Product) []ProductImageResponse {
	images := p.SortedImages()
	out := make([]ProductImageResponse, len(images))
	for i, img := range images {
		out[i] = ProductImageResponse{ID: img.ID, URL: img.URL, SortOrder: img.SortOrder, IsPrimary: img.IsPrimary}
	}
	return out
}

func imagePrefix(productID uuid.UUID) string {
	return fmt.Sprintf("products/%s/", productID)
}

func imageKey(productID uuid.UUID, ext string) string {
	return path.Join(imagePrefix(productID), uuid.NewString()+ext)
}
