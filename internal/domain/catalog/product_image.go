package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// ProductImage is one picture in a product gallery
type ProductImage struct {
	shared.BaseEntity
	ProductID  uuid.UUID `gorm:"type:uuid;not null;index"`
	URL        string    `gorm:"column:url;type:varchar(1000);not null"`
	StorageKey string    `gorm:"type:varchar(500)"`
	SortOrder  int       `gorm:"not null;default:0"`
	IsPrimary  bool      `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (ProductImage) TableName() string {
	return "product_images"
}

// NewProductImage creates a gallery entry
func NewProductImage(productID uuid.UUID, url, storageKey string, sortOrder int) (*ProductImage, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, shared.NewDomainError("INVALID_IMAGE", "Image URL cannot be empty")
	}
	return &ProductImage{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  productID,
		URL:        url,
		StorageKey: storageKey,
		SortOrder:  sortOrder,
	}, nil
}
