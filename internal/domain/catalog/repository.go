package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	shared.CrudRepository[Category]

	// FindBySlug finds a category by its slug
	FindBySlug(ctx context.Context, slug string) (*Category, error)

	// HasChildren checks if a category has any children
	HasChildren(ctx context.Context, id uuid.UUID) (bool, error)

	// HasProducts checks if any product references the category
	HasProducts(ctx context.Context, id uuid.UUID) (bool, error)
}

// ColorRepository defines the interface for color persistence
type ColorRepository interface {
	shared.CrudRepository[Color]
}

// MaterialRepository defines the interface for material persistence
type MaterialRepository interface {
	shared.CrudRepository[Material]
}

// DiscountRepository defines the interface for discount persistence
type DiscountRepository interface {
	shared.CrudRepository[Discount]

	// FindByIDs loads several discounts at once, ignoring unknown ids
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Discount, error)
}

// ProductRepository defines the interface for product persistence.
// Products are loaded with their image gallery.
type ProductRepository interface {
	shared.CrudRepository[Product]

	// FindBySKU finds a product by its SKU
	FindBySKU(ctx context.Context, sku string) (*Product, error)

	// FindByIDs loads several products at once, ignoring unknown ids
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)

	// FindTrending returns active products ordered by trending score
	FindTrending(ctx context.Context, limit int) ([]Product, error)

	// DeleteImage removes one gallery row
	DeleteImage(ctx context.Context, productID, imageID uuid.UUID) error
}

// ReviewRepository defines the interface for review persistence
type ReviewRepository interface {
	shared.CrudRepository[Review]

	// RatingSummary returns the average rating and count of approved reviews
	RatingSummary(ctx context.Context, productID uuid.UUID) (float64, int64, error)
}
