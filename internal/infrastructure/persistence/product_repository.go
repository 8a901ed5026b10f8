package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	gormCrud[catalog.Product]
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{newGormCrud[catalog.Product](db, queryOptions{
		searchColumns: []string{"name", "sku", "description"},
		sortFields:    ProductSortFields,
		filterColumns: map[string]string{
			"vendor_id":   "vendor_id",
			"category_id": "category_id",
			"discount_id": "discount_id",
			"is_active":   "is_active",
			"is_featured": "is_featured",
		},
		customFilter: productFilter,
	})}
}

// read preloads the gallery in display order
func (r *GormProductRepository) read(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Images", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order ASC")
	})
}

// FindByID finds a product with its gallery
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.read(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &product, nil
}

// FindAll finds all products matching the filter
func (r *GormProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	var products []catalog.Product
	query := r.applyFilter(r.read(ctx).Model(&catalog.Product{}), filter)
	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindBySKU finds a product by its SKU
func (r *GormProductRepository) FindBySKU(ctx context.Context, sku string) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.read(ctx).Where("sku = ?", strings.ToUpper(strings.TrimSpace(sku))).First(&product).Error; err != nil {
		return nil, notFound(err)
	}
	return &product, nil
}

// FindByIDs loads several products at once
func (r *GormProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	var products []catalog.Product
	if len(ids) == 0 {
		return products, nil
	}
	if err := r.read(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindTrending returns active products ordered by trending score
func (r *GormProductRepository) FindTrending(ctx context.Context, limit int) ([]catalog.Product, error) {
	if limit <= 0 {
		limit = 12
	}
	var products []catalog.Product
	if err := r.read(ctx).
		Where("is_active = ?", true).
		Order("trending_score DESC").
		Order("created_at DESC").
		Limit(limit).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Save creates or updates a product together with its gallery rows
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(product).Error
}

// DeleteImage removes one gallery row
func (r *GormProductRepository) DeleteImage(ctx context.Context, productID, imageID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("product_id = ? AND id = ?", productID, imageID).
		Delete(&catalog.ProductImage{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// productFilter handles the range filters of the product list
func productFilter(query *gorm.DB, key string, value any) (*gorm.DB, bool) {
	switch key {
	case "max_stock":
		return query.Where("stock <= ?", value), true
	case "min_price":
		return query.Where("price >= ?", value), true
	case "max_price":
		return query.Where("price <= ?", value), true
	}
	return query, false
}

// Ensure GormProductRepository implements ProductRepository
var _ catalog.ProductRepository = (*GormProductRepository)(nil)
