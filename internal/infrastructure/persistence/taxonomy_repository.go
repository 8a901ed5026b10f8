package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"gorm.io/gorm"
)

// GormColorRepository implements ColorRepository using GORM
type GormColorRepository struct {
	gormCrud[catalog.Color]
}

// NewGormColorRepository creates a new GormColorRepository
func NewGormColorRepository(db *gorm.DB) *GormColorRepository {
	return &GormColorRepository{newGormCrud[catalog.Color](db, queryOptions{
		searchColumns: []string{"name", "hex_code"},
		sortFields:    ColorSortFields,
		defaultSort:   "name",
		filterColumns: map[string]string{"is_active": "is_active"},
	})}
}

// GormMaterialRepository implements MaterialRepository using GORM
type GormMaterialRepository struct {
	gormCrud[catalog.Material]
}

// NewGormMaterialRepository creates a new GormMaterialRepository
func NewGormMaterialRepository(db *gorm.DB) *GormMaterialRepository {
	return &GormMaterialRepository{newGormCrud[catalog.Material](db, queryOptions{
		searchColumns: []string{"name", "description"},
		sortFields:    MaterialSortFields,
		defaultSort:   "name",
		filterColumns: map[string]string{"is_active": "is_active"},
	})}
}

// GormDiscountRepository implements DiscountRepository using GORM
type GormDiscountRepository struct {
	gormCrud[catalog.Discount]
}

// NewGormDiscountRepository creates a new GormDiscountRepository
func NewGormDiscountRepository(db *gorm.DB) *GormDiscountRepository {
	return &GormDiscountRepository{newGormCrud[catalog.Discount](db, queryOptions{
		searchColumns: []string{"label"},
		sortFields:    DiscountSortFields,
		defaultSort:   "percentage",
		filterColumns: map[string]string{"is_active": "is_active"},
	})}
}

// FindByIDs loads several discounts at once
func (r *GormDiscountRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Discount, error) {
	var discounts []catalog.Discount
	if len(ids) == 0 {
		return discounts, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&discounts).Error; err != nil {
		return nil, err
	}
	return discounts, nil
}

var (
	_ catalog.ColorRepository    = (*GormColorRepository)(nil)
	_ catalog.MaterialRepository = (*GormMaterialRepository)(nil)
	_ catalog.DiscountRepository = (*GormDiscountRepository)(nil)
)
