package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"gorm.io/gorm"
)

// GormReviewRepository implements ReviewRepository using GORM
type GormReviewRepository struct {
	gormCrud[catalog.Review]
}

// NewGormReviewRepository creates a new GormReviewRepository
func NewGormReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{newGormCrud[catalog.Review](db, queryOptions{
		searchColumns: []string{"title", "body", "author_name"},
		sortFields:    ReviewSortFields,
		filterColumns: map[string]string{
			"product_id":  "product_id",
			"user_id":     "user_id",
			"is_approved": "is_approved",
			"rating":      "rating",
		},
	})}
}

// RatingSummary returns the average rating and count of approved reviews
func (r *GormReviewRepository) RatingSummary(ctx context.Context, productID uuid.UUID) (float64, int64, error) {
	var row struct {
		Average float64
		Total   int64
	}
	if err := r.db.WithContext(ctx).
		Model(&catalog.Review{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS total").
		Where("product_id = ? AND is_approved = ?", productID, true).
		Scan(&row).Error; err != nil {
		return 0, 0, err
	}
	return row.Average, row.Total, nil
}

// Ensure GormReviewRepository implements ReviewRepository
var _ catalog.ReviewRepository = (*GormReviewRepository)(nil)
