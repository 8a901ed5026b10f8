package persistence

import (
	"context"

	"github.com/storefront/backend/internal/domain/audit"
	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormAdminLogRepository implements AdminLogRepository using GORM
type GormAdminLogRepository struct {
	crud gormCrud[audit.AdminLog]
}

// NewGormAdminLogRepository creates a new GormAdminLogRepository
func NewGormAdminLogRepository(db *gorm.DB) *GormAdminLogRepository {
	return &GormAdminLogRepository{crud: newGormCrud[audit.AdminLog](db, queryOptions{
		searchColumns: []string{"actor_email", "resource", "resource_id"},
		sortFields:    AdminLogSortFields,
		filterColumns: map[string]string{
			"action":    "action",
			"resource":  "resource",
			"actor_id":  "actor_id",
			"vendor_id": "vendor_id",
		},
		customFilter: func(query *gorm.DB, key string, value any) (*gorm.DB, bool) {
			switch key {
			case "created_from":
				return query.Where("created_at >= ?", value), true
			case "created_to":
				return query.Where("created_at < ?", value), true
			}
			return query, false
		},
	})}
}

// Create appends a log entry
func (r *GormAdminLogRepository) Create(ctx context.Context, log *audit.AdminLog) error {
	return r.crud.db.WithContext(ctx).Create(log).Error
}

// FindAll finds log entries matching the filter
func (r *GormAdminLogRepository) FindAll(ctx context.Context, filter shared.Filter) ([]audit.AdminLog, error) {
	return r.crud.FindAll(ctx, filter)
}

// Count counts log entries matching the filter
func (r *GormAdminLogRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	return r.crud.Count(ctx, filter)
}

// Ensure GormAdminLogRepository implements AdminLogRepository
var _ audit.AdminLogRepository = (*GormAdminLogRepository)(nil)
