package persistence

import (
	"context"
	"time"

	"github.com/storefront/backend/internal/domain/content"
	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormHomePageRepository implements HomePageRepository using GORM
type GormHomePageRepository struct {
	db *gorm.DB
}

// NewGormHomePageRepository creates a new GormHomePageRepository
func NewGormHomePageRepository(db *gorm.DB) *GormHomePageRepository {
	return &GormHomePageRepository{db: db}
}

// FindAll returns every stored section ordered by position
func (r *GormHomePageRepository) FindAll(ctx context.Context) ([]content.HomePageContent, error) {
	var rows []content.HomePageContent
	if err := r.db.WithContext(ctx).Order("sort_order ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByKey finds one stored section
func (r *GormHomePageRepository) FindByKey(ctx context.Context, key content.SectionKey) (*content.HomePageContent, error) {
	var row content.HomePageContent
	if err := r.db.WithContext(ctx).Where("section_key = ?", key).First(&row).Error; err != nil {
		return nil, notFound(err)
	}
	return &row, nil
}

// Upsert inserts the section or updates content and order of the existing row.
// The passed struct is refreshed with the stored row.
func (r *GormHomePageRepository) Upsert(ctx context.Context, row *content.HomePageContent) error {
	row.UpdatedAt = time.Now()
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "section_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"content", "sort_order", "updated_at"}),
	}).Create(row).Error
	if err != nil {
		return err
	}
	stored, err := r.FindByKey(ctx, row.SectionKey)
	if err != nil {
		return err
	}
	*row = *stored
	return nil
}

// DeleteByKey removes a stored section
func (r *GormHomePageRepository) DeleteByKey(ctx context.Context, key content.SectionKey) error {
	result := r.db.WithContext(ctx).Where("section_key = ?", key).Delete(&content.HomePageContent{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormHomePageRepository implements HomePageRepository
var _ content.HomePageRepository = (*GormHomePageRepository)(nil)
