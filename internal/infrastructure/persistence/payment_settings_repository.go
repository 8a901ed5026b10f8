package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/settings"
	"gorm.io/gorm"
)

// GormPaymentSettingsRepository implements PaymentSettingsRepository using GORM
type GormPaymentSettingsRepository struct {
	db *gorm.DB
}

// NewGormPaymentSettingsRepository creates a new GormPaymentSettingsRepository
func NewGormPaymentSettingsRepository(db *gorm.DB) *GormPaymentSettingsRepository {
	return &GormPaymentSettingsRepository{db: db}
}

// FindByVendor finds the settings of a vendor
func (r *GormPaymentSettingsRepository) FindByVendor(ctx context.Context, vendorID uuid.UUID) (*settings.PaymentSettings, error) {
	var s settings.PaymentSettings
	if err := r.db.WithContext(ctx).Where("vendor_id = ?", vendorID).First(&s).Error; err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}

// Save creates or updates the settings row
func (r *GormPaymentSettingsRepository) Save(ctx context.Context, s *settings.PaymentSettings) error {
	return r.db.WithContext(ctx).Save(s).Error
}

// Ensure GormPaymentSettingsRepository implements PaymentSettingsRepository
var _ settings.PaymentSettingsRepository = (*GormPaymentSettingsRepository)(nil)
