package persistence

import (
	"context"
	"strings"

	"github.com/storefront/backend/internal/domain/identity"
	"gorm.io/gorm"
)

// GormUserRepository implements UserRepository using GORM
type GormUserRepository struct {
	gormCrud[identity.User]
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{newGormCrud[identity.User](db, queryOptions{
		searchColumns: []string{"email", "name", "phone"},
		sortFields:    UserSortFields,
		filterColumns: map[string]string{
			"role":      "role",
			"vendor_id": "vendor_id",
			"is_active": "is_active",
		},
	})}
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	var user identity.User
	if err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// ExistsByEmail checks if the email is taken
func (r *GormUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&identity.User{}).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GormVendorRepository implements VendorRepository using GORM
type GormVendorRepository struct {
	gormCrud[identity.Vendor]
}

// NewGormVendorRepository creates a new GormVendorRepository
func NewGormVendorRepository(db *gorm.DB) *GormVendorRepository {
	return &GormVendorRepository{newGormCrud[identity.Vendor](db, queryOptions{
		searchColumns: []string{"name", "email"},
		sortFields:    VendorSortFields,
		defaultSort:   "name",
		filterColumns: map[string]string{"is_active": "is_active"},
	})}
}

var (
	_ identity.UserRepository   = (*GormUserRepository)(nil)
	_ identity.VendorRepository = (*GormVendorRepository)(nil)
)
