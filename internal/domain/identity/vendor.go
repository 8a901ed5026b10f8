package identity

import (
	"strings"

	"github.com/storefront/backend/internal/domain/shared"
)

// Vendor is a brand selling through the storefront.
// Seller users, products and orders are scoped to one vendor.
type Vendor struct {
	shared.BaseEntity
	Name     string `gorm:"type:varchar(100);not null"`
	Slug     string `gorm:"type:varchar(120);not null;uniqueIndex"`
	Email    string `gorm:"type:varchar(200)"`
	IsActive bool   `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Vendor) TableName() string {
	return "vendors"
}

// NewVendor creates an active vendor
func NewVendor(name, email string) (*Vendor, error) {
	v := &Vendor{BaseEntity: shared.NewBaseEntity(), IsActive: true}
	if err := v.Update(name, email); err != nil {
		return nil, err
	}
	return v, nil
}

// Update changes name and contact email
func (v *Vendor) Update(name, email string) error {
	name = strings.TrimSpace(name)
	if name == "" || shared.Slugify(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Vendor name cannot be empty")
	}
	if email = strings.TrimSpace(email); email != "" {
		if err := validateEmail(email); err != nil {
			return err
		}
	}
	v.Name = name
	v.Slug = shared.Slugify(name)
	v.Email = strings.ToLower(email)
	v.Touch()
	return nil
}

// ToggleActive flips the active flag and returns the new value
func (v *Vendor) ToggleActive() bool {
	v.IsActive = !v.IsActive
	v.Touch()
	return v.IsActive
}
