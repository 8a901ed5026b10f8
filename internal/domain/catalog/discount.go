package catalog

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// Discount is a percentage reduction that can be attached to products
type Discount struct {
	shared.BaseEntity
	Percentage int    `gorm:"not null"`
	Label      string `gorm:"type:varchar(50);not null"`
	IsActive   bool   `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Discount) TableName() string {
	return "discounts"
}

// NewDiscount creates a new active discount.
// An empty label is filled with the percentage, e.g. "25%".
func NewDiscount(percentage int, label string) (*Discount, error) {
	d := &Discount{BaseEntity: shared.NewBaseEntity(), IsActive: true}
	if err := d.Update(percentage, label); err != nil {
		return nil, err
	}
	return d, nil
}

// Update changes percentage and label, with the same label fill rule as NewDiscount
func (d *Discount) Update(percentage int, label string) error {
	if percentage < 1 || percentage > 100 {
		return shared.NewDomainError("INVALID_PERCENTAGE", "Percentage must be between 1 and 100")
	}
	label = strings.TrimSpace(label)
	if label == "" {
		label = DefaultDiscountLabel(percentage)
	}
	if len(label) > 50 {
		return shared.NewDomainError("INVALID_LABEL", "Label cannot exceed 50 characters")
	}
	d.Percentage = percentage
	d.Label = label
	d.Touch()
	return nil
}

// ToggleActive flips the active flag and returns the new value
func (d *Discount) ToggleActive() bool {
	d.IsActive = !d.IsActive
	d.Touch()
	return d.IsActive
}

// Apply returns price reduced by the discount, rounded to cents
func (d *Discount) Apply(price decimal.Decimal) decimal.Decimal {
	if d == nil || !d.IsActive {
		return price
	}
	factor := decimal.NewFromInt(int64(100 - d.Percentage)).Div(decimal.NewFromInt(100))
	return price.Mul(factor).Round(2)
}

// DefaultDiscountLabel renders a percentage label
func DefaultDiscountLabel(percentage int) string {
	return fmt.Sprintf("%d%%", percentage)
}
