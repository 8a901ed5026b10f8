package catalog

import (
	"regexp"
	"strings"

	"github.com/storefront/backend/internal/domain/shared"
)

var hexColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Color is a product color swatch
type Color struct {
	shared.BaseEntity
	Name     string `gorm:"type:varchar(50);not null;uniqueIndex"`
	HexCode  string `gorm:"type:varchar(7);not null"`
	IsActive bool   `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Color) TableName() string {
	return "colors"
}

// NewColor creates a new active color
func NewColor(name, hexCode string) (*Color, error) {
	c := &Color{BaseEntity: shared.NewBaseEntity(), IsActive: true}
	if err := c.Update(name, hexCode); err != nil {
		return nil, err
	}
	return c, nil
}

// Update changes name and hex code
func (c *Color) Update(name, hexCode string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Color name cannot be empty")
	}
	if len(name) > 50 {
		return shared.NewDomainError("INVALID_NAME", "Color name cannot exceed 50 characters")
	}
	hexCode = strings.TrimSpace(hexCode)
	if !hexColorPattern.MatchString(hexCode) {
		return shared.NewDomainError("INVALID_HEX_CODE", "Hex code must look like #RRGGBB")
	}
	c.Name = name
	c.HexCode = strings.ToUpper(hexCode)
	c.Touch()
	return nil
}

// ToggleActive flips the active flag and returns the new value
func (c *Color) ToggleActive() bool {
	c.IsActive = !c.IsActive
	c.Touch()
	return c.IsActive
}
