package catalog

import (
	"strings"

	"github.com/storefront/backend/internal/domain/shared"
)

// Material is a fabric or product material
type Material struct {
	shared.BaseEntity
	Name        string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Description string `gorm:"type:text"`
	IsActive    bool   `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Material) TableName() string {
	return "materials"
}

// NewMaterial creates a new active material
func NewMaterial(name, description string) (*Material, error) {
	m := &Material{BaseEntity: shared.NewBaseEntity(), IsActive: true}
	if err := m.Update(name, description); err != nil {
		return nil, err
	}
	return m, nil
}

// Update changes name and description
func (m *Material) Update(name, description string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Material name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Material name cannot exceed 100 characters")
	}
	m.Name = name
	m.Description = strings.TrimSpace(description)
	m.Touch()
	return nil
}

// ToggleActive flips the active flag and returns the new value
func (m *Material) ToggleActive() bool {
	m.IsActive = !m.IsActive
	m.Touch()
	return m.IsActive
}
