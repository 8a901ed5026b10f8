package content

import (
	"context"

	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/datatypes"
)

// HomePageContent is one stored homepage section
type HomePageContent struct {
	shared.BaseEntity
	SectionKey SectionKey     `gorm:"type:varchar(50);not null;uniqueIndex"`
	Content    datatypes.JSON `gorm:"type:jsonb;not null"`
	Order      int            `gorm:"column:sort_order;not null;default:0"`
}

// TableName returns the table name for GORM
func (HomePageContent) TableName() string {
	return "home_page_contents"
}

// NewHomePageContent creates a row for a section at its default position
func NewHomePageContent(key SectionKey, section Section) (*HomePageContent, error) {
	if !key.IsValid() {
		return nil, ErrUnknownSection
	}
	row := &HomePageContent{
		BaseEntity: shared.NewBaseEntity(),
		SectionKey: key,
		Order:      key.DefaultOrder(),
	}
	if err := row.SetSection(section); err != nil {
		return nil, err
	}
	return row, nil
}

// SetSection replaces the stored JSON
func (c *HomePageContent) SetSection(section Section) error {
	b, err := Encode(section)
	if err != nil {
		return err
	}
	c.Content = datatypes.JSON(b)
	c.Touch()
	return nil
}

// Section decodes the stored JSON merged over defaults
func (c *HomePageContent) Section() (Section, error) {
	return Decode(c.SectionKey, c.Content)
}

// HomePageRepository defines the interface for homepage content persistence
type HomePageRepository interface {
	// FindAll returns every stored section ordered by Order
	FindAll(ctx context.Context) ([]HomePageContent, error)

	// FindByKey returns shared.ErrNotFound when the section was never saved
	FindByKey(ctx context.Context, key SectionKey) (*HomePageContent, error)

	// Upsert creates the row or updates content and order of the existing one
	Upsert(ctx context.Context, content *HomePageContent) error

	// DeleteByKey removes a stored section, reverting it to defaults
	DeleteByKey(ctx context.Context, key SectionKey) error
}
