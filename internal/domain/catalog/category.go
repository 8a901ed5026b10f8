package catalog

import (
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// Category represents a product category. Categories form a tree through ParentID.
type Category struct {
	shared.BaseEntity
	Name      string     `gorm:"type:varchar(100);not null"`
	Slug      string     `gorm:"type:varchar(120);not null;uniqueIndex"`
	ParentID  *uuid.UUID `gorm:"type:uuid;index"`
	ImageURL  string     `gorm:"type:varchar(500)"`
	SortOrder int        `gorm:"not null;default:0"`
	IsActive  bool       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// NewCategory creates a new active category, optionally under a parent
func NewCategory(name string, parentID *uuid.UUID) (*Category, error) {
	if err := validateCategoryName(name); err != nil {
		return nil, err
	}

	category := &Category{
		BaseEntity: shared.NewBaseEntity(),
		Name:       strings.TrimSpace(name),
		Slug:       shared.Slugify(name),
		IsActive:   true,
	}
	if err := category.SetParent(parentID); err != nil {
		return nil, err
	}
	return category, nil
}

// Update changes the display fields of the category
func (c *Category) Update(name, imageURL string, sortOrder int) error {
	if err := validateCategoryName(name); err != nil {
		return err
	}
	c.Name = strings.TrimSpace(name)
	c.Slug = shared.Slugify(name)
	c.ImageURL = strings.TrimSpace(imageURL)
	c.SortOrder = sortOrder
	c.Touch()
	return nil
}

// SetParent moves the category under another category, or to the root when nil
func (c *Category) SetParent(parentID *uuid.UUID) error {
	if parentID != nil && *parentID == c.ID {
		return shared.NewDomainError("INVALID_PARENT", "Category cannot be its own parent")
	}
	c.ParentID = parentID
	c.Touch()
	return nil
}

// ToggleActive flips the active flag and returns the new value
func (c *Category) ToggleActive() bool {
	c.IsActive = !c.IsActive
	c.Touch()
	return c.IsActive
}

// IsRoot returns true if this is a top-level category
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}

func validateCategoryName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Category name cannot exceed 100 characters")
	}
	if shared.Slugify(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Category name must contain letters or digits")
	}
	return nil
}

// CategoryNode is a category with its children, used for tree rendering
type CategoryNode struct {
	Category *Category
	Children []*CategoryNode
}

// BuildCategoryTree arranges a flat list into a forest ordered by SortOrder then Name.
// Categories whose parent is not in the list are treated as roots.
func BuildCategoryTree(categories []Category) []*CategoryNode {
	nodes := make(map[uuid.UUID]*CategoryNode, len(categories))
	for i := range categories {
		nodes[categories[i].ID] = &CategoryNode{Category: &categories[i]}
	}

	roots := make([]*CategoryNode, 0)
	for i := range categories {
		node := nodes[categories[i].ID]
		if pid := categories[i].ParentID; pid != nil {
			if parent, ok := nodes[*pid]; ok {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}

	sortNodes(roots)
	return roots
}

func sortNodes(nodes []*CategoryNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		a, b := nodes[i].Category, nodes[j].Category
		if a.SortOrder != b.SortOrder {
			return a.SortOrder < b.SortOrder
		}
		return a.Name < b.Name
	})
	for _, n := range nodes {
		sortNodes(n.Children)
	}
}
