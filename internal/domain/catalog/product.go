package catalog

import (
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/datatypes"
)

// DefaultLowStockThreshold is the stock level at or below which a product is reported as low
const DefaultLowStockThreshold = 5

// Product is a sellable item owned by a vendor
type Product struct {
	shared.BaseEntity
	VendorID      uuid.UUID                      `gorm:"type:uuid;not null;index"`
	CategoryID    *uuid.UUID                     `gorm:"type:uuid;index"`
	Name          string                         `gorm:"type:varchar(200);not null"`
	Slug          string                         `gorm:"type:varchar(220);not null;index"`
	SKU           string                         `gorm:"column:sku;type:varchar(64);not null;uniqueIndex"`
	Description   string                         `gorm:"type:text"`
	Price         decimal.Decimal                `gorm:"type:decimal(12,2);not null;default:0"`
	DiscountID    *uuid.UUID                     `gorm:"type:uuid;index"`
	Stock         int                            `gorm:"not null;default:0"`
	IsActive      bool                           `gorm:"not null;index"`
	IsFeatured    bool                           `gorm:"not null;default:false"`
	TrendingScore int                            `gorm:"not null;default:0;index"`
	ColorIDs      datatypes.JSONSlice[uuid.UUID] `gorm:"column:color_ids"`
	MaterialIDs   datatypes.JSONSlice[uuid.UUID] `gorm:"column:material_ids"`
	Images        []ProductImage                 `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new active product for a vendor
func NewProduct(vendorID uuid.UUID, name, sku string, price decimal.Decimal) (*Product, error) {
	if vendorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_VENDOR", "Vendor is required")
	}
	if err := validateSKU(sku); err != nil {
		return nil, err
	}

	p := &Product{
		BaseEntity:  shared.NewBaseEntity(),
		VendorID:    vendorID,
		SKU:         strings.ToUpper(strings.TrimSpace(sku)),
		IsActive:    true,
		ColorIDs:    datatypes.JSONSlice[uuid.UUID]{},
		MaterialIDs: datatypes.JSONSlice[uuid.UUID]{},
		Images:      make([]ProductImage, 0),
	}
	if err := p.Update(name, "", nil); err != nil {
		return nil, err
	}
	if err := p.SetPrice(price); err != nil {
		return nil, err
	}
	return p, nil
}

// Update changes the descriptive fields of the product
func (p *Product) Update(name, description string, categoryID *uuid.UUID) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	p.Name = name
	p.Slug = shared.Slugify(name)
	p.Description = strings.TrimSpace(description)
	p.CategoryID = categoryID
	p.Touch()
	return nil
}

// SetPrice sets the list price
func (p *Product) SetPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	p.Price = price.Round(2)
	p.Touch()
	return nil
}

// SetStock sets the units on hand
func (p *Product) SetStock(stock int) error {
	if stock < 0 {
		return shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}
	p.Stock = stock
	p.Touch()
	return nil
}

// SetDiscount attaches or clears a discount
func (p *Product) SetDiscount(discountID *uuid.UUID) {
	p.DiscountID = discountID
	p.Touch()
}

// SetAttributes replaces the color and material references
func (p *Product) SetAttributes(colorIDs, materialIDs []uuid.UUID) {
	p.ColorIDs = datatypes.JSONSlice[uuid.UUID](dedupe(colorIDs))
	p.MaterialIDs = datatypes.JSONSlice[uuid.UUID](dedupe(materialIDs))
	p.Touch()
}

// ToggleActive flips the active flag and returns the new value
func (p *Product) ToggleActive() bool {
	p.IsActive = !p.IsActive
	p.Touch()
	return p.IsActive
}

// ToggleFeatured flips the featured flag and returns the new value
func (p *Product) ToggleFeatured() bool {
	p.IsFeatured = !p.IsFeatured
	p.Touch()
	return p.IsFeatured
}

// IsLowStock reports whether stock is at or below the threshold
func (p *Product) IsLowStock(threshold int) bool {
	return p.Stock <= threshold
}

// FinalPrice returns the price after applying the discount, if any
func (p *Product) FinalPrice(discount *Discount) decimal.Decimal {
	if discount == nil || p.DiscountID == nil || *p.DiscountID != discount.ID {
		return p.Price
	}
	return discount.Apply(p.Price)
}

// AddImage appends an image to the gallery. The first image becomes primary.
func (p *Product) AddImage(url, storageKey string) (*ProductImage, error) {
	img, err := NewProductImage(p.ID, url, storageKey, len(p.Images))
	if err != nil {
		return nil, err
	}
	img.IsPrimary = len(p.Images) == 0
	p.Images = append(p.Images, *img)
	p.Touch()
	return &p.Images[len(p.Images)-1], nil
}

// RemoveImage drops an image and renumbers the rest
func (p *Product) RemoveImage(imageID uuid.UUID) error {
	images := p.SortedImages()
	idx := -1
	for i := range images {
		if images[i].ID == imageID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return shared.NewDomainError("IMAGE_NOT_FOUND", "Image does not belong to this product")
	}
	p.Images = append(images[:idx], images[idx+1:]...)
	p.renumberImages()
	return nil
}

// ReorderImages sets the gallery order. ids must list every image exactly once.
// The first image becomes primary.
func (p *Product) ReorderImages(ids []uuid.UUID) error {
	if len(ids) != len(p.Images) {
		return shared.NewDomainError("INVALID_IMAGE_ORDER", "Image order must list every image exactly once")
	}
	byID := make(map[uuid.UUID]ProductImage, len(p.Images))
	for _, img := range p.Images {
		byID[img.ID] = img
	}
	ordered := make([]ProductImage, 0, len(ids))
	for _, id := range ids {
		img, ok := byID[id]
		if !ok {
			return shared.NewDomainError("INVALID_IMAGE_ORDER", "Image order must list every image exactly once")
		}
		delete(byID, id)
		ordered = append(ordered, img)
	}
	p.Images = ordered
	p.renumberImages()
	return nil
}

// SortedImages returns a copy of the gallery ordered by SortOrder
func (p *Product) SortedImages() []ProductImage {
	images := make([]ProductImage, len(p.Images))
	copy(images, p.Images)
	sort.SliceStable(images, func(i, j int) bool {
		return images[i].SortOrder < images[j].SortOrder
	})
	return images
}

// PrimaryImage returns the primary image, or nil for an empty gallery
func (p *Product) PrimaryImage() *ProductImage {
	for i := range p.Images {
		if p.Images[i].IsPrimary {
			return &p.Images[i]
		}
	}
	return nil
}

func (p *Product) renumberImages() {
	for i := range p.Images {
		p.Images[i].SortOrder = i
		p.Images[i].IsPrimary = i == 0
	}
	p.Touch()
}

func validateSKU(sku string) error {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}
	if len(sku) > 64 {
		return shared.NewDomainError("INVALID_SKU", "SKU cannot exceed 64 characters")
	}
	return nil
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok || id == uuid.Nil {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
