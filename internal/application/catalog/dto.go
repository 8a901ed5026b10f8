package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

// ToggleResponse reports the new value of a flipped flag
type ToggleResponse struct {
	ID    uuid.UUID `json:"id"`
	Field string    `json:"field"`
	Value bool      `json:"value"`
}

// ---------------------------------------------------------------------------
// Categories
// ---------------------------------------------------------------------------

// CategoryListFilter represents filter options for the category list
type CategoryListFilter struct {
	shared.PageQuery
	ParentID *uuid.UUID `form:"-"`
	IsActive *bool      `form:"is_active"`
	RootOnly bool       `form:"root_only"`
}

// CreateCategoryRequest represents a request to create a category
type CreateCategoryRequest struct {
	Name      string     `json:"name" binding:"required,min=1,max=100"`
	ParentID  *uuid.UUID `json:"parent_id"`
	ImageURL  string     `json:"image_url" binding:"omitempty,url,max=500"`
	SortOrder int        `json:"sort_order"`
}

// UpdateCategoryRequest represents a request to update a category.
// Nil fields are left unchanged; ClearParent moves the category to the root.
type UpdateCategoryRequest struct {
	Name        *string    `json:"name" binding:"omitempty,min=1,max=100"`
	ParentID    *uuid.UUID `json:"parent_id"`
	ClearParent bool       `json:"clear_parent"`
	ImageURL    *string    `json:"image_url" binding:"omitempty,max=500"`
	SortOrder   *int       `json:"sort_order"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Slug      string     `json:"slug"`
	ParentID  *uuid.UUID `json:"parent_id"`
	ImageURL  string     `json:"image_url"`
	SortOrder int        `json:"sort_order"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CategoryTreeNode is one category with its children
type CategoryTreeNode struct {
	CategoryResponse
	Children []CategoryTreeNode `json:"children"`
}

// ToCategoryResponse converts a domain Category to CategoryResponse
func ToCategoryResponse(c *catalog.Category) CategoryResponse {
	return CategoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		Slug:      c.Slug,
		ParentID:  c.ParentID,
		ImageURL:  c.ImageURL,
		SortOrder: c.SortOrder,
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// ToCategoryResponses converts a slice of domain Categories
func ToCategoryResponses(categories []catalog.Category) []CategoryResponse {
	out := make([]CategoryResponse, len(categories))
	for i := range categories {
		out[i] = ToCategoryResponse(&categories[i])
	}
	return out
}

func toCategoryTree(nodes []*catalog.CategoryNode) []CategoryTreeNode {
	out := make([]CategoryTreeNode, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, CategoryTreeNode{
			CategoryResponse: ToCategoryResponse(n.Category),
			Children:         toCategoryTree(n.Children),
		})
	}
	return out
}

// ---------------------------------------------------------------------------
// Colors, materials, discounts
// ---------------------------------------------------------------------------

// TaxonomyListFilter is the list filter shared by colors, materials and discounts
type TaxonomyListFilter struct {
	shared.PageQuery
	IsActive *bool `form:"is_active"`
}

// ColorRequest represents a request to create or update a color
type ColorRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=50"`
	HexCode string `json:"hex_code" binding:"required,hexcolor"`
}

// ColorResponse represents a color in API responses
type ColorResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	HexCode   string    `json:"hex_code"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToColorResponse converts a domain Color to ColorResponse
func ToColorResponse(c *catalog.Color) ColorResponse {
	return ColorResponse{
		ID:        c.ID,
		Name:      c.Name,
		HexCode:   c.HexCode,
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// MaterialRequest represents a request to create or update a material
type MaterialRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"max=2000"`
}

// MaterialResponse represents a material in API responses
type MaterialResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToMaterialResponse converts a domain Material to MaterialResponse
func ToMaterialResponse(m *catalog.Material) MaterialResponse {
	return MaterialResponse{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		IsActive:    m.IsActive,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// DiscountRequest represents a request to create or update a discount.
// An empty label is filled with "<percentage>%".
type DiscountRequest struct {
	Percentage int    `json:"percentage" binding:"required,min=1,max=100"`
	Label      string `json:"label" binding:"max=50"`
}

// DiscountResponse represents a discount in API responses
type DiscountResponse struct {
	ID         uuid.UUID `json:"id"`
	Percentage int       `json:"percentage"`
	Label      string    `json:"label"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ToDiscountResponse converts a domain Discount to DiscountResponse
func ToDiscountResponse(d *catalog.Discount) DiscountResponse {
	return DiscountResponse{
		ID:         d.ID,
		Percentage: d.Percentage,
		Label:      d.Label,
		IsActive:   d.IsActive,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

// ---------------------------------------------------------------------------
// Products
// ---------------------------------------------------------------------------

// ProductListFilter represents filter options for the product list
type ProductListFilter struct {
	shared.PageQuery
	CategoryID *uuid.UUID       `form:"-"`
	VendorID   *uuid.UUID       `form:"-"`
	IsActive   *bool            `form:"is_active"`
	IsFeatured *bool            `form:"is_featured"`
	LowStock   bool             `form:"low_stock"`
	MinPrice   *decimal.Decimal `form:"-"`
	MaxPrice   *decimal.Decimal `form:"-"`
}

// CreateProductRequest represents a request to create a product.
// VendorID is required for admins and ignored for sellers.
type CreateProductRequest struct {
	VendorID    *uuid.UUID      `json:"vendor_id"`
	CategoryID  *uuid.UUID      `json:"category_id"`
	Name        string          `json:"name" binding:"required,min=1,max=200"`
	SKU         string          `json:"sku" binding:"required,min=1,max=64"`
	Description string          `json:"description" binding:"max=5000"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	Stock       int             `json:"stock" binding:"min=0"`
	DiscountID  *uuid.UUID      `json:"discount_id"`
	ColorIDs    []uuid.UUID     `json:"color_ids"`
	MaterialIDs []uuid.UUID     `json:"material_ids"`
	IsFeatured  bool            `json:"is_featured"`
}

// UpdateProductRequest represents a request to update a product.
// Nil fields are left unchanged.
type UpdateProductRequest struct {
	CategoryID    *uuid.UUID       `json:"category_id"`
	ClearCategory bool             `json:"clear_category"`
	Name          *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Description   *string          `json:"description" binding:"omitempty,max=5000"`
	Price         *decimal.Decimal `json:"price"`
	Stock         *int             `json:"stock" binding:"omitempty,min=0"`
	DiscountID    *uuid.UUID       `json:"discount_id"`
	ClearDiscount bool             `json:"clear_discount"`
	ColorIDs      *[]uuid.UUID     `json:"color_ids"`
	MaterialIDs   *[]uuid.UUID     `json:"material_ids"`
}

// ImportProductsRequest is the bulk import payload
type ImportProductsRequest struct {
	VendorID *uuid.UUID             `json:"vendor_id"`
	Items    []CreateProductRequest `json:"items" binding:"required,min=1,dive"`
}

// BulkUpdateItem changes price and/or stock of one product
type BulkUpdateItem struct {
	ID    uuid.UUID        `json:"id" binding:"required"`
	Price *decimal.Decimal `json:"price"`
	Stock *int             `json:"stock" binding:"omitempty,min=0"`
}

// BulkUpdateRequest is the bulk price/stock update payload
type BulkUpdateRequest struct {
	Items []BulkUpdateItem `json:"items" binding:"required,min=1,dive"`
}

// BulkItemResult reports the outcome for one row of a bulk operation
type BulkItemResult struct {
	Index int        `json:"index"`
	ID    *uuid.UUID `json:"id,omitempty"`
	SKU   string     `json:"sku,omitempty"`
	Error string     `json:"error,omitempty"`
}

// BulkResult summarises a bulk operation. Rows are processed independently.
type BulkResult struct {
	Total     int              `json:"total"`
	Succeeded int              `json:"succeeded"`
	Failed    int              `json:"failed"`
	Results   []BulkItemResult `json:"results"`
}

func (r *BulkResult) add(item BulkItemResult) {
	r.Results = append(r.Results, item)
	if item.Error == "" {
		r.Succeeded++
	} else {
		r.Failed++
	}
}

// ProductImageResponse represents a gallery image in API responses
type ProductImageResponse struct {
	ID        uuid.UUID `json:"id"`
	URL       string    `json:"url"`
	SortOrder int       `json:"sort_order"`
	IsPrimary bool      `json:"is_primary"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID            uuid.UUID              `json:"id"`
	VendorID      uuid.UUID              `json:"vendor_id"`
	CategoryID    *uuid.UUID             `json:"category_id"`
	Name          string                 `json:"name"`
	Slug          string                 `json:"slug"`
	SKU           string                 `json:"sku"`
	Description   string                 `json:"description"`
	Price         decimal.Decimal        `json:"price"`
	FinalPrice    decimal.Decimal        `json:"final_price"`
	DiscountID    *uuid.UUID             `json:"discount_id"`
	Discount      *DiscountResponse      `json:"discount,omitempty"`
	Stock         int                    `json:"stock"`
	LowStock      bool                   `json:"low_stock"`
	IsActive      bool                   `json:"is_active"`
	IsFeatured    bool                   `json:"is_featured"`
	TrendingScore int                    `json:"trending_score"`
	ColorIDs      []uuid.UUID            `json:"color_ids"`
	MaterialIDs   []uuid.UUID            `json:"material_ids"`
	Images        []ProductImageResponse `json:"images"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

// ToProductResponse converts a domain Product to ProductResponse.
// discount may be nil; it is only applied when it matches the product.
func ToProductResponse(p *catalog.Product, discount *catalog.Discount) ProductResponse {
	images := p.SortedImages()
	imgs := make([]ProductImageResponse, len(images))
	for i, img := range images {
		imgs[i] = ProductImageResponse{ID: img.ID, URL: img.URL, SortOrder: img.SortOrder, IsPrimary: img.IsPrimary}
	}

	resp := ProductResponse{
		ID:            p.ID,
		VendorID:      p.VendorID,
		CategoryID:    p.CategoryID,
		Name:          p.Name,
		Slug:          p.Slug,
		SKU:           p.SKU,
		Description:   p.Description,
		Price:         p.Price,
		FinalPrice:    p.FinalPrice(discount),
		DiscountID:    p.DiscountID,
		Stock:         p.Stock,
		LowStock:      p.IsLowStock(catalog.DefaultLowStockThreshold),
		IsActive:      p.IsActive,
		IsFeatured:    p.IsFeatured,
		TrendingScore: p.TrendingScore,
		ColorIDs:      append([]uuid.UUID{}, p.ColorIDs...),
		MaterialIDs:   append([]uuid.UUID{}, p.MaterialIDs...),
		Images:        imgs,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if discount != nil && p.DiscountID != nil && *p.DiscountID == discount.ID {
		d := ToDiscountResponse(discount)
		resp.Discount = &d
	}
	return resp
}

// ProductDetailResponse is the storefront product page
type ProductDetailResponse struct {
	ProductResponse
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int64   `json:"review_count"`
}

// ---------------------------------------------------------------------------
// Images
// ---------------------------------------------------------------------------

// PresignImageRequest asks for an upload URL for a new gallery image
type PresignImageRequest struct {
	FileName    string `json:"file_name" binding:"required,max=255"`
	ContentType string `json:"content_type" binding:"required"`
}

// ConfirmImageRequest attaches an uploaded object to the gallery
type ConfirmImageRequest struct {
	StorageKey string `json:"storage_key" binding:"required,max=500"`
}

// ReorderImagesRequest sets the gallery order
type ReorderImagesRequest struct {
	ImageIDs []uuid.UUID `json:"image_ids" binding:"required,min=1"`
}

// ---------------------------------------------------------------------------
// Reviews
// ---------------------------------------------------------------------------

// ReviewListFilter represents filter options for the review list
type ReviewListFilter struct {
	shared.PageQuery
	ProductID  *uuid.UUID `form:"-"`
	IsApproved *bool      `form:"is_approved"`
	Rating     *int       `form:"rating" binding:"omitempty,min=1,max=5"`
}

// CreateReviewRequest represents a storefront review submission
type CreateReviewRequest struct {
	Rating int    `json:"rating" binding:"required,min=1,max=5"`
	Title  string `json:"title" binding:"max=200"`
	Body   string `json:"body" binding:"max=5000"`
}

// ReviewResponse represents a review in API responses
type ReviewResponse struct {
	ID         uuid.UUID `json:"id"`
	ProductID  uuid.UUID `json:"product_id"`
	UserID     uuid.UUID `json:"user_id"`
	AuthorName string    `json:"author_name"`
	Rating     int       `json:"rating"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	IsApproved bool      `json:"is_approved"`
	CreatedAt  time.Time `json:"created_at"`
}

// ToReviewResponse converts a domain Review to ReviewResponse
func ToReviewResponse(r *catalog.Review) ReviewResponse {
	return ReviewResponse{
		ID:         r.ID,
		ProductID:  r.ProductID,
		UserID:     r.UserID,
		AuthorName: r.AuthorName,
		Rating:     r.Rating,
		Title:      r.Title,
		Body:       r.Body,
		IsApproved: r.IsApproved,
		CreatedAt:  r.CreatedAt,
	}
}
