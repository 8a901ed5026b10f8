package client

import (
	analyticsapp "github.com/storefront/backend/internal/application/analytics"
	auditapp "github.com/storefront/backend/internal/application/audit"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	identityapp "github.com/storefront/backend/internal/application/identity"
	salesapp "github.com/storefront/backend/internal/application/sales"
	settingsapp "github.com/storefront/backend/internal/application/settings"
)

// Wire types of the API. They alias the server's request and response
// structs, so callers outside this module can name them through this package.

// Auth and accounts
type (
	LoginRequest       = identityapp.LoginRequest
	RefreshRequest     = identityapp.RefreshRequest
	TokenResponse      = identityapp.TokenResponse
	CreateUserRequest  = identityapp.CreateUserRequest
	UserResponse       = identityapp.UserResponse
	UserToggleResponse = identityapp.ToggleResponse
	VendorRequest      = identityapp.VendorRequest
	VendorResponse     = identityapp.VendorResponse
)

// Catalog
type (
	ToggleResponse        = catalogapp.ToggleResponse
	CreateCategoryRequest = catalogapp.CreateCategoryRequest
	CategoryResponse      = catalogapp.CategoryResponse
	CategoryTreeNode      = catalogapp.CategoryTreeNode
	ColorRequest          = catalogapp.ColorRequest
	ColorResponse         = catalogapp.ColorResponse
	MaterialRequest       = catalogapp.MaterialRequest
	MaterialResponse      = catalogapp.MaterialResponse
	DiscountRequest       = catalogapp.DiscountRequest
	DiscountResponse      = catalogapp.DiscountResponse
	CreateProductRequest  = catalogapp.CreateProductRequest
	UpdateProductRequest  = catalogapp.UpdateProductRequest
	ImportProductsRequest = catalogapp.ImportProductsRequest
	BulkUpdateItem        = catalogapp.BulkUpdateItem
	BulkUpdateRequest     = catalogapp.BulkUpdateRequest
	BulkItemResult        = catalogapp.BulkItemResult
	BulkResult            = catalogapp.BulkResult
	ProductImageResponse  = catalogapp.ProductImageResponse
	ProductResponse       = catalogapp.ProductResponse
	ProductDetailResponse = catalogapp.ProductDetailResponse
	ReviewResponse        = catalogapp.ReviewResponse
)

// Orders
type (
	UpdateStatusRequest = salesapp.UpdateStatusRequest
	OrderItemResponse   = salesapp.OrderItemResponse
	OrderResponse       = salesapp.OrderResponse
)

// Analytics, audit and seller settings
type (
	Dashboard                    = analyticsapp.Dashboard
	Totals                       = analyticsapp.Totals
	DayRevenue                   = analyticsapp.DayRevenue
	TopProduct                   = analyticsapp.TopProduct
	LowStockProduct              = analyticsapp.LowStockProduct
	LogResponse                  = auditapp.LogResponse
	PaymentSettingsResponse      = settingsapp.PaymentSettingsResponse
	UpdatePaymentSettingsRequest = settingsapp.UpdatePaymentSettingsRequest
)
