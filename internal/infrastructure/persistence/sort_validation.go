package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// withCommon returns the common fields plus extra
func withCommon(extra ...string) map[string]bool {
	fields := make(map[string]bool, len(CommonSortFields)+len(extra))
	for k := range CommonSortFields {
		fields[k] = true
	}
	for _, f := range extra {
		fields[f] = true
	}
	return fields
}

var (
	// CategorySortFields contains allowed sort fields for categories
	CategorySortFields = withCommon("name", "slug", "sort_order", "is_active")
	// ColorSortFields contains allowed sort fields for colors
	ColorSortFields = withCommon("name", "hex_code", "is_active")
	// MaterialSortFields contains allowed sort fields for materials
	MaterialSortFields = withCommon("name", "is_active")
	// DiscountSortFields contains allowed sort fields for discounts
	DiscountSortFields = withCommon("percentage", "label", "is_active")
	// ProductSortFields contains allowed sort fields for products
	ProductSortFields = withCommon("name", "sku", "price", "stock", "is_active", "is_featured", "trending_score")
	// ReviewSortFields contains allowed sort fields for reviews
	ReviewSortFields = withCommon("rating", "is_approved")
	// OrderSortFields contains allowed sort fields for orders
	OrderSortFields = withCommon("number", "status", "total", "status_changed_at")
	// UserSortFields contains allowed sort fields for users
	UserSortFields = withCommon("email", "name", "role", "is_active", "last_login_at")
	// VendorSortFields contains allowed sort fields for vendors
	VendorSortFields = withCommon("name", "slug", "is_active")
	// AdminLogSortFields contains allowed sort fields for admin logs
	AdminLogSortFields = withCommon("action", "resource", "actor_email")
)
