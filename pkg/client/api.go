package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Back-office route prefixes
const (
	AdminPrefix  = "/api/v1/admin"
	SellerPrefix = "/api/v1/seller"
)

// ListParams are the paging, sorting and filter parameters of list calls
type ListParams struct {
	Page     int
	PageSize int
	Search   string
	OrderBy  string
	OrderDir string
	// Filters are endpoint specific, e.g. status=shipped or category_id=...
	Filters map[string]string
}

func (p ListParams) values() url.Values {
	v := url.Values{}
	if p.Page > 0 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	if p.PageSize > 0 {
		v.Set("page_size", strconv.Itoa(p.PageSize))
	}
	if p.Search != "" {
		v.Set("search", p.Search)
	}
	if p.OrderBy != "" {
		v.Set("order_by", p.OrderBy)
	}
	if p.OrderDir != "" {
		v.Set("order_dir", p.OrderDir)
	}
	for k, val := range p.Filters {
		v.Set(k, val)
	}
	return v
}

// ResourceAPI is the call set shared by the admin and seller back-offices
type ResourceAPI interface {
	Prefix() string

	ListProducts(ctx context.Context, p ListParams) (*Page[ProductResponse], error)
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductResponse, error)
	CreateProduct(ctx context.Context, req CreateProductRequest) (*ProductResponse, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error)
	ToggleProductActive(ctx context.Context, id uuid.UUID) (*ToggleResponse, error)
	ToggleProductFeatured(ctx context.Context, id uuid.UUID) (*ToggleResponse, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	ImportProducts(ctx context.Context, req ImportProductsRequest, opts ...CallOption) (*BulkResult, error)
	BulkUpdateProducts(ctx context.Context, req BulkUpdateRequest, opts ...CallOption) (*BulkResult, error)

	ListOrders(ctx context.Context, p ListParams) (*Page[OrderResponse], error)
	GetOrder(ctx context.Context, id uuid.UUID) (*OrderResponse, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, req UpdateStatusRequest) (*OrderResponse, error)
	Invoice(ctx context.Context, id uuid.UUID) ([]byte, error)

	Dashboard(ctx context.Context, from, to *time.Time) (*Dashboard, error)
}

var (
	_ ResourceAPI = (*AdminAPI)(nil)
	_ ResourceAPI = (*SellerAPI)(nil)
)

// ForPath returns the seller API for routes under /seller and the admin API
// otherwise. path may be an API path or a back-office UI route.
func ForPath(c *Client, path string) ResourceAPI {
	if isSellerPath(path) {
		return c.Seller()
	}
	return c.Admin()
}

func isSellerPath(path string) bool {
	path = strings.TrimPrefix(path, "/api/v1")
	return path == "/seller" || strings.HasPrefix(path, "/seller/")
}

type resourceAPI struct {
	c      *Client
	prefix string
}

// Prefix returns the route prefix the API is bound to
func (a resourceAPI) Prefix() string { return a.prefix }

func (a resourceAPI) path(parts ...string) string {
	return a.prefix + "/" + strings.Join(parts, "/")
}

// ListProducts lists products. Sellers only see their own.
func (a resourceAPI) ListProducts(ctx context.Context, p ListParams) (*Page[ProductResponse], error) {
	return list[ProductResponse](ctx, a.c, a.path("products"), p.values())
}

func (a resourceAPI) GetProduct(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	return get[ProductResponse](ctx, a.c, a.path("products", id.String()), nil)
}

func (a resourceAPI) CreateProduct(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	return send[ProductResponse](ctx, a.c, http.MethodPost, a.path("products"), req)
}

func (a resourceAPI) UpdateProduct(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	return send[ProductResponse](ctx, a.c, http.MethodPut, a.path("products", id.String()), req)
}

func (a resourceAPI) ToggleProductActive(ctx context.Context, id uuid.UUID) (*ToggleResponse, error) {
	return send[ToggleResponse](ctx, a.c, http.MethodPost, a.path("products", id.String(), "toggle-active"), nil)
}

func (a resourceAPI) ToggleProductFeatured(ctx context.Context, id uuid.UUID) (*ToggleResponse, error) {
	return send[ToggleResponse](ctx, a.c, http.MethodPost, a.path("products", id.String(), "toggle-featured"), nil)
}

func (a resourceAPI) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return del(ctx, a.c, a.path("products", id.String()))
}

// ImportProducts creates products in bulk. Rows fail independently.
func (a resourceAPI) ImportProducts(ctx context.Context, req ImportProductsRequest, opts ...CallOption) (*BulkResult, error) {
	return send[BulkResult](ctx, a.c, http.MethodPost, a.path("products", "import"), req, opts...)
}

// BulkUpdateProducts changes price and stock of many products
func (a resourceAPI) BulkUpdateProducts(ctx context.Context, req BulkUpdateRequest, opts ...CallOption) (*BulkResult, error) {
	return send[BulkResult](ctx, a.c, http.MethodPost, a.path("products", "bulk-update"), req, opts...)
}

func (a resourceAPI) ListOrders(ctx context.Context, p ListParams) (*Page[OrderResponse], error) {
	return list[OrderResponse](ctx, a.c, a.path("orders"), p.values())
}

func (a resourceAPI) GetOrder(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	return get[OrderResponse](ctx, a.c, a.path("orders", id.String()), nil)
}

func (a resourceAPI) UpdateOrderStatus(ctx context.Context, id uuid.UUID, req UpdateStatusRequest) (*OrderResponse, error) {
	return send[OrderResponse](ctx, a.c, http.MethodPut, a.path("orders", id.String(), "status"), req)
}

// Invoice downloads the order invoice as PDF
func (a resourceAPI) Invoice(ctx context.Context, id uuid.UUID) ([]byte, error) {
	var pdf []byte
	if _, err := a.c.do(ctx, request{method: http.MethodGet, path: a.path("orders", id.String(), "invoice")}, &pdf); err != nil {
		return nil, err
	}
	return pdf, nil
}

// Dashboard returns the analytics for [from, to]. Nil bounds use the server default window.
func (a resourceAPI) Dashboard(ctx context.Context, from, to *time.Time) (*Dashboard, error) {
	q := url.Values{}
	if from != nil {
		q.Set("from", from.Format(time.DateOnly))
	}
	if to != nil {
		q.Set("to", to.Format(time.DateOnly))
	}
	return get[Dashboard](ctx, a.c, a.path("analytics", "dashboard"), q)
}

// AdminAPI is the full back-office
type AdminAPI struct {
	resourceAPI
}

func (a *AdminAPI) ListCategories(ctx context.Context, p ListParams) (*Page[CategoryResponse], error) {
	return list[CategoryResponse](ctx, a.c, a.path("categories"), p.values())
}

func (a *AdminAPI) CategoryTree(ctx context.Context) ([]CategoryTreeNode, error) {
	out, err := get[[]CategoryTreeNode](ctx, a.c, a.path("categories", "tree"), nil)
	if err != nil {
		return nil, err
	}
	return *out, nil
}

func (a *AdminAPI) CreateCategory(ctx context.Context, req CreateCategoryRequest) (*CategoryResponse, error) {
	return send[CategoryResponse](ctx, a.c, http.MethodPost, a.path("categories"), req)
}

func (a *AdminAPI) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return del(ctx, a.c, a.path("categories", id.String()))
}

func (a *AdminAPI) ListColors(ctx context.Context, p ListParams) (*Page[ColorResponse], error) {
	return list[ColorResponse](ctx, a.c, a.path("colors"), p.values())
}

func (a *AdminAPI) CreateColor(ctx context.Context, req ColorRequest) (*ColorResponse, error) {
	return send[ColorResponse](ctx, a.c, http.MethodPost, a.path("colors"), req)
}

func (a *AdminAPI) ListMaterials(ctx context.Context, p ListParams) (*Page[MaterialResponse], error) {
	return list[MaterialResponse](ctx, a.c, a.path("materials"), p.values())
}

func (a *AdminAPI) CreateMaterial(ctx context.Context, req MaterialRequest) (*MaterialResponse, error) {
	return send[MaterialResponse](ctx, a.c, http.MethodPost, a.path("materials"), req)
}

func (a *AdminAPI) ListDiscounts(ctx context.Context, p ListParams) (*Page[DiscountResponse], error) {
	return list[DiscountResponse](ctx, a.c, a.path("discounts"), p.values())
}

// CreateDiscount creates a discount. An empty label is filled in from the percentage.
func (a *AdminAPI) CreateDiscount(ctx context.Context, req DiscountRequest) (*DiscountResponse, error) {
	return send[DiscountResponse](ctx, a.c, http.MethodPost, a.path("discounts"), req)
}

func (a *AdminAPI) ListReviews(ctx context.Context, p ListParams) (*Page[ReviewResponse], error) {
	return list[ReviewResponse](ctx, a.c, a.path("reviews"), p.values())
}

func (a *AdminAPI) ToggleReviewApproved(ctx context.Context, id uuid.UUID) (*ToggleResponse, error) {
	return send[ToggleResponse](ctx, a.c, http.MethodPost, a.path("reviews", id.String(), "toggle-approved"), nil)
}

func (a *AdminAPI) ListUsers(ctx context.Context, p ListParams) (*Page[UserResponse], error) {
	return list[UserResponse](ctx, a.c, a.path("users"), p.values())
}

func (a *AdminAPI) CreateUser(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	return send[UserResponse](ctx, a.c, http.MethodPost, a.path("users"), req)
}

func (a *AdminAPI) ToggleUserActive(ctx context.Context, id uuid.UUID) (*UserToggleResponse, error) {
	return send[UserToggleResponse](ctx, a.c, http.MethodPost, a.path("users", id.String(), "toggle-active"), nil)
}

func (a *AdminAPI) ListVendors(ctx context.Context, p ListParams) (*Page[VendorResponse], error) {
	return list[VendorResponse](ctx, a.c, a.path("vendors"), p.values())
}

func (a *AdminAPI) CreateVendor(ctx context.Context, req VendorRequest) (*VendorResponse, error) {
	return send[VendorResponse](ctx, a.c, http.MethodPost, a.path("vendors"), req)
}

func (a *AdminAPI) ListAdminLogs(ctx context.Context, p ListParams) (*Page[LogResponse], error) {
	return list[LogResponse](ctx, a.c, a.path("admin-logs"), p.values())
}

// Section is one homepage section. Content is kept raw since its shape depends on Key.
type Section struct {
	SectionKey string          `json:"section_key"`
	Order      int             `json:"order"`
	Stored     bool            `json:"stored"`
	Content    json.RawMessage `json:"content"`
	Lists      map[string]int  `json:"lists"`
	FixedSizes map[string]int  `json:"fixed_sizes,omitempty"`
	UpdatedAt  *time.Time      `json:"updated_at,omitempty"`
}

// Homepage returns every section in page order
func (a *AdminAPI) Homepage(ctx context.Context) ([]Section, error) {
	out, err := get[[]Section](ctx, a.c, a.path("homepage"), nil)
	if err != nil {
		return nil, err
	}
	return *out, nil
}

// SaveSection replaces the content of one section
func (a *AdminAPI) SaveSection(ctx context.Context, key string, content any) (*Section, error) {
	return send[Section](ctx, a.c, http.MethodPut, a.path("homepage", key), map[string]any{"content": content})
}

// ResetSection restores the built-in content of one section
func (a *AdminAPI) ResetSection(ctx context.Context, key string) (*Section, error) {
	return send[Section](ctx, a.c, http.MethodPost, a.path("homepage", key, "reset"), nil)
}

// SellerAPI is the back-office of one vendor
type SellerAPI struct {
	resourceAPI
}

func (a *SellerAPI) PaymentSettings(ctx context.Context) (*PaymentSettingsResponse, error) {
	return get[PaymentSettingsResponse](ctx, a.c, a.path("settings", "payment"), nil)
}

func (a *SellerAPI) UpdatePaymentSettings(ctx context.Context, req UpdatePaymentSettingsRequest) (*PaymentSettingsResponse, error) {
	return send[PaymentSettingsResponse](ctx, a.c, http.MethodPut, a.path("settings", "payment"), req)
}

// StoreAPI is the public storefront plus authentication
type StoreAPI struct {
	c *Client
}

// Login exchanges credentials for tokens and keeps the access token on the client
func (s *StoreAPI) Login(ctx context.Context, email, password string) (*TokenResponse, error) {
	resp, err := send[TokenResponse](ctx, s.c, http.MethodPost, "/api/v1/auth/login",
		LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	s.c.SetToken(resp.AccessToken)
	return resp, nil
}

// Refresh exchanges a refresh token for a new pair. Refresh tokens are single use.
func (s *StoreAPI) Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	resp, err := send[TokenResponse](ctx, s.c, http.MethodPost, "/api/v1/auth/refresh",
		RefreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return nil, err
	}
	s.c.SetToken(resp.AccessToken)
	return resp, nil
}

func (s *StoreAPI) Me(ctx context.Context) (*UserResponse, error) {
	return get[UserResponse](ctx, s.c, "/api/v1/auth/me", nil)
}

func (s *StoreAPI) Trending(ctx context.Context, limit int) ([]ProductResponse, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	out, err := get[[]ProductResponse](ctx, s.c, "/api/v1/store/products/trending", q)
	if err != nil {
		return nil, err
	}
	return *out, nil
}

func (s *StoreAPI) Product(ctx context.Context, id uuid.UUID) (*ProductDetailResponse, error) {
	return get[ProductDetailResponse](ctx, s.c, "/api/v1/store/products/"+id.String(), nil)
}
