package router

import (
	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// Handlers groups every API handler
type Handlers struct {
	Auth      *handler.AuthHandler
	Product   *handler.ProductHandler
	Category  *handler.CategoryHandler
	Color     handler.TaxonomyRoutes
	Material  handler.TaxonomyRoutes
	Discount  handler.TaxonomyRoutes
	Review    *handler.ReviewHandler
	Order     *handler.OrderHandler
	User      *handler.UserHandler
	Vendor    *handler.VendorHandler
	AdminLog  *handler.AdminLogHandler
	Analytics *handler.AnalyticsHandler
	Settings  *handler.SettingsHandler
	Content   *handler.ContentHandler
	Geo       *handler.GeoHandler
}

// Guards are the middleware the route groups depend on
type Guards struct {
	// Auth rejects requests without a valid access token
	Auth gin.HandlerFunc
	// LoginLimit throttles the credential endpoints. Optional.
	LoginLimit gin.HandlerFunc
	// Identify attaches the shopper's claims to public store requests when
	// a token is sent. Optional.
	Identify gin.HandlerFunc
}

// APIGroups builds the route groups mounted under /api/v1
func APIGroups(h Handlers, g Guards) []*DomainGroup {
	return []*DomainGroup{
		authRoutes(h, g),
		storeRoutes(h, g),
		geoRoutes(h, g),
		adminRoutes(h, g),
		sellerRoutes(h, g),
	}
}

func authRoutes(h Handlers, g Guards) *DomainGroup {
	routes := NewDomainGroup("auth", "/auth")
	public := routes.Group("auth-public", "")
	if g.LoginLimit != nil {
		public.Use(g.LoginLimit)
	}
	public.POST("/login", h.Auth.Login).
		POST("/refresh", h.Auth.Refresh).
		POST("/register", h.Auth.Register)

	routes.Group("auth-session", "").
		Use(g.Auth).
		POST("/logout", h.Auth.Logout).
		GET("/me", h.Auth.Me).
		PUT("/password", h.Auth.ChangePassword)
	return routes
}

func storeRoutes(h Handlers, g Guards) *DomainGroup {
	routes := NewDomainGroup("store", "/store")
	public := routes.Group("store-public", "")
	if g.Identify != nil {
		public.Use(g.Identify)
	}
	public.GET("/homepage", h.Content.Page).
		GET("/categories/tree", h.Category.Tree(true)).
		GET("/products", h.Product.ListPublic).
		GET("/products/trending", h.Product.Trending).
		GET("/products/featured", h.Product.Featured).
		GET("/products/:id", h.Product.Detail).
		GET("/products/:id/reviews", h.Review.ListForProduct)

	routes.Group("store-customer", "").
		Use(g.Auth).
		POST("/products/:id/reviews", h.Review.Create).
		POST("/checkout", h.Order.Checkout).
		GET("/orders", h.Order.MyOrders)
	return routes
}

func geoRoutes(h Handlers, g Guards) *DomainGroup {
	return NewDomainGroup("geo", "/geo").
		Use(g.Auth).
		POST("/reverse", h.Geo.Reverse)
}

// adminRoutes serves the full back-office. ResolveScope admits admins only here.
func adminRoutes(h Handlers, g Guards) *DomainGroup {
	routes := NewDomainGroup("admin", "/admin").Use(g.Auth, middleware.ResolveScope())
	productRoutes(routes, h)
	orderRoutes(routes, h)

	routes.Group("categories", "/categories").
		GET("", h.Category.List).
		GET("/tree", h.Category.Tree(false)).
		GET("/:id", h.Category.GetByID).
		POST("", h.Category.Create).
		PUT("/:id", h.Category.Update).
		POST("/:id/toggle-active", h.Category.ToggleActive).
		DELETE("/:id", h.Category.Delete)

	taxonomyRoutes(routes.Group("colors", "/colors"), h.Color)
	taxonomyRoutes(routes.Group("materials", "/materials"), h.Material)
	taxonomyRoutes(routes.Group("discounts", "/discounts"), h.Discount)

	routes.Group("reviews", "/reviews").
		GET("", h.Review.List).
		POST("/:id/toggle-approved", h.Review.ToggleApproved).
		DELETE("/:id", h.Review.Delete)

	routes.Group("users", "/users").
		GET("", h.User.List).
		GET("/:id", h.User.GetByID).
		POST("", h.User.Create).
		PUT("/:id", h.User.Update).
		POST("/:id/toggle-active", h.User.ToggleActive).
		POST("/:id/unlock", h.User.Unlock).
		DELETE("/:id", h.User.Delete)

	routes.Group("vendors", "/vendors").
		GET("", h.Vendor.List).
		GET("/:id", h.Vendor.GetByID).
		POST("", h.Vendor.Create).
		PUT("/:id", h.Vendor.Update).
		POST("/:id/toggle-active", h.Vendor.ToggleActive)

	routes.GET("/admin-logs", h.AdminLog.List).
		GET("/analytics/dashboard", h.Analytics.Dashboard)

	routes.Group("homepage", "/homepage").
		GET("", h.Content.Page).
		PUT("", h.Content.BulkSave).
		GET("/:key", h.Content.Get).
		PUT("/:key", h.Content.Save).
		GET("/:key/defaults", h.Content.Defaults).
		POST("/:key/items", h.Content.ItemOp).
		POST("/:key/reset", h.Content.Reset)
	return routes
}

// sellerRoutes mirrors the admin endpoints a seller may use, limited to the seller's vendor
func sellerRoutes(h Handlers, g Guards) *DomainGroup {
	routes := NewDomainGroup("seller", "/seller").Use(g.Auth, middleware.ResolveScope())
	productRoutes(routes, h)
	orderRoutes(routes, h)

	routes.GET("/analytics/dashboard", h.Analytics.Dashboard).
		GET("/settings/payment", h.Settings.GetPayment).
		PUT("/settings/payment", h.Settings.UpdatePayment)
	return routes
}

func productRoutes(parent *DomainGroup, h Handlers) {
	products := parent.Group("products", "/products")
	products.Group("products-bulk", "").
		LongRunning().
		POST("/import", h.Product.Import).
		POST("/bulk-update", h.Product.BulkUpdate)

	products.GET("", h.Product.List).
		POST("", h.Product.Create).
		GET("/:id", h.Product.GetByID).
		PUT("/:id", h.Product.Update).
		DELETE("/:id", h.Product.Delete).
		POST("/:id/toggle-active", h.Product.ToggleActive).
		POST("/:id/toggle-featured", h.Product.ToggleFeatured).
		POST("/:id/images/presign", h.Product.PresignImage).
		POST("/:id/images", h.Product.ConfirmImage).
		PUT("/:id/images/order", h.Product.ReorderImages).
		DELETE("/:id/images/:image_id", h.Product.DeleteImage)
}

func orderRoutes(parent *DomainGroup, h Handlers) {
	parent.Group("orders", "/orders").
		GET("", h.Order.List).
		GET("/:id", h.Order.GetByID).
		PUT("/:id/status", h.Order.UpdateStatus).
		GET("/:id/invoice", h.Order.Invoice)
}

func taxonomyRoutes(g *DomainGroup, h handler.TaxonomyRoutes) {
	g.GET("", h.List).
		GET("/:id", h.GetByID).
		POST("", h.Create).
		PUT("/:id", h.Update).
		POST("/:id/toggle-active", h.ToggleActive).
		DELETE("/:id", h.Delete)
}
