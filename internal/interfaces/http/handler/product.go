package handler

import (
	"github.com/gin-gonic/gin"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

const (
	defaultShelfSize = 8
	maxShelfSize     = 48
)

// ProductHandler handles product endpoints for the back-office and the storefront.
// Back-office routes are scoped by middleware.ResolveScope.
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
	imageService   *catalogapp.ImageService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalogapp.ProductService, imageService *catalogapp.ImageService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		imageService:   imageService,
	}
}

func (h *ProductHandler) bindFilter(c *gin.Context) (catalogapp.ProductListFilter, bool) {
	var filter catalogapp.ProductListFilter
	ok := h.BindQuery(c, &filter) &&
		h.queryUUID(c, "category_id", &filter.CategoryID) &&
		h.queryUUID(c, "vendor_id", &filter.VendorID) &&
		h.queryDecimal(c, "min_price", &filter.MinPrice) &&
		h.queryDecimal(c, "max_price", &filter.MaxPrice)
	return filter, ok
}

// List handles GET /products
func (h *ProductHandler) List(c *gin.Context) {
	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}

	products, total, err := h.productService.List(c.Request.Context(), middleware.GetScope(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, size := pageOf(filter.PageQuery)
	h.SuccessWithMeta(c, products, total, page, size)
}

// GetByID handles GET /products/:id
func (h *ProductHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	product, err := h.productService.GetByID(c.Request.Context(), middleware.GetScope(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Create handles POST /products
func (h *ProductHandler) Create(c *gin.Context) {
	var req catalogapp.CreateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	product, err := h.productService.Create(c.Request.Context(), middleware.GetScope(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// Update handles PUT /products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.UpdateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	product, err := h.productService.Update(c.Request.Context(), middleware.GetScope(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// ToggleActive handles POST /products/:id/toggle-active
func (h *ProductHandler) ToggleActive(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	resp, err := h.productService.ToggleActive(c.Request.Context(), middleware.GetScope(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ToggleFeatured handles POST /products/:id/toggle-featured
func (h *ProductHandler) ToggleFeatured(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	resp, err := h.productService.ToggleFeatured(c.Request.Context(), middleware.GetScope(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete handles DELETE /products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.productService.Delete(c.Request.Context(), middleware.GetScope(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Import handles POST /products/import
func (h *ProductHandler) Import(c *gin.Context) {
	var req catalogapp.ImportProductsRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.productService.Import(c.Request.Context(), middleware.GetScope(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// BulkUpdate handles POST /products/bulk-update
func (h *ProductHandler) BulkUpdate(c *gin.Context) {
	var req catalogapp.BulkUpdateRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.productService.BulkUpdate(c.Request.Context(), middleware.GetScope(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// PresignImage handles POST /products/:id/images/presign
func (h *ProductHandler) PresignImage(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.PresignImageRequest
	if !h.BindJSON(c, &req) {
		return
	}

	target, err := h.imageService.PresignUpload(c.Request.Context(), middleware.GetScope(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, target)
}

// ConfirmImage handles POST /products/:id/images
func (h *ProductHandler) ConfirmImage(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.ConfirmImageRequest
	if !h.BindJSON(c, &req) {
		return
	}

	image, err := h.imageService.Confirm(c.Request.Context(), middleware.GetScope(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, image)
}

// ReorderImages handles PUT /products/:id/images/order
func (h *ProductHandler) ReorderImages(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.ReorderImagesRequest
	if !h.BindJSON(c, &req) {
		return
	}

	images, err := h.imageService.Reorder(c.Request.Context(), middleware.GetScope(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, images)
}

// DeleteImage handles DELETE /products/:id/images/:image_id
func (h *ProductHandler) DeleteImage(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	imageID, ok := h.pathID(c, "image_id")
	if !ok {
		return
	}

	if err := h.imageService.Delete(c.Request.Context(), middleware.GetScope(c), id, imageID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListPublic handles GET /store/products. Only active products are listed.
func (h *ProductHandler) ListPublic(c *gin.Context) {
	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}

	products, total, err := h.productService.ListPublic(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, size := pageOf(filter.PageQuery)
	h.SuccessWithMeta(c, products, total, page, size)
}

// Detail handles GET /store/products/:id
func (h *ProductHandler) Detail(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	product, err := h.productService.Detail(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Trending handles GET /store/products/trending
func (h *ProductHandler) Trending(c *gin.Context) {
	products, err := h.productService.Trending(c.Request.Context(), queryLimit(c, defaultShelfSize, maxShelfSize))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, products)
}

// Featured handles GET /store/products/featured
func (h *ProductHandler) Featured(c *gin.Context) {
	products, err := h.productService.Featured(c.Request.Context(), queryLimit(c, defaultShelfSize, maxShelfSize))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, products)
}
