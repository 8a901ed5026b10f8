package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
)

// TaxonomyService is the method set shared by the color, material and discount services
type TaxonomyService[Req, Resp any] interface {
	List(ctx context.Context, filter catalogapp.TaxonomyListFilter) ([]Resp, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Resp, error)
	Create(ctx context.Context, req Req) (*Resp, error)
	Update(ctx context.Context, id uuid.UUID, req Req) (*Resp, error)
	ToggleActive(ctx context.Context, id uuid.UUID) (*catalogapp.ToggleResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// TaxonomyRoutes is the endpoint set of an attribute list, whatever its item type
type TaxonomyRoutes interface {
	List(c *gin.Context)
	GetByID(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	ToggleActive(c *gin.Context)
	Delete(c *gin.Context)
}

// TaxonomyHandler serves the CRUD endpoints of a product attribute list
type TaxonomyHandler[Req, Resp any] struct {
	BaseHandler
	service TaxonomyService[Req, Resp]
}

// NewTaxonomyHandler creates a new TaxonomyHandler
func NewTaxonomyHandler[Req, Resp any](service TaxonomyService[Req, Resp]) *TaxonomyHandler[Req, Resp] {
	return &TaxonomyHandler[Req, Resp]{service: service}
}

// NewColorHandler serves /colors
func NewColorHandler(s *catalogapp.ColorService) *TaxonomyHandler[catalogapp.ColorRequest, catalogapp.ColorResponse] {
	return NewTaxonomyHandler[catalogapp.ColorRequest, catalogapp.ColorResponse](s)
}

// NewMaterialHandler serves /materials
func NewMaterialHandler(s *catalogapp.MaterialService) *TaxonomyHandler[catalogapp.MaterialRequest, catalogapp.MaterialResponse] {
	return NewTaxonomyHandler[catalogapp.MaterialRequest, catalogapp.MaterialResponse](s)
}

// NewDiscountHandler serves /discounts
func NewDiscountHandler(s *catalogapp.DiscountService) *TaxonomyHandler[catalogapp.DiscountRequest, catalogapp.DiscountResponse] {
	return NewTaxonomyHandler[catalogapp.DiscountRequest, catalogapp.DiscountResponse](s)
}

// List handles GET /
func (h *TaxonomyHandler[Req, Resp]) List(c *gin.Context) {
	var filter catalogapp.TaxonomyListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	items, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, size := pageOf(filter.PageQuery)
	h.SuccessWithMeta(c, items, total, page, size)
}

// GetByID handles GET /:id
func (h *TaxonomyHandler[Req, Resp]) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	item, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Create handles POST /
func (h *TaxonomyHandler[Req, Resp]) Create(c *gin.Context) {
	var req Req
	if !h.BindJSON(c, &req) {
		return
	}

	item, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, item)
}

// Update handles PUT /:id
func (h *TaxonomyHandler[Req, Resp]) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req Req
	if !h.BindJSON(c, &req) {
		return
	}

	item, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// ToggleActive handles POST /:id/toggle-active
func (h *TaxonomyHandler[Req, Resp]) ToggleActive(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	resp, err := h.service.ToggleActive(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete handles DELETE /:id
func (h *TaxonomyHandler[Req, Resp]) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
