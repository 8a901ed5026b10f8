package handler

import (
	"github.com/gin-gonic/gin"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// ReviewHandler handles review moderation and storefront submissions
type ReviewHandler struct {
	BaseHandler
	reviewService *catalogapp.ReviewService
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(reviewService *catalogapp.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// List handles GET /reviews
func (h *ReviewHandler) List(c *gin.Context) {
	var filter catalogapp.ReviewListFilter
	if !h.BindQuery(c, &filter) || !h.queryUUID(c, "product_id", &filter.ProductID) {
		return
	}

	reviews, total, err := h.reviewService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, size := pageOf(filter.PageQuery)
	h.SuccessWithMeta(c, reviews, total, page, size)
}

// ToggleApproved handles POST /reviews/:id/toggle-approved
func (h *ReviewHandler) ToggleApproved(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	resp, err := h.reviewService.ToggleApproved(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete handles DELETE /reviews/:id
func (h *ReviewHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.reviewService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListForProduct handles GET /store/products/:id/reviews
func (h *ReviewHandler) ListForProduct(c *gin.Context) {
	productID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var query shared.PageQuery
	if !h.BindQuery(c, &query) {
		return
	}

	reviews, total, err := h.reviewService.ListForProduct(c.Request.Context(), productID, query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, size := pageOf(query)
	h.SuccessWithMeta(c, reviews, total, page, size)
}

// Create handles POST /store/products/:id/reviews. The author is the signed-in user.
func (h *ReviewHandler) Create(c *gin.Context) {
	productID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	var req catalogapp.CreateReviewRequest
	if !h.BindJSON(c, &req) {
		return
	}

	authorName := ""
	if claims := middleware.GetJWTClaims(c); claims != nil {
		authorName = claims.Name
	}
	review, err := h.reviewService.Create(c.Request.Context(), productID, userID, authorName, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, review)
}
