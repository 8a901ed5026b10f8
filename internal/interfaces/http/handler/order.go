package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	salesapp "github.com/storefront/backend/internal/application/sales"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// OrderHandler handles order endpoints
type OrderHandler struct {
	BaseHandler
	orderService *salesapp.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *salesapp.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// List handles GET /orders
func (h *OrderHandler) List(c *gin.Context) {
	var filter salesapp.OrderListFilter
	ok := h.BindQuery(c, &filter) &&
		h.queryUUID(c, "vendor_id", &filter.VendorID) &&
		h.queryUUID(c, "customer_id", &filter.CustomerID)
	if !ok {
		return
	}

	orders, total, err := h.orderService.List(c.Request.Context(), middleware.GetScope(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, size := pageOf(filter.PageQuery)
	h.SuccessWithMeta(c, orders, total, page, size)
}

// GetByID handles GET /orders/:id
func (h *OrderHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.GetByID(c.Request.Context(), middleware.GetScope(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// UpdateStatus handles PUT /orders/:id/status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req salesapp.UpdateStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}

	order, err := h.orderService.UpdateStatus(c.Request.Context(), middleware.GetScope(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Invoice handles GET /orders/:id/invoice and streams the PDF
func (h *OrderHandler) Invoice(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	pdf, filename, err := h.orderService.Invoice(c.Request.Context(), middleware.GetScope(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// Checkout handles POST /store/checkout. One order is placed per vendor in the cart.
func (h *OrderHandler) Checkout(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	userID, ok := h.currentUserID(c)
	if !ok || claims == nil {
		return
	}
	var req salesapp.CheckoutRequest
	if !h.BindJSON(c, &req) {
		return
	}

	customer := salesapp.Customer{ID: userID, Name: claims.Name, Email: claims.Email}
	orders, err := h.orderService.Checkout(c.Request.Context(), customer, req)
	if err != nil {
		if len(orders) > 0 {
			logger.L(c.Request.Context()).Warn("Checkout failed after placing orders",
				zap.Int("placed", len(orders)),
				zap.Error(err))
		}
		h.HandleError(c, err)
		return
	}
	h.Created(c, orders)
}

// MyOrders handles GET /store/orders
func (h *OrderHandler) MyOrders(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	var query shared.PageQuery
	if !h.BindQuery(c, &query) {
		return
	}

	orders, total, err := h.orderService.ListForCustomer(c.Request.Context(), userID, query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, size := pageOf(query)
	h.SuccessWithMeta(c, orders, total, page, size)
}
