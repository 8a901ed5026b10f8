package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	analyticsapp "github.com/storefront/backend/internal/application/analytics"
	auditapp "github.com/storefront/backend/internal/application/audit"
	settingsapp "github.com/storefront/backend/internal/application/settings"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// AdminLogHandler lists the admin activity log
type AdminLogHandler struct {
	BaseHandler
	auditService *auditapp.Service
}

// NewAdminLogHandler creates a new AdminLogHandler
func NewAdminLogHandler(auditService *auditapp.Service) *AdminLogHandler {
	return &AdminLogHandler{auditService: auditService}
}

// List handles GET /admin-logs
func (h *AdminLogHandler) List(c *gin.Context) {
	var filter auditapp.LogListFilter
	if !h.BindQuery(c, &filter) || !h.queryUUID(c, "actor_id", &filter.ActorID) {
		return
	}

	logs, total, err := h.auditService.List(c.Request.Context(), middleware.GetScope(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, size := max(filter.Page, 1), filter.PageSize
	if size <= 0 {
		size = auditapp.DefaultPageSize
	}
	h.SuccessWithMeta(c, logs, total, page, size)
}

// AnalyticsHandler serves the dashboard
type AnalyticsHandler struct {
	BaseHandler
	analyticsService *analyticsapp.Service
}

// NewAnalyticsHandler creates a new AnalyticsHandler
func NewAnalyticsHandler(analyticsService *analyticsapp.Service) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// Dashboard handles GET /analytics/dashboard
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	var req analyticsapp.DashboardRequest
	if !h.BindQuery(c, &req) {
		return
	}

	dashboard, err := h.analyticsService.Dashboard(c.Request.Context(), middleware.GetScope(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dashboard)
}

// SettingsHandler serves the payment settings of the signed-in seller
type SettingsHandler struct {
	BaseHandler
	settingsService *settingsapp.Service
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settingsService *settingsapp.Service) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

func (h *SettingsHandler) vendorScope(c *gin.Context) (shared.Scope, bool) {
	scope := middleware.GetScope(c)
	if !scope.IsVendor() {
		h.Error(c, http.StatusForbidden, dto.ErrCodeForbidden, "Payment settings belong to a seller account")
		return scope, false
	}
	return scope, true
}

// GetPayment handles GET /settings/payment
func (h *SettingsHandler) GetPayment(c *gin.Context) {
	scope, ok := h.vendorScope(c)
	if !ok {
		return
	}

	resp, err := h.settingsService.GetPaymentSettings(c.Request.Context(), *scope.VendorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdatePayment handles PUT /settings/payment
func (h *SettingsHandler) UpdatePayment(c *gin.Context) {
	scope, ok := h.vendorScope(c)
	if !ok {
		return
	}
	var req settingsapp.UpdatePaymentSettingsRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.settingsService.UpdatePaymentSettings(c.Request.Context(), *scope.VendorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
