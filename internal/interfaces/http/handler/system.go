package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	geoapp "github.com/storefront/backend/internal/application/geo"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Pinger reports whether a backing service is reachable
type Pinger interface {
	Ping() error
}

// HealthResponse is the body of the health endpoint
type HealthResponse struct {
	Status   string `json:"status"`
	Time     string `json:"time"`
	Database string `json:"database"`
	Version  string `json:"version,omitempty"`
}

// SystemHandler serves health checks
type SystemHandler struct {
	BaseHandler
	db      Pinger
	version string
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(db Pinger, version string) *SystemHandler {
	return &SystemHandler{db: db, version: version}
}

// Health handles GET /health. It answers 503 while the database is unreachable.
func (h *SystemHandler) Health(c *gin.Context) {
	resp := HealthResponse{
		Status:   "healthy",
		Time:     time.Now().Format(time.RFC3339),
		Database: "ok",
		Version:  h.version,
	}
	if err := h.db.Ping(); err != nil {
		logger.GetGinLogger(c).Warn("Health check failed", zap.Error(err))
		resp.Status = "unhealthy"
		resp.Database = "error"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GeoHandler serves address autofill
type GeoHandler struct {
	BaseHandler
	geoService *geoapp.Service
}

// NewGeoHandler creates a new GeoHandler
func NewGeoHandler(geoService *geoapp.Service) *GeoHandler {
	return &GeoHandler{geoService: geoService}
}

// Reverse handles POST /geo/reverse
func (h *GeoHandler) Reverse(c *gin.Context) {
	var req geoapp.ReverseRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.geoService.Reverse(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
