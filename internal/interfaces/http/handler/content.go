package handler

import (
	"github.com/gin-gonic/gin"
	contentapp "github.com/storefront/backend/internal/application/content"
)

// ContentHandler serves the homepage editor and the storefront homepage
type ContentHandler struct {
	BaseHandler
	contentService *contentapp.Service
}

// NewContentHandler creates a new ContentHandler
func NewContentHandler(contentService *contentapp.Service) *ContentHandler {
	return &ContentHandler{contentService: contentService}
}

// Page handles GET /homepage. Every section is returned, stored or not, in page order.
func (h *ContentHandler) Page(c *gin.Context) {
	sections, err := h.contentService.Page(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sections)
}

// Get handles GET /homepage/:key
func (h *ContentHandler) Get(c *gin.Context) {
	section, err := h.contentService.Get(c.Request.Context(), c.Param("key"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, section)
}

// Defaults handles GET /homepage/:key/defaults
func (h *ContentHandler) Defaults(c *gin.Context) {
	section, err := h.contentService.Defaults(c.Param("key"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, section)
}

// Save handles PUT /homepage/:key
func (h *ContentHandler) Save(c *gin.Context) {
	var req contentapp.SaveSectionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	section, err := h.contentService.Save(c.Request.Context(), c.Param("key"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, section)
}

// BulkSave handles PUT /homepage. Sections are saved one by one and the
// result lists each of them; a failed section does not fail the request.
func (h *ContentHandler) BulkSave(c *gin.Context) {
	var req contentapp.BulkSaveRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.contentService.BulkSave(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ItemOp handles POST /homepage/:key/items
func (h *ContentHandler) ItemOp(c *gin.Context) {
	var req contentapp.ItemOpRequest
	if !h.BindJSON(c, &req) {
		return
	}

	section, err := h.contentService.ApplyItemOp(c.Request.Context(), c.Param("key"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, section)
}

// Reset handles POST /homepage/:key/reset
func (h *ContentHandler) Reset(c *gin.Context) {
	section, err := h.contentService.Reset(c.Request.Context(), c.Param("key"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, section)
}
