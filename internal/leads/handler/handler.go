package handler

import (
	"net/http"

	"lead_outreach_backend/internal/leads/importing"
	"lead_outreach_backend/internal/leads/lifecycle"
	"lead_outreach_backend/internal/leads/management"
	"lead_outreach_backend/internal/leads/transport"
	"lead_outreach_backend/platform/httpkit"
	"lead_outreach_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidLeadID    = "invalid lead ID"
)

// Handler serves the leads HTTP surface.
type Handler struct {
	mgmt      *management.Service
	lifecycle *lifecycle.Service
	importer  *importing.Service
	val       *validator.Validator
}

func New(mgmt *management.Service, lc *lifecycle.Service, importer *importing.Service, val *validator.Validator) *Handler {
	return &Handler{mgmt: mgmt, lifecycle: lc, importer: importer, val: val}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/stats", h.Stats)
	rg.POST("/import/preview", h.PreviewImport)
	rg.POST("/import", h.CommitImport)
	rg.GET("/:id", h.GetByID)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
	rg.GET("/:id/proposals", h.Proposals)
	rg.GET("/:id/events", h.Events)
	rg.POST("/:id/approve", h.Approve)
	rg.POST("/:id/regenerate", h.Regenerate)
}

func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateLeadRequest
	if !h.bindJSON(c, &req) {
		return
	}

	lead, err := h.mgmt.Create(httpkit.RequestContext(c), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, lead)
}

func (h *Handler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	detail, err := h.mgmt.GetByID(httpkit.RequestContext(c), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, detail)
}

func (h *Handler) List(c *gin.Context) {
	var req transport.ListLeadsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	result, err := h.mgmt.List(httpkit.RequestContext(c), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.mgmt.Stats(httpkit.RequestContext(c))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, stats)
}

// Update replaces the contact fields. A lead still missing name or phone
// afterwards falls back to state new.
func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req transport.UpdateLeadRequest
	if !h.bindJSON(c, &req) {
		return
	}

	lead, err := h.lifecycle.Edit(httpkit.RequestContext(c), id, lifecycle.EditInput(req))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, management.ToLeadResponse(lead))
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if httpkit.HandleError(c, h.lifecycle.Delete(httpkit.RequestContext(c), id)) {
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) Proposals(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	resp, err := h.mgmt.Proposals(httpkit.RequestContext(c), id, c.Query("channel"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) Events(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	items, err := h.mgmt.Events(httpkit.RequestContext(c), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"items": items})
}

func (h *Handler) Approve(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req transport.ApproveRequest
	if !h.bindJSON(c, &req) {
		return
	}

	lead, err := h.lifecycle.Approve(httpkit.RequestContext(c), id, lifecycle.ApproveInput(req))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, management.ToLeadResponse(lead))
}

// Regenerate accepts an empty body; missing feedback is recorded as such.
func (h *Handler) Regenerate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req transport.RegenerateRequest
	if c.Request.ContentLength != 0 {
		if !h.bindJSON(c, &req) {
			return
		}
	}

	lead, err := h.lifecycle.RequestRegeneration(httpkit.RequestContext(c), id, req.Feedback)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, management.ToLeadResponse(lead))
}

func (h *Handler) bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return false
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return false
	}
	return true
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidLeadID, nil)
		return uuid.UUID{}, false
	}
	return id, true
}
