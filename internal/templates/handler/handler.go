package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"lead_outreach_backend/internal/templates/service"
	"lead_outreach_backend/internal/templates/transport"
	"lead_outreach_backend/platform/httpkit"
	"lead_outreach_backend/platform/validator"
)

// Handler handles HTTP requests for message templates.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid template ID"
)

// New creates a new templates handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// List returns templates ordered by category and name.
// GET /api/v1/templates
func (h *Handler) List(c *gin.Context) {
	var req transport.ListTemplatesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	result, err := h.svc.List(httpkit.RequestContext(c), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// GetByID retrieves a template.
// GET /api/v1/templates/:id
func (h *Handler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	result, err := h.svc.GetByID(httpkit.RequestContext(c), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Create creates a template.
// POST /api/v1/templates
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateTemplateRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.svc.Create(httpkit.RequestContext(c), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

// Update changes an existing template.
// PUT /api/v1/templates/:id
func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req transport.UpdateTemplateRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.svc.Update(httpkit.RequestContext(c), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Delete removes a template.
// DELETE /api/v1/templates/:id
func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(httpkit.RequestContext(c), id); httpkit.HandleError(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
}

// Render previews a personalized template for a lead.
// POST /api/v1/templates/:id/render
func (h *Handler) Render(c *gin.Context) {
	h.render(c, h.svc.Render)
}

// Use renders the template and logs template_used on the lead.
// POST /api/v1/templates/:id/use
func (h *Handler) Use(c *gin.Context) {
	h.render(c, h.svc.Use)
}

type renderFunc func(ctx context.Context, templateID uuid.UUID, req transport.RenderRequest) (transport.RenderResponse, error)

func (h *Handler) render(c *gin.Context, fn renderFunc) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req transport.RenderRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := fn(httpkit.RequestContext(c), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) bindJSON(c *gin.Context, req interface{}) bool {
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
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return uuid.UUID{}, false
	}
	return id, true
}
