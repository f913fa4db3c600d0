package generator

import (
	"net/http"

	"lead_outreach_backend/platform/httpkit"
	"lead_outreach_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler receives proposal sets from the generator.
type Handler struct {
	svc *Service
	val *validator.Validator
}

// NewHandler creates the generator handler.
func NewHandler(svc *Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// ReceiveProposals stores a proposal set.
// POST /api/v1/generator/proposals
func (h *Handler) ReceiveProposals(c *gin.Context) {
	var req ProposalsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	result, err := h.svc.ReceiveProposals(httpkit.RequestContext(c), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}
