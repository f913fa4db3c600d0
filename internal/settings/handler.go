package settings

import (
	"net/http"

	"lead_outreach_backend/platform/httpkit"
	"lead_outreach_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

// NotificationEmailRequest updates the notification address; empty disables it.
type NotificationEmailRequest struct {
	Email string `json:"email" validate:"omitempty,email,max=254"`
}

// NotificationEmailResponse reports the current address.
type NotificationEmailResponse struct {
	Email   string `json:"email"`
	Enabled bool   `json:"enabled"`
}

// Handler serves the settings routes.
type Handler struct {
	svc *Service
	val *validator.Validator
}

// NewHandler creates a settings handler.
func NewHandler(svc *Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// GetNotificationEmail GET /api/v1/settings/notification-email
func (h *Handler) GetNotificationEmail(c *gin.Context) {
	address, err := h.svc.NotificationEmail(httpkit.RequestContext(c))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, NotificationEmailResponse{Email: address, Enabled: address != ""})
}

// PutNotificationEmail PUT /api/v1/settings/notification-email
func (h *Handler) PutNotificationEmail(c *gin.Context) {
	var req NotificationEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", validator.FieldErrors(err))
		return
	}

	address, err := h.svc.SetNotificationEmail(httpkit.RequestContext(c), req.Email)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, NotificationEmailResponse{Email: address, Enabled: address != ""})
}
