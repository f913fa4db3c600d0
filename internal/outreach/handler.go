package outreach

import (
	"net/http"

	"lead_outreach_backend/internal/leads/domain"
	"lead_outreach_backend/internal/leads/transport"
	"lead_outreach_backend/platform/apperr"
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

// Handler serves launch links and direct sends for a lead.
type Handler struct {
	svc *Service
	val *validator.Validator
}

// NewHandler creates an outreach handler.
func NewHandler(svc *Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Launch returns wa.me and mailto links for the lead.
// GET /api/v1/leads/:id/launch
func (h *Handler) Launch(c *gin.Context) {
	id, req, ok := h.bindLaunch(c)
	if !ok {
		return
	}

	links, err := h.svc.Launch(httpkit.RequestContext(c), id, LaunchInput(req))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.LaunchResponse{WhatsAppURL: links.WhatsAppURL, MailtoURL: links.MailtoURL})
}

// LaunchQR renders the WhatsApp link as a PNG QR code.
// GET /api/v1/leads/:id/launch/qr
func (h *Handler) LaunchQR(c *gin.Context) {
	id, req, ok := h.bindLaunch(c)
	if !ok {
		return
	}
	req.Channel = string(domain.ChannelWhatsApp)

	links, err := h.svc.Launch(httpkit.RequestContext(c), id, LaunchInput(req))
	if httpkit.HandleError(c, err) {
		return
	}
	png, err := QRCode(links.WhatsAppURL, 0)
	if httpkit.HandleError(c, qrError(err)) {
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// Send delivers a message directly through the configured gateway.
// POST /api/v1/leads/:id/send
func (h *Handler) Send(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidLeadID, nil)
		return
	}
	var req transport.SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	err = h.svc.Send(httpkit.RequestContext(c), id, SendInput(req))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.SendResponse{Channel: req.Channel, Sent: true})
}

// MarkSent records a message sent by the operator outside the gateways.
// POST /api/v1/leads/:id/mark-sent
func (h *Handler) MarkSent(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidLeadID, nil)
		return
	}
	var req transport.MarkSentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	if httpkit.HandleError(c, h.svc.MarkSent(httpkit.RequestContext(c), id, req.Channel)) {
		return
	}
	httpkit.OK(c, transport.SendResponse{Channel: req.Channel, Sent: true})
}

func (h *Handler) bindLaunch(c *gin.Context) (uuid.UUID, transport.LaunchRequest, bool) {
	var req transport.LaunchRequest
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidLeadID, nil)
		return id, req, false
	}
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return id, req, false
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return id, req, false
	}
	return id, req, true
}

func qrError(err error) error {
	if err == nil {
		return nil
	}
	return apperr.Internal("could not render QR code")
}
