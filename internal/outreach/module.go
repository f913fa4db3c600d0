package outreach

import (
	apphttp "lead_outreach_backend/internal/http"
	"lead_outreach_backend/platform/validator"
)

// Module exposes launch links and direct sends under the lead routes.
type Module struct {
	handler *Handler
	service *Service
}

// NewModule creates the outreach module around an existing service.
func NewModule(svc *Service, val *validator.Validator) *Module {
	return &Module{handler: NewHandler(svc, val), service: svc}
}

func (m *Module) Name() string { return "outreach" }

// Service returns the outreach service.
func (m *Module) Service() *Service { return m.service }

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	g := ctx.Protected.Group("/leads/:id")
	g.GET("/launch", m.handler.Launch)
	g.GET("/launch/qr", m.handler.LaunchQR)
	g.POST("/send", m.handler.Send)
	g.POST("/mark-sent", m.handler.MarkSent)
}

var _ apphttp.Module = (*Module)(nil)
