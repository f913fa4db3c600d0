package generator

import (
	"lead_outreach_backend/internal/events"
	apphttp "lead_outreach_backend/internal/http"
	"lead_outreach_backend/platform/httpkit"
	"lead_outreach_backend/platform/logger"
	"lead_outreach_backend/platform/validator"
)

// Module wires proposal ingestion and regeneration dispatch.
type Module struct {
	handler    *Handler
	service    *Service
	dispatcher *Dispatcher
	apiKey     string
}

// NewModule creates the generator module. dispatcher may be nil when
// regeneration requests are handled elsewhere.
func NewModule(repo Repository, bus events.Bus, dispatcher *Dispatcher, val *validator.Validator, apiKey string, log *logger.Logger) *Module {
	svc := NewService(repo, bus, log)
	return &Module{
		handler:    NewHandler(svc, val),
		service:    svc,
		dispatcher: dispatcher,
		apiKey:     apiKey,
	}
}

func (m *Module) Name() string { return "generator" }

// RegisterHandlers subscribes regeneration dispatch to the bus.
func (m *Module) RegisterHandlers(bus events.Bus) {
	if m.dispatcher != nil {
		m.dispatcher.RegisterHandlers(bus)
	}
}

// RegisterRoutes mounts the ingestion endpoint guarded by the generator API key.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	g := ctx.V1.Group("/generator")
	g.Use(httpkit.APIKeyRequired(APIKeyHeader, m.apiKey))
	g.POST("/proposals", m.handler.ReceiveProposals)
}

var _ apphttp.Module = (*Module)(nil)
