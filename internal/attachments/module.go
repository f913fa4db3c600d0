package attachments

import (
	apphttp "lead_outreach_backend/internal/http"
	"lead_outreach_backend/platform/logger"
)

// Module wires attachment uploads into the router.
type Module struct {
	handler *Handler
}

// NewModule creates the attachments module. A nil store makes uploads fail
// with a configuration error.
func NewModule(store Store, bucket string, log *logger.Logger) *Module {
	return &Module{handler: NewHandler(New(store, bucket, log))}
}

func (m *Module) Name() string { return "attachments" }

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.POST("/attachments", m.handler.Upload)
}

var _ apphttp.Module = (*Module)(nil)
