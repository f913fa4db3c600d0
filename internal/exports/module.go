package exports

import (
	apphttp "lead_outreach_backend/internal/http"
	"lead_outreach_backend/platform/httpkit"
	"lead_outreach_backend/platform/logger"
)

// APIKeyHeader authenticates the public CSV feed.
const APIKeyHeader = "X-Export-API-Key"

// Module is the exports bounded context module implementing http.Module.
type Module struct {
	handler *Handler
	apiKey  string
}

// NewModule creates and initializes the exports module. The public feed is
// only mounted when apiKey is set.
func NewModule(source Source, apiKey string, log *logger.Logger) *Module {
	return &Module{
		handler: NewHandler(New(source, log, nil)),
		apiKey:  apiKey,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "exports"
}

// RegisterRoutes mounts export routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/leads/export", m.handler.ExportLeads)

	if m.apiKey != "" {
		publicGroup := ctx.V1.Group("/exports")
		publicGroup.Use(httpkit.APIKeyRequired(APIKeyHeader, m.apiKey))
		publicGroup.GET("/leads.csv", m.handler.ExportLeadsCSV)
	}
}

var _ apphttp.Module = (*Module)(nil)
