// Package leads provides the lead bounded context module: manual entry,
// bulk import, proposal resolution and the approval lifecycle.
package leads

import (
	"lead_outreach_backend/internal/events"
	apphttp "lead_outreach_backend/internal/http"
	"lead_outreach_backend/internal/leads/handler"
	"lead_outreach_backend/internal/leads/importing"
	"lead_outreach_backend/internal/leads/lifecycle"
	"lead_outreach_backend/internal/leads/management"
	"lead_outreach_backend/internal/leads/repository"
	"lead_outreach_backend/platform/logger"
	"lead_outreach_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler    *handler.Handler
	repo       *repository.Repository
	management *management.Service
	lifecycle  *lifecycle.Service
}

// NewModule creates and initializes the leads module with all its dependencies.
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, val *validator.Validator, region string, log *logger.Logger) *Module {
	repo := repository.New(pool)

	// Focused services (vertical slices) over one shared repository
	mgmtSvc := management.New(repo, eventBus, log, region)
	lifecycleSvc := lifecycle.New(repo, eventBus, log, region)
	importSvc := importing.New(repo, eventBus, log)

	return &Module{
		handler:    handler.New(mgmtSvc, lifecycleSvc, importSvc, val),
		repo:       repo,
		management: mgmtSvc,
		lifecycle:  lifecycleSvc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Repository exposes the shared store to the modules that read leads
// (templates, outreach, generator, exports).
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

// ManagementService returns the management service for external use.
func (m *Module) ManagementService() *management.Service {
	return m.management
}

// LifecycleService returns the lifecycle service for external use.
func (m *Module) LifecycleService() *lifecycle.Service {
	return m.lifecycle
}

// RegisterRoutes mounts lead routes on the protected group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/leads"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
