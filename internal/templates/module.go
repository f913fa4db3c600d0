// Package templates provides the message templates bounded context module.
// Templates are operator-authored skeletons personalized per lead for manual outreach.
package templates

import (
	"context"

	"lead_outreach_backend/internal/events"
	apphttp "lead_outreach_backend/internal/http"
	"lead_outreach_backend/internal/templates/handler"
	"lead_outreach_backend/internal/templates/repository"
	"lead_outreach_backend/internal/templates/service"
	"lead_outreach_backend/platform/logger"
	"lead_outreach_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the templates bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the templates module with all its dependencies.
func NewModule(pool *pgxpool.Pool, leads service.Leads, bus events.Bus, val *validator.Validator, log *logger.Logger, region string) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, leads, bus, log, region)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "templates"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Seed loads the YAML seed file, if any, inserting templates whose name is free.
func (m *Module) Seed(ctx context.Context, path string) error {
	return m.service.SeedFromFile(ctx, path)
}

// RegisterRoutes mounts template routes on the protected group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	g := ctx.Protected.Group("/templates")
	g.GET("", m.handler.List)
	g.POST("", m.handler.Create)
	g.GET("/:id", m.handler.GetByID)
	g.PUT("/:id", m.handler.Update)
	g.DELETE("/:id", m.handler.Delete)
	g.POST("/:id/render", m.handler.Render)
	g.POST("/:id/use", m.handler.Use)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
