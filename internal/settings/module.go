package settings

import (
	"lead_outreach_backend/internal/email"
	"lead_outreach_backend/internal/events"
	apphttp "lead_outreach_backend/internal/http"
	"lead_outreach_backend/platform/logger"
	"lead_outreach_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module exposes operator settings and the proposal notifier.
type Module struct {
	handler  *Handler
	service  *Service
	notifier *Notifier
}

// NewModule wires the settings store, service and notifier.
func NewModule(pool *pgxpool.Pool, leads LeadReader, sender email.Sender, val *validator.Validator, log *logger.Logger) *Module {
	svc := NewService(NewRepository(pool), val, log)
	return &Module{
		handler:  NewHandler(svc, val),
		service:  svc,
		notifier: NewNotifier(svc, leads, sender, log),
	}
}

func (m *Module) Name() string { return "settings" }

// RegisterHandlers subscribes the notifier to the bus.
func (m *Module) RegisterHandlers(bus events.Bus) { m.notifier.RegisterHandlers(bus) }

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	g := ctx.Protected.Group("/settings")
	g.GET("/notification-email", m.handler.GetNotificationEmail)
	g.PUT("/notification-email", m.handler.PutNotificationEmail)
}

var _ apphttp.Module = (*Module)(nil)
