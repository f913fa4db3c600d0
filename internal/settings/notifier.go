package settings

import (
	"context"
	"errors"
	"fmt"

	"lead_outreach_backend/internal/email"
	"lead_outreach_backend/internal/events"
	"lead_outreach_backend/internal/leads/domain"
	"lead_outreach_backend/platform/logger"
	"lead_outreach_backend/platform/metrics"

	"github.com/google/uuid"
)

const notificationSubject = "Nuovi messaggi da approvare"

// LeadReader loads the lead named in a notification.
type LeadReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.Lead, error)
}

// Notifier emails the operator when the generator delivers proposals.
type Notifier struct {
	settings *Service
	leads    LeadReader
	sender   email.Sender
	log      *logger.Logger
}

// NewNotifier creates a notifier. A nil sender disables delivery.
func NewNotifier(settings *Service, leads LeadReader, sender email.Sender, log *logger.Logger) *Notifier {
	if sender == nil {
		sender = email.NoopSender{}
	}
	return &Notifier{settings: settings, leads: leads, sender: sender, log: log}
}

// RegisterHandlers subscribes to proposal arrivals.
func (n *Notifier) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.ProposalsReceived{}.EventName(), n)
}

// Handle implements events.Handler. Delivery failures are logged, not returned.
func (n *Notifier) Handle(ctx context.Context, event events.Event) error {
	e, ok := event.(events.ProposalsReceived)
	if !ok {
		return nil
	}

	to, err := n.settings.NotificationEmail(ctx)
	if err != nil || to == "" {
		return nil
	}

	lead, err := n.leads.GetByID(ctx, e.LeadID)
	if err != nil {
		n.log.Warn("notification skipped, lead not readable", "leadId", e.LeadID.String(), "error", err)
		return nil
	}

	body := fmt.Sprintf(
		"Sono pronti nuovi messaggi per %s (%s).\nInteresse: %s\nLead ID: %s",
		lead.Name, lead.Phone, lead.Interest, lead.ID,
	)
	err = n.sender.SendOutreach(ctx, to, notificationSubject, body)
	if errors.Is(err, email.ErrNotConfigured) {
		n.log.Debug("notification skipped, smtp not configured", "leadId", lead.ID.String())
		return nil
	}
	if err != nil {
		n.log.DispatchFailed("notification", lead.ID.String(), err)
		metrics.RecordDispatchError("notification")
	}
	return nil
}
