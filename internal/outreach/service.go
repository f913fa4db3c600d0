package outreach

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"lead_outreach_backend/internal/email"
	"lead_outreach_backend/internal/events"
	"lead_outreach_backend/internal/leads/domain"
	"lead_outreach_backend/internal/leads/repository"
	"lead_outreach_backend/internal/whatsapp"
	"lead_outreach_backend/platform/apperr"
	"lead_outreach_backend/platform/logger"
	"lead_outreach_backend/platform/metrics"

	"github.com/google/uuid"
)

// Leads is the part of the leads store outreach reads and logs to.
type Leads interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.Lead, error)
	repository.ActivityLogger
}

// WhatsAppSender delivers a WhatsApp text.
type WhatsAppSender interface {
	SendMessage(ctx context.Context, phoneNumber, message string) error
}

// Service builds launch links and sends messages directly when a gateway is configured.
type Service struct {
	leads    Leads
	whatsapp WhatsAppSender
	email    email.Sender
	bus      events.Bus
	log      *logger.Logger
	region   string
}

// New creates an outreach service. A nil whatsapp sender disables direct WhatsApp delivery.
func New(leads Leads, wa WhatsAppSender, mail email.Sender, bus events.Bus, log *logger.Logger, region string) *Service {
	if mail == nil {
		mail = email.NoopSender{}
	}
	return &Service{leads: leads, whatsapp: wa, email: mail, bus: bus, log: log, region: region}
}

// Links holds the launch links for one lead.
type Links struct {
	WhatsAppURL string
	MailtoURL   string
}

// LaunchInput selects the message to prefill. An empty Text falls back to the
// approved message when the lead has one.
type LaunchInput struct {
	Channel string
	Subject string
	Text    string
}

// Launch builds the deep links for a lead.
func (s *Service) Launch(ctx context.Context, leadID uuid.UUID, in LaunchInput) (Links, error) {
	lead, err := s.getLead(ctx, leadID)
	if err != nil {
		return Links{}, err
	}

	text := in.Text
	if strings.TrimSpace(text) == "" && lead.Approval != nil {
		text = lead.Approval.Message
	}

	var links Links
	channel, _ := domain.ParseChannel(in.Channel)
	if strings.TrimSpace(in.Channel) == "" {
		channel = lead.Channel
	}
	if channel == domain.ChannelWhatsApp || channel == domain.ChannelBoth {
		links.WhatsAppURL = WhatsAppLink(lead.Phone, text, s.region)
	}
	if (channel == domain.ChannelEmail || channel == domain.ChannelBoth) && lead.Email != nil {
		links.MailtoURL = MailtoLink(*lead.Email, in.Subject, text)
	}
	return links, nil
}

// SendInput is a direct delivery request.
type SendInput struct {
	Channel string
	Subject string
	Body    string
}

// Send delivers a message through the gateway for the channel and logs a
// message_sent entry. The lead's state is not changed.
func (s *Service) Send(ctx context.Context, leadID uuid.UUID, in SendInput) error {
	channel, ok := domain.ParseChannel(in.Channel)
	if !ok || !channel.Sendable() || strings.TrimSpace(in.Channel) == "" {
		return apperr.Validation("channel must be whatsapp or email")
	}
	body := strings.TrimSpace(in.Body)
	if body == "" {
		return apperr.Validation("body is required")
	}

	lead, err := s.getLead(ctx, leadID)
	if err != nil {
		return err
	}

	switch channel {
	case domain.ChannelWhatsApp:
		if s.whatsapp == nil {
			return apperr.BadRequest("whatsapp delivery is not configured")
		}
		if err := s.whatsapp.SendMessage(ctx, lead.Phone, body); err != nil {
			if errors.Is(err, whatsapp.ErrNotConfigured) {
				return apperr.BadRequest("whatsapp delivery is not configured")
			}
			return s.dispatchFailed("whatsapp", leadID, err)
		}
	case domain.ChannelEmail:
		if lead.Email == nil || strings.TrimSpace(*lead.Email) == "" {
			return apperr.Validation("lead has no email address")
		}
		if err := s.email.SendOutreach(ctx, *lead.Email, in.Subject, body); err != nil {
			if errors.Is(err, email.ErrNotConfigured) {
				return apperr.BadRequest("email delivery is not configured")
			}
			return s.dispatchFailed("smtp", leadID, err)
		}
	}

	return s.recordSent(ctx, leadID, channel, fmt.Sprintf("channel=%s", channel))
}

// MarkSent records a message the operator delivered outside the gateways,
// for example through a mailto or wa.me launch link. Nothing is sent.
func (s *Service) MarkSent(ctx context.Context, leadID uuid.UUID, rawChannel string) error {
	channel, ok := domain.ParseChannel(rawChannel)
	if !ok || !channel.Sendable() || strings.TrimSpace(rawChannel) == "" {
		return apperr.Validation("channel must be whatsapp or email")
	}
	if _, err := s.getLead(ctx, leadID); err != nil {
		return err
	}
	return s.recordSent(ctx, leadID, channel, fmt.Sprintf("channel=%s manual=true", channel))
}

func (s *Service) recordSent(ctx context.Context, leadID uuid.UUID, channel domain.Channel, detail string) error {
	if err := s.leads.AppendEvent(ctx, leadID, domain.ActionMessageSent, detail); err != nil {
		s.log.DatabaseError("lead_events.append", err)
		return apperr.Upstream("lead_events.append", err)
	}
	metrics.RecordTransition(domain.ActionMessageSent)

	s.bus.Publish(ctx, events.MessageSent{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    leadID,
		Channel:   string(channel),
	})
	return nil
}

func (s *Service) getLead(ctx context.Context, id uuid.UUID) (domain.Lead, error) {
	lead, err := s.leads.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.Lead{}, apperr.NotFound("lead not found")
	}
	if err != nil {
		s.log.DatabaseError("leads.get", err)
		return domain.Lead{}, apperr.Upstream("leads.get", err)
	}
	return lead, nil
}

func (s *Service) dispatchFailed(target string, leadID uuid.UUID, err error) error {
	s.log.DispatchFailed(target, leadID.String(), err)
	metrics.RecordDispatchError(target)
	return apperr.Upstream(target+".send", err)
}

var _ WhatsAppSender = (*whatsapp.Client)(nil)
