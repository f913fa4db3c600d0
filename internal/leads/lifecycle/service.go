// Package lifecycle owns the lead approval state machine. It is the only
// component that changes a lead's state or feedback and the only writer of
// operator-driven lifecycle log entries.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"lead_outreach_backend/internal/events"
	"lead_outreach_backend/internal/leads/domain"
	"lead_outreach_backend/internal/leads/repository"
	"lead_outreach_backend/platform/apperr"
	"lead_outreach_backend/platform/logger"
	"lead_outreach_backend/platform/metrics"
	"lead_outreach_backend/platform/phone"
	"lead_outreach_backend/platform/sanitize"

	"github.com/google/uuid"
)

const msgLeadNotFound = "lead not found"

// Repository is the data access needed by the lifecycle controller.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.Lead, error)
	Update(ctx context.Context, id uuid.UUID, params repository.UpdateLeadParams) (domain.Lead, error)
	DeleteLead(ctx context.Context, id uuid.UUID) error
	LatestProposalSet(ctx context.Context, leadID uuid.UUID) (domain.ProposalSet, error)
	DeleteProposalSetsByLead(ctx context.Context, leadID uuid.UUID) error
	DeleteEventsByLead(ctx context.Context, leadID uuid.UUID) error
	repository.LifecycleWriter
	repository.ActivityLogger
}

// Service applies lifecycle operations.
type Service struct {
	repo   Repository
	bus    events.Bus
	log    *logger.Logger
	region string
}

// New creates a lifecycle controller. region is the default phone region used
// to normalize edited numbers.
func New(repo Repository, bus events.Bus, log *logger.Logger, region string) *Service {
	return &Service{repo: repo, bus: bus, log: log, region: region}
}

// ApproveInput carries the operator's choice. Tone is optional; when empty it
// is inferred by matching Message against the current proposals.
type ApproveInput struct {
	Message string
	Channel string
	Tone    string
}

// EditInput carries the operator-editable contact fields. Name and phone are
// required; nil optional fields keep the stored value and an empty Email
// clears it.
type EditInput struct {
	Name     string
	Phone    string
	Email    *string
	Interest *string
	Channel  *string
	Notes    *string
	Context  *string
}

// Approve marks the lead approved and stores the exact message and the
// channel/tone it was chosen for. Sending is not performed here.
func (s *Service) Approve(ctx context.Context, id uuid.UUID, in ApproveInput) (domain.Lead, error) {
	if strings.TrimSpace(in.Message) == "" {
		return domain.Lead{}, apperr.Validation("message is required")
	}
	channel, ok := domain.ParseChannel(in.Channel)
	if !ok || strings.TrimSpace(in.Channel) == "" || !channel.Sendable() {
		return domain.Lead{}, apperr.Validation("channel must be whatsapp or email")
	}

	var tone *domain.Tone
	if strings.TrimSpace(in.Tone) != "" {
		t, ok := domain.ParseTone(in.Tone)
		if !ok {
			return domain.Lead{}, apperr.Validation("tone must be formal, cordial or urgent")
		}
		tone = &t
	} else {
		inferred, err := s.inferTone(ctx, id, channel, in.Message)
		if err != nil {
			return domain.Lead{}, err
		}
		tone = inferred
	}

	lead, prev, err := s.repo.Approve(ctx, id, repository.ApproveParams{
		Message: in.Message,
		Channel: channel,
		Tone:    tone,
	})
	if err != nil {
		return domain.Lead{}, s.mapError("leads.approve", err)
	}

	if err := s.appendEvent(ctx, id, domain.ActionMessageApproved, approvalDetail(channel, tone)); err != nil {
		return domain.Lead{}, err
	}
	s.logTransition(ctx, id, prev, lead.State, domain.ActionMessageApproved)

	ev := events.LeadApproved{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    id,
		Channel:   string(channel),
		Message:   in.Message,
	}
	if tone != nil {
		ev.Tone = string(*tone)
	}
	s.bus.Publish(ctx, ev)

	return lead, nil
}

// RequestRegeneration sends the lead back to the external generator. Missing
// feedback is recorded as domain.NoFeedbackProvided. Repeated calls are not
// deduplicated; each one notifies the generator again.
func (s *Service) RequestRegeneration(ctx context.Context, id uuid.UUID, feedback *string) (domain.Lead, error) {
	text := domain.NoFeedbackProvided
	if feedback != nil {
		if cleaned := sanitize.Text(*feedback); cleaned != "" {
			text = cleaned
		}
	}

	lead, prev, err := s.repo.ResetForRegeneration(ctx, id, text)
	if err != nil {
		return domain.Lead{}, s.mapError("leads.request_regeneration", err)
	}

	if err := s.appendEvent(ctx, id, domain.ActionRegenerationRequested, text); err != nil {
		return domain.Lead{}, err
	}
	s.logTransition(ctx, id, prev, lead.State, domain.ActionRegenerationRequested)

	s.bus.Publish(ctx, events.RegenerationRequested{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    id,
		Feedback:  text,
		Channel:   string(lead.Channel),
	})

	return lead, nil
}

// Edit updates the lead's contact fields. Name and phone must be non-blank.
func (s *Service) Edit(ctx context.Context, id uuid.UUID, in EditInput) (domain.Lead, error) {
	name := sanitize.Line(in.Name)
	phoneRaw := strings.TrimSpace(in.Phone)
	if name == "" || phoneRaw == "" {
		return domain.Lead{}, apperr.Validation("name and phone are required").
			WithDetails(missingFields(name, phoneRaw))
	}

	params := repository.UpdateLeadParams{
		Name:    name,
		Phone:   phone.NormalizeE164(phoneRaw, s.region),
		Notes:   sanitize.TextPtr(in.Notes),
		Context: sanitize.TextPtr(in.Context),
	}
	if in.Channel != nil && strings.TrimSpace(*in.Channel) != "" {
		channel, ok := domain.ParseChannel(*in.Channel)
		if !ok {
			return domain.Lead{}, apperr.Validation("channel must be whatsapp, email or both")
		}
		params.Channel = &channel
	}
	if in.Interest != nil {
		interest := sanitize.Line(*in.Interest)
		params.Interest = &interest
	}
	if in.Email != nil {
		if email := strings.TrimSpace(*in.Email); email != "" {
			params.Email = &email
		} else {
			params.ClearEmail = true
		}
	}

	lead, err := s.repo.Update(ctx, id, params)
	if err != nil {
		return domain.Lead{}, s.mapError("leads.edit", err)
	}

	if err := s.appendEvent(ctx, id, domain.ActionLeadModified, "Modificato: "+lead.Name); err != nil {
		return domain.Lead{}, err
	}
	s.logTransition(ctx, id, lead.State, lead.State, domain.ActionLeadModified)
	s.bus.Publish(ctx, events.LeadModified{BaseEvent: events.NewBaseEvent(), LeadID: id})

	return lead, nil
}

// Delete removes the lead's log entries and proposal sets before the lead itself.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return s.mapError("leads.get", err)
	}

	if err := s.repo.DeleteEventsByLead(ctx, id); err != nil {
		return s.mapError("lead_events.delete", err)
	}
	if err := s.repo.DeleteProposalSetsByLead(ctx, id); err != nil {
		return s.mapError("proposal_sets.delete", err)
	}
	if err := s.repo.DeleteLead(ctx, id); err != nil {
		return s.mapError("leads.delete", err)
	}

	s.log.WithContext(ctx).Info("lead deleted", "lead_id", id.String())
	s.bus.Publish(ctx, events.LeadDeleted{BaseEvent: events.NewBaseEvent(), LeadID: id})
	return nil
}

func (s *Service) inferTone(ctx context.Context, id uuid.UUID, channel domain.Channel, message string) (*domain.Tone, error) {
	set, err := s.repo.LatestProposalSet(ctx, id)
	if errors.Is(err, repository.ErrNoProposals) {
		return nil, nil
	}
	if err != nil {
		return nil, s.mapError("proposal_sets.latest", err)
	}
	return domain.InferTone(domain.Resolve(channel, &set), channel, message), nil
}

func (s *Service) appendEvent(ctx context.Context, id uuid.UUID, action, detail string) error {
	if err := s.repo.AppendEvent(ctx, id, action, detail); err != nil {
		return s.mapError("lead_events.append", err)
	}
	metrics.RecordTransition(action)
	return nil
}

func (s *Service) logTransition(ctx context.Context, id uuid.UUID, from, to domain.State, action string) {
	s.log.WithContext(ctx).LifecycleTransition(id.String(), string(from), string(to), action)
}

func (s *Service) mapError(op string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound(msgLeadNotFound)
	}
	s.log.DatabaseError(op, err)
	return apperr.Upstream(op, err)
}

func approvalDetail(channel domain.Channel, tone *domain.Tone) string {
	if tone == nil {
		return fmt.Sprintf("channel=%s", channel)
	}
	return fmt.Sprintf("channel=%s tone=%s", channel, *tone)
}

func missingFields(name, phoneNumber string) []string {
	missing := make([]string, 0, 2)
	if name == "" {
		missing = append(missing, "name")
	}
	if phoneNumber == "" {
		missing = append(missing, "phone")
	}
	return missing
}
