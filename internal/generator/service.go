// Package generator is the boundary with the external message generator:
// it ingests generated proposal sets and dispatches regeneration requests.
package generator

import (
	"context"
	"errors"
	"fmt"

	"lead_outreach_backend/internal/events"
	"lead_outreach_backend/internal/leads/domain"
	"lead_outreach_backend/internal/leads/repository"
	"lead_outreach_backend/platform/apperr"
	"lead_outreach_backend/platform/logger"
	"lead_outreach_backend/platform/metrics"

	"github.com/google/uuid"
)

// Repository is what ingestion needs from the leads store.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.Lead, error)
	CreateProposalSet(ctx context.Context, params repository.CreateProposalSetParams) (domain.ProposalSet, error)
	MarkPendingApproval(ctx context.Context, id uuid.UUID) (domain.Lead, domain.State, error)
	repository.ActivityLogger
}

// Service stores proposal sets sent by the generator.
type Service struct {
	repo Repository
	bus  events.Bus
	log  *logger.Logger
}

// NewService creates the ingestion service.
func NewService(repo Repository, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, bus: bus, log: log}
}

// ReceiveProposals appends a new proposal set for the lead and moves it to
// pending_approval. Earlier sets are kept; an approved lead stays approved.
func (s *Service) ReceiveProposals(ctx context.Context, req ProposalsRequest) (ProposalsResponse, error) {
	params := repository.CreateProposalSetParams{
		LeadID:   req.LeadID,
		Legacy:   textSlots(req.Legacy),
		WhatsApp: textSlots(req.WhatsApp),
		Email:    emailSlots(req.Email),
	}
	if !params.Legacy.Present() && !params.WhatsApp.Present() && !params.Email.Present() {
		return ProposalsResponse{}, apperr.Validation("proposal set has no messages")
	}

	if _, err := s.repo.GetByID(ctx, req.LeadID); err != nil {
		return ProposalsResponse{}, s.mapError("leads.get", err)
	}

	set, err := s.repo.CreateProposalSet(ctx, params)
	if err != nil {
		return ProposalsResponse{}, s.mapError("proposal_sets.create", err)
	}

	lead, prev, err := s.repo.MarkPendingApproval(ctx, req.LeadID)
	if err != nil {
		return ProposalsResponse{}, s.mapError("leads.mark_pending_approval", err)
	}

	detail := fmt.Sprintf("proposal_set=%s", set.ID)
	if err := s.repo.AppendEvent(ctx, lead.ID, domain.ActionProposalsReceived, detail); err != nil {
		return ProposalsResponse{}, s.mapError("lead_events.append", err)
	}
	metrics.RecordTransition(domain.ActionProposalsReceived)
	s.log.WithContext(ctx).LifecycleTransition(lead.ID.String(), string(prev), string(lead.State), domain.ActionProposalsReceived)

	s.bus.Publish(ctx, events.ProposalsReceived{
		BaseEvent:     events.NewBaseEvent(),
		LeadID:        lead.ID,
		ProposalSetID: set.ID,
	})

	return ProposalsResponse{
		ProposalSetID: set.ID,
		LeadID:        lead.ID,
		State:         string(lead.State),
		CreatedAt:     set.CreatedAt,
	}, nil
}

func (s *Service) mapError(op string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("lead not found")
	}
	s.log.DatabaseError(op, err)
	return apperr.Upstream(op, err)
}

func textSlots(in *TextSlots) domain.ToneSlots {
	if in == nil {
		return domain.ToneSlots{}
	}
	return domain.ToneSlots{
		Formal:  nonBlank(in.Formal),
		Cordial: nonBlank(in.Cordial),
		Urgent:  nonBlank(in.Urgent),
	}
}

func emailSlots(in *EmailSlots) domain.ToneSlots {
	if in == nil {
		return domain.ToneSlots{}
	}
	return domain.ToneSlots{
		Formal:  encodeEmail(in.Formal),
		Cordial: encodeEmail(in.Cordial),
		Urgent:  encodeEmail(in.Urgent),
	}
}

func encodeEmail(slot *EmailSlot) *string {
	if slot == nil {
		return nil
	}
	encoded := domain.EncodeEmailMessage(domain.EmailMessage{Subject: slot.Subject, Body: slot.Body})
	return &encoded
}

func nonBlank(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
