// Package management handles manual lead entry and the read side of the
// leads context: detail with resolved proposals, listing, stats and the
// lifecycle log.
package management

import (
	"context"
	"errors"
	"strings"

	"lead_outreach_backend/internal/events"
	"lead_outreach_backend/internal/leads/domain"
	"lead_outreach_backend/internal/leads/repository"
	"lead_outreach_backend/internal/leads/transport"
	"lead_outreach_backend/platform/apperr"
	"lead_outreach_backend/platform/logger"
	"lead_outreach_backend/platform/metrics"
	"lead_outreach_backend/platform/phone"
	"lead_outreach_backend/platform/sanitize"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const msgLeadNotFound = "lead not found"

// Repository defines the data access interface needed by the management service.
// This is a consumer-driven interface - only what management needs.
type Repository interface {
	repository.LeadReader
	Create(ctx context.Context, params repository.CreateLeadParams) (domain.Lead, error)
	LatestProposalSet(ctx context.Context, leadID uuid.UUID) (domain.ProposalSet, error)
	ListProposalSets(ctx context.Context, leadID uuid.UUID) ([]domain.ProposalSet, error)
	ListEvents(ctx context.Context, leadID uuid.UUID) ([]domain.LifecycleEvent, error)
	repository.ActivityLogger
}

// Service handles lead management operations.
type Service struct {
	repo   Repository
	bus    events.Bus
	log    *logger.Logger
	region string
}

// New creates a new lead management service.
func New(repo Repository, bus events.Bus, log *logger.Logger, region string) *Service {
	return &Service{repo: repo, bus: bus, log: log, region: region}
}

// Create stores a manually entered lead in state new. The sequence continues
// from the current maximum so manual entries keep a stable order.
func (s *Service) Create(ctx context.Context, req transport.CreateLeadRequest) (transport.LeadResponse, error) {
	name := sanitize.Line(req.Name)
	phoneRaw := strings.TrimSpace(req.Phone)
	if name == "" || phoneRaw == "" {
		return transport.LeadResponse{}, apperr.Validation("name and phone are required")
	}
	channel, ok := domain.ParseChannel(req.Channel)
	if !ok {
		return transport.LeadResponse{}, apperr.Validation("channel must be whatsapp, email or both")
	}

	maxSeq, err := s.repo.MaxSequence(ctx)
	if err != nil {
		return transport.LeadResponse{}, s.mapError("leads.max_sequence", err)
	}
	sequence := maxSeq + 1

	params := repository.CreateLeadParams{
		Name:     name,
		Phone:    phone.NormalizeE164(phoneRaw, s.region),
		Interest: sanitize.Line(req.Interest),
		Notes:    sanitize.TextPtr(req.Notes),
		Context:  sanitize.TextPtr(req.Context),
		Details:  sanitize.TextPtr(req.Details),
		Channel:  channel,
		Sequence: &sequence,
	}
	if email := strings.TrimSpace(req.Email); email != "" {
		params.Email = &email
	}

	lead, err := s.repo.Create(ctx, params)
	if err != nil {
		return transport.LeadResponse{}, s.mapError("leads.create", err)
	}

	if err := s.repo.AppendEvent(ctx, lead.ID, domain.ActionLeadCreated, "Inserito manualmente: "+lead.Name); err != nil {
		return transport.LeadResponse{}, s.mapError("lead_events.append", err)
	}
	metrics.RecordTransition(domain.ActionLeadCreated)
	s.log.WithContext(ctx).LifecycleTransition(lead.ID.String(), "", string(lead.State), domain.ActionLeadCreated)

	s.bus.Publish(ctx, events.LeadCreated{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    lead.ID,
		Channel:   string(lead.Channel),
	})

	return ToLeadResponse(lead), nil
}

// GetByID returns the lead together with the resolution of its current
// proposal set. Both are loaded concurrently.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.LeadDetailResponse, error) {
	var (
		lead domain.Lead
		set  *domain.ProposalSet
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		l, err := s.repo.GetByID(gctx, id)
		if err != nil {
			return err
		}
		lead = l
		return nil
	})
	g.Go(func() error {
		latest, err := s.repo.LatestProposalSet(gctx, id)
		if errors.Is(err, repository.ErrNoProposals) {
			return nil
		}
		if err != nil {
			return err
		}
		set = &latest
		return nil
	})
	if err := g.Wait(); err != nil {
		return transport.LeadDetailResponse{}, s.mapError("leads.get", err)
	}

	return transport.LeadDetailResponse{
		Lead:      ToLeadResponse(lead),
		Proposals: ToResolutionResponse(domain.Resolve(lead.Channel, set)),
	}, nil
}

// Proposals resolves the current proposal set for the lead's channel, or for
// the override when one is given, and lists every stored generation cycle.
func (s *Service) Proposals(ctx context.Context, id uuid.UUID, channelOverride string) (transport.ProposalsResponse, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.ProposalsResponse{}, s.mapError("leads.get", err)
	}

	channel := lead.Channel
	if strings.TrimSpace(channelOverride) != "" {
		parsed, ok := domain.ParseChannel(channelOverride)
		if !ok {
			return transport.ProposalsResponse{}, apperr.Validation("channel must be whatsapp, email or both")
		}
		channel = parsed
	}

	sets, err := s.repo.ListProposalSets(ctx, id)
	if err != nil {
		return transport.ProposalsResponse{}, s.mapError("proposal_sets.list", err)
	}

	history := make([]transport.ProposalSetSummary, len(sets))
	for i, set := range sets {
		history[i] = transport.ProposalSetSummary{ID: set.ID, CreatedAt: set.CreatedAt}
	}

	return transport.ProposalsResponse{
		Current: ToResolutionResponse(domain.Resolve(channel, domain.Latest(sets))),
		History: history,
	}, nil
}

// List returns leads newest first, optionally filtered by state and a free-text search.
func (s *Service) List(ctx context.Context, req transport.ListLeadsRequest) (transport.LeadListResponse, error) {
	params := repository.ListParams{
		Search: strings.TrimSpace(req.Search),
		Limit:  req.Limit,
		Offset: req.Offset,
	}
	if req.State != "" {
		state := domain.State(req.State)
		if !state.Valid() {
			return transport.LeadListResponse{}, apperr.Validation("unknown state")
		}
		params.State = &state
	}

	leads, err := s.repo.List(ctx, params)
	if err != nil {
		return transport.LeadListResponse{}, s.mapError("leads.list", err)
	}

	return transport.LeadListResponse{
		Items: ToLeadResponses(leads),
		Total: len(leads),
	}, nil
}

// Stats counts leads per lifecycle state.
func (s *Service) Stats(ctx context.Context) (transport.StatsResponse, error) {
	counts, err := s.repo.CountByState(ctx)
	if err != nil {
		return transport.StatsResponse{}, s.mapError("leads.count_by_state", err)
	}

	resp := transport.StatsResponse{
		New:             counts[domain.StateNew],
		PendingApproval: counts[domain.StatePendingApproval],
		Approved:        counts[domain.StateApproved],
	}
	resp.Total = resp.New + resp.PendingApproval + resp.Approved
	return resp, nil
}

// Events returns the lifecycle log of a lead, newest first.
func (s *Service) Events(ctx context.Context, id uuid.UUID) ([]transport.LifecycleEventResponse, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, s.mapError("leads.get", err)
	}

	items, err := s.repo.ListEvents(ctx, id)
	if err != nil {
		return nil, s.mapError("lead_events.list", err)
	}
	return ToEventResponses(items), nil
}

func (s *Service) mapError(op string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound(msgLeadNotFound)
	}
	s.log.DatabaseError(op, err)
	return apperr.Upstream(op, err)
}
