package importing

import (
	"context"
	"fmt"

	"lead_outreach_backend/internal/events"
	"lead_outreach_backend/internal/leads/domain"
	"lead_outreach_backend/internal/leads/repository"
	"lead_outreach_backend/platform/apperr"
	"lead_outreach_backend/platform/logger"
	"lead_outreach_backend/platform/metrics"

	"github.com/google/uuid"
)

// Repository is the data access needed to commit an import.
type Repository interface {
	MaxSequence(ctx context.Context) (int, error)
	CreateBatch(ctx context.Context, params []repository.CreateLeadParams) ([]domain.Lead, error)
}

// Service runs the two import phases: Preview validates without writing,
// Commit validates again and inserts the valid rows in one batch.
type Service struct {
	repo Repository
	bus  events.Bus
	log  *logger.Logger
}

// New creates an import service.
func New(repo Repository, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, bus: bus, log: log}
}

// Result is the outcome of a commit.
type Result struct {
	Created  []domain.Lead
	Rejected []Candidate
}

// Preview validates rows and shows the sequence each valid row would get.
func (s *Service) Preview(ctx context.Context, rows []Row) ([]Candidate, error) {
	candidates := Validate(rows)
	priorMax, err := s.repo.MaxSequence(ctx)
	if err != nil {
		s.log.DatabaseError("leads.max_sequence", err)
		return nil, apperr.Upstream("leads.max_sequence", err)
	}
	return AssignSequences(candidates, priorMax), nil
}

// Commit inserts the valid rows together with their lead_imported log entries
// in one transaction. Invalid rows are reported back and never written. When nothing is valid no write happens and a validation error
// carrying the full report is returned.
func (s *Service) Commit(ctx context.Context, rows []Row) (Result, error) {
	candidates := Validate(rows)
	valid := Insertable(candidates)
	rejected := Rejected(candidates)

	if len(valid) == 0 {
		metrics.RecordImport(0, len(rejected))
		return Result{Rejected: rejected}, apperr.Validation("no valid rows to import").WithDetails(rejected)
	}

	priorMax, err := s.repo.MaxSequence(ctx)
	if err != nil {
		s.log.DatabaseError("leads.max_sequence", err)
		return Result{}, apperr.Upstream("leads.max_sequence", err)
	}
	valid = AssignSequences(valid, priorMax)

	params := make([]repository.CreateLeadParams, len(valid))
	for i, c := range valid {
		params[i] = toCreateParams(c)
		params[i].Log = &repository.LogEntry{
			Action: domain.ActionLeadImported,
			Detail: fmt.Sprintf("Importato da file (riga %d)", c.Row),
		}
	}

	created, err := s.repo.CreateBatch(ctx, params)
	if err != nil {
		s.log.DatabaseError("leads.create_batch", err)
		return Result{}, apperr.Upstream("leads.create_batch", err)
	}

	ids := make([]uuid.UUID, len(created))
	for i, lead := range created {
		ids[i] = lead.ID
	}

	metrics.RecordImport(len(created), len(rejected))
	s.log.WithContext(ctx).Info("leads imported", "created", len(created), "rejected", len(rejected))
	s.bus.Publish(ctx, events.LeadsImported{
		BaseEvent: events.NewBaseEvent(),
		LeadIDs:   ids,
		Rejected:  len(rejected),
	})

	return Result{Created: created, Rejected: rejected}, nil
}

func toCreateParams(c Candidate) repository.CreateLeadParams {
	return repository.CreateLeadParams{
		Name:     c.Fields.Name,
		Phone:    c.Fields.Phone,
		Email:    optional(c.Fields.Email),
		Interest: c.Fields.Interest,
		Notes:    optional(c.Fields.Notes),
		Context:  optional(c.Fields.Context),
		Details:  optional(c.Fields.Details),
		Channel:  domain.Channel(c.Fields.Channel),
		Sequence: c.Sequence,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
