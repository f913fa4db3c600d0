package repository

import (
	"context"

	"lead_outreach_backend/internal/leads/domain"

	"github.com/google/uuid"
)

// =====================================
// Segregated Interfaces (Interface Segregation Principle)
// =====================================

// LeadReader provides read-only access to lead data.
type LeadReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.Lead, error)
	List(ctx context.Context, params ListParams) ([]domain.Lead, error)
	CountByState(ctx context.Context) (map[domain.State]int, error)
	MaxSequence(ctx context.Context) (int, error)
}

// LeadWriter provides write operations for lead management.
type LeadWriter interface {
	Create(ctx context.Context, params CreateLeadParams) (domain.Lead, error)
	CreateBatch(ctx context.Context, params []CreateLeadParams) ([]domain.Lead, error)
	Update(ctx context.Context, id uuid.UUID, params UpdateLeadParams) (domain.Lead, error)
	DeleteLead(ctx context.Context, id uuid.UUID) error
}

// LifecycleWriter applies state transitions. Each call is a single
// conditional UPDATE and returns the state the lead had before it.
type LifecycleWriter interface {
	Approve(ctx context.Context, id uuid.UUID, params ApproveParams) (domain.Lead, domain.State, error)
	ResetForRegeneration(ctx context.Context, id uuid.UUID, feedback string) (domain.Lead, domain.State, error)
	MarkPendingApproval(ctx context.Context, id uuid.UUID) (domain.Lead, domain.State, error)
}

// ProposalStore manages generated proposal sets.
type ProposalStore interface {
	CreateProposalSet(ctx context.Context, params CreateProposalSetParams) (domain.ProposalSet, error)
	LatestProposalSet(ctx context.Context, leadID uuid.UUID) (domain.ProposalSet, error)
	ListProposalSets(ctx context.Context, leadID uuid.UUID) ([]domain.ProposalSet, error)
	DeleteProposalSetsByLead(ctx context.Context, leadID uuid.UUID) error
}

// ActivityLogger records the append-only lifecycle log.
type ActivityLogger interface {
	AppendEvent(ctx context.Context, leadID uuid.UUID, action, detail string) error
}

// EventStore reads and cascades the lifecycle log.
type EventStore interface {
	ActivityLogger
	ListEvents(ctx context.Context, leadID uuid.UUID) ([]domain.LifecycleEvent, error)
	DeleteEventsByLead(ctx context.Context, leadID uuid.UUID) error
	ListWithLastEvent(ctx context.Context) ([]LeadWithLastEvent, error)
}

// =====================================
// Composite Interface
// =====================================

// LeadsRepository defines the complete interface for leads data operations.
type LeadsRepository interface {
	LeadReader
	LeadWriter
	LifecycleWriter
	ProposalStore
	EventStore
}

// Ensure Repository implements LeadsRepository
var _ LeadsRepository = (*Repository)(nil)
