package repository

import (
	"context"
	"errors"

	"lead_outreach_backend/internal/leads/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrNoProposals is returned when a lead has no proposal set yet.
var ErrNoProposals = errors.New("no proposal set for lead")

const proposalColumns = `id, lead_id, legacy_formal, legacy_cordial, legacy_urgent,
	whatsapp_formal, whatsapp_cordial, whatsapp_urgent,
	email_formal, email_cordial, email_urgent, created_at`

type CreateProposalSetParams struct {
	LeadID   uuid.UUID
	Legacy   domain.ToneSlots
	WhatsApp domain.ToneSlots
	Email    domain.ToneSlots
}

func scanProposalSet(row pgx.Row) (domain.ProposalSet, error) {
	var set domain.ProposalSet
	err := row.Scan(
		&set.ID, &set.LeadID,
		&set.Legacy.Formal, &set.Legacy.Cordial, &set.Legacy.Urgent,
		&set.WhatsApp.Formal, &set.WhatsApp.Cordial, &set.WhatsApp.Urgent,
		&set.Email.Formal, &set.Email.Cordial, &set.Email.Urgent,
		&set.CreatedAt,
	)
	return set, err
}

func (r *Repository) CreateProposalSet(ctx context.Context, params CreateProposalSetParams) (domain.ProposalSet, error) {
	return scanProposalSet(r.pool.QueryRow(ctx, `
		INSERT INTO proposal_sets (
			id, lead_id, legacy_formal, legacy_cordial, legacy_urgent,
			whatsapp_formal, whatsapp_cordial, whatsapp_urgent,
			email_formal, email_cordial, email_urgent
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+proposalColumns,
		uuid.New(), params.LeadID,
		params.Legacy.Formal, params.Legacy.Cordial, params.Legacy.Urgent,
		params.WhatsApp.Formal, params.WhatsApp.Cordial, params.WhatsApp.Urgent,
		params.Email.Formal, params.Email.Cordial, params.Email.Urgent,
	))
}

// LatestProposalSet returns the set with the greatest created_at for the lead.
func (r *Repository) LatestProposalSet(ctx context.Context, leadID uuid.UUID) (domain.ProposalSet, error) {
	set, err := scanProposalSet(r.pool.QueryRow(ctx, `
		SELECT `+proposalColumns+`
		FROM proposal_sets
		WHERE lead_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, leadID))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ProposalSet{}, ErrNoProposals
	}
	return set, err
}

func (r *Repository) ListProposalSets(ctx context.Context, leadID uuid.UUID) ([]domain.ProposalSet, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+proposalColumns+`
		FROM proposal_sets
		WHERE lead_id = $1
		ORDER BY created_at DESC
	`, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sets := make([]domain.ProposalSet, 0)
	for rows.Next() {
		set, err := scanProposalSet(rows)
		if err != nil {
			return nil, err
		}
		sets = append(sets, set)
	}
	return sets, rows.Err()
}

func (r *Repository) DeleteProposalSetsByLead(ctx context.Context, leadID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM proposal_sets WHERE lead_id = $1`, leadID)
	return err
}
