package repository

import (
	"context"
	"errors"

	"lead_outreach_backend/internal/leads/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// transition runs a single UPDATE that also reports the previous state.
// The prev CTE locks the row so the reported state is the one replaced.
func (r *Repository) transition(ctx context.Context, set string, id uuid.UUID, args ...interface{}) (domain.Lead, domain.State, error) {
	query := `
		WITH prev AS (SELECT id, state FROM leads WHERE id = $1 FOR UPDATE)
		UPDATE leads l SET ` + set + `, updated_at = now()
		FROM prev
		WHERE l.id = prev.id
		RETURNING prev.state, ` + qualified("l", leadColumns)

	var prevState string
	row := r.pool.QueryRow(ctx, query, append([]interface{}{id}, args...)...)
	lead, err := scanLead(prefixedRow{row: row, first: &prevState})
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Lead{}, "", ErrNotFound
	}
	if err != nil {
		return domain.Lead{}, "", err
	}
	return lead, domain.State(prevState), nil
}

func (r *Repository) Approve(ctx context.Context, id uuid.UUID, params ApproveParams) (domain.Lead, domain.State, error) {
	var tone *string
	if params.Tone != nil {
		t := string(*params.Tone)
		tone = &t
	}
	return r.transition(ctx,
		`state = 'approved', approved_message = $2, approved_channel = $3, approved_tone = $4, approved_at = now()`,
		id, params.Message, string(params.Channel), tone,
	)
}

func (r *Repository) ResetForRegeneration(ctx context.Context, id uuid.UUID, feedback string) (domain.Lead, domain.State, error) {
	return r.transition(ctx, `state = 'new', regeneration_feedback = $2`, id, feedback)
}

// MarkPendingApproval only moves leads that can accept proposals; an approved
// lead is returned unchanged.
func (r *Repository) MarkPendingApproval(ctx context.Context, id uuid.UUID) (domain.Lead, domain.State, error) {
	return r.transition(ctx,
		`state = CASE WHEN prev.state = 'approved' THEN 'approved' ELSE 'pending_approval' END`,
		id,
	)
}

// prefixedRow scans one leading column into first and forwards the rest.
type prefixedRow struct {
	row   pgx.Row
	first *string
}

func (p prefixedRow) Scan(dest ...interface{}) error {
	return p.row.Scan(append([]interface{}{p.first}, dest...)...)
}
