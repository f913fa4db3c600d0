package repository

import (
	"context"
	"time"

	"lead_outreach_backend/internal/leads/domain"

	"github.com/google/uuid"
)

// LeadWithLastEvent pairs a lead with its most recent lifecycle entry, if any.
type LeadWithLastEvent struct {
	Lead      domain.Lead
	LastEvent *domain.LifecycleEvent
}

func (r *Repository) AppendEvent(ctx context.Context, leadID uuid.UUID, action, detail string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO lead_events (id, lead_id, action, detail)
		VALUES ($1, $2, $3, $4)
	`, uuid.New(), leadID, action, detail)
	return err
}

func (r *Repository) ListEvents(ctx context.Context, leadID uuid.UUID) ([]domain.LifecycleEvent, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, lead_id, action, detail, created_at
		FROM lead_events
		WHERE lead_id = $1
		ORDER BY created_at DESC
	`, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.LifecycleEvent, 0)
	for rows.Next() {
		var e domain.LifecycleEvent
		if err := rows.Scan(&e.ID, &e.LeadID, &e.Action, &e.Detail, &e.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

func (r *Repository) DeleteEventsByLead(ctx context.Context, leadID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM lead_events WHERE lead_id = $1`, leadID)
	return err
}

// ListWithLastEvent feeds the export: every lead, newest first, with its latest log entry.
func (r *Repository) ListWithLastEvent(ctx context.Context) ([]LeadWithLastEvent, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+qualified("l", leadColumns)+`,
			e.id, e.action, e.detail, e.created_at
		FROM leads l
		LEFT JOIN LATERAL (
			SELECT id, action, detail, created_at
			FROM lead_events
			WHERE lead_id = l.id
			ORDER BY created_at DESC
			LIMIT 1
		) e ON TRUE
		ORDER BY l.created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]LeadWithLastEvent, 0)
	for rows.Next() {
		var (
			eventID *uuid.UUID
			action  *string
			detail  *string
			eventAt *time.Time
		)
		lead, err := scanLead(suffixedRow{rows: rows, tail: []interface{}{&eventID, &action, &detail, &eventAt}})
		if err != nil {
			return nil, err
		}

		item := LeadWithLastEvent{Lead: lead}
		if eventID != nil && action != nil && eventAt != nil {
			ev := domain.LifecycleEvent{ID: *eventID, LeadID: lead.ID, Action: *action, CreatedAt: *eventAt}
			if detail != nil {
				ev.Detail = *detail
			}
			item.LastEvent = &ev
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// suffixedRow appends trailing scan targets after the lead columns.
type suffixedRow struct {
	rows interface {
		Scan(dest ...interface{}) error
	}
	tail []interface{}
}

func (s suffixedRow) Scan(dest ...interface{}) error {
	return s.rows.Scan(append(dest, s.tail...)...)
}
