package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"lead_outreach_backend/internal/leads/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("lead not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const leadColumns = `id, name, phone, email, interest, notes, context, details, channel, state,
	regeneration_feedback, sequence, approved_message, approved_channel, approved_tone, approved_at,
	created_at, updated_at`

// qualified prefixes every column in a comma separated list with alias.
func qualified(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, part := range parts {
		parts[i] = alias + "." + strings.TrimSpace(part)
	}
	return strings.Join(parts, ", ")
}

type CreateLeadParams struct {
	Name     string
	Phone    string
	Email    *string
	Interest string
	Notes    *string
	Context  *string
	Details  *string
	Channel  domain.Channel
	Sequence *int
	// Log, when set, is written in the same transaction as the lead.
	Log *LogEntry
}

// LogEntry is a lifecycle log record attached to a lead insert.
type LogEntry struct {
	Action string
	Detail string
}

// UpdateLeadParams edits the contact fields. Nil pointers keep the stored
// value; ClearEmail removes the email.
type UpdateLeadParams struct {
	Name       string
	Phone      string
	Email      *string
	ClearEmail bool
	Interest   *string
	Notes      *string
	Context    *string
	Channel    *domain.Channel
}

type ApproveParams struct {
	Message string
	Channel domain.Channel
	Tone    *domain.Tone
}

type ListParams struct {
	State  *domain.State
	Search string
	Limit  int
	Offset int
}

func scanLead(row pgx.Row) (domain.Lead, error) {
	var (
		lead            domain.Lead
		channel, state  string
		approvedMessage *string
		approvedChannel *string
		approvedTone    *string
		approvedAt      *time.Time
	)
	err := row.Scan(
		&lead.ID, &lead.Name, &lead.Phone, &lead.Email, &lead.Interest, &lead.Notes, &lead.Context, &lead.Details,
		&channel, &state, &lead.RegenerationFeedback, &lead.Sequence,
		&approvedMessage, &approvedChannel, &approvedTone, &approvedAt,
		&lead.CreatedAt, &lead.UpdatedAt,
	)
	if err != nil {
		return domain.Lead{}, err
	}

	lead.Channel = domain.Channel(channel)
	lead.State = domain.State(state)
	if approvedMessage != nil && approvedAt != nil {
		approval := &domain.Approval{Message: *approvedMessage, ApprovedAt: *approvedAt}
		if approvedChannel != nil {
			approval.Channel = domain.Channel(*approvedChannel)
		}
		if approvedTone != nil {
			tone := domain.Tone(*approvedTone)
			approval.Tone = &tone
		}
		lead.Approval = approval
	}
	return lead, nil
}

func (r *Repository) Create(ctx context.Context, params CreateLeadParams) (domain.Lead, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO leads (id, name, phone, email, interest, notes, context, details, channel, state, sequence)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 'new', $10)
		RETURNING `+leadColumns,
		uuid.New(), params.Name, params.Phone, params.Email, params.Interest, params.Notes, params.Context,
		params.Details, string(params.Channel), params.Sequence,
	)
	return scanLead(row)
}

// CreateBatch inserts all rows in one transaction; either every lead is stored or none.
func (r *Repository) CreateBatch(ctx context.Context, params []CreateLeadParams) ([]domain.Lead, error) {
	if len(params) == 0 {
		return []domain.Lead{}, nil
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	batch := &pgx.Batch{}
	for _, p := range params {
		id := uuid.New()
		batch.Queue(`
			INSERT INTO leads (id, name, phone, email, interest, notes, context, details, channel, state, sequence)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 'new', $10)
			RETURNING `+leadColumns,
			id, p.Name, p.Phone, p.Email, p.Interest, p.Notes, p.Context, p.Details, string(p.Channel), p.Sequence,
		)
		if p.Log != nil {
			batch.Queue(`
				INSERT INTO lead_events (id, lead_id, action, detail)
				VALUES ($1, $2, $3, $4)
			`, uuid.New(), id, p.Log.Action, p.Log.Detail)
		}
	}

	results := tx.SendBatch(ctx, batch)
	leads := make([]domain.Lead, 0, len(params))
	for _, p := range params {
		lead, err := scanLead(results.QueryRow())
		if err != nil {
			_ = results.Close()
			return nil, err
		}
		leads = append(leads, lead)
		if p.Log != nil {
			if _, err := results.Exec(); err != nil {
				_ = results.Close()
				return nil, err
			}
		}
	}
	if err := results.Close(); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return leads, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (domain.Lead, error) {
	lead, err := scanLead(r.pool.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Lead{}, ErrNotFound
	}
	return lead, err
}

func (r *Repository) List(ctx context.Context, params ListParams) ([]domain.Lead, error) {
	where, args := buildLeadListWhere(params)
	limit := params.Limit
	if limit <= 0 {
		limit = 500
	}
	args = append(args, limit, params.Offset)

	query := fmt.Sprintf(`
		SELECT %s FROM leads
		WHERE %s
		ORDER BY created_at DESC, sequence DESC NULLS LAST
		LIMIT $%d OFFSET $%d
	`, leadColumns, where, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := make([]domain.Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return leads, nil
}

func buildLeadListWhere(params ListParams) (string, []interface{}) {
	clauses := []string{"TRUE"}
	args := make([]interface{}, 0, 2)

	if params.State != nil {
		args = append(args, string(*params.State))
		clauses = append(clauses, fmt.Sprintf("state = $%d", len(args)))
	}
	if search := strings.TrimSpace(params.Search); search != "" {
		args = append(args, "%"+search+"%")
		idx := len(args)
		clauses = append(clauses, fmt.Sprintf(
			"(name ILIKE $%d OR phone ILIKE $%d OR email ILIKE $%d OR interest ILIKE $%d)", idx, idx, idx, idx,
		))
	}
	return strings.Join(clauses, " AND "), args
}

func (r *Repository) CountByState(ctx context.Context) (map[domain.State]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT state, COUNT(*) FROM leads GROUP BY state`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[domain.State]int{
		domain.StateNew:             0,
		domain.StatePendingApproval: 0,
		domain.StateApproved:        0,
	}
	for rows.Next() {
		var state string
		var n int
		if err := rows.Scan(&state, &n); err != nil {
			return nil, err
		}
		counts[domain.State(state)] = n
	}
	return counts, rows.Err()
}

func (r *Repository) MaxSequence(ctx context.Context) (int, error) {
	var maxSeq int
	err := r.pool.QueryRow(ctx, `SELECT COALESCE(MAX(sequence), 0) FROM leads`).Scan(&maxSeq)
	return maxSeq, err
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, params UpdateLeadParams) (domain.Lead, error) {
	var channel *string
	if params.Channel != nil {
		c := string(*params.Channel)
		channel = &c
	}
	lead, err := scanLead(r.pool.QueryRow(ctx, `
		UPDATE leads SET
			name = $2, phone = $3,
			email = CASE WHEN $9 THEN NULL ELSE COALESCE($4, email) END,
			interest = COALESCE($5, interest),
			notes = COALESCE($6, notes), context = COALESCE($7, context),
			channel = COALESCE($8, channel),
			updated_at = now()
		WHERE id = $1
		RETURNING `+leadColumns,
		id, params.Name, params.Phone, params.Email, params.Interest, params.Notes, params.Context, channel, params.ClearEmail,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Lead{}, ErrNotFound
	}
	return lead, err
}

func (r *Repository) DeleteLead(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
