package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"lead_outreach_backend/internal/templates/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound      = errors.New("template not found")
	ErrDuplicateName = errors.New("template name already exists")
)

const uniqueViolation = "23505"

const templateColumns = `id, name, category, body, extra_fields, supports_attachment, active, created_at, updated_at`

// Repo implements Repository with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new templates repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

func scanTemplate(row pgx.Row) (domain.Template, error) {
	var (
		t        domain.Template
		category string
		extra    []byte
	)
	if err := row.Scan(&t.ID, &t.Name, &category, &t.Body, &extra, &t.SupportsAttachment, &t.Active, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return domain.Template{}, err
	}
	t.Category = domain.Category(category)
	t.ExtraFields = []domain.ExtraField{}
	if len(extra) > 0 {
		if err := json.Unmarshal(extra, &t.ExtraFields); err != nil {
			return domain.Template{}, fmt.Errorf("decode extra fields of %s: %w", t.ID, err)
		}
	}
	return t, nil
}

func encodeExtraFields(fields []domain.ExtraField) ([]byte, error) {
	if fields == nil {
		fields = []domain.ExtraField{}
	}
	return json.Marshal(fields)
}

// GetByID retrieves a template by its ID.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (domain.Template, error) {
	t, err := scanTemplate(r.pool.QueryRow(ctx, `SELECT `+templateColumns+` FROM templates WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Template{}, ErrNotFound
	}
	if err != nil {
		return domain.Template{}, fmt.Errorf("get template by id: %w", err)
	}
	return t, nil
}

// List retrieves templates ordered by category and name.
func (r *Repo) List(ctx context.Context, includeInactive bool) ([]domain.Template, error) {
	query := `SELECT ` + templateColumns + ` FROM templates`
	if !includeInactive {
		query += ` WHERE active`
	}
	query += ` ORDER BY category ASC, name ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	items := make([]domain.Template, 0)
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		items = append(items, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate templates: %w", err)
	}
	return items, nil
}

// Create inserts a new active template.
func (r *Repo) Create(ctx context.Context, params CreateParams) (domain.Template, error) {
	extra, err := encodeExtraFields(params.ExtraFields)
	if err != nil {
		return domain.Template{}, fmt.Errorf("encode extra fields: %w", err)
	}

	t, err := scanTemplate(r.pool.QueryRow(ctx, `
		INSERT INTO templates (id, name, category, body, extra_fields, supports_attachment)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+templateColumns,
		uuid.New(), params.Name, string(params.Category), params.Body, extra, params.SupportsAttachment,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Template{}, ErrDuplicateName
		}
		return domain.Template{}, fmt.Errorf("create template: %w", err)
	}
	return t, nil
}

// Update applies the non-nil fields of params.
func (r *Repo) Update(ctx context.Context, params UpdateParams) (domain.Template, error) {
	var extra []byte
	if params.ExtraFields != nil {
		encoded, err := encodeExtraFields(*params.ExtraFields)
		if err != nil {
			return domain.Template{}, fmt.Errorf("encode extra fields: %w", err)
		}
		extra = encoded
	}
	var category *string
	if params.Category != nil {
		c := string(*params.Category)
		category = &c
	}

	t, err := scanTemplate(r.pool.QueryRow(ctx, `
		UPDATE templates SET
			name = COALESCE($2, name),
			category = COALESCE($3, category),
			body = COALESCE($4, body),
			extra_fields = COALESCE($5::jsonb, extra_fields),
			supports_attachment = COALESCE($6, supports_attachment),
			active = COALESCE($7, active),
			updated_at = now()
		WHERE id = $1
		RETURNING `+templateColumns,
		params.ID, params.Name, category, params.Body, extra, params.SupportsAttachment, params.Active,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Template{}, ErrNotFound
	}
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Template{}, ErrDuplicateName
		}
		return domain.Template{}, fmt.Errorf("update template: %w", err)
	}
	return t, nil
}

// Delete removes a template.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM templates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Seed inserts every item whose name is free in a single transaction.
func (r *Repo) Seed(ctx context.Context, items []CreateParams) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin seed: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	inserted := 0
	for _, item := range items {
		extra, err := encodeExtraFields(item.ExtraFields)
		if err != nil {
			return 0, fmt.Errorf("encode extra fields of %q: %w", item.Name, err)
		}
		tag, err := tx.Exec(ctx, `
			INSERT INTO templates (id, name, category, body, extra_fields, supports_attachment)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (name) DO NOTHING`,
			uuid.New(), item.Name, string(item.Category), item.Body, extra, item.SupportsAttachment,
		)
		if err != nil {
			return 0, fmt.Errorf("seed template %q: %w", item.Name, err)
		}
		inserted += int(tag.RowsAffected())
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit seed: %w", err)
	}
	return inserted, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
