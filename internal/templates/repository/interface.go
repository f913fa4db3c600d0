package repository

import (
	"context"

	"lead_outreach_backend/internal/templates/domain"

	"github.com/google/uuid"
)

// CreateParams contains parameters for creating a template.
type CreateParams struct {
	Name               string
	Category           domain.Category
	Body               string
	ExtraFields        []domain.ExtraField
	SupportsAttachment bool
}

// UpdateParams contains parameters for updating a template. Nil fields are left unchanged.
type UpdateParams struct {
	ID                 uuid.UUID
	Name               *string
	Category           *domain.Category
	Body               *string
	ExtraFields        *[]domain.ExtraField
	SupportsAttachment *bool
	Active             *bool
}

// TemplateReader provides read operations for templates.
type TemplateReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.Template, error)
	List(ctx context.Context, includeInactive bool) ([]domain.Template, error)
}

// TemplateWriter provides write operations for templates.
type TemplateWriter interface {
	Create(ctx context.Context, params CreateParams) (domain.Template, error)
	Update(ctx context.Context, params UpdateParams) (domain.Template, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// Seed inserts templates whose name is not taken yet and reports how many were added.
	Seed(ctx context.Context, items []CreateParams) (int, error)
}

// Repository combines all template repository operations.
type Repository interface {
	TemplateReader
	TemplateWriter
}
