package transport

import (
	"time"

	"github.com/google/uuid"
)

// ExtraFieldDTO declares a value the operator fills in before rendering.
type ExtraFieldDTO struct {
	Name        string `json:"name" validate:"required,max=60"`
	Label       string `json:"label" validate:"required,max=120"`
	Placeholder string `json:"placeholder,omitempty" validate:"max=200"`
}

// CreateTemplateRequest contains data for creating a template.
type CreateTemplateRequest struct {
	Name               string          `json:"name" validate:"required,notblank,max=120"`
	Category           string          `json:"category,omitempty" validate:"omitempty,oneof=formale cordiale follow_up urgenza custom"`
	Body               string          `json:"body" validate:"required,notblank,max=8000"`
	ExtraFields        []ExtraFieldDTO `json:"extraFields,omitempty" validate:"omitempty,max=20,dive"`
	SupportsAttachment bool            `json:"supportsAttachment"`
}

// UpdateTemplateRequest contains data for updating a template. Omitted fields keep their value.
type UpdateTemplateRequest struct {
	Name               *string          `json:"name,omitempty" validate:"omitempty,notblank,max=120"`
	Category           *string          `json:"category,omitempty" validate:"omitempty,oneof=formale cordiale follow_up urgenza custom"`
	Body               *string          `json:"body,omitempty" validate:"omitempty,notblank,max=8000"`
	ExtraFields        *[]ExtraFieldDTO `json:"extraFields,omitempty" validate:"omitempty,max=20,dive"`
	SupportsAttachment *bool            `json:"supportsAttachment,omitempty"`
	Active             *bool            `json:"active,omitempty"`
}

// ListTemplatesRequest selects whether inactive templates are included.
type ListTemplatesRequest struct {
	IncludeInactive bool `form:"includeInactive"`
}

// RenderRequest personalizes a template for one lead.
type RenderRequest struct {
	LeadID        uuid.UUID         `json:"leadId" validate:"required"`
	ExtraFields   map[string]string `json:"extraFields,omitempty"`
	AttachmentURL string            `json:"attachmentUrl,omitempty" validate:"omitempty,url,max=2048"`
}

// TemplateResponse is the API representation of a template.
type TemplateResponse struct {
	ID                 uuid.UUID       `json:"id"`
	Name               string          `json:"name"`
	Category           string          `json:"category"`
	Body               string          `json:"body"`
	ExtraFields        []ExtraFieldDTO `json:"extraFields"`
	SupportsAttachment bool            `json:"supportsAttachment"`
	Active             bool            `json:"active"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}

// TemplateListResponse wraps a template listing.
type TemplateListResponse struct {
	Items []TemplateResponse `json:"items"`
}

// RenderResponse is the personalized message and its WhatsApp launch link.
type RenderResponse struct {
	TemplateID  uuid.UUID `json:"templateId"`
	LeadID      uuid.UUID `json:"leadId"`
	Text        string    `json:"text"`
	WhatsAppURL string    `json:"whatsappUrl"`
}
