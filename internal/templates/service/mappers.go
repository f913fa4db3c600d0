package service

import (
	"lead_outreach_backend/internal/templates/domain"
	"lead_outreach_backend/internal/templates/transport"
)

func toResponse(t domain.Template) transport.TemplateResponse {
	fields := make([]transport.ExtraFieldDTO, len(t.ExtraFields))
	for i, f := range t.ExtraFields {
		fields[i] = transport.ExtraFieldDTO{Name: f.Name, Label: f.Label, Placeholder: f.Placeholder}
	}
	return transport.TemplateResponse{
		ID:                 t.ID,
		Name:               t.Name,
		Category:           string(t.Category),
		Body:               t.Body,
		ExtraFields:        fields,
		SupportsAttachment: t.SupportsAttachment,
		Active:             t.Active,
		CreatedAt:          t.CreatedAt,
		UpdatedAt:          t.UpdatedAt,
	}
}

func toListResponse(items []domain.Template) transport.TemplateListResponse {
	out := make([]transport.TemplateResponse, len(items))
	for i, t := range items {
		out[i] = toResponse(t)
	}
	return transport.TemplateListResponse{Items: out}
}
