package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"lead_outreach_backend/internal/events"
	leadsdomain "lead_outreach_backend/internal/leads/domain"
	leadsrepo "lead_outreach_backend/internal/leads/repository"
	"lead_outreach_backend/internal/outreach"
	"lead_outreach_backend/internal/templates/domain"
	"lead_outreach_backend/internal/templates/repository"
	"lead_outreach_backend/internal/templates/transport"
	"lead_outreach_backend/platform/apperr"
	"lead_outreach_backend/platform/logger"
	"lead_outreach_backend/platform/metrics"
	"lead_outreach_backend/platform/sanitize"

	"github.com/google/uuid"
)

const (
	msgTemplateNotFound = "template not found"
	msgLeadNotFound     = "lead not found"
	msgDuplicateName    = "a template with this name already exists"
)

var extraFieldName = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Leads is the part of the leads store templates need: the lead to render
// for and the lifecycle log.
type Leads interface {
	GetByID(ctx context.Context, id uuid.UUID) (leadsdomain.Lead, error)
	leadsrepo.ActivityLogger
}

// Service provides business logic for message templates.
type Service struct {
	repo   repository.Repository
	leads  Leads
	bus    events.Bus
	log    *logger.Logger
	region string
}

// New creates a new templates service.
func New(repo repository.Repository, leads Leads, bus events.Bus, log *logger.Logger, region string) *Service {
	return &Service{repo: repo, leads: leads, bus: bus, log: log, region: region}
}

// GetByID retrieves a template by ID.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.TemplateResponse, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.TemplateResponse{}, s.mapError("templates.get", err)
	}
	return toResponse(t), nil
}

// List returns templates ordered by category and name. Inactive templates are
// only included on request.
func (s *Service) List(ctx context.Context, req transport.ListTemplatesRequest) (transport.TemplateListResponse, error) {
	items, err := s.repo.List(ctx, req.IncludeInactive)
	if err != nil {
		return transport.TemplateListResponse{}, s.mapError("templates.list", err)
	}
	return toListResponse(items), nil
}

// Create creates a new template.
func (s *Service) Create(ctx context.Context, req transport.CreateTemplateRequest) (transport.TemplateResponse, error) {
	fields, err := toExtraFields(req.ExtraFields)
	if err != nil {
		return transport.TemplateResponse{}, err
	}
	category := domain.CategoryCustom
	if req.Category != "" {
		category = domain.Category(req.Category)
	}
	if !category.Valid() {
		return transport.TemplateResponse{}, apperr.Validation("unknown template category")
	}

	t, err := s.repo.Create(ctx, repository.CreateParams{
		Name:               sanitize.Line(req.Name),
		Category:           category,
		Body:               sanitize.Text(req.Body),
		ExtraFields:        fields,
		SupportsAttachment: req.SupportsAttachment,
	})
	if err != nil {
		return transport.TemplateResponse{}, s.mapError("templates.create", err)
	}

	s.log.Info("template created", "id", t.ID, "name", t.Name, "category", t.Category)
	return toResponse(t), nil
}

// Update updates an existing template.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateTemplateRequest) (transport.TemplateResponse, error) {
	params := repository.UpdateParams{
		ID:                 id,
		SupportsAttachment: req.SupportsAttachment,
		Active:             req.Active,
	}
	if req.Name != nil {
		name := sanitize.Line(*req.Name)
		params.Name = &name
	}
	if req.Body != nil {
		body := sanitize.Text(*req.Body)
		params.Body = &body
	}
	if req.Category != nil {
		category := domain.Category(*req.Category)
		if !category.Valid() {
			return transport.TemplateResponse{}, apperr.Validation("unknown template category")
		}
		params.Category = &category
	}
	if req.ExtraFields != nil {
		fields, err := toExtraFields(*req.ExtraFields)
		if err != nil {
			return transport.TemplateResponse{}, err
		}
		params.ExtraFields = &fields
	}

	t, err := s.repo.Update(ctx, params)
	if err != nil {
		return transport.TemplateResponse{}, s.mapError("templates.update", err)
	}

	s.log.Info("template updated", "id", t.ID, "name", t.Name)
	return toResponse(t), nil
}

// Delete removes a template. Past template_used log entries keep the ID as text.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapError("templates.delete", err)
	}
	s.log.Info("template deleted", "id", id)
	return nil
}

// Render checks the required extra fields and personalizes the template for a
// lead. Nothing is logged.
func (s *Service) Render(ctx context.Context, templateID uuid.UUID, req transport.RenderRequest) (transport.RenderResponse, error) {
	t, err := s.repo.GetByID(ctx, templateID)
	if err != nil {
		return transport.RenderResponse{}, s.mapError("templates.get", err)
	}

	lead, err := s.leads.GetByID(ctx, req.LeadID)
	if err != nil {
		if errors.Is(err, leadsrepo.ErrNotFound) {
			return transport.RenderResponse{}, apperr.NotFound(msgLeadNotFound)
		}
		s.log.DatabaseError("leads.get", err)
		return transport.RenderResponse{}, apperr.Upstream("leads.get", err)
	}

	if missing := domain.ValidateExtraFields(t.ExtraFields, req.ExtraFields); len(missing) > 0 {
		return transport.RenderResponse{}, apperr.Validation("missing required extra fields").WithDetails(missing)
	}

	attachment := strings.TrimSpace(req.AttachmentURL)
	if attachment != "" && !t.SupportsAttachment {
		return transport.RenderResponse{}, apperr.Validation("template does not accept attachments")
	}

	text := domain.Personalize(t.Body, leadData(lead), req.ExtraFields, attachment)
	return transport.RenderResponse{
		TemplateID:  t.ID,
		LeadID:      lead.ID,
		Text:        text,
		WhatsAppURL: outreach.WhatsAppLink(lead.Phone, text, s.region),
	}, nil
}

// Use renders the template and records its use in the lead's lifecycle log.
func (s *Service) Use(ctx context.Context, templateID uuid.UUID, req transport.RenderRequest) (transport.RenderResponse, error) {
	resp, err := s.Render(ctx, templateID, req)
	if err != nil {
		return transport.RenderResponse{}, err
	}

	hasAttachment := strings.TrimSpace(req.AttachmentURL) != ""
	if err := s.leads.AppendEvent(ctx, resp.LeadID, leadsdomain.ActionTemplateUsed, usedDetail(templateID, hasAttachment)); err != nil {
		s.log.DatabaseError("lead_events.append", err)
		return transport.RenderResponse{}, apperr.Upstream("lead_events.append", err)
	}
	metrics.RecordTransition(leadsdomain.ActionTemplateUsed)

	s.bus.Publish(ctx, events.TemplateUsed{
		BaseEvent:     events.NewBaseEvent(),
		LeadID:        resp.LeadID,
		TemplateID:    templateID,
		HasAttachment: hasAttachment,
	})
	return resp, nil
}

func usedDetail(templateID uuid.UUID, hasAttachment bool) string {
	detail := "Template ID: " + templateID.String()
	if hasAttachment {
		detail += " - Con allegato"
	}
	return detail
}

func leadData(lead leadsdomain.Lead) domain.LeadData {
	data := domain.LeadData{Name: lead.Name, Interest: lead.Interest, Phone: lead.Phone}
	if lead.Email != nil {
		data.Email = *lead.Email
	}
	return data
}

func toExtraFields(in []transport.ExtraFieldDTO) ([]domain.ExtraField, error) {
	out := make([]domain.ExtraField, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, f := range in {
		name := strings.TrimSpace(f.Name)
		if !extraFieldName.MatchString(name) {
			return nil, apperr.Validation("extra field names may only contain letters, digits and underscores").WithDetails(f.Name)
		}
		if seen[name] {
			return nil, apperr.Validation("duplicate extra field").WithDetails(name)
		}
		seen[name] = true
		out = append(out, domain.ExtraField{
			Name:        name,
			Label:       sanitize.Line(f.Label),
			Placeholder: sanitize.Line(f.Placeholder),
		})
	}
	return out, nil
}

func (s *Service) mapError(op string, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apperr.NotFound(msgTemplateNotFound)
	case errors.Is(err, repository.ErrDuplicateName):
		return apperr.Conflict(msgDuplicateName)
	}
	s.log.DatabaseError(op, err)
	return apperr.Upstream(op, err)
}
