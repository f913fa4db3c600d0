package management

import (
	"lead_outreach_backend/internal/leads/domain"
	"lead_outreach_backend/internal/leads/transport"
)

// ToLeadResponse converts a domain lead to its API representation.
func ToLeadResponse(lead domain.Lead) transport.LeadResponse {
	resp := transport.LeadResponse{
		ID:                   lead.ID,
		Name:                 lead.Name,
		Phone:                lead.Phone,
		Email:                lead.Email,
		Interest:             lead.Interest,
		Notes:                lead.Notes,
		Context:              lead.Context,
		Details:              lead.Details,
		Channel:              string(lead.Channel),
		State:                string(lead.State),
		RegenerationFeedback: lead.RegenerationFeedback,
		Sequence:             lead.Sequence,
		CreatedAt:            lead.CreatedAt,
		UpdatedAt:            lead.UpdatedAt,
	}

	if lead.Approval != nil {
		approval := &transport.ApprovalResponse{
			Message:    lead.Approval.Message,
			Channel:    string(lead.Approval.Channel),
			ApprovedAt: lead.Approval.ApprovedAt,
		}
		if lead.Approval.Tone != nil {
			tone := string(*lead.Approval.Tone)
			approval.Tone = &tone
		}
		resp.Approval = approval
	}

	return resp
}

// ToLeadResponses converts a slice of leads.
func ToLeadResponses(leads []domain.Lead) []transport.LeadResponse {
	items := make([]transport.LeadResponse, len(leads))
	for i, lead := range leads {
		items[i] = ToLeadResponse(lead)
	}
	return items
}

// ToResolutionResponse converts a proposal resolution.
func ToResolutionResponse(res domain.Resolution) transport.ResolutionResponse {
	resp := transport.ResolutionResponse{
		Status:        string(res.Status),
		ProposalSetID: res.ProposalSetID,
		GeneratedAt:   res.GeneratedAt,
	}

	if res.WhatsApp != nil {
		resp.WhatsApp = &transport.TextVariantsResponse{
			Source:  res.WhatsApp.Source,
			Formal:  res.WhatsApp.Formal,
			Cordial: res.WhatsApp.Cordial,
			Urgent:  res.WhatsApp.Urgent,
		}
	}

	if res.Email != nil {
		email := &transport.EmailVariantsResponse{
			Source:  res.Email.Source,
			Formal:  emailMessage(res.Email.Formal),
			Cordial: emailMessage(res.Email.Cordial),
			Urgent:  emailMessage(res.Email.Urgent),
		}
		if len(res.Email.ParseErrors) > 0 {
			email.ParseErrors = make(map[string]string, len(res.Email.ParseErrors))
			for tone, msg := range res.Email.ParseErrors {
				email.ParseErrors[string(tone)] = msg
			}
		}
		resp.Email = email
	}

	return resp
}

func emailMessage(m *domain.EmailMessage) *transport.EmailMessageResponse {
	if m == nil {
		return nil
	}
	return &transport.EmailMessageResponse{Subject: m.Subject, Body: m.Body}
}

// ToEventResponses converts lifecycle log entries.
func ToEventResponses(items []domain.LifecycleEvent) []transport.LifecycleEventResponse {
	out := make([]transport.LifecycleEventResponse, len(items))
	for i, e := range items {
		out[i] = transport.LifecycleEventResponse{
			ID:        e.ID,
			Action:    e.Action,
			Detail:    e.Detail,
			CreatedAt: e.CreatedAt,
		}
	}
	return out
}
