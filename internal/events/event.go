// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"lead_outreach_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Leads Domain Events
// =============================================================================

// LeadCreated is published when a lead is entered manually.
type LeadCreated struct {
	BaseEvent
	LeadID  uuid.UUID `json:"leadId"`
	Channel string    `json:"channel"`
}

func (e LeadCreated) EventName() string { return "leads.lead.created" }

// LeadsImported is published after a bulk import commit.
type LeadsImported struct {
	BaseEvent
	LeadIDs  []uuid.UUID `json:"leadIds"`
	Rejected int         `json:"rejected"`
}

func (e LeadsImported) EventName() string { return "leads.import.committed" }

// LeadApproved is published when an operator approves a message.
type LeadApproved struct {
	BaseEvent
	LeadID  uuid.UUID `json:"leadId"`
	Channel string    `json:"channel"`
	Tone    string    `json:"tone,omitempty"`
	Message string    `json:"message"`
}

func (e LeadApproved) EventName() string { return "leads.lead.approved" }

// RegenerationRequested is published when an operator sends a lead back to the generator.
// Delivery is fire-and-forget and is not deduplicated.
type RegenerationRequested struct {
	BaseEvent
	LeadID   uuid.UUID `json:"leadId"`
	Feedback string    `json:"feedback"`
	Channel  string    `json:"channel"`
}

func (e RegenerationRequested) EventName() string { return "leads.regeneration.requested" }

// LeadModified is published after an operator edit.
type LeadModified struct {
	BaseEvent
	LeadID uuid.UUID `json:"leadId"`
}

func (e LeadModified) EventName() string { return "leads.lead.modified" }

// LeadDeleted is published after a cascade delete.
type LeadDeleted struct {
	BaseEvent
	LeadID uuid.UUID `json:"leadId"`
}

func (e LeadDeleted) EventName() string { return "leads.lead.deleted" }

// =============================================================================
// Generator Domain Events
// =============================================================================

// ProposalsReceived is published when the external generator stores a new proposal set.
type ProposalsReceived struct {
	BaseEvent
	LeadID        uuid.UUID `json:"leadId"`
	ProposalSetID uuid.UUID `json:"proposalSetId"`
}

func (e ProposalsReceived) EventName() string { return "generator.proposals.received" }

// =============================================================================
// Outreach Domain Events
// =============================================================================

// TemplateUsed is published when a template is rendered for a lead and logged.
type TemplateUsed struct {
	BaseEvent
	LeadID        uuid.UUID `json:"leadId"`
	TemplateID    uuid.UUID `json:"templateId"`
	HasAttachment bool      `json:"hasAttachment"`
}

func (e TemplateUsed) EventName() string { return "templates.template.used" }

// MessageSent is published after a direct delivery through WhatsApp or SMTP.
type MessageSent struct {
	BaseEvent
	LeadID  uuid.UUID `json:"leadId"`
	Channel string    `json:"channel"`
}

func (e MessageSent) EventName() string { return "outreach.message.sent" }
