package domain

import (
	"time"

	"github.com/google/uuid"
)

// Lifecycle log actions.
const (
	ActionLeadCreated           = "lead_created"
	ActionLeadImported          = "lead_imported"
	ActionLeadModified          = "lead_modified"
	ActionMessageApproved       = "message_approved"
	ActionRegenerationRequested = "regeneration_requested"
	ActionProposalsReceived     = "proposals_received"
	ActionTemplateUsed          = "template_used"
	ActionMessageSent           = "message_sent"
)

// NoFeedbackProvided is stored when regeneration is requested without feedback.
const NoFeedbackProvided = "no feedback provided"

// LifecycleEvent is an append-only log record attached to a lead.
type LifecycleEvent struct {
	ID        uuid.UUID
	LeadID    uuid.UUID
	Action    string
	Detail    string
	CreatedAt time.Time
}
