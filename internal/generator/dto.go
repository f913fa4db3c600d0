package generator

import (
	"time"

	"github.com/google/uuid"
)

// TextSlots carries one generated text per tone.
type TextSlots struct {
	Formal  *string `json:"formal,omitempty"`
	Cordial *string `json:"cordial,omitempty"`
	Urgent  *string `json:"urgent,omitempty"`
}

// EmailSlot is one generated email.
type EmailSlot struct {
	Subject string `json:"subject" validate:"max=300"`
	Body    string `json:"body" validate:"required"`
}

// EmailSlots carries one generated email per tone.
type EmailSlots struct {
	Formal  *EmailSlot `json:"formal,omitempty"`
	Cordial *EmailSlot `json:"cordial,omitempty"`
	Urgent  *EmailSlot `json:"urgent,omitempty"`
}

// ProposalsRequest is posted by the generator after producing proposals for a lead.
// Legacy holds channel-agnostic texts from generators that predate per-channel slots.
type ProposalsRequest struct {
	LeadID   uuid.UUID   `json:"leadId" validate:"required"`
	Legacy   *TextSlots  `json:"legacy,omitempty"`
	WhatsApp *TextSlots  `json:"whatsapp,omitempty"`
	Email    *EmailSlots `json:"email,omitempty" validate:"omitempty"`
}

// ProposalsResponse acknowledges a stored proposal set.
type ProposalsResponse struct {
	ProposalSetID uuid.UUID `json:"proposalSetId"`
	LeadID        uuid.UUID `json:"leadId"`
	State         string    `json:"state"`
	CreatedAt     time.Time `json:"createdAt"`
}
