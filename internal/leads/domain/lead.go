// Package domain provides core business rules for the leads bounded context:
// the approval state machine, channel and tone enumerations, and proposal
// resolution.
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// State is the approval lifecycle state of a lead.
type State string

const (
	StateNew             State = "new"
	StatePendingApproval State = "pending_approval"
	StateApproved        State = "approved"
)

// Valid reports whether s is one of the known states.
func (s State) Valid() bool {
	switch s {
	case StateNew, StatePendingApproval, StateApproved:
		return true
	}
	return false
}

// AcceptsProposals reports whether storing a new proposal set moves the lead
// to pending_approval. An approved lead keeps its state; only a regeneration
// request reopens it.
func (s State) AcceptsProposals() bool {
	return s == StateNew || s == StatePendingApproval
}

// Channel is a lead's preferred outreach channel.
type Channel string

const (
	ChannelWhatsApp Channel = "whatsapp"
	ChannelEmail    Channel = "email"
	ChannelBoth     Channel = "both"
)

// DefaultChannel is applied when no preference is given.
const DefaultChannel = ChannelWhatsApp

// ParseChannel normalizes user input into a Channel. The Italian "entrambi"
// used by historical spreadsheets maps to both. Blank input yields the default.
func ParseChannel(raw string) (Channel, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return DefaultChannel, true
	case "whatsapp":
		return ChannelWhatsApp, true
	case "email":
		return ChannelEmail, true
	case "both", "entrambi":
		return ChannelBoth, true
	}
	return "", false
}

// Sendable reports whether a message can be approved or sent on this channel.
// "both" is a preference, never a delivery channel.
func (c Channel) Sendable() bool {
	return c == ChannelWhatsApp || c == ChannelEmail
}

// Tone identifies one of the three generated message variants.
type Tone string

const (
	ToneFormal  Tone = "formal"
	ToneCordial Tone = "cordial"
	ToneUrgent  Tone = "urgent"
)

// Tones lists the variants in display order.
var Tones = []Tone{ToneFormal, ToneCordial, ToneUrgent}

// ParseTone normalizes a tone name.
func ParseTone(raw string) (Tone, bool) {
	t := Tone(strings.ToLower(strings.TrimSpace(raw)))
	switch t {
	case ToneFormal, ToneCordial, ToneUrgent:
		return t, true
	}
	return "", false
}

// Lead is a prospect with its contact data and approval state.
// Name and Phone are never blank once stored.
type Lead struct {
	ID                   uuid.UUID
	Name                 string
	Phone                string
	Email                *string
	Interest             string
	Notes                *string
	Context              *string
	Details              *string
	Channel              Channel
	State                State
	RegenerationFeedback *string
	Sequence             *int
	Approval             *Approval
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Approval records the message an operator chose for a lead.
type Approval struct {
	Message    string
	Channel    Channel
	Tone       *Tone
	ApprovedAt time.Time
}

// EmailOrEmpty returns the email address or an empty string.
func (l Lead) EmailOrEmpty() string {
	if l.Email == nil {
		return ""
	}
	return *l.Email
}
