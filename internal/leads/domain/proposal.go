package domain

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrEmptyEmailPayload is returned when an email slot decodes to neither a
// subject nor a body.
var ErrEmptyEmailPayload = errors.New("email payload has no subject and no body")

// ToneSlots holds the raw text of one slot group, one entry per tone.
type ToneSlots struct {
	Formal  *string
	Cordial *string
	Urgent  *string
}

// Get returns the raw slot for a tone.
func (s ToneSlots) Get(t Tone) *string {
	switch t {
	case ToneFormal:
		return s.Formal
	case ToneCordial:
		return s.Cordial
	case ToneUrgent:
		return s.Urgent
	}
	return nil
}

// Present reports whether at least one tone carries non-blank text.
func (s ToneSlots) Present() bool {
	for _, t := range Tones {
		if v := s.Get(t); v != nil && strings.TrimSpace(*v) != "" {
			return true
		}
	}
	return false
}

// ProposalSet is one generation cycle for a lead. Only the most recently
// created set is authoritative; older sets are kept for audit.
type ProposalSet struct {
	ID        uuid.UUID
	LeadID    uuid.UUID
	Legacy    ToneSlots
	WhatsApp  ToneSlots
	Email     ToneSlots
	CreatedAt time.Time
}

// EmailMessage is a decoded email proposal.
type EmailMessage struct {
	Subject string
	Body    string
}

type emailPayload struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
	Oggetto string `json:"oggetto"`
	Corpo   string `json:"corpo"`
}

// ParseEmailMessage decodes a JSON email payload. Both {subject, body} and
// the historical {oggetto, corpo} keys are accepted.
func ParseEmailMessage(raw string) (EmailMessage, error) {
	var p emailPayload
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &p); err != nil {
		return EmailMessage{}, err
	}

	msg := EmailMessage{Subject: p.Subject, Body: p.Body}
	if msg.Subject == "" {
		msg.Subject = p.Oggetto
	}
	if msg.Body == "" {
		msg.Body = p.Corpo
	}
	if strings.TrimSpace(msg.Subject) == "" && strings.TrimSpace(msg.Body) == "" {
		return EmailMessage{}, ErrEmptyEmailPayload
	}
	return msg, nil
}

// EncodeEmailMessage is the inverse of ParseEmailMessage, used when storing
// proposals received in structured form.
func EncodeEmailMessage(m EmailMessage) string {
	b, _ := json.Marshal(struct {
		Subject string `json:"subject"`
		Body    string `json:"body"`
	}{m.Subject, m.Body})
	return string(b)
}
