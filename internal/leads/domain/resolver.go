package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ResolutionStatus distinguishes "nothing generated yet" from a resolved set.
type ResolutionStatus string

const (
	ResolutionNotGenerated ResolutionStatus = "not_generated"
	ResolutionResolved     ResolutionStatus = "resolved"
)

// Slot sources reported alongside resolved variants.
const (
	SourceWhatsApp = "whatsapp"
	SourceEmail    = "email"
	SourceLegacy   = "legacy"
)

// TextVariants are the plain-text WhatsApp proposals. A nil tone is unavailable.
type TextVariants struct {
	Source  string
	Formal  *string
	Cordial *string
	Urgent  *string
}

// Get returns the variant for a tone.
func (v TextVariants) Get(t Tone) *string {
	switch t {
	case ToneFormal:
		return v.Formal
	case ToneCordial:
		return v.Cordial
	case ToneUrgent:
		return v.Urgent
	}
	return nil
}

// EmailVariants are the decoded email proposals. A tone whose payload failed
// to decode is nil and its error is kept in ParseErrors.
type EmailVariants struct {
	Source      string
	Formal      *EmailMessage
	Cordial     *EmailMessage
	Urgent      *EmailMessage
	ParseErrors map[Tone]string
}

// Get returns the variant for a tone.
func (v EmailVariants) Get(t Tone) *EmailMessage {
	switch t {
	case ToneFormal:
		return v.Formal
	case ToneCordial:
		return v.Cordial
	case ToneUrgent:
		return v.Urgent
	}
	return nil
}

// Resolution is what a lead's channel preference makes of its current proposal set.
type Resolution struct {
	Status        ResolutionStatus
	ProposalSetID *uuid.UUID
	GeneratedAt   *time.Time
	WhatsApp      *TextVariants
	Email         *EmailVariants
}

// Latest picks the authoritative set: the one with the greatest CreatedAt.
// Ties keep the first candidate seen.
func Latest(sets []ProposalSet) *ProposalSet {
	var latest *ProposalSet
	for i := range sets {
		if latest == nil || sets[i].CreatedAt.After(latest.CreatedAt) {
			latest = &sets[i]
		}
	}
	return latest
}

// Resolve determines the proposal variants shown for a lead. It never fails:
// malformed email payloads degrade only the affected tone.
func Resolve(channel Channel, set *ProposalSet) Resolution {
	if set == nil {
		return Resolution{Status: ResolutionNotGenerated}
	}

	id, createdAt := set.ID, set.CreatedAt
	res := Resolution{
		Status:        ResolutionResolved,
		ProposalSetID: &id,
		GeneratedAt:   &createdAt,
	}

	switch channel {
	case ChannelEmail:
		res.Email = emailVariants(set)
	case ChannelBoth:
		res.WhatsApp = whatsAppVariants(set)
		res.Email = emailVariants(set)
	default:
		res.WhatsApp = whatsAppVariants(set)
	}

	return res
}

// whatsAppVariants prefers the dedicated WhatsApp slots and falls back to the
// legacy slot.
func whatsAppVariants(set *ProposalSet) *TextVariants {
	switch {
	case set.WhatsApp.Present():
		return resolveText(SourceWhatsApp, set.WhatsApp)
	case set.Legacy.Present():
		return resolveText(SourceLegacy, set.Legacy)
	}
	return nil
}

// emailVariants prefers the dedicated email slots and falls back to decoding
// the legacy slot, where single-channel email leads kept their payloads.
func emailVariants(set *ProposalSet) *EmailVariants {
	switch {
	case set.Email.Present():
		return resolveEmail(SourceEmail, set.Email)
	case set.Legacy.Present():
		return resolveEmail(SourceLegacy, set.Legacy)
	}
	return nil
}

func resolveText(source string, slots ToneSlots) *TextVariants {
	return &TextVariants{
		Source:  source,
		Formal:  nonBlank(slots.Formal),
		Cordial: nonBlank(slots.Cordial),
		Urgent:  nonBlank(slots.Urgent),
	}
}

func resolveEmail(source string, slots ToneSlots) *EmailVariants {
	out := &EmailVariants{Source: source}
	for _, t := range Tones {
		raw := nonBlank(slots.Get(t))
		if raw == nil {
			continue
		}
		msg, err := ParseEmailMessage(*raw)
		if err != nil {
			if out.ParseErrors == nil {
				out.ParseErrors = make(map[Tone]string)
			}
			out.ParseErrors[t] = err.Error()
			continue
		}
		switch t {
		case ToneFormal:
			out.Formal = &msg
		case ToneCordial:
			out.Cordial = &msg
		case ToneUrgent:
			out.Urgent = &msg
		}
	}
	return out
}

// InferTone finds which resolved variant an approved message came from.
// Email messages match on the body or on "subject\n\nbody".
func InferTone(res Resolution, channel Channel, message string) *Tone {
	message = strings.TrimSpace(message)
	for _, t := range Tones {
		tone := t
		switch channel {
		case ChannelWhatsApp:
			if res.WhatsApp == nil {
				return nil
			}
			if v := res.WhatsApp.Get(t); v != nil && strings.TrimSpace(*v) == message {
				return &tone
			}
		case ChannelEmail:
			if res.Email == nil {
				return nil
			}
			if v := res.Email.Get(t); v != nil {
				body := strings.TrimSpace(v.Body)
				combined := strings.TrimSpace(v.Subject + "\n\n" + v.Body)
				if body == message || combined == message {
					return &tone
				}
			}
		}
	}
	return nil
}

func nonBlank(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}
