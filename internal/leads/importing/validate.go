package importing

import (
	"strings"
	"unicode"

	"lead_outreach_backend/internal/leads/domain"
)

// Row-level error messages shown to the operator in the preview.
const (
	ErrMissingName     = "Nome mancante"
	ErrMissingPhone    = "Telefono mancante"
	ErrMissingInterest = "Interesse mancante"
	ErrInvalidChannel  = "Canale non valido (usa: whatsapp, email, entrambi)"
)

// Fields are the normalized values extracted from a row.
type Fields struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Interest string `json:"interest"`
	Notes    string `json:"notes"`
	Details  string `json:"details"`
	Context  string `json:"context"`
	Channel  string `json:"channel"`
}

// Map returns every normalized field keyed by its JSON name.
func (f Fields) Map() map[string]string {
	return map[string]string{
		"name":     f.Name,
		"phone":    f.Phone,
		"email":    f.Email,
		"interest": f.Interest,
		"notes":    f.Notes,
		"details":  f.Details,
		"context":  f.Context,
		"channel":  f.Channel,
	}
}

// Candidate is the validation outcome for one row. Row is 1-based and counts
// data rows only.
type Candidate struct {
	Row      int      `json:"row"`
	Fields   Fields   `json:"fields"`
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Sequence *int     `json:"sequence,omitempty"`
}

// Validate checks every row and never fails; invalid rows carry their errors.
func Validate(rows []Row) []Candidate {
	out := make([]Candidate, len(rows))
	for i, row := range rows {
		out[i] = validateRow(i+1, row)
	}
	return out
}

func validateRow(index int, row Row) Candidate {
	fields := Fields{
		Name:     row.lookup(nameKeys),
		Phone:    stripSpaces(row.lookup(phoneKeys)),
		Email:    row.lookup(emailKeys),
		Interest: row.lookup(interestKeys),
		Notes:    row.lookup(notesKeys),
		Details:  row.lookup(detailsKeys),
		Context:  row.lookup(contextKeys),
		Channel:  strings.ToLower(row.lookup(channelKeys)),
	}

	errs := make([]string, 0)
	if fields.Name == "" {
		errs = append(errs, ErrMissingName)
	}
	if fields.Phone == "" {
		errs = append(errs, ErrMissingPhone)
	}
	if fields.Interest == "" {
		errs = append(errs, ErrMissingInterest)
	}

	if fields.Channel == "" {
		fields.Channel = string(domain.DefaultChannel)
	}
	if channel, ok := domain.ParseChannel(fields.Channel); ok {
		fields.Channel = string(channel)
	} else {
		errs = append(errs, ErrInvalidChannel)
	}

	return Candidate{
		Row:    index,
		Fields: fields,
		Valid:  len(errs) == 0,
		Errors: errs,
	}
}

// AssignSequences numbers the valid candidates in input order, continuing
// from priorMax. Invalid candidates get no sequence.
func AssignSequences(candidates []Candidate, priorMax int) []Candidate {
	next := priorMax + 1
	for i := range candidates {
		if !candidates[i].Valid {
			candidates[i].Sequence = nil
			continue
		}
		seq := next
		candidates[i].Sequence = &seq
		next++
	}
	return candidates
}

// Insertable returns only the valid candidates.
func Insertable(candidates []Candidate) []Candidate {
	out := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Valid {
			out = append(out, c)
		}
	}
	return out
}

// Rejected returns only the invalid candidates.
func Rejected(candidates []Candidate) []Candidate {
	out := make([]Candidate, 0)
	for _, c := range candidates {
		if !c.Valid {
			out = append(out, c)
		}
	}
	return out
}

func stripSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
