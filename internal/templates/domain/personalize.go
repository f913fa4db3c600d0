package domain

import (
	"regexp"
	"strings"
)

var placeholderPattern = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_]+)\s*\}\}`)

// AttachmentPrefix introduces the attachment link appended to a rendered message.
const AttachmentPrefix = "\n\n📎 *Allegato:* "

// LeadData is the subset of a lead exposed to placeholders.
type LeadData struct {
	Name     string
	Interest string
	Phone    string
	Email    string
}

func (d LeadData) lookup(key string) (string, bool) {
	switch strings.ToLower(key) {
	case "name", "nome":
		return d.Name, true
	case "interest", "interesse":
		return d.Interest, true
	case "phone", "telefono":
		return d.Phone, true
	case "email":
		return d.Email, true
	}
	return "", false
}

// Personalize replaces {{key}} placeholders with lead attributes and extra
// values. Lead attributes win over an extra value with the same key.
// Placeholders with no value are left as written. A non-empty attachmentURL
// is appended on its own line.
//
// Personalize does not enforce required extra fields; callers run
// ValidateExtraFields first.
func Personalize(body string, lead LeadData, extra map[string]string, attachmentURL string) string {
	out := placeholderPattern.ReplaceAllStringFunc(body, func(match string) string {
		key := placeholderPattern.FindStringSubmatch(match)[1]
		if v, ok := lead.lookup(key); ok {
			return v
		}
		if v, ok := extra[key]; ok {
			return v
		}
		return match
	})

	if url := strings.TrimSpace(attachmentURL); url != "" {
		out += AttachmentPrefix + url
	}
	return out
}

// ValidateExtraFields returns the names of declared extra fields that have no
// non-blank value, in declaration order. An empty result means the values are complete.
func ValidateExtraFields(fields []ExtraField, values map[string]string) []string {
	missing := []string{}
	for _, f := range fields {
		if strings.TrimSpace(values[f.Name]) == "" {
			missing = append(missing, f.Name)
		}
	}
	return missing
}
