// Package phone provides phone number utilities.
// This is part of the platform layer and contains no business logic.
package phone

import (
	"strings"
	"unicode"

	"github.com/nyaruka/phonenumbers"
)

// DefaultRegion is used when a number carries no country prefix.
const DefaultRegion = "IT"

// NormalizeE164 formats a phone number to E.164. If parsing fails, it returns the trimmed input.
func NormalizeE164(input, region string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return trimmed
	}

	number, ok := parse(trimmed, region)
	if !ok {
		return trimmed
	}
	return phonenumbers.Format(number, phonenumbers.E164)
}

// WhatsAppDigits returns the number in the digits-only international form
// wa.me expects. Numbers that do not parse fall back to their digits.
func WhatsAppDigits(input, region string) string {
	if number, ok := parse(strings.TrimSpace(input), region); ok {
		return strings.TrimPrefix(phonenumbers.Format(number, phonenumbers.E164), "+")
	}
	return DigitsOnly(input)
}

// DigitsOnly strips every non-digit rune.
func DigitsOnly(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if r <= unicode.MaxASCII && unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func parse(input, region string) (*phonenumbers.PhoneNumber, bool) {
	if input == "" {
		return nil, false
	}
	if region == "" {
		region = DefaultRegion
	}
	number, err := phonenumbers.Parse(input, strings.ToUpper(region))
	if err != nil || !phonenumbers.IsValidNumber(number) {
		return nil, false
	}
	return number, true
}
