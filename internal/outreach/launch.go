// Package outreach builds channel launch links for operators and performs
// optional direct delivery through the configured gateways.
package outreach

import (
	"net/url"
	"strings"

	"lead_outreach_backend/platform/phone"

	qrcode "github.com/skip2/go-qrcode"
)

const (
	whatsAppBaseURL = "https://wa.me/"
	defaultQRSize   = 256
)

// uriComponentReplacer restores the characters encodeURIComponent leaves
// untouched after url.QueryEscape, and encodes spaces as %20.
var uriComponentReplacer = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// EncodeURIComponent percent-encodes s the way browsers do for query values.
func EncodeURIComponent(s string) string {
	return uriComponentReplacer.Replace(url.QueryEscape(s))
}

// WhatsAppLink returns a wa.me deep link for the phone number prefilled with
// text. The number is reduced to international digits; region applies to
// numbers stored without a country code.
func WhatsAppLink(phoneNumber, text, region string) string {
	link := whatsAppBaseURL + phone.WhatsAppDigits(phoneNumber, region)
	if text == "" {
		return link
	}
	return link + "?text=" + EncodeURIComponent(text)
}

// MailtoLink returns a mailto: link with subject and body prefilled.
func MailtoLink(email, subject, body string) string {
	params := make([]string, 0, 2)
	if subject != "" {
		params = append(params, "subject="+EncodeURIComponent(subject))
	}
	if body != "" {
		params = append(params, "body="+EncodeURIComponent(body))
	}

	link := "mailto:" + strings.TrimSpace(email)
	if len(params) > 0 {
		link += "?" + strings.Join(params, "&")
	}
	return link
}

// QRCode renders link as a PNG. A non-positive size uses 256 pixels.
func QRCode(link string, size int) ([]byte, error) {
	if size <= 0 {
		size = defaultQRSize
	}
	return qrcode.Encode(link, qrcode.Medium, size)
}
