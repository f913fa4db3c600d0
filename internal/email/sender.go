// Package email delivers outreach messages over SMTP.
package email

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned by NoopSender.
var ErrNotConfigured = errors.New("smtp not configured")

// Sender delivers a single outreach email.
type Sender interface {
	SendOutreach(ctx context.Context, toEmail, subject, body string) error
}

// NoopSender is used when SMTP is not configured. It refuses to send so the
// caller can tell the operator to use the mailto launcher instead.
type NoopSender struct{}

func (NoopSender) SendOutreach(context.Context, string, string, string) error {
	return ErrNotConfigured
}

var (
	_ Sender = NoopSender{}
	_ Sender = (*SMTPSender)(nil)
)
