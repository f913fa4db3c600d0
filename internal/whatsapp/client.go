// Package whatsapp delivers text messages through a GOWA gateway.
package whatsapp

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"lead_outreach_backend/platform/config"
	"lead_outreach_backend/platform/logger"
	"lead_outreach_backend/platform/phone"

	"github.com/go-resty/resty/v2"
)

const (
	sendMessagePath = "/send/message"
	requestTimeout  = 10 * time.Second
	maxErrorBody    = 512
)

// ErrNotConfigured is returned by a nil client.
var ErrNotConfigured = errors.New("whatsapp gateway not configured")

// Client talks to a single GOWA device. Sends are not retried.
type Client struct {
	http   *resty.Client
	region string
	log    *logger.Logger
}

type gowaRequest struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// NewClient returns nil when no gateway URL is configured.
func NewClient(cfg config.WhatsAppConfig, region string, log *logger.Logger) *Client {
	if !cfg.IsWhatsAppEnabled() {
		return nil
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.GetWhatsAppURL(), "/")).
		SetTimeout(requestTimeout).
		SetHeader("Content-Type", "application/json")
	if key := cfg.GetWhatsAppKey(); key != "" {
		client.SetHeader("Authorization", basicAuthHeader(key))
	}
	if device := cfg.GetWhatsAppDeviceID(); device != "" {
		client.SetHeader("X-Device-Id", device)
	}

	return &Client{http: client, region: region, log: log}
}

// SendMessage posts a plain text message to the lead's number.
func (c *Client) SendMessage(ctx context.Context, phoneNumber string, message string) error {
	if c == nil {
		return ErrNotConfigured
	}

	recipient := phone.WhatsAppDigits(phoneNumber, c.region)
	if recipient == "" {
		return fmt.Errorf("whatsapp: no digits in phone number %q", phoneNumber)
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(gowaRequest{Phone: recipient, Message: message}).
		Post(sendMessagePath)
	if err != nil {
		return fmt.Errorf("whatsapp request failed: %w", err)
	}
	if resp.IsError() {
		body := strings.TrimSpace(resp.String())
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return fmt.Errorf("whatsapp gateway returned %d: %s", resp.StatusCode(), body)
	}

	c.log.WithContext(ctx).Info("whatsapp sent via gowa", "phone", recipient)
	return nil
}

// basicAuthHeader accepts either "user:pass" or a ready "Basic ..." value.
func basicAuthHeader(apiKey string) string {
	if strings.HasPrefix(strings.ToLower(apiKey), "basic ") {
		return apiKey
	}
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(apiKey))
}
