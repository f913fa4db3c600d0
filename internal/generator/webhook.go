package generator

import (
	"context"
	"fmt"
	"time"

	"lead_outreach_backend/internal/scheduler"
	"lead_outreach_backend/platform/config"

	"github.com/go-resty/resty/v2"
)

// APIKeyHeader authenticates calls in both directions between this service
// and the generator.
const APIKeyHeader = "X-Generator-API-Key"

const defaultWebhookTimeout = 15 * time.Second

// WebhookClient posts regeneration requests to the generator.
type WebhookClient struct {
	http *resty.Client
	url  string
}

// NewWebhookClient returns nil when no webhook URL is configured.
func NewWebhookClient(cfg config.GeneratorConfig) *WebhookClient {
	if cfg.GetGeneratorWebhookURL() == "" {
		return nil
	}
	timeout := cfg.GetGeneratorTimeout()
	if timeout <= 0 {
		timeout = defaultWebhookTimeout
	}

	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")
	if key := cfg.GetGeneratorAPIKey(); key != "" {
		client.SetHeader(APIKeyHeader, key)
	}

	return &WebhookClient{http: client, url: cfg.GetGeneratorWebhookURL()}
}

// DeliverRegeneration posts the payload and treats any non-2xx answer as a failure.
func (c *WebhookClient) DeliverRegeneration(ctx context.Context, payload scheduler.RegenerationPayload) error {
	if c == nil {
		return fmt.Errorf("generator webhook not configured")
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(payload).
		Post(c.url)
	if err != nil {
		return fmt.Errorf("generator webhook request: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("generator webhook returned %d: %s", resp.StatusCode(), truncate(resp.String(), 512))
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

var _ scheduler.RegenerationDeliverer = (*WebhookClient)(nil)
