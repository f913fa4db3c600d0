package whatsapp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"lead_outreach_backend/platform/config"
	"lead_outreach_backend/platform/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendMessagePostsToGateway(t *testing.T) {
	var got gowaRequest
	var auth, device string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/send/message", r.URL.Path)
		auth = r.Header.Get("Authorization")
		device = r.Header.Get("X-Device-Id")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := &config.Config{WhatsAppURL: srv.URL + "/", WhatsAppKey: "user:pass", WhatsAppDeviceID: "dev-1"}
	client := NewClient(cfg, "IT", logger.New("test"))
	require.NotNil(t, client)

	require.NoError(t, client.SendMessage(context.Background(), "333 123 4567", "Ciao Mario"))
	assert.Equal(t, "393331234567", got.Phone)
	assert.Equal(t, "Ciao Mario", got.Message)
	assert.Equal(t, "Basic dXNlcjpwYXNz", auth)
	assert.Equal(t, "dev-1", device)
}

func TestSendMessageReportsGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "device offline", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClient(&config.Config{WhatsAppURL: srv.URL}, "IT", logger.New("test"))
	err := client.SendMessage(context.Background(), "+393331234567", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestNilClientIsNotConfigured(t *testing.T) {
	client := NewClient(&config.Config{}, "IT", logger.New("test"))
	assert.Nil(t, client)
	assert.ErrorIs(t, client.SendMessage(context.Background(), "1", "x"), ErrNotConfigured)
}

func TestBasicAuthHeaderKeepsPreformattedValue(t *testing.T) {
	assert.Equal(t, "Basic abc", basicAuthHeader("Basic abc"))
	assert.Equal(t, "Basic dXNlcjpwYXNz", basicAuthHeader("user:pass"))
}

func TestSendMessageRejectsNumberWithoutDigits(t *testing.T) {
	client := NewClient(&config.Config{WhatsAppURL: "http://gateway.invalid"}, "IT", logger.New("test"))
	require.Error(t, client.SendMessage(context.Background(), "n/a", "x"))
}
