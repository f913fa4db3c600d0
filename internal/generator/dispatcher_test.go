package generator

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lead_outreach_backend/internal/events"
	"lead_outreach_backend/internal/scheduler"
	"lead_outreach_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeQueue struct {
	got []scheduler.RegenerationPayload
	err error
}

func (q *fakeQueue) EnqueueRegeneration(_ context.Context, p scheduler.RegenerationPayload) error {
	q.got = append(q.got, p)
	return q.err
}

type fakeDeliverer struct {
	got chan scheduler.RegenerationPayload
	err error
}

func (d *fakeDeliverer) DeliverRegeneration(_ context.Context, p scheduler.RegenerationPayload) error {
	d.got <- p
	return d.err
}

func regenerationEvent() events.RegenerationRequested {
	return events.RegenerationRequested{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    uuid.New(),
		Feedback:  "più diretto",
		Channel:   "email",
	}
}

func TestDispatcherPrefersQueue(t *testing.T) {
	q := &fakeQueue{}
	d := NewDispatcher(q, &fakeDeliverer{got: make(chan scheduler.RegenerationPayload, 1)}, logger.New("test"))

	e := regenerationEvent()
	require.NoError(t, d.Handle(context.Background(), e))
	require.Len(t, q.got, 1)
	assert.Equal(t, e.LeadID.String(), q.got[0].LeadID)
	assert.Equal(t, "più diretto", q.got[0].Feedback)
}

func TestDispatcherSwallowsQueueErrors(t *testing.T) {
	q := &fakeQueue{err: errors.New("redis down")}
	d := NewDispatcher(q, nil, logger.New("test"))
	assert.NoError(t, d.Handle(context.Background(), regenerationEvent()))
}

func TestDispatcherDeliversDirectlyWithoutQueue(t *testing.T) {
	deliverer := &fakeDeliverer{got: make(chan scheduler.RegenerationPayload, 1), err: errors.New("timeout")}
	d := NewDispatcher(nil, deliverer, logger.New("test"))
	d.done = make(chan struct{}, 1)

	e := regenerationEvent()
	require.NoError(t, d.Handle(context.Background(), e))

	select {
	case p := <-deliverer.got:
		assert.Equal(t, "email", p.Channel)
	case <-time.After(time.Second):
		t.Fatal("direct delivery did not happen")
	}
	<-d.done
}

func TestDispatcherIgnoresOtherEvents(t *testing.T) {
	q := &fakeQueue{}
	d := NewDispatcher(q, nil, logger.New("test"))
	require.NoError(t, d.Handle(context.Background(), events.LeadDeleted{BaseEvent: events.NewBaseEvent()}))
	assert.Empty(t, q.got)
}

type generatorConfig struct{ url, key string }

func (c generatorConfig) GetGeneratorWebhookURL() string     { return c.url }
func (c generatorConfig) GetGeneratorAPIKey() string         { return c.key }
func (c generatorConfig) GetGeneratorTimeout() time.Duration { return time.Second }

func TestWebhookClientPostsPayload(t *testing.T) {
	var (
		gotKey  string
		gotBody scheduler.RegenerationPayload
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get(APIKeyHeader)
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	client := NewWebhookClient(generatorConfig{url: srv.URL, key: "secret"})
	require.NotNil(t, client)

	err := client.DeliverRegeneration(context.Background(), scheduler.RegenerationPayload{LeadID: "lead-1", Feedback: "ok"})
	require.NoError(t, err)
	assert.Equal(t, "secret", gotKey)
	assert.Equal(t, "lead-1", gotBody.LeadID)
}

func TestWebhookClientErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewWebhookClient(generatorConfig{url: srv.URL})
	assert.Error(t, client.DeliverRegeneration(context.Background(), scheduler.RegenerationPayload{LeadID: "x"}))

	assert.Nil(t, NewWebhookClient(generatorConfig{}))
}
