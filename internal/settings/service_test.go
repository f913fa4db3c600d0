package settings

import (
	"context"
	"errors"
	"testing"

	"lead_outreach_backend/internal/events"
	"lead_outreach_backend/internal/leads/domain"
	"lead_outreach_backend/platform/apperr"
	"lead_outreach_backend/platform/logger"
	"lead_outreach_backend/platform/validator"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	values map[string]string
	err    error
}

func (m *memoryStore) Get(_ context.Context, key string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	v, ok := m.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *memoryStore) Set(_ context.Context, key, value string) error {
	if m.err != nil {
		return m.err
	}
	m.values[key] = value
	return nil
}

type fakeLeads map[uuid.UUID]domain.Lead

func (f fakeLeads) GetByID(_ context.Context, id uuid.UUID) (domain.Lead, error) {
	lead, ok := f[id]
	if !ok {
		return domain.Lead{}, errors.New("not found")
	}
	return lead, nil
}

type sentMail struct{ to, subject, body string }

type fakeSender struct{ sent []sentMail }

func (f *fakeSender) SendOutreach(_ context.Context, to, subject, body string) error {
	f.sent = append(f.sent, sentMail{to, subject, body})
	return nil
}

func newTestService(store *memoryStore) *Service {
	return NewService(store, validator.New(), logger.New("test"))
}

func TestNotificationEmailRoundTrip(t *testing.T) {
	svc := newTestService(&memoryStore{values: map[string]string{}})

	got, err := svc.NotificationEmail(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)

	saved, err := svc.SetNotificationEmail(context.Background(), "  ufficio@example.test ")
	require.NoError(t, err)
	assert.Equal(t, "ufficio@example.test", saved)

	got, err = svc.NotificationEmail(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ufficio@example.test", got)

	_, err = svc.SetNotificationEmail(context.Background(), "")
	require.NoError(t, err)
	got, _ = svc.NotificationEmail(context.Background())
	assert.Empty(t, got)
}

func TestSetNotificationEmailErrors(t *testing.T) {
	store := &memoryStore{values: map[string]string{}}
	svc := newTestService(store)

	_, err := svc.SetNotificationEmail(context.Background(), "non-una-email")
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	assert.Empty(t, store.values)

	store.err = errors.New("connection refused")
	_, err = svc.SetNotificationEmail(context.Background(), "a@example.test")
	assert.True(t, apperr.Is(err, apperr.KindUpstream))
	_, err = svc.NotificationEmail(context.Background())
	assert.True(t, apperr.Is(err, apperr.KindUpstream))
}

func TestNotifierEmailsConfiguredAddress(t *testing.T) {
	lead := domain.Lead{ID: uuid.New(), Name: "Mario Rossi", Phone: "+393331234567", Interest: "fotovoltaico"}
	store := &memoryStore{values: map[string]string{KeyNotificationEmail: "ufficio@example.test"}}
	sender := &fakeSender{}
	n := NewNotifier(newTestService(store), fakeLeads{lead.ID: lead}, sender, logger.New("test"))

	err := n.Handle(context.Background(), events.ProposalsReceived{BaseEvent: events.NewBaseEvent(), LeadID: lead.ID})
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "ufficio@example.test", sender.sent[0].to)
	assert.Equal(t, notificationSubject, sender.sent[0].subject)
	assert.Contains(t, sender.sent[0].body, "Mario Rossi")
}

func TestNotifierSilentWithoutAddress(t *testing.T) {
	lead := domain.Lead{ID: uuid.New(), Name: "Mario"}
	sender := &fakeSender{}
	n := NewNotifier(newTestService(&memoryStore{values: map[string]string{}}), fakeLeads{lead.ID: lead}, sender, logger.New("test"))

	require.NoError(t, n.Handle(context.Background(), events.ProposalsReceived{LeadID: lead.ID}))
	require.NoError(t, n.Handle(context.Background(), events.LeadCreated{LeadID: lead.ID}))
	assert.Empty(t, sender.sent)
}
