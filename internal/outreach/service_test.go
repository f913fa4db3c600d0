package outreach

import (
	"context"
	"errors"
	"testing"

	"lead_outreach_backend/internal/email"
	"lead_outreach_backend/internal/events"
	"lead_outreach_backend/internal/leads/domain"
	"lead_outreach_backend/internal/leads/repository"
	"lead_outreach_backend/platform/apperr"
	"lead_outreach_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLeads struct {
	leads  map[uuid.UUID]domain.Lead
	logged []string
}

func (f *fakeLeads) GetByID(_ context.Context, id uuid.UUID) (domain.Lead, error) {
	lead, ok := f.leads[id]
	if !ok {
		return domain.Lead{}, repository.ErrNotFound
	}
	return lead, nil
}

func (f *fakeLeads) AppendEvent(_ context.Context, _ uuid.UUID, action, detail string) error {
	f.logged = append(f.logged, action+"|"+detail)
	return nil
}

type fakeWhatsApp struct {
	phone, message string
	err            error
}

func (f *fakeWhatsApp) SendMessage(_ context.Context, phone, message string) error {
	f.phone, f.message = phone, message
	return f.err
}

type fakeMail struct {
	to, subject, body string
}

func (f *fakeMail) SendOutreach(_ context.Context, to, subject, body string) error {
	f.to, f.subject, f.body = to, subject, body
	return nil
}

type recordingBus struct{ published []events.Event }

func (b *recordingBus) Publish(_ context.Context, e events.Event) {
	b.published = append(b.published, e)
}
func (b *recordingBus) PublishSync(ctx context.Context, e events.Event) error {
	b.Publish(ctx, e)
	return nil
}
func (b *recordingBus) Subscribe(string, events.Handler) {}

func newLead(channel domain.Channel, withEmail bool) domain.Lead {
	lead := domain.Lead{ID: uuid.New(), Name: "Mario", Phone: "+393331234567", Channel: channel, State: domain.StateApproved}
	if withEmail {
		e := "mario@example.test"
		lead.Email = &e
	}
	return lead
}

func TestLaunchUsesApprovedMessage(t *testing.T) {
	lead := newLead(domain.ChannelBoth, true)
	lead.Approval = &domain.Approval{Message: "Ciao Mario", Channel: domain.ChannelWhatsApp}
	leads := &fakeLeads{leads: map[uuid.UUID]domain.Lead{lead.ID: lead}}
	svc := New(leads, nil, nil, &recordingBus{}, logger.New("test"), "IT")

	links, err := svc.Launch(context.Background(), lead.ID, LaunchInput{Subject: "Offerta"})
	require.NoError(t, err)
	assert.Equal(t, "https://wa.me/393331234567?text=Ciao%20Mario", links.WhatsAppURL)
	assert.Equal(t, "mailto:mario@example.test?subject=Offerta&body=Ciao%20Mario", links.MailtoURL)
}

func TestLaunchSingleChannel(t *testing.T) {
	lead := newLead(domain.ChannelBoth, true)
	leads := &fakeLeads{leads: map[uuid.UUID]domain.Lead{lead.ID: lead}}
	svc := New(leads, nil, nil, &recordingBus{}, logger.New("test"), "IT")

	links, err := svc.Launch(context.Background(), lead.ID, LaunchInput{Channel: "whatsapp", Text: "Ciao"})
	require.NoError(t, err)
	assert.NotEmpty(t, links.WhatsAppURL)
	assert.Empty(t, links.MailtoURL)
}

func TestSendWhatsAppLogsEvent(t *testing.T) {
	lead := newLead(domain.ChannelWhatsApp, false)
	leads := &fakeLeads{leads: map[uuid.UUID]domain.Lead{lead.ID: lead}}
	wa := &fakeWhatsApp{}
	bus := &recordingBus{}
	svc := New(leads, wa, nil, bus, logger.New("test"), "IT")

	err := svc.Send(context.Background(), lead.ID, SendInput{Channel: "whatsapp", Body: "Ciao Mario"})
	require.NoError(t, err)
	assert.Equal(t, "+393331234567", wa.phone)
	assert.Equal(t, []string{domain.ActionMessageSent + "|channel=whatsapp"}, leads.logged)
	require.Len(t, bus.published, 1)
	assert.IsType(t, events.MessageSent{}, bus.published[0])
}

func TestSendEmail(t *testing.T) {
	lead := newLead(domain.ChannelEmail, true)
	leads := &fakeLeads{leads: map[uuid.UUID]domain.Lead{lead.ID: lead}}
	mail := &fakeMail{}
	svc := New(leads, nil, mail, &recordingBus{}, logger.New("test"), "IT")

	err := svc.Send(context.Background(), lead.ID, SendInput{Channel: "email", Subject: "Offerta", Body: "Gentile Mario"})
	require.NoError(t, err)
	assert.Equal(t, "mario@example.test", mail.to)
	assert.Equal(t, "Offerta", mail.subject)
}

func TestSendFailures(t *testing.T) {
	lead := newLead(domain.ChannelWhatsApp, false)
	leads := &fakeLeads{leads: map[uuid.UUID]domain.Lead{lead.ID: lead}}

	svc := New(leads, nil, nil, &recordingBus{}, logger.New("test"), "IT")
	err := svc.Send(context.Background(), lead.ID, SendInput{Channel: "whatsapp", Body: "x"})
	assert.True(t, apperr.Is(err, apperr.KindBadRequest), "whatsapp not configured")

	err = svc.Send(context.Background(), lead.ID, SendInput{Channel: "email", Body: "x"})
	assert.True(t, apperr.Is(err, apperr.KindValidation), "lead has no email")

	err = svc.Send(context.Background(), lead.ID, SendInput{Channel: "both", Body: "x"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	wa := &fakeWhatsApp{err: errors.New("gateway down")}
	svc = New(leads, wa, email.NoopSender{}, &recordingBus{}, logger.New("test"), "IT")
	err = svc.Send(context.Background(), lead.ID, SendInput{Channel: "whatsapp", Body: "x"})
	assert.True(t, apperr.Is(err, apperr.KindUpstream))
	assert.Empty(t, leads.logged)

	err = svc.Send(context.Background(), uuid.New(), SendInput{Channel: "whatsapp", Body: "x"})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestMarkSentLogsWithoutDelivering(t *testing.T) {
	lead := newLead(domain.ChannelEmail, true)
	leads := &fakeLeads{leads: map[uuid.UUID]domain.Lead{lead.ID: lead}}
	wa := &fakeWhatsApp{}
	mail := &fakeMail{}
	bus := &recordingBus{}
	svc := New(leads, wa, mail, bus, logger.New("test"), "IT")

	require.NoError(t, svc.MarkSent(context.Background(), lead.ID, "Email"))
	assert.Equal(t, []string{domain.ActionMessageSent + "|channel=email manual=true"}, leads.logged)
	assert.Empty(t, mail.to)
	assert.Empty(t, wa.phone)
	require.Len(t, bus.published, 1)
	sent, ok := bus.published[0].(events.MessageSent)
	require.True(t, ok)
	assert.Equal(t, "email", sent.Channel)
}

func TestMarkSentRejectsInvalidInput(t *testing.T) {
	lead := newLead(domain.ChannelBoth, true)
	leads := &fakeLeads{leads: map[uuid.UUID]domain.Lead{lead.ID: lead}}
	svc := New(leads, nil, nil, &recordingBus{}, logger.New("test"), "IT")

	for _, channel := range []string{"", "both", "fax"} {
		err := svc.MarkSent(context.Background(), lead.ID, channel)
		assert.True(t, apperr.Is(err, apperr.KindValidation), channel)
	}
	err := svc.MarkSent(context.Background(), uuid.New(), "whatsapp")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.Empty(t, leads.logged)
}
