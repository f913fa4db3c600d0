package generator

import (
	"context"
	"errors"
	"testing"
	"time"

	"lead_outreach_backend/internal/events"
	"lead_outreach_backend/internal/leads/domain"
	"lead_outreach_backend/internal/leads/repository"
	"lead_outreach_backend/platform/apperr"
	"lead_outreach_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	leads     map[uuid.UUID]domain.Lead
	sets      []repository.CreateProposalSetParams
	logged    []string
	createErr error
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (domain.Lead, error) {
	lead, ok := f.leads[id]
	if !ok {
		return domain.Lead{}, repository.ErrNotFound
	}
	return lead, nil
}

func (f *fakeRepo) CreateProposalSet(_ context.Context, p repository.CreateProposalSetParams) (domain.ProposalSet, error) {
	if f.createErr != nil {
		return domain.ProposalSet{}, f.createErr
	}
	f.sets = append(f.sets, p)
	return domain.ProposalSet{ID: uuid.New(), LeadID: p.LeadID, CreatedAt: time.Now()}, nil
}

func (f *fakeRepo) MarkPendingApproval(_ context.Context, id uuid.UUID) (domain.Lead, domain.State, error) {
	lead := f.leads[id]
	prev := lead.State
	if lead.State != domain.StateApproved {
		lead.State = domain.StatePendingApproval
	}
	f.leads[id] = lead
	return lead, prev, nil
}

func (f *fakeRepo) AppendEvent(_ context.Context, _ uuid.UUID, action, _ string) error {
	f.logged = append(f.logged, action)
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

func strPtr(s string) *string { return &s }

func TestReceiveProposalsMarksPending(t *testing.T) {
	lead := domain.Lead{ID: uuid.New(), State: domain.StateNew}
	repo := &fakeRepo{leads: map[uuid.UUID]domain.Lead{lead.ID: lead}}
	bus := &recordingBus{}
	svc := NewService(repo, bus, logger.New("test"))

	resp, err := svc.ReceiveProposals(context.Background(), ProposalsRequest{
		LeadID:   lead.ID,
		WhatsApp: &TextSlots{Cordial: strPtr("Ciao!")},
		Email:    &EmailSlots{Formal: &EmailSlot{Subject: "Offerta", Body: "Gentile cliente"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "pending_approval", resp.State)

	require.Len(t, repo.sets, 1)
	require.NotNil(t, repo.sets[0].Email.Formal)
	msg, err := domain.ParseEmailMessage(*repo.sets[0].Email.Formal)
	require.NoError(t, err)
	assert.Equal(t, "Offerta", msg.Subject)

	assert.Equal(t, []string{domain.ActionProposalsReceived}, repo.logged)
	require.Len(t, bus.published, 1)
	assert.IsType(t, events.ProposalsReceived{}, bus.published[0])
}

func TestReceiveProposalsKeepsApprovedLead(t *testing.T) {
	lead := domain.Lead{ID: uuid.New(), State: domain.StateApproved}
	repo := &fakeRepo{leads: map[uuid.UUID]domain.Lead{lead.ID: lead}}
	svc := NewService(repo, &recordingBus{}, logger.New("test"))

	resp, err := svc.ReceiveProposals(context.Background(), ProposalsRequest{LeadID: lead.ID, Legacy: &TextSlots{Formal: strPtr("x")}})
	require.NoError(t, err)
	assert.Equal(t, "approved", resp.State)
}

func TestReceiveProposalsErrors(t *testing.T) {
	lead := domain.Lead{ID: uuid.New(), State: domain.StateNew}
	repo := &fakeRepo{leads: map[uuid.UUID]domain.Lead{lead.ID: lead}}
	svc := NewService(repo, &recordingBus{}, logger.New("test"))

	_, err := svc.ReceiveProposals(context.Background(), ProposalsRequest{LeadID: lead.ID, WhatsApp: &TextSlots{Formal: strPtr("")}})
	assert.True(t, apperr.Is(err, apperr.KindValidation), "empty set")

	_, err = svc.ReceiveProposals(context.Background(), ProposalsRequest{LeadID: uuid.New(), Legacy: &TextSlots{Formal: strPtr("x")}})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	repo.createErr = errors.New("connection reset")
	_, err = svc.ReceiveProposals(context.Background(), ProposalsRequest{LeadID: lead.ID, Legacy: &TextSlots{Formal: strPtr("x")}})
	assert.True(t, apperr.Is(err, apperr.KindUpstream))
	assert.Equal(t, domain.StateNew, repo.leads[lead.ID].State, "failed insert must not move the lead")
}
