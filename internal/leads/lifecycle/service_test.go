package lifecycle

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"lead_outreach_backend/internal/events"
	"lead_outreach_backend/internal/leads/domain"
	"lead_outreach_backend/internal/leads/repository"
	"lead_outreach_backend/platform/apperr"
	"lead_outreach_backend/platform/logger"

	"github.com/google/uuid"
)

type loggedEvent struct {
	action string
	detail string
}

type fakeRepo struct {
	leads     map[uuid.UUID]domain.Lead
	proposals map[uuid.UUID][]domain.ProposalSet
	events    map[uuid.UUID][]loggedEvent
	calls     []string
	failOn    string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		leads:     map[uuid.UUID]domain.Lead{},
		proposals: map[uuid.UUID][]domain.ProposalSet{},
		events:    map[uuid.UUID][]loggedEvent{},
	}
}

func (f *fakeRepo) seed(state domain.State) uuid.UUID {
	id := uuid.New()
	f.leads[id] = domain.Lead{
		ID:       id,
		Name:     "Mario Rossi",
		Phone:    "+393331234567",
		Interest: "fotovoltaico",
		Channel:  domain.ChannelWhatsApp,
		State:    state,
	}
	return id
}

func (f *fakeRepo) record(call string) error {
	f.calls = append(f.calls, call)
	if f.failOn == call {
		return errors.New("connection reset")
	}
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (domain.Lead, error) {
	if err := f.record("GetByID"); err != nil {
		return domain.Lead{}, err
	}
	lead, ok := f.leads[id]
	if !ok {
		return domain.Lead{}, repository.ErrNotFound
	}
	return lead, nil
}

func (f *fakeRepo) Update(_ context.Context, id uuid.UUID, p repository.UpdateLeadParams) (domain.Lead, error) {
	if err := f.record("Update"); err != nil {
		return domain.Lead{}, err
	}
	lead, ok := f.leads[id]
	if !ok {
		return domain.Lead{}, repository.ErrNotFound
	}
	lead.Name, lead.Phone = p.Name, p.Phone
	if p.ClearEmail {
		lead.Email = nil
	} else if p.Email != nil {
		lead.Email = p.Email
	}
	if p.Interest != nil {
		lead.Interest = *p.Interest
	}
	if p.Channel != nil {
		lead.Channel = *p.Channel
	}
	f.leads[id] = lead
	return lead, nil
}

func (f *fakeRepo) DeleteLead(_ context.Context, id uuid.UUID) error {
	if err := f.record("DeleteLead"); err != nil {
		return err
	}
	if len(f.events[id]) > 0 || len(f.proposals[id]) > 0 {
		return errors.New("foreign key violation")
	}
	delete(f.leads, id)
	return nil
}

func (f *fakeRepo) LatestProposalSet(_ context.Context, leadID uuid.UUID) (domain.ProposalSet, error) {
	if err := f.record("LatestProposalSet"); err != nil {
		return domain.ProposalSet{}, err
	}
	latest := domain.Latest(f.proposals[leadID])
	if latest == nil {
		return domain.ProposalSet{}, repository.ErrNoProposals
	}
	return *latest, nil
}

func (f *fakeRepo) DeleteProposalSetsByLead(_ context.Context, leadID uuid.UUID) error {
	if err := f.record("DeleteProposalSetsByLead"); err != nil {
		return err
	}
	delete(f.proposals, leadID)
	return nil
}

func (f *fakeRepo) DeleteEventsByLead(_ context.Context, leadID uuid.UUID) error {
	if err := f.record("DeleteEventsByLead"); err != nil {
		return err
	}
	delete(f.events, leadID)
	return nil
}

func (f *fakeRepo) transition(id uuid.UUID, mutate func(*domain.Lead)) (domain.Lead, domain.State, error) {
	lead, ok := f.leads[id]
	if !ok {
		return domain.Lead{}, "", repository.ErrNotFound
	}
	prev := lead.State
	mutate(&lead)
	f.leads[id] = lead
	return lead, prev, nil
}

func (f *fakeRepo) Approve(_ context.Context, id uuid.UUID, p repository.ApproveParams) (domain.Lead, domain.State, error) {
	if err := f.record("Approve"); err != nil {
		return domain.Lead{}, "", err
	}
	return f.transition(id, func(l *domain.Lead) {
		l.State = domain.StateApproved
		l.Approval = &domain.Approval{Message: p.Message, Channel: p.Channel, Tone: p.Tone, ApprovedAt: time.Now()}
	})
}

func (f *fakeRepo) ResetForRegeneration(_ context.Context, id uuid.UUID, feedback string) (domain.Lead, domain.State, error) {
	if err := f.record("ResetForRegeneration"); err != nil {
		return domain.Lead{}, "", err
	}
	return f.transition(id, func(l *domain.Lead) {
		l.State = domain.StateNew
		l.RegenerationFeedback = &feedback
	})
}

func (f *fakeRepo) MarkPendingApproval(_ context.Context, id uuid.UUID) (domain.Lead, domain.State, error) {
	return f.transition(id, func(l *domain.Lead) { l.State = domain.StatePendingApproval })
}

func (f *fakeRepo) AppendEvent(_ context.Context, leadID uuid.UUID, action, detail string) error {
	if err := f.record("AppendEvent"); err != nil {
		return err
	}
	f.events[leadID] = append(f.events[leadID], loggedEvent{action: action, detail: detail})
	return nil
}

type fakeBus struct {
	mu        sync.Mutex
	published []events.Event
}

func (b *fakeBus) Publish(_ context.Context, e events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = append(b.published, e)
}

func (b *fakeBus) PublishSync(ctx context.Context, e events.Event) error {
	b.Publish(ctx, e)
	return nil
}

func (b *fakeBus) Subscribe(string, events.Handler) {}

func newService(repo *fakeRepo) (*Service, *fakeBus) {
	bus := &fakeBus{}
	return New(repo, bus, logger.New("test"), "IT"), bus
}

func TestApproveStoresChoiceAndLogs(t *testing.T) {
	repo := newFakeRepo()
	id := repo.seed(domain.StatePendingApproval)
	svc, bus := newService(repo)

	lead, err := svc.Approve(context.Background(), id, ApproveInput{Message: "Ciao Mario,\n a presto ", Channel: "whatsapp", Tone: "cordial"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lead.State != domain.StateApproved {
		t.Fatalf("expected approved, got %s", lead.State)
	}
	if lead.Approval == nil || lead.Approval.Message != "Ciao Mario,\n a presto " || *lead.Approval.Tone != domain.ToneCordial {
		t.Fatalf("unexpected approval %+v", lead.Approval)
	}
	logged := repo.events[id]
	if len(logged) != 1 || logged[0].action != domain.ActionMessageApproved {
		t.Fatalf("expected one message_approved event, got %+v", logged)
	}
	if logged[0].detail != "channel=whatsapp tone=cordial" {
		t.Fatalf("unexpected detail %q", logged[0].detail)
	}
	if len(bus.published) != 1 {
		t.Fatalf("expected one published event, got %d", len(bus.published))
	}
}

func TestApproveInfersToneFromLatestProposals(t *testing.T) {
	repo := newFakeRepo()
	id := repo.seed(domain.StatePendingApproval)
	urgent := "Offerta valida solo oggi"
	stale := "Vecchia proposta"
	now := time.Now()
	repo.proposals[id] = []domain.ProposalSet{
		{ID: uuid.New(), LeadID: id, WhatsApp: domain.ToneSlots{Urgent: &stale}, CreatedAt: now.Add(-time.Hour)},
		{ID: uuid.New(), LeadID: id, WhatsApp: domain.ToneSlots{Urgent: &urgent}, CreatedAt: now},
	}
	svc, _ := newService(repo)

	lead, err := svc.Approve(context.Background(), id, ApproveInput{Message: urgent, Channel: "whatsapp"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lead.Approval.Tone == nil || *lead.Approval.Tone != domain.ToneUrgent {
		t.Fatalf("expected inferred urgent tone, got %v", lead.Approval.Tone)
	}
}

func TestApproveFromAnyState(t *testing.T) {
	for _, state := range []domain.State{domain.StateNew, domain.StatePendingApproval, domain.StateApproved} {
		t.Run(string(state), func(t *testing.T) {
			repo := newFakeRepo()
			id := repo.seed(state)
			svc, _ := newService(repo)

			lead, err := svc.Approve(context.Background(), id, ApproveInput{Message: "Buongiorno", Channel: "email", Tone: "formal"})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if lead.State != domain.StateApproved {
				t.Fatalf("expected approved, got %s", lead.State)
			}
			if lead.Approval.Channel != domain.ChannelEmail {
				t.Fatalf("unexpected approval channel %s", lead.Approval.Channel)
			}
		})
	}
}

func TestApproveValidation(t *testing.T) {
	repo := newFakeRepo()
	id := repo.seed(domain.StatePendingApproval)
	svc, _ := newService(repo)

	cases := []ApproveInput{
		{Message: "   ", Channel: "whatsapp"},
		{Message: "ciao", Channel: ""},
		{Message: "ciao", Channel: "both"},
		{Message: "ciao", Channel: "email", Tone: "angry"},
	}
	for _, in := range cases {
		_, err := svc.Approve(context.Background(), id, in)
		if !apperr.Is(err, apperr.KindValidation) {
			t.Errorf("%+v: expected validation error, got %v", in, err)
		}
	}
	if repo.leads[id].State != domain.StatePendingApproval {
		t.Fatal("rejected approvals must not change state")
	}
}

func TestApproveUnknownLead(t *testing.T) {
	svc, bus := newService(newFakeRepo())

	_, err := svc.Approve(context.Background(), uuid.New(), ApproveInput{Message: "ciao", Channel: "email", Tone: "formal"})
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if len(bus.published) != 0 {
		t.Fatal("no event should be published for an unknown lead")
	}
}

func TestApproveSurfacesStoreFailure(t *testing.T) {
	repo := newFakeRepo()
	id := repo.seed(domain.StatePendingApproval)
	repo.failOn = "AppendEvent"
	svc, _ := newService(repo)

	_, err := svc.Approve(context.Background(), id, ApproveInput{Message: "ciao", Channel: "whatsapp", Tone: "formal"})
	if !apperr.Is(err, apperr.KindUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
}

func TestRequestRegenerationWithoutFeedbackUsesSentinel(t *testing.T) {
	repo := newFakeRepo()
	id := repo.seed(domain.StateApproved)
	svc, bus := newService(repo)

	blank := "   "
	lead, err := svc.RequestRegeneration(context.Background(), id, &blank)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lead.State != domain.StateNew {
		t.Fatalf("expected new, got %s", lead.State)
	}
	if lead.RegenerationFeedback == nil || *lead.RegenerationFeedback != domain.NoFeedbackProvided {
		t.Fatalf("expected sentinel feedback, got %v", lead.RegenerationFeedback)
	}
	ev, ok := bus.published[0].(events.RegenerationRequested)
	if !ok || ev.Feedback != domain.NoFeedbackProvided {
		t.Fatalf("unexpected published event %+v", bus.published[0])
	}
}

func TestRequestRegenerationKeepsOldProposalsAndIsNotDeduplicated(t *testing.T) {
	repo := newFakeRepo()
	id := repo.seed(domain.StatePendingApproval)
	text := "x"
	repo.proposals[id] = []domain.ProposalSet{{ID: uuid.New(), LeadID: id, Legacy: domain.ToneSlots{Formal: &text}}}
	svc, bus := newService(repo)

	feedback := "Più breve, meno formale"
	for i := 0; i < 2; i++ {
		if _, err := svc.RequestRegeneration(context.Background(), id, &feedback); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if len(repo.proposals[id]) != 1 {
		t.Fatal("regeneration must retain previous proposal sets")
	}
	if len(bus.published) != 2 {
		t.Fatalf("expected two regeneration notifications, got %d", len(bus.published))
	}
	if got := repo.events[id][1].detail; got != feedback {
		t.Fatalf("expected feedback in log detail, got %q", got)
	}
}

func TestEditRequiresNameAndPhone(t *testing.T) {
	repo := newFakeRepo()
	id := repo.seed(domain.StateNew)
	svc, _ := newService(repo)

	_, err := svc.Edit(context.Background(), id, EditInput{Name: "  ", Phone: "333 1234567"})
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if missing, _ := appErr.Details.([]string); len(missing) != 1 || missing[0] != "name" {
		t.Fatalf("unexpected details %v", appErr.Details)
	}
	if len(repo.events[id]) != 0 {
		t.Fatal("failed edit must not be logged")
	}
}

func TestEditNormalizesAndLogs(t *testing.T) {
	repo := newFakeRepo()
	id := repo.seed(domain.StateNew)
	svc, _ := newService(repo)

	email, channel := " luigi@example.test ", "Entrambi"
	lead, err := svc.Edit(context.Background(), id, EditInput{
		Name:    " Luigi  Verdi ",
		Phone:   "333 765 4321",
		Email:   &email,
		Channel: &channel,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lead.Name != "Luigi Verdi" || lead.Phone != "+393337654321" || lead.Channel != domain.ChannelBoth {
		t.Fatalf("unexpected lead %+v", lead)
	}
	if lead.Email == nil || *lead.Email != "luigi@example.test" {
		t.Fatalf("unexpected email %v", lead.Email)
	}
	logged := repo.events[id]
	if len(logged) != 1 || logged[0].action != domain.ActionLeadModified || !strings.Contains(logged[0].detail, "Luigi Verdi") {
		t.Fatalf("unexpected log %+v", logged)
	}
}

func TestEditKeepsOmittedFields(t *testing.T) {
	repo := newFakeRepo()
	id := repo.seed(domain.StateNew)
	stored := repo.leads[id]
	email := "mario@example.test"
	stored.Email = &email
	stored.Channel = domain.ChannelEmail
	repo.leads[id] = stored
	svc, _ := newService(repo)

	lead, err := svc.Edit(context.Background(), id, EditInput{Name: "Mario Rossi", Phone: "3331234567"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lead.Channel != domain.ChannelEmail {
		t.Fatalf("channel changed to %s", lead.Channel)
	}
	if lead.Interest != "fotovoltaico" {
		t.Fatalf("interest changed to %q", lead.Interest)
	}
	if lead.Email == nil || *lead.Email != email {
		t.Fatalf("email changed to %v", lead.Email)
	}
}

func TestEditClearsEmailAndRejectsUnknownChannel(t *testing.T) {
	repo := newFakeRepo()
	id := repo.seed(domain.StateNew)
	stored := repo.leads[id]
	email := "mario@example.test"
	stored.Email = &email
	repo.leads[id] = stored
	svc, _ := newService(repo)

	blank := " "
	lead, err := svc.Edit(context.Background(), id, EditInput{Name: "Mario", Phone: "333", Email: &blank})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lead.Email != nil {
		t.Fatalf("expected email cleared, got %v", *lead.Email)
	}

	fax := "fax"
	_, err = svc.Edit(context.Background(), id, EditInput{Name: "Mario", Phone: "333", Channel: &fax})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDeleteCascadesChildrenBeforeLead(t *testing.T) {
	repo := newFakeRepo()
	id := repo.seed(domain.StateApproved)
	text := "x"
	repo.proposals[id] = []domain.ProposalSet{{ID: uuid.New(), LeadID: id, Legacy: domain.ToneSlots{Formal: &text}}}
	repo.events[id] = []loggedEvent{{action: domain.ActionMessageApproved}}
	svc, _ := newService(repo)

	if err := svc.Delete(context.Background(), id); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"GetByID", "DeleteEventsByLead", "DeleteProposalSetsByLead", "DeleteLead"}
	if strings.Join(repo.calls, ",") != strings.Join(want, ",") {
		t.Fatalf("unexpected call order %v", repo.calls)
	}
	if _, ok := repo.leads[id]; ok {
		t.Fatal("lead should be gone")
	}
}

func TestDeleteStopsOnChildFailure(t *testing.T) {
	repo := newFakeRepo()
	id := repo.seed(domain.StateNew)
	repo.failOn = "DeleteProposalSetsByLead"
	svc, _ := newService(repo)

	err := svc.Delete(context.Background(), id)
	if !apperr.Is(err, apperr.KindUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if _, ok := repo.leads[id]; !ok {
		t.Fatal("lead must survive a failed cascade")
	}
}

func TestDeleteUnknownLead(t *testing.T) {
	svc, _ := newService(newFakeRepo())
	if err := svc.Delete(context.Background(), uuid.New()); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
