package events

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"lead_outreach_backend/platform/logger"
)

type pinged struct{ BaseEvent }

func (pinged) EventName() string { return "test.pinged" }

func TestPublishRunsAllHandlers(t *testing.T) {
	bus := NewInMemoryBus(logger.New("test"))
	var calls atomic.Int32
	for i := 0; i < 3; i++ {
		bus.Subscribe("test.pinged", HandlerFunc(func(context.Context, Event) error {
			calls.Add(1)
			return nil
		}))
	}

	bus.Publish(context.Background(), pinged{NewBaseEvent()})
	bus.Wait()

	if got := calls.Load(); got != 3 {
		t.Fatalf("expected 3 handler calls, got %d", got)
	}
}

func TestPublishSyncJoinsErrorsAndRecoversPanics(t *testing.T) {
	bus := NewInMemoryBus(logger.New("test"))
	boom := errors.New("boom")
	bus.Subscribe("test.pinged", HandlerFunc(func(context.Context, Event) error { return boom }))
	bus.Subscribe("test.pinged", HandlerFunc(func(context.Context, Event) error { panic("bad handler") }))

	err := bus.PublishSync(context.Background(), pinged{NewBaseEvent()})
	if !errors.Is(err, boom) {
		t.Fatalf("expected joined error to contain boom, got %v", err)
	}
}

func TestPublishWithoutSubscribersIsNoop(t *testing.T) {
	bus := NewInMemoryBus(logger.New("test"))
	bus.Publish(context.Background(), pinged{NewBaseEvent()})
	bus.Wait()
}

func TestDrainStopsAtDeadline(t *testing.T) {
	bus := NewInMemoryBus(logger.New("test"))
	release := make(chan struct{})
	bus.Subscribe("test.pinged", HandlerFunc(func(context.Context, Event) error {
		<-release
		return nil
	}))
	bus.Publish(context.Background(), pinged{NewBaseEvent()})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if bus.Drain(ctx) {
		t.Fatal("expected drain to give up on a cancelled context")
	}

	close(release)
	if !bus.Drain(context.Background()) {
		t.Fatal("expected drain to finish once handlers return")
	}
}

func TestBaseEventIsStamped(t *testing.T) {
	a, b := NewBaseEvent(), NewBaseEvent()
	if a.EventID() == b.EventID() {
		t.Fatal("expected distinct event ids")
	}
	if a.OccurredAt().IsZero() {
		t.Fatal("expected a timestamp")
	}
}
