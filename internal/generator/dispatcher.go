package generator

import (
	"context"
	"time"

	"lead_outreach_backend/internal/events"
	"lead_outreach_backend/internal/scheduler"
	"lead_outreach_backend/platform/logger"
	"lead_outreach_backend/platform/metrics"
)

const directDeliveryTimeout = 30 * time.Second

// Dispatcher forwards RegenerationRequested events to the generator. With a
// queue the request is enqueued for the worker; otherwise it is delivered
// directly in the background. Failures are logged and never reach the operator.
type Dispatcher struct {
	queue     scheduler.RegenerationQueue
	deliverer scheduler.RegenerationDeliverer
	log       *logger.Logger
	// done is signalled after each background delivery; used by tests.
	done chan struct{}
}

// NewDispatcher builds a dispatcher. Either queue or deliverer may be nil.
func NewDispatcher(queue scheduler.RegenerationQueue, deliverer scheduler.RegenerationDeliverer, log *logger.Logger) *Dispatcher {
	return &Dispatcher{queue: queue, deliverer: deliverer, log: log}
}

// RegisterHandlers subscribes the dispatcher to regeneration requests.
func (d *Dispatcher) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.RegenerationRequested{}.EventName(), d)
}

// Handle implements events.Handler.
func (d *Dispatcher) Handle(ctx context.Context, event events.Event) error {
	e, ok := event.(events.RegenerationRequested)
	if !ok {
		return nil
	}

	payload := scheduler.RegenerationPayload{
		LeadID:      e.LeadID.String(),
		Feedback:    e.Feedback,
		Channel:     e.Channel,
		RequestedAt: e.OccurredAt(),
	}

	if d.queue != nil {
		if err := d.queue.EnqueueRegeneration(ctx, payload); err != nil {
			d.fail("queue", payload.LeadID, err)
			return nil
		}
		d.log.Info("regeneration enqueued", "leadId", payload.LeadID)
		return nil
	}

	if d.deliverer == nil {
		d.log.Warn("regeneration requested but no generator is configured", "leadId", payload.LeadID)
		return nil
	}

	go d.deliver(payload)
	return nil
}

func (d *Dispatcher) deliver(payload scheduler.RegenerationPayload) {
	defer d.signal()

	ctx, cancel := context.WithTimeout(context.Background(), directDeliveryTimeout)
	defer cancel()

	if err := d.deliverer.DeliverRegeneration(ctx, payload); err != nil {
		d.fail("generator", payload.LeadID, err)
		return
	}
	d.log.Info("regeneration delivered", "leadId", payload.LeadID)
}

func (d *Dispatcher) fail(target, leadID string, err error) {
	d.log.DispatchFailed(target, leadID, err)
	metrics.RecordDispatchError(target)
}

func (d *Dispatcher) signal() {
	if d.done != nil {
		d.done <- struct{}{}
	}
}

var _ events.Handler = (*Dispatcher)(nil)
