package scheduler

import (
	"context"
	"fmt"

	"lead_outreach_backend/platform/config"
	"lead_outreach_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// RegenerationDeliverer forwards a regeneration request to the generator.
type RegenerationDeliverer interface {
	DeliverRegeneration(ctx context.Context, payload RegenerationPayload) error
}

type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	deliverer RegenerationDeliverer
	log       *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, deliverer RegenerationDeliverer, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queueName(cfg): 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:    server,
		mux:       mux,
		deliverer: deliverer,
		log:       log,
	}

	mux.HandleFunc(TaskRegenerationRequested, w.handleRegeneration)

	return w, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleRegeneration(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseRegenerationPayload(task)
	if err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	if payload.LeadID == "" {
		return fmt.Errorf("regeneration task without lead id: %w", asynq.SkipRetry)
	}

	if err := w.deliverer.DeliverRegeneration(ctx, payload); err != nil {
		w.log.DispatchFailed("generator", payload.LeadID, err)
		return err
	}
	w.log.Info("regeneration delivered", "leadId", payload.LeadID, "channel", payload.Channel)
	return nil
}
