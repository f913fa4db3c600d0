package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"lead_outreach_backend/internal/generator"
	"lead_outreach_backend/internal/scheduler"
	"lead_outreach_backend/platform/config"
	"lead_outreach_backend/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env, "queue", cfg.GetAsynqQueueName())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	webhook := generator.NewWebhookClient(cfg)
	if webhook == nil {
		log.Error("GENERATOR_WEBHOOK_URL is required for the scheduler")
		panic("GENERATOR_WEBHOOK_URL is required for the scheduler")
	}

	worker, err := scheduler.NewWorker(cfg, webhook, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	worker.Run(ctx)
}
