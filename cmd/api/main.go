package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lead_outreach_backend/internal/adapters/storage"
	"lead_outreach_backend/internal/attachments"
	"lead_outreach_backend/internal/email"
	"lead_outreach_backend/internal/events"
	"lead_outreach_backend/internal/exports"
	"lead_outreach_backend/internal/generator"
	apphttp "lead_outreach_backend/internal/http"
	"lead_outreach_backend/internal/http/router"
	"lead_outreach_backend/internal/leads"
	"lead_outreach_backend/internal/outreach"
	"lead_outreach_backend/internal/scheduler"
	"lead_outreach_backend/internal/settings"
	"lead_outreach_backend/internal/templates"
	"lead_outreach_backend/internal/whatsapp"
	"lead_outreach_backend/platform/config"
	"lead_outreach_backend/platform/db"
	"lead_outreach_backend/platform/logger"
	"lead_outreach_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

const storageBucketEnsureErrPrefix = "failed to ensure storage bucket exists: "
const storageBucketEnsureErrMsg = "failed to ensure storage bucket exists"

// ensureBucket wraps the retry logic for verifying a MinIO bucket exists.
func ensureBucket(ctx context.Context, log *logger.Logger, storageSvc storage.StorageService, name, bucket string) {
	if err := withRetry(ctx, log, "ensure "+name+" bucket", 5, 2*time.Second, func() error {
		return storageSvc.EnsureBucketExists(ctx, bucket)
	}); err != nil {
		log.Error(storageBucketEnsureErrMsg, "error", err, "bucket", bucket)
		panic(storageBucketEnsureErrPrefix + err.Error())
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, pool)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Shared validator instance for dependency injection
	val := validator.New()
	region := cfg.GetPhoneDefaultRegion()

	attachmentStore := initStorage(ctx, cfg, log)

	sender := email.NewSender(cfg)

	var waSender outreach.WhatsAppSender
	if client := whatsapp.NewClient(cfg, region, log); client != nil {
		waSender = client
		log.Info("whatsapp gateway configured")
	}

	regenerationQueue, closeQueue := initRegenerationQueue(cfg, log)
	if closeQueue != nil {
		defer closeQueue()
	}

	var deliverer scheduler.RegenerationDeliverer
	if webhook := generator.NewWebhookClient(cfg); webhook != nil {
		deliverer = webhook
	} else {
		log.Warn("GENERATOR_WEBHOOK_URL not configured; regeneration requests are only logged")
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	leadsModule := leads.NewModule(pool, eventBus, val, region, log)
	leadStore := leadsModule.Repository()

	templatesModule := templates.NewModule(pool, leadStore, eventBus, val, log, region)
	if err := templatesModule.Seed(ctx, cfg.GetTemplateSeedFile()); err != nil {
		log.Error("failed to seed templates", "error", err, "file", cfg.GetTemplateSeedFile())
	}

	outreachModule := outreach.NewModule(outreach.New(leadStore, waSender, sender, eventBus, log, region), val)

	generatorModule := generator.NewModule(
		leadStore,
		eventBus,
		generator.NewDispatcher(regenerationQueue, deliverer, log),
		val,
		cfg.GetGeneratorAPIKey(),
		log,
	)
	generatorModule.RegisterHandlers(eventBus)

	attachmentsModule := attachments.NewModule(attachmentStore, cfg.GetMinioBucketTemplateAttachments(), log)
	exportsModule := exports.NewModule(leadStore, cfg.GetExportAPIKey(), log)

	settingsModule := settings.NewModule(pool, leadStore, sender, val, log)
	settingsModule.RegisterHandlers(eventBus)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   pool,
		EventBus: eventBus,
		Modules: []apphttp.Module{
			leadsModule,
			exportsModule,
			templatesModule,
			outreachModule,
			attachmentsModule,
			generatorModule,
			settingsModule,
		},
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
		}
		// Let in-flight event handlers (regeneration dispatch) finish.
		if !eventBus.Drain(shutdownCtx) {
			log.Warn("event handlers still running at shutdown")
		}
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

// initStorage returns nil when MinIO is not configured; attachment uploads
// are then rejected.
func initStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) attachments.Store {
	if !cfg.IsMinIOEnabled() {
		log.Warn("MINIO_ENDPOINT not configured; attachment uploads disabled")
		return nil
	}

	storageSvc, err := storage.NewMinIOService(cfg)
	if err != nil {
		log.Error("failed to initialize storage service", "error", err)
		panic("failed to initialize storage service: " + err.Error())
	}
	ensureBucket(ctx, log, storageSvc, "template-attachments", cfg.GetMinioBucketTemplateAttachments())
	log.Info("storage service initialized", "attachmentsBucket", cfg.GetMinioBucketTemplateAttachments())
	return storageSvc
}

func initRegenerationQueue(cfg config.SchedulerConfig, log *logger.Logger) (scheduler.RegenerationQueue, func()) {
	if !cfg.IsSchedulerEnabled() {
		log.Warn("REDIS_URL not configured; regeneration requests are delivered directly")
		return nil, nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize regeneration queue client", "error", err)
		return nil, nil
	}

	return client, func() {
		_ = client.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
