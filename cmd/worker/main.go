// Package main is the entry point for the Fakturo background worker.
// It periodically marks overdue invoices and expired quotes, cleans up
// expired refresh tokens and idempotency keys, and runs scheduled
// company backups.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"fakturo/internal/domain/backup"
	"fakturo/internal/domain/documents/invoice"
	"fakturo/internal/domain/documents/quote"
	"fakturo/internal/infrastructure/numerator"
	"fakturo/internal/infrastructure/storage/postgres"
	"fakturo/internal/infrastructure/storage/postgres/auth_repo"
	"fakturo/internal/infrastructure/storage/postgres/catalog_repo"
	"fakturo/internal/infrastructure/storage/postgres/document_repo"
	"fakturo/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log.Info("starting fakturo worker")

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(mustEnv("DATABASE_URL")))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	txManager := postgres.NewTxManager(pool)
	allocator := numerator.NewService(txManager)

	invoiceRepo := document_repo.NewInvoiceRepo(txManager)
	invoiceService := invoice.NewService(invoiceRepo, allocator, txManager)

	quoteRepo := document_repo.NewQuoteRepo(txManager)
	quoteService := quote.NewService(quoteRepo, allocator, txManager, invoiceService)

	tokenRepo := auth_repo.NewTokenRepo(txManager)
	idempotencyStore := postgres.NewIdempotencyStore(pool, txManager,
		getEnvDuration("IDEMPOTENCY_TTL", 10*time.Minute))

	snapshots, err := postgres.NewSnapshotService(txManager)
	if err != nil {
		log.Fatalw("failed to create snapshot service", "error", err)
	}
	backupService := backup.NewService(snapshots, getEnv("STORAGE_ROOT", "storage"))
	backupScheduler := backup.NewScheduler(catalog_repo.NewCompanyRepo(txManager), backupService)

	worker := NewWorker(WorkerConfig{
		LifecycleInterval: getEnvDuration("WORKER_LIFECYCLE_INTERVAL", 5*time.Minute),
		CleanupInterval:   getEnvDuration("WORKER_CLEANUP_INTERVAL", 1*time.Hour),
		BackupInterval:    getEnvDuration("WORKER_BACKUP_INTERVAL", 168*time.Hour),
	}, invoiceService, quoteService, tokenRepo, idempotencyStore, backupScheduler, log)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		worker.Run(ctx)
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down worker...")
	cancel()

	wg.Wait()
	log.Info("worker stopped")
}

// WorkerConfig holds worker timing configuration.
type WorkerConfig struct {
	// LifecycleInterval is how often overdue/expiry marking runs
	LifecycleInterval time.Duration

	// CleanupInterval is how often expired tokens and keys are purged
	CleanupInterval time.Duration

	// BackupInterval is how often the company backup round runs
	BackupInterval time.Duration
}

// Worker runs the periodic document lifecycle, cleanup and backup jobs.
type Worker struct {
	cfg      WorkerConfig
	invoices *invoice.Service
	quotes   *quote.Service
	tokens   *auth_repo.TokenRepo
	idemp    *postgres.IdempotencyStore
	backups  *backup.Scheduler
	log      *logger.Logger
}

// NewWorker creates a new worker.
func NewWorker(
	cfg WorkerConfig,
	invoices *invoice.Service,
	quotes *quote.Service,
	tokens *auth_repo.TokenRepo,
	idemp *postgres.IdempotencyStore,
	backups *backup.Scheduler,
	log *logger.Logger,
) *Worker {
	return &Worker{
		cfg:      cfg,
		invoices: invoices,
		quotes:   quotes,
		tokens:   tokens,
		idemp:    idemp,
		backups:  backups,
		log:      log.WithComponent("worker"),
	}
}

// Run loops until the context is cancelled.
func (w *Worker) Run(ctx context.Context) {
	lifecycleTicker := time.NewTicker(w.cfg.LifecycleInterval)
	defer lifecycleTicker.Stop()

	cleanupTicker := time.NewTicker(w.cfg.CleanupInterval)
	defer cleanupTicker.Stop()

	backupTicker := time.NewTicker(w.cfg.BackupInterval)
	defer backupTicker.Stop()

	// Run the lifecycle pass once at startup so a restarted worker
	// catches up immediately instead of waiting a full interval.
	w.runLifecyclePass(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-lifecycleTicker.C:
			w.runLifecyclePass(ctx)
		case <-cleanupTicker.C:
			w.runCleanupPass(ctx)
		case <-backupTicker.C:
			w.runBackupPass(ctx)
		}
	}
}

// runLifecyclePass marks overdue invoices and expired quotes.
func (w *Worker) runLifecyclePass(ctx context.Context) {
	if overdue, err := w.invoices.MarkOverdue(ctx); err != nil {
		w.log.Errorw("overdue marking pass failed", "error", err)
	} else if overdue > 0 {
		w.log.Infow("marked overdue invoices", "count", overdue)
	}

	if expired, err := w.quotes.MarkExpired(ctx); err != nil {
		w.log.Errorw("expiry marking pass failed", "error", err)
	} else if expired > 0 {
		w.log.Infow("marked expired quotes", "count", expired)
	}
}

// runCleanupPass purges expired refresh tokens and idempotency records.
func (w *Worker) runCleanupPass(ctx context.Context) {
	if removed, err := w.tokens.CleanupExpiredTokens(ctx); err != nil {
		w.log.Errorw("token cleanup failed", "error", err)
	} else if removed > 0 {
		w.log.Infow("cleaned up expired tokens", "count", removed)
	}

	if removed, err := w.idemp.CleanupExpired(ctx); err != nil {
		w.log.Errorw("idempotency cleanup failed", "error", err)
	} else if removed > 0 {
		w.log.Infow("cleaned up idempotency keys", "count", removed)
	}
}

// runBackupPass archives every company's stored documents.
func (w *Worker) runBackupPass(ctx context.Context) {
	if err := w.backups.RunOnce(ctx); err != nil {
		w.log.Errorw("backup round failed", "error", err)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
