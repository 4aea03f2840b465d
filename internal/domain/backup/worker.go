package backup

import (
	"context"
	"time"

	"fakturo/pkg/logger"
)

// Worker drains the queue, backing up one company at a time. It exits
// once the queue stays empty for the idle timeout or the context is
// cancelled. One company failing does not stop the rest.
type Worker struct {
	queue   *Queue
	service *Service
	idle    time.Duration
}

// NewWorker creates a worker over the shared queue.
func NewWorker(queue *Queue, service *Service, idle time.Duration) *Worker {
	if idle <= 0 {
		idle = time.Minute
	}
	return &Worker{queue: queue, service: service, idle: idle}
}

// Run processes companies until the queue drains.
func (w *Worker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		companyID, ok := w.queue.Dequeue(w.idle)
		if !ok {
			logger.Info(ctx, "backup queue empty, worker exiting")
			return
		}

		if _, err := w.service.BackupCompany(ctx, companyID); err != nil {
			logger.Error(ctx, "company backup failed",
				"company_id", companyID, "error", err)
		}
	}
}
