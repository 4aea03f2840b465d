package backup

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"fakturo/internal/core/id"
	"fakturo/pkg/logger"
)

// CompanySource lists the companies eligible for backup.
type CompanySource interface {
	ListActiveIDs(ctx context.Context) ([]id.ID, error)
}

// Scheduler runs a full backup round: every company is enqueued and a
// worker pool sized to the company count drains the queue. Rounds never
// overlap; a round starting while another runs is skipped.
type Scheduler struct {
	companies CompanySource
	service   *Service
	running   atomic.Bool
}

// NewScheduler creates a new backup scheduler.
func NewScheduler(companies CompanySource, service *Service) *Scheduler {
	return &Scheduler{companies: companies, service: service}
}

// RunOnce executes one backup round and blocks until it completes.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		logger.Warn(ctx, "backup round skipped, previous round still in progress")
		return nil
	}
	defer s.running.Store(false)

	ids, err := s.companies.ListActiveIDs(ctx)
	if err != nil {
		return fmt.Errorf("list companies for backup: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}

	logger.Info(ctx, "backup round started", "companies", len(ids))

	queue := NewQueue()
	for _, companyID := range ids {
		queue.Enqueue(companyID)
	}

	var wg sync.WaitGroup
	for i := 0; i < workerCount(len(ids)); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			NewWorker(queue, s.service, time.Second).Run(ctx)
		}()
	}
	wg.Wait()

	logger.Info(ctx, "backup round finished", "companies", len(ids))
	return nil
}

// workerCount sizes the pool at one worker per ten companies, within [1, 10].
func workerCount(companies int) int {
	n := companies / 10
	if n < 1 {
		n = 1
	}
	if n > 10 {
		n = 10
	}
	return n
}
