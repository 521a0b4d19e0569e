package scheduler

import (
	"context"
	"errors"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/service"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// JobRunner starts automation jobs.
type JobRunner interface {
	Run(ctx context.Context, kind model.JobKind, payload *service.ImportPayload) (*model.AutomationJob, error)
}

// CatalogRefreshScheduler queues a refresh job on a cron schedule.
type CatalogRefreshScheduler struct {
	cron   *cron.Cron
	runner JobRunner
	spec   string
}

func NewCatalogRefreshScheduler(runner JobRunner, spec string) *CatalogRefreshScheduler {
	return &CatalogRefreshScheduler{
		cron:   cron.New(),
		runner: runner,
		spec:   spec,
	}
}

func (s *CatalogRefreshScheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.refresh); err != nil {
		logger.Error("Failed to add cron job for catalog refresh", err, map[string]interface{}{
			"spec": s.spec,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Catalog refresh scheduler started", map[string]interface{}{
		"spec": s.spec,
	})
	return nil
}

func (s *CatalogRefreshScheduler) refresh() {
	logger.Info("Starting scheduled catalog refresh")

	job, err := s.runner.Run(context.Background(), model.JobKindRefresh, nil)
	if errors.Is(err, service.ErrJobAlreadyRunning) {
		logger.Info("Skipping scheduled catalog refresh, a job is already running")
		return
	}
	if err != nil {
		logger.Error("Failed to queue scheduled catalog refresh", err)
		return
	}

	logger.Info("Scheduled catalog refresh queued", map[string]interface{}{
		"job_id": job.ID,
	})
}

// Stop waits for a running tick to return.
func (s *CatalogRefreshScheduler) Stop() {
	logger.Info("Stopping catalog refresh scheduler...")
	<-s.cron.Stop().Done()
	logger.Info("Catalog refresh scheduler stopped")
}
