package scheduler

import (
	"time"

	"github.com/ikkim/storefront-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// CartEvictor drops cached cart sessions that have sat unused.
type CartEvictor interface {
	EvictIdle(maxIdle time.Duration) int
}

// CartEvictionScheduler sweeps idle cart sessions out of memory on a cron schedule.
type CartEvictionScheduler struct {
	cron    *cron.Cron
	evictor CartEvictor
	spec    string
	maxIdle time.Duration
}

func NewCartEvictionScheduler(evictor CartEvictor, spec string, maxIdle time.Duration) *CartEvictionScheduler {
	return &CartEvictionScheduler{
		cron:    cron.New(),
		evictor: evictor,
		spec:    spec,
		maxIdle: maxIdle,
	}
}

func (s *CartEvictionScheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.sweep); err != nil {
		logger.Error("Failed to add cron job for cart eviction", err, map[string]interface{}{
			"spec": s.spec,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Cart eviction scheduler started", map[string]interface{}{
		"spec":     s.spec,
		"max_idle": s.maxIdle.String(),
	})
	return nil
}

func (s *CartEvictionScheduler) sweep() {
	evicted := s.evictor.EvictIdle(s.maxIdle)
	if evicted > 0 {
		logger.Info("Idle cart sessions evicted", map[string]interface{}{
			"evicted": evicted,
		})
	}
}

func (s *CartEvictionScheduler) Stop() {
	<-s.cron.Stop().Done()
	logger.Info("Cart eviction scheduler stopped")
}
