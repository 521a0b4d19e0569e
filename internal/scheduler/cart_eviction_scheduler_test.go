package scheduler

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeEvictor struct {
	mu    sync.Mutex
	calls []time.Duration
}

func (f *fakeEvictor) EvictIdle(maxIdle time.Duration) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, maxIdle)
	return 2
}

func TestCartEvictionScheduler_SweepPassesMaxIdle(t *testing.T) {
	evictor := &fakeEvictor{}
	s := NewCartEvictionScheduler(evictor, "@every 5m", 30*time.Minute)

	s.sweep()

	assert.Equal(t, []time.Duration{30 * time.Minute}, evictor.calls)
}

func TestCartEvictionScheduler_Start(t *testing.T) {
	s := NewCartEvictionScheduler(&fakeEvictor{}, "@every 5m", time.Minute)
	assert.NoError(t, s.Start())
	s.Stop()

	bad := NewCartEvictionScheduler(&fakeEvictor{}, "every now and then", time.Minute)
	assert.Error(t, bad.Start())
}
