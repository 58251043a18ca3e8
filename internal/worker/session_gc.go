package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Collector purges expired entries and reports how many were removed.
type Collector interface {
	GC(ctx context.Context) (int64, error)
}

// Sweeper drops idle in-memory state, such as per-IP rate limiters.
type Sweeper interface {
	Cleanup(maxIdle time.Duration) int
}

// SessionGC periodically garbage collects sessions on a cron schedule.
type SessionGC struct {
	cron      *cron.Cron
	collector Collector
	sweepers  []Sweeper
	maxIdle   time.Duration
	timeout   time.Duration
	logger    *zap.Logger
}

// NewSessionGC schedules collector on spec. Sweepers run in the same job and
// drop state idle for longer than maxIdle.
func NewSessionGC(spec string, collector Collector, maxIdle time.Duration, logger *zap.Logger, sweepers ...Sweeper) (*SessionGC, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	gc := &SessionGC{
		cron:      cron.New(),
		collector: collector,
		sweepers:  sweepers,
		maxIdle:   maxIdle,
		timeout:   time.Minute,
		logger:    logger,
	}
	if _, err := gc.cron.AddFunc(spec, func() { gc.Run(context.Background()) }); err != nil {
		return nil, fmt.Errorf("schedule session gc %q: %w", spec, err)
	}
	return gc, nil
}

// Start begins running the schedule in the background.
func (g *SessionGC) Start() {
	g.cron.Start()
	g.logger.Info("session gc started")
}

// Stop halts the schedule and waits for a running job to finish or ctx to end.
func (g *SessionGC) Stop(ctx context.Context) {
	done := g.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

// Run performs one collection pass.
func (g *SessionGC) Run(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	if g.collector != nil {
		purged, err := g.collector.GC(ctx)
		if err != nil {
			g.logger.Error("session gc failed", zap.Error(err))
		} else {
			g.logger.Info("session gc completed", zap.Int64("purged", purged))
		}
	}

	for _, sweeper := range g.sweepers {
		if removed := sweeper.Cleanup(g.maxIdle); removed > 0 {
			g.logger.Debug("idle limiters dropped", zap.Int("count", removed))
		}
	}
}
