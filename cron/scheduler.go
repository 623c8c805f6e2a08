package cron

import (
	"context"
	"time"

	"mayhouse/metrics"
	"mayhouse/utils"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// RunGracePeriod is how long after its end a run is left open before it is auto-completed.
const RunGracePeriod = 24 * time.Hour

const jobTimeout = 30 * time.Second

// PriceRefresher re-quotes the ETH price.
type PriceRefresher interface {
	Refresh(ctx context.Context) error
}

// RunCompleter closes runs that have already ended.
type RunCompleter interface {
	CompletePastRuns(grace time.Duration) (int, error)
}

// Scheduler holds the periodic jobs' dependencies.
type Scheduler struct {
	Prices    PriceRefresher
	Blacklist utils.TokenBlacklist
	Runs      RunCompleter
	Logger    *zap.Logger
}

// job wraps fn with a timeout and records its outcome.
func (s *Scheduler) job(name string, fn func(ctx context.Context) error) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		start := time.Now()
		err := fn(ctx)
		metrics.RecordJob(name, time.Since(start), err)
		if err != nil {
			s.Logger.Warn("Scheduled job failed", zap.String("job", name), zap.Error(err))
		}
	}
}

func (s *Scheduler) refreshPrice(ctx context.Context) error {
	return s.Prices.Refresh(ctx)
}

func (s *Scheduler) sweepBlacklist(context.Context) error {
	if n := s.Blacklist.Sweep(); n > 0 {
		s.Logger.Info("Swept expired revoked tokens", zap.Int("removed", n))
	}
	return nil
}

func (s *Scheduler) completeRuns(context.Context) error {
	n, err := s.Runs.CompletePastRuns(RunGracePeriod)
	if err != nil {
		return err
	}
	if n > 0 {
		s.Logger.Info("Auto-completed past event runs", zap.Int("count", n))
	}
	return nil
}

// StartScheduler registers the periodic jobs and starts the cron runner.
// Stop the returned runner on shutdown.
func StartScheduler(s *Scheduler) (*cron.Cron, error) {
	c := cron.New()
	jobs := []struct {
		sched string
		name  string
		fn    func(ctx context.Context) error
	}{
		{"@every 1m", "eth_price_refresh", s.refreshPrice},
		{"@every 10m", "blacklist_sweep", s.sweepBlacklist},
		{"@every 15m", "complete_past_runs", s.completeRuns},
	}
	for _, j := range jobs {
		if _, err := c.AddFunc(j.sched, s.job(j.name, j.fn)); err != nil {
			return nil, err
		}
	}
	c.Start()
	return c, nil
}
