package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"mayhouse/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubPrices struct {
	calls int
	err   error
}

func (p *stubPrices) Refresh(ctx context.Context) error {
	p.calls++
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("no deadline")
	}
	return p.err
}

type stubCompleter struct {
	grace time.Duration
	n     int
	err   error
}

func (c *stubCompleter) CompletePastRuns(grace time.Duration) (int, error) {
	c.grace = grace
	return c.n, c.err
}

func TestSchedulerJobs(t *testing.T) {
	prices := &stubPrices{}
	runs := &stubCompleter{n: 3}
	blacklist := utils.NewMemoryBlacklist()
	require.NoError(t, blacklist.Revoke(context.Background(), "old", time.Now().Add(-time.Minute)))
	require.NoError(t, blacklist.Revoke(context.Background(), "live", time.Now().Add(time.Hour)))

	s := &Scheduler{Prices: prices, Blacklist: blacklist, Runs: runs, Logger: zap.NewNop()}

	s.job("eth_price_refresh", s.refreshPrice)()
	assert.Equal(t, 1, prices.calls)

	require.NoError(t, s.sweepBlacklist(context.Background()))
	revoked, err := blacklist.IsRevoked(context.Background(), "live")
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.Zero(t, blacklist.Sweep())

	require.NoError(t, s.completeRuns(context.Background()))
	assert.Equal(t, RunGracePeriod, runs.grace)

	runs.err = errors.New("mongo down")
	assert.Error(t, s.completeRuns(context.Background()))
}

func TestJobSwallowsErrors(t *testing.T) {
	prices := &stubPrices{err: errors.New("coingecko 429")}
	s := &Scheduler{Prices: prices, Logger: zap.NewNop()}

	assert.NotPanics(t, s.job("eth_price_refresh", s.refreshPrice))
	assert.Equal(t, 1, prices.calls)
}

func TestStartScheduler(t *testing.T) {
	s := &Scheduler{Prices: &stubPrices{}, Blacklist: utils.NewMemoryBlacklist(), Runs: &stubCompleter{}, Logger: zap.NewNop()}

	c, err := StartScheduler(s)
	require.NoError(t, err)
	defer c.Stop()
	assert.Len(t, c.Entries(), 3)
}
