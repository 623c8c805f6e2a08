package blockchain

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"mayhouse/models"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newFeed(url string) *PriceFeed {
	return NewPriceFeed(url, nil, zap.NewNop())
}

func TestPriceFeedLiveThenCached(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		assert.Equal(t, "ethereum", r.URL.Query().Get("ids"))
		assert.Equal(t, "inr", r.URL.Query().Get("vs_currencies"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ethereum":{"inr":250000.5}}`))
	}))
	defer srv.Close()

	feed := newFeed(srv.URL)
	first := feed.Price(context.Background())
	assert.Equal(t, models.PriceSourceLive, first.Source)
	assert.Equal(t, 250000.5, first.EthPriceINR)
	assert.Equal(t, "INR", first.Currency)
	assert.Equal(t, 60, first.CacheTTLSeconds)

	second := feed.Price(context.Background())
	assert.Equal(t, models.PriceSourceCached, second.Source)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestPriceFeedStaleOnFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	feed := newFeed(srv.URL)
	feed.cached = &cachedPrice{PriceINR: 210000, FetchedAt: time.Now().Add(-10 * time.Minute)}

	got := feed.Price(context.Background())
	assert.Equal(t, models.PriceSourceCached, got.Source)
	assert.Equal(t, 210000.0, got.EthPriceINR)
}

func TestPriceFeedFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"bitcoin":{"inr":1}}`))
	}))
	defer srv.Close()

	got := newFeed(srv.URL).Price(context.Background())
	assert.Equal(t, models.PriceSourceFallback, got.Source)
	assert.Equal(t, FallbackPriceINR, got.EthPriceINR)
}

func TestPriceFeedRefresh(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ethereum":{"inr":190000}}`))
	}))
	defer srv.Close()

	feed := newFeed(srv.URL)
	assert.NoError(t, feed.Refresh(context.Background()))
	assert.Equal(t, 190000.0, feed.Price(context.Background()).EthPriceINR)
}
