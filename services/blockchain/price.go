package blockchain

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"mayhouse/models"

	"github.com/go-redis/redis/v8"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const (
	PriceCacheTTL    = 60 * time.Second
	FallbackPriceINR = 200000.0
	priceRedisKey    = "eth:price:inr"
	priceMirrorTTL   = 24 * time.Hour
)

type cachedPrice struct {
	PriceINR  float64   `json:"price_inr"`
	FetchedAt time.Time `json:"fetched_at"`
}

// PriceFeed serves the ETH/INR price from CoinGecko with an in-process
// cache mirrored to Redis. It never fails: stale and hard-coded values
// back it up.
type PriceFeed struct {
	URL    string
	HTTP   *http.Client
	Redis  *redis.Client
	Logger *zap.Logger

	mu     sync.Mutex
	cached *cachedPrice
}

func NewPriceFeed(url string, cache *redis.Client, logger *zap.Logger) *PriceFeed {
	return &PriceFeed{
		URL:    url,
		HTTP:   &http.Client{Timeout: 5 * time.Second},
		Redis:  cache,
		Logger: logger,
	}
}

// Price returns the cached quote while fresh, otherwise fetches a new one.
func (p *PriceFeed) Price(ctx context.Context) models.EthPrice {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cached != nil && time.Since(p.cached.FetchedAt) < PriceCacheTTL {
		return quote(p.cached, models.PriceSourceCached)
	}
	fresh, err := p.fetch(ctx)
	if err == nil {
		p.store(ctx, fresh)
		return quote(fresh, models.PriceSourceLive)
	}
	p.Logger.Warn("ETH price fetch failed", zap.Error(err))

	if p.cached == nil {
		p.cached = p.loadMirror(ctx)
	}
	if p.cached != nil {
		return quote(p.cached, models.PriceSourceCached)
	}
	return models.EthPrice{
		EthPriceINR:     FallbackPriceINR,
		Currency:        "INR",
		LastUpdated:     time.Now().UTC(),
		Source:          models.PriceSourceFallback,
		CacheTTLSeconds: int(PriceCacheTTL.Seconds()),
	}
}

// Refresh forces a fetch; used by the scheduler to keep the cache warm.
func (p *PriceFeed) Refresh(ctx context.Context) error {
	fresh, err := p.fetch(ctx)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.store(ctx, fresh)
	return nil
}

func quote(c *cachedPrice, source string) models.EthPrice {
	return models.EthPrice{
		EthPriceINR:     c.PriceINR,
		Currency:        "INR",
		LastUpdated:     c.FetchedAt,
		Source:          source,
		CacheTTLSeconds: int(PriceCacheTTL.Seconds()),
	}
}

func (p *PriceFeed) fetch(ctx context.Context) (*cachedPrice, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.URL+"?ids=ethereum&vs_currencies=inr", nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("coingecko request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("coingecko returned status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return nil, fmt.Errorf("failed to read coingecko response: %w", err)
	}
	price := gjson.GetBytes(body, "ethereum.inr")
	if !price.Exists() || price.Float() <= 0 {
		return nil, fmt.Errorf("coingecko response has no ethereum.inr price")
	}
	return &cachedPrice{PriceINR: price.Float(), FetchedAt: time.Now().UTC()}, nil
}

// store must be called with mu held.
func (p *PriceFeed) store(ctx context.Context, c *cachedPrice) {
	p.cached = c
	if p.Redis == nil {
		return
	}
	b, _ := json.Marshal(c)
	if err := p.Redis.Set(ctx, priceRedisKey, b, priceMirrorTTL).Err(); err != nil {
		p.Logger.Warn("Failed to mirror ETH price to Redis", zap.Error(err))
	}
}

func (p *PriceFeed) loadMirror(ctx context.Context) *cachedPrice {
	if p.Redis == nil {
		return nil
	}
	b, err := p.Redis.Get(ctx, priceRedisKey).Bytes()
	if err != nil {
		return nil
	}
	var c cachedPrice
	if json.Unmarshal(b, &c) != nil || c.PriceINR <= 0 {
		return nil
	}
	return &c
}
