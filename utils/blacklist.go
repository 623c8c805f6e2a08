package utils

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// TokenBlacklist records revoked access tokens until they would have expired anyway.
type TokenBlacklist interface {
	Revoke(ctx context.Context, tokenHash string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenHash string) (bool, error)
	// Sweep drops expired entries and returns how many were removed.
	Sweep() int
}

// MemoryBlacklist is the in-process fallback used when Redis is unavailable.
type MemoryBlacklist struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

func NewMemoryBlacklist() *MemoryBlacklist {
	return &MemoryBlacklist{entries: make(map[string]time.Time), now: time.Now}
}

func (b *MemoryBlacklist) Revoke(_ context.Context, tokenHash string, expiresAt time.Time) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[tokenHash] = expiresAt
	return nil
}

func (b *MemoryBlacklist) IsRevoked(_ context.Context, tokenHash string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	exp, ok := b.entries[tokenHash]
	if !ok {
		return false, nil
	}
	if b.now().After(exp) {
		delete(b.entries, tokenHash)
		return false, nil
	}
	return true, nil
}

func (b *MemoryBlacklist) Sweep() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	now := b.now()
	removed := 0
	for hash, exp := range b.entries {
		if now.After(exp) {
			delete(b.entries, hash)
			removed++
		}
	}
	return removed
}

// RedisBlacklist stores revoked hashes with a TTL so Redis expires them itself.
type RedisBlacklist struct {
	client *redis.Client
}

func NewRedisBlacklist(client *redis.Client) *RedisBlacklist {
	return &RedisBlacklist{client: client}
}

func (b *RedisBlacklist) Revoke(ctx context.Context, tokenHash string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return b.client.Set(ctx, BlacklistPrefix+tokenHash, 1, ttl).Err()
}

func (b *RedisBlacklist) IsRevoked(ctx context.Context, tokenHash string) (bool, error) {
	n, err := b.client.Exists(ctx, BlacklistPrefix+tokenHash).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (b *RedisBlacklist) Sweep() int { return 0 }

var (
	blacklist     TokenBlacklist
	blacklistOnce sync.Once
)

// GetBlacklist returns the process-wide blacklist, Redis-backed when the auth cache is up.
func GetBlacklist() TokenBlacklist {
	blacklistOnce.Do(func() {
		if client := GetAuthCacheClient(); client != nil {
			blacklist = NewRedisBlacklist(client)
			return
		}
		blacklist = NewMemoryBlacklist()
	})
	return blacklist
}
