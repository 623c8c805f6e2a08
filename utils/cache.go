package utils

import (
	"context"
	"time"

	"mayhouse/config"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

var (
	// CacheClient is the generic cache client (ETH price, chat history, OAuth state, wallet nonces).
	CacheClient *redis.Client
	// AuthCacheClient is the dedicated client for authorization caching and the token blacklist.
	AuthCacheClient *redis.Client
)

func newRedisClient(db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       db,
	})
}

func pingRedis(client *redis.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return client.Ping(ctx).Err()
}

// InitRedis connects both Redis clients. A client that cannot be reached is
// left nil so callers fall back to their in-process paths.
func InitRedis() {
	logger := GetLogger()

	cache := newRedisClient(config.AppConfig.RedisCacheDB)
	if err := pingRedis(cache); err != nil {
		logger.Warn("Redis cache unavailable", zap.Error(err))
	} else {
		CacheClient = cache
	}

	auth := newRedisClient(config.AppConfig.RedisAuthDB)
	if err := pingRedis(auth); err != nil {
		logger.Warn("Redis auth cache unavailable", zap.Error(err))
	} else {
		AuthCacheClient = auth
	}
}

// GetCacheClient returns the generic cache client, or nil when Redis is down.
func GetCacheClient() *redis.Client {
	return CacheClient
}

// GetAuthCacheClient returns the Redis client for authorization caching, or nil.
func GetAuthCacheClient() *redis.Client {
	return AuthCacheClient
}

// RedisClients lists the connected clients for the health monitor.
func RedisClients() []*redis.Client {
	var clients []*redis.Client
	for _, c := range []*redis.Client{CacheClient, AuthCacheClient} {
		if c != nil {
			clients = append(clients, c)
		}
	}
	return clients
}

// InvalidateAuthCache drops the cached role for a user after logout or a role change.
func InvalidateAuthCache(ctx context.Context, userID string) {
	cache := GetAuthCacheClient()
	if cache == nil {
		return
	}
	if err := cache.Del(ctx, AuthCachePrefix+userID).Err(); err != nil {
		GetLogger().Warn("Failed to clear auth cache", zap.String("userID", userID), zap.Error(err))
	}
}
