package wallet

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	noncePrefix = "wallet:nonce:"
	// NonceTTL is how long a login challenge stays valid.
	NonceTTL = 300 * time.Second
)

// Challenge is a pending wallet login challenge.
type Challenge struct {
	Nonce     string    `json:"nonce"`
	Message   string    `json:"message"`
	Timestamp int64     `json:"timestamp"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NonceStore keeps one challenge per wallet address.
type NonceStore interface {
	Put(ctx context.Context, address string, c Challenge) error
	// Take returns and deletes the challenge; nil when there is none.
	Take(ctx context.Context, address string) (*Challenge, error)
}

// NewNonce returns 32 random bytes as hex.
func NewNonce() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// ChallengeMessage is the text a wallet signs to log in.
func ChallengeMessage(nonce string, ts int64) string {
	return fmt.Sprintf("Sign this message to authenticate with Mayhouse.\n\nNonce: %s\nTimestamp: %d", nonce, ts)
}

// RedisNonceStore stores challenges in Redis with a TTL.
type RedisNonceStore struct {
	client *redis.Client
}

func NewRedisNonceStore(client *redis.Client) *RedisNonceStore {
	return &RedisNonceStore{client: client}
}

func (s *RedisNonceStore) Put(ctx context.Context, address string, c Challenge) error {
	b, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, noncePrefix+strings.ToLower(address), b, time.Until(c.ExpiresAt)).Err()
}

func (s *RedisNonceStore) Take(ctx context.Context, address string) (*Challenge, error) {
	data, err := s.client.GetDel(ctx, noncePrefix+strings.ToLower(address)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var c Challenge
	if err := json.Unmarshal([]byte(data), &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// MemoryNonceStore is the single-process fallback used without Redis.
type MemoryNonceStore struct {
	mu    sync.Mutex
	items map[string]Challenge
}

func NewMemoryNonceStore() *MemoryNonceStore {
	return &MemoryNonceStore{items: map[string]Challenge{}}
}

func (s *MemoryNonceStore) Put(_ context.Context, address string, c Challenge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[strings.ToLower(address)] = c
	return nil
}

func (s *MemoryNonceStore) Take(_ context.Context, address string) (*Challenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(address)
	c, ok := s.items[key]
	if !ok {
		return nil, nil
	}
	delete(s.items, key)
	return &c, nil
}
