package design

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"mayhouse/models"

	"github.com/go-redis/redis/v8"
)

const (
	chatHistoryPrefix = "design:chat:"
	ChatHistoryTTL    = 24 * time.Hour
	// ChatHistoryLimit is how many recent messages are kept and replayed.
	ChatHistoryLimit = 15
)

func trimHistory(msgs []models.ChatMessage) []models.ChatMessage {
	if len(msgs) > ChatHistoryLimit {
		return msgs[len(msgs)-ChatHistoryLimit:]
	}
	return msgs
}

// RedisChatHistory stores each user's conversation as one JSON value with a sliding TTL.
type RedisChatHistory struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisChatHistory(client *redis.Client, ttl time.Duration) *RedisChatHistory {
	return &RedisChatHistory{client: client, ttl: ttl}
}

func (h *RedisChatHistory) Load(ctx context.Context, userID string) ([]models.ChatMessage, error) {
	data, err := h.client.Get(ctx, chatHistoryPrefix+userID).Result()
	if err == redis.Nil {
		return []models.ChatMessage{}, nil
	}
	if err != nil {
		return nil, err
	}
	var msgs []models.ChatMessage
	if err := json.Unmarshal([]byte(data), &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

func (h *RedisChatHistory) Append(ctx context.Context, userID string, msgs ...models.ChatMessage) error {
	current, err := h.Load(ctx, userID)
	if err != nil {
		return err
	}
	b, err := json.Marshal(trimHistory(append(current, msgs...)))
	if err != nil {
		return err
	}
	return h.client.Set(ctx, chatHistoryPrefix+userID, b, h.ttl).Err()
}

// MemoryChatHistory is used when Redis is down and in tests.
type MemoryChatHistory struct {
	mu    sync.Mutex
	items map[string][]models.ChatMessage
}

func NewMemoryChatHistory() *MemoryChatHistory {
	return &MemoryChatHistory{items: map[string][]models.ChatMessage{}}
}

func (h *MemoryChatHistory) Load(_ context.Context, userID string) ([]models.ChatMessage, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]models.ChatMessage{}, h.items[userID]...), nil
}

func (h *MemoryChatHistory) Append(_ context.Context, userID string, msgs ...models.ChatMessage) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.items[userID] = trimHistory(append(h.items[userID], msgs...))
	return nil
}
