package tasks

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	TypeBookingNotify     = "booking:notify"
	TypeChainSyncEventRun = "chain:sync_event_run"

	QueueCritical = "critical"
	QueueDefault  = "default"
)

type BookingNotifyPayload struct {
	BookingID string `json:"booking_id"`
}

type ChainSyncPayload struct {
	EventRunID string `json:"event_run_id"`
}

func NewBookingNotifyTask(bookingID string) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(BookingNotifyPayload{BookingID: bookingID})
	if err != nil {
		return nil, nil, err
	}
	opts := []asynq.Option{asynq.Queue(QueueDefault), asynq.MaxRetry(5), asynq.Timeout(30 * time.Second)}
	return asynq.NewTask(TypeBookingNotify, b), opts, nil
}

func NewChainSyncTask(eventRunID string) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(ChainSyncPayload{EventRunID: eventRunID})
	if err != nil {
		return nil, nil, err
	}
	opts := []asynq.Option{asynq.Queue(QueueCritical), asynq.MaxRetry(3), asynq.Timeout(3 * time.Minute)}
	return asynq.NewTask(TypeChainSyncEventRun, b), opts, nil
}

// Enqueuer hands tasks to the background worker.
type Enqueuer interface {
	Enqueue(ctx context.Context, task *asynq.Task, opts ...asynq.Option) error
}

// AsynqEnqueuer enqueues onto Redis through an asynq client.
type AsynqEnqueuer struct {
	client *asynq.Client
}

func NewAsynqEnqueuer(opt asynq.RedisConnOpt) *AsynqEnqueuer {
	return &AsynqEnqueuer{client: asynq.NewClient(opt)}
}

func (e *AsynqEnqueuer) Enqueue(ctx context.Context, task *asynq.Task, opts ...asynq.Option) error {
	_, err := e.client.EnqueueContext(ctx, task, opts...)
	return err
}

func (e *AsynqEnqueuer) Close() error {
	return e.client.Close()
}

// NoopEnqueuer drops tasks; used when no queue is configured.
type NoopEnqueuer struct{}

func (NoopEnqueuer) Enqueue(context.Context, *asynq.Task, ...asynq.Option) error { return nil }
