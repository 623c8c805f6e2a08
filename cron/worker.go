package cron

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	bookingRepo "mayhouse/database/repository/booking"
	eventRunRepo "mayhouse/database/repository/eventRun"
	experienceRepo "mayhouse/database/repository/experience"
	userRepo "mayhouse/database/repository/user"
	"mayhouse/metrics"
	"mayhouse/models"
	"mayhouse/services/notification"
	"mayhouse/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// ChainSyncer mirrors an event run on chain.
type ChainSyncer interface {
	SyncEventRun(ctx context.Context, eventRunID string) error
}

// Worker holds what the task handlers need.
type Worker struct {
	Bookings     bookingRepo.BookingRepository
	Runs         eventRunRepo.EventRunRepository
	Experiences  experienceRepo.ExperienceRepository
	Users        userRepo.UserRepository
	Notification notification.NotificationService
	Chain        ChainSyncer
	Logger       *zap.Logger
}

// Mux routes task types to the worker's handlers.
func (w *Worker) Mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeBookingNotify, timed(tasks.TypeBookingNotify, w.handleBookingNotify))
	mux.HandleFunc(tasks.TypeChainSyncEventRun, timed(tasks.TypeChainSyncEventRun, w.handleChainSync))
	return mux
}

func timed(job string, h asynq.HandlerFunc) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		start := time.Now()
		err := h(ctx, task)
		metrics.RecordJob(job, time.Since(start), err)
		return err
	}
}

// InitWorker runs the asynq server in the background and returns it so the caller can shut it down.
func InitWorker(opt asynq.RedisConnOpt, w *Worker) *asynq.Server {
	srv := asynq.NewServer(
		opt,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				tasks.QueueCritical: 6,
				tasks.QueueDefault:  3,
			},
		},
	)
	mux := w.Mux()

	// Start async worker with retry logic
	go func() {
		w.Logger.Info("Starting async worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Run(mux)
			if err == nil || errors.Is(err, asynq.ErrServerClosed) {
				return
			}
			w.Logger.Error("Worker failed to start", zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))
			if attempts == maxAttempts {
				w.Logger.Error("Max worker start attempts reached; background tasks disabled")
				return
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()
	return srv
}

func (w *Worker) handleBookingNotify(ctx context.Context, task *asynq.Task) error {
	var p tasks.BookingNotifyPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return fmt.Errorf("invalid payload: %v: %w", err, asynq.SkipRetry)
	}

	b, err := w.Bookings.GetByID(p.BookingID)
	if err != nil {
		return err
	}
	if b == nil {
		w.Logger.Warn("Booking vanished before notify", zap.String("bookingID", p.BookingID))
		return nil
	}
	run, err := w.Runs.GetByID(b.EventRunID)
	if err != nil {
		return err
	}
	if run == nil {
		return nil
	}
	exp, err := w.Experiences.GetByID(run.ExperienceID)
	if err != nil {
		return err
	}
	title := "your experience"
	if exp != nil {
		title = exp.Title
	}
	when := run.StartDatetime.Format("Mon 2 Jan, 15:04")
	data := map[string]string{"booking_id": b.ID, "event_run_id": run.ID}

	pushes := []struct {
		userID string
		n      models.Notification
	}{
		{run.HostID, models.Notification{
			Type:  models.NotificationBookingReceived,
			Title: "New booking",
			Body:  fmt.Sprintf("%d traveler(s) booked %s on %s", b.TravelerCount, title, when),
			Data:  data,
		}},
		{b.TravelerID, models.Notification{
			Type:  models.NotificationBookingConfirmed,
			Title: "Booking confirmed",
			Body:  fmt.Sprintf("You're booked for %s on %s", title, when),
			Data:  data,
		}},
	}

	var sendErr error
	for _, push := range pushes {
		u, err := w.Users.GetByID(push.userID)
		if err != nil {
			return err
		}
		if u == nil {
			continue
		}
		n := push.n
		n.UserID = u.ID
		n.Token = u.FCMToken
		if err := w.Notification.Push(ctx, n); err != nil {
			if errors.Is(err, notification.ErrNoToken) {
				w.Logger.Info("Skipping push, no device token", zap.String("userID", u.ID), zap.String("type", n.Type))
				continue
			}
			sendErr = errors.Join(sendErr, err)
		}
	}
	return sendErr
}

func (w *Worker) handleChainSync(ctx context.Context, task *asynq.Task) error {
	var p tasks.ChainSyncPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return fmt.Errorf("invalid payload: %v: %w", err, asynq.SkipRetry)
	}
	if w.Chain == nil {
		w.Logger.Warn("Chain sync requested but chain is disabled", zap.String("eventRunID", p.EventRunID))
		return nil
	}
	if err := w.Chain.SyncEventRun(ctx, p.EventRunID); err != nil {
		w.Logger.Error("Chain sync failed", zap.String("eventRunID", p.EventRunID), zap.Error(err))
		return err
	}
	return nil
}
