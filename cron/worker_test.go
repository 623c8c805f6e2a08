package cron

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"mayhouse/database/repository/memory"
	"mayhouse/models"
	"mayhouse/services/notification"
	"mayhouse/services/tasks"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingNotifier struct {
	mu   sync.Mutex
	sent []models.Notification
	fail error
}

func (n *recordingNotifier) Push(_ context.Context, msg models.Notification) error {
	if msg.Token == "" {
		return fmt.Errorf("push to user %s: %w", msg.UserID, notification.ErrNoToken)
	}
	if n.fail != nil {
		return n.fail
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
	return nil
}

type stubSyncer struct {
	synced []string
	err    error
}

func (s *stubSyncer) SyncEventRun(_ context.Context, eventRunID string) error {
	s.synced = append(s.synced, eventRunID)
	return s.err
}

func newTestWorker(travelerToken string, n notification.NotificationService) *Worker {
	start := time.Date(2030, 3, 14, 9, 30, 0, 0, time.UTC)
	return &Worker{
		Bookings: memory.NewBookings(models.Booking{
			ID: "bk-1", EventRunID: "run-1", TravelerID: "t-1", TravelerCount: 2, BookingStatus: models.BookingConfirmed,
		}),
		Runs: memory.NewEventRuns(models.EventRun{
			ID: "run-1", ExperienceID: "exp-1", HostID: "host-1", StartDatetime: start, EndDatetime: start.Add(2 * time.Hour),
			MaxCapacity: 4, Status: models.EventRunScheduled,
		}),
		Experiences: memory.NewExperiences(models.Experience{ID: "exp-1", HostID: "host-1", Title: "Chor Bazaar at dawn"}),
		Users: memory.NewUsers(
			models.User{ID: "host-1", FullName: "Host", Role: models.RoleHost, FCMToken: "host-token"},
			models.User{ID: "t-1", FullName: "Traveler", Role: models.RoleUser, FCMToken: travelerToken},
		),
		Notification: n,
		Logger:       zap.NewNop(),
	}
}

func notifyTask(t *testing.T, bookingID string) *asynq.Task {
	task, _, err := tasks.NewBookingNotifyTask(bookingID)
	require.NoError(t, err)
	return task
}

func TestBookingNotifyPushesHostAndTraveler(t *testing.T) {
	n := &recordingNotifier{}
	w := newTestWorker("traveler-token", n)

	require.NoError(t, w.handleBookingNotify(context.Background(), notifyTask(t, "bk-1")))
	require.Len(t, n.sent, 2)

	host, traveler := n.sent[0], n.sent[1]
	assert.Equal(t, "host-1", host.UserID)
	assert.Equal(t, models.NotificationBookingReceived, host.Type)
	assert.Contains(t, host.Body, "2 traveler(s) booked Chor Bazaar at dawn")
	assert.Equal(t, "t-1", traveler.UserID)
	assert.Equal(t, models.NotificationBookingConfirmed, traveler.Type)
	assert.Equal(t, "bk-1", traveler.Data["booking_id"])
}

func TestBookingNotifySkipsUsersWithoutToken(t *testing.T) {
	n := &recordingNotifier{}
	w := newTestWorker("", n)

	require.NoError(t, w.handleBookingNotify(context.Background(), notifyTask(t, "bk-1")))
	require.Len(t, n.sent, 1)
	assert.Equal(t, "host-1", n.sent[0].UserID)
}

func TestBookingNotifyErrors(t *testing.T) {
	w := newTestWorker("traveler-token", &recordingNotifier{fail: errors.New("fcm down")})
	assert.Error(t, w.handleBookingNotify(context.Background(), notifyTask(t, "bk-1")))

	// Unknown bookings are dropped without a retry.
	assert.NoError(t, w.handleBookingNotify(context.Background(), notifyTask(t, "missing")))

	err := w.handleBookingNotify(context.Background(), asynq.NewTask(tasks.TypeBookingNotify, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestChainSync(t *testing.T) {
	task, _, err := tasks.NewChainSyncTask("run-1")
	require.NoError(t, err)

	w := newTestWorker("", &recordingNotifier{})
	assert.NoError(t, w.handleChainSync(context.Background(), task))

	syncer := &stubSyncer{}
	w.Chain = syncer
	require.NoError(t, w.handleChainSync(context.Background(), task))
	assert.Equal(t, []string{"run-1"}, syncer.synced)

	syncer.err = errors.New("reverted")
	assert.Error(t, w.handleChainSync(context.Background(), task))
}

func TestMuxRoutesTaskTypes(t *testing.T) {
	n := &recordingNotifier{}
	w := newTestWorker("traveler-token", n)

	require.NoError(t, w.Mux().ProcessTask(context.Background(), notifyTask(t, "bk-1")))
	assert.Len(t, n.sent, 2)
}
