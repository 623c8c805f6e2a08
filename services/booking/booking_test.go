package booking

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"mayhouse/database/repository/memory"
	"mayhouse/models"
	"mayhouse/services/eventrun"
	"mayhouse/services/payment"
	"mayhouse/services/tasks"
	"mayhouse/utils"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type declining struct{}

func (declining) Charge(context.Context, models.PaymentRequest) (*models.Payment, error) {
	return nil, fmt.Errorf("%w: card_declined", payment.ErrDeclined)
}

type countingQueue struct{ n int }

func (q *countingQueue) Enqueue(context.Context, *asynq.Task, ...asynq.Option) error {
	q.n++
	return nil
}

func statusOf(err error) int {
	var appErr *utils.AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return 0
}

func newService(runs ...models.EventRun) (*DefaultBookingService, *memory.EventRuns, *countingQueue) {
	runRepo := memory.NewEventRuns(runs...)
	exps := memory.NewExperiences(models.Experience{ID: "exp-1", Title: "Colaba food walk", ExperienceDomain: "food", PriceINR: 1000, Status: models.ExperienceApproved})
	bookings := memory.NewBookings()
	q := &countingQueue{}
	spots := &eventrun.DefaultEventRunService{Runs: runRepo, Experiences: exps, Bookings: bookings, Users: memory.NewUsers(), Tasks: tasks.NoopEnqueuer{}}
	return &DefaultBookingService{
		Runs:        runRepo,
		Experiences: exps,
		Bookings:    bookings,
		Spots:       spots,
		Payments:    &payment.DummyProcessor{},
		Tasks:       q,
	}, runRepo, q
}

func run(id, status string, capacity int) models.EventRun {
	start := time.Now().Add(48 * time.Hour)
	return models.EventRun{ID: id, ExperienceID: "exp-1", HostID: "host-1", StartDatetime: start, EndDatetime: start.Add(2 * time.Hour), MaxCapacity: capacity, Status: status}
}

func TestComputeCost(t *testing.T) {
	c := ComputeCost(1000, 3)
	assert.Equal(t, 3000.0, c.TotalPrice)
	assert.Equal(t, 600.0, c.StakeAmount)
	assert.Equal(t, 3600.0, c.TotalCost)
	assert.Equal(t, 150.0, c.PlatformFee)
	assert.Equal(t, 2850.0, c.HostEarnings)

	c = ComputeCost(333.33, 1)
	assert.Equal(t, 66.67, c.StakeAmount)
	assert.Equal(t, 16.67, c.PlatformFee)
}

func TestCalculateCostUsesSpecialPricing(t *testing.T) {
	special := 750.0
	r := run("r1", models.EventRunScheduled, 4)
	r.SpecialPricingINR = &special
	svc, _, _ := newService(r)

	cost, err := svc.CalculateCost("r1", 2)
	require.NoError(t, err)
	assert.Equal(t, "r1", cost.EventRunID)
	assert.Equal(t, 750.0, cost.PricePerSeat)
	assert.Equal(t, 1800.0, cost.TotalCost)

	_, err = svc.CalculateCost("missing", 1)
	assert.Equal(t, http.StatusNotFound, statusOf(err))
}

func TestZeroSpecialPricingFallsBackToExperiencePrice(t *testing.T) {
	zero := 0.0
	r := run("r1", models.EventRunScheduled, 4)
	r.SpecialPricingINR = &zero
	svc, _, _ := newService(r)

	cost, err := svc.CalculateCost("r1", 2)
	require.NoError(t, err)
	assert.Equal(t, 1000.0, cost.PricePerSeat)
	assert.Equal(t, 2400.0, cost.TotalCost)

	resp, err := svc.CreateBooking(context.Background(), "trav-1", models.BookingCreate{EventRunID: "r1", SeatCount: 1})
	require.NoError(t, err)
	assert.Equal(t, 1200.0, resp.TotalAmountINR)
}

func TestCreateBookingUpdatesRunStatus(t *testing.T) {
	ctx := context.Background()
	svc, runs, q := newService(run("r1", models.EventRunScheduled, 4))

	resp, err := svc.CreateBooking(ctx, "trav-1", models.BookingCreate{EventRunID: "r1", SeatCount: 3})
	require.NoError(t, err)
	assert.Equal(t, 3600.0, resp.TotalAmountINR)
	assert.Equal(t, models.BookingConfirmed, resp.BookingStatus)
	require.NotNil(t, resp.Payment)
	assert.Equal(t, "dummy", resp.Payment.PaymentMethod)
	assert.Equal(t, 1, q.n)

	r, _ := runs.GetByID("r1")
	assert.Equal(t, models.EventRunLowSeats, r.Status)

	_, err = svc.CreateBooking(ctx, "trav-2", models.BookingCreate{EventRunID: "r1", SeatCount: 2})
	require.Equal(t, http.StatusBadRequest, statusOf(err))
	assert.Contains(t, err.Error(), "Not enough seats available. Available: 1, Requested: 2")

	_, err = svc.CreateBooking(ctx, "trav-2", models.BookingCreate{EventRunID: "r1", SeatCount: 1})
	require.NoError(t, err)
	r, _ = runs.GetByID("r1")
	assert.Equal(t, models.EventRunSoldOut, r.Status)

	_, err = svc.CreateBooking(ctx, "trav-3", models.BookingCreate{EventRunID: "r1", SeatCount: 1})
	require.Equal(t, http.StatusBadRequest, statusOf(err))
	assert.Contains(t, err.Error(), "Event run is not available for booking. Status: sold_out")
}

func TestCreateBookingPaymentDeclined(t *testing.T) {
	svc, _, _ := newService(run("r1", models.EventRunScheduled, 4))
	svc.Payments = declining{}

	_, err := svc.CreateBooking(context.Background(), "trav-1", models.BookingCreate{EventRunID: "r1", SeatCount: 1})
	assert.Equal(t, http.StatusPaymentRequired, statusOf(err))

	mine, err := svc.ListMyBookings("trav-1")
	require.NoError(t, err)
	assert.Empty(t, mine)
}

func TestMyBookingsAndAccess(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(run("r1", models.EventRunScheduled, 4))
	created, err := svc.CreateBooking(ctx, "trav-1", models.BookingCreate{EventRunID: "r1", SeatCount: 1})
	require.NoError(t, err)

	mine, err := svc.ListMyBookings("trav-1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.NotNil(t, mine[0].EventRun)
	assert.Equal(t, "Colaba food walk", mine[0].EventRun.Experience.Title)

	_, err = svc.GetBooking("trav-1", models.RoleUser, created.ID)
	assert.NoError(t, err)
	_, err = svc.GetBooking("trav-2", models.RoleUser, created.ID)
	assert.Equal(t, http.StatusForbidden, statusOf(err))
	_, err = svc.GetBooking("admin", models.RoleAdmin, created.ID)
	assert.NoError(t, err)
	_, err = svc.GetBooking("trav-1", models.RoleUser, "nope")
	assert.Equal(t, http.StatusNotFound, statusOf(err))
}
