package blockchain

import (
	"context"
	"errors"
	"math/big"
	"net/http"
	"testing"
	"time"

	"mayhouse/database/repository/memory"
	"mayhouse/models"
	"mayhouse/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedPrice float64

func (p fixedPrice) Price(context.Context) models.EthPrice {
	return models.EthPrice{EthPriceINR: float64(p), Currency: "INR", Source: models.PriceSourceLive, CacheTTLSeconds: 60}
}

type flatCost float64

func (c flatCost) CalculateCost(eventRunID string, seats int) (*models.BookingCost, error) {
	total := float64(c) * float64(seats)
	return &models.BookingCost{
		EventRunID:   eventRunID,
		SeatCount:    seats,
		PricePerSeat: float64(c),
		TotalPrice:   total,
		StakeAmount:  total * 0.2,
		TotalCost:    total + total*0.2,
	}, nil
}

type fakeChain struct {
	created    []string
	completed  []int64
	cancelled  []int64
	failCreate bool
}

func (f *fakeChain) CreateEventRun(_ context.Context, id string, priceWei *big.Int, _ int, _ time.Time) (*ChainReceipt, error) {
	if f.failCreate {
		return nil, errors.New("reverted")
	}
	f.created = append(f.created, id+":"+priceWei.String())
	return &ChainReceipt{ChainID: 7, TxHash: "0xabc"}, nil
}

func (f *fakeChain) CompleteEvent(_ context.Context, _ int64, attended []int64) (string, error) {
	f.completed = attended
	return "0xdone", nil
}

func (f *fakeChain) CancelEvent(_ context.Context, id int64) (string, error) {
	f.cancelled = append(f.cancelled, id)
	return "0xcancel", nil
}

func (f *fakeChain) GetEventRun(_ context.Context, id int64) (*models.OnChainEventRun, error) {
	return &models.OnChainEventRun{ID: id, MaxSeats: 4, Status: 0}, nil
}

func (f *fakeChain) CalculateBookingCost(_ context.Context, _ int64, _ int) (*models.OnChainCost, error) {
	return &models.OnChainCost{Payment: "10", Stake: "2", Total: "12"}, nil
}

func (f *fakeChain) HostEvents(context.Context, string) []int64   { return []int64{1, 2} }
func (f *fakeChain) UserBookings(context.Context, string) []int64 { return []int64{} }

func statusOf(err error) int {
	var appErr *utils.AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return 0
}

func int64Ptr(v int64) *int64 { return &v }

func newService(chain ChainClient) (*DefaultBlockchainService, *memory.EventRuns, *memory.Bookings) {
	runs := memory.NewEventRuns(
		models.EventRun{ID: "run-1", HostID: "host-1", ExperienceID: "exp-1", MaxCapacity: 4, Status: models.EventRunSoldOut, StartDatetime: time.Now().Add(-4 * time.Hour)},
		models.EventRun{ID: "run-2", HostID: "host-1", ExperienceID: "exp-1", MaxCapacity: 2, Status: models.EventRunScheduled, StartDatetime: time.Now().Add(48 * time.Hour)},
		models.EventRun{ID: "run-3", HostID: "host-1", ExperienceID: "exp-1", MaxCapacity: 2, Status: models.EventRunCancelled, BlockchainEventRunID: int64Ptr(3)},
	)
	bookings := memory.NewBookings(
		models.Booking{ID: "b-1", EventRunID: "run-1", TravelerID: "t-1", TravelerCount: 1, BookingStatus: models.BookingConfirmed},
		models.Booking{ID: "b-2", EventRunID: "run-1", TravelerID: "t-2", TravelerCount: 2, BookingStatus: models.BookingConfirmed},
		models.Booking{ID: "b-3", EventRunID: "run-1", TravelerID: "t-3", TravelerCount: 1, BookingStatus: models.BookingCancelled},
	)
	svc := &DefaultBlockchainService{
		Runs:     runs,
		Bookings: bookings,
		Costs:    flatCost(1000),
		Prices:   fixedPrice(200000),
		Chain:    chain,
	}
	return svc, runs, bookings
}

func TestCompleteEvent(t *testing.T) {
	ctx := context.Background()
	chain := &fakeChain{}
	svc, runs, bookings := newService(chain)
	require.NoError(t, runs.UpdateFields("run-1", map[string]any{"blockchain_event_run_id": int64(9)}))

	_, err := svc.CompleteEvent(ctx, "someone-else", models.RoleHost, models.CompleteEventRequest{EventRunID: "run-1"})
	assert.Equal(t, http.StatusForbidden, statusOf(err))

	_, err = svc.CompleteEvent(ctx, "host-1", models.RoleHost, models.CompleteEventRequest{EventRunID: "missing"})
	assert.Equal(t, http.StatusNotFound, statusOf(err))

	resp, err := svc.CompleteEvent(ctx, "host-1", models.RoleHost, models.CompleteEventRequest{
		EventRunID:         "run-1",
		AttendedBookingIDs: []string{"b-2"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.AttendedCount)
	assert.Equal(t, 1, resp.NoShowCount)
	assert.Equal(t, "Event completed successfully. 1 attended, 1 no-shows.", resp.Message)

	b1, _ := bookings.GetByID("b-1")
	b2, _ := bookings.GetByID("b-2")
	b3, _ := bookings.GetByID("b-3")
	assert.Equal(t, models.BookingNoShow, b1.BookingStatus)
	assert.Equal(t, models.BookingExperienceCompleted, b2.BookingStatus)
	assert.Equal(t, models.BookingCancelled, b3.BookingStatus)

	run, _ := runs.GetByID("run-1")
	assert.Equal(t, models.EventRunCompleted, run.Status)
	assert.NotNil(t, run.CompletedAt)
	assert.Equal(t, []int64{1}, chain.completed)
}

func TestCompleteEventAdminBypass(t *testing.T) {
	svc, _, _ := newService(nil)
	resp, err := svc.CompleteEvent(context.Background(), "admin-1", models.RoleAdmin, models.CompleteEventRequest{EventRunID: "run-1"})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.AttendedCount)
	assert.Equal(t, 2, resp.NoShowCount)
}

func TestCalculateBookingCost(t *testing.T) {
	svc, runs, _ := newService(&fakeChain{})
	resp, err := svc.CalculateBookingCost(context.Background(), "run-2", 2)
	require.NoError(t, err)
	assert.Equal(t, 2400.0, resp.TotalCost)
	assert.Equal(t, "12000000000000000", resp.TotalCostWei)
	assert.Nil(t, resp.OnChain)

	require.NoError(t, runs.UpdateFields("run-2", map[string]any{"blockchain_event_run_id": int64(4)}))
	resp, err = svc.CalculateBookingCost(context.Background(), "run-2", 2)
	require.NoError(t, err)
	require.NotNil(t, resp.OnChain)
	assert.Equal(t, "12", resp.OnChain.Total)
}

func TestConversions(t *testing.T) {
	svc, _, _ := newService(nil)
	ctx := context.Background()

	conv, err := svc.INRToWei(ctx, 2000)
	require.NoError(t, err)
	assert.Equal(t, "10000000000000000", conv.AmountWei)
	assert.InDelta(t, 0.01, conv.AmountETH, 1e-12)

	back, err := svc.WeiToINR(ctx, conv.AmountWei)
	require.NoError(t, err)
	assert.Equal(t, 2000.0, back.AmountINR)

	_, err = svc.WeiToINR(ctx, "twelve")
	assert.Equal(t, http.StatusBadRequest, statusOf(err))
	_, err = svc.INRToWei(ctx, -1)
	assert.Equal(t, http.StatusBadRequest, statusOf(err))
}

func TestStatus(t *testing.T) {
	svc, _, _ := newService(&fakeChain{})
	resp, err := svc.Status(context.Background(), "run-3")
	require.NoError(t, err)
	require.NotNil(t, resp.BlockchainEventRunID)
	assert.Equal(t, int64(3), *resp.BlockchainEventRunID)
	require.NotNil(t, resp.OnChainData)
	assert.Equal(t, int64(3), resp.OnChainData.ID)

	_, err = svc.Status(context.Background(), "nope")
	assert.Equal(t, http.StatusNotFound, statusOf(err))
}

func TestChainDisabled(t *testing.T) {
	svc, _, _ := newService(nil)
	_, err := svc.HostEvents(context.Background(), "0x0000000000000000000000000000000000000001")
	assert.Equal(t, http.StatusServiceUnavailable, statusOf(err))
	assert.Equal(t, http.StatusServiceUnavailable, statusOf(svc.SyncEventRun(context.Background(), "run-2")))
}

func TestHostEvents(t *testing.T) {
	svc, _, _ := newService(&fakeChain{})
	list, err := svc.HostEvents(context.Background(), "0x0000000000000000000000000000000000000001")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, list.IDs)

	_, err = svc.UserBookings(context.Background(), "not-an-address")
	assert.Equal(t, http.StatusBadRequest, statusOf(err))
}

func TestSyncEventRun(t *testing.T) {
	ctx := context.Background()
	chain := &fakeChain{}
	svc, runs, _ := newService(chain)

	require.NoError(t, svc.SyncEventRun(ctx, "run-2"))
	run, _ := runs.GetByID("run-2")
	require.NotNil(t, run.BlockchainEventRunID)
	assert.Equal(t, int64(7), *run.BlockchainEventRunID)
	assert.Equal(t, "0xabc", run.BlockchainTxHash)
	assert.Equal(t, models.ChainStatusConfirmed, run.BlockchainStatus)
	assert.Equal(t, []string{"run-2:5000000000000000"}, chain.created)

	require.NoError(t, svc.SyncEventRun(ctx, "run-3"))
	assert.Equal(t, []int64{3}, chain.cancelled)
}

func TestSyncEventRunFailure(t *testing.T) {
	svc, runs, _ := newService(&fakeChain{failCreate: true})
	assert.Error(t, svc.SyncEventRun(context.Background(), "run-2"))
	run, _ := runs.GetByID("run-2")
	assert.Equal(t, models.ChainStatusFailed, run.BlockchainStatus)
	assert.Nil(t, run.BlockchainEventRunID)
}
