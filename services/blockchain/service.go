package blockchain

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingRepo "mayhouse/database/repository/booking"
	eventRunRepo "mayhouse/database/repository/eventRun"
	"mayhouse/models"
	"mayhouse/utils"

	"go.uber.org/zap"
)

// CostCalculator produces the INR cost breakdown of a booking.
type CostCalculator interface {
	CalculateCost(eventRunID string, seatCount int) (*models.BookingCost, error)
}

// PriceSource quotes ETH in INR.
type PriceSource interface {
	Price(ctx context.Context) models.EthPrice
}

type BlockchainService interface {
	CalculateBookingCost(ctx context.Context, eventRunID string, seatCount int) (*models.ChainCostResponse, error)
	CompleteEvent(ctx context.Context, userID, role string, req models.CompleteEventRequest) (*models.CompleteEventResponse, error)
	Status(ctx context.Context, eventRunID string) (*models.ChainStatusResponse, error)
	INRToWei(ctx context.Context, amountINR float64) (*models.Conversion, error)
	WeiToINR(ctx context.Context, amountWei string) (*models.Conversion, error)
	EthPrice(ctx context.Context) models.EthPrice
	HostEvents(ctx context.Context, address string) (*models.ChainEventList, error)
	UserBookings(ctx context.Context, address string) (*models.ChainEventList, error)
	SyncEventRun(ctx context.Context, eventRunID string) error
}

// DefaultBlockchainService keeps the INR ledger authoritative and mirrors it
// on chain when Chain is set.
type DefaultBlockchainService struct {
	Runs     eventRunRepo.EventRunRepository
	Bookings bookingRepo.BookingRepository
	Costs    CostCalculator
	Prices   PriceSource
	Chain    ChainClient
}

func (s *DefaultBlockchainService) chainDisabled() *utils.AppError {
	return utils.ErrUnavailable("Chain disabled")
}

func (s *DefaultBlockchainService) CalculateBookingCost(ctx context.Context, eventRunID string, seatCount int) (*models.ChainCostResponse, error) {
	cost, err := s.Costs.CalculateCost(eventRunID, seatCount)
	if err != nil {
		return nil, err
	}
	price := s.Prices.Price(ctx)
	wei, err := INRToWei(cost.TotalCost, price.EthPriceINR)
	if err != nil {
		return nil, utils.ErrInternal(err, "Failed to convert cost to Wei")
	}
	resp := &models.ChainCostResponse{
		BookingCost:  *cost,
		TotalCostWei: wei.String(),
		EthPriceINR:  price.EthPriceINR,
	}

	if s.Chain != nil {
		run, err := s.Runs.GetByID(eventRunID)
		if err == nil && run != nil && run.BlockchainEventRunID != nil {
			onChain, err := s.Chain.CalculateBookingCost(ctx, *run.BlockchainEventRunID, seatCount)
			if err != nil {
				utils.GetLogger().Warn("On-chain cost lookup failed", zap.String("eventRunID", eventRunID), zap.Error(err))
			} else {
				resp.OnChain = onChain
			}
		}
	}
	return resp, nil
}

func (s *DefaultBlockchainService) CompleteEvent(ctx context.Context, userID, role string, req models.CompleteEventRequest) (*models.CompleteEventResponse, error) {
	logger := utils.GetLogger()

	run, err := s.Runs.GetByID(req.EventRunID)
	if err != nil {
		return nil, utils.ErrInternal(err, "Failed to load event run")
	}
	if run == nil {
		return nil, utils.ErrNotFound("Event run not found")
	}
	if role != models.RoleAdmin && run.HostID != userID {
		return nil, utils.ErrForbidden("Only the event host can complete this event")
	}

	confirmed, err := s.Bookings.ListByEventRuns([]string{run.ID}, models.BookingConfirmed)
	if err != nil {
		return nil, utils.ErrInternal(err, "Failed to load bookings")
	}

	attended := make(map[string]bool, len(req.AttendedBookingIDs))
	for _, id := range req.AttendedBookingIDs {
		attended[id] = true
	}

	var attendedIdx []int64
	attendedCount, noShowCount := 0, 0
	for i, b := range confirmed {
		status := models.BookingNoShow
		if attended[b.ID] {
			status = models.BookingExperienceCompleted
			attendedIdx = append(attendedIdx, int64(i))
			attendedCount++
		} else {
			noShowCount++
		}
		if err := s.Bookings.UpdateStatus(b.ID, status); err != nil {
			return nil, utils.ErrInternal(err, "Failed to update booking")
		}
	}

	now := time.Now()
	if err := s.Runs.UpdateFields(run.ID, map[string]any{
		"status":       models.EventRunCompleted,
		"completed_at": now,
	}); err != nil {
		return nil, utils.ErrInternal(err, "Failed to complete event run")
	}

	if s.Chain != nil && run.BlockchainEventRunID != nil {
		if tx, err := s.Chain.CompleteEvent(ctx, *run.BlockchainEventRunID, attendedIdx); err != nil {
			logger.Warn("On-chain completeEvent failed", zap.String("eventRunID", run.ID), zap.Error(err))
		} else {
			logger.Info("On-chain event completed", zap.String("eventRunID", run.ID), zap.String("tx", tx))
		}
	}

	logger.Info("Event run completed",
		zap.String("eventRunID", run.ID), zap.Int("attended", attendedCount), zap.Int("noShows", noShowCount))

	return &models.CompleteEventResponse{
		EventRunID:    run.ID,
		AttendedCount: attendedCount,
		NoShowCount:   noShowCount,
		Message:       fmt.Sprintf("Event completed successfully. %d attended, %d no-shows.", attendedCount, noShowCount),
	}, nil
}

func (s *DefaultBlockchainService) Status(ctx context.Context, eventRunID string) (*models.ChainStatusResponse, error) {
	run, err := s.Runs.GetByID(eventRunID)
	if err != nil {
		return nil, utils.ErrInternal(err, "Failed to load event run")
	}
	if run == nil {
		return nil, utils.ErrNotFound("Event run not found")
	}
	resp := &models.ChainStatusResponse{
		EventRunID:           run.ID,
		BlockchainEventRunID: run.BlockchainEventRunID,
		BlockchainTxHash:     run.BlockchainTxHash,
		BlockchainStatus:     run.BlockchainStatus,
	}
	if s.Chain != nil && run.BlockchainEventRunID != nil {
		data, err := s.Chain.GetEventRun(ctx, *run.BlockchainEventRunID)
		if err != nil {
			utils.GetLogger().Warn("On-chain event run lookup failed", zap.String("eventRunID", run.ID), zap.Error(err))
		} else {
			resp.OnChainData = data
		}
	}
	return resp, nil
}

func (s *DefaultBlockchainService) INRToWei(ctx context.Context, amountINR float64) (*models.Conversion, error) {
	if amountINR < 0 {
		return nil, utils.ErrBadRequest("amount_inr must not be negative")
	}
	price := s.Prices.Price(ctx).EthPriceINR
	wei, err := INRToWei(amountINR, price)
	if err != nil {
		return nil, utils.ErrBadRequest("Invalid amount: %v", err)
	}
	return &models.Conversion{
		AmountINR:   amountINR,
		AmountWei:   wei.String(),
		AmountETH:   WeiToETH(wei),
		EthPriceINR: price,
	}, nil
}

func (s *DefaultBlockchainService) WeiToINR(ctx context.Context, amountWei string) (*models.Conversion, error) {
	wei, err := ParseWei(amountWei)
	if err != nil {
		return nil, utils.ErrBadRequest("Invalid amount_wei")
	}
	price := s.Prices.Price(ctx).EthPriceINR
	inr, err := WeiToINR(wei, price)
	if err != nil {
		return nil, utils.ErrInternal(err, "Failed to convert Wei")
	}
	return &models.Conversion{
		AmountINR:   inr,
		AmountWei:   wei.String(),
		AmountETH:   WeiToETH(wei),
		EthPriceINR: price,
	}, nil
}

func (s *DefaultBlockchainService) EthPrice(ctx context.Context) models.EthPrice {
	return s.Prices.Price(ctx)
}

func (s *DefaultBlockchainService) HostEvents(ctx context.Context, address string) (*models.ChainEventList, error) {
	if s.Chain == nil {
		return nil, s.chainDisabled()
	}
	if !utils.IsEthAddress(address) {
		return nil, utils.ErrBadRequest("Invalid address")
	}
	return &models.ChainEventList{Address: address, IDs: s.Chain.HostEvents(ctx, address)}, nil
}

func (s *DefaultBlockchainService) UserBookings(ctx context.Context, address string) (*models.ChainEventList, error) {
	if s.Chain == nil {
		return nil, s.chainDisabled()
	}
	if !utils.IsEthAddress(address) {
		return nil, utils.ErrBadRequest("Invalid address")
	}
	return &models.ChainEventList{Address: address, IDs: s.Chain.UserBookings(ctx, address)}, nil
}

// SyncEventRun mirrors a run on chain: cancelled runs with a chain id are
// cancelled there, runs without one are created.
func (s *DefaultBlockchainService) SyncEventRun(ctx context.Context, eventRunID string) error {
	if s.Chain == nil {
		return s.chainDisabled()
	}
	logger := utils.GetLogger()

	run, err := s.Runs.GetByID(eventRunID)
	if err != nil {
		return fmt.Errorf("failed to load event run %s: %w", eventRunID, err)
	}
	if run == nil {
		return utils.ErrNotFound("Event run not found")
	}

	if run.BlockchainEventRunID != nil {
		if run.Status != models.EventRunCancelled {
			return nil
		}
		tx, err := s.Chain.CancelEvent(ctx, *run.BlockchainEventRunID)
		if err != nil {
			return fmt.Errorf("failed to cancel event run %s on chain: %w", run.ID, err)
		}
		logger.Info("Event run cancelled on chain", zap.String("eventRunID", run.ID), zap.String("tx", tx))
		return s.Runs.UpdateFields(run.ID, map[string]any{"blockchain_tx_hash": tx})
	}

	cost, err := s.Costs.CalculateCost(run.ID, 1)
	if err != nil {
		return err
	}
	priceWei, err := INRToWei(cost.PricePerSeat, s.Prices.Price(ctx).EthPriceINR)
	if err != nil {
		return fmt.Errorf("failed to convert price for %s: %w", run.ID, err)
	}

	receipt, err := s.Chain.CreateEventRun(ctx, run.ID, priceWei, run.MaxCapacity, run.StartDatetime)
	if err != nil {
		logger.Error("On-chain createEventRun failed", zap.String("eventRunID", run.ID), zap.Error(err))
		if uerr := s.Runs.UpdateFields(run.ID, map[string]any{"blockchain_status": models.ChainStatusFailed}); uerr != nil {
			return errors.Join(err, uerr)
		}
		return err
	}
	logger.Info("Event run created on chain",
		zap.String("eventRunID", run.ID), zap.Int64("chainID", receipt.ChainID), zap.String("tx", receipt.TxHash))
	return s.Runs.UpdateFields(run.ID, map[string]any{
		"blockchain_event_run_id": receipt.ChainID,
		"blockchain_tx_hash":      receipt.TxHash,
		"blockchain_status":       models.ChainStatusConfirmed,
	})
}
