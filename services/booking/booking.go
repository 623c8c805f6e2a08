package booking

import (
	"context"
	"errors"
	"fmt"

	eventRunRepo "mayhouse/database/repository/eventRun"
	"mayhouse/models"
	"mayhouse/services/payment"
	"mayhouse/services/tasks"
	"mayhouse/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func bookable(status string) bool {
	for _, s := range models.BookableEventRunStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func (s *DefaultBookingService) CreateBooking(ctx context.Context, userID string, req models.BookingCreate) (*models.BookingResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	run, exp, err := s.loadRunAndExperience(req.EventRunID)
	if err != nil {
		return nil, err
	}
	if !bookable(run.Status) {
		return nil, utils.ErrBadRequest("Event run is not available for booking. Status: %s", run.Status)
	}
	available, err := s.Spots.AvailableSpots(run)
	if err != nil {
		return nil, err
	}
	if req.SeatCount > available {
		return nil, utils.ErrBadRequest("Not enough seats available. Available: %d, Requested: %d", available, req.SeatCount)
	}
	price := run.EffectivePrice(exp)
	if price <= 0 {
		return nil, utils.ErrBadRequest("Invalid pricing for this event run")
	}
	cost := ComputeCost(price, req.SeatCount)

	bookingID := uuid.New().String()
	pay, err := s.Payments.Charge(ctx, models.PaymentRequest{
		UserID:          userID,
		Amount:          cost.TotalCost,
		Currency:        "INR",
		PaymentMethodID: req.PaymentMethodID,
		Idempotency:     bookingID,
		Description:     fmt.Sprintf("Mayhouse booking %s", bookingID),
		Metadata:        map[string]string{"booking_id": bookingID, "event_run_id": run.ID},
	})
	if err != nil {
		if errors.Is(err, payment.ErrDeclined) {
			return nil, utils.ErrPaymentRequired("Payment failed: %v", err)
		}
		return nil, utils.ErrBadGateway("Payment processing failed").WithDetails(err.Error())
	}

	b := &models.Booking{
		ID:                     bookingID,
		EventRunID:             run.ID,
		TravelerID:             userID,
		TravelerCount:          req.SeatCount,
		BookingStatus:          models.BookingConfirmed,
		BookingType:            models.BookingTypeSolo,
		TotalExperienceCostINR: cost.TotalCost,
		StakeINR:               cost.StakeAmount,
		MayhousePlatformFeeINR: cost.PlatformFee,
		HostEarningsINR:        cost.HostEarnings,
		Payment:                pay,
	}
	if err := s.Bookings.Create(b); err != nil {
		utils.GetLogger().Error("Booking insert failed after payment",
			zap.String("paymentID", pay.PaymentID), zap.String("userID", userID), zap.Error(err))
		return nil, utils.ErrInternal(err, "Failed to create booking")
	}

	switch left := available - req.SeatCount; {
	case left == 0:
		s.setRunStatus(run.ID, models.EventRunSoldOut)
	case left <= 1:
		s.setRunStatus(run.ID, models.EventRunLowSeats)
	}

	task, opts, err := tasks.NewBookingNotifyTask(b.ID)
	if err == nil {
		err = s.Tasks.Enqueue(ctx, task, opts...)
	}
	if err != nil {
		utils.GetLogger().Warn("Failed to enqueue booking notification", zap.String("bookingID", b.ID), zap.Error(err))
	}

	utils.GetLogger().Info("Booking created",
		zap.String("bookingID", b.ID),
		zap.String("eventRunID", run.ID),
		zap.Int("seats", req.SeatCount))
	return toResponse(b), nil
}

func (s *DefaultBookingService) setRunStatus(eventRunID, status string) {
	if err := s.Runs.UpdateFields(eventRunID, map[string]any{"status": status}); err != nil {
		utils.GetLogger().Error("Failed to update event run status", zap.String("eventRunID", eventRunID), zap.Error(err))
	}
}

func toResponse(b *models.Booking) *models.BookingResponse {
	return &models.BookingResponse{
		ID:             b.ID,
		EventRunID:     b.EventRunID,
		UserID:         b.TravelerID,
		SeatCount:      b.TravelerCount,
		TotalAmountINR: b.TotalExperienceCostINR,
		BookingStatus:  b.BookingStatus,
		Payment:        b.Payment,
		CreatedAt:      b.CreatedAt,
	}
}

func (s *DefaultBookingService) ListMyBookings(userID string) ([]models.BookingWithEventRun, error) {
	bookings, err := s.Bookings.ListByTraveler(userID)
	if err != nil {
		return nil, utils.ErrInternal(err, "Failed to list bookings")
	}
	out := make([]models.BookingWithEventRun, 0, len(bookings))
	if len(bookings) == 0 {
		return out, nil
	}

	runIDs := make([]string, 0, len(bookings))
	for _, b := range bookings {
		runIDs = append(runIDs, b.EventRunID)
	}
	runs, err := s.runsByID(runIDs)
	if err != nil {
		return nil, err
	}
	expIDs := make([]string, 0, len(runs))
	for _, r := range runs {
		expIDs = append(expIDs, r.ExperienceID)
	}
	exps, err := s.Experiences.GetByIDs(expIDs)
	if err != nil {
		return nil, utils.ErrInternal(err, "Failed to load experiences")
	}

	for i := range bookings {
		item := models.BookingWithEventRun{BookingResponse: *toResponse(&bookings[i])}
		if run, ok := runs[bookings[i].EventRunID]; ok {
			ref := &models.BookingEventRunRef{
				ID:            run.ID,
				StartDatetime: run.StartDatetime,
				EndDatetime:   run.EndDatetime,
				Status:        run.Status,
			}
			if exp := exps[run.ExperienceID]; exp != nil {
				ref.Experience = &models.BookingExperienceRef{ID: exp.ID, Title: exp.Title, ExperienceDomain: exp.ExperienceDomain}
			}
			item.EventRun = ref
		}
		out = append(out, item)
	}
	return out, nil
}

func (s *DefaultBookingService) runsByID(ids []string) (map[string]models.EventRun, error) {
	runs, err := s.Runs.List(eventRunRepo.Query{IDs: ids})
	if err != nil {
		return nil, utils.ErrInternal(err, "Failed to load event runs")
	}
	out := make(map[string]models.EventRun, len(runs))
	for _, r := range runs {
		out[r.ID] = r
	}
	return out, nil
}

func (s *DefaultBookingService) GetBooking(userID, role, bookingID string) (*models.BookingResponse, error) {
	b, err := s.Bookings.GetByID(bookingID)
	if err != nil {
		return nil, utils.ErrInternal(err, "Failed to load booking")
	}
	if b == nil {
		return nil, utils.ErrNotFound("Booking not found")
	}
	if b.TravelerID != userID && role != models.RoleAdmin {
		return nil, utils.ErrForbidden("You don't have permission to view this booking")
	}
	return toResponse(b), nil
}
