package eventrun

import (
	"context"
	"time"

	eventRunRepo "mayhouse/database/repository/eventRun"
	"mayhouse/models"
	"mayhouse/services/tasks"
	"mayhouse/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (s *DefaultEventRunService) loadRun(eventRunID string) (*models.EventRun, error) {
	run, err := s.Runs.GetByID(eventRunID)
	if err != nil {
		return nil, utils.ErrInternal(err, "Failed to load event run")
	}
	if run == nil {
		return nil, utils.ErrNotFound("Event run not found")
	}
	return run, nil
}

func (s *DefaultEventRunService) ownedRun(hostID, eventRunID string) (*models.EventRun, error) {
	run, err := s.loadRun(eventRunID)
	if err != nil {
		return nil, err
	}
	if run.HostID != hostID {
		return nil, utils.ErrForbidden("You can only manage your own event runs")
	}
	return run, nil
}

func (s *DefaultEventRunService) CreateEventRun(ctx context.Context, hostID string, req models.EventRunCreate) (*models.EventRunResponse, error) {
	exp, err := s.Experiences.GetByID(req.ExperienceID)
	if err != nil {
		return nil, utils.ErrInternal(err, "Failed to load experience")
	}
	if exp == nil {
		return nil, utils.ErrNotFound("Experience not found")
	}
	if exp.HostID != hostID {
		return nil, utils.ErrForbidden("You can only schedule runs of your own experiences")
	}
	if exp.Status != models.ExperienceApproved {
		return nil, utils.ErrBadRequest("Event runs can only be scheduled for approved experiences. Current status: %s", exp.Status)
	}
	if !req.EndDatetime.After(req.StartDatetime) {
		return nil, utils.ErrBadRequest("end_datetime must be after start_datetime")
	}

	active, err := s.Runs.Count(eventRunRepo.Query{HostID: hostID, Statuses: models.ActiveEventRunStatuses})
	if err != nil {
		return nil, utils.ErrInternal(err, "Failed to check active event runs")
	}
	if active >= MaxActiveRunsPerHost {
		return nil, utils.ErrBadRequest("Maximum %d active event runs allowed per host. You currently have %d.", MaxActiveRunsPerHost, active)
	}

	run := &models.EventRun{
		ID:                      uuid.New().String(),
		ExperienceID:            exp.ID,
		HostID:                  hostID,
		StartDatetime:           req.StartDatetime.UTC(),
		EndDatetime:             req.EndDatetime.UTC(),
		MaxCapacity:             req.MaxCapacity,
		SpecialPricingINR:       specialPrice(req.SpecialPricingINR),
		Status:                  models.EventRunScheduled,
		HostMeetingInstructions: req.HostMeetingInstructions,
		GroupPairingEnabled:     req.GroupPairingEnabled,
	}
	if s.ChainEnabled {
		run.BlockchainStatus = models.ChainStatusPending
	}
	if err := s.Runs.Create(run); err != nil {
		return nil, utils.ErrInternal(err, "Failed to create event run")
	}
	utils.GetLogger().Info("Event run created", zap.String("eventRunID", run.ID), zap.String("hostID", hostID))

	if s.ChainEnabled {
		s.enqueueChainSync(ctx, run.ID)
	}
	return s.respond(run, false)
}

func (s *DefaultEventRunService) enqueueChainSync(ctx context.Context, eventRunID string) {
	task, opts, err := tasks.NewChainSyncTask(eventRunID)
	if err == nil {
		err = s.Tasks.Enqueue(ctx, task, opts...)
	}
	if err != nil {
		utils.GetLogger().Error("Failed to enqueue chain sync", zap.String("eventRunID", eventRunID), zap.Error(err))
	}
}

func (s *DefaultEventRunService) ListHostEventRuns(hostID string, filter models.EventRunFilter) ([]models.EventRunSummary, error) {
	q := eventRunRepo.Query{HostID: hostID, Limit: limitOr(filter.Limit, 50), Offset: filter.Offset}
	if filter.Status != "" {
		q.Statuses = []string{filter.Status}
	}
	runs, err := s.Runs.List(q)
	if err != nil {
		return nil, utils.ErrInternal(err, "Failed to list event runs")
	}
	return s.summaries(runs)
}

func (s *DefaultEventRunService) GetHostEventRun(hostID, eventRunID string) (*models.EventRunResponse, error) {
	run, err := s.ownedRun(hostID, eventRunID)
	if err != nil {
		return nil, err
	}
	return s.respond(run, true)
}

var hostSettableStatuses = map[string]bool{
	models.EventRunCancelled: true,
	models.EventRunCompleted: true,
}

func (s *DefaultEventRunService) UpdateEventRun(hostID, eventRunID string, req models.EventRunUpdate) (*models.EventRunResponse, error) {
	run, err := s.ownedRun(hostID, eventRunID)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	start, end := run.StartDatetime, run.EndDatetime
	if req.StartDatetime != nil {
		if !req.StartDatetime.After(time.Now()) {
			return nil, utils.ErrBadRequest("start_datetime must be in the future")
		}
		start = req.StartDatetime.UTC()
		fields["start_datetime"] = start
	}
	if req.EndDatetime != nil {
		end = req.EndDatetime.UTC()
		fields["end_datetime"] = end
	}
	if !end.After(start) {
		return nil, utils.ErrBadRequest("end_datetime must be after start_datetime")
	}
	if req.MaxCapacity != nil {
		booked, err := s.bookedTravelers(run.ID)
		if err != nil {
			return nil, err
		}
		if *req.MaxCapacity < booked {
			return nil, utils.ErrBadRequest("max_capacity cannot be below the %d travelers already booked", booked)
		}
		fields["max_capacity"] = *req.MaxCapacity
	}
	if req.SpecialPricingINR != nil {
		if p := specialPrice(req.SpecialPricingINR); p != nil {
			fields["special_pricing_inr"] = *p
		} else {
			fields["special_pricing_inr"] = nil
		}
	}
	if req.Status != nil {
		if !hostSettableStatuses[*req.Status] {
			return nil, utils.ErrBadRequest("Hosts can only set status to cancelled or completed")
		}
		fields["status"] = *req.Status
		if *req.Status == models.EventRunCompleted {
			fields["completed_at"] = time.Now().UTC()
		}
	}
	if req.HostMeetingInstructions != nil {
		fields["host_meeting_instructions"] = *req.HostMeetingInstructions
	}
	if req.GroupPairingEnabled != nil {
		fields["group_pairing_enabled"] = *req.GroupPairingEnabled
	}
	if len(fields) == 0 {
		return nil, utils.ErrBadRequest("No fields to update")
	}

	if err := s.Runs.UpdateFields(eventRunID, fields); err != nil {
		return nil, utils.ErrInternal(err, "Failed to update event run")
	}
	run, err = s.loadRun(eventRunID)
	if err != nil {
		return nil, err
	}
	return s.respond(run, true)
}

func (s *DefaultEventRunService) DeleteEventRun(hostID, eventRunID string) error {
	if _, err := s.ownedRun(hostID, eventRunID); err != nil {
		return err
	}
	confirmed, err := s.Bookings.ListByEventRuns([]string{eventRunID}, models.BookingConfirmed)
	if err != nil {
		return utils.ErrInternal(err, "Failed to check bookings")
	}
	if len(confirmed) > 0 {
		return utils.ErrBadRequest("Cannot delete event run with confirmed bookings. Cancel the event instead.")
	}
	if err := s.Runs.Delete(eventRunID); err != nil {
		return utils.ErrInternal(err, "Failed to delete event run")
	}
	utils.GetLogger().Info("Event run deleted", zap.String("eventRunID", eventRunID))
	return nil
}

func (s *DefaultEventRunService) AvailableSpots(run *models.EventRun) (int, error) {
	booked, err := s.bookedTravelers(run.ID)
	if err != nil {
		return 0, err
	}
	return spotsLeft(run.MaxCapacity, booked), nil
}

func (s *DefaultEventRunService) bookedTravelers(eventRunID string) (int, error) {
	bookings, err := s.Bookings.ListByEventRuns([]string{eventRunID}, models.SeatHoldingStatuses...)
	if err != nil {
		return 0, utils.ErrInternal(err, "Failed to load bookings")
	}
	return travelers(bookings), nil
}

func (s *DefaultEventRunService) CompletePastRuns(grace time.Duration) (int, error) {
	cutoff := time.Now().UTC().Add(-grace)
	n, err := s.Runs.UpdateStatusWhere(eventRunRepo.Query{
		Statuses:  models.ActiveEventRunStatuses,
		EndBefore: &cutoff,
	}, models.EventRunCompleted)
	if err != nil {
		return 0, utils.ErrInternal(err, "Failed to complete past event runs")
	}
	return n, nil
}

// specialPrice drops a zero override so the experience price applies.
func specialPrice(p *float64) *float64 {
	if p == nil || *p <= 0 {
		return nil
	}
	v := utils.RoundINR(*p)
	return &v
}
