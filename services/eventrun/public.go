package eventrun

import (
	"time"

	eventRunRepo "mayhouse/database/repository/eventRun"
	"mayhouse/models"
	"mayhouse/utils"
)

// ListPublicEventRuns lists runs of approved experiences, soonest first.
func (s *DefaultEventRunService) ListPublicEventRuns(filter models.EventRunFilter) ([]models.EventRunSummary, error) {
	exps, err := s.Experiences.List(models.ExperienceFilter{
		Status:       models.ExperienceApproved,
		Domain:       filter.Domain,
		Neighborhood: filter.Neighborhood,
	})
	if err != nil {
		return nil, utils.ErrInternal(err, "Failed to load experiences")
	}
	expIDs := make([]string, 0, len(exps))
	for _, e := range exps {
		if filter.ExperienceID == "" || e.ID == filter.ExperienceID {
			expIDs = append(expIDs, e.ID)
		}
	}
	if len(expIDs) == 0 {
		return []models.EventRunSummary{}, nil
	}

	availableOnly := filter.AvailableOnly == nil || *filter.AvailableOnly
	q := eventRunRepo.Query{
		ExperienceIDs: expIDs,
		StartFrom:     filter.StartDate,
		StartTo:       filter.EndDate,
		Ascending:     true,
	}
	if filter.Status != "" {
		q.Statuses = []string{filter.Status}
	}
	if availableOnly {
		q.ExcludeStatuses = []string{models.EventRunSoldOut, models.EventRunCancelled}
	}
	runs, err := s.Runs.List(q)
	if err != nil {
		return nil, utils.ErrInternal(err, "Failed to list event runs")
	}
	all, err := s.summaries(runs)
	if err != nil {
		return nil, err
	}

	out := make([]models.EventRunSummary, 0, len(all))
	for _, sum := range all {
		if availableOnly && sum.AvailableSpots == 0 {
			continue
		}
		if filter.MinPrice != nil && sum.PriceINR < *filter.MinPrice {
			continue
		}
		if filter.MaxPrice != nil && sum.PriceINR > *filter.MaxPrice {
			continue
		}
		out = append(out, sum)
	}
	return paginate(out, limitOr(filter.Limit, 50), filter.Offset), nil
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit < len(items) {
		items = items[:limit]
	}
	return items
}

func (s *DefaultEventRunService) GetPublicEventRun(eventRunID string) (*models.EventRunResponse, error) {
	run, err := s.loadRun(eventRunID)
	if err != nil {
		return nil, err
	}
	return s.respond(run, false)
}

func (s *DefaultEventRunService) ListAllEventRuns(filter models.EventRunFilter) ([]models.EventRunSummary, error) {
	q := eventRunRepo.Query{
		HostID:    filter.HostID,
		StartFrom: filter.StartDate,
		StartTo:   filter.EndDate,
		Limit:     limitOr(filter.Limit, 50),
		Offset:    filter.Offset,
	}
	if filter.ExperienceID != "" {
		q.ExperienceIDs = []string{filter.ExperienceID}
	}
	if filter.Status != "" {
		q.Statuses = []string{filter.Status}
	}
	runs, err := s.Runs.List(q)
	if err != nil {
		return nil, utils.ErrInternal(err, "Failed to list event runs")
	}
	return s.summaries(runs)
}

func (s *DefaultEventRunService) GetEventRunDetails(eventRunID string) (*models.EventRunResponse, error) {
	run, err := s.loadRun(eventRunID)
	if err != nil {
		return nil, err
	}
	return s.respond(run, true)
}

func (s *DefaultEventRunService) ListEventRunBookings(eventRunID string) ([]models.DetailedBooking, error) {
	if _, err := s.loadRun(eventRunID); err != nil {
		return nil, err
	}
	bookings, err := s.Bookings.ListByEventRuns([]string{eventRunID})
	if err != nil {
		return nil, utils.ErrInternal(err, "Failed to load bookings")
	}
	return s.detailedBookings(bookings)
}

// SetEventRunStatus is the admin override; any status is allowed.
func (s *DefaultEventRunService) SetEventRunStatus(eventRunID, status string) (*models.EventRunResponse, error) {
	if _, err := s.loadRun(eventRunID); err != nil {
		return nil, err
	}
	fields := map[string]any{"status": status}
	if status == models.EventRunCompleted {
		fields["completed_at"] = time.Now().UTC()
	}
	if err := s.Runs.UpdateFields(eventRunID, fields); err != nil {
		return nil, utils.ErrInternal(err, "Failed to update event run status")
	}
	run, err := s.loadRun(eventRunID)
	if err != nil {
		return nil, err
	}
	return s.respond(run, true)
}

func (s *DefaultEventRunService) GetEventRunStats() (*models.EventRunStats, error) {
	runs, err := s.Runs.List(eventRunRepo.Query{})
	if err != nil {
		return nil, utils.ErrInternal(err, "Failed to compute event run stats")
	}
	stats := &models.EventRunStats{
		TotalEventRuns: len(runs),
		StatusCounts:   make(map[string]int, len(models.EventRunStatuses)),
	}
	for _, st := range models.EventRunStatuses {
		stats.StatusCounts[st] = 0
	}

	now := time.Now().UTC()
	week := now.Add(7 * 24 * time.Hour)
	ids := make([]string, 0, len(runs))
	for _, r := range runs {
		ids = append(ids, r.ID)
		stats.StatusCounts[r.Status]++
		stats.TotalCapacityOffered += r.MaxCapacity
		if r.Status != models.EventRunCancelled && r.StartDatetime.After(now) && r.StartDatetime.Before(week) {
			stats.UpcomingRuns7Days++
		}
	}
	stats.ScheduledRuns = stats.StatusCounts[models.EventRunScheduled]
	stats.CompletedRuns = stats.StatusCounts[models.EventRunCompleted]
	stats.CancelledRuns = stats.StatusCounts[models.EventRunCancelled]

	if len(ids) > 0 {
		booked, err := s.bookedByRun(ids)
		if err != nil {
			return nil, err
		}
		for _, n := range booked {
			stats.TotalSpotsBooked += n
		}
	}
	capacity := stats.TotalCapacityOffered
	if capacity < 1 {
		capacity = 1
	}
	stats.UtilizationRate = utils.RoundTo(float64(stats.TotalSpotsBooked)/float64(capacity)*100, 1)
	stats.AvgCapacityUtilization = stats.UtilizationRate
	return stats, nil
}
