package eventrun

import (
	"mayhouse/models"
	"mayhouse/utils"
)

func limitOr(limit, def int) int {
	if limit <= 0 {
		return def
	}
	return limit
}

func travelers(bookings []models.Booking) int {
	n := 0
	for _, b := range bookings {
		if b.BookingStatus == models.BookingConfirmed || b.BookingStatus == models.BookingExperienceCompleted {
			n += b.TravelerCount
		}
	}
	return n
}

func spotsLeft(capacity, booked int) int {
	if left := capacity - booked; left > 0 {
		return left
	}
	return 0
}

func bookingSummary(run *models.EventRun, bookings []models.Booking) *models.EventRunBookingSummary {
	sum := &models.EventRunBookingSummary{TotalBookings: len(bookings)}
	for _, b := range bookings {
		if b.BookingStatus == models.BookingConfirmed {
			sum.ConfirmedBookings++
		}
	}
	sum.TotalTravelers = travelers(bookings)
	sum.AvailableSpots = spotsLeft(run.MaxCapacity, sum.TotalTravelers)
	return sum
}

// respond builds the full view of one run; detailed adds the traveler rows.
func (s *DefaultEventRunService) respond(run *models.EventRun, detailed bool) (*models.EventRunResponse, error) {
	exp, err := s.Experiences.GetByID(run.ExperienceID)
	if err != nil {
		return nil, utils.ErrInternal(err, "Failed to load experience")
	}
	host, err := s.Users.GetByID(run.HostID)
	if err != nil {
		return nil, utils.ErrInternal(err, "Failed to load host")
	}
	bookings, err := s.Bookings.ListByEventRuns([]string{run.ID})
	if err != nil {
		return nil, utils.ErrInternal(err, "Failed to load bookings")
	}

	summary := bookingSummary(run, bookings)
	resp := &models.EventRunResponse{
		EventRun:       *run,
		BookingSummary: summary,
		PriceINR:       run.EffectivePrice(exp),
		AvailableSpots: summary.AvailableSpots,
	}
	if exp != nil {
		resp.ExperienceTitle = exp.Title
		resp.ExperienceDomain = exp.ExperienceDomain
	}
	if host != nil {
		resp.HostName = host.FullName
	}
	if detailed {
		if resp.DetailedBookings, err = s.detailedBookings(bookings); err != nil {
			return nil, err
		}
	}
	return resp, nil
}

func (s *DefaultEventRunService) detailedBookings(bookings []models.Booking) ([]models.DetailedBooking, error) {
	ids := make([]string, 0, len(bookings))
	for _, b := range bookings {
		ids = append(ids, b.TravelerID)
	}
	users, err := s.Users.GetByIDs(ids)
	if err != nil {
		return nil, utils.ErrInternal(err, "Failed to load travelers")
	}

	out := make([]models.DetailedBooking, 0, len(bookings))
	for _, b := range bookings {
		row := models.DetailedBooking{
			ID:             b.ID,
			TravelerID:     b.TravelerID,
			TravelerCount:  b.TravelerCount,
			BookingStatus:  b.BookingStatus,
			TotalCostINR:   b.TotalExperienceCostINR,
			HostEarningINR: b.HostEarningsINR,
			CreatedAt:      b.CreatedAt,
		}
		if u := users[b.TravelerID]; u != nil {
			row.TravelerName = u.FullName
			row.TravelerEmail = u.Email
			row.TravelerPhone = u.Phone
		}
		out = append(out, row)
	}
	return out, nil
}

// summaries joins runs with their experiences and seat counts in two lookups.
func (s *DefaultEventRunService) summaries(runs []models.EventRun) ([]models.EventRunSummary, error) {
	out := make([]models.EventRunSummary, 0, len(runs))
	if len(runs) == 0 {
		return out, nil
	}
	runIDs := make([]string, 0, len(runs))
	expIDs := make([]string, 0, len(runs))
	for _, r := range runs {
		runIDs = append(runIDs, r.ID)
		expIDs = append(expIDs, r.ExperienceID)
	}
	exps, err := s.Experiences.GetByIDs(expIDs)
	if err != nil {
		return nil, utils.ErrInternal(err, "Failed to load experiences")
	}
	booked, err := s.bookedByRun(runIDs)
	if err != nil {
		return nil, err
	}

	for i := range runs {
		r := &runs[i]
		sum := models.EventRunSummary{
			ID:             r.ID,
			ExperienceID:   r.ExperienceID,
			StartDatetime:  r.StartDatetime,
			EndDatetime:    r.EndDatetime,
			MaxCapacity:    r.MaxCapacity,
			Status:         r.Status,
			AvailableSpots: spotsLeft(r.MaxCapacity, booked[r.ID]),
		}
		exp := exps[r.ExperienceID]
		sum.PriceINR = r.EffectivePrice(exp)
		if exp != nil {
			sum.ExperienceTitle = exp.Title
			sum.ExperienceDomain = exp.ExperienceDomain
			sum.Neighborhood = exp.Neighborhood
		}
		out = append(out, sum)
	}
	return out, nil
}

func (s *DefaultEventRunService) bookedByRun(runIDs []string) (map[string]int, error) {
	bookings, err := s.Bookings.ListByEventRuns(runIDs, models.SeatHoldingStatuses...)
	if err != nil {
		return nil, utils.ErrInternal(err, "Failed to load bookings")
	}
	out := make(map[string]int, len(runIDs))
	for _, b := range bookings {
		out[b.EventRunID] += b.TravelerCount
	}
	return out, nil
}
