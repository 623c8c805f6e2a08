package booking

import (
	"mayhouse/models"
	"mayhouse/utils"
)

const (
	StakeRate       = 0.20
	PlatformFeeRate = 0.05
)

// ComputeCost breaks a booking down into price, refundable stake, fee and host share.
func ComputeCost(pricePerSeat float64, seatCount int) models.BookingCost {
	total := pricePerSeat * float64(seatCount)
	stake := total * StakeRate
	fee := total * PlatformFeeRate
	return models.BookingCost{
		SeatCount:    seatCount,
		PricePerSeat: utils.RoundINR(pricePerSeat),
		TotalPrice:   utils.RoundINR(total),
		StakeAmount:  utils.RoundINR(stake),
		TotalCost:    utils.RoundINR(total + stake),
		PlatformFee:  utils.RoundINR(fee),
		HostEarnings: utils.RoundINR(total - fee),
	}
}

func (s *DefaultBookingService) loadRunAndExperience(eventRunID string) (*models.EventRun, *models.Experience, error) {
	run, err := s.Runs.GetByID(eventRunID)
	if err != nil {
		return nil, nil, utils.ErrInternal(err, "Failed to load event run")
	}
	if run == nil {
		return nil, nil, utils.ErrNotFound("Event run not found")
	}
	exp, err := s.Experiences.GetByID(run.ExperienceID)
	if err != nil {
		return nil, nil, utils.ErrInternal(err, "Failed to load experience")
	}
	return run, exp, nil
}

func (s *DefaultBookingService) CalculateCost(eventRunID string, seatCount int) (*models.BookingCost, error) {
	run, exp, err := s.loadRunAndExperience(eventRunID)
	if err != nil {
		return nil, err
	}
	price := run.EffectivePrice(exp)
	if price <= 0 {
		return nil, utils.ErrBadRequest("Invalid pricing for this event run")
	}
	cost := ComputeCost(price, seatCount)
	cost.EventRunID = eventRunID
	return &cost, nil
}
