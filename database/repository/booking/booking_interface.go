package bookingRepo

import "mayhouse/models"

// BookingRepository defines methods for booking data access.
type BookingRepository interface {
	Create(booking *models.Booking) error
	// GetByID returns nil, nil when no booking has the id.
	GetByID(id string) (*models.Booking, error)
	ListByTraveler(travelerID string) ([]models.Booking, error)
	// ListByEventRuns returns the bookings of the given runs, optionally restricted to statuses.
	ListByEventRuns(eventRunIDs []string, statuses ...string) ([]models.Booking, error)
	UpdateStatus(id, status string) error
}
