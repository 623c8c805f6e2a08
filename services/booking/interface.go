package booking

import (
	"context"
	"sync"

	bookingRepo "mayhouse/database/repository/booking"
	eventRunRepo "mayhouse/database/repository/eventRun"
	experienceRepo "mayhouse/database/repository/experience"
	"mayhouse/models"
	"mayhouse/services/payment"
	"mayhouse/services/tasks"
)

// SpotCounter reports how many seats a run has left.
type SpotCounter interface {
	AvailableSpots(run *models.EventRun) (int, error)
}

// BookingService prices, books and lists traveler bookings.
type BookingService interface {
	CalculateCost(eventRunID string, seatCount int) (*models.BookingCost, error)
	CreateBooking(ctx context.Context, userID string, req models.BookingCreate) (*models.BookingResponse, error)
	ListMyBookings(userID string) ([]models.BookingWithEventRun, error)
	// GetBooking returns the booking to its traveler; admins may read any booking.
	GetBooking(userID, role, bookingID string) (*models.BookingResponse, error)
}

type DefaultBookingService struct {
	Runs        eventRunRepo.EventRunRepository
	Experiences experienceRepo.ExperienceRepository
	Bookings    bookingRepo.BookingRepository
	Spots       SpotCounter
	Payments    payment.Processor
	Tasks       tasks.Enqueuer

	// mu serialises the seat check and insert.
	mu sync.Mutex
}
