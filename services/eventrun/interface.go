package eventrun

import (
	"context"
	"time"

	bookingRepo "mayhouse/database/repository/booking"
	eventRunRepo "mayhouse/database/repository/eventRun"
	experienceRepo "mayhouse/database/repository/experience"
	userRepo "mayhouse/database/repository/user"
	"mayhouse/models"
	"mayhouse/services/tasks"
)

// MaxActiveRunsPerHost caps scheduled, low_seats and sold_out runs per host.
const MaxActiveRunsPerHost = 2

// EventRunService schedules runs of approved experiences and reports on them.
type EventRunService interface {
	// Host
	CreateEventRun(ctx context.Context, hostID string, req models.EventRunCreate) (*models.EventRunResponse, error)
	ListHostEventRuns(hostID string, filter models.EventRunFilter) ([]models.EventRunSummary, error)
	GetHostEventRun(hostID, eventRunID string) (*models.EventRunResponse, error)
	UpdateEventRun(hostID, eventRunID string, req models.EventRunUpdate) (*models.EventRunResponse, error)
	DeleteEventRun(hostID, eventRunID string) error

	// Public
	ListPublicEventRuns(filter models.EventRunFilter) ([]models.EventRunSummary, error)
	GetPublicEventRun(eventRunID string) (*models.EventRunResponse, error)

	// Admin
	ListAllEventRuns(filter models.EventRunFilter) ([]models.EventRunSummary, error)
	GetEventRunDetails(eventRunID string) (*models.EventRunResponse, error)
	ListEventRunBookings(eventRunID string) ([]models.DetailedBooking, error)
	SetEventRunStatus(eventRunID, status string) (*models.EventRunResponse, error)
	GetEventRunStats() (*models.EventRunStats, error)

	// AvailableSpots is max_capacity minus travelers on seat-holding bookings, floored at zero.
	AvailableSpots(run *models.EventRun) (int, error)
	// CompletePastRuns marks active runs that ended before now-grace as completed.
	CompletePastRuns(grace time.Duration) (int, error)
}

type DefaultEventRunService struct {
	Runs         eventRunRepo.EventRunRepository
	Experiences  experienceRepo.ExperienceRepository
	Bookings     bookingRepo.BookingRepository
	Users        userRepo.UserRepository
	Tasks        tasks.Enqueuer
	ChainEnabled bool
}
