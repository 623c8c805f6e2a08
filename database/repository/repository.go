package repository

import (
	"mayhouse/database"
	bookingRepo "mayhouse/database/repository/booking"
	designRepo "mayhouse/database/repository/design"
	eventRunRepo "mayhouse/database/repository/eventRun"
	experienceRepo "mayhouse/database/repository/experience"
	hostApplicationRepo "mayhouse/database/repository/hostApplication"
	legalRepo "mayhouse/database/repository/legal"
	photoRepo "mayhouse/database/repository/photo"
	userRepo "mayhouse/database/repository/user"
)

// ErrNotFound is returned by updates and deletes that match nothing.
var ErrNotFound = database.ErrNotFound

// Repositories bundles every store the services depend on.
type Repositories struct {
	Users            userRepo.UserRepository
	Experiences      experienceRepo.ExperienceRepository
	EventRuns        eventRunRepo.EventRunRepository
	Bookings         bookingRepo.BookingRepository
	HostApplications hostApplicationRepo.HostApplicationRepository
	Legal            legalRepo.LegalRepository
	DesignSessions   designRepo.DesignSessionRepository
	Photos           photoRepo.PhotoRepository
}

// NewMongoRepositories builds every repository on the shared Mongo client.
func NewMongoRepositories() *Repositories {
	return &Repositories{
		Users:            userRepo.NewMongoUserRepo(),
		Experiences:      experienceRepo.NewMongoExperienceRepo(),
		EventRuns:        eventRunRepo.NewMongoEventRunRepo(),
		Bookings:         bookingRepo.NewMongoBookingRepo(),
		HostApplications: hostApplicationRepo.NewMongoHostApplicationRepo(),
		Legal:            legalRepo.NewMongoLegalRepo(),
		DesignSessions:   designRepo.NewMongoDesignSessionRepo(),
		Photos:           photoRepo.NewMongoPhotoRepo(),
	}
}
