package experience

import (
	"context"
	"io"

	experienceRepo "mayhouse/database/repository/experience"
	photoRepo "mayhouse/database/repository/photo"
	"mayhouse/models"
	"mayhouse/services/storage"
)

// HostUpgrader promotes a plain user to host on first listing.
type HostUpgrader interface {
	UpgradeToHost(userID string) error
}

// ExperienceService manages experience listings through their review lifecycle.
type ExperienceService interface {
	// Host
	CreateExperience(hostID string, req models.ExperienceCreate) (*models.Experience, error)
	ListHostExperiences(hostID, status string) ([]models.Experience, error)
	GetHostExperience(hostID, experienceID string) (*models.Experience, error)
	UpdateExperience(hostID, experienceID string, req models.ExperienceUpdate) (*models.Experience, error)
	SubmitExperience(hostID, experienceID string, req models.ExperienceSubmission) (*models.Experience, error)
	DeleteExperience(hostID, experienceID string) error

	// Admin
	ListExperiences(status string, limit, offset int) ([]models.Experience, error)
	ListPendingExperiences() ([]models.Experience, error)
	GetExperience(experienceID string) (*models.Experience, error)
	ReviewExperience(adminID, experienceID string, req models.ExperienceReview) (*models.Experience, error)
	GetExperienceStats() (*models.ExperienceStats, error)

	// Photos
	UploadPhoto(ctx context.Context, userID, experienceID string, upload PhotoUpload) (*models.ExperiencePhotoUploadResponse, error)
	ListPhotos(experienceID string) ([]models.ExperiencePhoto, error)
	UpdatePhoto(userID, experienceID, photoID string, req models.ExperiencePhotoUpdate) (*models.ExperiencePhoto, error)
	DeletePhoto(ctx context.Context, userID, experienceID, photoID string) error
}

// PhotoUpload is a photo received as multipart form data.
type PhotoUpload struct {
	File         io.Reader
	Filename     string
	Size         int64
	IsCoverPhoto bool
	Caption      string
}

type DefaultExperienceService struct {
	Repo     experienceRepo.ExperienceRepository
	Photos   photoRepo.PhotoRepository
	Storage  storage.StorageService
	Upgrader HostUpgrader
}
