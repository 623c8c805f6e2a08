package photoRepo

import "mayhouse/models"

// PhotoRepository defines methods for experience photo data access.
type PhotoRepository interface {
	Create(photo *models.ExperiencePhoto) error
	// GetByID returns nil, nil when the photo does not belong to the experience.
	GetByID(experienceID, photoID string) (*models.ExperiencePhoto, error)
	// ListByExperiences returns photos ordered by display_order.
	ListByExperiences(experienceIDs []string) ([]models.ExperiencePhoto, error)
	Count(experienceID string) (int, error)
	// UnsetCovers clears is_cover_photo on every photo of the experience except keepID.
	UnsetCovers(experienceID, keepID string) error
	UpdateFields(photoID string, fields map[string]any) error
	Delete(photoID string) error
}
