package experienceRepo

import "mayhouse/models"

// ExperienceRepository defines methods for experience data access.
type ExperienceRepository interface {
	Create(exp *models.Experience) error
	// GetByID returns nil, nil when no experience has the id.
	GetByID(id string) (*models.Experience, error)
	GetByIDs(ids []string) (map[string]*models.Experience, error)
	List(filter models.ExperienceFilter) ([]models.Experience, error)
	UpdateFields(id string, fields map[string]any) error
}
