package hostApplicationRepo

import "mayhouse/models"

// HostApplicationRepository defines methods for host application data access.
type HostApplicationRepository interface {
	Create(app *models.HostApplication) error
	// GetByID returns nil, nil when no application has the id.
	GetByID(id string) (*models.HostApplication, error)
	// LatestByUser returns the user's most recent application, optionally with a given status.
	LatestByUser(userID, status string) (*models.HostApplication, error)
	List(status string, limit, offset int) ([]models.HostApplication, error)
	UpdateFields(id string, fields map[string]any) error
}
