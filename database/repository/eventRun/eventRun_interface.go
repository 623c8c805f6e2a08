package eventRunRepo

import (
	"time"

	"mayhouse/models"
)

// Query selects event runs. Zero fields are ignored.
type Query struct {
	IDs             []string
	HostID          string
	ExperienceIDs   []string
	Statuses        []string
	ExcludeStatuses []string
	StartFrom       *time.Time
	StartTo         *time.Time
	EndBefore       *time.Time
	// Ascending sorts by start_datetime ascending instead of descending.
	Ascending bool
	Limit     int
	Offset    int
}

// EventRunRepository defines methods for event run data access.
type EventRunRepository interface {
	Create(run *models.EventRun) error
	// GetByID returns nil, nil when no run has the id.
	GetByID(id string) (*models.EventRun, error)
	List(q Query) ([]models.EventRun, error)
	Count(q Query) (int, error)
	UpdateFields(id string, fields map[string]any) error
	// UpdateStatusWhere sets status on runs matching q and returns how many changed.
	UpdateStatusWhere(q Query, status string) (int, error)
	Delete(id string) error
}
