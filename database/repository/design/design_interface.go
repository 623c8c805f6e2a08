package designRepo

import "mayhouse/models"

// DesignSessionRepository persists design wizard sessions. Every lookup is scoped to the host.
type DesignSessionRepository interface {
	Create(session *models.DesignSession) error
	// Get returns nil, nil unless a session with the id belongs to the host.
	Get(id, hostID string) (*models.DesignSession, error)
	GetByExperience(experienceID, hostID string) (*models.DesignSession, error)
	UpdateFields(id, hostID string, fields map[string]any) error
}
