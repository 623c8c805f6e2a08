package userRepo

import (
	"mayhouse/models"
)

// UserRepository defines methods for user data access.
type UserRepository interface {
	// GetByID retrieves a user by its unique ID. Returns nil, nil when missing.
	GetByID(id string) (*models.User, error)
	// GetByIDs retrieves the users with the given IDs keyed by ID.
	GetByIDs(ids []string) (map[string]*models.User, error)
	// GetByEmail retrieves a user by its email address.
	GetByEmail(email string) (*models.User, error)
	// GetByUsername retrieves a user by username.
	GetByUsername(username string) (*models.User, error)
	// GetByWallet retrieves a user by lower-cased wallet address.
	GetByWallet(address string) (*models.User, error)
	// GetByGoogleID retrieves a user linked to a Google account.
	GetByGoogleID(googleID string) (*models.User, error)
	// Create inserts a new user record.
	Create(user *models.User) error
	// UpdateFields sets the given fields on a user and bumps updated_at.
	UpdateFields(id string, fields map[string]any) error
	// SetRole changes a user's role.
	SetRole(id, role string) error
}
